package scenes

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/restoration/pkg/config"
	"github.com/gonewx/restoration/pkg/utils"
)

// backgroundCells 是区块背景网格的每边单元数，径向与锥形渐变按顶点插值
const backgroundCells = 24

var (
	whiteOnce  sync.Once
	whitePixel *ebiten.Image
)

func white() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whitePixel = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whitePixel
}

// GradientColorAt 返回渐变在 t ∈ [0,1] 处的颜色，色标均匀分布
func GradientColorAt(g config.Gradient, t float64) color.NRGBA {
	switch len(g.Stops) {
	case 0:
		return color.NRGBA{}
	case 1:
		return toNRGBA(utils.ParseHexColorOr(g.Stops[0], utils.White))
	}
	t = utils.Clamp01(t)
	pos := t * float64(len(g.Stops)-1)
	i := min(int(pos), len(g.Stops)-2)
	c := utils.LerpColor(utils.ParseHexColorOr(g.Stops[i], utils.White), utils.ParseHexColorOr(g.Stops[i+1], utils.White), pos-float64(i))
	return toNRGBA(c)
}

// ParseHexColor 返回的是非预乘颜色
func toNRGBA(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// anchorPoint 把 "top-right" 之类的锚点映射到矩形内的相对坐标
func anchorPoint(anchor string) (float64, float64) {
	switch anchor {
	case "top":
		return 0.5, 0
	case "bottom":
		return 0.5, 1
	case "left":
		return 0, 0.5
	case "right":
		return 1, 0.5
	case "top-right":
		return 1, 0
	case "bottom-left":
		return 0, 1
	case "bottom-right":
		return 1, 1
	case "center":
		return 0.5, 0.5
	}
	return 0, 0
}

// GradientParam 返回矩形内一点在渐变上的位置 t ∈ [0,1]
//
//   - linear: 从锚点指向对边/对角
//   - radial: 到锚点的距离除以到最远角的距离
//   - conic: 绕锚点的角度，从正上方顺时针
func GradientParam(g config.Gradient, rx, ry, rw, rh, px, py float64) float64 {
	if rw <= 0 || rh <= 0 {
		return 0
	}
	u := (px - rx) / rw
	v := (py - ry) / rh
	ax, ay := anchorPoint(g.Anchor)

	switch g.Kind {
	case "radial":
		far := 0.0
		for _, c := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
			far = max(far, math.Hypot(c[0]-ax, c[1]-ay))
		}
		return utils.Clamp01(math.Hypot(u-ax, v-ay) / far)
	case "conic":
		angle := math.Atan2(u-ax, -(v - ay))
		if angle < 0 {
			angle += 2 * math.Pi
		}
		return angle / (2 * math.Pi)
	}

	// linear：方向从锚点指向中心的对称点
	dx, dy := 1-2*ax, 1-2*ay
	if dx == 0 && dy == 0 {
		return 0
	}
	// 投影到方向上并归一化到 [0,1]
	sx, sy := ax, ay
	ex, ey := ax+dx, ay+dy
	length := (ex-sx)*(ex-sx) + (ey-sy)*(ey-sy)
	return utils.Clamp01(((u-sx)*(ex-sx) + (v-sy)*(ey-sy)) / length)
}

func setVertexColor(v *ebiten.Vertex, c color.NRGBA, opacity float64) {
	v.SrcX = 1
	v.SrcY = 1
	v.ColorR = float32(c.R) / 0xff
	v.ColorG = float32(c.G) / 0xff
	v.ColorB = float32(c.B) / 0xff
	v.ColorA = float32(float64(c.A) / 0xff * opacity)
}

func trianglesOptions() *ebiten.DrawTrianglesOptions {
	return &ebiten.DrawTrianglesOptions{FillRule: ebiten.FillRuleNonZero, AntiAlias: true}
}

// backgroundMesh 构建覆盖矩形的网格，每个顶点按渐变着色
func backgroundMesh(x, y, w, h float64, g config.Gradient) ([]ebiten.Vertex, []uint16) {
	const n = backgroundCells
	vs := make([]ebiten.Vertex, 0, (n+1)*(n+1))
	is := make([]uint16, 0, n*n*6)
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			px := x + w*float64(i)/n
			py := y + h*float64(j)/n
			v := ebiten.Vertex{DstX: float32(px), DstY: float32(py)}
			setVertexColor(&v, GradientColorAt(g, GradientParam(g, x, y, w, h, px, py)), 1)
			vs = append(vs, v)
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			a := uint16(j*(n+1) + i)
			b := a + 1
			c := a + n + 1
			d := c + 1
			is = append(is, a, b, c, b, d, c)
		}
	}
	return vs, is
}

// drawBackground 绘制区块背景
func drawBackground(screen *ebiten.Image, x, y, w, h float64, g config.Gradient, fallback string) {
	if len(g.Stops) == 0 {
		if fallback == "" {
			return
		}
		g = config.Gradient{Stops: []string{fallback}}
	}
	if len(g.Stops) == 1 {
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), GradientColorAt(g, 0), false)
		return
	}
	vs, is := backgroundMesh(x, y, w, h, g)
	screen.DrawTriangles(vs, is, white(), trianglesOptions())
}

// roundedRectPath 构建圆角矩形路径
func roundedRectPath(x, y, w, h, r float64) *vector.Path {
	r = min(r, w/2, h/2)
	var p vector.Path
	x0, y0, x1, y1 := float32(x), float32(y), float32(x+w), float32(y+h)
	rr := float32(r)
	p.MoveTo(x0+rr, y0)
	p.LineTo(x1-rr, y0)
	p.ArcTo(x1, y0, x1, y0+rr, rr)
	p.LineTo(x1, y1-rr)
	p.ArcTo(x1, y1, x1-rr, y1, rr)
	p.LineTo(x0+rr, y1)
	p.ArcTo(x0, y1, x0, y1-rr, rr)
	p.LineTo(x0, y0+rr)
	p.ArcTo(x0, y0, x0+rr, y0, rr)
	p.Close()
	return &p
}

// drawCard 绘制圆角卡片：渐变填充加 1px 半透明描边
func drawCard(screen *ebiten.Image, x, y, w, h, radius float64, fill config.Gradient, border string) {
	path := roundedRectPath(x, y, w, h, radius)
	if len(fill.Stops) > 0 {
		vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
		for i := range vs {
			t := GradientParam(fill, x, y, w, h, float64(vs[i].DstX), float64(vs[i].DstY))
			setVertexColor(&vs[i], GradientColorAt(fill, t), 1)
		}
		screen.DrawTriangles(vs, is, white(), trianglesOptions())
	}
	if border != "" {
		vs, is := path.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: 1})
		c := utils.Fade(utils.ParseHexColorOr(border, utils.White), 0.25)
		for i := range vs {
			setVertexColor(&vs[i], c, 1)
		}
		screen.DrawTriangles(vs, is, white(), trianglesOptions())
	}
}

// fontSource 按样式与字号提供字体
type fontSource interface {
	Face(style utils.TextStyle, size float64) text.Face
}

// drawText 逐行绘制带样式的文本
func drawText(screen *ebiten.Image, fonts fontSource, e Element, offsetY, opacity float64) {
	c := utils.Fade(utils.ParseHexColorOr(e.Color, utils.White), opacity)
	for i, line := range e.Lines {
		lineY := e.Y - offsetY + float64(i)*e.LineHeight + (e.LineHeight-e.Size)/2

		width := 0.0
		for _, sp := range line {
			width += measureFace(fonts.Face(sp.Style, e.Size), sp.Text)
		}
		x := e.X
		switch e.Align {
		case AlignCenter:
			x += (e.W - width) / 2
		case AlignRight:
			x += e.W - width
		}

		for _, sp := range line {
			face := fonts.Face(sp.Style, e.Size)
			if face == nil {
				continue
			}
			op := &text.DrawOptions{}
			op.GeoM.Translate(x, lineY)
			op.ColorScale.ScaleWithColor(c)
			text.Draw(screen, sp.Text, face, op)
			x += measureFace(face, sp.Text)
		}
	}
}

func measureFace(face text.Face, s string) float64 {
	if face == nil || s == "" {
		return 0
	}
	w, _ := text.Measure(s, face, 0)
	return w
}
