package systems

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/restoration/internal/svgpath"
	"github.com/gonewx/restoration/pkg/config"
	"github.com/gonewx/restoration/pkg/utils"
)

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// white returns a 1x1 white source image for solid triangles.
func white() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// IconMesh is one triangle batch of an icon: the fill or the stroke of one
// shape.
type IconMesh struct {
	Vertices []ebiten.Vertex
	Indices  []uint16
}

// DrawIcon draws a registry icon with its top-left corner at (x, y), scaled
// to a square of the given size. opacity multiplies every shape.
func DrawIcon(screen *ebiten.Image, icon *config.Icon, x, y, size, opacity float64) {
	src := white()
	op := &ebiten.DrawTrianglesOptions{
		FillRule:  ebiten.FillRuleNonZero,
		AntiAlias: true,
	}
	for _, mesh := range BuildIconMeshes(icon, x, y, size, opacity) {
		screen.DrawTriangles(mesh.Vertices, mesh.Indices, src, op)
	}
}

// BuildIconMeshes converts an icon into colored triangle meshes in screen
// coordinates. Gradient paints are evaluated per vertex along the icon's
// diagonal.
func BuildIconMeshes(icon *config.Icon, x, y, size, opacity float64) []IconMesh {
	if icon == nil || size <= 0 {
		return nil
	}
	viewBox := icon.ViewBox
	if viewBox <= 0 {
		viewBox = config.DefaultViewBox
	}
	scale := size / viewBox

	var meshes []IconMesh
	for i := range icon.Shapes {
		shape := &icon.Shapes[i]
		path := buildPath(shape.Segments(), x, y, scale)
		alpha := opacity * shape.EffectiveOpacity()

		if shape.Fill != "" {
			vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
			paintVertices(vs, icon, shape.Fill, alpha, x, y, scale, viewBox)
			meshes = append(meshes, IconMesh{Vertices: vs, Indices: is})
		}
		if shape.Stroke != "" {
			vs, is := path.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{
				Width:    float32(shape.StrokeWidth * scale),
				LineCap:  lineCap(shape.LineCap),
				LineJoin: vector.LineJoinRound,
			})
			paintVertices(vs, icon, shape.Stroke, alpha, x, y, scale, viewBox)
			meshes = append(meshes, IconMesh{Vertices: vs, Indices: is})
		}
	}
	return meshes
}

// buildPath maps path segments from icon space into screen space.
func buildPath(segs []svgpath.Segment, x, y, scale float64) *vector.Path {
	var path vector.Path
	pt := func(p svgpath.Point) (float32, float32) {
		return float32(x + p.X*scale), float32(y + p.Y*scale)
	}
	for _, seg := range segs {
		switch seg.Op {
		case svgpath.MoveTo:
			px, py := pt(seg.Pts[0])
			path.MoveTo(px, py)
		case svgpath.LineTo:
			px, py := pt(seg.Pts[0])
			path.LineTo(px, py)
		case svgpath.QuadTo:
			c1x, c1y := pt(seg.Pts[0])
			px, py := pt(seg.Pts[1])
			path.QuadTo(c1x, c1y, px, py)
		case svgpath.CubicTo:
			c1x, c1y := pt(seg.Pts[0])
			c2x, c2y := pt(seg.Pts[1])
			px, py := pt(seg.Pts[2])
			path.CubicTo(c1x, c1y, c2x, c2y, px, py)
		case svgpath.Close:
			path.Close()
		}
	}
	return &path
}

func paintVertices(vs []ebiten.Vertex, icon *config.Icon, paint string, alpha, x, y, scale, viewBox float64) {
	var solid color.RGBA
	gradient := paint == config.PaintGradient
	if !gradient {
		solid = utils.ParseHexColorOr(paint, utils.White)
	}

	for i := range vs {
		c := solid
		if gradient {
			ix := (float64(vs[i].DstX) - x) / scale
			iy := (float64(vs[i].DstY) - y) / scale
			c = icon.ColorAt((ix + iy) / (2 * viewBox))
		}
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(c.R) / 0xff
		vs[i].ColorG = float32(c.G) / 0xff
		vs[i].ColorB = float32(c.B) / 0xff
		vs[i].ColorA = float32(float64(c.A) / 0xff * alpha)
	}
}

func lineCap(name string) vector.LineCap {
	switch name {
	case "round":
		return vector.LineCapRound
	case "square":
		return vector.LineCapSquare
	}
	return vector.LineCapButt
}
