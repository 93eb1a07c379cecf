package export

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gonewx/restoration/pkg/config"
)

// iconView 内联 SVG 图标
//
// 每次渲染都使用新的渐变 ID，同一页面中多次出现的图标不会互相引用。
type iconView struct {
	ViewBox    string
	Extent     string
	Size       float64
	GradientID string
	Stops      []stopView
	Shapes     []shapeView
}

type stopView struct {
	Offset string
	Color  string
}

type shapeView struct {
	D           string
	Fill        string
	Stroke      string
	StrokeWidth string
	LineCap     string
	Opacity     string
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// newIconView 把注册表中的图标转换为模板数据
func newIconView(icon *config.Icon, size float64) *iconView {
	vb := icon.ViewBox
	if vb == 0 {
		vb = config.DefaultViewBox
	}
	v := &iconView{
		ViewBox:    "0 0 " + formatNum(vb) + " " + formatNum(vb),
		Extent:     formatNum(vb),
		Size:       size,
		GradientID: "grad-" + icon.Name + "-" + uuid.NewString(),
	}

	n := len(icon.Gradient)
	for i, c := range icon.Gradient {
		offset := 0.0
		if n > 1 {
			offset = float64(i) / float64(n-1)
		}
		v.Stops = append(v.Stops, stopView{Offset: formatNum(offset), Color: c})
	}

	paint := func(p string) string {
		switch p {
		case "":
			return "none"
		case config.PaintGradient:
			return "url(#" + v.GradientID + ")"
		}
		return p
	}
	for i := range icon.Shapes {
		s := &icon.Shapes[i]
		sv := shapeView{
			D:       s.PathData(),
			Fill:    paint(s.Fill),
			Stroke:  paint(s.Stroke),
			LineCap: s.LineCap,
			Opacity: formatNum(s.EffectiveOpacity()),
		}
		if s.Stroke != "" {
			sv.StrokeWidth = formatNum(s.StrokeWidth)
		}
		v.Shapes = append(v.Shapes, sv)
	}
	return v
}

// renderIcon 执行 icon 模板，返回可直接嵌入页面的 SVG
func (r *renderer) renderIcon(name string, size float64) (template.HTML, error) {
	if name == "" || r.icons == nil {
		return "", nil
	}
	icon, err := r.icons.Get(name)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, "icon", newIconView(icon, size)); err != nil {
		return "", fmt.Errorf("failed to render icon %s: %w", name, err)
	}
	return template.HTML(b.String()), nil
}
