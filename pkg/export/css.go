package export

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gonewx/restoration/internal/particle"
	"github.com/gonewx/restoration/pkg/config"
	"github.com/gonewx/restoration/pkg/utils"
)

// anchorWords 把 "top-right" 转换为 CSS 的 "top right"
func anchorWords(anchor string) string {
	if anchor == "" {
		return "center"
	}
	return strings.ReplaceAll(anchor, "-", " ")
}

// oppositeSide 线性渐变从锚点指向对侧
func oppositeSide(anchor string) string {
	if anchor == "" {
		anchor = "top-left"
	}
	flip := map[string]string{
		"top":    "bottom",
		"bottom": "top",
		"left":   "right",
		"right":  "left",
	}
	var parts []string
	for _, p := range strings.Split(anchor, "-") {
		if o, ok := flip[p]; ok {
			parts = append(parts, o)
		}
	}
	if len(parts) == 0 {
		return "bottom"
	}
	return strings.Join(parts, " ")
}

// cssGradient 返回渐变的 CSS background 值
//
// 颜色已在加载内容时校验过，可以直接作为 template.CSS 输出。
func cssGradient(g config.Gradient) template.CSS {
	switch len(g.Stops) {
	case 0:
		return ""
	case 1:
		return template.CSS(g.Stops[0])
	}
	stops := strings.Join(g.Stops, ", ")
	switch g.Kind {
	case "radial":
		return template.CSS(fmt.Sprintf("radial-gradient(ellipse at %s, %s)", anchorWords(g.Anchor), stops))
	case "conic":
		return template.CSS(fmt.Sprintf("conic-gradient(from 0deg at %s, %s)", anchorWords(g.Anchor), stops))
	}
	return template.CSS(fmt.Sprintf("linear-gradient(to %s, %s)", oppositeSide(g.Anchor), stops))
}

// inlineHTML 把行内 markdown（**粗体**、*斜体*）转换为 HTML
func inlineHTML(s string) template.HTML {
	var b strings.Builder
	for _, sp := range utils.ParseInline(s) {
		text := template.HTMLEscapeString(sp.Text)
		switch sp.Style {
		case utils.StyleBold:
			b.WriteString("<strong>" + text + "</strong>")
		case utils.StyleItalic:
			b.WriteString("<em>" + text + "</em>")
		default:
			b.WriteString(text)
		}
	}
	return template.HTML(b.String())
}

func cssNum(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

// particleStyle 生成一个粒子的内联样式
//
// 元素边长为场的基础尺寸，缩放 --s 与峰值不透明度 --o 由 restoration-glow
// 关键帧使用，峰值时的直径等于 ParticleSpec.Diameter。
func particleStyle(p particle.ParticleSpec, baseSize float64) template.CSS {
	d := cssNum(baseSize)
	return template.CSS(fmt.Sprintf(
		"left:%s%%;top:%s%%;width:%spx;height:%spx;background:%s;box-shadow:0 0 12px %s55;--s:%s;--o:%s",
		cssNum(p.X*100), cssNum(p.Y*100), d, d, p.Color, p.Color, cssNum(p.Scale), cssNum(p.PeakOpacity)))
}

// backgroundStyle 返回 "background:..." 声明，没有色标时为空
func backgroundStyle(g config.Gradient) template.CSS {
	v := cssGradient(g)
	if v == "" {
		return ""
	}
	return "background:" + v
}

// themeStyle 把主题颜色写成根元素上的自定义属性
func themeStyle(t config.Theme) template.CSS {
	var b strings.Builder
	for _, kv := range [][2]string{
		{"--bg", t.Background},
		{"--surface", t.Surface},
		{"--text", t.Text},
		{"--muted", t.Muted},
		{"--accent", t.Accent},
		{"--selection", t.Selection},
	} {
		if kv[1] == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(';')
		}
		b.WriteString(kv[0] + ":" + kv[1])
	}
	return template.CSS(b.String())
}

// timingStyle 生成周期与相位延迟，漂移层和粒子共用
func timingStyle(p particle.ParticleSpec, index int) template.CSS {
	return template.CSS(fmt.Sprintf("animation-duration:%ss;animation-delay:%ss",
		cssNum(p.Duration), cssNum(particle.PhaseDelay(index))))
}

// fieldStyle 粒子场容器的不透明度
func fieldStyle(area particle.AreaStyle) template.CSS {
	if area.Opacity == 0 || area.Opacity == 1 {
		return ""
	}
	return template.CSS("opacity:" + cssNum(area.Opacity))
}

// colorStyle 返回 "color:#xxxxxx"，空颜色返回空
func colorStyle(prop, c string) template.CSS {
	if c == "" {
		return ""
	}
	return template.CSS(prop + ":" + c)
}
