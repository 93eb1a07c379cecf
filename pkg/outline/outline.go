// Package outline 把页面变体渲染为终端中可读的 markdown 大纲
//
// 大纲只包含内容记录本身（标题、正文、卡片、页脚）以及每个粒子场的配置，
// 用于在没有图形环境时检查内容。
package outline

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/gonewx/restoration/pkg/config"
)

// DefaultWidth 终端渲染的默认换行宽度
const DefaultWidth = 80

// Markdown 返回变体的 markdown 大纲，页脚年份取当前年份
func Markdown(site *config.SiteConfig) string {
	return markdown(site, time.Now().Year())
}

func markdown(site *config.SiteConfig, year int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", site.Brand)
	if site.Tagline != "" {
		fmt.Fprintf(&b, "*%s*\n\n", site.Tagline)
	}
	if len(site.Nav) > 0 {
		b.WriteString(linkList(site.Nav))
		b.WriteString("\n\n")
	}

	for i := range site.Sections {
		writeSection(&b, &site.Sections[i])
	}

	if lines := site.FooterLines(year); len(lines) > 0 {
		b.WriteString("---\n\n")
		for _, l := range lines {
			fmt.Fprintf(&b, "%s\n\n", l)
		}
	}
	return b.String()
}

func linkList(links []config.Link) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		label := l.Label
		if l.Primary {
			label = "**" + label + "**"
		}
		parts = append(parts, fmt.Sprintf("[%s](%s)", label, l.Href))
	}
	return strings.Join(parts, " · ")
}

func paragraph(b *strings.Builder, s string) {
	if s = strings.TrimSpace(s); s != "" {
		b.WriteString(s + "\n\n")
	}
}

func writeSection(b *strings.Builder, sec *config.Section) {
	title := sec.Title
	if title == "" {
		title = sec.ID
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	fmt.Fprintf(b, "`#%s` · %s\n\n", sec.ID, sec.Kind)

	paragraph(b, sec.Intro)
	paragraph(b, sec.Body)

	for _, bl := range sec.Bullets {
		fmt.Fprintf(b, "- **%s** %s\n", bl.Lead, bl.Text)
	}
	if len(sec.Bullets) > 0 {
		b.WriteString("\n")
	}

	for _, p := range sec.Pillars {
		heading := p.Title
		if p.Emoji != "" {
			heading = p.Emoji + " " + heading
		}
		if p.Subtitle != "" {
			heading += " · " + p.Subtitle
		}
		fmt.Fprintf(b, "### %s\n\n", heading)
		if p.Tagline != "" {
			fmt.Fprintf(b, "> %s\n\n", p.Tagline)
		}
		paragraph(b, p.Description)
		for _, item := range p.Bullets {
			fmt.Fprintf(b, "- %s\n", item)
		}
		if len(p.Bullets) > 0 {
			b.WriteString("\n")
		}
	}

	for _, q := range sec.Quotes {
		fmt.Fprintf(b, "### %s\n\n", q.Title)
		for _, line := range strings.Split(strings.TrimSpace(q.Text), "\n") {
			fmt.Fprintf(b, "> %s  \n", line)
		}
		b.WriteString("\n")
	}

	for _, p := range sec.Practices {
		fmt.Fprintf(b, "### %s\n\n", p.Title)
		for _, item := range p.Items {
			fmt.Fprintf(b, "- [ ] %s\n", item)
		}
		b.WriteString("\n")
	}

	for _, t := range sec.Tiles {
		line := "**" + t.Title + "**"
		if t.Emoji != "" {
			line = t.Emoji + " " + line
		}
		if t.Caption != "" {
			line += ": " + t.Caption
		}
		fmt.Fprintf(b, "- %s\n", line)
	}
	if len(sec.Tiles) > 0 {
		b.WriteString("\n")
	}

	if len(sec.Actions) > 0 {
		b.WriteString(linkList(sec.Actions))
		b.WriteString("\n\n")
	}
	if sec.Note != "" {
		fmt.Fprintf(b, "*%s*\n\n", strings.TrimSpace(sec.Note))
	}
	if f := sec.Particles; f != nil {
		fmt.Fprintf(b, "`particles: %d · speed %g · size %g · palette %s`\n\n",
			f.Count, f.Speed, f.Size, strings.Join(f.Palette, " "))
	}
}

// Render 用 glamour 渲染大纲，样式跟随终端
func Render(site *config.SiteConfig, width int) (string, error) {
	return render(Markdown(site), width, glamour.WithAutoStyle())
}

// RenderWithStyle 使用指定的 glamour 标准样式（如 "dark"、"notty"）渲染
func RenderWithStyle(site *config.SiteConfig, width int, style string) (string, error) {
	return render(Markdown(site), width, glamour.WithStandardStyle(style))
}

func render(md string, width int, style glamour.TermRendererOption) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render outline: %w", err)
	}
	return out, nil
}
