package export

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gonewx/restoration/internal/particle"
	"github.com/gonewx/restoration/pkg/config"
)

// 模板数据：所有 HTML/CSS 片段在这里生成，模板只负责结构

type pageView struct {
	Lang       string
	Title      string
	Brand      string
	Tagline    string
	RootStyle  template.CSS
	Logo       template.HTML
	FirstHref  string
	Nav        []linkView
	Sections   []sectionView
	Footer     []template.HTML
	FooterLogo template.HTML
	Accent     template.CSS
}

type linkView struct {
	Label   string
	Href    string
	Primary bool
	Style   template.CSS
}

type sectionView struct {
	ID         string
	Kind       string
	Title      template.HTML
	TitleStyle template.CSS
	Intro      template.HTML
	Body       template.HTML
	Note       template.HTML
	Background template.CSS
	Icon       template.HTML
	Actions    []linkView
	Tiles      []tileView
	Bullets    []bulletView
	Pillars    []pillarView
	Quotes     []quoteView
	Practices  []practiceView
	Field      *fieldView
}

type tileView struct {
	Emoji   string
	Title   template.HTML
	Caption template.HTML
	Style   template.CSS
}

type bulletView struct {
	Lead  string
	Text  template.HTML
	Style template.CSS
}

type pillarView struct {
	Emoji       string
	Title       string
	Subtitle    string
	Tagline     template.HTML
	Description template.HTML
	Bullets     []template.HTML
	Background  template.CSS
	Icon        template.HTML
}

type quoteView struct {
	Title      string
	Text       template.HTML
	Background template.CSS
}

type practiceView struct {
	Title string
	Items []template.HTML
	Style template.CSS
}

type fieldView struct {
	InstanceID string
	Class      string
	Style      template.CSS
	Particles  []particleView
}

type particleView struct {
	Style  template.CSS
	Timing template.CSS
}

func links(in []config.Link) []linkView {
	out := make([]linkView, 0, len(in))
	for _, l := range in {
		out = append(out, linkView{
			Label:   l.Label,
			Href:    l.Href,
			Primary: l.Primary,
			Style:   colorStyle("--link", l.Color),
		})
	}
	return out
}

func inlineAll(in []string) []template.HTML {
	out := make([]template.HTML, 0, len(in))
	for _, s := range in {
		out = append(out, inlineHTML(s))
	}
	return out
}

// newFieldView 渲染一个生成好的粒子场
func newFieldView(instanceID string, field particle.FieldSpec, area particle.AreaStyle) *fieldView {
	v := &fieldView{
		InstanceID: instanceID,
		Class:      area.Class,
		Style:      fieldStyle(area),
		Particles:  make([]particleView, 0, field.Len()),
	}
	for i, p := range field.Particles {
		v.Particles = append(v.Particles, particleView{
			Style:  particleStyle(p, field.BaseSize),
			Timing: timingStyle(p, i),
		})
	}
	return v
}

// buildPage 把站点记录转换为模板数据，为每个粒子场采样一次
func (r *renderer) buildPage(site *config.SiteConfig) (*pageView, error) {
	logo, err := r.renderIcon(site.Logo, 40)
	if err != nil {
		return nil, err
	}
	page := &pageView{
		Lang:      "en",
		Title:     site.Title,
		Brand:     site.Brand,
		Tagline:   site.Tagline,
		RootStyle: themeStyle(site.Theme),
		Logo:      logo,
		Nav:       links(site.Nav),
		Footer:    inlineAll(site.FooterLines(r.year)),
		Accent:    colorStyle("color", site.Footer.Accent),
	}
	if page.Title == "" {
		page.Title = site.Brand
	}
	if len(site.Sections) > 0 {
		page.FirstHref = "#" + site.Sections[0].ID
	}
	if site.Footer.Logo {
		if page.FooterLogo, err = r.renderIcon(site.Logo, 32); err != nil {
			return nil, err
		}
	}

	for i := range site.Sections {
		sec, err := r.buildSection(&site.Sections[i])
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", site.Sections[i].ID, err)
		}
		page.Sections = append(page.Sections, sec)
	}
	return page, nil
}

func (r *renderer) buildSection(sec *config.Section) (sectionView, error) {
	v := sectionView{
		ID:         sec.ID,
		Kind:       sec.Kind,
		Title:      inlineHTML(sec.Title),
		TitleStyle: colorStyle("color", sec.Accent),
		Intro:      inlineHTML(sec.Intro),
		Body:       inlineHTML(sec.Body),
		Note:       inlineHTML(sec.Note),
		Background: backgroundStyle(sec.Background),
		Actions:    links(sec.Actions),
	}

	var err error
	if v.Icon, err = r.renderIcon(sec.Icon, 56); err != nil {
		return v, err
	}
	for _, t := range sec.Tiles {
		v.Tiles = append(v.Tiles, tileView{
			Emoji:   t.Emoji,
			Title:   inlineHTML(t.Title),
			Caption: inlineHTML(t.Caption),
			Style:   colorStyle("--tile", t.Color),
		})
	}
	for _, b := range sec.Bullets {
		v.Bullets = append(v.Bullets, bulletView{
			Lead:  b.Lead,
			Text:  inlineHTML(b.Text),
			Style: colorStyle("color", b.Color),
		})
	}
	for _, p := range sec.Pillars {
		icon, err := r.renderIcon(p.Icon, 48)
		if err != nil {
			return v, err
		}
		v.Pillars = append(v.Pillars, pillarView{
			Emoji:       p.Emoji,
			Title:       p.Title,
			Subtitle:    p.Subtitle,
			Tagline:     inlineHTML(p.Tagline),
			Description: inlineHTML(p.Description),
			Bullets:     inlineAll(p.Bullets),
			Background:  backgroundStyle(p.Gradient),
			Icon:        icon,
		})
	}
	for _, q := range sec.Quotes {
		v.Quotes = append(v.Quotes, quoteView{
			Title:      q.Title,
			Text:       inlineHTML(strings.TrimSpace(q.Text)),
			Background: backgroundStyle(q.Gradient),
		})
	}
	for _, p := range sec.Practices {
		v.Practices = append(v.Practices, practiceView{
			Title: p.Title,
			Items: inlineAll(p.Items),
			Style: colorStyle("color", p.Color),
		})
	}

	if sec.Particles != nil {
		field, err := sec.Particles.Generate(r.rng)
		if err != nil {
			return v, err
		}
		v.Field = newFieldView(r.newID(), field, sec.Particles.Area)
	}
	return v, nil
}
