package scenes

import (
	"strings"

	"github.com/gonewx/restoration/internal/particle"
	"github.com/gonewx/restoration/pkg/components"
	"github.com/gonewx/restoration/pkg/config"
	"github.com/gonewx/restoration/pkg/utils"
)

// Measurer measures one line of text. Layout only depends on this interface
// so it can run without fonts or a GPU.
type Measurer interface {
	Measure(s string, style utils.TextStyle, size float64) float64
}

// ElementKind 页面元素类型
type ElementKind int

const (
	ElemText   ElementKind = iota // 已换行的文本
	ElemCard                      // 圆角卡片（渐变填充 + 描边）
	ElemButton                    // 按钮（可点击）
	ElemIcon                      // 图标注册表中的图标
	ElemDot                       // 彩色圆点
)

// Align 文本对齐
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Element 一个已定位的页面元素
//
// 区块内元素使用页面坐标，页头元素使用屏幕坐标。
type Element struct {
	Kind       ElementKind
	X, Y, W, H float64

	Lines      [][]utils.Span
	Size       float64
	LineHeight float64
	Color      string
	Align      Align

	Fill    config.Gradient
	Border  string
	Icon    string
	Href    string
	Primary bool
}

// Contains 判断点是否在元素范围内
func (e Element) Contains(x, y float64) bool {
	return x >= e.X && x < e.X+e.W && y >= e.Y && y < e.Y+e.H
}

// SectionBox 一个已布局的区块
type SectionBox struct {
	ID         string
	Kind       string
	Y, Height  float64
	Background config.Gradient
	Elements   []Element
	Particles  *particle.FieldConfig
}

// Bounds 返回粒子场容器的范围：覆盖整个区块（absolute inset-0）
func (s SectionBox) Bounds(width float64) components.BoundsComponent {
	return components.BoundsComponent{X: 0, Y: s.Y, Width: width, Height: s.Height}
}

// PageLayout 一个页面变体在给定宽度下的完整布局
type PageLayout struct {
	Width    float64
	Height   float64
	Header   []Element // 吸顶页头，屏幕坐标
	Sections []SectionBox
	Footer   SectionBox

	// Anchors 区块 ID → 让区块顶部紧贴页头下方的滚动位置
	Anchors map[string]float64
}

// Section 按 ID 查找已布局的区块
func (p *PageLayout) Section(id string) (SectionBox, bool) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return SectionBox{}, false
}

// MaxScroll 返回视口高度下的最大滚动位置
func (p *PageLayout) MaxScroll(viewportHeight float64) float64 {
	return max(0, p.Height-viewportHeight)
}

// AnchorScroll 返回 "#id" 形式链接的目标滚动位置
func (p *PageLayout) AnchorScroll(href string) (float64, bool) {
	id, ok := strings.CutPrefix(href, "#")
	if !ok {
		return 0, false
	}
	y, ok := p.Anchors[id]
	return y, ok
}

// HitTest 返回屏幕坐标 (x, y) 处可点击元素的链接
// 页头在最上层，先于区块检测
func (p *PageLayout) HitTest(x, y, scrollY float64) (string, bool) {
	for _, e := range p.Header {
		if e.Href != "" && e.Contains(x, y) {
			return e.Href, true
		}
	}
	if y < config.HeaderHeight {
		return "", false
	}
	pageY := y + scrollY
	for _, s := range p.Sections {
		if pageY < s.Y || pageY >= s.Y+s.Height {
			continue
		}
		for _, e := range s.Elements {
			if e.Href != "" && e.Contains(x, pageY) {
				return e.Href, true
			}
		}
	}
	return "", false
}

// Layout spacing (布局间距)
const (
	titleGap     = 16.0
	blockGap     = 24.0
	buttonHeight = 44.0
	buttonPadX   = 20.0
	buttonGap    = 12.0
	tileHeight   = 88.0
	dotRadius    = 8.0
	bulletIndent = 20.0
	footerPadY   = 40.0
)

// LayoutPage lays a site out for the given window width. year replaces the
// footer placeholder.
func LayoutPage(site *config.SiteConfig, m Measurer, width float64, year int) *PageLayout {
	x, w := config.ContentColumn(width)
	b := &layoutBuilder{site: site, m: m, x: x, w: w}

	page := &PageLayout{
		Width:   width,
		Header:  b.header(),
		Anchors: make(map[string]float64, len(site.Sections)),
	}

	y := config.HeaderHeight
	for i := range site.Sections {
		sec := &site.Sections[i]
		box := b.section(sec, y)
		page.Sections = append(page.Sections, box)
		page.Anchors[sec.ID] = max(0, box.Y-config.HeaderHeight)
		y += box.Height
	}
	page.Footer = b.footer(y, year)
	page.Height = y + page.Footer.Height
	return page
}

type layoutBuilder struct {
	site *config.SiteConfig
	m    Measurer
	x, w float64
}

func (b *layoutBuilder) lineHeight(size float64) float64 {
	return size * config.LineHeightRatio
}

func (b *layoutBuilder) measureFunc(size float64) utils.StyledMeasureFunc {
	return func(s string, style utils.TextStyle) float64 {
		return b.m.Measure(s, style, size)
	}
}

// text wraps spans into a text element of the given width.
func (b *layoutBuilder) text(spans []utils.Span, x, y, w, size float64, color string, align Align) Element {
	lines := utils.WrapSpans(spans, b.measureFunc(size), w)
	lh := b.lineHeight(size)
	return Element{
		Kind:       ElemText,
		X:          x,
		Y:          y,
		W:          w,
		H:          float64(len(lines)) * lh,
		Lines:      lines,
		Size:       size,
		LineHeight: lh,
		Color:      color,
		Align:      align,
	}
}

func bold(s string) []utils.Span {
	return []utils.Span{{Text: s, Style: utils.StyleBold}}
}

func italic(s string) []utils.Span {
	return []utils.Span{{Text: s, Style: utils.StyleItalic}}
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func (b *layoutBuilder) header() []Element {
	theme := b.site.Theme
	var elems []Element

	textX := b.x
	if b.site.Logo != "" {
		elems = append(elems, Element{
			Kind: ElemIcon,
			X:    b.x,
			Y:    (config.HeaderHeight - config.LogoSize) / 2,
			W:    config.LogoSize,
			H:    config.LogoSize,
			Icon: b.site.Logo,
			Href: "#" + b.firstSectionID(),
		})
		textX += config.LogoSize + 12
	}

	size := config.FontSizeBody + 2
	brand := b.text(bold(b.site.Brand), textX, 0, b.w/2, size, theme.Text, AlignLeft)
	brand.Y = (config.HeaderHeight - brand.H) / 2
	elems = append(elems, brand)

	// 导航链接靠右排列
	right := b.x + b.w
	for i := len(b.site.Nav) - 1; i >= 0; i-- {
		link := b.site.Nav[i]
		lw := b.m.Measure(link.Label, utils.StyleRegular, config.FontSizeBody)
		right -= lw
		lh := b.lineHeight(config.FontSizeBody)
		elems = append(elems, Element{
			Kind:       ElemText,
			X:          right,
			Y:          (config.HeaderHeight - lh) / 2,
			W:          lw,
			H:          lh,
			Lines:      [][]utils.Span{{{Text: link.Label}}},
			Size:       config.FontSizeBody,
			LineHeight: lh,
			Color:      orDefault(link.Color, theme.Muted),
			Href:       link.Href,
		})
		right -= blockGap
	}
	return elems
}

func (b *layoutBuilder) firstSectionID() string {
	if len(b.site.Sections) == 0 {
		return ""
	}
	return b.site.Sections[0].ID
}

func (b *layoutBuilder) section(sec *config.Section, top float64) SectionBox {
	box := SectionBox{
		ID:         sec.ID,
		Kind:       sec.Kind,
		Y:          top,
		Background: sec.Background,
		Particles:  sec.Particles,
	}

	theme := b.site.Theme
	y := top + config.SectionPaddingY
	add := func(e Element, gap float64) {
		box.Elements = append(box.Elements, e)
		y = e.Y + e.H + gap
	}

	titleSize := config.FontSizeTitle
	if sec.Kind == config.KindHero {
		titleSize = config.FontSizeHero
	}
	if sec.Title != "" {
		align := AlignLeft
		if sec.Kind == config.KindStatement {
			align = AlignCenter
		}
		add(b.text(bold(sec.Title), b.x, y, b.w, titleSize, orDefault(sec.Accent, theme.Text), align), titleGap)
	}
	if sec.Intro != "" {
		add(b.text(utils.ParseInline(sec.Intro), b.x, y, b.w, config.FontSizeBody, theme.Muted, AlignLeft), blockGap)
	}
	if sec.Body != "" {
		size := config.FontSizeBody * 1.2
		align := AlignLeft
		if sec.Kind == config.KindStatement {
			align = AlignCenter
		}
		add(b.text(utils.ParseInline(sec.Body), b.x, y, b.w, size, theme.Text, align), blockGap)
	}

	for _, bl := range sec.Bullets {
		lh := b.lineHeight(config.FontSizeBody)
		box.Elements = append(box.Elements, Element{
			Kind:  ElemDot,
			X:     b.x + dotRadius/2,
			Y:     y + lh/2 - dotRadius/2,
			W:     dotRadius,
			H:     dotRadius,
			Color: orDefault(bl.Color, theme.Accent),
		})
		spans := append(bold(bl.Lead+" "), utils.ParseInline(bl.Text)...)
		add(b.text(spans, b.x+bulletIndent, y, b.w-bulletIndent, config.FontSizeBody, theme.Text, AlignLeft), 8)
	}
	if len(sec.Bullets) > 0 {
		y += blockGap - 8
	}

	// 行动区的按钮在练习清单之后，其余区块在正文之后
	if len(sec.Actions) > 0 && sec.Kind != config.KindPractices {
		y = b.actions(&box, sec.Actions, y) + blockGap
	}

	switch sec.Kind {
	case config.KindPillars:
		y = b.pillars(&box, sec.Pillars, y)
	case config.KindQuotes:
		y = b.quotes(&box, sec.Quotes, y)
	case config.KindPractices:
		y = b.practices(&box, sec.Practices, y)
		if len(sec.Actions) > 0 {
			y = b.actions(&box, sec.Actions, y) + blockGap
		}
	}
	if len(sec.Tiles) > 0 {
		y = b.tiles(&box, sec.Tiles, y)
	}

	if sec.Note != "" {
		add(b.text(utils.ParseInline(sec.Note), b.x, y, b.w, config.FontSizeSmall, theme.Muted, AlignLeft), blockGap)
	}

	// 最后一个块之后的间距由区块内边距代替
	y -= blockGap
	if y < top+config.SectionPaddingY {
		y = top + config.SectionPaddingY
	}
	box.Height = y + config.SectionPaddingY - top
	return box
}

// actions lays buttons out in a row and returns the y below them.
func (b *layoutBuilder) actions(box *SectionBox, links []config.Link, y float64) float64 {
	theme := b.site.Theme
	x := b.x
	lh := b.lineHeight(config.FontSizeBody)
	for _, link := range links {
		lw := b.m.Measure(link.Label, utils.StyleBold, config.FontSizeBody)
		w := lw + 2*buttonPadX
		if x > b.x && x+w > b.x+b.w {
			x = b.x
			y += buttonHeight + buttonGap
		}
		fill := config.Gradient{Kind: "linear"}
		border := theme.Muted
		if link.Primary {
			fill.Stops = []string{orDefault(link.Color, theme.Accent)}
			border = ""
		}
		box.Elements = append(box.Elements, Element{
			Kind:       ElemButton,
			X:          x,
			Y:          y,
			W:          w,
			H:          buttonHeight,
			Lines:      [][]utils.Span{bold(link.Label)},
			Size:       config.FontSizeBody,
			LineHeight: lh,
			Color:      theme.Text,
			Align:      AlignCenter,
			Fill:       fill,
			Border:     border,
			Href:       link.Href,
			Primary:    link.Primary,
		})
		x += w + buttonGap
	}
	return y + buttonHeight
}

// card collects the elements of one grid card. The card background is
// inserted in front once the content height is known.
type card struct {
	x, y, w float64
	fill    config.Gradient
	elems   []Element
	bottom  float64
}

func (c *card) add(e Element, gap float64) {
	c.elems = append(c.elems, e)
	c.bottom = e.Y + e.H + gap
}

// grid places cards in one row of equal-height columns and returns the y
// below the row.
func (b *layoutBuilder) grid(box *SectionBox, n int, y float64, build func(i int, c *card)) float64 {
	if n == 0 {
		return y
	}
	colW := config.GridColumnWidth(b.w, n)
	cards := make([]*card, n)
	height := 0.0
	for i := range cards {
		c := &card{x: b.x + float64(i)*(colW+config.GridGap), y: y, w: colW}
		c.bottom = y + config.CardPadding
		build(i, c)
		height = max(height, c.bottom-y)
		cards[i] = c
	}
	height += config.CardPadding

	theme := b.site.Theme
	for _, c := range cards {
		fill := c.fill
		if len(fill.Stops) == 0 {
			fill = config.Gradient{Kind: "linear", Stops: []string{theme.Surface}}
		}
		box.Elements = append(box.Elements, Element{
			Kind:   ElemCard,
			X:      c.x,
			Y:      c.y,
			W:      c.w,
			H:      height,
			Fill:   fill,
			Border: theme.Muted,
		})
		box.Elements = append(box.Elements, c.elems...)
	}
	return y + height + blockGap
}

func (b *layoutBuilder) pillars(box *SectionBox, pillars []config.Pillar, y float64) float64 {
	theme := b.site.Theme
	return b.grid(box, len(pillars), y, func(i int, c *card) {
		p := pillars[i]
		c.fill = p.Gradient
		innerX := c.x + config.CardPadding
		innerW := c.w - 2*config.CardPadding

		titleW := innerW
		if p.Icon != "" {
			c.elems = append(c.elems, Element{
				Kind: ElemIcon,
				X:    c.x + c.w - config.CardPadding - config.SigilSize,
				Y:    c.bottom,
				W:    config.SigilSize,
				H:    config.SigilSize,
				Icon: p.Icon,
			})
			titleW -= config.SigilSize + 8
		}
		c.add(b.text(bold(p.Title), innerX, c.bottom, titleW, config.FontSizeCard, theme.Text, AlignLeft), 4)
		if p.Subtitle != "" {
			c.add(b.text(utils.ParseInline(p.Subtitle), innerX, c.bottom, titleW, config.FontSizeSmall, theme.Muted, AlignLeft), 8)
		}
		if p.Icon != "" {
			c.bottom = max(c.bottom, c.y+config.CardPadding+config.SigilSize+8)
		}
		if p.Tagline != "" {
			c.add(b.text(italic(p.Tagline), innerX, c.bottom, innerW, config.FontSizeBody, theme.Text, AlignLeft), 8)
		}
		if p.Description != "" {
			c.add(b.text(utils.ParseInline(p.Description), innerX, c.bottom, innerW, config.FontSizeBody, theme.Muted, AlignLeft), 8)
		}
		for _, bullet := range p.Bullets {
			spans := append([]utils.Span{{Text: "• "}}, utils.ParseInline(bullet)...)
			c.add(b.text(spans, innerX, c.bottom, innerW, config.FontSizeBody, theme.Muted, AlignLeft), 4)
		}
	})
}

func (b *layoutBuilder) quotes(box *SectionBox, quotes []config.Quote, y float64) float64 {
	theme := b.site.Theme
	return b.grid(box, len(quotes), y, func(i int, c *card) {
		q := quotes[i]
		c.fill = q.Gradient
		innerX := c.x + config.CardPadding
		innerW := c.w - 2*config.CardPadding
		c.add(b.text(bold(q.Title), innerX, c.bottom, innerW, config.FontSizeCard, theme.Text, AlignLeft), 8)
		c.add(b.text(utils.ParseInline(q.Text), innerX, c.bottom, innerW, config.FontSizeBody, theme.Text, AlignLeft), 0)
	})
}

func (b *layoutBuilder) practices(box *SectionBox, practices []config.Practice, y float64) float64 {
	theme := b.site.Theme
	return b.grid(box, len(practices), y, func(i int, c *card) {
		p := practices[i]
		innerX := c.x + config.CardPadding
		innerW := c.w - 2*config.CardPadding
		c.add(b.text(bold(p.Title), innerX, c.bottom, innerW, config.FontSizeCard, orDefault(p.Color, theme.Text), AlignLeft), 8)
		for _, item := range p.Items {
			spans := append([]utils.Span{{Text: "• "}}, utils.ParseInline(item)...)
			c.add(b.text(spans, innerX, c.bottom, innerW, config.FontSizeBody, theme.Text, AlignLeft), 4)
		}
	})
}

func (b *layoutBuilder) tiles(box *SectionBox, tiles []config.Tile, y float64) float64 {
	theme := b.site.Theme
	return b.grid(box, len(tiles), y, func(i int, c *card) {
		t := tiles[i]
		innerX := c.x + config.CardPadding
		innerW := c.w - 2*config.CardPadding
		c.elems = append(c.elems, Element{
			Kind:  ElemDot,
			X:     innerX,
			Y:     c.bottom,
			W:     2 * dotRadius,
			H:     2 * dotRadius,
			Color: orDefault(t.Color, theme.Accent),
		})
		c.bottom += 2*dotRadius + 8
		c.add(b.text(bold(t.Title), innerX, c.bottom, innerW, config.FontSizeBody, theme.Text, AlignLeft), 2)
		if t.Caption != "" {
			c.add(b.text(utils.ParseInline(t.Caption), innerX, c.bottom, innerW, config.FontSizeSmall, theme.Muted, AlignLeft), 0)
		}
		c.bottom = max(c.bottom, c.y+tileHeight-config.CardPadding)
	})
}

func (b *layoutBuilder) footer(top float64, year int) SectionBox {
	theme := b.site.Theme
	box := SectionBox{ID: "footer", Kind: "footer", Y: top}
	y := top + footerPadY

	if b.site.Footer.Logo && b.site.Logo != "" {
		box.Elements = append(box.Elements, Element{
			Kind: ElemIcon,
			X:    b.x + (b.w-config.LogoSize)/2,
			Y:    y,
			W:    config.LogoSize,
			H:    config.LogoSize,
			Icon: b.site.Logo,
		})
		y += config.LogoSize + titleGap
	}
	for i, line := range b.site.FooterLines(year) {
		color := theme.Muted
		if i == 0 && b.site.Footer.Accent != "" {
			color = b.site.Footer.Accent
		}
		e := b.text(utils.ParseInline(line), b.x, y, b.w, config.FontSizeSmall, color, AlignCenter)
		box.Elements = append(box.Elements, e)
		y = e.Y + e.H + 4
	}

	box.Height = max(y+footerPadY-top, config.FooterHeight)
	return box
}
