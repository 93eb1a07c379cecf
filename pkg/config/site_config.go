package config

import (
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/restoration/internal/particle"
	"github.com/gonewx/restoration/pkg/utils"
)

// Section kinds (区块类型)
const (
	KindHero       = "hero"
	KindPillars    = "pillars"
	KindPhilosophy = "philosophy"
	KindStatement  = "statement"
	KindQuotes     = "quotes"
	KindPractices  = "practices"
)

var knownKinds = map[string]bool{
	KindHero:       true,
	KindPillars:    true,
	KindPhilosophy: true,
	KindStatement:  true,
	KindQuotes:     true,
	KindPractices:  true,
}

// YearPlaceholder 在页脚文本中被替换为当前年份
const YearPlaceholder = "{year}"

// SiteConfig 一个页面变体的完整内容描述
//
// 内容记录是不可变的：渲染器（预览、HTML 导出、终端大纲）只读取它。
// 正文字段使用行内 markdown：**粗体** 与 *斜体*。
//
// 配置文件位置: data/site/<id>.yaml
type SiteConfig struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Brand    string    `yaml:"brand"`
	Tagline  string    `yaml:"tagline"`
	Logo     string    `yaml:"logo"`
	Theme    Theme     `yaml:"theme"`
	Nav      []Link    `yaml:"nav"`
	Sections []Section `yaml:"sections"`
	Footer   Footer    `yaml:"footer"`
}

// Theme 页面基础配色
type Theme struct {
	Background string `yaml:"background"`
	Surface    string `yaml:"surface"`
	Text       string `yaml:"text"`
	Muted      string `yaml:"muted"`
	Accent     string `yaml:"accent"`
	Selection  string `yaml:"selection"`
}

// Link 导航链接或行动按钮，Href 指向区块锚点（如 "#trilogy"）
type Link struct {
	Label   string `yaml:"label"`
	Href    string `yaml:"href"`
	Primary bool   `yaml:"primary"`
	Color   string `yaml:"color"`
}

// Gradient 背景渐变
//
// Kind 为 linear / radial / conic；Anchor 描述渐变起点（如 "top-right"）。
type Gradient struct {
	Kind   string   `yaml:"kind"`
	Anchor string   `yaml:"anchor"`
	Stops  []string `yaml:"stops"`
}

// Section 页面区块
type Section struct {
	ID         string     `yaml:"id"`
	Kind       string     `yaml:"kind"`
	Title      string     `yaml:"title"`
	Accent     string     `yaml:"accent"`
	Intro      string     `yaml:"intro"`
	Body       string     `yaml:"body"`
	Note       string     `yaml:"note"`
	Background Gradient   `yaml:"background"`
	Icon       string     `yaml:"icon"`
	Actions    []Link     `yaml:"actions"`
	Tiles      []Tile     `yaml:"tiles"`
	Bullets    []Bullet   `yaml:"bullets"`
	Pillars    []Pillar   `yaml:"pillars"`
	Quotes     []Quote    `yaml:"quotes"`
	Practices  []Practice `yaml:"practices"`

	// Particles 为空表示该区块没有粒子场
	Particles *particle.FieldConfig `yaml:"particles"`
}

// Tile 三联小卡片（英雄区徽记与哲学区网格）
type Tile struct {
	Emoji   string `yaml:"emoji"`
	Title   string `yaml:"title"`
	Caption string `yaml:"caption"`
	Color   string `yaml:"color"`
}

// Bullet 带引导词的要点
type Bullet struct {
	Lead  string `yaml:"lead"`
	Text  string `yaml:"text"`
	Color string `yaml:"color"`
}

// Pillar 三部曲卡片
type Pillar struct {
	Emoji       string   `yaml:"emoji"`
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	Tagline     string   `yaml:"tagline"`
	Description string   `yaml:"description"`
	Bullets     []string `yaml:"bullets"`
	Gradient    Gradient `yaml:"gradient"`
	Icon        string   `yaml:"icon"`
}

// Quote 宣言卡片，Text 中的换行会被保留
type Quote struct {
	Title    string   `yaml:"title"`
	Text     string   `yaml:"text"`
	Gradient Gradient `yaml:"gradient"`
}

// Practice 行动区的练习清单
type Practice struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
	Color string   `yaml:"color"`
}

// Footer 页脚
type Footer struct {
	Lines  []string `yaml:"lines"`
	Accent string   `yaml:"accent"`
	Logo   bool     `yaml:"logo"`
}

// LoadSiteConfig 从文件系统加载并校验站点配置
//
// 参数:
//   - fsys: 内容根目录（嵌入资源或 --content-dir 指定的目录）
//   - path: 相对内容根目录的路径（如 "site/wealphy.yaml"）
func LoadSiteConfig(fsys fs.FS, path string) (*SiteConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config %s: %w", path, err)
	}

	site, err := ParseSiteConfig(data)
	if err != nil {
		return nil, fmt.Errorf("site config %s: %w", path, err)
	}
	return site, nil
}

// ParseSiteConfig 解析并校验 YAML 格式的站点配置
func ParseSiteConfig(data []byte) (*SiteConfig, error) {
	var site SiteConfig
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("failed to parse site config: %w", err)
	}

	site.applyDefaults()

	if err := site.Validate(); err != nil {
		return nil, fmt.Errorf("invalid site config: %w", err)
	}
	return &site, nil
}

func (s *SiteConfig) applyDefaults() {
	for i := range s.Sections {
		if s.Sections[i].Particles != nil {
			cfg := s.Sections[i].Particles.WithDefaults()
			s.Sections[i].Particles = &cfg
		}
	}
}

// Validate 验证配置有效性
//
// 检查：
//   - 必填字段（id、brand、至少一个区块）
//   - 区块 ID 唯一、类型已知，且类型所需的条目存在
//   - 导航和按钮的锚点指向存在的区块
//   - 所有颜色是合法的十六进制颜色
//   - 粒子场配置可以生成（空调色板且数量 > 0 会被拒绝）
func (s *SiteConfig) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("site id is required")
	}
	if s.Brand == "" {
		return fmt.Errorf("site %s: brand is required", s.ID)
	}
	if len(s.Sections) == 0 {
		return fmt.Errorf("site %s: at least one section is required", s.ID)
	}

	var colors colorChecker
	colors.check("theme.background", s.Theme.Background)
	colors.check("theme.surface", s.Theme.Surface)
	colors.check("theme.text", s.Theme.Text)
	colors.check("theme.muted", s.Theme.Muted)
	colors.check("theme.accent", s.Theme.Accent)
	colors.check("theme.selection", s.Theme.Selection)
	colors.check("footer.accent", s.Footer.Accent)

	ids := make(map[string]bool, len(s.Sections))
	for i, sec := range s.Sections {
		if sec.ID == "" {
			return fmt.Errorf("site %s: section %d has no id", s.ID, i)
		}
		if ids[sec.ID] {
			return fmt.Errorf("site %s: duplicate section id %q", s.ID, sec.ID)
		}
		ids[sec.ID] = true

		if err := sec.validate(&colors); err != nil {
			return fmt.Errorf("site %s: section %s: %w", s.ID, sec.ID, err)
		}
	}

	for _, link := range s.Nav {
		if err := checkAnchor(link, ids); err != nil {
			return fmt.Errorf("site %s: nav: %w", s.ID, err)
		}
		colors.check("nav "+link.Label, link.Color)
	}
	for _, sec := range s.Sections {
		for _, link := range sec.Actions {
			if err := checkAnchor(link, ids); err != nil {
				return fmt.Errorf("site %s: section %s: %w", s.ID, sec.ID, err)
			}
			colors.check("action "+link.Label, link.Color)
		}
	}

	if colors.err != nil {
		return fmt.Errorf("site %s: %w", s.ID, colors.err)
	}
	return nil
}

func (sec *Section) validate(colors *colorChecker) error {
	if !knownKinds[sec.Kind] {
		return fmt.Errorf("unknown section kind %q", sec.Kind)
	}

	switch sec.Kind {
	case KindPillars:
		if len(sec.Pillars) == 0 {
			return fmt.Errorf("pillars section needs at least one pillar")
		}
	case KindQuotes:
		if len(sec.Quotes) == 0 {
			return fmt.Errorf("quotes section needs at least one quote")
		}
	case KindPractices:
		if len(sec.Practices) == 0 {
			return fmt.Errorf("practices section needs at least one practice")
		}
	}

	colors.check("accent", sec.Accent)
	colors.gradient("background", sec.Background)
	for _, t := range sec.Tiles {
		colors.check("tile "+t.Title, t.Color)
	}
	for _, b := range sec.Bullets {
		colors.check("bullet "+b.Lead, b.Color)
	}
	for _, p := range sec.Pillars {
		if p.Title == "" {
			return fmt.Errorf("pillar without title")
		}
		colors.gradient("pillar "+p.Title, p.Gradient)
	}
	for _, q := range sec.Quotes {
		colors.gradient("quote "+q.Title, q.Gradient)
	}
	for _, p := range sec.Practices {
		colors.check("practice "+p.Title, p.Color)
	}

	if sec.Particles != nil {
		if err := sec.Particles.Validate(); err != nil {
			return err
		}
		for _, c := range sec.Particles.Palette {
			colors.require("particles.palette", c)
		}
		if a := sec.Particles.Area.Opacity; a < 0 || a > 1 {
			return fmt.Errorf("particles.area.opacity must be within [0,1], got %v", a)
		}
	}
	return nil
}

func checkAnchor(link Link, ids map[string]bool) error {
	if !strings.HasPrefix(link.Href, "#") {
		return fmt.Errorf("link %q: href %q is not an anchor", link.Label, link.Href)
	}
	if !ids[strings.TrimPrefix(link.Href, "#")] {
		return fmt.Errorf("link %q points at unknown section %q", link.Label, link.Href)
	}
	return nil
}

// colorChecker 记录第一个非法颜色，空值视为未设置
type colorChecker struct {
	err error
}

func (c *colorChecker) check(field, value string) {
	if c.err != nil || value == "" {
		return
	}
	if _, err := utils.ParseHexColor(value); err != nil {
		c.err = fmt.Errorf("%s: %w", field, err)
	}
}

// require 与 check 相同，但空值同样视为非法
func (c *colorChecker) require(field, value string) {
	if c.err == nil && value == "" {
		c.err = fmt.Errorf("%s: color is required", field)
		return
	}
	c.check(field, value)
}

func (c *colorChecker) gradient(field string, g Gradient) {
	for _, stop := range g.Stops {
		c.check(field, stop)
	}
}

// Section 按 ID 查找区块
func (s *SiteConfig) Section(id string) (*Section, bool) {
	for i := range s.Sections {
		if s.Sections[i].ID == id {
			return &s.Sections[i], true
		}
	}
	return nil, false
}

// FieldSections 返回所有带粒子场的区块，按页面顺序
func (s *SiteConfig) FieldSections() []*Section {
	var out []*Section
	for i := range s.Sections {
		if s.Sections[i].Particles != nil {
			out = append(out, &s.Sections[i])
		}
	}
	return out
}

// FooterLines 返回替换年份占位符后的页脚文本
func (s *SiteConfig) FooterLines(year int) []string {
	lines := make([]string, len(s.Footer.Lines))
	for i, l := range s.Footer.Lines {
		lines[i] = strings.ReplaceAll(l, YearPlaceholder, fmt.Sprint(year))
	}
	return lines
}
