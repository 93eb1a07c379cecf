package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/restoration/internal/svgpath"
	"github.com/gonewx/restoration/pkg/utils"
)

// ErrUnknownIcon 图标注册表中不存在该名称
var ErrUnknownIcon = errors.New("unknown icon")

// Shape types (图形类型)
const (
	ShapePath    = "path"
	ShapeCircle  = "circle"
	ShapeEllipse = "ellipse"
	ShapeRect    = "rect"
)

// PaintGradient 作为 fill/stroke 时引用图标自身的线性渐变
const PaintGradient = "gradient"

// DefaultViewBox 图标默认的正方形坐标系边长
const DefaultViewBox = 64.0

// Icon 一个矢量图标（徽记、Logo）
//
// 坐标系为 ViewBox × ViewBox 的正方形，渐变沿对角线 (0,0) → (ViewBox,ViewBox)，
// 色标均匀分布。
type Icon struct {
	Name     string   `yaml:"-"`
	Title    string   `yaml:"title"`
	ViewBox  float64  `yaml:"viewBox"`
	Gradient []string `yaml:"gradient"`
	Shapes   []Shape  `yaml:"shapes"`
}

// Shape 图标中的一个图形
type Shape struct {
	Type string `yaml:"type"`

	// path
	D string `yaml:"d"`

	// circle / ellipse
	CX float64 `yaml:"cx"`
	CY float64 `yaml:"cy"`
	R  float64 `yaml:"r"`
	RX float64 `yaml:"rx"`
	RY float64 `yaml:"ry"`

	// rect（RX 为圆角半径）
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	Fill        string  `yaml:"fill"`
	Stroke      string  `yaml:"stroke"`
	StrokeWidth float64 `yaml:"strokeWidth"`
	LineCap     string  `yaml:"lineCap"`

	// Opacity 为 0 时视为 1
	Opacity float64 `yaml:"opacity"`

	segments []svgpath.Segment
}

// EffectiveOpacity 返回图形的不透明度（未设置时为 1）
func (s *Shape) EffectiveOpacity() float64 {
	if s.Opacity == 0 {
		return 1
	}
	return s.Opacity
}

// PathData 将图形转换为等价的 SVG 路径数据
func (s *Shape) PathData() string {
	switch s.Type {
	case ShapePath:
		return s.D
	case ShapeCircle:
		return ellipsePath(s.CX, s.CY, s.R, s.R)
	case ShapeEllipse:
		return ellipsePath(s.CX, s.CY, s.RX, s.RY)
	case ShapeRect:
		return rectPath(s.X, s.Y, s.Width, s.Height, s.RX)
	}
	return ""
}

// Segments 返回解析后的绝对坐标路径段（Validate 之后可用）
func (s *Shape) Segments() []svgpath.Segment {
	return s.segments
}

func ellipsePath(cx, cy, rx, ry float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M%s %s", num(cx-rx), num(cy))
	fmt.Fprintf(&b, "A%s %s 0 1 0 %s %s", num(rx), num(ry), num(cx+rx), num(cy))
	fmt.Fprintf(&b, "A%s %s 0 1 0 %s %s", num(rx), num(ry), num(cx-rx), num(cy))
	b.WriteString("Z")
	return b.String()
}

func rectPath(x, y, w, h, r float64) string {
	r = min(r, w/2, h/2)
	if r <= 0 {
		return fmt.Sprintf("M%s %sH%sV%sH%sZ", num(x), num(y), num(x+w), num(y+h), num(x))
	}
	var b strings.Builder
	arc := func(ex, ey float64) {
		fmt.Fprintf(&b, "A%s %s 0 0 1 %s %s", num(r), num(r), num(ex), num(ey))
	}
	fmt.Fprintf(&b, "M%s %s", num(x+r), num(y))
	fmt.Fprintf(&b, "H%s", num(x+w-r))
	arc(x+w, y+r)
	fmt.Fprintf(&b, "V%s", num(y+h-r))
	arc(x+w-r, y+h)
	fmt.Fprintf(&b, "H%s", num(x+r))
	arc(x, y+h-r)
	fmt.Fprintf(&b, "V%s", num(y+r))
	arc(x+r, y)
	b.WriteString("Z")
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// GradientColors 返回解析后的渐变色标
func (ic *Icon) GradientColors() []color.RGBA {
	out := make([]color.RGBA, len(ic.Gradient))
	for i, c := range ic.Gradient {
		out[i] = utils.ParseHexColorOr(c, utils.White)
	}
	return out
}

// ColorAt 返回渐变在 t ∈ [0,1] 处的颜色，色标均匀分布
func (ic *Icon) ColorAt(t float64) color.RGBA {
	stops := ic.GradientColors()
	switch len(stops) {
	case 0:
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	case 1:
		return stops[0]
	}
	t = utils.Clamp01(t)
	pos := t * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	return utils.LerpColor(stops[i], stops[i+1], pos-float64(i))
}

func (ic *Icon) validate() error {
	if ic.ViewBox < 0 {
		return fmt.Errorf("viewBox must be positive, got %v", ic.ViewBox)
	}
	if ic.ViewBox == 0 {
		ic.ViewBox = DefaultViewBox
	}
	if len(ic.Shapes) == 0 {
		return fmt.Errorf("icon has no shapes")
	}
	for _, c := range ic.Gradient {
		if _, err := utils.ParseHexColor(c); err != nil {
			return fmt.Errorf("gradient: %w", err)
		}
	}

	for i := range ic.Shapes {
		s := &ic.Shapes[i]
		if err := ic.validateShape(s); err != nil {
			return fmt.Errorf("shape %d (%s): %w", i, s.Type, err)
		}
	}
	return nil
}

func (ic *Icon) validateShape(s *Shape) error {
	switch s.Type {
	case ShapePath:
		if s.D == "" {
			return fmt.Errorf("path without d")
		}
	case ShapeCircle:
		if s.R <= 0 {
			return fmt.Errorf("circle radius must be positive")
		}
	case ShapeEllipse:
		if s.RX <= 0 || s.RY <= 0 {
			return fmt.Errorf("ellipse radii must be positive")
		}
	case ShapeRect:
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("rect size must be positive")
		}
	default:
		return fmt.Errorf("unknown shape type %q", s.Type)
	}

	if s.Fill == "" && s.Stroke == "" {
		return fmt.Errorf("shape has neither fill nor stroke")
	}
	for _, paint := range []string{s.Fill, s.Stroke} {
		if paint == "" {
			continue
		}
		if paint == PaintGradient {
			if len(ic.Gradient) == 0 {
				return fmt.Errorf("paint references a gradient but the icon has none")
			}
			continue
		}
		if _, err := utils.ParseHexColor(paint); err != nil {
			return err
		}
	}
	if s.Stroke != "" && s.StrokeWidth <= 0 {
		return fmt.Errorf("stroke needs a positive strokeWidth")
	}
	if s.Opacity < 0 || s.Opacity > 1 {
		return fmt.Errorf("opacity must be within [0,1], got %v", s.Opacity)
	}

	segs, err := svgpath.Parse(s.PathData())
	if err != nil {
		return err
	}
	s.segments = segs
	return nil
}

// IconRegistry 按名称索引的图标集合
//
// 配置文件位置: data/icons.yaml
type IconRegistry struct {
	icons map[string]*Icon
}

type iconFile struct {
	Icons map[string]*Icon `yaml:"icons"`
}

// LoadIconRegistry 从文件系统加载并校验图标注册表
func LoadIconRegistry(fsys fs.FS, path string) (*IconRegistry, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read icon registry %s: %w", path, err)
	}
	reg, err := ParseIconRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("icon registry %s: %w", path, err)
	}
	return reg, nil
}

// ParseIconRegistry 解析并校验 YAML 格式的图标注册表
func ParseIconRegistry(data []byte) (*IconRegistry, error) {
	var file iconFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse icon registry: %w", err)
	}

	reg := &IconRegistry{icons: make(map[string]*Icon, len(file.Icons))}
	for name, icon := range file.Icons {
		if icon == nil {
			return nil, fmt.Errorf("icon %q is empty", name)
		}
		icon.Name = name
		reg.icons[name] = icon
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

// Validate 验证所有图标：图形参数合法、颜色合法、路径数据可以解析
func (r *IconRegistry) Validate() error {
	for _, name := range r.Names() {
		if err := r.icons[name].validate(); err != nil {
			return fmt.Errorf("icon %s: %w", name, err)
		}
	}
	return nil
}

// Get 按名称获取图标
func (r *IconRegistry) Get(name string) (*Icon, error) {
	icon, ok := r.icons[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIcon, name)
	}
	return icon, nil
}

// Names 返回所有图标名称（已排序）
func (r *IconRegistry) Names() []string {
	names := make([]string, 0, len(r.icons))
	for name := range r.icons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckReferences 确认站点引用的所有图标都存在
func (r *IconRegistry) CheckReferences(site *SiteConfig) error {
	refs := []string{site.Logo}
	for _, sec := range site.Sections {
		refs = append(refs, sec.Icon)
		for _, p := range sec.Pillars {
			refs = append(refs, p.Icon)
		}
	}
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if _, err := r.Get(ref); err != nil {
			return fmt.Errorf("site %s: %w", site.ID, err)
		}
	}
	return nil
}
