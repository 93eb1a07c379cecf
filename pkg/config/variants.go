package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

// ErrUnknownVariant 变体索引中不存在该 ID
var ErrUnknownVariant = errors.New("unknown site variant")

// Content layout (内容目录结构，相对内容根目录)
const (
	VariantIndexPath = "site/index.yaml"
	IconRegistryPath = "icons.yaml"
	siteDir          = "site"
)

// Variant 一个可发布的页面变体
type Variant struct {
	ID    string `yaml:"id"`
	File  string `yaml:"file"`
	Label string `yaml:"label"`
}

// VariantRegistry 变体索引
//
// 两个变体（weal.phy 与 WEAL.THY）是彼此独立的可交付页面，
// 预览和导出都可以任选其一。
//
// 配置文件位置: data/site/index.yaml
type VariantRegistry struct {
	Default  string    `yaml:"default"`
	Variants []Variant `yaml:"variants"`
}

// LoadVariants 加载并校验变体索引
func LoadVariants(fsys fs.FS) (*VariantRegistry, error) {
	data, err := fs.ReadFile(fsys, VariantIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read variant index: %w", err)
	}

	var reg VariantRegistry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse variant index: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid variant index: %w", err)
	}
	return &reg, nil
}

// Validate 验证变体索引：ID 唯一、文件名非空、默认变体存在
func (r *VariantRegistry) Validate() error {
	if len(r.Variants) == 0 {
		return fmt.Errorf("no variants listed")
	}
	seen := make(map[string]bool, len(r.Variants))
	for _, v := range r.Variants {
		if v.ID == "" || v.File == "" {
			return fmt.Errorf("variant needs both id and file: %+v", v)
		}
		if seen[v.ID] {
			return fmt.Errorf("duplicate variant %q", v.ID)
		}
		seen[v.ID] = true
	}
	if r.Default == "" {
		r.Default = r.Variants[0].ID
	}
	if !seen[r.Default] {
		return fmt.Errorf("default variant %q: %w", r.Default, ErrUnknownVariant)
	}
	return nil
}

// Lookup 按 ID 查找变体，空 ID 返回默认变体
func (r *VariantRegistry) Lookup(id string) (Variant, error) {
	if id == "" {
		id = r.Default
	}
	for _, v := range r.Variants {
		if v.ID == id {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, id)
}

// IDs 返回所有变体 ID，按索引顺序
func (r *VariantRegistry) IDs() []string {
	ids := make([]string, len(r.Variants))
	for i, v := range r.Variants {
		ids[i] = v.ID
	}
	return ids
}

// Next 返回 id 之后的变体 ID（循环）
func (r *VariantRegistry) Next(id string) string {
	for i, v := range r.Variants {
		if v.ID == id {
			return r.Variants[(i+1)%len(r.Variants)].ID
		}
	}
	return r.Default
}

// LoadSite 按变体 ID 加载站点配置
func (r *VariantRegistry) LoadSite(fsys fs.FS, id string) (*SiteConfig, error) {
	v, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	site, err := LoadSiteConfig(fsys, path.Join(siteDir, v.File))
	if err != nil {
		return nil, err
	}
	if site.ID != v.ID {
		return nil, fmt.Errorf("variant %s: file %s declares id %q", v.ID, v.File, site.ID)
	}
	return site, nil
}

// LoadAllSites 加载索引中的所有变体，按索引顺序
func (r *VariantRegistry) LoadAllSites(fsys fs.FS) ([]*SiteConfig, error) {
	sites := make([]*SiteConfig, 0, len(r.Variants))
	for _, v := range r.Variants {
		site, err := r.LoadSite(fsys, v.ID)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// Content 一次完整加载的内容：变体索引、图标注册表与所有站点
type Content struct {
	Variants *VariantRegistry
	Icons    *IconRegistry
	Sites    map[string]*SiteConfig
}

// LoadContent 加载内容根目录下的全部内容并交叉校验图标引用
func LoadContent(fsys fs.FS) (*Content, error) {
	variants, err := LoadVariants(fsys)
	if err != nil {
		return nil, err
	}
	icons, err := LoadIconRegistry(fsys, IconRegistryPath)
	if err != nil {
		return nil, err
	}
	sites, err := variants.LoadAllSites(fsys)
	if err != nil {
		return nil, err
	}

	c := &Content{Variants: variants, Icons: icons, Sites: make(map[string]*SiteConfig, len(sites))}
	for _, site := range sites {
		if err := icons.CheckReferences(site); err != nil {
			return nil, err
		}
		c.Sites[site.ID] = site
	}
	return c, nil
}

// Site 返回指定变体的站点配置，空 ID 返回默认变体
func (c *Content) Site(id string) (*SiteConfig, error) {
	if id == "" {
		id = c.Variants.Default
	}
	site, ok := c.Sites[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, id)
	}
	return site, nil
}
