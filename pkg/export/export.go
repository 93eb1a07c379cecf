// Package export 把页面变体渲染为独立的静态 HTML
//
// 每个粒子场在渲染时采样一次，生成的 ParticleSpec 以内联样式写入页面，
// 循环动画由 CSS 关键帧完成，页面不需要任何脚本。
package export

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gonewx/restoration/internal/particle"
	"github.com/gonewx/restoration/pkg/config"
)

// PageFile 每个变体目录中的页面文件名
const PageFile = "index.html"

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type renderer struct {
	tmpl  *template.Template
	icons *config.IconRegistry
	rng   particle.RandomSource
	year  int
	newID func() string
}

func newRenderer(icons *config.IconRegistry, rng particle.RandomSource, year int) *renderer {
	if rng == nil {
		rng = particle.NewRandomSource()
	}
	return &renderer{
		tmpl:  pageTemplate,
		icons: icons,
		rng:   rng,
		year:  year,
		newID: uuid.NewString,
	}
}

// Render 把一个变体渲染为完整的 HTML 文档
//
// rng 为 nil 时使用新的随机源；页脚年份取当前年份。
func Render(w io.Writer, site *config.SiteConfig, icons *config.IconRegistry, rng particle.RandomSource) error {
	return newRenderer(icons, rng, time.Now().Year()).render(w, site)
}

func (r *renderer) render(w io.Writer, site *config.SiteConfig) error {
	page, err := r.buildPage(site)
	if err != nil {
		return fmt.Errorf("failed to build page %s: %w", site.ID, err)
	}
	if err := r.tmpl.ExecuteTemplate(w, "page", page); err != nil {
		return fmt.Errorf("failed to render page %s: %w", site.ID, err)
	}
	return nil
}

// Exporter 把变体写入输出目录
type Exporter struct {
	Icons *config.IconRegistry

	// Year 替换页脚中的 {year}，为 0 时使用当前年份
	Year int

	// NewRandom 为每个变体创建独立的随机源，为 nil 时使用 particle.NewRandomSource
	NewRandom func() particle.RandomSource

	Logger *zap.Logger
}

// variantLink 索引页中的一项
type variantLink struct {
	ID    string
	Title string
	Href  string
}

// ExportAll 并发渲染每个变体，写入 outDir/<id>/index.html，
// 并在 outDir/index.html 写入变体索引
//
// 任何一个变体失败都会取消其余变体并返回第一个错误。
func (e *Exporter) ExportAll(ctx context.Context, outDir string, sites ...*config.SiteConfig) error {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("Exporter")
	year := e.Year
	if year == 0 {
		year = time.Now().Year()
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, site := range sites {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			var rng particle.RandomSource
			if e.NewRandom != nil {
				rng = e.NewRandom()
			}

			var buf bytes.Buffer
			if err := newRenderer(e.Icons, rng, year).render(&buf, site); err != nil {
				return err
			}
			if err := egCtx.Err(); err != nil {
				return err
			}

			dir := filepath.Join(outDir, site.ID)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
			path := filepath.Join(dir, PageFile)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			logger.Info("variant exported",
				zap.String("variant", site.ID),
				zap.String("path", path),
				zap.Int("bytes", buf.Len()))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	return e.writeIndex(outDir, sites)
}

func (e *Exporter) writeIndex(outDir string, sites []*config.SiteConfig) error {
	items := make([]variantLink, 0, len(sites))
	for _, s := range sites {
		title := s.Title
		if title == "" {
			title = s.Brand
		}
		items = append(items, variantLink{ID: s.ID, Title: title, Href: s.ID + "/" + PageFile})
	}

	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "index", items); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}
	path := filepath.Join(outDir, PageFile)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
