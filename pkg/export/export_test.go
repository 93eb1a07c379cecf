package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonewx/restoration/internal/particle"
	"github.com/gonewx/restoration/pkg/config"
)

func loadContent(t *testing.T) *config.Content {
	t.Helper()
	content, err := config.LoadContent(os.DirFS("../../data"))
	require.NoError(t, err)
	return content
}

func seeded() particle.RandomSource {
	return rand.New(rand.NewPCG(1, 2))
}

func renderSite(t *testing.T, content *config.Content, id string) string {
	t.Helper()
	site, err := content.Site(id)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, site, content.Icons, seeded()))
	return buf.String()
}

func TestRenderWealthy(t *testing.T) {
	html := renderSite(t, loadContent(t), "wealthy")

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Equal(t, 3, strings.Count(html, `<div class="field`), "每个带粒子的区块一个容器")
	assert.Equal(t, 36+24+20, strings.Count(html, `<span class="particle"`))
	assert.Equal(t, 3, strings.Count(html, `aria-hidden="true">`+"<i class=\"drift\""))

	assert.Contains(t, html, `class="field opacity-70"`)
	assert.Contains(t, html, `style="opacity:0.7"`)
	assert.Contains(t, html, `class="field pointer-events-none"`)
	assert.Contains(t, html, ".field{position:absolute;inset:0;pointer-events:none}")
	assert.Contains(t, html, "@keyframes restoration-glow")
	assert.Contains(t, html, "animation-iteration-count:infinite")
	assert.Contains(t, html, "animation-timing-function:ease-in-out")

	for _, id := range []string{"top", "trilogy", "philosophy"} {
		assert.Contains(t, html, `<section id="`+id+`"`)
	}
}

func TestRenderWealphyHasNoFields(t *testing.T) {
	html := renderSite(t, loadContent(t), "wealphy")

	assert.NotContains(t, html, `<div class="field`)
	assert.NotContains(t, html, `class="particle"`)
	assert.Contains(t, html, `href="#trilogy"`)
}

func TestRenderIconGradientIDsAreUnique(t *testing.T) {
	html := renderSite(t, loadContent(t), "wealphy")

	ids := regexp.MustCompile(`<linearGradient id="([^"]+)"`).FindAllStringSubmatch(html, -1)
	require.NotEmpty(t, ids)

	seen := map[string]bool{}
	for _, m := range ids {
		assert.False(t, seen[m[1]], "重复的渐变 ID %s", m[1])
		seen[m[1]] = true
	}
	for _, m := range regexp.MustCompile(`url\(#([^)]+)\)`).FindAllStringSubmatch(html, -1) {
		assert.True(t, seen[m[1]], "引用了未定义的渐变 %s", m[1])
	}
}

func TestRenderUnknownIcon(t *testing.T) {
	content := loadContent(t)
	site, err := content.Site("wealthy")
	require.NoError(t, err)

	broken := *site
	broken.Logo = "missing"
	err = Render(&bytes.Buffer{}, &broken, content.Icons, seeded())
	assert.True(t, errors.Is(err, config.ErrUnknownIcon))
}

func TestNewFieldView(t *testing.T) {
	cfg := particle.FieldConfig{Count: 12, Speed: 10, Size: 2, Palette: []string{"#fcd34d"}}.WithDefaults()
	field, err := cfg.Generate(seeded())
	require.NoError(t, err)

	v := newFieldView("id-1", field, cfg.Area)
	require.Len(t, v.Particles, 12)
	assert.Empty(t, string(v.Style), "不透明度为 1 时不输出样式")

	for i, p := range field.Particles {
		timing := string(v.Particles[i].Timing)
		assert.True(t, strings.HasSuffix(timing, fmt.Sprintf("animation-delay:%ss", cssNum(float64(i%10)*0.3))), "粒子 %d: %s", i, timing)
		assert.True(t, strings.HasPrefix(timing, "animation-duration:"+cssNum(p.Duration)+"s"))

		style := string(v.Particles[i].Style)
		assert.True(t, strings.HasPrefix(style, "left:"+cssNum(p.X*100)+"%;top:"+cssNum(p.Y*100)+"%;"))
		assert.Contains(t, style, "width:2px;height:2px;background:#fcd34d;box-shadow:0 0 12px #fcd34d55")
		assert.Contains(t, style, "--s:"+cssNum(p.Scale))
		assert.Contains(t, style, "--o:"+cssNum(p.PeakOpacity))
	}
}

func TestCSSGradient(t *testing.T) {
	tests := []struct {
		name string
		in   config.Gradient
		want string
	}{
		{"空", config.Gradient{}, ""},
		{"单色", config.Gradient{Stops: []string{"#020617"}}, "#020617"},
		{"线性默认左上", config.Gradient{Stops: []string{"#000000", "#ffffff"}}, "linear-gradient(to bottom right, #000000, #ffffff)"},
		{"线性自顶向下", config.Gradient{Anchor: "top", Stops: []string{"#000000", "#ffffff"}}, "linear-gradient(to bottom, #000000, #ffffff)"},
		{"径向右上", config.Gradient{Kind: "radial", Anchor: "top-right", Stops: []string{"#f59e0b", "#020617"}}, "radial-gradient(ellipse at top right, #f59e0b, #020617)"},
		{"锥形", config.Gradient{Kind: "conic", Stops: []string{"#a", "#b"}}, "conic-gradient(from 0deg at center, #a, #b)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(cssGradient(tt.in)))
		})
	}
}

func TestInlineHTML(t *testing.T) {
	assert.Equal(t, "a <strong>b</strong> <em>c</em>", string(inlineHTML("a **b** *c*")))
	assert.Equal(t, "&lt;script&gt;", string(inlineHTML("<script>")))
	assert.Equal(t, "<strong>&amp;</strong>", string(inlineHTML("**&**")))
}

func TestCSSNum(t *testing.T) {
	assert.Equal(t, "0", cssNum(0))
	assert.Equal(t, "0.9", cssNum(0.9))
	assert.Equal(t, "10", cssNum(10))
	assert.Equal(t, "2.7", cssNum(9*0.3))
	assert.Equal(t, "12.3457", cssNum(12.345678))
}

func TestExportAll(t *testing.T) {
	content := loadContent(t)
	sites := make([]*config.SiteConfig, 0, len(content.Sites))
	for _, id := range content.Variants.IDs() {
		site, err := content.Site(id)
		require.NoError(t, err)
		sites = append(sites, site)
	}

	out := t.TempDir()
	e := &Exporter{Icons: content.Icons, Year: 2031, NewRandom: seeded}
	require.NoError(t, e.ExportAll(context.Background(), out, sites...))

	wealthy, err := os.ReadFile(filepath.Join(out, "wealthy", PageFile))
	require.NoError(t, err)
	assert.Contains(t, string(wealthy), "© 2031 ")
	assert.Equal(t, 80, strings.Count(string(wealthy), `<span class="particle"`))

	_, err = os.Stat(filepath.Join(out, "wealphy", PageFile))
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(out, PageFile))
	require.NoError(t, err)
	assert.Contains(t, string(index), `href="wealphy/index.html"`)
	assert.Contains(t, string(index), `href="wealthy/index.html"`)
}

func TestExportAllCanceled(t *testing.T) {
	content := loadContent(t)
	site, err := content.Site("wealthy")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := t.TempDir()
	err = (&Exporter{Icons: content.Icons}).ExportAll(ctx, out, site)
	assert.True(t, errors.Is(err, context.Canceled))

	_, statErr := os.Stat(filepath.Join(out, PageFile))
	assert.True(t, os.IsNotExist(statErr), "失败时不写索引")
}
