package outline

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonewx/restoration/pkg/config"
)

func loadSite(t *testing.T, id string) *config.SiteConfig {
	t.Helper()
	content, err := config.LoadContent(os.DirFS("../../data"))
	require.NoError(t, err)
	site, err := content.Site(id)
	require.NoError(t, err)
	return site
}

func TestMarkdownWealthy(t *testing.T) {
	site := loadSite(t, "wealthy")
	md := markdown(site, 2031)

	assert.True(t, strings.HasPrefix(md, "# PAJAMA • NOOW • WEAL.THY\n\n*Heal · Renew · Thrive*"))
	assert.Equal(t, len(site.Sections), strings.Count(md, "\n## "), "每个区块一个二级标题")
	assert.Contains(t, md, "## The Cycle of Restoration\n\n`#top` · hero")
	assert.Contains(t, md, "`particles: 36 · speed 14 · size 2.2 · palette #fcd34d #f59e0b #a3e635`")
	assert.Contains(t, md, "`particles: 20 · speed 10 · size 1.8 · palette #fcd34d #86efac #93c5fd`")
	assert.Equal(t, 3, strings.Count(md, "`particles: "))
	assert.Contains(t, md, "---\n\n© 2031 The Cycle of Restoration")
}

func TestMarkdownWealphy(t *testing.T) {
	site := loadSite(t, "wealphy")
	md := markdown(site, 2031)

	assert.NotContains(t, md, "`particles:")
	for _, link := range site.Nav {
		assert.Contains(t, md, "("+link.Href+")")
	}
	for _, sec := range site.Sections {
		assert.Contains(t, md, "`#"+sec.ID+"` · "+sec.Kind)
	}

	quotes, ok := site.Section("manifesto")
	require.True(t, ok)
	require.NotEmpty(t, quotes.Quotes)
	assert.Contains(t, md, "### "+quotes.Quotes[0].Title+"\n\n> ")

	practices, ok := site.Section("cta")
	require.True(t, ok)
	require.NotEmpty(t, practices.Practices)
	assert.Contains(t, md, "- [ ] "+practices.Practices[0].Items[0])
}

func TestMarkdownMinimalSite(t *testing.T) {
	site := &config.SiteConfig{
		ID:       "min",
		Brand:    "Brand",
		Sections: []config.Section{{ID: "only", Kind: config.KindStatement}},
	}
	assert.Equal(t, "# Brand\n\n## only\n\n`#only` · statement\n\n", markdown(site, 2031))
}

func TestRenderNoTTY(t *testing.T) {
	site := loadSite(t, "wealthy")

	out, err := RenderWithStyle(site, 60, "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "abundance as balance")
	assert.Contains(t, out, "The Cycle of Restoration")

	_, err = RenderWithStyle(site, 60, "no-such-style")
	assert.Error(t, err)
}
