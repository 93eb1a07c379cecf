package game

import (
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonewx/restoration/pkg/config"
)

var testContent = os.DirFS("../../data")

func TestNewResourceManager(t *testing.T) {
	rm := NewResourceManager(testContent)
	require.NotNil(t, rm)
	assert.Nil(t, rm.Content())
	assert.Nil(t, rm.Variants())
	assert.Nil(t, rm.Icons())

	_, err := rm.Site("")
	assert.ErrorIs(t, err, errContentNotLoaded)
}

func TestLoadFontCaching(t *testing.T) {
	rm := NewResourceManager(testContent)

	assert.Nil(t, rm.GetFont(FontRegular, 16), "未加载时缓存为空")

	face, err := rm.LoadFont(FontRegular, 16)
	require.NoError(t, err)
	assert.Equal(t, 16.0, face.Size)

	again, err := rm.LoadFont(FontRegular, 16)
	require.NoError(t, err)
	assert.Same(t, face, again, "同样式同尺寸复用缓存")
	assert.Same(t, face, rm.GetFont(FontRegular, 16))

	bold, err := rm.LoadFont(FontBold, 16)
	require.NoError(t, err)
	assert.NotSame(t, face, bold)

	larger, err := rm.LoadFont(FontRegular, 30)
	require.NoError(t, err)
	assert.Same(t, face.Source, larger.Source, "同一样式共享字体源")

	_, err = rm.LoadFont(FontStyle(99), 12)
	assert.Error(t, err)
}

func TestLoadContent(t *testing.T) {
	rm := NewResourceManager(testContent)
	require.NoError(t, rm.LoadContent())

	assert.Equal(t, []string{"wealphy", "wealthy"}, rm.Variants().IDs())
	assert.Contains(t, rm.Icons().Names(), "sigil-noow")

	site, err := rm.Site("")
	require.NoError(t, err)
	assert.Equal(t, rm.Variants().Default, site.ID)

	_, err = rm.Site("nope")
	assert.ErrorIs(t, err, config.ErrUnknownVariant)
}

func TestReloadKeepsPreviousContentOnError(t *testing.T) {
	rm := NewResourceManager(testContent)
	require.NoError(t, rm.LoadContent())
	before := rm.Content()

	broken := fstest.MapFS{
		config.VariantIndexPath: {Data: []byte("variants: [")},
	}
	require.Error(t, rm.Reload(broken))
	assert.Same(t, before, rm.Content())
	assert.Equal(t, testContent, rm.ContentFS())

	require.NoError(t, rm.Reload(testContent))
	assert.NotSame(t, before, rm.Content())
}
