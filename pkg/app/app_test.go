package app

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonewx/restoration/pkg/config"
)

// copyContent 把仓库内容复制到临时目录，供监视和重新加载使用
func copyContent(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "content")
	require.NoError(t, os.CopyFS(dir, os.DirFS("../../data")))
	return dir
}

func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	if cfg.ContentDir == "" {
		cfg.ContentDir = copyContent(t)
	}
	cfg.DisableStorage = true
	a, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestNewAppOpensDefaultVariant(t *testing.T) {
	a := newTestApp(t, Config{})

	scene := a.CurrentScene()
	require.NotNil(t, scene)
	assert.Equal(t, "wealthy", scene.Site().ID)
	assert.Len(t, scene.FieldSystem().Fields(), 3)
	assert.Equal(t, config.WindowTitle+" · "+scene.Site().Brand, a.WindowTitle())

	w, h := a.Layout(1920, 1080)
	assert.Equal(t, config.WindowWidth, w)
	assert.Equal(t, config.WindowHeight, h)
}

func TestNewAppRequestedVariant(t *testing.T) {
	a := newTestApp(t, Config{Variant: "wealphy"})
	assert.Equal(t, "wealphy", a.CurrentScene().Site().ID)
	assert.Empty(t, a.CurrentScene().FieldSystem().Fields())
}

func TestNewAppErrors(t *testing.T) {
	t.Run("未知变体", func(t *testing.T) {
		_, err := NewApp(Config{ContentDir: copyContent(t), Variant: "nope", DisableStorage: true})
		assert.ErrorIs(t, err, config.ErrUnknownVariant)
	})
	t.Run("内容目录不存在", func(t *testing.T) {
		_, err := NewApp(Config{ContentDir: filepath.Join(t.TempDir(), "missing"), DisableStorage: true})
		assert.Error(t, err)
	})
}

func TestReloadContent(t *testing.T) {
	dir := copyContent(t)
	a := newTestApp(t, Config{ContentDir: dir})
	before := a.CurrentScene().Site()

	require.NoError(t, a.ReloadContent(os.DirFS(dir)))
	scene := a.CurrentScene()
	assert.Equal(t, "wealthy", scene.Site().ID)
	assert.NotSame(t, before, scene.Site(), "重新加载后使用新的内容记录")
	assert.Len(t, scene.FieldSystem().Fields(), 3, "粒子场重新挂载")

	// 新内容无效时保留旧内容
	err := a.ReloadContent(fstest.MapFS{})
	assert.Error(t, err)
	assert.Same(t, scene, a.CurrentScene())
	assert.Equal(t, "wealthy", a.CurrentScene().Site().ID)
}

func TestCloseIsIdempotent(t *testing.T) {
	a := newTestApp(t, Config{})
	a.Close()
	a.Close()
	assert.Nil(t, a.GetSceneManager().GetCurrentScene())
}
