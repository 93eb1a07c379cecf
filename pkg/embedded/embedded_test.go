package embedded

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试用的内存文件系统
// 真正的内容嵌入在项目根目录的 embed.go 中，这里只测试包装函数的行为。
func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/icons.yaml":      {Data: []byte("icons: {}\n")},
		"data/site/index.yaml": {Data: []byte("default: a\n")},
	}
}

func reset() {
	dataFS = nil
	initialized = false
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	reset()
	t.Cleanup(reset)

	assert.False(t, IsInitialized())
	Init(testFS())
	assert.True(t, IsInitialized())
}

// TestNotInitialized 测试未初始化时的错误
func TestNotInitialized(t *testing.T) {
	reset()

	_, err := ReadFile("data/icons.yaml")
	require.Error(t, err)
	assert.Equal(t, "embedded package not initialized, call Init() first", err.Error())

	_, err = Content()
	assert.Error(t, err)
	assert.False(t, Exists("data/icons.yaml"))
}

func TestReadFile(t *testing.T) {
	reset()
	t.Cleanup(reset)
	Init(testFS())

	t.Run("正常路径", func(t *testing.T) {
		data, err := ReadFile("data/icons.yaml")
		require.NoError(t, err)
		assert.Equal(t, "icons: {}\n", string(data))
	})

	t.Run("带 ./ 前缀", func(t *testing.T) {
		_, err := ReadFile("./data/site/index.yaml")
		assert.NoError(t, err)
	})

	t.Run("未知前缀", func(t *testing.T) {
		_, err := ReadFile("assets/logo.png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown resource path prefix")
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := ReadFile("data/missing.yaml")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	assert.True(t, Exists("data/icons.yaml"))
	assert.False(t, Exists("data/nope.yaml"))

	entries, err := ReadDir("data/site")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "index.yaml", entries[0].Name())
}

func TestContent(t *testing.T) {
	reset()
	t.Cleanup(reset)
	Init(testFS())

	content, err := Content()
	require.NoError(t, err)

	data, err := fs.ReadFile(content, "site/index.yaml")
	require.NoError(t, err)
	assert.Equal(t, "default: a\n", string(data))
}

func TestContentOrDir(t *testing.T) {
	reset()
	t.Cleanup(reset)
	Init(testFS())

	t.Run("空目录参数使用嵌入内容", func(t *testing.T) {
		content, err := ContentOrDir("")
		require.NoError(t, err)
		_, err = fs.Stat(content, "icons.yaml")
		assert.NoError(t, err)
	})

	t.Run("磁盘目录", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "icons.yaml"), []byte("disk"), 0o644))

		content, err := ContentOrDir(dir)
		require.NoError(t, err)
		data, err := fs.ReadFile(content, "icons.yaml")
		require.NoError(t, err)
		assert.Equal(t, "disk", string(data))
	})

	t.Run("目录不存在", func(t *testing.T) {
		_, err := ContentOrDir(filepath.Join(t.TempDir(), "missing"))
		assert.Error(t, err)
	})

	t.Run("不是目录", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "f.yaml")
		require.NoError(t, os.WriteFile(file, nil, 0o644))
		_, err := ContentOrDir(file)
		assert.Error(t, err)
	})
}
