package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testDebounce = 50 * time.Millisecond

func newContentDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "site"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icons.yaml"), []byte("icons: {}\n"), 0o644))
	return dir
}

func waitChange(t *testing.T, w *ContentWatcher) Change {
	t.Helper()
	select {
	case c := <-w.Changes():
		return c
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification")
	}
	return Change{}
}

func TestContentWatcherDebouncesWrites(t *testing.T) {
	dir := newContentDir(t)
	w, err := NewContentWatcher(dir, testDebounce, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	path := filepath.Join(dir, "site", "wealthy.yaml")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("id: wealthy\n"), 0o644))
	}

	c := waitChange(t, w)
	assert.Equal(t, []string{path}, c.Paths, "连续写入合并为一次通知")

	select {
	case extra := <-w.Changes():
		t.Fatalf("unexpected second notification: %v", extra.Paths)
	case <-time.After(4 * testDebounce):
	}
}

func TestContentWatcherIgnoresOtherFiles(t *testing.T) {
	dir := newContentDir(t)
	w, err := NewContentWatcher(dir, testDebounce, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site", ".swp"), []byte("x"), 0o644))

	select {
	case c := <-w.Changes():
		t.Fatalf("unexpected notification: %v", c.Paths)
	case <-time.After(4 * testDebounce):
	}

	// 根目录中的 YAML 同样被监视
	icons := filepath.Join(dir, "icons.yaml")
	require.NoError(t, os.WriteFile(icons, []byte("icons: {}\n"), 0o644))
	assert.Contains(t, waitChange(t, w).Paths, icons)
}

func TestContentWatcherStop(t *testing.T) {
	dir := newContentDir(t)
	w, err := NewContentWatcher(dir, 0, nil)
	require.NoError(t, err)

	// 未启动时 Stop 为空操作
	w.Stop()

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()), "重复 Start 为空操作")
	w.Stop()
	w.Stop()
}

func TestContentWatcherContextCancel(t *testing.T) {
	dir := newContentDir(t)
	w, err := NewContentWatcher(dir, testDebounce, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	// Stop 等待已退出的 goroutine 并关闭 fsnotify
	w.Stop()
}

func (w *ContentWatcher) isRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func TestContentWatcherRestartAfterContextCancel(t *testing.T) {
	dir := newContentDir(t)
	w, err := NewContentWatcher(dir, testDebounce, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()
	require.Eventually(t, func() bool { return !w.isRunning() }, 3*time.Second, 10*time.Millisecond,
		"ctx 取消后不再处于运行状态")

	t.Run("重新启动后继续通知", func(t *testing.T) {
		require.NoError(t, w.Start(context.Background()))
		defer w.Stop()
		require.True(t, w.isRunning())

		path := filepath.Join(dir, "site", "wealphy.yaml")
		require.NoError(t, os.WriteFile(path, []byte("id: wealphy\n"), 0o644))
		assert.Equal(t, []string{path}, waitChange(t, w).Paths)
	})
}

func TestNewContentWatcherErrors(t *testing.T) {
	_, err := NewContentWatcher(filepath.Join(t.TempDir(), "missing"), 0, nil)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.yaml")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = NewContentWatcher(file, 0, nil)
	assert.Error(t, err)
}

func TestIsContentFile(t *testing.T) {
	assert.True(t, isContentFile("site/a.yaml"))
	assert.True(t, isContentFile("A.YML"))
	assert.False(t, isContentFile("a.yaml~"))
	assert.False(t, isContentFile("notes.txt"))
}
