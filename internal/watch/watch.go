// Package watch 监视内容目录，在 YAML 文件变化后发出重新加载通知
package watch

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce 编辑器保存时常见的连续写入会合并为一次通知
const DefaultDebounce = 250 * time.Millisecond

// Change 一次合并后的变更通知
type Change struct {
	// Paths 本次合并的所有变更文件（已排序去重）
	Paths []string
	At    time.Time
}

// ContentWatcher 监视内容根目录及其子目录（如 site/）中的 .yaml/.yml 文件
//
// 变化会被合并：最后一次事件后 Debounce 时间内没有新事件才发送通知。
// 通知通道容量为 1，接收方来不及处理时新通知会与未读通知合并。
type ContentWatcher struct {
	dir      string
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	changes chan Change
}

// NewContentWatcher 创建监视 dir 的观察者，debounce 为 0 时使用 DefaultDebounce
func NewContentWatcher(dir string, debounce time.Duration, logger *zap.Logger) (*ContentWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir %s is not a directory", dir)
	}
	return &ContentWatcher{
		dir:      dir,
		debounce: debounce,
		logger:   logger.Named("ContentWatcher"),
		changes:  make(chan Change, 1),
	}, nil
}

// Changes 返回通知通道
func (w *ContentWatcher) Changes() <-chan Change {
	return w.changes
}

// Start 开始监视（非阻塞）
//
// 内容根目录和它的直接子目录都会加入监视。ctx 取消或调用 Stop 后停止，
// 停止后可以再次 Start。
func (w *ContentWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	dirs, err := watchDirs(w.dir)
	if err != nil {
		fw.Close()
		return err
	}
	for _, d := range dirs {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
	}

	w.watcher = fw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true
	go w.run(ctx, fw, w.stopCh, w.doneCh)

	w.logger.Info("watching content", zap.String("dir", w.dir), zap.Int("dirs", len(dirs)))
	return nil
}

func watchDirs(root string) ([]string, error) {
	dirs := []string{root}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read content dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	return dirs, nil
}

// Stop 停止监视并等待后台 goroutine 退出
func (w *ContentWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	fw, stopCh, doneCh := w.watcher, w.stopCh, w.doneCh
	w.watcher = nil
	w.mu.Unlock()

	close(stopCh)
	<-doneCh
	if err := fw.Close(); err != nil {
		w.logger.Warn("failed to close watcher", zap.Error(err))
	}
	w.logger.Debug("stopped")
}

// detach 在 ctx 取消后释放监视器，之后可以重新 Start
func (w *ContentWatcher) detach(fw *fsnotify.Watcher, doneCh chan struct{}) {
	w.mu.Lock()
	if !w.running || w.doneCh != doneCh {
		// Stop 已接管，由它关闭 fw
		w.mu.Unlock()
		return
	}
	w.running = false
	w.watcher = nil
	w.mu.Unlock()

	if err := fw.Close(); err != nil {
		w.logger.Warn("failed to close watcher", zap.Error(err))
	}
	w.logger.Debug("stopped by context")
}

func isContentFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func (w *ContentWatcher) run(ctx context.Context, fw *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := map[string]bool{}
	for {
		select {
		case <-ctx.Done():
			w.detach(fw, doneCh)
			return
		case <-stopCh:
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !isContentFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("content event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			w.publish(pending)
			pending = map[string]bool{}
		}
	}
}

// publish 发送通知；通道中已有未读通知时与其合并
func (w *ContentWatcher) publish(pending map[string]bool) {
	paths := make(map[string]bool, len(pending))
	for p := range pending {
		paths[p] = true
	}
	select {
	case old := <-w.changes:
		for _, p := range old.Paths {
			paths[p] = true
		}
	default:
	}

	change := Change{Paths: slices.Sorted(maps.Keys(paths)), At: time.Now()}
	w.changes <- change
	w.logger.Info("content changed", zap.Strings("paths", change.Paths))
}
