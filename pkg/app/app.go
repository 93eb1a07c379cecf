// Package app 提供预览器的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 的 preview 命令调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"

	"github.com/gonewx/restoration/internal/watch"
	"github.com/gonewx/restoration/pkg/config"
	"github.com/gonewx/restoration/pkg/embedded"
	"github.com/gonewx/restoration/pkg/game"
	"github.com/gonewx/restoration/pkg/scenes"
	"github.com/gonewx/restoration/pkg/utils"
)

// AppName 设置存储使用的应用名
const AppName = "restoration"

// Config 定义应用启动配置
type Config struct {
	// Variant 指定要打开的变体，为空则使用上次查看的变体或默认变体
	Variant string
	// ContentDir 从磁盘目录读取内容并在文件变化时自动重新加载，为空则使用嵌入内容
	ContentDir string
	// DisableStorage 不读写设置存储（仅内存设置）
	DisableStorage bool
	// Logger 日志记录器，可为 nil
	Logger *zap.Logger
}

// App 是预览器的核心包装器，实现 ebiten.Game 接口
type App struct {
	logger          *zap.Logger
	resourceManager *game.ResourceManager
	settings        *game.SettingsManager
	sceneManager    *game.SceneManager
	contentDir      string
	watcher         *watch.ContentWatcher

	title                    string
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
	closed                   bool
}

// NewApp 创建并初始化预览器
//
// 使用嵌入内容时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("App")

	content, err := embedded.ContentOrDir(cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("内容目录不可用: %w", err)
	}
	rm := game.NewResourceManager(content)
	if err := rm.LoadContent(); err != nil {
		return nil, fmt.Errorf("内容加载失败: %w", err)
	}

	a := &App{
		logger:          logger,
		resourceManager: rm,
		settings:        game.NewSettingsManager(openStorage(cfg, logger), logger),
		sceneManager:    game.NewSceneManager(logger),
		contentDir:      cfg.ContentDir,
	}
	a.sceneManager.SetSceneFactory(a.newScene)

	if err := a.loadInitialVariant(cfg.Variant); err != nil {
		return nil, err
	}

	if cfg.ContentDir != "" {
		w, err := watch.NewContentWatcher(cfg.ContentDir, 0, logger)
		if err != nil {
			return nil, err
		}
		if err := w.Start(context.Background()); err != nil {
			return nil, fmt.Errorf("内容监视启动失败: %w", err)
		}
		a.watcher = w
	}

	return a, nil
}

// openStorage 打开 gdata 存储；失败时返回 nil，设置只保存在内存中
func openStorage(cfg Config, logger *zap.Logger) *gdata.Manager {
	if cfg.DisableStorage {
		return nil
	}
	if err := utils.EnsureStorageDir(); err != nil {
		logger.Warn("failed to prepare storage dir", zap.Error(err))
	}
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		logger.Warn("settings storage unavailable, running without persistence", zap.Error(err))
		return nil
	}
	return m
}

func (a *App) newScene(variantID string) (game.Scene, error) {
	s, err := scenes.NewLandingScene(a.resourceManager, a.settings, variantID, nil, a.logger)
	if err != nil {
		return nil, err
	}
	s.SetVariantSwitcher(a.sceneManager.LoadVariant)
	return s, nil
}

// loadInitialVariant 依次尝试命令行指定的变体、上次查看的变体和默认变体
//
// 命令行指定的变体不存在时返回错误；保存的变体失效时回退到默认变体。
func (a *App) loadInitialVariant(requested string) error {
	if requested != "" {
		if err := a.sceneManager.LoadVariant(requested); err != nil {
			return fmt.Errorf("无法打开变体 %q: %w", requested, err)
		}
		return nil
	}

	if saved := a.settings.GetSettings().Variant; saved != "" {
		err := a.sceneManager.LoadVariant(saved)
		if err == nil {
			return nil
		}
		a.logger.Warn("saved variant unavailable, using default", zap.String("variant", saved), zap.Error(err))
	}

	if err := a.sceneManager.LoadVariant(""); err != nil {
		return fmt.Errorf("无法打开默认变体: %w", err)
	}
	return nil
}

// CurrentScene 返回当前页面场景
func (a *App) CurrentScene() *scenes.LandingScene {
	s, _ := a.sceneManager.GetCurrentScene().(*scenes.LandingScene)
	return s
}

// WindowTitle 返回当前变体对应的窗口标题
func (a *App) WindowTitle() string {
	s := a.CurrentScene()
	if s == nil || s.Site().Brand == "" {
		return config.WindowTitle
	}
	return config.WindowTitle + " · " + s.Site().Brand
}

// Settings 返回设置管理器
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// Update 更新预览器逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.Close()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
			a.logger.Debug("delayed window size reset", zap.Int("width", config.WindowWidth), zap.Int("height", config.WindowHeight))
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.pollContentChanges()

	a.sceneManager.Update(1.0 / float64(ebiten.TPS()))

	if title := a.WindowTitle(); title != a.title {
		ebiten.SetWindowTitle(title)
		a.title = title
	}
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		a.settings.SetFullscreen(false)
		return
	}
	ebiten.SetFullscreen(true)
	a.settings.SetFullscreen(true)
}

// pollContentChanges 非阻塞地检查内容目录是否变化
func (a *App) pollContentChanges() {
	if a.watcher == nil {
		return
	}
	select {
	case change := <-a.watcher.Changes():
		a.logger.Info("reloading content", zap.Strings("paths", change.Paths))
		if err := a.ReloadContent(os.DirFS(a.contentDir)); err != nil {
			a.logger.Error("content reload failed, keeping previous content", zap.Error(err))
		}
	default:
	}
}

// ReloadContent 从 fsys 重新加载内容并刷新当前场景
//
// 新内容加载失败时保持旧内容；当前变体被删除时切换到默认变体。
func (a *App) ReloadContent(fsys fs.FS) error {
	if err := a.resourceManager.Reload(fsys); err != nil {
		return err
	}
	scene := a.CurrentScene()
	if scene == nil {
		return a.sceneManager.LoadVariant("")
	}
	site, err := a.resourceManager.Site(scene.Site().ID)
	if errors.Is(err, config.ErrUnknownVariant) {
		a.logger.Warn("variant removed, switching to default", zap.String("variant", scene.Site().ID))
		return a.sceneManager.LoadVariant("")
	}
	if err != nil {
		return err
	}
	scene.Reload(site, a.resourceManager.Icons())
	return nil
}

// Draw 绘制当前场景
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// Close 保存当前场景的设置并停止内容监视，可重复调用
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if s, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		if !s.SaveOnExit() {
			a.logger.Warn("settings were not saved")
		}
	}
	a.sceneManager.Close()
	if a.watcher != nil {
		a.watcher.Stop()
	}
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}
