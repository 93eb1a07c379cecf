package game

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

var errNoSceneFactory = errors.New("scene factory not set")

// SceneFactory 场景工厂函数类型
// 用于创建指定变体的页面场景，避免循环依赖
type SceneFactory func(variantID string) (Scene, error)

// SceneManager manages which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time,
// and that the outgoing scene is torn down before the next one takes over.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory // 场景工厂函数，用于创建新场景
	logger       *zap.Logger
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager(logger *zap.Logger) *SceneManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SceneManager{logger: logger.Named("SceneManager")}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
// The outgoing scene is unmounted first when it implements Unmountable.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene == scene {
		return
	}
	if old, ok := sm.currentScene.(Unmountable); ok {
		old.Unmount()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景
//
// 返回：
//   - Scene: 当前场景，如果没有活动场景则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadVariant 创建并切换到指定变体的场景
// 创建失败时保持当前场景不变
func (sm *SceneManager) LoadVariant(variantID string) error {
	if sm.sceneFactory == nil {
		return errNoSceneFactory
	}

	sm.logger.Info("loading variant", zap.String("variant", variantID))
	scene, err := sm.sceneFactory(variantID)
	if err != nil {
		sm.logger.Error("failed to create scene", zap.String("variant", variantID), zap.Error(err))
		return err
	}
	sm.SwitchTo(scene)
	return nil
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// Close 卸载当前场景（程序退出时调用）
func (sm *SceneManager) Close() {
	if old, ok := sm.currentScene.(Unmountable); ok {
		old.Unmount()
	}
	sm.currentScene = nil
}
