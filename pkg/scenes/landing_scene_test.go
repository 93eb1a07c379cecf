package scenes

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gonewx/restoration/pkg/components"
	"github.com/gonewx/restoration/pkg/config"
	"github.com/gonewx/restoration/pkg/ecs"
	"github.com/gonewx/restoration/pkg/game"
)

func newTestResources(t *testing.T) *game.ResourceManager {
	t.Helper()
	rm := game.NewResourceManager(os.DirFS("../../data"))
	require.NoError(t, rm.LoadContent())
	return rm
}

func newTestScene(t *testing.T, variant string, settings *game.SettingsManager) *LandingScene {
	t.Helper()
	s, err := NewLandingScene(newTestResources(t), settings, variant, nil, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestNewLandingSceneMountsFields(t *testing.T) {
	t.Run("WEAL.THY 三个粒子场", func(t *testing.T) {
		s := newTestScene(t, "wealthy", nil)
		fs := s.FieldSystem()
		require.Len(t, fs.Fields(), 3)

		for section, count := range map[string]int{"top": 36, "trilogy": 24, "philosophy": 20} {
			id, ok := fs.FieldBySection(section)
			require.True(t, ok, section)
			assert.Equal(t, count, fs.ParticleCount(id), section)

			box, _ := s.Layout().Section(section)
			bounds, ok := ecs.GetComponent[*components.BoundsComponent](s.EntityManager(), id)
			require.True(t, ok)
			assert.Equal(t, box.Bounds(config.WindowWidth), *bounds, "粒子场覆盖整个区块")
		}
	})

	t.Run("weal.phy 没有粒子场", func(t *testing.T) {
		s := newTestScene(t, "wealphy", nil)
		assert.Empty(t, s.FieldSystem().Fields())
		assert.Equal(t, 0, s.EntityManager().EntityCount())
	})

	t.Run("空 ID 使用默认变体", func(t *testing.T) {
		s := newTestScene(t, "", nil)
		assert.Equal(t, "wealthy", s.Site().ID)
	})

	t.Run("未知变体", func(t *testing.T) {
		_, err := NewLandingScene(newTestResources(t), nil, "nope", nil, nil)
		assert.True(t, errors.Is(err, config.ErrUnknownVariant))
	})
}

func TestLandingSceneScroll(t *testing.T) {
	s := newTestScene(t, "wealphy", nil)
	maxScroll := s.Layout().MaxScroll(config.WindowHeight)
	require.Greater(t, maxScroll, 0.0)

	s.ScrollBy(-100)
	assert.Equal(t, 0.0, s.ScrollY())
	s.ScrollBy(1e9)
	assert.Equal(t, maxScroll, s.ScrollY())
	s.ScrollBy(-1e9)

	t.Run("锚点平滑滚动", func(t *testing.T) {
		require.True(t, s.ScrollToAnchor("#manifesto"))
		anchor, _ := s.Layout().AnchorScroll("#manifesto")
		target := clampScroll(anchor, maxScroll)

		s.step(config.AnchorScrollSeconds / 2)
		assert.Greater(t, s.ScrollY(), 0.0)
		assert.Less(t, s.ScrollY(), target)

		s.step(config.AnchorScrollSeconds)
		assert.Equal(t, target, s.ScrollY())
	})

	t.Run("手动滚动取消动画", func(t *testing.T) {
		s.ScrollBy(-1e9)
		s.ScrollToAnchor("#cta")
		s.ScrollBy(10)
		s.step(config.AnchorScrollSeconds)
		assert.Equal(t, 10.0, s.ScrollY())
	})

	t.Run("未知锚点", func(t *testing.T) {
		assert.False(t, s.ScrollToAnchor("#missing"))
	})
}

func TestLandingSceneClickNav(t *testing.T) {
	s := newTestScene(t, "wealphy", nil)

	var nav Element
	for _, e := range s.Layout().Header {
		if e.Href == "#philosophy" {
			nav = e
		}
	}
	require.Equal(t, "#philosophy", nav.Href)

	x, y := center(nav)
	require.True(t, s.Click(x, y))
	s.step(config.AnchorScrollSeconds)

	anchor, _ := s.Layout().AnchorScroll("#philosophy")
	assert.Equal(t, clampScroll(anchor, s.Layout().MaxScroll(config.WindowHeight)), s.ScrollY())

	assert.False(t, s.Click(1, config.WindowHeight-1), "空白处点击不滚动")
}

func TestLandingSceneReducedMotion(t *testing.T) {
	settings := game.NewSettingsManager(nil, nil)
	s := newTestScene(t, "wealthy", settings)
	require.True(t, s.FieldSystem().MotionEnabled())

	s.SetReducedMotion(true)
	assert.False(t, s.FieldSystem().MotionEnabled())
	assert.True(t, settings.GetSettings().ReducedMotion)

	// 减少动画时锚点直接跳转
	require.True(t, s.ScrollToAnchor("#philosophy"))
	anchor, _ := s.Layout().AnchorScroll("#philosophy")
	assert.Equal(t, clampScroll(anchor, s.Layout().MaxScroll(config.WindowHeight)), s.ScrollY())

	// 新场景继承设置
	again := newTestScene(t, "wealthy", settings)
	assert.False(t, again.FieldSystem().MotionEnabled())
}

func TestLandingSceneRegenerate(t *testing.T) {
	s := newTestScene(t, "wealthy", nil)
	em := s.EntityManager()

	before := map[ecs.EntityID]string{}
	for _, id := range s.FieldSystem().Fields() {
		f, _ := ecs.GetComponent[*components.ParticleFieldComponent](em, id)
		before[id] = f.InstanceID.String()
	}
	entities := em.EntityCount()

	require.NoError(t, s.RegenerateFields())
	for id, instance := range before {
		f, _ := ecs.GetComponent[*components.ParticleFieldComponent](em, id)
		assert.NotEqual(t, instance, f.InstanceID.String())
	}
	assert.Equal(t, entities, em.EntityCount(), "旧粒子已释放")
}

func TestLandingSceneReload(t *testing.T) {
	rm := newTestResources(t)
	s, err := NewLandingScene(rm, nil, "wealthy", nil, nil)
	require.NoError(t, err)
	s.ScrollBy(300)

	other, err := rm.Site("wealphy")
	require.NoError(t, err)
	s.Reload(other, rm.Icons())

	assert.Equal(t, "wealphy", s.Site().ID)
	assert.Empty(t, s.FieldSystem().Fields())
	assert.Equal(t, 0, s.EntityManager().EntityCount(), "旧粒子场全部拆除")
	assert.Equal(t, 0.0, s.ScrollY(), "切换记录后回到顶部")

	// 同一记录重新加载时保持滚动位置
	s.ScrollBy(120)
	s.Reload(other, rm.Icons())
	assert.Equal(t, 120.0, s.ScrollY())
}

func TestLandingSceneUnmount(t *testing.T) {
	settings := game.NewSettingsManager(nil, nil)
	s := newTestScene(t, "wealthy", settings)
	s.ScrollBy(250)

	s.Unmount()
	assert.Empty(t, s.FieldSystem().Fields())
	assert.Equal(t, 0, s.EntityManager().EntityCount())
	assert.Equal(t, 250.0, settings.Scroll("wealthy"))

	// 卸载后更新不会复活粒子
	s.step(1)
	assert.Equal(t, 0, s.EntityManager().EntityCount())
}

func TestLandingSceneNextVariant(t *testing.T) {
	settings := game.NewSettingsManager(nil, nil)
	s := newTestScene(t, "wealphy", settings)

	switched, err := s.NextVariant()
	require.NoError(t, err)
	assert.False(t, switched, "未设置切换回调")

	var got string
	s.SetVariantSwitcher(func(id string) error {
		got = id
		return nil
	})
	s.ScrollBy(80)
	switched, err = s.NextVariant()
	require.NoError(t, err)
	assert.True(t, switched)
	assert.Equal(t, "wealthy", got)
	assert.Equal(t, "wealthy", settings.GetSettings().Variant)
	assert.Equal(t, 80.0, settings.Scroll("wealphy"))

	s.SetVariantSwitcher(func(string) error { return errors.New("boom") })
	switched, err = s.NextVariant()
	assert.Error(t, err)
	assert.False(t, switched)
}

func TestLandingSceneSaveOnExit(t *testing.T) {
	settings := game.NewSettingsManager(nil, nil)
	s := newTestScene(t, "wealphy", settings)
	s.ScrollBy(42)

	assert.True(t, s.SaveOnExit())
	assert.Equal(t, "wealphy", settings.GetSettings().Variant)
	assert.Equal(t, 42.0, settings.Scroll("wealphy"))

	restored := newTestScene(t, "wealphy", settings)
	assert.Equal(t, 42.0, restored.ScrollY())
}

var _ game.Unmountable = (*LandingScene)(nil)
var _ game.Saveable = (*LandingScene)(nil)
