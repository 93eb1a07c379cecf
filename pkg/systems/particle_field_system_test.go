package systems

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gonewx/restoration/internal/particle"
	"github.com/gonewx/restoration/pkg/components"
	"github.com/gonewx/restoration/pkg/ecs"
)

// constSource 总是返回同一个值的随机源
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

var testBounds = components.BoundsComponent{X: 0, Y: 100, Width: 1000, Height: 400}

func testConfig(count int) particle.FieldConfig {
	return particle.FieldConfig{
		Count:   count,
		Speed:   12,
		Size:    2,
		Palette: []string{"#fde68a", "#f59e0b", "#22c55e"},
	}
}

func newFieldSystem(t *testing.T) (*ecs.EntityManager, *ParticleFieldSystem) {
	t.Helper()
	em := ecs.NewEntityManager()
	return em, NewParticleFieldSystem(em, nil, zap.NewNop())
}

func TestMount(t *testing.T) {
	em, sys := newFieldSystem(t)

	fieldID, err := sys.Mount("trilogy", testConfig(24), testBounds)
	require.NoError(t, err)

	assert.Equal(t, 24, sys.ParticleCount(fieldID))
	assert.Equal(t, []ecs.EntityID{fieldID}, sys.Fields())

	field, ok := ecs.GetComponent[*components.ParticleFieldComponent](em, fieldID)
	require.True(t, ok)
	assert.Equal(t, "trilogy", field.SectionID)
	assert.Equal(t, 2.0, field.BaseSize)
	assert.Equal(t, 1.0, field.Config.Area.Opacity, "未设置的区域不透明度默认为 1")
	assert.NotEqual(t, [16]byte{}, [16]byte(field.InstanceID))

	for i, pid := range field.Particles {
		glow, ok := ecs.GetComponent[*components.GlowParticleComponent](em, pid)
		require.True(t, ok)
		assert.Equal(t, i, glow.Index)
		assert.Equal(t, fieldID, glow.Field)
		assert.Contains(t, field.Config.Palette, glow.Spec.Color)
	}

	got, ok := sys.FieldBySection("trilogy")
	assert.True(t, ok)
	assert.Equal(t, fieldID, got)
	_, ok = sys.FieldBySection("hero")
	assert.False(t, ok)
}

func TestMountInvalidConfigDegradesToEmpty(t *testing.T) {
	em, sys := newFieldSystem(t)

	cfg := testConfig(5)
	cfg.Palette = []string{}

	fieldID, err := sys.Mount("hero", cfg, testBounds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, particle.ErrInvalidConfiguration))

	// 降级为空粒子场，实体仍然挂载
	assert.Equal(t, 0, sys.ParticleCount(fieldID))
	field, ok := ecs.GetComponent[*components.ParticleFieldComponent](em, fieldID)
	require.True(t, ok)
	assert.ErrorIs(t, field.Err, particle.ErrInvalidConfiguration)

	assert.NotPanics(t, func() { sys.Update(1.0 / 60) })
}

func TestMountZeroCount(t *testing.T) {
	_, sys := newFieldSystem(t)

	cfg := testConfig(0)
	cfg.Palette = []string{}
	fieldID, err := sys.Mount("quiet", cfg, testBounds)
	require.NoError(t, err)
	assert.Equal(t, 0, sys.ParticleCount(fieldID))
}

func TestUnmountStopsParticles(t *testing.T) {
	em, sys := newFieldSystem(t)

	fieldID, err := sys.Mount("hero", testConfig(10), testBounds)
	require.NoError(t, err)
	field, _ := ecs.GetComponent[*components.ParticleFieldComponent](em, fieldID)
	particles := append([]ecs.EntityID(nil), field.Particles...)

	require.NoError(t, sys.Unmount(fieldID))

	// 卸载后立即不再被动画或渲染查询到
	assert.Empty(t, sys.Fields())
	assert.Empty(t, ecs.GetEntitiesWith1[*components.GlowParticleComponent](em))
	assert.Equal(t, 0, sys.ParticleCount(fieldID))

	sys.Update(1)
	em.RemoveMarkedEntities()

	for _, pid := range particles {
		assert.False(t, em.Exists(pid), "particle %d should be released", pid)
	}
	assert.False(t, em.Exists(fieldID))
	assert.Equal(t, 0, em.EntityCount())

	err = sys.Unmount(fieldID)
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestUnmountAll(t *testing.T) {
	em, sys := newFieldSystem(t)
	for _, id := range []string{"a", "b", "c"} {
		_, err := sys.Mount(id, testConfig(3), testBounds)
		require.NoError(t, err)
	}

	sys.UnmountAll()
	em.RemoveMarkedEntities()

	assert.Empty(t, sys.Fields())
	assert.Equal(t, 0, em.EntityCount())
}

func TestRegenerate(t *testing.T) {
	em, sys := newFieldSystem(t)

	fieldID, err := sys.Mount("hero", testConfig(8), testBounds)
	require.NoError(t, err)
	sys.Update(5)

	field, _ := ecs.GetComponent[*components.ParticleFieldComponent](em, fieldID)
	oldInstance := field.InstanceID
	oldParticles := append([]ecs.EntityID(nil), field.Particles...)

	t.Run("整体替换", func(t *testing.T) {
		require.NoError(t, sys.Regenerate(fieldID, testConfig(12)))

		assert.Equal(t, 12, sys.ParticleCount(fieldID))
		assert.NotEqual(t, oldInstance, field.InstanceID)
		assert.Equal(t, 0.0, field.Elapsed)

		// 旧粒子已全部拆除，新旧粒子没有重叠
		for _, pid := range oldParticles {
			assert.False(t, ecs.HasComponent[*components.GlowParticleComponent](em, pid))
			assert.NotContains(t, field.Particles, pid)
		}
		assert.Len(t, ecs.GetEntitiesWith1[*components.GlowParticleComponent](em), 12)
	})

	t.Run("无效配置降级", func(t *testing.T) {
		err := sys.Regenerate(fieldID, particle.FieldConfig{Count: -1})
		assert.True(t, errors.Is(err, particle.ErrInvalidConfiguration))
		assert.Equal(t, 0, sys.ParticleCount(fieldID))
		assert.Empty(t, ecs.GetEntitiesWith1[*components.GlowParticleComponent](em))
	})

	t.Run("未知粒子场", func(t *testing.T) {
		err := sys.Regenerate(ecs.EntityID(9999), testConfig(1))
		assert.True(t, errors.Is(err, ErrUnknownField))
	})
}

func TestRegenerateAll(t *testing.T) {
	em, sys := newFieldSystem(t)
	a, _ := sys.Mount("a", testConfig(4), testBounds)
	b, _ := sys.Mount("b", testConfig(6), testBounds)

	fa, _ := ecs.GetComponent[*components.ParticleFieldComponent](em, a)
	before := fa.InstanceID

	require.NoError(t, sys.RegenerateAll())
	assert.Equal(t, 4, sys.ParticleCount(a))
	assert.Equal(t, 6, sys.ParticleCount(b))
	assert.NotEqual(t, before, fa.InstanceID)
}

func TestUpdateSamplesFrames(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewParticleFieldSystem(em, constSource(0.5), nil)

	// 常量随机源：周期 8 + 0.5×12 = 14 秒，峰值透明度 0.525
	fieldID, err := sys.Mount("hero", testConfig(1), testBounds)
	require.NoError(t, err)
	field, _ := ecs.GetComponent[*components.ParticleFieldComponent](em, fieldID)
	glow, _ := ecs.GetComponent[*components.GlowParticleComponent](em, field.Particles[0])

	assert.Equal(t, 14.0, glow.Spec.Duration)
	assert.Equal(t, 0.0, glow.Frame.Opacity, "周期开始时不可见")

	sys.Update(7)
	assert.InDelta(t, glow.Spec.PeakOpacity, glow.Frame.Opacity, 1e-9)
	assert.InDelta(t, -particle.DriftFraction, glow.Frame.OffsetY, 1e-9)
	assert.InDelta(t, glow.Spec.Scale, glow.Frame.Scale, 1e-9)

	sys.Update(7)
	assert.InDelta(t, 0, glow.Frame.Opacity, 1e-9)
	assert.InDelta(t, 14.0, field.Elapsed, 1e-9)
}

func TestReducedMotion(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewParticleFieldSystem(em, constSource(0.5), nil)

	fieldID, err := sys.Mount("hero", testConfig(3), testBounds)
	require.NoError(t, err)
	field, _ := ecs.GetComponent[*components.ParticleFieldComponent](em, fieldID)

	sys.SetMotionEnabled(false)
	assert.False(t, sys.MotionEnabled())

	sys.Update(3)
	assert.Equal(t, 0.0, field.Elapsed, "时钟停止")
	for _, pid := range field.Particles {
		glow, _ := ecs.GetComponent[*components.GlowParticleComponent](em, pid)
		assert.Equal(t, particle.Peak(glow.Spec), glow.Frame, "粒子停在峰值帧")
	}

	// 关闭动画时新生成的粒子也停在峰值帧
	require.NoError(t, sys.Regenerate(fieldID, testConfig(2)))
	for _, pid := range field.Particles {
		glow, _ := ecs.GetComponent[*components.GlowParticleComponent](em, pid)
		assert.Greater(t, glow.Frame.Opacity, 0.0)
	}

	sys.SetMotionEnabled(true)
	sys.Update(1)
	assert.Equal(t, 1.0, field.Elapsed)
}

func TestSetBounds(t *testing.T) {
	em, sys := newFieldSystem(t)
	fieldID, _ := sys.Mount("hero", testConfig(1), testBounds)

	moved := components.BoundsComponent{X: 10, Y: 20, Width: 30, Height: 40}
	require.NoError(t, sys.SetBounds(fieldID, moved))

	b, _ := ecs.GetComponent[*components.BoundsComponent](em, fieldID)
	assert.Equal(t, moved, *b)

	assert.True(t, errors.Is(sys.SetBounds(ecs.EntityID(777), moved), ErrUnknownField))
}
