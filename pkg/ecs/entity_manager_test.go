package ecs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试组件类型定义
type testPositionComponent struct {
	X, Y float64
}

type testGlowComponent struct {
	Alpha float64
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	assert.NotEqual(t, id1, id2, "Entity IDs should be unique")
	assert.Equal(t, EntityID(1), id1, "First entity ID should be 1")
	assert.Equal(t, EntityID(2), id2)
	assert.Equal(t, 2, em.EntityCount())
	assert.False(t, em.Exists(InvalidEntity))
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	em.AddComponent(id, &testPositionComponent{X: 100, Y: 200})

	comp, found := em.GetComponent(id, reflect.TypeOf(&testPositionComponent{}))
	require.True(t, found)
	pos := comp.(*testPositionComponent)
	assert.Equal(t, 100.0, pos.X)
	assert.Equal(t, 200.0, pos.Y)

	// 泛型版本返回同一个实例
	typed, ok := GetComponent[*testPositionComponent](em, id)
	require.True(t, ok)
	assert.Same(t, pos, typed)

	_, ok = GetComponent[*testGlowComponent](em, id)
	assert.False(t, ok)
}

func TestAddComponentToMissingEntity(t *testing.T) {
	em := NewEntityManager()
	em.AddComponent(EntityID(42), &testPositionComponent{})
	assert.False(t, HasComponent[*testPositionComponent](em, 42))
	assert.Equal(t, 0, em.EntityCount())
}

func TestRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testGlowComponent{Alpha: 0.5})

	require.True(t, HasComponent[*testGlowComponent](em, id))
	RemoveComponent[*testGlowComponent](em, id)
	assert.False(t, HasComponent[*testGlowComponent](em, id))
	assert.True(t, em.Exists(id))
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testPositionComponent{})

	em.DestroyEntity(id)

	// 清理前实体仍存在
	assert.True(t, HasComponent[*testPositionComponent](em, id))
	assert.Equal(t, 1, em.PendingDestroy())

	// 清理后实体消失
	em.RemoveMarkedEntities()
	assert.False(t, HasComponent[*testPositionComponent](em, id))
	assert.False(t, em.Exists(id))
	assert.Equal(t, 0, em.PendingDestroy())
}

func TestGetEntitiesWith(t *testing.T) {
	em := NewEntityManager()

	id1 := em.CreateEntity()
	em.AddComponent(id1, &testPositionComponent{})
	em.AddComponent(id1, &testGlowComponent{})

	id2 := em.CreateEntity()
	em.AddComponent(id2, &testPositionComponent{})

	id3 := em.CreateEntity()
	em.AddComponent(id3, &testGlowComponent{})

	assert.Equal(t, []EntityID{id1}, GetEntitiesWith2[*testPositionComponent, *testGlowComponent](em))
	assert.Equal(t, []EntityID{id1, id2}, GetEntitiesWith1[*testPositionComponent](em))
	assert.Equal(t, []EntityID{id1, id3}, em.GetEntitiesWith(reflect.TypeOf(&testGlowComponent{})))
}

func TestGetEntitiesWith_SortedByID(t *testing.T) {
	em := NewEntityManager()
	for i := 0; i < 50; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testGlowComponent{})
	}

	ids := GetEntitiesWith1[*testGlowComponent](em)
	require.Len(t, ids, 50)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestDestroyMultipleEntities(t *testing.T) {
	em := NewEntityManager()

	id1 := em.CreateEntity()
	id2 := em.CreateEntity()
	id3 := em.CreateEntity()
	for _, id := range []EntityID{id1, id2, id3} {
		em.AddComponent(id, &testPositionComponent{})
	}

	em.DestroyEntity(id1)
	em.DestroyEntity(id3)
	em.RemoveMarkedEntities()

	assert.Equal(t, []EntityID{id2}, GetEntitiesWith1[*testPositionComponent](em))
}

func BenchmarkGetEntitiesWith2(b *testing.B) {
	em := NewEntityManager()
	for i := 0; i < 200; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testPositionComponent{})
		if i%2 == 0 {
			em.AddComponent(id, &testGlowComponent{})
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetEntitiesWith2[*testPositionComponent, *testGlowComponent](em)
	}
}
