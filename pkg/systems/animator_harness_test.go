package systems

import (
	"testing"

	"github.com/decker502/tweenanim/pkg/components"
	"github.com/decker502/tweenanim/pkg/ecs"
	"github.com/decker502/tweenanim/pkg/tween"
	"github.com/decker502/tweenanim/pkg/types"
)

// memoryPrefs 测试用内存存储
type memoryPrefs map[string]int

func (p memoryPrefs) GetInt(key string) int { return p[key] }
func (p memoryPrefs) SetInt(key string, value int) { p[key] = value }

// animatorHarness 手动推进的最小运行时
type animatorHarness struct {
	em         *ecs.EntityManager
	activation *ActivationSystem
	invokes    *InvokeSystem
	tweens     *tween.Manager
	navMesh    *NavMeshSystem
	animators  *TweenAnimatorSystem
	prefs      memoryPrefs
}

func newAnimatorHarness(prefs memoryPrefs) *animatorHarness {
	if prefs == nil {
		prefs = memoryPrefs{}
	}
	em := ecs.NewEntityManager()
	h := &animatorHarness{
		em:         em,
		activation: NewActivationSystem(em),
		invokes:    NewInvokeSystem(em),
		tweens:     tween.NewManager(),
		navMesh:    NewNavMeshSystem(em),
		prefs:      prefs,
	}
	h.animators = NewTweenAnimatorSystem(em, h.activation, h.invokes, h.tweens, prefs, h.navMesh)
	h.activation.AddListener(h.animators)
	return h
}

// addObject 创建场景对象（不触发生命周期）
func (h *animatorHarness) addObject(name string, active bool, tr components.TransformComponent) ecs.EntityID {
	id := h.em.CreateEntity()
	ecs.AddComponent(h.em, id, &components.GameObjectComponent{Name: name, Active: active})
	trCopy := tr
	ecs.AddComponent(h.em, id, &trCopy)
	return id
}

// addAnimated 创建带动画组件的对象
func (h *animatorHarness) addAnimated(name string, tr components.TransformComponent, cfg components.TweenAnimatorConfig) ecs.EntityID {
	id := h.addObject(name, true, tr)
	ecs.AddComponent(h.em, id, &components.TweenAnimatorComponent{Config: cfg})
	return id
}

func (h *animatorHarness) spawn(t *testing.T, ids ...ecs.EntityID) {
	t.Helper()
	for _, id := range ids {
		if err := h.activation.Spawn(id); err != nil {
			t.Fatalf("Spawn(%d) error: %v", id, err)
		}
	}
}

// step 按与 World 相同的顺序推进：先延迟调用，后补间
func (h *animatorHarness) step(t *testing.T, dt float64, frames int) {
	t.Helper()
	for i := 0; i < frames; i++ {
		if err := h.stepOnce(dt); err != nil {
			t.Fatalf("frame %d error: %v", i, err)
		}
	}
}

func (h *animatorHarness) stepOnce(dt float64) error {
	if err := h.invokes.Update(dt); err != nil {
		return err
	}
	return h.tweens.Update(dt)
}

func (h *animatorHarness) transform(t *testing.T, id ecs.EntityID) *components.TransformComponent {
	t.Helper()
	tr, ok := ecs.GetComponent[*components.TransformComponent](h.em, id)
	if !ok {
		t.Fatalf("entity %d has no transform", id)
	}
	return tr
}

func (h *animatorHarness) animator(t *testing.T, id ecs.EntityID) *components.TweenAnimatorComponent {
	t.Helper()
	anim, ok := ecs.GetComponent[*components.TweenAnimatorComponent](h.em, id)
	if !ok {
		t.Fatalf("entity %d has no animator", id)
	}
	return anim
}

// identityTransform 位于原点、无旋转、单位缩放
func identityTransform() components.TransformComponent {
	return components.TransformComponent{Scale: types.One}
}
