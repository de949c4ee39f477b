package systems

import (
	"fmt"

	"github.com/decker502/tweenanim/pkg/components"
	"github.com/decker502/tweenanim/pkg/ecs"
)

// LifecycleListener 对象生命周期回调
//
// 对象第一次激活时依次调用 Awake -> OnActivate -> Start，
// 之后每次激活只调用 OnActivate，每次停用调用 OnDeactivate。
// 监听器应忽略与自己无关的实体。
type LifecycleListener interface {
	Awake(id ecs.EntityID) error
	OnActivate(id ecs.EntityID) error
	Start(id ecs.EntityID) error
	OnDeactivate(id ecs.EntityID) error
}

// ActivationSystem 对象激活系统
// 负责切换 GameObjectComponent.Active 并分发生命周期回调
type ActivationSystem struct {
	entityManager *ecs.EntityManager
	listeners     []LifecycleListener
}

// NewActivationSystem 创建激活系统
func NewActivationSystem(em *ecs.EntityManager) *ActivationSystem {
	return &ActivationSystem{
		entityManager: em,
		listeners:     make([]LifecycleListener, 0),
	}
}

// AddListener 注册生命周期监听器（按注册顺序调用）
func (s *ActivationSystem) AddListener(listener LifecycleListener) {
	s.listeners = append(s.listeners, listener)
}

// Spawn 为新加入场景的对象运行首次生命周期
// 初始未激活的对象不会被唤醒，直到第一次 SetActive(id, true)
func (s *ActivationSystem) Spawn(id ecs.EntityID) error {
	obj, ok := ecs.GetComponent[*components.GameObjectComponent](s.entityManager, id)
	if !ok {
		return fmt.Errorf("entity %d has no GameObjectComponent", id)
	}
	if !obj.Active || obj.Awakened {
		return nil
	}
	return s.activate(id, obj)
}

// SetActive 设置对象激活状态
// 状态未变化时不触发任何回调
func (s *ActivationSystem) SetActive(id ecs.EntityID, active bool) error {
	obj, ok := ecs.GetComponent[*components.GameObjectComponent](s.entityManager, id)
	if !ok {
		return fmt.Errorf("entity %d has no GameObjectComponent", id)
	}
	if obj.Active == active {
		return nil
	}

	obj.Active = active
	if active {
		return s.activate(id, obj)
	}

	for _, l := range s.listeners {
		if err := l.OnDeactivate(id); err != nil {
			return fmt.Errorf("deactivate %s: %w", obj.Name, err)
		}
	}
	return nil
}

// IsActive 对象是否处于激活状态
func (s *ActivationSystem) IsActive(id ecs.EntityID) bool {
	obj, ok := ecs.GetComponent[*components.GameObjectComponent](s.entityManager, id)
	return ok && obj.Active
}

func (s *ActivationSystem) activate(id ecs.EntityID, obj *components.GameObjectComponent) error {
	if !obj.Awakened {
		obj.Awakened = true
		for _, l := range s.listeners {
			if err := l.Awake(id); err != nil {
				return fmt.Errorf("awake %s: %w", obj.Name, err)
			}
		}
	}

	for _, l := range s.listeners {
		if err := l.OnActivate(id); err != nil {
			return fmt.Errorf("activate %s: %w", obj.Name, err)
		}
	}

	// 激活回调中被停用的对象推迟到下次激活再执行 Start
	if obj.Started || !obj.Active {
		return nil
	}
	obj.Started = true
	for _, l := range s.listeners {
		if err := l.Start(id); err != nil {
			return fmt.Errorf("start %s: %w", obj.Name, err)
		}
	}
	return nil
}
