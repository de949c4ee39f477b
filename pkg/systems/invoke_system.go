package systems

import (
	"sort"

	"github.com/decker502/tweenanim/pkg/components"
	"github.com/decker502/tweenanim/pkg/ecs"
)

// InvokeSystem 延迟调用系统
// 在指定延迟后调用一次回调；计时器作为 InvokeComponent 挂在实体上
type InvokeSystem struct {
	entityManager *ecs.EntityManager
}

// NewInvokeSystem 创建延迟调用系统
func NewInvokeSystem(em *ecs.EntityManager) *InvokeSystem {
	return &InvokeSystem{
		entityManager: em,
	}
}

// Invoke 在 delay 秒后调用 fn
// 同一实体上的同名调用会替换之前尚未触发的调用。
// fn 收到的 late 是触发帧内超过 delay 的时长（0 <= late <= dt）。
func (s *InvokeSystem) Invoke(id ecs.EntityID, name string, delay float64, fn func(late float64) error) {
	comp, ok := ecs.GetComponent[*components.InvokeComponent](s.entityManager, id)
	if !ok {
		comp = &components.InvokeComponent{Timers: make(map[string]*components.TimerComponent)}
		ecs.AddComponent(s.entityManager, id, comp)
	}
	if delay < 0 {
		delay = 0
	}
	comp.Timers[name] = &components.TimerComponent{
		Name:       name,
		TargetTime: delay,
		Callback:   fn,
	}
}

// CancelInvoke 取消尚未触发的调用
func (s *InvokeSystem) CancelInvoke(id ecs.EntityID, name string) {
	if comp, ok := ecs.GetComponent[*components.InvokeComponent](s.entityManager, id); ok {
		delete(comp.Timers, name)
	}
}

// IsInvoking 是否存在尚未触发的同名调用
func (s *InvokeSystem) IsInvoking(id ecs.EntityID, name string) bool {
	comp, ok := ecs.GetComponent[*components.InvokeComponent](s.entityManager, id)
	if !ok {
		return false
	}
	_, pending := comp.Timers[name]
	return pending
}

// dueTimer 本帧到期的计时器
type dueTimer struct {
	id    ecs.EntityID
	timer *components.TimerComponent
}

// Update 推进所有计时器并触发到期的回调
//
// 先统一推进时间再依次触发，回调中新建的计时器从下一帧开始计时；
// 被前面的回调取消或替换的计时器不会触发。
// 返回第一个回调错误，其余回调照常执行。
func (s *InvokeSystem) Update(dt float64) error {
	due := make([]dueTimer, 0)

	for _, id := range ecs.GetEntitiesWith1[*components.InvokeComponent](s.entityManager) {
		comp, _ := ecs.GetComponent[*components.InvokeComponent](s.entityManager, id)

		names := make([]string, 0, len(comp.Timers))
		for name := range comp.Timers {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			timer := comp.Timers[name]
			timer.CurrentTime += dt
			if timer.CurrentTime >= timer.TargetTime {
				timer.IsReady = true
				due = append(due, dueTimer{id: id, timer: timer})
			}
		}
	}

	var firstErr error
	for _, d := range due {
		comp, ok := ecs.GetComponent[*components.InvokeComponent](s.entityManager, d.id)
		if !ok || comp.Timers[d.timer.Name] != d.timer {
			continue
		}
		delete(comp.Timers, d.timer.Name)

		if d.timer.Callback == nil {
			continue
		}
		late := d.timer.CurrentTime - d.timer.TargetTime
		if err := d.timer.Callback(late); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
