package systems

import (
	"fmt"
	"log"

	"github.com/decker502/tweenanim/pkg/components"
	"github.com/decker502/tweenanim/pkg/ecs"
	"github.com/decker502/tweenanim/pkg/tween"
	"github.com/decker502/tweenanim/pkg/types"
)

// 持久化键前缀
const (
	finalKeyPrefix      = "Final"
	openStaticKeyPrefix = "OpenStatic"
)

// startInvokeName 延迟启动动画的调用名
const startInvokeName = "tween_start"

// PrefsStore 键值持久化存储
// 未设置的键返回 0
type PrefsStore interface {
	GetInt(key string) int
	SetInt(key string, value int)
}

// ObjectActivator 对象激活控制
type ObjectActivator interface {
	SetActive(id ecs.EntityID, active bool) error
	IsActive(id ecs.EntityID) bool
}

// Scheduler 延迟单次调用
type Scheduler interface {
	Invoke(id ecs.EntityID, name string, delay float64, fn func(late float64) error)
	CancelInvoke(id ecs.EntityID, name string)
}

// NavMeshBuilder 导航网格重建
type NavMeshBuilder interface {
	Build(surfaceID ecs.EntityID) error
}

// FinalKey 返回通道完成标记的键，如 "FinalMoveDoor"
func FinalKey(moveType components.MoveType, identity string) string {
	return finalKeyPrefix + moveType.ChannelName() + identity
}

// OpenStaticKey 返回"已显示替换对象"标记的键，如 "OpenStaticDoor"
func OpenStaticKey(identity string) string {
	return openStaticKeyPrefix + identity
}

// TweenAnimatorSystem 补间动画控制系统
//
// 驱动挂有 TweenAnimatorComponent 的对象完成一次（或循环的）旋转/移动/缩放动画。
// 作为 LifecycleListener 注册到 ActivationSystem，由对象激活/停用驱动：
//   - Awake: 记录身份、起始变换与循环次数
//   - Start: 恢复持久化的完成状态，或调度动画
//   - OnActivate: 非持久化模式下调度动画
//   - OnDeactivate: 取消挂起的启动并释放当前序列
//
// 动画完成后按配置写入完成标记；缩放通道还可以显示替换对象、重建导航网格。
type TweenAnimatorSystem struct {
	entityManager *ecs.EntityManager
	activator     ObjectActivator
	scheduler     Scheduler
	engine        tween.Engine
	prefs         PrefsStore
	navMesh       NavMeshBuilder
}

// NewTweenAnimatorSystem 创建补间动画控制系统
// navMesh 可以为 nil，此时配置了导航网格重建的动画会在完成时返回错误
func NewTweenAnimatorSystem(
	em *ecs.EntityManager,
	activator ObjectActivator,
	scheduler Scheduler,
	engine tween.Engine,
	prefs PrefsStore,
	navMesh NavMeshBuilder,
) *TweenAnimatorSystem {
	return &TweenAnimatorSystem{
		entityManager: em,
		activator:     activator,
		scheduler:     scheduler,
		engine:        engine,
		prefs:         prefs,
		navMesh:       navMesh,
	}
}

// Awake 初始化：记录身份与起始变换，计算循环次数
func (s *TweenAnimatorSystem) Awake(id ecs.EntityID) error {
	anim, ok := ecs.GetComponent[*components.TweenAnimatorComponent](s.entityManager, id)
	if !ok {
		return nil
	}
	tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	if !ok {
		return fmt.Errorf("entity %d has animator but no transform", id)
	}

	if obj, ok := ecs.GetComponent[*components.GameObjectComponent](s.entityManager, id); ok {
		anim.Identity = obj.Name
	}
	anim.StartTransform = *tr
	if anim.Config.LoopMode == components.LoopForever {
		anim.LoopCount = tween.LoopInfinite
	} else {
		anim.LoopCount = 0
	}
	anim.State = components.StateUninitialized
	return nil
}

// Start 首次使用设置
//
// 先检查"已显示替换对象"标记（命中则直接显示并隐藏自身，跳过完成标记检查），
// 再在持久化模式下检查通道完成标记：命中则直接跳到终点，否则调度动画。
func (s *TweenAnimatorSystem) Start(id ecs.EntityID) error {
	anim, ok := ecs.GetComponent[*components.TweenAnimatorComponent](s.entityManager, id)
	if !ok {
		return nil
	}
	cfg := anim.Config

	if cfg.RevealOnCompletion && s.prefs.GetInt(OpenStaticKey(anim.Identity)) == 1 {
		log.Printf("[TweenAnimatorSystem] %s: reveal already happened, applying immediately", anim.Identity)
		return s.reveal(id, anim, false)
	}

	if !cfg.PersistCompletion {
		return nil
	}

	if s.prefs.GetInt(FinalKey(cfg.MoveType, anim.Identity)) != 1 {
		s.scheduleStart(id, anim)
		return nil
	}

	tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	if !ok {
		return fmt.Errorf("entity %d has animator but no transform", id)
	}
	anim.Completed = true
	anim.State = components.StateCompleted
	final := s.finalValue(anim)
	tr.SetChannel(cfg.MoveType, final)
	log.Printf("[TweenAnimatorSystem] %s: %s already completed, snapped to %v",
		anim.Identity, cfg.MoveType.ChannelName(), final)
	return nil
}

// OnActivate 激活回调
//
// 非持久化模式：未完成时（可选地重置通道后）调度动画；已有序列则重新播放。
// 持久化模式：只有 Start 之后被停用打断的实例会重新调度。
func (s *TweenAnimatorSystem) OnActivate(id ecs.EntityID) error {
	anim, ok := ecs.GetComponent[*components.TweenAnimatorComponent](s.entityManager, id)
	if !ok {
		return nil
	}
	cfg := anim.Config

	if cfg.PersistCompletion {
		if !anim.Completed && (anim.State == components.StateIdlePending || anim.State == components.StateAnimating) {
			s.scheduleStart(id, anim)
		}
		return nil
	}

	if !anim.Completed {
		if cfg.ResetOnActivate {
			if tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id); ok {
				tr.SetChannel(cfg.MoveType, anim.StartTransform.Channel(cfg.MoveType))
			}
		}
		s.scheduleStart(id, anim)
	}

	if anim.ActiveSequence != nil && anim.ActiveSequence.IsActive() {
		anim.ActiveSequence.Restart()
	}
	return nil
}

// OnDeactivate 停用回调：取消挂起的启动并立即释放当前序列
// 状态保持不变，重新激活时从同一构建流程继续
func (s *TweenAnimatorSystem) OnDeactivate(id ecs.EntityID) error {
	anim, ok := ecs.GetComponent[*components.TweenAnimatorComponent](s.entityManager, id)
	if !ok {
		return nil
	}

	s.scheduler.CancelInvoke(id, startInvokeName)
	if anim.ActiveSequence != nil {
		anim.ActiveSequence.Kill()
		anim.ActiveSequence = nil
	}
	return nil
}

// scheduleStart 在配置的延迟后构建序列
func (s *TweenAnimatorSystem) scheduleStart(id ecs.EntityID, anim *components.TweenAnimatorComponent) {
	anim.State = components.StateIdlePending
	s.scheduler.Invoke(id, startInvokeName, anim.Config.Delay, func(late float64) error {
		return s.buildSequence(id, late)
	})
}

// buildSequence 构建并播放通道序列
//
// 终点：配置了终点对象时取其当前通道值，否则为"当前值 + Delta"
// （以调用时的当前值为基准，重复构建会叠加偏移）。
// 往返模式追加回到起始值的第二段并按整体重播循环，否则按增量循环。
// late 是延迟到期后本帧剩余的时间，序列第一次推进只前进这么多。
func (s *TweenAnimatorSystem) buildSequence(id ecs.EntityID, late float64) error {
	anim, ok := ecs.GetComponent[*components.TweenAnimatorComponent](s.entityManager, id)
	if !ok || anim.Completed {
		return nil
	}
	tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	if !ok {
		return fmt.Errorf("entity %d has animator but no transform", id)
	}
	cfg := anim.Config
	channel := cfg.MoveType

	easeFn, err := tween.EaseByName(cfg.Easing)
	if err != nil {
		return fmt.Errorf("build sequence for %s: %w", anim.Identity, err)
	}

	target := tr.Channel(channel).Add(cfg.Delta)
	if end, ok := s.endpointTransform(cfg.Endpoint); ok {
		target = end.Channel(channel)
	}

	legs := []tween.Leg{{To: target, Duration: cfg.Duration, Ease: easeFn}}
	loopType := tween.LoopIncremental
	if cfg.BackAndForth {
		legs = append(legs, tween.Leg{To: anim.StartTransform.Channel(channel), Duration: cfg.Duration, Ease: easeFn})
		loopType = tween.LoopRestart
	}

	spec := tween.SequenceSpec{
		Legs:      legs,
		Loops:     anim.LoopCount,
		LoopType:  loopType,
		FirstStep: &late,
	}

	var handle tween.Handle
	if cfg.LoopMode == components.LoopOnce {
		spec.OnComplete = func() error {
			return s.onSequenceComplete(id, handle)
		}
	}

	if anim.ActiveSequence != nil {
		anim.ActiveSequence.Kill()
	}
	handle = s.engine.Play(tween.Target{
		Get: func() types.Vec3 { return tr.Channel(channel) },
		Set: func(v types.Vec3) { tr.SetChannel(channel, v) },
	}, spec)
	anim.ActiveSequence = handle
	anim.State = components.StateAnimating

	log.Printf("[TweenAnimatorSystem] %s: %s -> %v over %.2fs (loops=%d, backAndForth=%v)",
		anim.Identity, channel.ChannelName(), target, cfg.Duration, anim.LoopCount, cfg.BackAndForth)
	return nil
}

// onSequenceComplete 有限序列播放完毕
func (s *TweenAnimatorSystem) onSequenceComplete(id ecs.EntityID, handle tween.Handle) error {
	anim, ok := ecs.GetComponent[*components.TweenAnimatorComponent](s.entityManager, id)
	if !ok {
		return nil
	}
	cfg := anim.Config

	anim.Completed = true
	anim.State = components.StateCompleted
	if anim.ActiveSequence == handle {
		anim.ActiveSequence = nil
	}

	if cfg.PersistCompletion {
		s.prefs.SetInt(FinalKey(cfg.MoveType, anim.Identity), 1)
	}
	log.Printf("[TweenAnimatorSystem] %s: %s animation completed", anim.Identity, cfg.MoveType.ChannelName())

	if cfg.MoveType != components.MoveScale {
		return nil
	}

	if cfg.RevealOnCompletion && s.activator.IsActive(id) {
		if err := s.reveal(id, anim, cfg.PersistCompletion); err != nil {
			return err
		}
	}

	if cfg.RebuildNavMesh {
		if s.navMesh == nil {
			return fmt.Errorf("rebuild navmesh for %s: no navmesh builder", anim.Identity)
		}
		if err := s.navMesh.Build(cfg.NavMeshSurface); err != nil {
			return fmt.Errorf("rebuild navmesh for %s: %w", anim.Identity, err)
		}
	}
	return nil
}

// reveal 激活替换对象并隐藏自身
func (s *TweenAnimatorSystem) reveal(id ecs.EntityID, anim *components.TweenAnimatorComponent, writeFlag bool) error {
	if writeFlag {
		s.prefs.SetInt(OpenStaticKey(anim.Identity), 1)
	}
	anim.Completed = true
	anim.State = components.StateStaticallyRevealed

	for _, target := range anim.Config.RevealObjects {
		if err := s.activator.SetActive(target, true); err != nil {
			return fmt.Errorf("reveal %s: %w", anim.Identity, err)
		}
	}
	if err := s.activator.SetActive(id, false); err != nil {
		return fmt.Errorf("reveal %s: %w", anim.Identity, err)
	}

	log.Printf("[TweenAnimatorSystem] %s: revealed %d object(s)", anim.Identity, len(anim.Config.RevealObjects))
	return nil
}

// finalValue 返回通道的最终值（用于恢复已完成的动画）
func (s *TweenAnimatorSystem) finalValue(anim *components.TweenAnimatorComponent) types.Vec3 {
	channel := anim.Config.MoveType
	if end, ok := s.endpointTransform(anim.Config.Endpoint); ok {
		return end.Channel(channel)
	}
	return anim.StartTransform.Channel(channel).Add(anim.Config.Delta)
}

// endpointTransform 解析终点对象的变换；未配置或已不存在时返回 false
func (s *TweenAnimatorSystem) endpointTransform(endpoint ecs.EntityID) (*components.TransformComponent, bool) {
	if endpoint == 0 {
		return nil, false
	}
	return ecs.GetComponent[*components.TransformComponent](s.entityManager, endpoint)
}
