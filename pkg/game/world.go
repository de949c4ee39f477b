package game

import (
	"fmt"
	"log"

	"github.com/decker502/tweenanim/pkg/components"
	"github.com/decker502/tweenanim/pkg/config"
	"github.com/decker502/tweenanim/pkg/ecs"
	"github.com/decker502/tweenanim/pkg/entities"
	"github.com/decker502/tweenanim/pkg/systems"
	"github.com/decker502/tweenanim/pkg/tween"
)

// ObjectState 对象的只读快照（供渲染与调试输出）
type ObjectState struct {
	ID        ecs.EntityID
	Name      string
	Active    bool
	Transform components.TransformComponent
	Obstacle  bool

	HasAnimator bool
	MoveType    components.MoveType
	State       components.AnimatorState
}

// World 场景运行时
//
// 持有实体管理器与全部系统，每帧按固定顺序推进：
// 先延迟调用（可能构建新序列），再推进补间，最后清理删除的实体。
// 预览场景与无界面验证工具共用同一个 World。
type World struct {
	prefs   systems.PrefsStore
	verbose bool

	entityManager *ecs.EntityManager
	activation    *systems.ActivationSystem
	invokes       *systems.InvokeSystem
	tweens        *tween.Manager
	navMesh       *systems.NavMeshSystem
	animators     *systems.TweenAnimatorSystem

	sceneName string
	scene     *entities.SceneEntities
	elapsed   float64
}

// NewWorld 创建空场景运行时
// prefs 保存动画完成标记，场景重载之间共享
func NewWorld(prefs systems.PrefsStore) *World {
	w := &World{prefs: prefs}
	w.reset()
	return w
}

// reset 丢弃当前场景，重建实体管理器与系统
func (w *World) reset() {
	if w.tweens != nil {
		w.tweens.KillAll()
	}

	w.entityManager = ecs.NewEntityManager()
	w.activation = systems.NewActivationSystem(w.entityManager)
	w.invokes = systems.NewInvokeSystem(w.entityManager)
	w.tweens = tween.NewManager()
	w.tweens.SetVerbose(w.verbose)
	w.navMesh = systems.NewNavMeshSystem(w.entityManager)
	w.animators = systems.NewTweenAnimatorSystem(
		w.entityManager, w.activation, w.invokes, w.tweens, w.prefs, w.navMesh)
	w.activation.AddListener(w.animators)

	w.sceneName = ""
	w.scene = &entities.SceneEntities{ByName: map[string]ecs.EntityID{}}
	w.elapsed = 0
}

// SetVerbose 开启补间序列的详细日志
func (w *World) SetVerbose(verbose bool) {
	w.verbose = verbose
	w.tweens.SetVerbose(verbose)
}

// LoadScene 替换当前场景
//
// 生成全部对象后按声明顺序运行首次生命周期，
// 然后对每个导航网格表面做一次初始构建。
// 失败时 World 保持为空场景。
func (w *World) LoadScene(cfg *config.SceneConfig) error {
	w.reset()

	scene, err := entities.BuildScene(w.entityManager, cfg)
	if err != nil {
		return fmt.Errorf("load scene %q: %w", cfg.Name, err)
	}
	w.scene = scene
	w.sceneName = cfg.Name

	for _, id := range scene.Order {
		if err := w.activation.Spawn(id); err != nil {
			w.reset()
			return fmt.Errorf("load scene %q: %w", cfg.Name, err)
		}
	}

	for _, id := range ecs.GetEntitiesWith1[*components.NavMeshSurfaceComponent](w.entityManager) {
		if err := w.navMesh.Build(id); err != nil {
			w.reset()
			return fmt.Errorf("load scene %q: %w", cfg.Name, err)
		}
	}

	log.Printf("[World] Scene %q loaded: %d object(s)", cfg.Name, len(scene.Order))
	return nil
}

// Update 推进一帧
// 延迟调用与补间回调中的错误不会中断本帧，返回第一个错误
func (w *World) Update(dt float64) error {
	w.elapsed += dt

	invokeErr := w.invokes.Update(dt)
	tweenErr := w.tweens.Update(dt)
	w.entityManager.RemoveMarkedEntities()

	if invokeErr != nil {
		return fmt.Errorf("invoke: %w", invokeErr)
	}
	if tweenErr != nil {
		return fmt.Errorf("tween: %w", tweenErr)
	}
	return nil
}

// SceneName 当前场景名
func (w *World) SceneName() string {
	return w.sceneName
}

// Elapsed 场景加载以来经过的模拟时间（秒）
func (w *World) Elapsed() float64 {
	return w.elapsed
}

// ActiveTweens 运行中的补间序列数量
func (w *World) ActiveTweens() int {
	return w.tweens.ActiveCount()
}

// EntityManager 返回实体管理器
func (w *World) EntityManager() *ecs.EntityManager {
	return w.entityManager
}

// NavMesh 返回导航网格系统
func (w *World) NavMesh() *systems.NavMeshSystem {
	return w.navMesh
}

// Lookup 按对象名查找实体
func (w *World) Lookup(name string) (ecs.EntityID, bool) {
	return w.scene.Lookup(name)
}

// Transform 按对象名获取变换
func (w *World) Transform(name string) (*components.TransformComponent, bool) {
	id, ok := w.Lookup(name)
	if !ok {
		return nil, false
	}
	return ecs.GetComponent[*components.TransformComponent](w.entityManager, id)
}

// SetActive 按对象名切换激活状态
func (w *World) SetActive(name string, active bool) error {
	id, ok := w.Lookup(name)
	if !ok {
		return fmt.Errorf("object %q not found", name)
	}
	return w.activation.SetActive(id, active)
}

// IsActive 按对象名查询激活状态
func (w *World) IsActive(name string) bool {
	id, ok := w.Lookup(name)
	return ok && w.activation.IsActive(id)
}

// Objects 返回所有对象的快照（按场景声明顺序）
func (w *World) Objects() []ObjectState {
	out := make([]ObjectState, 0, len(w.scene.Order))
	for _, id := range w.scene.Order {
		obj, ok := ecs.GetComponent[*components.GameObjectComponent](w.entityManager, id)
		if !ok {
			continue
		}
		state := ObjectState{
			ID:       id,
			Name:     obj.Name,
			Active:   obj.Active,
			Obstacle: ecs.HasComponent[*components.NavMeshObstacleComponent](w.entityManager, id),
		}
		if tr, ok := ecs.GetComponent[*components.TransformComponent](w.entityManager, id); ok {
			state.Transform = *tr
		}
		if anim, ok := ecs.GetComponent[*components.TweenAnimatorComponent](w.entityManager, id); ok {
			state.HasAnimator = true
			state.MoveType = anim.Config.MoveType
			state.State = anim.State
		}
		out = append(out, state)
	}
	return out
}

// Surfaces 返回所有导航网格表面
func (w *World) Surfaces() []ecs.EntityID {
	return ecs.GetEntitiesWith1[*components.NavMeshSurfaceComponent](w.entityManager)
}
