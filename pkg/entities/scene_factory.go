package entities

import (
	"fmt"
	"log"

	"github.com/decker502/tweenanim/pkg/components"
	"github.com/decker502/tweenanim/pkg/config"
	"github.com/decker502/tweenanim/pkg/ecs"
	"github.com/decker502/tweenanim/pkg/types"
)

// SceneEntities 场景生成结果
type SceneEntities struct {
	Order  []ecs.EntityID          // 按配置声明顺序
	ByName map[string]ecs.EntityID // 对象名 -> 实体ID
}

// Lookup 按名称查找实体
func (s *SceneEntities) Lookup(name string) (ecs.EntityID, bool) {
	id, ok := s.ByName[name]
	return id, ok
}

// BuildScene 根据场景配置创建实体
//
// 分两遍处理：第一遍为每个对象创建实体及基础组件，
// 第二遍把动画配置中的对象名解析为实体ID并挂上 TweenAnimatorComponent。
// 生命周期不在这里触发，由调用方对 Order 中的实体逐个 Spawn。
//
// 参数:
//   - em: 实体管理器
//   - cfg: 已校验的场景配置
//
// 返回:
//   - *SceneEntities: 生成的实体索引
//   - error: 配置无法解析时返回错误（已创建的实体会被标记删除）
func BuildScene(em *ecs.EntityManager, cfg *config.SceneConfig) (*SceneEntities, error) {
	scene := &SceneEntities{
		Order:  make([]ecs.EntityID, 0, len(cfg.Objects)),
		ByName: make(map[string]ecs.EntityID, len(cfg.Objects)),
	}

	fail := func(err error) (*SceneEntities, error) {
		for _, id := range scene.Order {
			em.DestroyEntity(id)
		}
		em.RemoveMarkedEntities()
		return nil, err
	}

	for i := range cfg.Objects {
		obj := &cfg.Objects[i]
		if _, dup := scene.ByName[obj.Name]; dup {
			return fail(fmt.Errorf("duplicate object name %q", obj.Name))
		}

		id, err := newSceneObject(em, obj)
		if err != nil {
			return fail(err)
		}
		scene.Order = append(scene.Order, id)
		scene.ByName[obj.Name] = id
	}

	for i := range cfg.Objects {
		obj := &cfg.Objects[i]
		if obj.Animator == nil {
			continue
		}
		animCfg, err := resolveAnimator(obj.Name, obj.Animator, scene)
		if err != nil {
			return fail(err)
		}
		ecs.AddComponent(em, scene.ByName[obj.Name], &components.TweenAnimatorComponent{Config: animCfg})
	}

	log.Printf("[SceneFactory] Built scene %q: %d object(s)", cfg.Name, len(scene.Order))
	return scene, nil
}

// newSceneObject 创建对象实体及其基础组件
func newSceneObject(em *ecs.EntityManager, obj *config.ObjectConfig) (ecs.EntityID, error) {
	tr, err := obj.Transform()
	if err != nil {
		return 0, err
	}

	var surface *components.NavMeshSurfaceComponent
	if obj.NavMesh != nil {
		origin, err := types.NewVec3(obj.NavMesh.Origin, types.Zero)
		if err != nil {
			return 0, fmt.Errorf("object %s navMesh.origin: %w", obj.Name, err)
		}
		surface = &components.NavMeshSurfaceComponent{
			Origin:   origin,
			CellSize: obj.NavMesh.CellSize,
			Width:    obj.NavMesh.Width,
			Depth:    obj.NavMesh.Depth,
		}
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.GameObjectComponent{
		Name:   obj.Name,
		Active: obj.IsActive(),
	})
	ecs.AddComponent(em, id, &tr)

	if obj.Obstacle {
		ecs.AddComponent(em, id, &components.NavMeshObstacleComponent{})
	}
	if surface != nil {
		ecs.AddComponent(em, id, surface)
	}
	return id, nil
}

// resolveAnimator 把动画配置转换为组件配置，对象名解析为实体ID
func resolveAnimator(name string, anim *config.AnimatorConfig, scene *SceneEntities) (components.TweenAnimatorConfig, error) {
	var out components.TweenAnimatorConfig

	moveType, err := config.ParseMoveType(anim.MoveType)
	if err != nil {
		return out, fmt.Errorf("object %s: %w", name, err)
	}
	loopMode, err := config.ParseLoopMode(anim.LoopMode)
	if err != nil {
		return out, fmt.Errorf("object %s: %w", name, err)
	}
	delta, err := types.NewVec3(anim.Delta, types.Zero)
	if err != nil {
		return out, fmt.Errorf("object %s animator.delta: %w", name, err)
	}

	lookup := func(field, target string) (ecs.EntityID, error) {
		if target == "" {
			return 0, nil
		}
		id, ok := scene.Lookup(target)
		if !ok {
			return 0, fmt.Errorf("object %s: %s %q not found", name, field, target)
		}
		return id, nil
	}

	endpoint, err := lookup("endpoint", anim.Endpoint)
	if err != nil {
		return out, err
	}
	surface, err := lookup("navMeshSurface", anim.NavMeshSurface)
	if err != nil {
		return out, err
	}
	reveal := make([]ecs.EntityID, 0, len(anim.RevealObjects))
	for _, target := range anim.RevealObjects {
		id, err := lookup("reveal object", target)
		if err != nil {
			return out, err
		}
		reveal = append(reveal, id)
	}

	out = components.TweenAnimatorConfig{
		MoveType:           moveType,
		LoopMode:           loopMode,
		BackAndForth:       anim.BackAndForth,
		PersistCompletion:  anim.PersistCompletion,
		ResetOnActivate:    anim.ResetOnActivate,
		Easing:             anim.Easing,
		Duration:           anim.Duration,
		Delay:              anim.Delay,
		Delta:              delta,
		Endpoint:           endpoint,
		RevealOnCompletion: anim.RevealOnCompletion,
		RevealObjects:      reveal,
		RebuildNavMesh:     anim.RebuildNavMesh,
		NavMeshSurface:     surface,
	}
	return out, nil
}
