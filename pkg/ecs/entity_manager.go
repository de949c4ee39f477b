package ecs

import "reflect"

// EntityID 是实体的唯一标识符
// 0 保留为无效 ID（用于表示"未引用任何实体"）
type EntityID uint64

// componentSet 单个实体的组件：组件类型 -> 组件实例（指针）
type componentSet map[reflect.Type]any

// EntityManager 管理所有实体和组件
//
// ID 单调递增且不复用，order 按创建顺序保存存活实体，
// 因此查询结果天然按 ID 升序，系统遍历顺序在多次运行之间保持一致。
type EntityManager struct {
	nextID     uint64
	components map[EntityID]componentSet
	order      []EntityID

	// 待删除实体，帧末由 RemoveMarkedEntities 统一清理
	pending      map[EntityID]struct{}
	pendingOrder []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:       1,
		components:   make(map[EntityID]componentSet),
		order:        make([]EntityID, 0),
		pending:      make(map[EntityID]struct{}),
		pendingOrder: make([]EntityID, 0),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(componentSet)
	em.order = append(em.order, id)
	return id
}

// EntityExists 检查实体是否存在（已标记删除但尚未清理的实体仍视为存在）
func (em *EntityManager) EntityExists(id EntityID) bool {
	_, exists := em.components[id]
	return exists
}

// EntityCount 返回存活实体数量（含已标记删除、尚未清理的实体）
func (em *EntityManager) EntityCount() int {
	return len(em.order)
}

// DestroyEntity 标记实体待删除，RemoveMarkedEntities 时才真正移除
// 不存在的实体和重复标记会被忽略
func (em *EntityManager) DestroyEntity(id EntityID) {
	if !em.EntityExists(id) {
		return
	}
	if _, marked := em.pending[id]; marked {
		return
	}
	em.pending[id] = struct{}{}
	em.pendingOrder = append(em.pendingOrder, id)
}

// IsMarkedForDestroy 实体是否已标记待删除
func (em *EntityManager) IsMarkedForDestroy(id EntityID) bool {
	_, marked := em.pending[id]
	return marked
}

// AddComponent 为实体添加组件，同类型组件会被替换
// 实体不存在时忽略并返回 false
func (em *EntityManager) AddComponent(id EntityID, component any) bool {
	set, exists := em.components[id]
	if !exists {
		return false
	}
	set[reflect.TypeOf(component)] = component
	return true
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if set, exists := em.components[id]; exists {
		delete(set, componentType)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (any, bool) {
	comp, found := em.components[id][componentType]
	return comp, found
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, found := em.components[id][componentType]
	return found
}

// RemoveMarkedEntities 清理所有标记删除的实体
func (em *EntityManager) RemoveMarkedEntities() {
	if len(em.pendingOrder) == 0 {
		return
	}
	for _, id := range em.pendingOrder {
		delete(em.components, id)
	}

	alive := em.order[:0]
	for _, id := range em.order {
		if _, marked := em.pending[id]; !marked {
			alive = append(alive, id)
		}
	}
	em.order = alive

	clear(em.pending)
	em.pendingOrder = em.pendingOrder[:0]
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 返回的实体ID按升序排列
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)
	for _, id := range em.order {
		set := em.components[id]
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := set[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}
	return result
}
