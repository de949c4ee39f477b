package components

// GameObjectComponent 场景对象组件
// 每个场景对象都拥有此组件，记录名称与激活状态
type GameObjectComponent struct {
	// Name 对象名称，同时作为持久化标记的身份标识
	// 共享同一存储的对象之间必须唯一，否则标记会互相覆盖
	Name string

	// Active 是否处于激活状态
	Active bool

	// Awakened 是否已执行过首次初始化（Awake）
	Awakened bool

	// Started 是否已执行过首次使用设置（Start）
	Started bool
}
