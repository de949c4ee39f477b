package components

import "github.com/decker502/tweenanim/pkg/types"

// NavMeshSurfaceComponent 导航网格表面
//
// 表面是 XZ 平面上的规则网格，从 Origin 开始向 +X/+Z 延伸
// Width × Depth 个格子。重建时根据障碍物的占地范围重新计算每个格子是否可行走。
type NavMeshSurfaceComponent struct {
	Origin   types.Vec3
	CellSize float64
	Width    int // X 方向格子数
	Depth    int // Z 方向格子数

	// Walkable 行优先存储（索引 = z*Width + x），重建前为 nil
	Walkable []bool

	// BuildCount 已重建次数
	BuildCount int
}

// NavMeshObstacleComponent 障碍物标记
// 激活的障碍物在重建时阻挡其占地范围内的格子
type NavMeshObstacleComponent struct{}
