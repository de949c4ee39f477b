package systems

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/tweenanim/pkg/components"
	"github.com/decker502/tweenanim/pkg/ecs"
)

// NavMeshSystem 导航网格系统
//
// 重建时扫描所有激活的障碍物，障碍物占地范围为
// 位置 ± 缩放/2（X/Z 轴，即单位立方体缩放后的投影）。
type NavMeshSystem struct {
	entityManager *ecs.EntityManager
}

// NewNavMeshSystem 创建导航网格系统
func NewNavMeshSystem(em *ecs.EntityManager) *NavMeshSystem {
	return &NavMeshSystem{
		entityManager: em,
	}
}

// Build 同步重建指定表面
func (s *NavMeshSystem) Build(surfaceID ecs.EntityID) error {
	if surfaceID == 0 {
		return fmt.Errorf("navmesh surface not set")
	}
	surface, ok := ecs.GetComponent[*components.NavMeshSurfaceComponent](s.entityManager, surfaceID)
	if !ok {
		return fmt.Errorf("entity %d has no navmesh surface", surfaceID)
	}
	if surface.CellSize <= 0 || surface.Width <= 0 || surface.Depth <= 0 {
		return fmt.Errorf("navmesh surface %d has invalid grid %dx%d (cell %.2f)",
			surfaceID, surface.Width, surface.Depth, surface.CellSize)
	}

	type footprint struct{ minX, maxX, minZ, maxZ float64 }
	obstacles := make([]footprint, 0)
	for _, id := range ecs.GetEntitiesWith2[*components.NavMeshObstacleComponent, *components.TransformComponent](s.entityManager) {
		if obj, ok := ecs.GetComponent[*components.GameObjectComponent](s.entityManager, id); ok && !obj.Active {
			continue
		}
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		hx := math.Abs(tr.Scale.X) / 2
		hz := math.Abs(tr.Scale.Z) / 2
		obstacles = append(obstacles, footprint{
			minX: tr.Position.X - hx, maxX: tr.Position.X + hx,
			minZ: tr.Position.Z - hz, maxZ: tr.Position.Z + hz,
		})
	}

	cells := surface.Width * surface.Depth
	if len(surface.Walkable) != cells {
		surface.Walkable = make([]bool, cells)
	}

	walkable := 0
	for z := 0; z < surface.Depth; z++ {
		cz := surface.Origin.Z + (float64(z)+0.5)*surface.CellSize
		for x := 0; x < surface.Width; x++ {
			cx := surface.Origin.X + (float64(x)+0.5)*surface.CellSize
			free := true
			for _, o := range obstacles {
				if cx > o.minX && cx < o.maxX && cz > o.minZ && cz < o.maxZ {
					free = false
					break
				}
			}
			surface.Walkable[z*surface.Width+x] = free
			if free {
				walkable++
			}
		}
	}

	surface.BuildCount++
	log.Printf("[NavMeshSystem] Surface %d rebuilt: %d/%d walkable cells, %d obstacle(s)",
		surfaceID, walkable, cells, len(obstacles))
	return nil
}

// IsWalkable 查询世界坐标 (x, z) 所在格子是否可行走
// 超出表面范围或尚未重建时返回 false
func (s *NavMeshSystem) IsWalkable(surfaceID ecs.EntityID, x, z float64) bool {
	surface, ok := ecs.GetComponent[*components.NavMeshSurfaceComponent](s.entityManager, surfaceID)
	if !ok || surface.Walkable == nil || surface.CellSize <= 0 {
		return false
	}
	ix := int(math.Floor((x - surface.Origin.X) / surface.CellSize))
	iz := int(math.Floor((z - surface.Origin.Z) / surface.CellSize))
	if ix < 0 || iz < 0 || ix >= surface.Width || iz >= surface.Depth {
		return false
	}
	return surface.Walkable[iz*surface.Width+ix]
}
