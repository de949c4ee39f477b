package systems

import (
	"testing"

	"github.com/decker502/tweenanim/pkg/components"
	"github.com/decker502/tweenanim/pkg/ecs"
	"github.com/decker502/tweenanim/pkg/types"
)

// newNavMeshFixture 4x4 网格，原点 (-2,0,-2)，格子边长 1
func newNavMeshFixture() (*ecs.EntityManager, *NavMeshSystem, ecs.EntityID) {
	em := ecs.NewEntityManager()
	surface := em.CreateEntity()
	ecs.AddComponent(em, surface, &components.NavMeshSurfaceComponent{
		Origin:   types.Vec3{X: -2, Z: -2},
		CellSize: 1,
		Width:    4,
		Depth:    4,
	})
	return em, NewNavMeshSystem(em), surface
}

func addObstacle(em *ecs.EntityManager, active bool, pos, scale types.Vec3) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.GameObjectComponent{Name: "Obstacle", Active: active})
	ecs.AddComponent(em, id, &components.TransformComponent{Position: pos, Scale: scale})
	ecs.AddComponent(em, id, &components.NavMeshObstacleComponent{})
	return id
}

func countWalkable(surface *components.NavMeshSurfaceComponent) int {
	n := 0
	for _, w := range surface.Walkable {
		if w {
			n++
		}
	}
	return n
}

func TestNavMeshBuild(t *testing.T) {
	tests := []struct {
		name         string
		active       bool
		pos          types.Vec3
		scale        types.Vec3
		wantWalkable int
	}{
		{"中心 2x2 障碍", true, types.Zero, types.Vec3{X: 2, Y: 1, Z: 2}, 12},
		{"负缩放取绝对值", true, types.Zero, types.Vec3{X: -2, Y: 1, Z: -2}, 12},
		{"未激活障碍忽略", false, types.Zero, types.Vec3{X: 2, Y: 1, Z: 2}, 16},
		{"零缩放不占格", true, types.Zero, types.Zero, 16},
		{"覆盖整个表面", true, types.Zero, types.Vec3{X: 10, Y: 1, Z: 10}, 0},
		{"单格障碍", true, types.Vec3{X: 1.5, Z: 1.5}, types.One, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em, sys, surfaceID := newNavMeshFixture()
			addObstacle(em, tt.active, tt.pos, tt.scale)

			if err := sys.Build(surfaceID); err != nil {
				t.Fatalf("Build error: %v", err)
			}
			surface, _ := ecs.GetComponent[*components.NavMeshSurfaceComponent](em, surfaceID)
			if got := countWalkable(surface); got != tt.wantWalkable {
				t.Errorf("walkable = %d, want %d", got, tt.wantWalkable)
			}
			if surface.BuildCount != 1 {
				t.Errorf("BuildCount = %d, want 1", surface.BuildCount)
			}
		})
	}
}

func TestNavMeshRebuildTracksObstacleChanges(t *testing.T) {
	em, sys, surfaceID := newNavMeshFixture()
	obstacle := addObstacle(em, true, types.Zero, types.Vec3{X: 2, Y: 1, Z: 2})

	if err := sys.Build(surfaceID); err != nil {
		t.Fatal(err)
	}
	if sys.IsWalkable(surfaceID, 0.5, 0.5) {
		t.Fatal("center should be blocked")
	}

	obj, _ := ecs.GetComponent[*components.GameObjectComponent](em, obstacle)
	obj.Active = false
	if err := sys.Build(surfaceID); err != nil {
		t.Fatal(err)
	}
	if !sys.IsWalkable(surfaceID, 0.5, 0.5) {
		t.Error("center should be walkable after the obstacle is hidden")
	}
}

func TestNavMeshIsWalkableBounds(t *testing.T) {
	_, sys, surfaceID := newNavMeshFixture()
	if sys.IsWalkable(surfaceID, 0, 0) {
		t.Error("surface that was never built should not be walkable")
	}
	if err := sys.Build(surfaceID); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		x, z float64
		want bool
	}{
		{0, 0, true},
		{-2, -2, true},
		{1.99, 1.99, true},
		{2, 0, false},
		{-2.01, 0, false},
		{0, 5, false},
	}
	for _, tt := range tests {
		if got := sys.IsWalkable(surfaceID, tt.x, tt.z); got != tt.want {
			t.Errorf("IsWalkable(%v, %v) = %v, want %v", tt.x, tt.z, got, tt.want)
		}
	}
}

func TestNavMeshBuildErrors(t *testing.T) {
	em, sys, _ := newNavMeshFixture()

	invalid := em.CreateEntity()
	ecs.AddComponent(em, invalid, &components.NavMeshSurfaceComponent{CellSize: 0, Width: 4, Depth: 4})

	tests := []struct {
		name string
		id   ecs.EntityID
	}{
		{"未设置表面", 0},
		{"实体无表面组件", em.CreateEntity()},
		{"不存在的实体", ecs.EntityID(12345)},
		{"无效网格", invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := sys.Build(tt.id); err == nil {
				t.Error("expected error")
			}
		})
	}
}
