package components

import "github.com/decker502/tweenanim/pkg/types"

// TransformComponent 变换组件
type TransformComponent struct {
	Position types.Vec3
	Rotation types.Vec3 // 欧拉角（度）
	Scale    types.Vec3
}

// Channel 返回指定通道的当前值
func (t *TransformComponent) Channel(moveType MoveType) types.Vec3 {
	switch moveType {
	case MoveRotate:
		return t.Rotation
	case MoveScale:
		return t.Scale
	default:
		return t.Position
	}
}

// SetChannel 设置指定通道的值
func (t *TransformComponent) SetChannel(moveType MoveType, v types.Vec3) {
	switch moveType {
	case MoveRotate:
		t.Rotation = v
	case MoveScale:
		t.Scale = v
	default:
		t.Position = v
	}
}
