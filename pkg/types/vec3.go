package types

import (
	"fmt"
	"math"
)

// Vec3 三维向量
// 用于表示位置、欧拉角（度）和缩放
type Vec3 struct {
	X, Y, Z float64
}

// Zero 零向量
var Zero = Vec3{}

// One 单位缩放
var One = Vec3{X: 1, Y: 1, Z: 1}

// NewVec3 从切片创建向量，缺失分量使用 def 对应分量
//
// 用于解析配置中的 [x, y, z] 数组，NaN 和无穷大分量视为错误
func NewVec3(values []float64, def Vec3) (Vec3, error) {
	switch len(values) {
	case 0:
		return def, nil
	case 3:
		for i, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return def, fmt.Errorf("vector component %d is not finite: %v", i, v)
			}
		}
		return Vec3{X: values[0], Y: values[1], Z: values[2]}, nil
	default:
		return def, fmt.Errorf("vector needs 3 components, got %d", len(values))
	}
}

// Add 向量相加
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub 向量相减
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale 数乘
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// IsZero 是否为零向量
func (v Vec3) IsZero() bool {
	return v == Zero
}

// ApproxEqual 判断两向量在 epsilon 范围内相等
func (v Vec3) ApproxEqual(o Vec3, epsilon float64) bool {
	return math.Abs(v.X-o.X) <= epsilon &&
		math.Abs(v.Y-o.Y) <= epsilon &&
		math.Abs(v.Z-o.Z) <= epsilon
}

// String 格式化输出，如 (0.00, 0.00, 5.00)
func (v Vec3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}
