package types

import (
	"math"
	"testing"
)

func TestNewVec3(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		def     Vec3
		want    Vec3
		wantErr bool
	}{
		{"空切片使用默认值", nil, One, One, false},
		{"三个分量", []float64{1, 2, 3}, Zero, Vec3{1, 2, 3}, false},
		{"分量数量错误", []float64{1, 2}, Zero, Zero, true},
		{"NaN 分量", []float64{1, math.NaN(), 3}, One, One, true},
		{"无穷大分量", []float64{math.Inf(-1), 0, 0}, Zero, Zero, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewVec3(tt.values, tt.def)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewVec3() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NewVec3() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 0, Y: 0, Z: 5}

	if got := a.Add(b); got != (Vec3{1, 2, 8}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vec3{1, 2, -2}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v", got)
	}
	if !Zero.IsZero() || a.IsZero() {
		t.Error("IsZero mismatch")
	}
	if !a.ApproxEqual(Vec3{1.0004, 2, 3}, 0.001) {
		t.Error("ApproxEqual should accept small differences")
	}
	if a.ApproxEqual(b, 0.001) {
		t.Error("ApproxEqual should reject different vectors")
	}
}
