package tween

import (
	"errors"
	"testing"

	"github.com/decker502/tweenanim/pkg/types"
	"github.com/tanema/gween/ease"
)

// testValue 测试用的补间目标
type testValue struct {
	v types.Vec3
}

func (tv *testValue) target() Target {
	return Target{
		Get: func() types.Vec3 { return tv.v },
		Set: func(v types.Vec3) { tv.v = v },
	}
}

func step(t *testing.T, m *Manager, dt float64, frames int) {
	t.Helper()
	for i := 0; i < frames; i++ {
		if err := m.Update(dt); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
	}
}

func TestSingleLegReachesTarget(t *testing.T) {
	m := NewManager()
	val := &testValue{}
	completed := 0

	h := m.Play(val.target(), SequenceSpec{
		Legs:       []Leg{{To: types.Vec3{Z: 5}, Duration: 2, Ease: ease.Linear}},
		OnComplete: func() error { completed++; return nil },
	})

	step(t, m, 0.5, 2)
	if !val.v.ApproxEqual(types.Vec3{Z: 2.5}, 1e-4) {
		t.Errorf("after 1s value = %v, want (0,0,2.5)", val.v)
	}
	if completed != 0 {
		t.Error("callback fired too early")
	}

	step(t, m, 0.5, 2)
	if val.v != (types.Vec3{Z: 5}) {
		t.Errorf("after 2s value = %v, want exactly (0,0,5)", val.v)
	}
	if completed != 1 {
		t.Errorf("callback fired %d times, want 1", completed)
	}
	if h.IsActive() {
		t.Error("handle should be released after completion")
	}
	if m.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d, want 0", m.ActiveCount())
	}

	// 完成后继续推进不应重复回调
	step(t, m, 0.5, 4)
	if completed != 1 {
		t.Errorf("callback fired %d times after completion", completed)
	}
}

func TestLargeStepCarriesOverflow(t *testing.T) {
	m := NewManager()
	val := &testValue{v: types.Vec3{X: 1, Y: 1, Z: 1}}
	completed := false

	m.Play(val.target(), SequenceSpec{
		Legs: []Leg{
			{To: types.Vec3{X: 2, Y: 2, Z: 2}, Duration: 1, Ease: ease.InOutQuad},
			{To: types.Vec3{X: 1, Y: 1, Z: 1}, Duration: 1, Ease: ease.InOutQuad},
		},
		OnComplete: func() error { completed = true; return nil },
	})

	// 一帧跨越两段
	step(t, m, 5, 1)
	if !completed {
		t.Fatal("sequence should complete within one large step")
	}
	if val.v != (types.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("value = %v, want back at start", val.v)
	}
}

func TestBackAndForthRestartLoop(t *testing.T) {
	m := NewManager()
	val := &testValue{}
	completed := false

	h := m.Play(val.target(), SequenceSpec{
		Legs: []Leg{
			{To: types.Vec3{X: 4}, Duration: 1, Ease: ease.Linear},
			{To: types.Vec3{}, Duration: 1, Ease: ease.Linear},
		},
		Loops:      LoopInfinite,
		LoopType:   LoopRestart,
		OnComplete: func() error { completed = true; return nil },
	})

	tests := []struct {
		name    string
		elapsed float64
		want    types.Vec3
	}{
		{"第一段终点", 1, types.Vec3{X: 4}},
		{"回到起点", 2, types.Vec3{}},
		{"第二轮中点", 2.5, types.Vec3{X: 2}},
		{"第三轮起点", 4, types.Vec3{}},
	}

	elapsed := 0.0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for elapsed < tt.elapsed {
				step(t, m, 0.25, 1)
				elapsed += 0.25
			}
			if !val.v.ApproxEqual(tt.want, 1e-4) {
				t.Errorf("value at %.2fs = %v, want %v", elapsed, val.v, tt.want)
			}
		})
	}

	if completed {
		t.Error("infinite sequence must never complete")
	}
	if !h.IsActive() {
		t.Error("infinite sequence should stay active")
	}
}

func TestIncrementalLoopContinuesFromEnd(t *testing.T) {
	m := NewManager()
	val := &testValue{v: types.Vec3{Y: 10}}

	seq := m.Play(val.target(), SequenceSpec{
		Legs:     []Leg{{To: types.Vec3{Y: 40}, Duration: 1, Ease: ease.OutCubic}},
		Loops:    LoopInfinite,
		LoopType: LoopIncremental,
	}).(*Sequence)

	step(t, m, 0.5, 6)
	if seq.Cycles() != 3 {
		t.Fatalf("Cycles() = %d, want 3", seq.Cycles())
	}
	// 每轮位移 30，三轮后 10 + 90
	if val.v != (types.Vec3{Y: 100}) {
		t.Errorf("value = %v, want (0,100,0)", val.v)
	}

	// 下一轮不会跳回起点
	step(t, m, 0.25, 1)
	if val.v.Y < 100 {
		t.Errorf("incremental loop snapped back: %v", val.v)
	}
}

func TestFiniteLoopCount(t *testing.T) {
	m := NewManager()
	val := &testValue{}
	completed := 0

	seq := m.Play(val.target(), SequenceSpec{
		Legs:       []Leg{{To: types.Vec3{X: 1}, Duration: 1, Ease: ease.Linear}},
		Loops:      3,
		LoopType:   LoopRestart,
		OnComplete: func() error { completed++; return nil },
	}).(*Sequence)

	step(t, m, 1, 2)
	if completed != 0 {
		t.Error("callback fired before all loops finished")
	}
	step(t, m, 1, 1)
	if completed != 1 || seq.Cycles() != 3 {
		t.Errorf("completed = %d, cycles = %d, want 1 and 3", completed, seq.Cycles())
	}
}

func TestKillSuppressesCallback(t *testing.T) {
	m := NewManager()
	val := &testValue{}
	completed := false

	h := m.Play(val.target(), SequenceSpec{
		Legs:       []Leg{{To: types.Vec3{Z: 5}, Duration: 1, Ease: ease.Linear}},
		OnComplete: func() error { completed = true; return nil },
	})

	step(t, m, 0.5, 1)
	h.Kill()
	frozen := val.v

	step(t, m, 0.5, 4)
	if completed {
		t.Error("killed sequence must not fire its callback")
	}
	if val.v != frozen {
		t.Errorf("killed sequence kept animating: %v -> %v", frozen, val.v)
	}
	if m.ActiveCount() != 0 {
		t.Error("killed sequence should be swept")
	}

	// 已释放的句柄重启无效果
	h.Restart()
	if h.IsActive() {
		t.Error("Restart must not revive a killed sequence")
	}
}

func TestRestartReturnsToOrigin(t *testing.T) {
	m := NewManager()
	val := &testValue{v: types.Vec3{X: 1}}

	h := m.Play(val.target(), SequenceSpec{
		Legs: []Leg{{To: types.Vec3{X: 3}, Duration: 2, Ease: ease.Linear}},
	})

	step(t, m, 0.5, 2)
	h.Restart()
	if val.v != (types.Vec3{X: 1}) {
		t.Errorf("Restart value = %v, want origin (1,0,0)", val.v)
	}

	step(t, m, 0.5, 4)
	if val.v != (types.Vec3{X: 3}) {
		t.Errorf("value after replay = %v, want (3,0,0)", val.v)
	}
}

func TestCallbackErrorReleasesSequence(t *testing.T) {
	m := NewManager()
	val := &testValue{}
	boom := errors.New("boom")

	h := m.Play(val.target(), SequenceSpec{
		Legs:       []Leg{{To: types.Vec3{X: 1}, Duration: 0.5}},
		OnComplete: func() error { return boom },
	})

	if err := m.Update(1); !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}
	if h.IsActive() {
		t.Error("sequence should be released even when the callback fails")
	}
	if err := m.Update(1); err != nil {
		t.Errorf("next Update() error = %v, want nil", err)
	}
}

func TestZeroDurationInfiniteLoopTerminates(t *testing.T) {
	m := NewManager()
	val := &testValue{}

	seq := m.Play(val.target(), SequenceSpec{
		Legs:     []Leg{{To: types.Vec3{X: 1}, Duration: 0}},
		Loops:    LoopInfinite,
		LoopType: LoopIncremental,
	}).(*Sequence)

	step(t, m, 0.1, 3)
	if seq.Cycles() != 3 {
		t.Errorf("Cycles() = %d, want one zero-length cycle per frame", seq.Cycles())
	}
}

func TestPlayDuringCallbackStartsNextFrame(t *testing.T) {
	m := NewManager()
	first := &testValue{}
	second := &testValue{}

	m.Play(first.target(), SequenceSpec{
		Legs: []Leg{{To: types.Vec3{X: 1}, Duration: 1, Ease: ease.Linear}},
		OnComplete: func() error {
			m.Play(second.target(), SequenceSpec{
				Legs: []Leg{{To: types.Vec3{X: 1}, Duration: 1, Ease: ease.Linear}},
			})
			return nil
		},
	})

	step(t, m, 1, 1)
	if second.v != types.Zero {
		t.Errorf("sequence created in callback advanced in the same frame: %v", second.v)
	}
	if m.ActiveCount() != 1 {
		t.Errorf("ActiveCount = %d, want 1", m.ActiveCount())
	}

	step(t, m, 0.5, 1)
	if !second.v.ApproxEqual(types.Vec3{X: 0.5}, 1e-4) {
		t.Errorf("second value = %v, want (0.5,0,0)", second.v)
	}
}

// TestFirstStepLimitsOnlyFirstAdvance 第一次推进按 FirstStep 截断，之后按整帧推进
func TestFirstStepLimitsOnlyFirstAdvance(t *testing.T) {
	tests := []struct {
		name      string
		firstStep float64
		wantFirst float64
		wantNext  float64
	}{
		{"帧末启动", 0, 0, 2.5},
		{"帧中启动", 0.25, 1.25, 3.75},
		{"超过整帧按整帧", 3, 2.5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			val := &testValue{}
			first := tt.firstStep
			m.Play(val.target(), SequenceSpec{
				Legs:      []Leg{{To: types.Vec3{X: 10}, Duration: 2, Ease: ease.Linear}},
				FirstStep: &first,
			})

			step(t, m, 0.5, 1)
			if !val.v.ApproxEqual(types.Vec3{X: tt.wantFirst}, 1e-4) {
				t.Errorf("first frame value = %v, want X=%v", val.v, tt.wantFirst)
			}
			step(t, m, 0.5, 1)
			if !val.v.ApproxEqual(types.Vec3{X: tt.wantNext}, 1e-4) {
				t.Errorf("second frame value = %v, want X=%v", val.v, tt.wantNext)
			}
		})
	}
}

func TestRestartDropsFirstStep(t *testing.T) {
	m := NewManager()
	val := &testValue{}
	zero := 0.0
	h := m.Play(val.target(), SequenceSpec{
		Legs:      []Leg{{To: types.Vec3{X: 10}, Duration: 2, Ease: ease.Linear}},
		FirstStep: &zero,
	})

	h.Restart()
	step(t, m, 0.5, 1)
	if !val.v.ApproxEqual(types.Vec3{X: 2.5}, 1e-4) {
		t.Errorf("value after restart = %v, want a full frame (2.5,0,0)", val.v)
	}
}
