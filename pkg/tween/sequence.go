package tween

import (
	"math"

	"github.com/decker502/tweenanim/pkg/types"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Sequence 补间序列
// 由 Manager 创建并推进，实现 Handle 接口
type Sequence struct {
	target Target
	spec   SequenceSpec

	started bool
	origin  types.Vec3 // 序列第一次推进时目标的值
	offset  types.Vec3 // 增量循环累计的位移

	legIndex int
	legTo    types.Vec3
	axes     [3]*gween.Tween // X/Y/Z 三个分量各一个 gween 补间

	cycles   int // 已完成的轮数
	complete bool
	killed   bool

	firstStep *float64 // 第一次推进的步长上限，推进一次后清空
}

func newSequence(target Target, spec SequenceSpec) *Sequence {
	seq := &Sequence{
		target: target,
		spec:   spec,
	}
	if spec.FirstStep != nil {
		step := *spec.FirstStep
		seq.firstStep = &step
	}
	return seq
}

// step 返回本帧应推进的时长
func (s *Sequence) step(dt float64) float64 {
	if s.firstStep == nil {
		return dt
	}
	step := math.Max(0, math.Min(dt, *s.firstStep))
	s.firstStep = nil
	return step
}

// Kill 立即停止序列
func (s *Sequence) Kill() {
	s.killed = true
}

// Restart 重置到序列起点并重新播放
func (s *Sequence) Restart() {
	if s.killed {
		return
	}
	if s.started {
		s.target.Set(s.origin)
	}
	s.started = false
	s.offset = types.Zero
	s.legIndex = 0
	s.cycles = 0
	s.complete = false
	s.firstStep = nil
}

// IsActive 序列是否仍在运行
func (s *Sequence) IsActive() bool {
	return !s.killed && !s.complete
}

// Cycles 返回已完成的轮数
func (s *Sequence) Cycles() int {
	return s.cycles
}

// totalCycles 返回需要播放的总轮数，-1 表示无限
func (s *Sequence) totalCycles() int {
	switch {
	case s.spec.Loops < 0:
		return LoopInfinite
	case s.spec.Loops <= 1:
		return 1
	default:
		return s.spec.Loops
	}
}

// beginLeg 以目标当前值为起点开始当前段
func (s *Sequence) beginLeg() {
	leg := s.spec.Legs[s.legIndex]
	fn := leg.Ease
	if fn == nil {
		fn = ease.OutQuad
	}

	from := s.target.Get()
	s.legTo = leg.To.Add(s.offset)
	d := float32(leg.Duration)
	s.axes = [3]*gween.Tween{
		gween.New(float32(from.X), float32(s.legTo.X), d, fn),
		gween.New(float32(from.Y), float32(s.legTo.Y), d, fn),
		gween.New(float32(from.Z), float32(s.legTo.Z), d, fn),
	}
}

// advance 推进 dt 秒
// 返回 true 表示有限循环已全部播放完毕
func (s *Sequence) advance(dt float64) bool {
	if len(s.spec.Legs) == 0 {
		return true
	}

	if !s.started {
		s.started = true
		s.origin = s.target.Get()
		s.legIndex = 0
		s.beginLeg()
	}

	remaining := dt
	consumed := 0.0 // 本轮消耗的时间，用于识别零时长的轮
	for {
		x, done := s.axes[0].Update(float32(remaining))
		y, _ := s.axes[1].Update(float32(remaining))
		z, _ := s.axes[2].Update(float32(remaining))
		if !done {
			s.target.Set(types.Vec3{X: float64(x), Y: float64(y), Z: float64(z)})
			return false
		}

		// 段结束时写入精确终点，避免 float32 误差累积
		s.target.Set(s.legTo)
		overflow := float64(s.axes[0].Overflow)
		consumed += remaining - overflow
		remaining = overflow

		s.legIndex++
		if s.legIndex < len(s.spec.Legs) {
			s.beginLeg()
			continue
		}

		s.cycles++
		if total := s.totalCycles(); total != LoopInfinite && s.cycles >= total {
			return true
		}

		last := s.spec.Legs[len(s.spec.Legs)-1]
		if s.spec.LoopType == LoopIncremental {
			s.offset = s.offset.Add(last.To.Sub(s.origin))
		} else {
			s.target.Set(s.origin)
		}
		s.legIndex = 0
		s.beginLeg()

		// 零时长的轮每帧最多推进一次
		if consumed <= 0 {
			return false
		}
		consumed = 0
	}
}
