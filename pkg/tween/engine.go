// Package tween 提供基于 gween 的补间序列引擎
//
// 一个序列（Sequence）由若干段（Leg）组成，每段在指定时长内把目标值
// 从当前值插值到终点值。序列支持有限/无限循环、两种循环方式
// （从头重播 / 增量续播）以及有限循环全部结束时触发一次的完成回调。
//
// 引擎不持有时钟：调用方每帧调用 Manager.Update(dt) 推进所有序列，
// 测试中可以手动推进，得到完全确定的结果。
package tween

import (
	"github.com/decker502/tweenanim/pkg/types"
	"github.com/tanema/gween/ease"
)

// LoopType 循环方式
type LoopType int

const (
	// LoopRestart 每轮从序列起点重新播放（数值回到起点）
	LoopRestart LoopType = iota
	// LoopIncremental 每轮从上一轮终点继续，终点按整轮位移递增
	LoopIncremental
)

// LoopInfinite 无限循环
const LoopInfinite = -1

// Target 序列驱动的三维数值（某个变换通道）
type Target struct {
	Get func() types.Vec3
	Set func(types.Vec3)
}

// Leg 序列中的一段
type Leg struct {
	To       types.Vec3     // 终点值
	Duration float64        // 时长（秒）
	Ease     ease.TweenFunc // 缓动函数，nil 时使用 DefaultEase
}

// SequenceSpec 序列描述
type SequenceSpec struct {
	Legs []Leg

	// Loops 播放轮数：-1 无限，0 或 1 播放一轮，n 播放 n 轮
	Loops    int
	LoopType LoopType

	// OnComplete 有限循环全部结束时调用一次；被 Kill 的序列不会调用
	OnComplete func() error

	// FirstStep 非 nil 时，序列第一次推进最多前进 *FirstStep 秒而不是整帧 dt。
	// 在同一帧补间推进之前启动的序列用它扣除启动前已经流逝的帧时间。
	FirstStep *float64
}

// Handle 正在运行的序列句柄
type Handle interface {
	// Kill 立即停止并释放序列，之后不会再触发完成回调
	Kill()
	// Restart 从头重新播放；已释放的序列无效果
	Restart()
	// IsActive 序列是否仍在运行
	IsActive() bool
}

// Engine 补间引擎
type Engine interface {
	Play(target Target, spec SequenceSpec) Handle
}
