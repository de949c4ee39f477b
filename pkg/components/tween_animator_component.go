package components

import (
	"github.com/decker502/tweenanim/pkg/ecs"
	"github.com/decker502/tweenanim/pkg/tween"
	"github.com/decker502/tweenanim/pkg/types"
)

// MoveType 动画通道
type MoveType int

const (
	MoveRotate MoveType = iota
	MoveMove
	MoveScale
)

// ChannelName 返回持久化键中使用的通道名
// 注意旋转通道是 "Rotation" 而不是 "Rotate"
func (m MoveType) ChannelName() string {
	switch m {
	case MoveRotate:
		return "Rotation"
	case MoveScale:
		return "Scale"
	default:
		return "Move"
	}
}

// String 返回配置文件中使用的名称
func (m MoveType) String() string {
	switch m {
	case MoveRotate:
		return "rotate"
	case MoveScale:
		return "scale"
	default:
		return "move"
	}
}

// LoopMode 循环模式
type LoopMode int

const (
	LoopOnce LoopMode = iota
	LoopForever
)

// String 返回配置文件中使用的名称
func (l LoopMode) String() string {
	if l == LoopForever {
		return "loop"
	}
	return "once"
}

// AnimatorState 动画控制器状态
//
// 状态转换：
//
//	Uninitialized -> IdlePending        首次使用设置或激活时调度延迟启动
//	IdlePending   -> Animating          延迟结束，构建序列
//	Animating     -> Completed          有限序列播放完毕
//	Completed     -> StaticallyRevealed 仅缩放通道且配置了显示替换对象
//
// Completed 与 StaticallyRevealed 为终止状态。
type AnimatorState int

const (
	StateUninitialized AnimatorState = iota
	StateIdlePending
	StateAnimating
	StateCompleted
	StateStaticallyRevealed
)

// String 返回状态名称（用于日志）
func (s AnimatorState) String() string {
	switch s {
	case StateIdlePending:
		return "IdlePending"
	case StateAnimating:
		return "Animating"
	case StateCompleted:
		return "Completed"
	case StateStaticallyRevealed:
		return "StaticallyRevealed"
	default:
		return "Uninitialized"
	}
}

// IsTerminal 是否为终止状态
func (s AnimatorState) IsTerminal() bool {
	return s == StateCompleted || s == StateStaticallyRevealed
}

// TweenAnimatorConfig 补间动画配置
// 挂载后不再修改
type TweenAnimatorConfig struct {
	MoveType          MoveType
	LoopMode          LoopMode
	BackAndForth      bool // 到达终点后返回起点
	PersistCompletion bool // 记住完成状态，下次加载直接跳到终点
	ResetOnActivate   bool // 每次激活时先把通道重置为起始值

	Easing   string  // gween 缓动名称
	Duration float64 // 每段时长（秒）
	Delay    float64 // 激活到开始播放的延迟（秒）

	// Delta 未设置 Endpoint 时，相对当前值的偏移
	Delta types.Vec3

	// Endpoint 终点参考对象（0 表示不使用），优先于 Delta
	Endpoint ecs.EntityID

	// RevealOnCompletion 缩放动画完成后激活 RevealObjects 并隐藏自身
	RevealOnCompletion bool
	RevealObjects      []ecs.EntityID

	// RebuildNavMesh 缩放动画完成后重建 NavMeshSurface
	RebuildNavMesh bool
	NavMeshSurface ecs.EntityID
}

// TweenAnimatorComponent 补间动画组件
// 配置 + 运行时状态；逻辑由 TweenAnimatorSystem 处理
type TweenAnimatorComponent struct {
	Config TweenAnimatorConfig

	// Identity 持久化键的身份后缀，Awake 时取自对象名称
	Identity string

	// StartTransform Awake 时的变换快照，之后不再修改
	StartTransform TransformComponent

	// LoopCount 序列循环次数：-1 无限，0 不重复
	LoopCount int

	// Completed 动画已完成（本次运行观察到或从存储加载），无需再播放
	Completed bool

	State AnimatorState

	// ActiveSequence 当前序列句柄，同一时刻最多一个
	ActiveSequence tween.Handle
}
