package components

// TimerComponent 单次延迟调用计时器
// 计时到达 TargetTime 后调用 Callback 一次
type TimerComponent struct {
	Name        string                   // 计时器名称，如 "tween_start"
	TargetTime  float64                  // 目标时间（秒）
	CurrentTime float64                  // 当前已过时间（秒）
	IsReady     bool                     // 计时器是否已完成
	Callback    func(late float64) error // 到时调用，late 为超过 TargetTime 的时长
}

// InvokeComponent 实体上挂起的延迟调用
// 同名计时器只保留最后一次调度
type InvokeComponent struct {
	Timers map[string]*TimerComponent
}
