package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 可切换的画面（预览场景等）
// 每个场景有独立的更新与绘制逻辑
type Scene interface {
	// Update 推进场景逻辑，deltaTime 为距上一帧的秒数
	Update(deltaTime float64)

	// Draw 绘制场景到 screen
	Draw(screen *ebiten.Image)
}

// Saveable 可选接口：窗口关闭时保存状态
//
// 实现此接口的场景会在以下时机被调用 SaveOnExit()：
//   - 游戏窗口关闭
//   - 用户通过 OS 命令关闭程序
type Saveable interface {
	// SaveOnExit 返回 true 表示保存成功或无需保存
	SaveOnExit() bool
}
