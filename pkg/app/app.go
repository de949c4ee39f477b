// Package app 提供预览应用的核心包装器
//
// 负责日志配置、持久化存储、场景管理与场景文件热重载，
// 由 main.go 创建后交给 ebiten.RunGame 运行。
package app

import (
	"image/color"
	"io"
	"log"
	"path/filepath"

	"github.com/decker502/tweenanim/pkg/config"
	"github.com/decker502/tweenanim/pkg/game"
	"github.com/decker502/tweenanim/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// DefaultAppName gdata 存储使用的应用名
const DefaultAppName = "tweenanim"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ScenePath 场景 YAML 文件
	ScenePath string
	// AppName gdata 存储目录名，为空时使用 DefaultAppName
	AppName string
	// NoWatch 关闭场景文件热重载
	NoWatch bool
}

// App 预览应用，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	prefs        *game.PrefsManager
	watcher      *config.Watcher
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化预览应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	appName := cfg.AppName
	if appName == "" {
		appName = DefaultAppName
	}
	prefs := game.OpenPrefsManager(appName)

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(scenePath string) (game.Scene, error) {
		scene, err := scenes.NewPreviewScene(prefs, sceneManager, scenePath)
		if err != nil {
			return nil, err
		}
		scene.World().SetVerbose(cfg.Verbose)
		return scene, nil
	})

	if err := sceneManager.LoadScene(cfg.ScenePath); err != nil {
		return nil, err
	}

	a := &App{
		sceneManager: sceneManager,
		prefs:        prefs,
		verbose:      cfg.Verbose,
	}

	if !cfg.NoWatch {
		watcher, err := config.NewWatcher(filepath.Dir(cfg.ScenePath))
		if err != nil {
			// 热重载不可用不影响预览
			log.Printf("[App] Warning: scene hot reload disabled: %v", err)
		} else {
			a.watcher = watcher
		}
	}

	log.Printf("[App] Started with scene %s (persistent prefs: %v)", cfg.ScenePath, prefs.IsPersistent())
	return a, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.saveOnExit()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(scenes.WindowWidth, scenes.WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.checkHotReload()

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// checkHotReload 当前场景文件变化时重新加载
// 加载失败时保留旧场景
func (a *App) checkHotReload() {
	if a.watcher == nil {
		return
	}
	for _, changed := range a.watcher.Poll() {
		if !config.SamePath(changed, a.sceneManager.CurrentPath()) {
			continue
		}
		log.Printf("[App] Scene file changed, reloading: %s", changed)
		if err := a.sceneManager.Reload(); err != nil {
			log.Printf("[App] Hot reload failed: %v", err)
		}
	}
}

// saveOnExit 窗口关闭时保存当前场景状态
func (a *App) saveOnExit() {
	if saveable, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		if !saveable.SaveOnExit() {
			log.Printf("[App] Warning: failed to save on exit")
		}
	}
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return scenes.WindowWidth, scenes.WindowHeight
}

// Close 停止热重载并保存持久化数据
func (a *App) Close() error {
	a.saveOnExit()
	if a.watcher != nil {
		return a.watcher.Close()
	}
	return nil
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
