package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/decker502/tweenanim/pkg/app"
	"github.com/decker502/tweenanim/pkg/embedded"
	"github.com/decker502/tweenanim/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/profile"
)

var (
	scenePath   = flag.String("scene", "data/scenes/demo.yaml", "场景 YAML 文件")
	verbose     = flag.Bool("verbose", false, "显示详细调试信息")
	profileMode = flag.String("profile", "", "性能分析模式：cpu 或 mem（输出到当前目录）")
	noWatch     = flag.Bool("no-watch", false, "关闭场景文件热重载")
)

// startProfile 按模式启动 pprof，返回停止函数
func startProfile(mode string) (func(), error) {
	switch mode {
	case "":
		return func() {}, nil
	case "cpu":
		p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		return p.Stop, nil
	case "mem":
		p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
		return p.Stop, nil
	default:
		return nil, fmt.Errorf("unknown profile mode %q (want cpu or mem)", mode)
	}
}

func main() {
	flag.Parse()

	// 内置场景：工作目录中没有场景文件时使用
	embedded.Init(dataFS)

	stopProfile, err := startProfile(*profileMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer stopProfile()

	previewApp, err := app.NewApp(app.Config{
		Verbose:   *verbose,
		ScenePath: *scenePath,
		NoWatch:   *noWatch,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer previewApp.Close()

	ebiten.SetWindowSize(scenes.WindowWidth, scenes.WindowHeight)
	ebiten.SetWindowTitle("tweenanim - " + *scenePath)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(previewApp); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
