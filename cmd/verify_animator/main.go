// verify_animator 无界面验证补间动画场景
//
// 加载场景文件，按固定步长模拟指定时长，定期打印对象变换与动画状态，
// 最后打印持久化标记。可在模拟过程中切换对象激活状态。
//
// 用法:
//
//	go run ./cmd/verify_animator --scene data/scenes/demo.yaml --duration 5
//	go run ./cmd/verify_animator --toggle Door@1.0 --toggle Door@2.0
//	go run ./cmd/verify_animator --persist --reset
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/decker502/tweenanim/pkg/config"
	"github.com/decker502/tweenanim/pkg/game"
)

var (
	scenePath = flag.String("scene", "data/scenes/demo.yaml", "场景 YAML 文件")
	duration  = flag.Float64("duration", 5, "模拟时长（秒）")
	step      = flag.Float64("step", 1.0/60.0, "模拟步长（秒）")
	report    = flag.Float64("report", 0.5, "打印间隔（秒），0 表示只打印最终状态")
	verbose   = flag.Bool("verbose", false, "显示详细调试信息")
	persist   = flag.Bool("persist", false, "使用 gdata 持久化存储（默认仅内存）")
	reset     = flag.Bool("reset", false, "开始前清空持久化标记")
	appName   = flag.String("app", "tweenanim", "gdata 应用名")
)

// toggleEvent 在指定时间切换对象激活状态
type toggleEvent struct {
	name string
	at   float64
}

// toggleFlags 可重复的 --toggle Name@seconds 参数
type toggleFlags []toggleEvent

func (f *toggleFlags) String() string {
	parts := make([]string, 0, len(*f))
	for _, e := range *f {
		parts = append(parts, fmt.Sprintf("%s@%.2f", e.name, e.at))
	}
	return strings.Join(parts, ",")
}

func (f *toggleFlags) Set(value string) error {
	name, at, ok := strings.Cut(value, "@")
	if !ok || name == "" {
		return fmt.Errorf("toggle must be Name@seconds, got %q", value)
	}
	seconds, err := strconv.ParseFloat(at, 64)
	if err != nil || seconds < 0 {
		return fmt.Errorf("invalid toggle time %q", at)
	}
	*f = append(*f, toggleEvent{name: name, at: seconds})
	return nil
}

func main() {
	var toggles toggleFlags
	flag.Var(&toggles, "toggle", "在指定时间切换对象激活状态，格式 Name@seconds（可重复）")
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}
	if err := run(toggles); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(toggles toggleFlags) error {
	if *step <= 0 {
		return fmt.Errorf("step must be > 0")
	}
	sort.SliceStable(toggles, func(i, j int) bool { return toggles[i].at < toggles[j].at })

	cfg, err := config.LoadSceneConfig(*scenePath)
	if err != nil {
		return err
	}

	var prefs *game.PrefsManager
	if *persist {
		prefs = game.OpenPrefsManager(*appName)
	} else {
		prefs = game.NewPrefsManager(nil)
	}
	if *reset {
		if err := prefs.DeleteAll(); err != nil {
			return fmt.Errorf("reset prefs: %w", err)
		}
	}

	world := game.NewWorld(prefs)
	world.SetVerbose(*verbose)
	if err := world.LoadScene(cfg); err != nil {
		return err
	}

	fmt.Printf("=== Scene %q (%d objects, step %.4fs, persistent=%v) ===\n",
		cfg.Name, len(world.Objects()), *step, prefs.IsPersistent())
	printObjects(world)

	nextReport := *report
	failures := 0
	for world.Elapsed()+*step/2 < *duration {
		for len(toggles) > 0 && toggles[0].at <= world.Elapsed()+*step/2 {
			ev := toggles[0]
			toggles = toggles[1:]
			active := !world.IsActive(ev.name)
			fmt.Printf("--- t=%.2fs toggle %s -> active=%v\n", world.Elapsed(), ev.name, active)
			if err := world.SetActive(ev.name, active); err != nil {
				fmt.Printf("    ⚠️  %v\n", err)
				failures++
			}
		}

		if err := world.Update(*step); err != nil {
			fmt.Printf("    ⚠️  t=%.2fs %v\n", world.Elapsed(), err)
			failures++
		}

		if *report > 0 && world.Elapsed()+*step/2 >= nextReport {
			fmt.Printf("--- t=%.2fs tweens=%d\n", world.Elapsed(), world.ActiveTweens())
			printObjects(world)
			nextReport += *report
		}
	}

	fmt.Printf("=== Final t=%.2fs ===\n", world.Elapsed())
	printObjects(world)
	fmt.Println("Prefs:")
	for _, key := range prefs.Keys() {
		fmt.Printf("  %s = %d\n", key, prefs.GetInt(key))
	}

	if failures > 0 {
		return fmt.Errorf("%d error(s) during simulation", failures)
	}
	fmt.Println("✅ done")
	return nil
}

func printObjects(world *game.World) {
	for _, obj := range world.Objects() {
		tr := obj.Transform
		line := fmt.Sprintf("  %-14s active=%-5v pos=%v rot=%v scale=%v",
			obj.Name, obj.Active, tr.Position, tr.Rotation, tr.Scale)
		if obj.HasAnimator {
			line += fmt.Sprintf(" [%s %s]", obj.MoveType, obj.State)
		}
		fmt.Println(line)
	}
}
