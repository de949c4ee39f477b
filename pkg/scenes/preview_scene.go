package scenes

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/decker502/tweenanim/pkg/components"
	"github.com/decker502/tweenanim/pkg/config"
	"github.com/decker502/tweenanim/pkg/ecs"
	"github.com/decker502/tweenanim/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 窗口逻辑尺寸
const (
	WindowWidth  = 960
	WindowHeight = 720
)

// 俯视图：每个世界单位对应的像素数，世界原点位于画面中心
const pixelsPerUnit = 32.0

var (
	backgroundColor = color.RGBA{R: 28, G: 30, B: 36, A: 255}
	walkableColor   = color.RGBA{R: 46, G: 86, B: 58, A: 255}
	blockedColor    = color.RGBA{R: 110, G: 48, B: 48, A: 255}
	gridLineColor   = color.RGBA{R: 60, G: 64, B: 72, A: 255}
	headingColor    = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	selectedColor   = color.RGBA{R: 255, G: 215, B: 0, A: 255}
)

// stateColors 动画状态对应的填充色
var stateColors = map[components.AnimatorState]color.RGBA{
	components.StateUninitialized:      {R: 120, G: 120, B: 120, A: 255},
	components.StateIdlePending:        {R: 90, G: 140, B: 220, A: 255},
	components.StateAnimating:          {R: 240, G: 160, B: 40, A: 255},
	components.StateCompleted:          {R: 80, G: 200, B: 120, A: 255},
	components.StateStaticallyRevealed: {R: 180, G: 110, B: 220, A: 255},
}

// plainObjectColor 无动画组件的对象
var plainObjectColor = color.RGBA{R: 160, G: 170, B: 180, A: 255}

// PreviewScene 场景预览
//
// 以俯视图（XZ 平面）绘制 World 中的对象与导航网格，
// 方块颜色表示动画状态，白线表示 Y 轴朝向。
//
// 按键：
//   - Tab: 选择下一个对象
//   - Space: 切换所选对象的激活状态
//   - P: 暂停/继续
//   - R: 重新加载场景文件
//   - Backspace: 清空持久化标记并重新加载
type PreviewScene struct {
	world        *game.World
	prefs        *game.PrefsManager
	sceneManager *game.SceneManager

	selected int
	paused   bool
	lastErr  error
}

// NewPreviewScene 加载场景文件并创建预览场景
//
// 参数:
//   - prefs: 持久化存储（场景重载之间共享）
//   - sceneManager: 场景管理器（用于重新加载）
//   - scenePath: 场景 YAML 文件路径
func NewPreviewScene(prefs *game.PrefsManager, sceneManager *game.SceneManager, scenePath string) (*PreviewScene, error) {
	cfg, err := config.LoadSceneConfig(scenePath)
	if err != nil {
		return nil, err
	}

	world := game.NewWorld(prefs)
	if err := world.LoadScene(cfg); err != nil {
		return nil, err
	}

	return newPreviewScene(world, prefs, sceneManager), nil
}

func newPreviewScene(world *game.World, prefs *game.PrefsManager, sceneManager *game.SceneManager) *PreviewScene {
	return &PreviewScene{
		world:        world,
		prefs:        prefs,
		sceneManager: sceneManager,
	}
}

// World 返回预览的运行时
func (s *PreviewScene) World() *game.World {
	return s.world
}

// Update 处理输入并推进 World
func (s *PreviewScene) Update(deltaTime float64) {
	s.handleInput()

	if s.paused {
		return
	}
	if err := s.world.Update(deltaTime); err != nil {
		log.Printf("[PreviewScene] Update error: %v", err)
		s.lastErr = err
	}
}

func (s *PreviewScene) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		s.selectNext()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if err := s.toggleSelected(); err != nil {
			log.Printf("[PreviewScene] Toggle failed: %v", err)
			s.lastErr = err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		s.paused = !s.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.reload(false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		s.reload(true)
	}
}

// selectNext 循环选择下一个对象
func (s *PreviewScene) selectNext() {
	n := len(s.world.Objects())
	if n == 0 {
		s.selected = 0
		return
	}
	s.selected = (s.selected + 1) % n
}

// selectedObject 返回当前选中对象
func (s *PreviewScene) selectedObject() (game.ObjectState, bool) {
	objects := s.world.Objects()
	if s.selected < 0 || s.selected >= len(objects) {
		return game.ObjectState{}, false
	}
	return objects[s.selected], true
}

// toggleSelected 切换选中对象的激活状态
func (s *PreviewScene) toggleSelected() error {
	obj, ok := s.selectedObject()
	if !ok {
		return nil
	}
	log.Printf("[PreviewScene] %s active -> %v", obj.Name, !obj.Active)
	return s.world.SetActive(obj.Name, !obj.Active)
}

// reload 重新加载场景，可选清空持久化标记
func (s *PreviewScene) reload(clearPrefs bool) {
	if clearPrefs {
		if err := s.prefs.DeleteAll(); err != nil {
			log.Printf("[PreviewScene] Failed to clear prefs: %v", err)
		}
	}
	if s.sceneManager == nil {
		return
	}
	if err := s.sceneManager.Reload(); err != nil {
		log.Printf("[PreviewScene] Reload failed: %v", err)
		s.lastErr = err
	}
}

// SaveOnExit 实现 game.Saveable
func (s *PreviewScene) SaveOnExit() bool {
	if err := s.prefs.Save(); err != nil {
		log.Printf("[PreviewScene] Failed to save prefs: %v", err)
		return false
	}
	return true
}

// worldToScreen 把 XZ 平面坐标转换为屏幕坐标（+Z 朝上）
func worldToScreen(x, z float64) (float32, float32) {
	sx := WindowWidth/2 + x*pixelsPerUnit
	sy := WindowHeight/2 - z*pixelsPerUnit
	return float32(sx), float32(sy)
}

// objectColor 对象的填充色
func objectColor(obj game.ObjectState) color.RGBA {
	if !obj.HasAnimator {
		return plainObjectColor
	}
	if c, ok := stateColors[obj.State]; ok {
		return c
	}
	return plainObjectColor
}

// Draw 绘制导航网格、对象和 HUD
func (s *PreviewScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	for _, surfaceID := range s.world.Surfaces() {
		s.drawSurface(screen, surfaceID)
	}

	selected, hasSelected := s.selectedObject()
	for _, obj := range s.world.Objects() {
		s.drawObject(screen, obj, hasSelected && obj.ID == selected.ID)
	}

	s.drawHUD(screen)
}

func (s *PreviewScene) drawSurface(screen *ebiten.Image, surfaceID ecs.EntityID) {
	surface, ok := ecs.GetComponent[*components.NavMeshSurfaceComponent](s.world.EntityManager(), surfaceID)
	if !ok || surface.Walkable == nil {
		return
	}
	size := float32(surface.CellSize * pixelsPerUnit)
	for z := 0; z < surface.Depth; z++ {
		for x := 0; x < surface.Width; x++ {
			// 格子左上角对应 (minX, maxZ)
			wx := surface.Origin.X + float64(x)*surface.CellSize
			wz := surface.Origin.Z + float64(z+1)*surface.CellSize
			sx, sy := worldToScreen(wx, wz)

			clr := walkableColor
			if !surface.Walkable[z*surface.Width+x] {
				clr = blockedColor
			}
			vector.DrawFilledRect(screen, sx, sy, size, size, clr, false)
			vector.StrokeRect(screen, sx, sy, size, size, 1, gridLineColor, false)
		}
	}
}

func (s *PreviewScene) drawObject(screen *ebiten.Image, obj game.ObjectState, selected bool) {
	tr := obj.Transform
	w := math.Max(math.Abs(tr.Scale.X), 0.1) * pixelsPerUnit
	h := math.Max(math.Abs(tr.Scale.Z), 0.1) * pixelsPerUnit
	cx, cy := worldToScreen(tr.Position.X, tr.Position.Z)
	x := cx - float32(w/2)
	y := cy - float32(h/2)

	clr := objectColor(obj)
	if obj.Active {
		vector.DrawFilledRect(screen, x, y, float32(w), float32(h), clr, true)
	} else {
		vector.StrokeRect(screen, x, y, float32(w), float32(h), 1, clr, true)
	}
	if selected {
		vector.StrokeRect(screen, x-3, y-3, float32(w)+6, float32(h)+6, 2, selectedColor, true)
	}

	// Y 轴朝向（0 度指向 +Z）
	yaw := tr.Rotation.Y * math.Pi / 180
	length := math.Max(w, h) / 2
	hx := cx + float32(math.Sin(yaw)*length)
	hy := cy - float32(math.Cos(yaw)*length)
	vector.StrokeLine(screen, cx, cy, hx, hy, 2, headingColor, true)

	ebitenutil.DebugPrintAt(screen, obj.Name, int(x), int(y+float32(h))+2)
}

func (s *PreviewScene) drawHUD(screen *ebiten.Image) {
	status := "running"
	if s.paused {
		status = "paused"
	}
	header := fmt.Sprintf("scene: %s  t=%.2fs  tweens=%d  [%s]",
		s.world.SceneName(), s.world.Elapsed(), s.world.ActiveTweens(), status)
	ebitenutil.DebugPrintAt(screen, header, 10, 10)
	ebitenutil.DebugPrintAt(screen, "Tab select  Space toggle  P pause  R reload  Backspace clear prefs", 10, 26)

	y := 50
	for _, line := range s.objectLines() {
		ebitenutil.DebugPrintAt(screen, line, 10, y)
		y += 16
	}

	if s.lastErr != nil {
		ebitenutil.DebugPrintAt(screen, "error: "+s.lastErr.Error(), 10, WindowHeight-40)
	}
	flags := fmt.Sprintf("prefs: %v", s.prefs.Keys())
	ebitenutil.DebugPrintAt(screen, flags, 10, WindowHeight-20)
}

// objectLines 对象列表的文本描述
func (s *PreviewScene) objectLines() []string {
	objects := s.world.Objects()
	lines := make([]string, 0, len(objects))
	for i, obj := range objects {
		marker := "  "
		if i == s.selected {
			marker = "> "
		}
		line := fmt.Sprintf("%s%-14s active=%-5v pos=%v", marker, obj.Name, obj.Active, obj.Transform.Position)
		if obj.HasAnimator {
			line += fmt.Sprintf(" %s:%s", obj.MoveType, obj.State)
		}
		lines = append(lines, line)
	}
	return lines
}
