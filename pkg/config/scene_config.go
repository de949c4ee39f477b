package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"strings"

	"github.com/decker502/tweenanim/pkg/components"
	"github.com/decker502/tweenanim/pkg/embedded"
	"github.com/decker502/tweenanim/pkg/tween"
	"github.com/decker502/tweenanim/pkg/types"
	"gopkg.in/yaml.v3"
)

// SceneConfig 场景配置
// 对象名称即持久化身份，必须在场景内唯一
type SceneConfig struct {
	Name    string         `yaml:"name"`    // 场景名称
	Objects []ObjectConfig `yaml:"objects"` // 场景对象（按声明顺序生成）
}

// ObjectConfig 场景对象配置
type ObjectConfig struct {
	Name     string    `yaml:"name"`     // 对象名称（唯一）
	Active   *bool     `yaml:"active"`   // 初始是否激活，默认 true
	Position []float64 `yaml:"position"` // [x, y, z]，默认原点
	Rotation []float64 `yaml:"rotation"` // 欧拉角（度），默认 0
	Scale    []float64 `yaml:"scale"`    // 默认 [1, 1, 1]
	Obstacle bool      `yaml:"obstacle"` // 是否为导航网格障碍物

	Animator *AnimatorConfig `yaml:"animator,omitempty"` // 补间动画配置
	NavMesh  *NavMeshConfig  `yaml:"navMesh,omitempty"`  // 导航网格表面配置
}

// AnimatorConfig 补间动画配置
// 引用其他对象时使用对象名称
type AnimatorConfig struct {
	MoveType           string    `yaml:"moveType"`           // rotate / move / scale
	LoopMode           string    `yaml:"loopMode"`           // once / loop，默认 once
	BackAndForth       bool      `yaml:"backAndForth"`       // 往返
	PersistCompletion  bool      `yaml:"persistCompletion"`  // 持久化完成状态
	ResetOnActivate    bool      `yaml:"resetOnActivate"`    // 激活时重置通道
	Easing             string    `yaml:"easing"`             // 缓动曲线名，默认 outQuad
	Duration           float64   `yaml:"duration"`           // 单程时长（秒）
	Delay              float64   `yaml:"delay"`              // 启动延迟（秒）
	Delta              []float64 `yaml:"delta"`              // 相对位移 [x, y, z]
	Endpoint           string    `yaml:"endpoint"`           // 终点对象名
	RevealOnCompletion bool      `yaml:"revealOnCompletion"` // 完成后显示替换对象（仅缩放）
	RevealObjects      []string  `yaml:"revealObjects"`      // 替换对象名列表
	RebuildNavMesh     bool      `yaml:"rebuildNavMesh"`     // 完成后重建导航网格（仅缩放）
	NavMeshSurface     string    `yaml:"navMeshSurface"`     // 导航网格表面对象名
}

// NavMeshConfig 导航网格表面配置（XZ 平面网格）
type NavMeshConfig struct {
	Origin   []float64 `yaml:"origin"`   // 网格左下角
	CellSize float64   `yaml:"cellSize"` // 格子边长
	Width    int       `yaml:"width"`    // X 方向格子数
	Depth    int       `yaml:"depth"`    // Z 方向格子数
}

// IsActive 返回对象初始激活状态（未配置时为 true）
func (o *ObjectConfig) IsActive() bool {
	return o.Active == nil || *o.Active
}

// Transform 解析对象的初始变换
func (o *ObjectConfig) Transform() (components.TransformComponent, error) {
	pos, err := types.NewVec3(o.Position, types.Zero)
	if err != nil {
		return components.TransformComponent{}, fmt.Errorf("object %s position: %w", o.Name, err)
	}
	rot, err := types.NewVec3(o.Rotation, types.Zero)
	if err != nil {
		return components.TransformComponent{}, fmt.Errorf("object %s rotation: %w", o.Name, err)
	}
	scale, err := types.NewVec3(o.Scale, types.One)
	if err != nil {
		return components.TransformComponent{}, fmt.Errorf("object %s scale: %w", o.Name, err)
	}
	return components.TransformComponent{Position: pos, Rotation: rot, Scale: scale}, nil
}

// LoadSceneConfig 从 YAML 文件加载场景配置
// 磁盘上不存在时尝试读取内置场景（embedded 包）
func LoadSceneConfig(filePath string) (*SceneConfig, error) {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) && embedded.Exists(filePath) {
		log.Printf("[SceneConfig] %s not found on disk, using embedded copy", filePath)
		data, err = embedded.ReadFile(filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", filePath, err)
	}

	cfg, err := ParseSceneConfig(data)
	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", filePath, err)
	}
	return cfg, nil
}

// ParseSceneConfig 解析 YAML 场景配置，填充默认值并校验
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	var cfg SceneConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateSceneConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}
	return &cfg, nil
}

// applyDefaults 填充未配置字段的默认值
func applyDefaults(cfg *SceneConfig) {
	for i := range cfg.Objects {
		anim := cfg.Objects[i].Animator
		if anim == nil {
			continue
		}
		if anim.LoopMode == "" {
			anim.LoopMode = components.LoopOnce.String()
		}
		if anim.Easing == "" {
			anim.Easing = tween.DefaultEase
		}
	}
}

// validateSceneConfig 校验场景配置
//
// 不合法的配置直接返回错误；可以运行但会被忽略的设置只记录警告。
func validateSceneConfig(cfg *SceneConfig) error {
	byName := make(map[string]*ObjectConfig, len(cfg.Objects))
	for i := range cfg.Objects {
		obj := &cfg.Objects[i]
		if strings.TrimSpace(obj.Name) == "" {
			return fmt.Errorf("object #%d: name cannot be empty", i)
		}
		if _, dup := byName[obj.Name]; dup {
			return fmt.Errorf("duplicate object name %q", obj.Name)
		}
		byName[obj.Name] = obj

		if _, err := obj.Transform(); err != nil {
			return err
		}
		if obj.NavMesh != nil {
			if err := validateNavMesh(obj.Name, obj.NavMesh); err != nil {
				return err
			}
		}
	}

	for i := range cfg.Objects {
		obj := &cfg.Objects[i]
		if obj.Animator == nil {
			continue
		}
		if err := validateAnimator(obj.Name, obj.Animator, byName); err != nil {
			return err
		}
	}
	return nil
}

// maxNavMeshCells 单个导航网格的格子数上限（每格占 1 字节，约 1MB）
const maxNavMeshCells = 1 << 20

// finiteNonNegative 是否为有限且 >= 0 的数（NaN 比较恒为 false）
func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

func validateNavMesh(name string, nm *NavMeshConfig) error {
	if _, err := types.NewVec3(nm.Origin, types.Zero); err != nil {
		return fmt.Errorf("object %s navMesh.origin: %w", name, err)
	}
	if !finiteNonNegative(nm.CellSize) || nm.CellSize == 0 {
		return fmt.Errorf("object %s navMesh.cellSize must be a finite value > 0, got %v", name, nm.CellSize)
	}
	if nm.Width <= 0 || nm.Depth <= 0 {
		return fmt.Errorf("object %s navMesh grid must be at least 1x1, got %dx%d", name, nm.Width, nm.Depth)
	}
	// 先比较单边再相乘，避免溢出
	if nm.Width > maxNavMeshCells || nm.Depth > maxNavMeshCells || nm.Width*nm.Depth > maxNavMeshCells {
		return fmt.Errorf("object %s navMesh grid %dx%d exceeds %d cells", name, nm.Width, nm.Depth, maxNavMeshCells)
	}
	return nil
}

func validateAnimator(name string, anim *AnimatorConfig, byName map[string]*ObjectConfig) error {
	moveType, err := ParseMoveType(anim.MoveType)
	if err != nil {
		return fmt.Errorf("object %s: %w", name, err)
	}
	if _, err := ParseLoopMode(anim.LoopMode); err != nil {
		return fmt.Errorf("object %s: %w", name, err)
	}
	if _, err := tween.EaseByName(anim.Easing); err != nil {
		return fmt.Errorf("object %s: %w", name, err)
	}
	if !finiteNonNegative(anim.Duration) {
		return fmt.Errorf("object %s animator.duration must be a finite value >= 0, got %v", name, anim.Duration)
	}
	if !finiteNonNegative(anim.Delay) {
		return fmt.Errorf("object %s animator.delay must be a finite value >= 0, got %v", name, anim.Delay)
	}
	delta, err := types.NewVec3(anim.Delta, types.Zero)
	if err != nil {
		return fmt.Errorf("object %s animator.delta: %w", name, err)
	}

	if anim.Endpoint != "" {
		if anim.Endpoint == name {
			return fmt.Errorf("object %s: endpoint cannot reference itself", name)
		}
		if _, ok := byName[anim.Endpoint]; !ok {
			return fmt.Errorf("object %s: endpoint %q not found", name, anim.Endpoint)
		}
		if !delta.IsZero() {
			log.Printf("[SceneConfig] Warning: %s has both endpoint and delta, endpoint wins", name)
		}
	}

	for _, target := range anim.RevealObjects {
		if _, ok := byName[target]; !ok {
			return fmt.Errorf("object %s: reveal object %q not found", name, target)
		}
	}

	if anim.NavMeshSurface != "" {
		surface, ok := byName[anim.NavMeshSurface]
		if !ok {
			return fmt.Errorf("object %s: navMeshSurface %q not found", name, anim.NavMeshSurface)
		}
		if surface.NavMesh == nil {
			return fmt.Errorf("object %s: navMeshSurface %q has no navMesh", name, anim.NavMeshSurface)
		}
	}
	if anim.RebuildNavMesh && anim.NavMeshSurface == "" {
		return fmt.Errorf("object %s: rebuildNavMesh requires navMeshSurface", name)
	}

	if moveType != components.MoveScale && (anim.RevealOnCompletion || anim.RebuildNavMesh) {
		log.Printf("[SceneConfig] Warning: %s is a %s animator, reveal/navmesh settings only apply to scale",
			name, moveType)
	}
	return nil
}

// ParseMoveType 解析动画通道名（不区分大小写）
func ParseMoveType(s string) (components.MoveType, error) {
	for _, mt := range []components.MoveType{components.MoveRotate, components.MoveMove, components.MoveScale} {
		if strings.EqualFold(s, mt.String()) {
			return mt, nil
		}
	}
	return 0, fmt.Errorf("unknown moveType %q (want rotate, move or scale)", s)
}

// ParseLoopMode 解析循环模式（不区分大小写）
func ParseLoopMode(s string) (components.LoopMode, error) {
	for _, lm := range []components.LoopMode{components.LoopOnce, components.LoopForever} {
		if strings.EqualFold(s, lm.String()) {
			return lm, nil
		}
	}
	return 0, fmt.Errorf("unknown loopMode %q (want once or loop)", s)
}
