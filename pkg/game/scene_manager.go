package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 根据场景文件路径创建场景，避免 game 包依赖具体场景实现
type SceneFactory func(scenePath string) (Scene, error)

// SceneManager 管理当前活动场景
// 同一时刻只有一个场景的 Update 和 Draw 被调用
type SceneManager struct {
	currentScene Scene
	currentPath  string
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器
// 初始没有活动场景，使用 SwitchTo 或 LoadScene 设置
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换到指定场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentPath 返回当前场景文件路径
func (sm *SceneManager) CurrentPath() string {
	return sm.currentPath
}

// LoadScene 通过工厂加载场景文件并切换
// 加载失败时保留当前场景
func (sm *SceneManager) LoadScene(scenePath string) error {
	log.Printf("[SceneManager] Loading scene: %s", scenePath)

	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}

	newScene, err := sm.sceneFactory(scenePath)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", scenePath, err)
	}
	sm.SwitchTo(newScene)
	sm.currentPath = scenePath
	log.Printf("[SceneManager] Switched to scene: %s", scenePath)
	return nil
}

// Reload 重新加载当前场景文件
func (sm *SceneManager) Reload() error {
	if sm.currentPath == "" {
		return fmt.Errorf("no scene loaded")
	}
	return sm.LoadScene(sm.currentPath)
}

// Update 更新当前场景，没有活动场景时什么也不做
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景，没有活动场景时什么也不做
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
