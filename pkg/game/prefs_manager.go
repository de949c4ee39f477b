package game

import (
	"fmt"
	"log"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 存储路径常量
const (
	prefsObject   = "prefs"
	prefsProperty = "flags"
)

// PrefsManager 持久化键值存储
//
// 保存动画完成标记等整数键值，跨会话保留。
// 所有键保存在同一个 gdata 属性中（YAML 格式的 map[string]int）。
type PrefsManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存）
	values       map[string]int
}

// NewPrefsManager 创建持久化存储并加载已保存的键值
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，重启后丢失）
//
// 加载失败不影响创建，以空存储启动
func NewPrefsManager(gdataManager *gdata.Manager) *PrefsManager {
	pm := &PrefsManager{
		gdataManager: gdataManager,
		values:       make(map[string]int),
	}
	if err := pm.Load(); err != nil {
		log.Printf("[PrefsManager] Warning: Failed to load prefs: %v (starting empty)", err)
	}
	return pm
}

// OpenPrefsManager 按应用名打开 gdata 存储
// gdata 不可用时退回内存模式并记录警告
func OpenPrefsManager(appName string) *PrefsManager {
	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[PrefsManager] Warning: gdata unavailable: %v (prefs will not persist)", err)
		return NewPrefsManager(nil)
	}
	return NewPrefsManager(gdataManager)
}

// IsPersistent 是否写入磁盘
func (pm *PrefsManager) IsPersistent() bool {
	return pm.gdataManager != nil
}

// GetInt 读取整数值，未设置的键返回 0
func (pm *PrefsManager) GetInt(key string) int {
	return pm.values[key]
}

// SetInt 写入整数值并立即保存
// 保存失败只记录日志，内存中的值仍然生效
func (pm *PrefsManager) SetInt(key string, value int) {
	pm.values[key] = value
	if err := pm.Save(); err != nil {
		log.Printf("[PrefsManager] Warning: Failed to save %s: %v", key, err)
	}
}

// HasKey 键是否已设置
func (pm *PrefsManager) HasKey(key string) bool {
	_, ok := pm.values[key]
	return ok
}

// DeleteAll 清空所有键值并保存
func (pm *PrefsManager) DeleteAll() error {
	pm.values = make(map[string]int)
	return pm.Save()
}

// Keys 返回所有键（已排序）
func (pm *PrefsManager) Keys() []string {
	keys := make([]string, 0, len(pm.values))
	for k := range pm.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load 从 gdata 加载键值
// 降级模式或尚未保存过时保持空存储
func (pm *PrefsManager) Load() error {
	pm.values = make(map[string]int)
	if pm.gdataManager == nil {
		return nil
	}
	if !pm.gdataManager.ObjectPropExists(prefsObject, prefsProperty) {
		return nil
	}

	data, err := pm.gdataManager.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		return fmt.Errorf("failed to load prefs: %w", err)
	}

	var loaded map[string]int
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal prefs: %w", err)
	}
	if loaded != nil {
		pm.values = loaded
	}
	log.Printf("[PrefsManager] Loaded %d key(s)", len(pm.values))
	return nil
}

// Save 保存键值到 gdata
// 降级模式下直接返回 nil
func (pm *PrefsManager) Save() error {
	if pm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(pm.values)
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}
	if err := pm.gdataManager.SaveObjectProp(prefsObject, prefsProperty, data); err != nil {
		return fmt.Errorf("failed to save prefs: %w", err)
	}
	return nil
}
