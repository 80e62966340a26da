package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/tileanim/pkg/tileanim"
)

// snapshotObject gdata 中保存动画快照的对象名，属性名为存档槽
const snapshotObject = "anim_snapshots"

// SnapshotManager 动画快照管理器
//
// 快照以 YAML 格式保存到 gdata，重放或读档后的动画画面与保存时一致。
// gdataManager 为 nil 时降级为仅内存保存，进程退出后丢失。
type SnapshotManager struct {
	gdataManager *gdata.Manager
	memory       map[string]tileanim.Snapshot
}

// NewSnapshotManager 创建快照管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
func NewSnapshotManager(gdataManager *gdata.Manager) *SnapshotManager {
	return &SnapshotManager{
		gdataManager: gdataManager,
		memory:       make(map[string]tileanim.Snapshot),
	}
}

// OpenSnapshotManager 按应用名打开 gdata 存储
// 打开失败时返回降级模式的管理器和错误
func OpenSnapshotManager(appName string) (*SnapshotManager, error) {
	gm, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SnapshotManager] Warning: 无法打开存储 '%s': %v (仅内存保存)", appName, err)
		return NewSnapshotManager(nil), err
	}
	return NewSnapshotManager(gm), nil
}

// Persistent 是否能持久化
func (sm *SnapshotManager) Persistent() bool {
	return sm.gdataManager != nil
}

// Save 保存快照到指定存档槽
func (sm *SnapshotManager) Save(slot string, s tileanim.Snapshot) error {
	if slot == "" {
		return fmt.Errorf("snapshot slot must not be empty")
	}

	// 降级模式：仅内存
	if sm.gdataManager == nil {
		sm.memory[slot] = s
		return nil
	}

	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(snapshotObject, slot, data); err != nil {
		return fmt.Errorf("failed to save snapshot '%s': %w", slot, err)
	}

	log.Printf("[SnapshotManager] 快照已保存: slot=%s clock=%dms states=%d", slot, s.ClockMs, len(s.States))
	return nil
}

// Load 读取存档槽中的快照
//
// 返回：
//   - tileanim.Snapshot: 快照内容
//   - bool: 存档槽是否存在
//   - error: 读取或反序列化失败
func (sm *SnapshotManager) Load(slot string) (tileanim.Snapshot, bool, error) {
	if sm.gdataManager == nil {
		s, ok := sm.memory[slot]
		return s, ok, nil
	}

	if !sm.gdataManager.ObjectPropExists(snapshotObject, slot) {
		return tileanim.Snapshot{}, false, nil
	}

	data, err := sm.gdataManager.LoadObjectProp(snapshotObject, slot)
	if err != nil {
		return tileanim.Snapshot{}, false, fmt.Errorf("failed to load snapshot '%s': %w", slot, err)
	}

	var s tileanim.Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return tileanim.Snapshot{}, false, fmt.Errorf("failed to unmarshal snapshot '%s': %w", slot, err)
	}
	return s, true, nil
}

// Exists 存档槽是否存在
func (sm *SnapshotManager) Exists(slot string) bool {
	if sm.gdataManager == nil {
		_, ok := sm.memory[slot]
		return ok
	}
	return sm.gdataManager.ObjectPropExists(snapshotObject, slot)
}
