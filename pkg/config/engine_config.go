package config

import (
	"fmt"

	"github.com/decker502/tileanim/pkg/embedded"
	"github.com/decker502/tileanim/pkg/tileanim"
	"gopkg.in/yaml.v3"
)

// 描述符格式
const (
	FormatAuto = "auto"
	FormatTSX  = "tsx"
	FormatYAML = "yaml"
	FormatBolt = "bolt"
)

// 默认值
const (
	DefaultTPS               = 60
	DefaultParallelThreshold = 512
	DefaultReloadDebounceMs  = 300
	DefaultViewScale         = 2.0
	DefaultViewColumns       = 8
	DefaultSnapshotAppName   = "tileanim"
	DefaultSnapshotSlot      = "quicksave"
)

// EngineConfig 引擎配置文件（data/tileanim.yaml）的顶层结构
type EngineConfig struct {
	// Tileset 动画描述符来源
	Tileset TilesetConfig `yaml:"tileset"`

	// Clock 时钟与截断策略
	Clock ClockConfig `yaml:"clock"`

	// Tracker 状态跟踪器配置
	Tracker TrackerConfig `yaml:"tracker"`

	// Reload 热重载配置
	Reload ReloadConfig `yaml:"reload"`

	// View 预览窗口配置
	View ViewConfig `yaml:"view"`

	// Snapshot 快照存储配置
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// TilesetConfig 描述符来源
type TilesetConfig struct {
	// Path 描述符文件路径（如 "data/tileset.tsx"）
	Path string `yaml:"path"`

	// Format 描述符格式：auto / tsx / yaml / bolt，auto 按扩展名判断
	Format string `yaml:"format,omitempty"`

	// Table bolt 资源文件中的表名（仅 bolt 格式使用）
	Table string `yaml:"table,omitempty"`

	// Image 图集图片路径（可选），为空时使用占位图集
	Image string `yaml:"image,omitempty"`
}

// ClockConfig 时钟配置
type ClockConfig struct {
	// MaxStepMs 单个 tick 最大推进毫秒数
	// 未设置时使用 tileanim.DefaultMaxStepMs，显式设置为 0 表示不截断
	MaxStepMs *int64 `yaml:"max_step_ms,omitempty"`

	// TPS 游戏目标 TPS
	TPS int `yaml:"tps"`
}

// MaxStep 返回生效的截断阈值
func (c ClockConfig) MaxStep() int64 {
	if c.MaxStepMs == nil {
		return tileanim.DefaultMaxStepMs
	}
	return *c.MaxStepMs
}

// TrackerConfig 跟踪器配置
type TrackerConfig struct {
	// ParallelThreshold 存活状态数达到该值时分片并行推进
	ParallelThreshold int `yaml:"parallel_threshold"`

	// Workers 并行推进的 goroutine 数，<= 1 表示串行
	Workers int `yaml:"workers"`

	// LiveOnly 只为地图上出现的瓦片维护状态
	LiveOnly bool `yaml:"live_only"`
}

// ReloadConfig 热重载配置
type ReloadConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMs int  `yaml:"debounce_ms"`
}

// ViewConfig 预览窗口配置
type ViewConfig struct {
	// Scale 瓦片绘制缩放
	Scale float64 `yaml:"scale"`

	// Columns 自动生成演示地图时每行的格子数
	Columns int `yaml:"columns"`

	// Map 手动指定的演示地图（行 -> 基础瓦片 ID），为空时自动生成
	Map [][]int `yaml:"map,omitempty"`

	// ShowIDs 启动时是否显示瓦片 ID
	ShowIDs bool `yaml:"show_ids"`
}

// SnapshotConfig 快照存储配置
type SnapshotConfig struct {
	AppName string `yaml:"app_name"`
	Slot    string `yaml:"slot"`
}

// DefaultEngineConfig 返回默认配置
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Tileset: TilesetConfig{
			Path:   "data/tileset.tsx",
			Format: FormatAuto,
		},
		Clock: ClockConfig{
			TPS: DefaultTPS,
		},
		Tracker: TrackerConfig{
			ParallelThreshold: DefaultParallelThreshold,
			Workers:           1,
		},
		Reload: ReloadConfig{
			DebounceMs: DefaultReloadDebounceMs,
		},
		View: ViewConfig{
			Scale:   DefaultViewScale,
			Columns: DefaultViewColumns,
		},
		Snapshot: SnapshotConfig{
			AppName: DefaultSnapshotAppName,
			Slot:    DefaultSnapshotSlot,
		},
	}
}

// LoadEngineConfig 加载引擎配置
//
// 优先读取磁盘文件，不存在时回退到嵌入的 data 目录。
//
// 参数：
//   - path: 配置文件路径（如 "data/tileanim.yaml"）
//
// 返回：
//   - *EngineConfig: 解析并填充默认值后的配置
//   - error: 读取、解析或验证错误
func LoadEngineConfig(path string) (*EngineConfig, error) {
	// 1. 读取文件
	data, err := embedded.ReadLocalFirst(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取配置文件 %s: %w", path, err)
	}

	// 2. 解析并验证
	config, err := ParseEngineConfig(data)
	if err != nil {
		return nil, fmt.Errorf("配置文件 %s: %w", path, err)
	}

	return config, nil
}

// ParseEngineConfig 解析 YAML 内容，未填写的字段使用默认值
func ParseEngineConfig(data []byte) (*EngineConfig, error) {
	config := DefaultEngineConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("无法解析配置: %w", err)
	}

	applyDefaults(config)

	if err := validateEngineConfig(config); err != nil {
		return nil, fmt.Errorf("验证失败: %w", err)
	}

	return config, nil
}

// applyDefaults 为显式写成零值的字段补默认值
func applyDefaults(config *EngineConfig) {
	if config.Tileset.Format == "" {
		config.Tileset.Format = FormatAuto
	}
	if config.Clock.TPS == 0 {
		config.Clock.TPS = DefaultTPS
	}
	if config.Reload.DebounceMs == 0 {
		config.Reload.DebounceMs = DefaultReloadDebounceMs
	}
	if config.View.Scale == 0 {
		config.View.Scale = DefaultViewScale
	}
	if config.View.Columns == 0 {
		config.View.Columns = DefaultViewColumns
	}
	if config.Snapshot.AppName == "" {
		config.Snapshot.AppName = DefaultSnapshotAppName
	}
	if config.Snapshot.Slot == "" {
		config.Snapshot.Slot = DefaultSnapshotSlot
	}
}

// validateEngineConfig 验证配置的正确性
func validateEngineConfig(config *EngineConfig) error {
	if config.Tileset.Path == "" {
		return fmt.Errorf("缺少必填字段 'tileset.path'")
	}

	switch config.Tileset.Format {
	case FormatAuto, FormatTSX, FormatYAML, FormatBolt:
	default:
		return fmt.Errorf("描述符格式 '%s' 无效，只能是 auto / tsx / yaml / bolt", config.Tileset.Format)
	}

	if config.Clock.MaxStepMs != nil && *config.Clock.MaxStepMs < 0 {
		return fmt.Errorf("'clock.max_step_ms' 不能为负数: %d", *config.Clock.MaxStepMs)
	}
	if config.Clock.TPS < 0 {
		return fmt.Errorf("'clock.tps' 必须为正数: %d", config.Clock.TPS)
	}

	if config.Tracker.ParallelThreshold < 0 {
		return fmt.Errorf("'tracker.parallel_threshold' 不能为负数: %d", config.Tracker.ParallelThreshold)
	}
	if config.Tracker.Workers < 0 {
		return fmt.Errorf("'tracker.workers' 不能为负数: %d", config.Tracker.Workers)
	}

	if config.Reload.DebounceMs < 0 {
		return fmt.Errorf("'reload.debounce_ms' 不能为负数: %d", config.Reload.DebounceMs)
	}

	if config.View.Scale < 0 {
		return fmt.Errorf("'view.scale' 不能为负数: %v", config.View.Scale)
	}
	if config.View.Columns < 0 {
		return fmt.Errorf("'view.columns' 不能为负数: %d", config.View.Columns)
	}
	for i, row := range config.View.Map {
		for j, id := range row {
			if id < 0 {
				return fmt.Errorf("演示地图第 %d 行第 %d 列的瓦片 ID 为负数: %d", i, j, id)
			}
		}
	}

	return nil
}
