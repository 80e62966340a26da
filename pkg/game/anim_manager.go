package game

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/tileanim/pkg/config"
	"github.com/decker502/tileanim/pkg/loader"
	"github.com/decker502/tileanim/pkg/tileanim"
)

// AnimManager 瓦片动画管理器
//
// 职责：
//   - 把游戏循环的秒级 deltaTime 换算成毫秒推进 Tracker，不足 1ms 的部分累积到下一帧
//   - 从配置的描述符来源加载和热重载动画表
//   - 对外提供渲染用的 Resolver
//
// Update / Restore 只能在游戏主循环调用；ReloadFromConfig 可以在任意 goroutine 调用。
type AnimManager struct {
	tracker *tileanim.Tracker
	source  config.TilesetConfig

	carryMs float64 // 尚未推进的不足 1ms 的时间
}

// NewAnimManager 创建动画管理器
//
// 参数：
//   - table: 初始动画表，nil 表示空表
//   - source: 描述符来源，用于热重载
//   - opts: 传给 Tracker 的选项
func NewAnimManager(table *tileanim.Table, source config.TilesetConfig, opts ...tileanim.TrackerOption) *AnimManager {
	return &AnimManager{
		tracker: tileanim.NewTracker(table, opts...),
		source:  source,
	}
}

// NewAnimManagerFromConfig 按引擎配置加载动画表并创建管理器
//
// liveTiles 为地图上出现的瓦片 ID，仅在 tracker.live_only 开启时使用
func NewAnimManagerFromConfig(cfg *config.EngineConfig, liveTiles []int) (*AnimManager, error) {
	table, err := loader.LoadFromConfig(cfg.Tileset)
	if err != nil {
		return nil, fmt.Errorf("failed to load animation table: %w", err)
	}

	opts := []tileanim.TrackerOption{
		tileanim.WithMaxStep(cfg.Clock.MaxStep()),
		tileanim.WithParallel(cfg.Tracker.ParallelThreshold, cfg.Tracker.Workers),
	}
	if cfg.Tracker.LiveOnly {
		opts = append(opts, tileanim.WithLiveTiles(liveTiles))
	}

	return NewAnimManager(table, cfg.Tileset, opts...), nil
}

// Update 推进 deltaSeconds 秒
//
// 负数原样交给时钟（时钟会忽略并计数），不影响累积的小数部分。
func (am *AnimManager) Update(deltaSeconds float64) {
	if deltaSeconds < 0 {
		am.tracker.Tick(int64(math.Floor(deltaSeconds * 1000)))
		return
	}

	total := deltaSeconds*1000 + am.carryMs
	whole := math.Floor(total)
	am.carryMs = total - whole
	am.tracker.Tick(int64(whole))
}

// ReloadFromConfig 重新读取描述符来源并暂存新表，下一次 Update 时生效
// 加载失败时保留当前表
func (am *AnimManager) ReloadFromConfig() error {
	table, err := loader.LoadFromConfig(am.source)
	if err != nil {
		log.Printf("[AnimManager] 热重载失败，保留当前动画表: %v", err)
		return err
	}

	am.tracker.Reload(table)
	log.Printf("[AnimManager] 已暂存新动画表: %d 个动画瓦片", table.Len())
	return nil
}

// StageTable 暂存一张已构建的动画表
func (am *AnimManager) StageTable(table *tileanim.Table) {
	am.tracker.Reload(table)
}

// Snapshot 导出当前动画状态
func (am *AnimManager) Snapshot() tileanim.Snapshot {
	return am.tracker.Snapshot()
}

// Restore 从快照恢复，并清空累积的小数部分
func (am *AnimManager) Restore(s tileanim.Snapshot) {
	am.carryMs = 0
	am.tracker.Restore(s)
}

// Resolver 返回渲染用的解析器
func (am *AnimManager) Resolver() *tileanim.Resolver {
	return am.tracker.Resolver()
}

// Tracker 返回底层跟踪器
func (am *AnimManager) Tracker() *tileanim.Tracker {
	return am.tracker
}

// Source 返回描述符来源
func (am *AnimManager) Source() config.TilesetConfig {
	return am.source
}
