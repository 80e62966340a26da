package systems

import (
	"github.com/decker502/tileanim/pkg/components"
	"github.com/decker502/tileanim/pkg/ecs"
	"github.com/decker502/tileanim/pkg/game"
)

// TileAnimationSystem 推进瓦片动画并刷新所有图层的绘制 ID
//
// 每帧：
//  1. AnimManager 按 deltaTime 推进时钟和所有存活状态（同时应用暂存的新表）
//  2. 对每个 TileLayerComponent，把逻辑 ID 解析为当前帧 ID 写入 Drawn
//
// 同一帧中所有图层读取同一个时间点，相同基础瓦片始终同步显示。
type TileAnimationSystem struct {
	entityManager *ecs.EntityManager
	anim          *game.AnimManager
}

// NewTileAnimationSystem 创建瓦片动画系统
func NewTileAnimationSystem(em *ecs.EntityManager, anim *game.AnimManager) *TileAnimationSystem {
	return &TileAnimationSystem{
		entityManager: em,
		anim:          anim,
	}
}

// Update 推进 deltaTime 秒
func (s *TileAnimationSystem) Update(deltaTime float64) {
	s.anim.Update(deltaTime)
	s.Refresh()
}

// Refresh 不推进时间，只按当前帧缓冲重新解析所有图层
// 用于恢复快照之后立即刷新画面
func (s *TileAnimationSystem) Refresh() {
	resolver := s.anim.Resolver()
	for _, id := range ecs.GetEntitiesWith1[*components.TileLayerComponent](s.entityManager) {
		layer, _ := ecs.GetComponent[*components.TileLayerComponent](s.entityManager, id)
		// 空格子 (-1) 不在表中，原样写回
		resolver.ResolveInto(layer.Drawn, layer.Tiles)
	}
}

// LiveTiles 收集所有图层中出现的基础瓦片 ID，作为 Tracker 的存活集合
func LiveTiles(em *ecs.EntityManager) []int {
	seen := make(map[int]struct{})
	out := make([]int, 0)
	for _, id := range ecs.GetEntitiesWith1[*components.TileLayerComponent](em) {
		layer, _ := ecs.GetComponent[*components.TileLayerComponent](em, id)
		for _, tile := range layer.UniqueTiles() {
			if _, ok := seen[tile]; !ok {
				seen[tile] = struct{}{}
				out = append(out, tile)
			}
		}
	}
	return out
}
