package systems

import (
	"testing"

	"github.com/decker502/tileanim/pkg/components"
	"github.com/decker502/tileanim/pkg/config"
	"github.com/decker502/tileanim/pkg/ecs"
	"github.com/decker502/tileanim/pkg/game"
	"github.com/decker502/tileanim/pkg/tileanim"
)

func newTestAnim() *game.AnimManager {
	table := tileanim.MustBuild([]tileanim.SequenceDescriptor{
		{BaseTileID: 1, Frames: []tileanim.FrameDescriptor{
			{FrameTileID: 10, DurationMs: 100},
			{FrameTileID: 20, DurationMs: 200},
		}},
		{BaseTileID: 2, Frames: []tileanim.FrameDescriptor{
			{FrameTileID: 30, DurationMs: 50},
			{FrameTileID: 40, DurationMs: 50},
		}},
	})
	return game.NewAnimManager(table, config.TilesetConfig{})
}

// TestTileAnimationSystemUpdate 测试所有图层同步刷新
func TestTileAnimationSystemUpdate(t *testing.T) {
	em := ecs.NewEntityManager()
	ground := em.CreateEntity()
	em.AddComponent(ground, components.NewTileLayerComponent([][]int{
		{1, 5, 2},
		{-1, 1, 1},
	}))
	overlay := em.CreateEntity()
	em.AddComponent(overlay, components.NewTileLayerComponent([][]int{{2, 1}}))

	sys := NewTileAnimationSystem(em, newTestAnim())

	// 0.125s = 125ms：瓦片 1 -> 20，瓦片 2 -> 125 mod 100 = 25 -> 30
	sys.Update(0.125)

	g, _ := ecs.GetComponent[*components.TileLayerComponent](em, ground)
	want := []int{20, 5, 30, -1, 20, 20}
	for i, id := range want {
		if g.Drawn[i] != id {
			t.Errorf("ground[%d]: 期望 %d，实际 %d", i, id, g.Drawn[i])
		}
	}
	// 逻辑 ID 不变
	if g.Tiles[0] != 1 {
		t.Errorf("逻辑 ID 不应被修改: %v", g.Tiles)
	}

	o, _ := ecs.GetComponent[*components.TileLayerComponent](em, overlay)
	if o.Drawn[0] != 30 || o.Drawn[1] != 20 {
		t.Errorf("overlay: 期望 [30 20]，实际 %v", o.Drawn)
	}
}

// TestTileAnimationSystemRefresh 测试恢复快照后立即刷新
func TestTileAnimationSystemRefresh(t *testing.T) {
	em := ecs.NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, components.NewTileLayerComponent([][]int{{1}}))

	anim := newTestAnim()
	sys := NewTileAnimationSystem(em, anim)

	sys.Update(0.0625) // 62ms -> 10
	snap := anim.Snapshot()
	sys.Update(0.125) // 187ms -> 20

	layer, _ := ecs.GetComponent[*components.TileLayerComponent](em, id)
	if layer.Drawn[0] != 20 {
		t.Fatalf("期望 20，实际 %d", layer.Drawn[0])
	}

	anim.Restore(snap)
	sys.Refresh()
	if layer.Drawn[0] != 10 {
		t.Errorf("恢复后期望 10，实际 %d", layer.Drawn[0])
	}
}

func TestLiveTiles(t *testing.T) {
	em := ecs.NewEntityManager()
	a := em.CreateEntity()
	em.AddComponent(a, components.NewTileLayerComponent([][]int{{1, 5, -1}}))
	b := em.CreateEntity()
	em.AddComponent(b, components.NewTileLayerComponent([][]int{{5, 2}}))

	got := LiveTiles(em)
	want := []int{1, 5, 2}
	if len(got) != len(want) {
		t.Fatalf("期望 %v，实际 %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("期望 %v，实际 %v", want, got)
		}
	}
}
