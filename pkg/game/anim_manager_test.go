package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/tileanim/pkg/config"
	"github.com/decker502/tileanim/pkg/tileanim"
)

func twoFrameTable(base, a, b int) *tileanim.Table {
	return tileanim.MustBuild([]tileanim.SequenceDescriptor{
		{BaseTileID: base, Frames: []tileanim.FrameDescriptor{
			{FrameTileID: a, DurationMs: 100},
			{FrameTileID: b, DurationMs: 200},
		}},
	})
}

// TestAnimManagerUpdateCarry 测试不足 1ms 的时间累积到下一帧
func TestAnimManagerUpdateCarry(t *testing.T) {
	am := NewAnimManager(twoFrameTable(1, 10, 20), config.TilesetConfig{})

	// 1/128 秒 = 7.8125ms，二进制可精确表示
	for i := 0; i < 8; i++ {
		am.Update(1.0 / 128)
	}
	if got := am.Tracker().Clock().Now(); got != 62 {
		t.Errorf("8 次更新后时钟期望 62ms，实际 %dms", got)
	}

	for i := 0; i < 8; i++ {
		am.Update(1.0 / 128)
	}
	if got := am.Tracker().Clock().Now(); got != 125 {
		t.Errorf("16 次更新后时钟期望 125ms，实际 %dms", got)
	}
	if got := am.Resolver().Resolve(1); got != 20 {
		t.Errorf("125ms 时期望帧 20，实际 %d", got)
	}
}

// TestAnimManagerNegativeDelta 负数 delta 被忽略并计数
func TestAnimManagerNegativeDelta(t *testing.T) {
	am := NewAnimManager(twoFrameTable(1, 10, 20), config.TilesetConfig{})
	am.Update(0.05)
	am.Update(-1)

	clock := am.Tracker().Clock()
	if clock.Now() != 50 {
		t.Errorf("时钟期望 50ms，实际 %dms", clock.Now())
	}
	if clock.Stats().Ignored != 1 {
		t.Errorf("Ignored 期望 1，实际 %d", clock.Stats().Ignored)
	}
}

// TestAnimManagerReloadFromConfig 测试热重载
func TestAnimManagerReloadFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anims.yaml")
	writeFile(t, path, "animations:\n  - tile: 1\n    frames: [[10, 100], [20, 200]]\n")

	cfg := config.DefaultEngineConfig()
	cfg.Tileset = config.TilesetConfig{Path: path, Format: config.FormatAuto}

	am, err := NewAnimManagerFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("创建管理器失败: %v", err)
	}
	am.Update(0.125)
	if got := am.Resolver().Resolve(1); got != 20 {
		t.Fatalf("125ms 时期望帧 20，实际 %d", got)
	}

	t.Run("新表在下一次 Update 生效", func(t *testing.T) {
		writeFile(t, path, "animations:\n  - tile: 1\n    frames: [[30, 100], [40, 200]]\n  - tile: 2\n    frames: [[50, 1000]]\n")
		if err := am.ReloadFromConfig(); err != nil {
			t.Fatalf("重载失败: %v", err)
		}
		if am.Resolver().IsAnimated(2) {
			t.Error("Update 之前不应看到新表")
		}

		am.Update(0)
		if !am.Resolver().IsAnimated(2) {
			t.Error("Update 之后应看到新表")
		}
		// 时钟 125ms，新序列从 125 mod 300 开始
		if got := am.Resolver().Resolve(1); got != 40 {
			t.Errorf("期望帧 40，实际 %d", got)
		}
	})

	t.Run("加载失败时保留当前表", func(t *testing.T) {
		writeFile(t, path, "animations:\n  - tile: 1\n    frames: []\n")
		if err := am.ReloadFromConfig(); err == nil {
			t.Fatal("空帧列表应返回错误")
		}
		am.Update(0)
		if !am.Resolver().IsAnimated(2) {
			t.Error("失败的重载不应替换当前表")
		}
	})
}

// TestAnimManagerLiveOnly 测试 live_only 配置
func TestAnimManagerLiveOnly(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.Tileset.Path = "../../data/tileset.tsx"
	cfg.Tracker.LiveOnly = true
	noClamp := int64(0)
	cfg.Clock.MaxStepMs = &noClamp

	am, err := NewAnimManagerFromConfig(cfg, []int{68, 8, 3})
	if err != nil {
		t.Fatalf("创建管理器失败: %v", err)
	}
	if got := am.Tracker().LiveCount(); got != 2 {
		t.Errorf("存活状态期望 2，实际 %d", got)
	}

	// 不在存活集合中的动画瓦片仍按时钟解析
	am.Update(1.625)
	if got := am.Resolver().Resolve(68); got != 46 {
		t.Errorf("瓦片 68 期望帧 46，实际 %d", got)
	}
	if !am.Resolver().IsAnimated(432) {
		t.Error("瓦片 432 应仍被视为动画瓦片")
	}
}

// TestAnimManagerSnapshotRestore 测试快照恢复清空小数累积
func TestAnimManagerSnapshotRestore(t *testing.T) {
	am := NewAnimManager(twoFrameTable(1, 10, 20), config.TilesetConfig{})
	am.Update(0.0505)
	snap := am.Snapshot()

	am.Update(0.2)
	am.Restore(snap)
	if got := am.Tracker().Clock().Now(); got != snap.ClockMs {
		t.Errorf("恢复后时钟期望 %d，实际 %d", snap.ClockMs, got)
	}
	if got := am.Resolver().Resolve(1); got != 10 {
		t.Errorf("恢复后期望帧 10，实际 %d", got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入 %s 失败: %v", path, err)
	}
}
