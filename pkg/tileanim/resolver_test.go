package tileanim

import (
	"sync"
	"testing"
)

func TestResolver_StaticTileUnchanged(t *testing.T) {
	tracker := NewTracker(testTable())
	r := tracker.Resolver()
	liveBefore := tracker.LiveCount()

	for _, id := range []int{0, 5, 46, 69, 100000, -3} {
		if got := r.Resolve(id); got != id {
			t.Errorf("Resolve(%d) = %d, want unchanged", id, got)
		}
	}
	if r.IsAnimated(5) {
		t.Error("tile 5 should not be animated")
	}
	// 查询静态瓦片不会创建任何状态
	if tracker.LiveCount() != liveBefore {
		t.Errorf("LiveCount changed from %d to %d", liveBefore, tracker.LiveCount())
	}
}

func TestResolver_ZeroAllocations(t *testing.T) {
	tracker := NewTracker(testTable(), WithLiveTiles([]int{68}))
	tracker.Tick(120)
	r := tracker.Resolver()

	cases := map[string]int{
		"静态瓦片":   5,
		"存活动画瓦片": 68,
		"非存活动画瓦片": 1,
	}
	for name, id := range cases {
		t.Run(name, func(t *testing.T) {
			allocs := testing.AllocsPerRun(1000, func() {
				_ = r.Resolve(id)
			})
			if allocs != 0 {
				t.Errorf("Resolve(%d) allocated %.1f times per call", id, allocs)
			}
		})
	}
}

func TestResolver_SharedBaseTileLockstep(t *testing.T) {
	tracker := NewTracker(testTable(), WithMaxStep(0))
	tracker.Tick(1650)
	r := tracker.Resolver()

	// 同一基础瓦片的所有格子同步播放
	row := []int{68, 5, 68, 68, 1, 68}
	out := make([]int, len(row))
	if n := r.ResolveInto(out, row); n != len(row) {
		t.Fatalf("ResolveInto returned %d, want %d", n, len(row))
	}

	want := []int{46, 5, 46, 46, 100, 46}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("cell %d: got %d, want %d", i, out[i], want[i])
		}
	}

	short := make([]int, 2)
	if n := r.ResolveInto(short, row); n != 2 {
		t.Errorf("ResolveInto with short dst returned %d, want 2", n)
	}
}

// TestResolver_ConcurrentWithNextTick 渲染 goroutine 读取上一次发布的结果，
// 同时主循环执行下一次 Tick
func TestResolver_ConcurrentWithNextTick(t *testing.T) {
	tracker := NewTracker(testTable(), WithMaxStep(0))
	r := tracker.Resolver()

	for tick := 0; tick < 200; tick++ {
		tracker.Tick(16)
		now := r.NowMs()
		seq, _ := tracker.Table().Lookup(68)
		want := seq.FrameAt(now)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				got := r.Resolve(68)
				// 读到的是本次或下一次 tick 的结果
				if got != want && got != seq.FrameAt(now+16) {
					t.Errorf("tick %d: unexpected frame %d", tick, got)
					return
				}
			}
		}()
		tracker.Tick(16)
		wg.Wait()
	}
}

// TestResolver_ConcurrentWithReload 渲染 goroutine 持续解析，
// 主循环交替换入大小不同的动画表；每次解析只能看到完整的旧表或新表
func TestResolver_ConcurrentWithReload(t *testing.T) {
	const tiles = 64

	small := MustBuild([]SequenceDescriptor{twoFrameDescriptor(0, 1000, 1001)})
	descs := make([]SequenceDescriptor, tiles)
	for id := range descs {
		descs[id] = twoFrameDescriptor(id, 1000+id, 2000+id)
	}
	large := MustBuild(descs)

	// valid 判断 got 是否是 small 或 large 中 id 可能显示的帧
	valid := func(id, got int) bool {
		if id == 0 {
			return got == 1000 || got == 1001 || got == 2000
		}
		return got == id || got == 1000+id || got == 2000+id
	}

	tests := []struct {
		name string
		opts []TrackerOption
	}{
		{name: "串行推进", opts: []TrackerOption{WithMaxStep(0)}},
		{name: "并行推进", opts: []TrackerOption{WithMaxStep(0), WithParallel(1, 4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker(small, tt.opts...)
			r := tracker.Resolver()

			row := make([]int, tiles)
			for id := range row {
				row[id] = id
			}

			stop := make(chan struct{})
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				out := make([]int, tiles)
				for {
					select {
					case <-stop:
						return
					default:
					}
					for id := 0; id < tiles; id++ {
						if got := r.Resolve(id); !valid(id, got) {
							t.Errorf("Resolve(%d) = %d", id, got)
							return
						}
					}
					r.ResolveInto(out, row)
					for id, got := range out {
						if !valid(id, got) {
							t.Errorf("ResolveInto cell %d = %d", id, got)
							return
						}
					}
				}
			}()

			for i := 0; i < 500; i++ {
				if i%2 == 0 {
					tracker.Reload(large)
				} else {
					tracker.Reload(small)
				}
				tracker.Tick(16)
			}
			close(stop)
			wg.Wait()

			if tracker.Table() != small {
				t.Error("expected the last staged table to be bound")
			}
		})
	}
}

func BenchmarkResolver_Static(b *testing.B) {
	r := NewTracker(testTable()).Resolver()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Resolve(5)
	}
}

func BenchmarkResolver_Animated(b *testing.B) {
	tracker := NewTracker(testTable())
	tracker.Tick(500)
	r := tracker.Resolver()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Resolve(68)
	}
}
