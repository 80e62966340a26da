package tileanim

import (
	"log"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// State 单个动画瓦片的运行时状态（用于快照和调试）
type State struct {
	BaseTileID int   `yaml:"tile"`
	ElapsedMs  int64 `yaml:"elapsed_ms"`
}

// Snapshot Tracker 的完整可恢复状态
// 由于帧只取决于 elapsed，恢复快照后的画面与保存时完全一致
type Snapshot struct {
	ClockMs int64   `yaml:"clock_ms"`
	States  []State `yaml:"states"`
}

type trackedState struct {
	seq     *Sequence
	elapsed int64 // [0, seq.totalMs)
}

// frameView 一次 tick 的发布结果
//
// table 和 live 在 bind 时确定，之后不再修改；重新绑定时分配新的 frameView，
// 已发布过的 frameView 不会被换成另一张表。
// frames 逐个原子读写，持有旧 frameView 的读者最多看到更新的帧。
type frameView struct {
	table  *Table
	live   []bool         // 按 slot 索引
	frames []atomic.Int64 // 按 slot 索引，仅 live[slot] 为 true 时有效
	nowMs  atomic.Int64
}

// TrackerOption Tracker 构造选项
type TrackerOption func(*Tracker)

// WithClock 使用外部时钟
func WithClock(c *Clock) TrackerOption {
	return func(t *Tracker) {
		t.clock = c
	}
}

// WithMaxStep 设置默认时钟的截断阈值（使用 WithClock 时无效）
func WithMaxStep(maxStepMs int64) TrackerOption {
	return func(t *Tracker) {
		t.maxStepMs = maxStepMs
	}
}

// WithLiveTiles 只为地图上实际出现的基础瓦片维护状态
//
// 不在集合中的动画瓦片仍然可以解析，只是每次按时钟现算，不做缓存。
func WithLiveTiles(ids []int) TrackerOption {
	return func(t *Tracker) {
		t.liveFilter = make(map[int]struct{}, len(ids))
		for _, id := range ids {
			t.liveFilter[id] = struct{}{}
		}
	}
}

// WithParallel 存活状态数 >= threshold 时，把推进工作分片到 workers 个 goroutine
// workers <= 1 时始终串行
func WithParallel(threshold, workers int) TrackerOption {
	return func(t *Tracker) {
		t.parallelThreshold = threshold
		t.workers = workers
	}
}

// Tracker 动画状态跟踪器
//
// 职责：
//   - 每个 tick 按时钟推进所有存活状态: elapsed = (elapsed + delta) mod total
//   - 推进后立即把每个基础瓦片的当前帧写入帧缓冲，Resolve 只做查表
//
// 并发模型：
//   - Tick / Restore / SetLiveTiles 只能由同一个 goroutine（游戏主循环）调用
//   - Resolve 可以与下一次 Tick 并发：帧缓冲为双缓冲，通过 atomic.Pointer 发布
//   - Reload 可以在任意 goroutine 调用，新表在下一次 Tick 开始时生效
type Tracker struct {
	clock             *Clock
	maxStepMs         int64
	liveFilter        map[int]struct{} // nil 表示表中所有序列都存活
	parallelThreshold int
	workers           int

	table  *Table
	states []trackedState
	live   []bool

	views   [2]*frameView
	back    int
	current atomic.Pointer[frameView]
	pending atomic.Pointer[Table]

	resolver Resolver
}

// NewTracker 创建跟踪器并绑定动画表
// table 为 nil 时绑定一个空表
func NewTracker(table *Table, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		maxStepMs: DefaultMaxStepMs,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.clock == nil {
		t.clock = NewClock(t.maxStepMs)
	}
	if table == nil {
		table = MustBuild(nil)
	}

	t.resolver = Resolver{current: &t.current}
	t.bind(table)
	return t
}

// bind 为新表重建状态
// 新状态从 clock.Now() mod total 开始，与一直在这张表上播放的结果一致
func (t *Tracker) bind(table *Table) {
	n := table.Len()
	now := t.clock.Now()

	live := make([]bool, n)
	states := make([]trackedState, 0, n)
	for slot, seq := range table.bySlot {
		if t.liveFilter != nil {
			if _, ok := t.liveFilter[seq.baseTileID]; !ok {
				continue
			}
		}
		live[slot] = true
		states = append(states, trackedState{seq: seq, elapsed: now % seq.totalMs})
	}

	t.table = table
	t.live = live
	t.states = states
	for i := range t.views {
		t.views[i] = &frameView{
			table:  table,
			live:   live,
			frames: make([]atomic.Int64, n),
		}
	}
	t.back = 0
	t.publish(0)

	log.Printf("[Tracker] 绑定动画表: %d 个序列, %d 个存活状态", n, len(states))
}

// Tick 推进一个 tick
//
// deltaMs 按时钟的截断策略处理（负数忽略，超大值截断），
// 之后每个存活状态推进相同的毫秒数。
func (t *Tracker) Tick(deltaMs int64) {
	if next := t.pending.Swap(nil); next != nil {
		t.bind(next)
	}

	applied := t.clock.Advance(deltaMs)
	t.publish(applied)
}

// publish 推进状态并把结果写入后台缓冲，然后原子发布
func (t *Tracker) publish(deltaMs int64) {
	v := t.views[t.back]
	v.nowMs.Store(t.clock.Now())

	if t.workers > 1 && len(t.states) >= t.parallelThreshold {
		t.advanceParallel(deltaMs, v.frames)
	} else {
		advanceRange(t.states, deltaMs, v.frames)
	}

	t.current.Store(v)
	t.back ^= 1
}

// advanceRange 推进一段状态，各状态只写自己的 slot
func advanceRange(states []trackedState, deltaMs int64, frames []atomic.Int64) {
	for i := range states {
		s := &states[i]
		if deltaMs != 0 {
			s.elapsed = advanceElapsed(s.elapsed, deltaMs, s.seq.totalMs)
		}
		frames[s.seq.slot].Store(int64(s.seq.FrameAt(s.elapsed)))
	}
}

// advanceElapsed 计算 (elapsed + deltaMs) mod total，任何中间值都不会溢出
// elapsed 必须在 [0, total) 内，deltaMs 不能为负
func advanceElapsed(elapsed, deltaMs, total int64) int64 {
	d := deltaMs % total
	if d >= total-elapsed {
		return elapsed - (total - d)
	}
	return elapsed + d
}

func (t *Tracker) advanceParallel(deltaMs int64, frames []atomic.Int64) {
	chunk := (len(t.states) + t.workers - 1) / t.workers

	var g errgroup.Group
	g.SetLimit(t.workers)
	for start := 0; start < len(t.states); start += chunk {
		part := t.states[start:min(start+chunk, len(t.states))]
		g.Go(func() error {
			advanceRange(part, deltaMs, frames)
			return nil
		})
	}
	_ = g.Wait()
}

// Reload 暂存一张替换用的动画表，下一次 Tick 开始时生效
// 可以在任意 goroutine 调用（例如文件监听回调）
func (t *Tracker) Reload(table *Table) {
	if table == nil {
		return
	}
	t.pending.Store(table)
}

// SetLiveTiles 更新存活集合并立即重建状态
// ids 为 nil 表示全部存活
func (t *Tracker) SetLiveTiles(ids []int) {
	if ids == nil {
		t.liveFilter = nil
	} else {
		WithLiveTiles(ids)(t)
	}
	t.bind(t.table)
}

// Snapshot 导出当前状态
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		ClockMs: t.clock.Now(),
		States:  t.States(),
	}
}

// Restore 从快照恢复
//
// 快照中不存在的存活瓦片（例如表被热重载过）按时钟时间重新计算。
func (t *Tracker) Restore(s Snapshot) {
	if next := t.pending.Swap(nil); next != nil {
		t.bind(next)
	}

	t.clock.reset(s.ClockMs)
	now := t.clock.Now()

	saved := make(map[int]int64, len(s.States))
	for _, st := range s.States {
		saved[st.BaseTileID] = st.ElapsedMs
	}

	for i := range t.states {
		st := &t.states[i]
		total := st.seq.totalMs
		if e, ok := saved[st.seq.baseTileID]; ok {
			e %= total
			if e < 0 {
				e += total
			}
			st.elapsed = e
		} else {
			st.elapsed = now % total
		}
	}

	t.publish(0)
	log.Printf("[Tracker] 从快照恢复: clock=%dms, %d 个状态", now, len(s.States))
}

// States 返回所有存活状态（按基础瓦片 ID 升序）
func (t *Tracker) States() []State {
	out := make([]State, len(t.states))
	for i, st := range t.states {
		out[i] = State{BaseTileID: st.seq.baseTileID, ElapsedMs: st.elapsed}
	}
	return out
}

// Clock 返回跟踪器使用的时钟
func (t *Tracker) Clock() *Clock {
	return t.clock
}

// Table 返回当前绑定的动画表
func (t *Tracker) Table() *Table {
	return t.current.Load().table
}

// LiveCount 返回存活状态数量
func (t *Tracker) LiveCount() int {
	return len(t.states)
}

// Resolver 返回该跟踪器的解析器
func (t *Tracker) Resolver() *Resolver {
	return &t.resolver
}
