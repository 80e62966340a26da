// Package tileanim 实现瓦片动画引擎的核心部分
//
// 组成（自底向上）：
//   - Table: 加载时构建的只读动画表，基础瓦片 ID -> 帧序列
//   - Clock: 单调不减的毫秒计时器，每个 tick 推进一次
//   - Tracker: 为每个存活的动画瓦片维护累计时间，并在 tick 时预计算当前帧
//   - Resolver: 渲染器每帧查询的接口，逻辑瓦片 ID -> 实际绘制的瓦片 ID
//
// 帧序列中的帧 ID 可以重复，也可以和其他序列共享，
// 序列只引用帧 ID，不拥有它们。
package tileanim

import (
	"fmt"
	"math"
	"sort"
)

// linearScanLimit 帧数不超过该值时使用线性扫描，否则使用二分查找
const linearScanLimit = 8

// FrameDescriptor 单帧描述：显示的瓦片 ID 和持续时间（毫秒）
type FrameDescriptor struct {
	FrameTileID int   `yaml:"tile"`
	DurationMs  int64 `yaml:"duration_ms"`
}

// SequenceDescriptor 一个基础瓦片的动画描述，用作 Build 的输入
// Frames 的顺序即播放顺序
type SequenceDescriptor struct {
	BaseTileID int
	Frames     []FrameDescriptor
}

// Sequence 构建完成的不可变帧序列
type Sequence struct {
	baseTileID int
	slot       int
	frames     []FrameDescriptor
	ends       []int64 // 每帧的累计结束时间，ends[i] = sum(duration[0..i])
	totalMs    int64
}

// BaseTileID 返回序列对应的基础瓦片 ID
func (s *Sequence) BaseTileID() int {
	return s.baseTileID
}

// Len 返回帧数
func (s *Sequence) Len() int {
	return len(s.frames)
}

// Frame 返回第 i 帧
func (s *Sequence) Frame(i int) FrameDescriptor {
	return s.frames[i]
}

// Frames 返回帧列表的副本
func (s *Sequence) Frames() []FrameDescriptor {
	out := make([]FrameDescriptor, len(s.frames))
	copy(out, s.frames)
	return out
}

// TotalDurationMs 返回一个完整循环的总时长
func (s *Sequence) TotalDurationMs() int64 {
	return s.totalMs
}

// FrameIndexAt 返回 elapsedMs 时刻处于激活状态的帧下标
//
// 每帧占据左闭右开区间 [start, start+duration)，
// 恰好落在边界上的毫秒属于下一帧。
// elapsedMs 先对总时长取模，因此任意值（包括负数）都合法。
func (s *Sequence) FrameIndexAt(elapsedMs int64) int {
	e := elapsedMs % s.totalMs
	if e < 0 {
		e += s.totalMs
	}

	if len(s.ends) <= linearScanLimit {
		for i, end := range s.ends {
			if e < end {
				return i
			}
		}
		return len(s.ends) - 1
	}

	// 查找第一个 ends[i] > e 的下标
	lo, hi := 0, len(s.ends)-1
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if s.ends[mid] > e {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// FrameAt 返回 elapsedMs 时刻应绘制的瓦片 ID
func (s *Sequence) FrameAt(elapsedMs int64) int {
	return s.frames[s.FrameIndexAt(elapsedMs)].FrameTileID
}

// Table 动画表
//
// 在地图/瓦片集加载时构建一次，之后只读，可以在多个 goroutine 中无锁并发读取。
// 热重载时整体替换为新表，从不原地修改。
type Table struct {
	sequences map[int]*Sequence
	bySlot    []*Sequence // 按基础瓦片 ID 升序排列，下标即 slot
}

// Build 根据描述符构建动画表
//
// 以下情况返回 *MalformedDescriptorError，且不返回任何部分构建的表：
//   - 帧列表为空
//   - 存在持续时间 <= 0 的帧
//   - 基础瓦片 ID 重复
//   - 总时长超出 int64 范围
func Build(descriptors []SequenceDescriptor) (*Table, error) {
	// 1. 先完整校验，避免构建到一半失败
	seen := make(map[int]struct{}, len(descriptors))
	for _, d := range descriptors {
		if _, dup := seen[d.BaseTileID]; dup {
			return nil, &MalformedDescriptorError{BaseTileID: d.BaseTileID, FrameIndex: -1, Err: ErrDuplicateBaseTileID}
		}
		seen[d.BaseTileID] = struct{}{}

		if len(d.Frames) == 0 {
			return nil, &MalformedDescriptorError{BaseTileID: d.BaseTileID, FrameIndex: -1, Err: ErrEmptySequence}
		}
		var total int64
		for i, f := range d.Frames {
			if f.DurationMs <= 0 {
				return nil, &MalformedDescriptorError{BaseTileID: d.BaseTileID, FrameIndex: i, Err: ErrNonPositiveDuration}
			}
			if f.DurationMs > math.MaxInt64-total {
				return nil, &MalformedDescriptorError{BaseTileID: d.BaseTileID, FrameIndex: i, Err: ErrDurationOverflow}
			}
			total += f.DurationMs
		}
	}

	// 2. 构建序列
	bySlot := make([]*Sequence, 0, len(descriptors))
	for _, d := range descriptors {
		seq := &Sequence{
			baseTileID: d.BaseTileID,
			frames:     make([]FrameDescriptor, len(d.Frames)),
			ends:       make([]int64, len(d.Frames)),
		}
		copy(seq.frames, d.Frames)

		var total int64
		for i, f := range d.Frames {
			total += f.DurationMs
			seq.ends[i] = total
		}
		seq.totalMs = total
		bySlot = append(bySlot, seq)
	}

	// 3. 按 ID 排序并分配 slot
	sort.Slice(bySlot, func(i, j int) bool {
		return bySlot[i].baseTileID < bySlot[j].baseTileID
	})
	sequences := make(map[int]*Sequence, len(bySlot))
	for i, seq := range bySlot {
		seq.slot = i
		sequences[seq.baseTileID] = seq
	}

	return &Table{
		sequences: sequences,
		bySlot:    bySlot,
	}, nil
}

// MustBuild 与 Build 相同，出错时 panic
// 仅用于测试和内置的静态表
func MustBuild(descriptors []SequenceDescriptor) *Table {
	t, err := Build(descriptors)
	if err != nil {
		panic(fmt.Sprintf("tileanim: %v", err))
	}
	return t
}

// Lookup 查找基础瓦片 ID 对应的序列
// 大部分瓦片是静态的，未找到时返回 false 而不是错误
func (t *Table) Lookup(baseTileID int) (*Sequence, bool) {
	seq, ok := t.sequences[baseTileID]
	return seq, ok
}

// Len 返回动画序列数量
func (t *Table) Len() int {
	return len(t.bySlot)
}

// BaseTileIDs 返回所有动画瓦片 ID（升序）
func (t *Table) BaseTileIDs() []int {
	ids := make([]int, len(t.bySlot))
	for i, seq := range t.bySlot {
		ids[i] = seq.baseTileID
	}
	return ids
}

// Descriptors 将表还原为描述符（升序），用于打包和导出
func (t *Table) Descriptors() []SequenceDescriptor {
	out := make([]SequenceDescriptor, len(t.bySlot))
	for i, seq := range t.bySlot {
		out[i] = SequenceDescriptor{
			BaseTileID: seq.baseTileID,
			Frames:     seq.Frames(),
		}
	}
	return out
}
