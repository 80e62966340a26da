package tileanim

import (
	"log"
	"math"
)

// DefaultMaxStepMs 单个 tick 允许推进的最大毫秒数
//
// 调试器暂停或严重卡顿后的超大 delta 会被截断到该值，
// 动画不会在一帧之内"追赶"跳过大量帧。
const DefaultMaxStepMs int64 = 250

// ClockStats 时钟异常统计
type ClockStats struct {
	Ticks     uint64 // Advance 调用次数
	Clamped   uint64 // 被截断的 delta 次数
	Ignored   uint64 // 被忽略的负 delta 次数
	DroppedMs int64  // 因截断而丢弃的总毫秒数
}

// Clock 动画时钟
//
// 单调不减的毫秒计数器，每个模拟 tick 调用一次 Advance。
// 截断策略：
//   - delta < 0: 忽略，不推进
//   - delta > maxStepMs: 截断为 maxStepMs
//   - maxStepMs == 0: 不截断
//   - 累计时间到达 math.MaxInt64 后停止增长，不会回绕
//
// Clock 只允许一个写入者（持有它的 Tracker）。
type Clock struct {
	nowMs     int64
	maxStepMs int64
	stats     ClockStats
}

// NewClock 创建时钟
//
// 参数：
//   - maxStepMs: 单 tick 最大推进量，0 表示不截断，负数按 0 处理
func NewClock(maxStepMs int64) *Clock {
	if maxStepMs < 0 {
		maxStepMs = 0
	}
	return &Clock{maxStepMs: maxStepMs}
}

// Now 返回累计时间（毫秒）
func (c *Clock) Now() int64 {
	return c.nowMs
}

// MaxStepMs 返回截断阈值
func (c *Clock) MaxStepMs() int64 {
	return c.maxStepMs
}

// Stats 返回异常统计
func (c *Clock) Stats() ClockStats {
	return c.stats
}

// Advance 按截断策略推进时钟，返回实际推进的毫秒数
func (c *Clock) Advance(deltaMs int64) int64 {
	c.stats.Ticks++

	if deltaMs < 0 {
		c.stats.Ignored++
		log.Printf("[Clock] 忽略负 delta: %dms", deltaMs)
		return 0
	}

	applied := deltaMs
	if c.maxStepMs > 0 && applied > c.maxStepMs {
		applied = c.maxStepMs
	}
	if room := math.MaxInt64 - c.nowMs; applied > room {
		applied = room
	}
	if applied != deltaMs {
		c.stats.Clamped++
		c.stats.DroppedMs = saturatingAdd(c.stats.DroppedMs, deltaMs-applied)
		log.Printf("[Clock] delta %dms 超过上限，截断为 %dms", deltaMs, applied)
	}

	c.nowMs += applied
	return applied
}

// reset 恢复快照时使用，可能让时间倒退
func (c *Clock) reset(nowMs int64) {
	if nowMs < 0 {
		nowMs = 0
	}
	c.nowMs = nowMs
}

func saturatingAdd(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}
