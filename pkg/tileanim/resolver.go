package tileanim

import "sync/atomic"

// Resolver 渲染器使用的查询接口
//
// Resolve 每帧会被调用成千上万次（每个可见的动画瓦片实例一次），
// 因此不分配内存、不加锁，只读取 Tracker 最近一次发布的帧缓冲。
type Resolver struct {
	current *atomic.Pointer[frameView]
}

// Resolve 返回 tileID 当前应绘制的瓦片 ID
//
// 没有动画的瓦片原样返回；有动画的瓦片返回当前帧的 FrameTileID。
func (r *Resolver) Resolve(tileID int) int {
	return r.current.Load().resolve(tileID)
}

// ResolveInto 批量解析一行格子，返回处理的数量
// 整批使用同一次发布的结果，不会出现一半新一半旧
func (r *Resolver) ResolveInto(dst, src []int) int {
	v := r.current.Load()
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = v.resolve(src[i])
	}
	return n
}

// IsAnimated 判断 tileID 是否有动画
func (r *Resolver) IsAnimated(tileID int) bool {
	_, ok := r.current.Load().table.sequences[tileID]
	return ok
}

// NowMs 返回当前发布结果对应的时钟时间
func (r *Resolver) NowMs() int64 {
	return r.current.Load().nowMs.Load()
}

func (v *frameView) resolve(tileID int) int {
	seq, ok := v.table.sequences[tileID]
	if !ok {
		return tileID
	}
	if v.live[seq.slot] {
		return int(v.frames[seq.slot].Load())
	}
	return seq.FrameAt(v.nowMs.Load())
}
