package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/decker502/tileanim/pkg/tileanim"
)

// frameRecordSize 每帧记录的字节数：帧瓦片 ID (int32) + 持续毫秒 (int32)，小端序
const frameRecordSize = 8

// errCorruptRecord 序列记录长度不是帧记录的整数倍
var errCorruptRecord = errors.New("corrupt sequence record")

// sequenceKey 基础瓦片 ID 编码为大端序 uint32，使 bbolt 的游标顺序与 ID 升序一致
func sequenceKey(baseTileID int) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, uint32(baseTileID))
	return key
}

func decodeSequenceKey(key []byte) (int, error) {
	if len(key) != 4 {
		return 0, fmt.Errorf("invalid sequence key length %d", len(key))
	}
	return int(binary.BigEndian.Uint32(key)), nil
}

// encodeFrames 把帧列表编码为 [tile, duration] 对
func encodeFrames(frames []tileanim.FrameDescriptor) ([]byte, error) {
	buf := make([]byte, 0, len(frames)*frameRecordSize)
	for i, f := range frames {
		if f.FrameTileID < 0 || f.FrameTileID > math.MaxInt32 {
			return nil, fmt.Errorf("frame %d: tile id %d out of range", i, f.FrameTileID)
		}
		if f.DurationMs > math.MaxInt32 {
			return nil, fmt.Errorf("frame %d: duration %dms out of range", i, f.DurationMs)
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(f.FrameTileID)))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(f.DurationMs)))
	}
	return buf, nil
}

// decodeFrames 解码帧列表，持续时间的合法性由 tileanim.Build 检查
func decodeFrames(data []byte) ([]tileanim.FrameDescriptor, error) {
	if len(data)%frameRecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", errCorruptRecord, len(data))
	}
	frames := make([]tileanim.FrameDescriptor, 0, len(data)/frameRecordSize)
	for off := 0; off < len(data); off += frameRecordSize {
		tile := int32(binary.LittleEndian.Uint32(data[off:]))
		dur := int32(binary.LittleEndian.Uint32(data[off+4:]))
		frames = append(frames, tileanim.FrameDescriptor{
			FrameTileID: int(tile),
			DurationMs:  int64(dur),
		})
	}
	return frames, nil
}
