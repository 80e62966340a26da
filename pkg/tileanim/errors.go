package tileanim

import (
	"errors"
	"fmt"
)

// 描述符校验失败的原因
// 通过 errors.Is 判断具体类型
var (
	ErrEmptySequence       = errors.New("empty frame list")
	ErrNonPositiveDuration = errors.New("non-positive frame duration")
	ErrDuplicateBaseTileID = errors.New("duplicate base tile id")
	ErrDurationOverflow    = errors.New("total duration overflows int64")
)

// MalformedDescriptorError 动画描述符格式错误
//
// 只在构建 Table 时返回，运行期间不会出现。
// FrameIndex 为 -1 表示错误与具体帧无关（空序列、重复 ID）。
// 总时长溢出时 FrameIndex 为第一个使累计时长溢出的帧。
type MalformedDescriptorError struct {
	BaseTileID int
	FrameIndex int
	Err        error
}

func (e *MalformedDescriptorError) Error() string {
	if e.FrameIndex >= 0 {
		return fmt.Sprintf("malformed animation descriptor for tile %d (frame #%d): %v",
			e.BaseTileID, e.FrameIndex, e.Err)
	}
	return fmt.Sprintf("malformed animation descriptor for tile %d: %v", e.BaseTileID, e.Err)
}

func (e *MalformedDescriptorError) Unwrap() error {
	return e.Err
}
