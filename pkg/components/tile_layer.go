package components

// TileLayerComponent 一层瓦片地图
//
// Tiles 为逻辑瓦片 ID（地图数据中的基础 ID），按行优先存储；
// Drawn 为本帧实际绘制的瓦片 ID，由 TileAnimationSystem 每帧写入。
// 负数表示空格子，不绘制。
type TileLayerComponent struct {
	Cols, Rows int
	Tiles      []int
	Drawn      []int

	// OriginX/OriginY 图层左上角的屏幕坐标（缩放前）
	OriginX, OriginY float64

	// Hidden 为 true 时不绘制，但仍然解析
	Hidden bool
}

// NewTileLayerComponent 根据行列数据创建图层，短行以空格子补齐
func NewTileLayerComponent(rows [][]int) *TileLayerComponent {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}

	layer := &TileLayerComponent{
		Cols:  cols,
		Rows:  len(rows),
		Tiles: make([]int, cols*len(rows)),
		Drawn: make([]int, cols*len(rows)),
	}
	for r, row := range rows {
		for c := 0; c < cols; c++ {
			id := -1
			if c < len(row) {
				id = row[c]
			}
			layer.Tiles[r*cols+c] = id
			layer.Drawn[r*cols+c] = id
		}
	}
	return layer
}

// At 返回 (col, row) 处本帧绘制的瓦片 ID，越界返回 -1
func (l *TileLayerComponent) At(col, row int) int {
	if col < 0 || row < 0 || col >= l.Cols || row >= l.Rows {
		return -1
	}
	return l.Drawn[row*l.Cols+col]
}

// UniqueTiles 返回图层中出现的所有非空逻辑瓦片 ID
func (l *TileLayerComponent) UniqueTiles() []int {
	seen := make(map[int]struct{}, len(l.Tiles))
	out := make([]int, 0)
	for _, id := range l.Tiles {
		if id < 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
