package app

import (
	"github.com/decker502/tileanim/pkg/config"
	"github.com/decker502/tileanim/pkg/loader"
	"github.com/decker502/tileanim/pkg/tileanim"
)

// DemoMap 生成演示地图
//
// 前几行依次放置所有动画瓦片（按 ID 升序），
// 最后一行放置第一个动画瓦片的各个帧 ID，方便对照静态帧。
func DemoMap(table *tileanim.Table, columns int) [][]int {
	if columns <= 0 {
		columns = config.DefaultViewColumns
	}

	ids := table.BaseTileIDs()
	rows := make([][]int, 0, len(ids)/columns+2)
	for start := 0; start < len(ids); start += columns {
		end := min(start+columns, len(ids))
		row := make([]int, end-start)
		copy(row, ids[start:end])
		rows = append(rows, row)
	}

	if len(ids) > 0 {
		seq, _ := table.Lookup(ids[0])
		row := make([]int, 0, columns)
		for _, f := range seq.Frames() {
			if len(row) == columns {
				break
			}
			row = append(row, f.FrameTileID)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		rows = append(rows, []int{0})
	}
	return rows
}

// resolveFormat 返回配置中实际使用的描述符格式
func resolveFormat(ts config.TilesetConfig) (string, error) {
	if ts.Format == "" || ts.Format == config.FormatAuto {
		return loader.DetectFormat(ts.Path)
	}
	return ts.Format, nil
}
