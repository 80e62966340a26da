package systems

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/decker502/tileanim/pkg/components"
	"github.com/decker502/tileanim/pkg/ecs"
	"github.com/decker502/tileanim/pkg/render"
)

// TileRenderSystem 按 Drawn 中的瓦片 ID 绘制所有图层
//
// 图层按实体 ID 升序绘制，后创建的图层在上面。
type TileRenderSystem struct {
	entityManager *ecs.EntityManager
	atlas         *render.Atlas
	scale         float64

	// ShowIDs 在每个格子左上角显示逻辑 ID，动画瓦片追加当前帧 ID
	ShowIDs bool

	op ebiten.DrawImageOptions // 复用，避免每个格子分配
}

// NewTileRenderSystem 创建瓦片渲染系统
func NewTileRenderSystem(em *ecs.EntityManager, atlas *render.Atlas, scale float64) *TileRenderSystem {
	if scale <= 0 {
		scale = 1
	}
	return &TileRenderSystem{
		entityManager: em,
		atlas:         atlas,
		scale:         scale,
	}
}

// SetAtlas 替换图集
func (s *TileRenderSystem) SetAtlas(atlas *render.Atlas) {
	s.atlas = atlas
}

// CellSize 返回缩放后单个格子的像素尺寸
func (s *TileRenderSystem) CellSize() (int, int) {
	g := s.atlas.Geometry()
	return int(float64(g.TileWidth) * s.scale), int(float64(g.TileHeight) * s.scale)
}

// Draw 绘制所有可见图层
func (s *TileRenderSystem) Draw(screen *ebiten.Image) {
	g := s.atlas.Geometry()
	cellW := float64(g.TileWidth) * s.scale
	cellH := float64(g.TileHeight) * s.scale

	for _, id := range ecs.GetEntitiesWith1[*components.TileLayerComponent](s.entityManager) {
		layer, _ := ecs.GetComponent[*components.TileLayerComponent](s.entityManager, id)
		if layer.Hidden {
			continue
		}

		for row := 0; row < layer.Rows; row++ {
			for col := 0; col < layer.Cols; col++ {
				drawn := layer.At(col, row)
				tile := s.atlas.Tile(drawn)
				if tile == nil {
					continue
				}

				x := layer.OriginX*s.scale + float64(col)*cellW
				y := layer.OriginY*s.scale + float64(row)*cellH

				s.op.GeoM.Reset()
				s.op.GeoM.Scale(s.scale, s.scale)
				s.op.GeoM.Translate(x, y)
				screen.DrawImage(tile, &s.op)

				if s.ShowIDs {
					logical := layer.Tiles[row*layer.Cols+col]
					label := fmt.Sprintf("%d", logical)
					if drawn != logical {
						label = fmt.Sprintf("%d>%d", logical, drawn)
					}
					ebitenutil.DebugPrintAt(screen, label, int(x)+1, int(y))
				}
			}
		}
	}
}
