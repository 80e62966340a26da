// Package render 负责把瓦片 ID 映射到图集中的子图
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png" // 支持 PNG 格式图集

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/tileanim/internal/tsx"
	"github.com/decker502/tileanim/pkg/embedded"
)

// Geometry 图集的网格参数
type Geometry struct {
	TileWidth  int
	TileHeight int
	Columns    int
	TileCount  int
}

// DefaultGeometry 没有瓦片集信息时使用的网格（与 data/tileset.tsx 一致）
var DefaultGeometry = Geometry{TileWidth: 16, TileHeight: 16, Columns: 26, TileCount: 520}

// GeometryFromTileset 读取瓦片集的网格参数，缺失字段使用默认值
func GeometryFromTileset(ts *tsx.Tileset) Geometry {
	g := Geometry{
		TileWidth:  ts.TileWidth,
		TileHeight: ts.TileHeight,
		Columns:    ts.Columns,
		TileCount:  ts.TileCount,
	}
	if g.TileWidth <= 0 {
		g.TileWidth = DefaultGeometry.TileWidth
	}
	if g.TileHeight <= 0 {
		g.TileHeight = DefaultGeometry.TileHeight
	}
	if g.Columns <= 0 {
		g.Columns = DefaultGeometry.Columns
	}
	if g.TileCount <= 0 {
		g.TileCount = g.Columns * ((DefaultGeometry.TileCount + g.Columns - 1) / g.Columns)
	}
	return g
}

// TileRect 返回 tileID 在图集中的像素矩形
// tileID 超出范围时返回 false
func (g Geometry) TileRect(tileID int) (image.Rectangle, bool) {
	if tileID < 0 || tileID >= g.TileCount || g.Columns <= 0 {
		return image.Rectangle{}, false
	}
	col := tileID % g.Columns
	row := tileID / g.Columns
	x := col * g.TileWidth
	y := row * g.TileHeight
	return image.Rect(x, y, x+g.TileWidth, y+g.TileHeight), true
}

// Rows 返回图集行数
func (g Geometry) Rows() int {
	return (g.TileCount + g.Columns - 1) / g.Columns
}

// Atlas 瓦片图集
//
// 子图在第一次使用时创建并缓存，之后 Tile 不再分配。
type Atlas struct {
	geometry Geometry
	image    *ebiten.Image
	tiles    []*ebiten.Image
}

// NewAtlas 用已加载的图片创建图集
func NewAtlas(img *ebiten.Image, g Geometry) *Atlas {
	return &Atlas{
		geometry: g,
		image:    img,
		tiles:    make([]*ebiten.Image, g.TileCount),
	}
}

// LoadAtlas 从 PNG 文件加载图集（磁盘优先，回退到嵌入资源）
func LoadAtlas(path string, g Geometry) (*Atlas, error) {
	data, err := embedded.ReadLocalFirst(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read atlas image '%s': %w", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode atlas image '%s': %w", path, err)
	}
	return NewAtlas(ebiten.NewImageFromImage(img), g), nil
}

// NewPlaceholderAtlas 生成占位图集：每个瓦片一个纯色方块
func NewPlaceholderAtlas(g Geometry) *Atlas {
	return NewAtlas(ebiten.NewImageFromImage(PlaceholderImage(g)), g)
}

// Geometry 返回图集网格参数
func (a *Atlas) Geometry() Geometry {
	return a.geometry
}

// Tile 返回 tileID 对应的子图，超出范围返回 nil
func (a *Atlas) Tile(tileID int) *ebiten.Image {
	r, ok := a.geometry.TileRect(tileID)
	if !ok {
		return nil
	}
	if t := a.tiles[tileID]; t != nil {
		return t
	}
	t := a.image.SubImage(r).(*ebiten.Image)
	a.tiles[tileID] = t
	return t
}

// PlaceholderColor 返回 tileID 的占位颜色
// 相邻 ID 的色相相差约 137.5°，连续帧在画面上容易区分
func PlaceholderColor(tileID int) colorful.Color {
	hue := float64(tileID) * 137.508
	for hue >= 360 {
		hue -= 360
	}
	return colorful.Hcl(hue, 0.55, 0.65).Clamped()
}

// PlaceholderImage 生成占位图集的像素数据
// 每个瓦片内部填充占位颜色，四周留 1 像素暗边
func PlaceholderImage(g Geometry) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Columns*g.TileWidth, g.Rows()*g.TileHeight))
	for id := 0; id < g.TileCount; id++ {
		r, _ := g.TileRect(id)
		c := PlaceholderColor(id)
		border := c.BlendLab(colorful.Color{}, 0.6).Clamped()

		draw.Draw(img, r, &image.Uniform{C: toRGBA(border)}, image.Point{}, draw.Src)
		if r.Dx() > 2 && r.Dy() > 2 {
			draw.Draw(img, r.Inset(1), &image.Uniform{C: toRGBA(c)}, image.Point{}, draw.Src)
		}
	}
	return img
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
