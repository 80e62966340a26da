package render

import (
	"image"
	"testing"

	"github.com/decker502/tileanim/internal/tsx"
)

func TestGeometryTileRect(t *testing.T) {
	g := DefaultGeometry

	tests := []struct {
		name string
		id   int
		want image.Rectangle
		ok   bool
	}{
		{"第一个瓦片", 0, image.Rect(0, 0, 16, 16), true},
		{"第一行末尾", 25, image.Rect(400, 0, 416, 16), true},
		{"换行", 26, image.Rect(0, 16, 16, 32), true},
		{"瓦片 68", 68, image.Rect(256, 32, 272, 48), true},
		{"最后一个瓦片", 519, image.Rect(400, 304, 416, 320), true},
		{"越界", 520, image.Rectangle{}, false},
		{"负数", -1, image.Rectangle{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.TileRect(tt.id)
			if ok != tt.ok || got != tt.want {
				t.Errorf("TileRect(%d) = %v, %v; 期望 %v, %v", tt.id, got, ok, tt.want, tt.ok)
			}
		})
	}

	if g.Rows() != 20 {
		t.Errorf("Rows() 期望 20，实际 %d", g.Rows())
	}
}

func TestGeometryFromTileset(t *testing.T) {
	g := GeometryFromTileset(&tsx.Tileset{TileWidth: 8, TileHeight: 12, Columns: 4, TileCount: 10})
	if g != (Geometry{TileWidth: 8, TileHeight: 12, Columns: 4, TileCount: 10}) {
		t.Errorf("几何参数不符: %+v", g)
	}
	if g.Rows() != 3 {
		t.Errorf("Rows() 期望 3，实际 %d", g.Rows())
	}

	// 缺失字段使用默认值
	g = GeometryFromTileset(&tsx.Tileset{})
	if g.TileWidth != 16 || g.TileHeight != 16 || g.Columns != 26 || g.TileCount != 520 {
		t.Errorf("默认几何参数不符: %+v", g)
	}
}

func TestPlaceholderImage(t *testing.T) {
	g := Geometry{TileWidth: 4, TileHeight: 4, Columns: 3, TileCount: 5}
	img := PlaceholderImage(g)

	if img.Bounds() != image.Rect(0, 0, 12, 8) {
		t.Fatalf("图片尺寸不符: %v", img.Bounds())
	}

	// 瓦片内部为占位颜色
	want := toRGBA(PlaceholderColor(4))
	if got := img.RGBAAt(4+1, 4+1); got != want {
		t.Errorf("瓦片 4 内部颜色期望 %v，实际 %v", want, got)
	}
	// 边框颜色与内部不同
	if img.RGBAAt(4, 4) == want {
		t.Error("瓦片边框不应与内部同色")
	}
	// 不存在的瓦片 (id 5) 保持透明
	if img.RGBAAt(9, 5).A != 0 {
		t.Error("超出 TileCount 的格子应保持透明")
	}
}

func TestPlaceholderColorDistinct(t *testing.T) {
	for id := 0; id < 64; id++ {
		a, b := toRGBA(PlaceholderColor(id)), toRGBA(PlaceholderColor(id+1))
		if a == b {
			t.Errorf("相邻瓦片 %d/%d 颜色相同: %v", id, id+1, a)
		}
	}
}
