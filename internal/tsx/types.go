// Package tsx provides data structures and a parser for Tiled tileset (.tsx) files.
// Only the parts needed for tile animation are modeled: the tileset geometry,
// its source image, and per-tile <animation> frame lists.
package tsx

// Tileset is the root <tileset> element of a TSX file.
type Tileset struct {
	// Name is the tileset name, e.g., "tileset"
	Name string `xml:"name,attr"`

	// TileWidth and TileHeight are the size of a single tile in pixels
	TileWidth  int `xml:"tilewidth,attr"`
	TileHeight int `xml:"tileheight,attr"`

	// TileCount is the number of tiles in the tileset image
	TileCount int `xml:"tilecount,attr"`

	// Columns is the number of tile columns in the tileset image
	Columns int `xml:"columns,attr"`

	// Image is the atlas image the tile ids index into
	Image Image `xml:"image"`

	// Tiles holds the per-tile definitions. Only tiles with extra data
	// (animations, properties) are listed; most tiles have no entry.
	Tiles []Tile `xml:"tile"`
}

// Image is the <image> element referencing the atlas file.
type Image struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

// Tile is a <tile> element. ID is the local tile id inside the tileset.
type Tile struct {
	ID        int        `xml:"id,attr"`
	Animation *Animation `xml:"animation"`
}

// Animation is the ordered frame list of an animated tile.
// Frame order is playback order; the same tile id may appear several times.
type Animation struct {
	Frames []Frame `xml:"frame"`
}

// Frame is one <frame tileid duration/> entry. Duration is in milliseconds.
type Frame struct {
	TileID   int `xml:"tileid,attr"`
	Duration int `xml:"duration,attr"`
}

// AnimatedTiles returns the tiles that carry an <animation> element,
// in document order.
func (ts *Tileset) AnimatedTiles() []Tile {
	out := make([]Tile, 0, len(ts.Tiles))
	for _, t := range ts.Tiles {
		if t.Animation != nil {
			out = append(out, t)
		}
	}
	return out
}
