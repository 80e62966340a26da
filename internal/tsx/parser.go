package tsx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// ParseTSX decodes a tileset from r.
//
// Returns:
//   - *Tileset: The parsed tileset
//   - error: Decoding error, or nil if successful
func ParseTSX(r io.Reader) (*Tileset, error) {
	var ts Tileset
	if err := xml.NewDecoder(r).Decode(&ts); err != nil {
		return nil, fmt.Errorf("failed to parse tileset XML: %w", err)
	}
	return &ts, nil
}

// ParseTSXBytes decodes a tileset from an in-memory document,
// e.g., one read from the embedded data FS.
func ParseTSXBytes(data []byte) (*Tileset, error) {
	return ParseTSX(bytes.NewReader(data))
}

// ParseTSXFile parses a Tiled .tsx file from disk.
//
// Parameters:
//   - path: Path to the tileset file, e.g., "data/tileset.tsx"
//
// Example:
//
//	ts, err := ParseTSXFile("data/tileset.tsx")
//	if err != nil {
//	    log.Fatalf("Failed to parse tileset: %v", err)
//	}
//	fmt.Printf("Animated tiles: %d\n", len(ts.AnimatedTiles()))
func ParseTSXFile(path string) (*Tileset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tileset file '%s': %w", path, err)
	}

	ts, err := ParseTSXBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse '%s': %w", path, err)
	}
	return ts, nil
}
