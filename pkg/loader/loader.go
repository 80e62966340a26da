// Package loader 把各种来源的动画描述符转换为 tileanim.Table
//
// 支持的来源：
//   - Tiled 瓦片集 (.tsx)
//   - YAML 描述符 (.yaml / .yml)
//   - bbolt 资源文件 (.res / .db)，由 tileanim pack 命令生成
package loader

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/decker502/tileanim/internal/tsx"
	"github.com/decker502/tileanim/pkg/config"
	"github.com/decker502/tileanim/pkg/embedded"
	"github.com/decker502/tileanim/pkg/store"
	"github.com/decker502/tileanim/pkg/tileanim"
)

// FromTileset 把瓦片集中的 <animation> 转换为描述符，顺序与文档一致
func FromTileset(ts *tsx.Tileset) []tileanim.SequenceDescriptor {
	animated := ts.AnimatedTiles()
	out := make([]tileanim.SequenceDescriptor, 0, len(animated))
	for _, tile := range animated {
		frames := make([]tileanim.FrameDescriptor, len(tile.Animation.Frames))
		for i, f := range tile.Animation.Frames {
			frames[i] = tileanim.FrameDescriptor{
				FrameTileID: f.TileID,
				DurationMs:  int64(f.Duration),
			}
		}
		out = append(out, tileanim.SequenceDescriptor{
			BaseTileID: tile.ID,
			Frames:     frames,
		})
	}
	return out
}

// FromDescriptorFile 把 YAML 描述符转换为 Build 的输入
func FromDescriptorFile(df *config.DescriptorFile) []tileanim.SequenceDescriptor {
	out := make([]tileanim.SequenceDescriptor, 0, len(df.Animations))
	for _, anim := range df.Animations {
		frames := make([]tileanim.FrameDescriptor, len(anim.Frames))
		for i, f := range anim.Frames {
			frames[i] = tileanim.FrameDescriptor{
				FrameTileID: int(f[0]),
				DurationMs:  f[1],
			}
		}
		out = append(out, tileanim.SequenceDescriptor{
			BaseTileID: anim.Tile,
			Frames:     frames,
		})
	}
	return out
}

// ToDescriptorFile 把动画表导出为 YAML 描述符（按基础瓦片 ID 升序）
func ToDescriptorFile(name string, table *tileanim.Table) *config.DescriptorFile {
	df := &config.DescriptorFile{Tileset: name}
	for _, d := range table.Descriptors() {
		entry := config.AnimationEntry{
			Tile:   d.BaseTileID,
			Frames: make([][2]int64, len(d.Frames)),
		}
		for i, f := range d.Frames {
			entry.Frames[i] = [2]int64{int64(f.FrameTileID), f.DurationMs}
		}
		df.Animations = append(df.Animations, entry)
	}
	return df
}

// DetectFormat 根据扩展名判断描述符格式
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx":
		return config.FormatTSX, nil
	case ".yaml", ".yml":
		return config.FormatYAML, nil
	case ".res", ".db", ".bolt":
		return config.FormatBolt, nil
	}
	return "", fmt.Errorf("cannot detect descriptor format of '%s'", path)
}

// LoadDescriptors 读取描述符
//
// 参数：
//   - path: 描述符文件路径
//   - format: config.FormatAuto / FormatTSX / FormatYAML / FormatBolt
//   - tableName: bolt 资源文件中的表名，为空时要求文件中只有一张表
func LoadDescriptors(path, format, tableName string) ([]tileanim.SequenceDescriptor, error) {
	if format == "" || format == config.FormatAuto {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	switch format {
	case config.FormatTSX:
		data, err := embedded.ReadLocalFirst(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read tileset file '%s': %w", path, err)
		}
		ts, err := tsx.ParseTSXBytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse '%s': %w", path, err)
		}
		return FromTileset(ts), nil

	case config.FormatYAML:
		df, err := config.LoadDescriptorFile(path)
		if err != nil {
			return nil, err
		}
		return FromDescriptorFile(df), nil

	case config.FormatBolt:
		return loadFromStore(path, tableName)
	}

	return nil, fmt.Errorf("unknown descriptor format '%s'", format)
}

func loadFromStore(path, tableName string) ([]tileanim.SequenceDescriptor, error) {
	s, err := store.Open(path, true)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if tableName == "" {
		names, err := s.ListTables()
		if err != nil {
			return nil, err
		}
		if len(names) != 1 {
			return nil, fmt.Errorf("resource file '%s' holds %d tables, a table name is required", path, len(names))
		}
		tableName = names[0]
	}

	return s.LoadDescriptors(tableName)
}

// LoadTable 读取描述符并构建动画表
func LoadTable(path, format, tableName string) (*tileanim.Table, error) {
	descriptors, err := LoadDescriptors(path, format, tableName)
	if err != nil {
		return nil, err
	}

	table, err := tileanim.Build(descriptors)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}

	log.Printf("[Loader] 加载动画表 %s: %d 个动画瓦片", path, table.Len())
	return table, nil
}

// LoadFromConfig 按引擎配置加载动画表
func LoadFromConfig(cfg config.TilesetConfig) (*tileanim.Table, error) {
	return LoadTable(cfg.Path, cfg.Format, cfg.Table)
}
