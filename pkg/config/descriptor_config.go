package config

import (
	"fmt"

	"github.com/decker502/tileanim/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DescriptorFile YAML 动画描述符文件的顶层结构
//
// 示例：
//
//	tileset: tileset
//	animations:
//	  - tile: 68
//	    name: fountain
//	    frames: [[68, 100], [69, 100], [46, 500]]
type DescriptorFile struct {
	// Tileset 对应的瓦片集名称（仅用于文档）
	Tileset string `yaml:"tileset,omitempty"`

	// Animations 动画列表，顺序不影响结果
	Animations []AnimationEntry `yaml:"animations"`
}

// AnimationEntry 单个基础瓦片的动画
type AnimationEntry struct {
	// Tile 基础瓦片 ID
	Tile int `yaml:"tile"`

	// Name 可读名称（可选）
	Name string `yaml:"name,omitempty"`

	// Frames 帧列表，每项为 [帧瓦片 ID, 持续毫秒]，顺序即播放顺序
	Frames [][2]int64 `yaml:"frames,flow"`
}

// LoadDescriptorFile 加载 YAML 描述符文件（磁盘优先，回退到嵌入资源）
func LoadDescriptorFile(path string) (*DescriptorFile, error) {
	data, err := embedded.ReadLocalFirst(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取描述符文件 %s: %w", path, err)
	}

	df, err := ParseDescriptorYAML(data)
	if err != nil {
		return nil, fmt.Errorf("描述符文件 %s: %w", path, err)
	}
	return df, nil
}

// ParseDescriptorYAML 解析 YAML 描述符
//
// 这里只检查结构；空帧列表、非正时长、重复 ID 由 tileanim.Build 统一报告。
func ParseDescriptorYAML(data []byte) (*DescriptorFile, error) {
	var df DescriptorFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("无法解析 YAML: %w", err)
	}

	for i, anim := range df.Animations {
		if anim.Tile < 0 {
			return nil, fmt.Errorf("动画 #%d 的瓦片 ID 为负数: %d", i, anim.Tile)
		}
		for j, frame := range anim.Frames {
			if frame[0] < 0 {
				return nil, fmt.Errorf("瓦片 %d 第 %d 帧的帧 ID 为负数: %d", anim.Tile, j, frame[0])
			}
		}
	}

	return &df, nil
}

// MarshalDescriptorYAML 序列化描述符
func MarshalDescriptorYAML(df *DescriptorFile) ([]byte, error) {
	data, err := yaml.Marshal(df)
	if err != nil {
		return nil, fmt.Errorf("无法序列化描述符: %w", err)
	}
	return data, nil
}
