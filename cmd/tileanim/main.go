// cmd/tileanim/main.go
// 瓦片动画命令行工具：打包、检查、转换描述符，离线解析帧，终端实时监视
//
// 用法：
//
//	go run ./cmd/tileanim pack data/tileset.tsx build/tiles.res
//	go run ./cmd/tileanim inspect build/tiles.res
//	go run ./cmd/tileanim resolve data/tileset.tsx --at 1650 68 8 1
//	go run ./cmd/tileanim monitor data/tileset.tsx
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
