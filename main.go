package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/tileanim/pkg/app"
	"github.com/decker502/tileanim/pkg/embedded"
)

var (
	configPath  = flag.String("config", "data/tileanim.yaml", "引擎配置文件路径")
	tilesetPath = flag.String("tileset", "", "覆盖配置中的动画描述符路径（.tsx / .yaml / .res）")
	verbose     = flag.Bool("verbose", false, "详细日志")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	viewer, err := app.NewApp(app.Config{
		Verbose:     *verbose,
		ConfigPath:  *configPath,
		TilesetPath: *tilesetPath,
	})
	if err != nil {
		// 非 verbose 模式下 log 已被静默
		fmt.Fprintf(os.Stderr, "预览器初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer viewer.Close()

	w, h := viewer.ScreenSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("瓦片动画预览")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		viewer.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
