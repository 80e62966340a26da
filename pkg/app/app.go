// Package app 提供瓦片动画预览器的 ebiten.Game 实现
//
// 预览器加载引擎配置和动画表，在窗口中绘制演示地图，
// 支持快照保存/恢复和描述符文件热重载。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/fogleman/ease"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/tileanim/internal/tsx"
	"github.com/decker502/tileanim/pkg/components"
	"github.com/decker502/tileanim/pkg/config"
	"github.com/decker502/tileanim/pkg/ecs"
	"github.com/decker502/tileanim/pkg/embedded"
	"github.com/decker502/tileanim/pkg/game"
	"github.com/decker502/tileanim/pkg/render"
	"github.com/decker502/tileanim/pkg/systems"
	"github.com/decker502/tileanim/pkg/tileanim"
)

// 状态栏
const (
	statusBarHeight = 28
	toastSeconds    = 2.0
)

// Config 定义预览器启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 引擎配置文件路径
	ConfigPath string
	// TilesetPath 覆盖配置中的描述符路径（可选）
	TilesetPath string
}

// App 预览器，实现 ebiten.Game 接口
type App struct {
	cfg *config.EngineConfig

	entityManager *ecs.EntityManager
	anim          *game.AnimManager
	animSystem    *systems.TileAnimationSystem
	renderSystem  *systems.TileRenderSystem
	snapshots     *game.SnapshotManager
	watcher       *game.ReloadWatcher

	deltaTime float64
	paused    bool

	screenW, screenH int

	toast     string
	toastLeft float64
	toastImg  *ebiten.Image
}

// NewApp 创建并初始化预览器
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	engineCfg, err := config.LoadEngineConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("引擎配置加载失败: %w", err)
	}
	if cfg.TilesetPath != "" {
		engineCfg.Tileset.Path = cfg.TilesetPath
		engineCfg.Tileset.Format = config.FormatAuto
	}

	// 演示地图需要先知道动画表，先不带存活集合加载一次
	anim, err := game.NewAnimManagerFromConfig(engineCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("动画表加载失败: %w", err)
	}

	em := ecs.NewEntityManager()
	rows := engineCfg.View.Map
	if len(rows) == 0 {
		rows = DemoMap(anim.Tracker().Table(), engineCfg.View.Columns)
	}
	layerEntity := em.CreateEntity()
	layer := components.NewTileLayerComponent(rows)
	em.AddComponent(layerEntity, layer)

	if engineCfg.Tracker.LiveOnly {
		anim.Tracker().SetLiveTiles(systems.LiveTiles(em))
	}

	atlas := loadAtlas(engineCfg.Tileset)

	renderSystem := systems.NewTileRenderSystem(em, atlas, engineCfg.View.Scale)
	renderSystem.ShowIDs = engineCfg.View.ShowIDs

	snapshots, err := game.OpenSnapshotManager(engineCfg.Snapshot.AppName)
	if err != nil {
		log.Printf("[App] 快照存储不可用，仅保存到内存: %v", err)
	}

	a := &App{
		cfg:           engineCfg,
		entityManager: em,
		anim:          anim,
		animSystem:    systems.NewTileAnimationSystem(em, anim),
		renderSystem:  renderSystem,
		snapshots:     snapshots,
		deltaTime:     1.0 / float64(engineCfg.Clock.TPS),
	}

	cellW, cellH := renderSystem.CellSize()
	a.screenW = max(layer.Cols*cellW, 320)
	a.screenH = layer.Rows*cellH + statusBarHeight

	if engineCfg.Reload.Enabled {
		a.watcher = game.NewReloadWatcher(
			time.Duration(engineCfg.Reload.DebounceMs)*time.Millisecond,
			func(string) {
				// 新表在下一次 Update 时生效，失败时保留旧表
				_ = anim.ReloadFromConfig()
			},
		)
		if err := a.watcher.Watch(engineCfg.Tileset.Path); err != nil {
			log.Printf("[App] 无法监听 %s，热重载已禁用: %v", engineCfg.Tileset.Path, err)
			a.watcher = nil
		}
	}

	a.animSystem.Refresh()
	log.Printf("[App] 预览器初始化完成: 地图 %dx%d, %d 个动画瓦片", layer.Cols, layer.Rows, anim.Tracker().Table().Len())
	return a, nil
}

// loadAtlas 加载图集，未配置或加载失败时使用占位图集
func loadAtlas(ts config.TilesetConfig) *render.Atlas {
	geometry := render.DefaultGeometry
	if format, _ := resolveFormat(ts); format == config.FormatTSX {
		if data, err := embedded.ReadLocalFirst(ts.Path); err == nil {
			if parsed, err := tsx.ParseTSXBytes(data); err == nil {
				geometry = render.GeometryFromTileset(parsed)
			}
		}
	}

	if ts.Image != "" {
		atlas, err := render.LoadAtlas(ts.Image, geometry)
		if err == nil {
			return atlas
		}
		log.Printf("[App] 图集加载失败，使用占位图集: %v", err)
	}
	return render.NewPlaceholderAtlas(geometry)
}

// Close 停止热重载监听
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
}

// Update 更新预览器逻辑
// 每个 tick 调用一次
func (a *App) Update() error {
	a.handleInput()

	if a.paused {
		// 暂停时仍然应用热重载暂存的新表
		a.animSystem.Update(0)
	} else {
		a.animSystem.Update(a.deltaTime)
	}

	if a.toastLeft > 0 {
		a.toastLeft -= a.deltaTime
	}
	return nil
}

func (a *App) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.renderSystem.ShowIDs = !a.renderSystem.ShowIDs
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		a.saveSnapshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		a.loadSnapshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := a.anim.ReloadFromConfig(); err != nil {
			a.showToast("重载失败: " + err.Error())
		} else {
			a.showToast("已重新加载动画表")
		}
	}
}

func (a *App) saveSnapshot() {
	slot := a.cfg.Snapshot.Slot
	if err := a.snapshots.Save(slot, a.anim.Snapshot()); err != nil {
		log.Printf("[App] 保存快照失败: %v", err)
		a.showToast("保存失败")
		return
	}
	a.showToast(fmt.Sprintf("快照已保存 (%s)", slot))
}

func (a *App) loadSnapshot() {
	slot := a.cfg.Snapshot.Slot
	snap, ok, err := a.snapshots.Load(slot)
	if err != nil {
		log.Printf("[App] 读取快照失败: %v", err)
		a.showToast("读取失败")
		return
	}
	if !ok {
		a.showToast("没有快照")
		return
	}
	a.anim.Restore(snap)
	a.animSystem.Refresh()
	a.showToast(fmt.Sprintf("已恢复快照 clock=%dms", snap.ClockMs))
}

func (a *App) showToast(msg string) {
	a.toast = msg
	a.toastLeft = toastSeconds
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 24, B: 32, A: 255})
	a.renderSystem.Draw(screen)
	a.drawStatus(screen)
}

func (a *App) drawStatus(screen *ebiten.Image) {
	y := a.screenH - statusBarHeight + 2
	ebitenutil.DebugPrintAt(screen, StatusLine(a.anim.Tracker(), a.paused), 4, y)

	if a.toastLeft <= 0 || a.toast == "" {
		return
	}
	if a.toastImg == nil {
		a.toastImg = ebiten.NewImage(a.screenW, 16)
	}
	a.toastImg.Clear()
	ebitenutil.DebugPrintAt(a.toastImg, a.toast, 4, 0)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, float64(y+12))
	op.ColorScale.ScaleAlpha(float32(ToastAlpha(a.toastLeft)))
	screen.DrawImage(a.toastImg, op)
}

// ToastAlpha 提示文字的透明度：最后 0.5 秒淡出
func ToastAlpha(secondsLeft float64) float64 {
	const fade = 0.5
	if secondsLeft >= fade {
		return 1
	}
	if secondsLeft <= 0 {
		return 0
	}
	return ease.OutQuad(secondsLeft / fade)
}

// StatusLine 状态栏文字
func StatusLine(tr *tileanim.Tracker, paused bool) string {
	stats := tr.Clock().Stats()
	line := fmt.Sprintf("t=%dms live=%d/%d clamped=%d ignored=%d",
		tr.Clock().Now(), tr.LiveCount(), tr.Table().Len(), stats.Clamped, stats.Ignored)
	if paused {
		line += " [PAUSED]"
	}
	return line
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.screenW, a.screenH
}

// ScreenSize 返回建议的窗口尺寸
func (a *App) ScreenSize() (int, int) {
	return a.screenW, a.screenH
}
