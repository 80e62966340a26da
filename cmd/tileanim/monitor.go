package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/decker502/tileanim/pkg/config"
	"github.com/decker502/tileanim/pkg/game"
	"github.com/decker502/tileanim/pkg/render"
	"github.com/decker502/tileanim/pkg/tileanim"
)

// 每个格子 "基础ID>帧ID" 的宽度
const cellWidth = 10

func newMonitorCmd() *cobra.Command {
	var (
		src       sourceFlags
		tps       int
		maxStepMs int64
		duration  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "monitor <source>",
		Short: "Watch animations advance in the terminal",
		Long: `Show every animated tile and the frame it currently displays.

Keys: space pause, s save snapshot, l restore snapshot, r reload, q/Esc quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := config.TilesetConfig{Path: args[0], Format: src.format, Table: src.table}
			cfg := config.DefaultEngineConfig()
			cfg.Tileset = source
			cfg.Clock.MaxStepMs = &maxStepMs

			anim, err := game.NewAnimManagerFromConfig(cfg, nil)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			m := newMonitor(screen, anim)
			return m.run(tps, duration)
		},
	}

	src.register(cmd)
	cmd.Flags().IntVar(&tps, "tps", config.DefaultTPS, "Ticks per second")
	cmd.Flags().Int64Var(&maxStepMs, "max-step", tileanim.DefaultMaxStepMs, "Maximum milliseconds per tick (0 disables clamping)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Exit after this long (0 runs until quit)")
	return cmd
}

// monitor 终端监视器
type monitor struct {
	screen    tcell.Screen
	anim      *game.AnimManager
	snapshots *game.SnapshotManager

	paused  bool
	message string
}

func newMonitor(screen tcell.Screen, anim *game.AnimManager) *monitor {
	return &monitor{
		screen:    screen,
		anim:      anim,
		snapshots: game.NewSnapshotManager(nil),
	}
}

func (m *monitor) run(tps int, duration time.Duration) error {
	if tps <= 0 {
		tps = config.DefaultTPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	var deadline <-chan time.Time
	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		deadline = timer.C
	}

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := m.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	last := time.Now()
	m.draw()
	for {
		select {
		case ev := <-eventChan:
			if !m.handleEvent(ev) {
				return nil
			}
			m.draw()

		case now := <-ticker.C:
			delta := now.Sub(last).Seconds()
			last = now
			if m.paused {
				delta = 0
			}
			m.anim.Update(delta)
			m.draw()

		case <-deadline:
			return nil
		}
	}
}

// handleEvent 处理终端事件，返回 false 表示退出
func (m *monitor) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return m.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		m.screen.Sync()
	}
	return true
}

// handleKey 处理按键，返回 false 表示退出
func (m *monitor) handleKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyEscape || key == tcell.KeyCtrlC {
		return false
	}
	if key != tcell.KeyRune {
		return true
	}

	switch r {
	case 'q':
		return false
	case ' ':
		m.paused = !m.paused
	case 's':
		if err := m.snapshots.Save("monitor", m.anim.Snapshot()); err != nil {
			m.message = err.Error()
		} else {
			m.message = fmt.Sprintf("saved at %dms", m.anim.Tracker().Clock().Now())
		}
	case 'l':
		if snap, ok, _ := m.snapshots.Load("monitor"); ok {
			m.anim.Restore(snap)
			m.message = fmt.Sprintf("restored %dms", snap.ClockMs)
		} else {
			m.message = "no snapshot"
		}
	case 'r':
		if err := m.anim.ReloadFromConfig(); err != nil {
			m.message = "reload failed: " + err.Error()
		} else {
			m.message = "reload staged"
		}
	}
	return true
}

func (m *monitor) draw() {
	m.screen.Clear()
	width, height := m.screen.Size()

	tracker := m.anim.Tracker()
	stats := tracker.Clock().Stats()
	header := fmt.Sprintf("t=%dms  tiles=%d  clamped=%d (-%dms)  ignored=%d",
		tracker.Clock().Now(), tracker.Table().Len(), stats.Clamped, stats.DroppedMs, stats.Ignored)
	if m.paused {
		header += "  [PAUSED]"
	}
	m.putString(0, 0, header, tcell.StyleDefault.Bold(true))

	resolver := m.anim.Resolver()
	columns := max(width/cellWidth, 1)
	for i, id := range tracker.Table().BaseTileIDs() {
		x := (i % columns) * cellWidth
		y := 2 + i/columns
		if y >= height-1 {
			break
		}
		frame := resolver.Resolve(id)
		r, g, b := render.PlaceholderColor(frame).RGB255()
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		m.putString(x, y, fmt.Sprintf("%d>%d", id, frame), style)
	}

	if m.message != "" {
		m.putString(0, height-1, m.message, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}
	m.screen.Show()
}

func (m *monitor) putString(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		m.screen.SetContent(x+i, y, r, nil, style)
	}
}
