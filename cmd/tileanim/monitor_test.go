package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/tileanim/pkg/config"
	"github.com/decker502/tileanim/pkg/game"
	"github.com/decker502/tileanim/pkg/tileanim"
)

func newTestMonitor(t *testing.T) (*monitor, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 12)
	t.Cleanup(screen.Fini)

	table := tileanim.MustBuild([]tileanim.SequenceDescriptor{
		{BaseTileID: 1, Frames: []tileanim.FrameDescriptor{
			{FrameTileID: 10, DurationMs: 100},
			{FrameTileID: 20, DurationMs: 200},
		}},
	})
	anim := game.NewAnimManager(table, config.TilesetConfig{})
	return newMonitor(screen, anim), screen
}

func screenText(screen tcell.SimulationScreen) []string {
	cells, width, height := screen.GetContents()
	lines := make([]string, height)
	for y := 0; y < height; y++ {
		var b strings.Builder
		for x := 0; x < width; x++ {
			runes := cells[y*width+x].Runes
			if len(runes) == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(runes[0])
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return lines
}

func TestMonitorDraw(t *testing.T) {
	m, screen := newTestMonitor(t)

	m.anim.Update(0.125)
	m.draw()

	lines := screenText(screen)
	assert.True(t, strings.HasPrefix(lines[0], "t=125ms"), lines[0])
	assert.Equal(t, "1>20", lines[2])
}

func TestMonitorKeys(t *testing.T) {
	m, screen := newTestMonitor(t)

	m.anim.Update(0.0625)
	assert.True(t, m.handleKey(tcell.KeyRune, 's'))
	assert.Contains(t, m.message, "saved at 62ms")

	m.anim.Update(0.125)
	assert.True(t, m.handleKey(tcell.KeyRune, 'l'))
	assert.Equal(t, int64(62), m.anim.Tracker().Clock().Now())

	assert.True(t, m.handleKey(tcell.KeyRune, ' '))
	assert.True(t, m.paused)
	m.draw()
	assert.Contains(t, screenText(screen)[0], "[PAUSED]")

	assert.False(t, m.handleKey(tcell.KeyRune, 'q'))
	assert.False(t, m.handleKey(tcell.KeyEscape, 0))
}
