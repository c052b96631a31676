package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/carsim/internal/control"
	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
)

type countingObserver struct{ steps int }

func (c *countingObserver) OnStep(s physics.State, in physics.Input, t float64) { c.steps++ }

func newTestModel(t *testing.T) (Model, *physics.Car, *countingObserver, *bool) {
	t.Helper()
	car, err := physics.NewCar(physics.DefaultConfig())
	require.NoError(t, err)

	obs := &countingObserver{}
	resets := false
	m := New(Options{
		Car:      car,
		Keyboard: control.NewKeyboard(time.Hour, true),
		Observer: obs,
		OnReset:  func() { resets = true },
		Dt:       1.0 / 30,
		Vehicle:  "sedan",
	})
	return m, car, obs, &resets
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDrive_ThrottleMovesCar(t *testing.T) {
	m, car, obs, _ := newTestModel(t)

	m, _ = update(t, m, keyMsg("w"))
	for i := 0; i < 30; i++ {
		var cmd tea.Cmd
		m, cmd = update(t, m, tickMsg(time.Now()))
		assert.NotNil(t, cmd)
	}

	assert.Greater(t, car.Speed(), 1.0)
	assert.Greater(t, car.Position().X, 0.0)
	assert.InDelta(t, 1.0, m.Time(), 1e-9)
	assert.Equal(t, 30, obs.steps)
	assert.Len(t, m.history, 10)
}

func TestDrive_PauseStopsTicks(t *testing.T) {
	m, car, obs, _ := newTestModel(t)

	m, _ = update(t, m, keyMsg("p"))
	assert.True(t, m.Paused())
	m, _ = update(t, m, tickMsg(time.Now()))

	assert.Equal(t, 0, obs.steps)
	assert.Equal(t, 0.0, m.Time())
	assert.Equal(t, dynamo.Vec2{}, car.Position())
}

func TestDrive_Reset(t *testing.T) {
	m, car, _, resets := newTestModel(t)

	m, _ = update(t, m, keyMsg("w"))
	for i := 0; i < 10; i++ {
		m, _ = update(t, m, tickMsg(time.Now()))
	}
	require.Greater(t, car.Speed(), 0.0)

	m, _ = update(t, m, keyMsg("r"))
	assert.Equal(t, physics.State{}, car.State())
	assert.Equal(t, 0.0, m.Time())
	assert.Empty(t, m.trail)
	assert.True(t, *resets)
}

func TestDrive_HandbrakeAndSteer(t *testing.T) {
	m, car, _, _ := newTestModel(t)

	m, _ = update(t, m, keyMsg(" "))
	m, _ = update(t, m, keyMsg("a"))
	m, _ = update(t, m, tickMsg(time.Now()))

	assert.Equal(t, 1.0, car.Input().Handbrake)
	assert.Equal(t, 1.0, car.Input().Steer)
	assert.Equal(t, 1.0, car.Input().Brake, "brake applies while forward is released")
}

func TestDrive_Quit(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	_, cmd := update(t, m, keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestDrive_View(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	m, _ = update(t, m, keyMsg("w"))
	for i := 0; i < 12; i++ {
		m, _ = update(t, m, tickMsg(time.Now()))
	}

	view := m.View()
	assert.Contains(t, view, "km/h")
	assert.Contains(t, view, "sedan")
	assert.Contains(t, view, "speed km/h")
}

func TestCanvas_PlotCenter(t *testing.T) {
	c := NewCanvas(4, 2, 1)
	c.Center = dynamo.Vec2{X: 10, Y: 10}
	c.Plot(dynamo.Vec2{X: 10, Y: 10})

	lines := strings.Split(c.String(), "\n")
	require.Len(t, lines, 2)
	// dot (4,4) is the top-left dot of cell (2,1)
	assert.Equal(t, rune(0x2801), []rune(lines[1])[2])

	c.Clear()
	assert.NotContains(t, c.String(), string(rune(0x2801)))
}

func TestCanvas_OutOfRangeIgnored(t *testing.T) {
	c := NewCanvas(2, 1, 1)
	c.Plot(dynamo.Vec2{X: 100, Y: -100})
	c.Line(dynamo.Vec2{X: -50}, dynamo.Vec2{X: 50})
	assert.Len(t, []rune(c.String()), 2)
}

func TestDrive_HelpListsBindings(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	view := m.View()
	for _, want := range []string{"throttle", "handbrake", "reset", "quit"} {
		assert.Contains(t, view, want)
	}
	assert.Len(t, keys.FullHelp(), 3)
}
