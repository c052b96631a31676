// Package tui drives a car interactively from the terminal.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/carsim/internal/control"
	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
	"github.com/san-kum/carsim/internal/sim"
)

const (
	canvasWidth  = 60
	canvasHeight = 20
	canvasScale  = 0.5 // metres per dot
	maxTrail     = 900
	maxHistory   = 60
	historyEvery = 3 // ticks per sparkline sample
)

type Options struct {
	Car      *physics.Car
	Keyboard *control.Keyboard
	// Observer receives every tick, e.g. a transport.Publisher.
	Observer sim.Observer
	// OnReset runs after r restores the initial state.
	OnReset func()
	Dt      float64
	Vehicle string
}

type Model struct {
	car      *physics.Car
	kb       *control.Keyboard
	observer sim.Observer
	onReset  func()
	vehicle  string

	dt      float64
	simTime float64
	ticks   int
	paused  bool
	initial physics.State
	input   physics.Input

	trail   []dynamo.Vec2
	history []float64
	canvas  *Canvas
	help    help.Model

	width, height int
}

func New(opts Options) Model {
	dt := opts.Dt
	if dt <= 0 {
		dt = 1.0 / 30
	}
	return Model{
		car:      opts.Car,
		kb:       opts.Keyboard,
		observer: opts.Observer,
		onReset:  opts.OnReset,
		vehicle:  opts.Vehicle,
		dt:       dt,
		initial:  opts.Car.State(),
		trail:    make([]dynamo.Vec2, 0, maxTrail),
		history:  make([]float64, 0, maxHistory),
		canvas:   NewCanvas(canvasWidth, canvasHeight, canvasScale),
		help:     newHelp(),
	}
}

func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = white
	h.Styles.ShortDesc = keyHint
	h.Styles.ShortSeparator = dim
	return h
}

type tickMsg time.Time

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.dt*float64(time.Second)), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Time is the simulated time since start or the last reset.
func (m Model) Time() float64 { return m.simTime }

func (m Model) Paused() bool { return m.paused }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if !m.paused {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Pause):
		m.paused = !m.paused
		m.kb.ReleaseAll()
	case key.Matches(msg, keys.Reset):
		m.reset()
	case key.Matches(msg, keys.Throttle):
		m.kb.Press(control.KeyForward)
	case key.Matches(msg, keys.Brake):
		m.kb.Press(control.KeyBackward)
	case key.Matches(msg, keys.Left):
		m.kb.Press(control.KeyLeft)
	case key.Matches(msg, keys.Right):
		m.kb.Press(control.KeyRight)
	case key.Matches(msg, keys.Handbrake):
		m.kb.Press(control.KeyHandbrake)
	}
	return m, nil
}

func (m *Model) step() {
	m.input = m.kb.Compute(m.car.State(), m.simTime)
	m.car.SetInput(m.input)
	m.car.Tick(m.dt)
	m.simTime += m.dt
	m.ticks++

	s := m.car.State()
	if m.observer != nil {
		m.observer.OnStep(s, m.input, m.simTime)
	}

	m.trail = append(m.trail, s.Position)
	if len(m.trail) > maxTrail {
		m.trail = m.trail[1:]
	}
	if m.ticks%historyEvery == 0 {
		m.history = append(m.history, kmh(s.Speed))
		if len(m.history) > maxHistory {
			m.history = m.history[1:]
		}
	}
}

func (m *Model) reset() {
	m.car.SetState(m.initial)
	m.car.SetInput(physics.Input{})
	m.kb.ReleaseAll()
	m.input = physics.Input{}
	m.simTime = 0
	m.ticks = 0
	m.trail = m.trail[:0]
	m.history = m.history[:0]
	if m.onReset != nil {
		m.onReset()
	}
}

func kmh(ms float64) float64 { return ms * 3.6 }

func (m Model) View() string {
	hud := m.viewHUD()
	track := panel.Render(m.viewTrack())
	body := lipgloss.JoinHorizontal(lipgloss.Top, track, hud)

	return lipgloss.JoinVertical(lipgloss.Left, body, m.help.View(keys))
}

func (m Model) viewTrack() string {
	s := m.car.State()
	cfg := m.car.Config()

	m.canvas.Clear()
	m.canvas.Center = s.Position
	for _, p := range m.trail {
		m.canvas.Plot(p)
	}
	m.canvas.Body(s.Position, s.Heading, cfg.CGToFront, cfg.CGToRear, cfg.HalfWidth)
	return cyan.Render(m.canvas.String())
}

func (m Model) viewHUD() string {
	s := m.car.State()
	var b strings.Builder

	status := green.Render("driving")
	if m.paused {
		status = yellow.Render("paused")
	}
	b.WriteString(title.Render("carsim") + " " + dim.Render(m.vehicle) + "  " + status + "\n\n")

	row := func(label, value string) {
		b.WriteString(dim.Render(fmt.Sprintf("%-9s", label)) + white.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%7.2f s", m.simTime))
	row("speed", fmt.Sprintf("%7.1f km/h", kmh(s.Speed)))
	row("heading", fmt.Sprintf("%7.1f deg", normalizeDeg(s.Heading*180/math.Pi)))
	row("steer", fmt.Sprintf("%7.1f deg", s.SteerAngle))
	row("yaw rate", fmt.Sprintf("%7.2f rad/s", s.YawRate))
	row("slip r", fmt.Sprintf("%7.1f deg", s.Tires.SlipRear*180/math.Pi))
	row("pos", fmt.Sprintf("%.1f, %.1f", s.Position.X, s.Position.Y))

	b.WriteString("\n")
	b.WriteString(pedal("THR", m.input.Throttle, green) + " ")
	b.WriteString(pedal("BRK", m.input.Brake, red) + " ")
	b.WriteString(pedal("HBK", m.input.Handbrake, yellow) + "\n\n")

	if len(m.history) >= 2 {
		b.WriteString(asciigraph.Plot(m.history,
			asciigraph.Height(5),
			asciigraph.Width(30),
			asciigraph.Precision(0),
			asciigraph.Caption("speed km/h")))
	}
	return panel.Render(b.String())
}

// normalizeDeg wraps an angle to [0, 360) for display only.
func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
