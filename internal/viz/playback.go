package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/diffdrive/internal/sim"
)

const (
	canvasWidth  = 60
	canvasHeight = 20
	frameRate    = 30

	// maxPathPoints bounds the polyline drawn each frame.
	maxPathPoints = 2000
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Playback replays a recorded run in the terminal in real time.
type Playback struct {
	title    string
	states   []sim.State
	controls []sim.Control
	times    []float64

	path   []Point
	stride int
	proj   Projection

	head    int
	speed   float64
	playing bool
	elapsed float64
	last    time.Time
	speeds  []float64
}

// NewPlayback prepares a replay of states sampled at times. controls may
// be shorter than states.
func NewPlayback(title string, states []sim.State, controls []sim.Control, times []float64) *Playback {
	stride := 1
	if len(states) > maxPathPoints {
		stride = (len(states) + maxPathPoints - 1) / maxPathPoints
	}
	path := make([]Point, 0, len(states)/stride+1)
	for i := 0; i < len(states); i += stride {
		path = append(path, Point{X: states[i].X, Y: states[i].Y})
	}

	speeds := make([]float64, 0, len(path))
	for i := 0; i < len(controls); i += stride {
		speeds = append(speeds, (controls[i].Left+controls[i].Right)/2)
	}

	return &Playback{
		title:    title,
		states:   states,
		controls: controls,
		times:    times,
		path:     path,
		stride:   stride,
		proj:     Fit(path, canvasWidth, canvasHeight),
		speed:    1,
		playing:  true,
		speeds:   speeds,
	}
}

func (p *Playback) Init() tea.Cmd {
	p.last = time.Now()
	return tick()
}

func (p *Playback) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return p, tea.Quit
		case " ":
			p.playing = !p.playing
		case "r":
			p.restart()
		case "+", "=":
			p.speed = math.Min(p.speed*2, 64)
		case "-", "_":
			p.speed = math.Max(p.speed/2, 1.0/16)
		case "end", "G":
			p.seek(p.Duration())
		}
		return p, nil
	case tickMsg:
		now := time.Time(msg)
		if p.playing {
			p.seek(p.elapsed + now.Sub(p.last).Seconds()*p.speed)
		}
		p.last = now
		return p, tick()
	}
	return p, nil
}

func (p *Playback) restart() {
	p.head, p.elapsed = 0, 0
	p.playing = true
}

// seek moves the play head to the last sample at or before t.
func (p *Playback) seek(t float64) {
	if len(p.times) == 0 {
		return
	}
	p.elapsed = math.Min(t, p.Duration())
	for p.head < len(p.times)-1 && p.times[p.head+1] <= p.elapsed {
		p.head++
	}
	if p.head == len(p.times)-1 {
		p.playing = false
	}
}

// Duration is the time of the last sample.
func (p *Playback) Duration() float64 {
	if len(p.times) == 0 {
		return 0
	}
	return p.times[len(p.times)-1]
}

func (p *Playback) View() string {
	if len(p.states) == 0 {
		return helpStyle.Render("nothing to replay") + "\n"
	}

	canvas := NewCanvas(canvasWidth, canvasHeight)
	drawn := p.head/p.stride + 1
	if drawn > len(p.path) {
		drawn = len(p.path)
	}
	canvas.DrawPath(p.path[:drawn], p.proj)

	x := p.states[p.head]
	p.drawRobot(canvas, x)

	var u sim.Control
	if p.head < len(p.controls) {
		u = p.controls[p.head]
	}

	status := statusRunning.Render("▶ playing")
	if !p.playing {
		status = statusPaused.Render("⏸ paused")
	}

	rows := []string{
		titleStyle.Render(p.title),
		status + fmt.Sprintf("  x%g", p.speed),
		"",
		stat("time", fmt.Sprintf("%.3f / %.3f s", p.times[p.head], p.Duration())),
		stat("x", fmt.Sprintf("%+.4f m", x.X)),
		stat("y", fmt.Sprintf("%+.4f m", x.Y)),
		stat("theta", fmt.Sprintf("%+.2f°", x.Theta*180/math.Pi)),
		stat("phi_l", fmt.Sprintf("%+.3f rad/s", u.Left)),
		stat("phi_r", fmt.Sprintf("%+.3f rad/s", u.Right)),
		"",
		ProgressBar(p.progress(), 28),
		Sparkline(p.speeds, 28),
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(pathStyle.Render(strings.TrimRight(canvas.String(), "\n"))),
		statsStyle.Render(strings.Join(rows, "\n")),
	)
	help := helpStyle.Render("space pause · +/- speed · r restart · G end · q quit")
	return body + "\n" + help + "\n"
}

func (p *Playback) progress() float64 {
	if p.Duration() == 0 {
		return 1
	}
	return p.times[p.head] / p.Duration()
}

// drawRobot marks the current position with a short heading tick.
func (p *Playback) drawRobot(c *Canvas, x sim.State) {
	px, py := p.proj.Project(Point{X: x.X, Y: x.Y})
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			c.Set(px+dx, py+dy)
		}
	}
	sin, cos := math.Sincos(x.Theta)
	c.DrawLine(px, py, px+int(math.Round(4*cos)), py-int(math.Round(4*sin)))
}

func stat(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// Run starts the playback program on the terminal.
func (p *Playback) Run() error {
	_, err := tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}
