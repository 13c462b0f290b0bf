package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/diffdrive/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(100, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1 at cell 0, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8 at cell 1, got %U", c.Grid[0][1])
	}

	c.Clear()
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("canvas not cleared")
	}
}

func TestFitKeepsPointsInside(t *testing.T) {
	points := []Point{{-3, 2}, {5, -1}, {0, 0}, {1, 8}}
	pr := Fit(points, 20, 10)
	for _, p := range points {
		x, y := pr.Project(p)
		if x < 0 || x >= 40 || y < 0 || y >= 40 {
			t.Errorf("point %v projected outside canvas: (%d, %d)", p, x, y)
		}
	}

	// north is up
	_, yLow := pr.Project(Point{0, 0})
	_, yHigh := pr.Project(Point{0, 5})
	if yHigh >= yLow {
		t.Errorf("expected higher y to map to a smaller row: %d >= %d", yHigh, yLow)
	}
}

func TestPathCanvasDegenerate(t *testing.T) {
	c := PathCanvas([]Point{{1, 1}}, 4, 2)
	if strings.Trim(c.String(), "⠀\n") == "" {
		t.Error("single point path should set a dot")
	}
	if PathCanvas(nil, 4, 2) == nil {
		t.Error("empty path should still return a canvas")
	}
}

func samplePlayback() *Playback {
	n := 101
	states := make([]sim.State, n)
	controls := make([]sim.Control, n-1)
	times := make([]float64, n)
	for i := range states {
		states[i] = sim.State{X: float64(i) * 0.01}
		times[i] = float64(i) * 0.01
	}
	for i := range controls {
		controls[i] = sim.Control{Left: 2, Right: 2}
	}
	return NewPlayback("test", states, controls, times)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlaybackAdvances(t *testing.T) {
	p := samplePlayback()
	p.Init()

	start := p.last
	p.Update(tickMsg(start.Add(500 * time.Millisecond)))
	if p.head != 50 {
		t.Errorf("expected head at sample 50 after 0.5s, got %d", p.head)
	}

	p.Update(key("+"))
	p.Update(tickMsg(start.Add(1 * time.Second)))
	if p.head != 100 || p.playing {
		t.Errorf("expected playback to finish, head=%d playing=%v", p.head, p.playing)
	}

	p.Update(key("r"))
	if p.head != 0 || !p.playing {
		t.Error("restart should rewind and resume")
	}
}

func TestPlaybackPause(t *testing.T) {
	p := samplePlayback()
	p.Init()

	p.Update(key(" "))
	if p.playing {
		t.Fatal("space should pause")
	}
	p.Update(tickMsg(p.last.Add(time.Second)))
	if p.head != 0 {
		t.Errorf("paused playback moved to %d", p.head)
	}
	if !strings.Contains(p.View(), "paused") {
		t.Error("view should show paused status")
	}
}

func TestPlaybackQuitAndEnd(t *testing.T) {
	p := samplePlayback()

	p.Update(key("G"))
	if p.head != 100 {
		t.Errorf("G should jump to the end, head=%d", p.head)
	}

	_, cmd := p.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPlaybackEmpty(t *testing.T) {
	p := NewPlayback("empty", nil, nil, nil)
	if !strings.Contains(p.View(), "nothing to replay") {
		t.Error("empty playback should say so")
	}
}
