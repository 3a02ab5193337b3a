package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/vmath"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"

	// liveExtent is the half-width of world space in the plain view.
	liveExtent = 32.0
	liveHeight = 16.0
	trailLen   = 40
)

// LiveRenderer prints a plain side view on every frame. It is an engine
// observer for headless runs where a full-screen program is unwanted.
// OnTick only copies what it needs from the scene; rasterizing and terminal
// writes happen on a goroutine started by Start.
type LiveRenderer struct {
	out       io.Writer
	name      string
	frameRate int
	lastFrame time.Time

	mu     sync.Mutex
	frames chan liveFrame
	done   chan struct{}

	gridMu sync.Mutex
	canvas [][]rune
	trail  []struct{ x, y int }
}

type liveBall struct {
	pos      vmath.Vec3
	selected bool
}

// liveFrame is a copy of the scene state one frame needs.
type liveFrame struct {
	t        float64
	balls    []liveBall
	walls    bool
	sel      bool
	pos, vel vmath.Vec3
}

func NewLiveRenderer(out io.Writer, name string, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       out,
		name:      name,
		frameRate: frameRate,
		canvas:    canvas,
		trail:     make([]struct{ x, y int }, 0, trailLen),
	}
}

func capture(scene *physics.Scene, t float64) liveFrame {
	f := liveFrame{
		t:     t,
		balls: make([]liveBall, 0, scene.Len()),
		walls: scene.HasWalls(),
	}
	for _, s := range scene.Spheres {
		if s == nil {
			continue
		}
		f.balls = append(f.balls, liveBall{pos: s.Position, selected: s.Selected})
	}
	if _, s := scene.Selected(); s != nil {
		f.sel, f.pos, f.vel = true, s.Position, s.Velocity
	}
	return f
}

// OnTick drops the frame when the writer is still busy with the previous one
// or when the renderer is not started.
func (r *LiveRenderer) OnTick(scene *physics.Scene, simTime float64) {
	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	f := capture(scene, simTime)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frames == nil {
		return
	}
	select {
	case r.frames <- f:
	default:
	}
}

func (r *LiveRenderer) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frames != nil {
		return
	}
	r.frames = make(chan liveFrame, 1)
	r.done = make(chan struct{})
	go r.write(r.frames, r.done)
}

// Stop drains pending frames, waits for the writer and restores the cursor.
func (r *LiveRenderer) Stop() {
	r.mu.Lock()
	frames, done := r.frames, r.done
	r.frames, r.done = nil, nil
	r.mu.Unlock()

	if frames == nil {
		return
	}
	close(frames)
	<-done
	fmt.Fprint(r.out, showCursor)
}

func (r *LiveRenderer) write(frames <-chan liveFrame, done chan<- struct{}) {
	defer close(done)
	fmt.Fprint(r.out, hideCursor)
	for f := range frames {
		r.gridMu.Lock()
		r.draw(f)
		text := r.render(f)
		r.gridMu.Unlock()
		fmt.Fprint(r.out, text)
	}
}

// Draw rasterizes the scene into the character grid.
func (r *LiveRenderer) Draw(scene *physics.Scene) {
	f := capture(scene, 0)
	r.gridMu.Lock()
	defer r.gridMu.Unlock()
	r.draw(f)
}

func (r *LiveRenderer) draw(f liveFrame) {
	r.clear()

	gy := r.rowOf(0)
	for x := 0; x < width; x++ {
		r.set(x, gy+1, '=')
	}
	if f.walls {
		for _, wx := range []float64{-30, 30} {
			col := r.colOf(wx)
			for y := r.rowOf(15); y <= gy; y++ {
				r.set(col, y, '|')
			}
		}
	}

	first := true
	for _, b := range f.balls {
		x, y := r.colOf(b.pos.X()), r.rowOf(b.pos.Y())
		if first {
			r.trail = append(r.trail, struct{ x, y int }{x, y})
			if len(r.trail) > trailLen {
				r.trail = r.trail[1:]
			}
			first = false
		}
		c := 'o'
		if b.selected {
			c = 'O'
		}
		r.set(x, y, c)
	}

	for i, pt := range r.trail[:max(len(r.trail)-1, 0)] {
		if r.canvas[clampInt(pt.y, 0, height-1)][clampInt(pt.x, 0, width-1)] != ' ' {
			continue
		}
		if i < len(r.trail)/2 {
			r.set(pt.x, pt.y, '.')
		} else {
			r.set(pt.x, pt.y, ':')
		}
	}
}

func (r *LiveRenderer) colOf(x float64) int {
	return int(math.Round((x + liveExtent) / (2 * liveExtent) * float64(width-1)))
}

func (r *LiveRenderer) rowOf(y float64) int {
	return height - 2 - int(math.Round(y/liveHeight*float64(height-2)))
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

// Frame returns the current grid as text.
func (r *LiveRenderer) Frame() string {
	r.gridMu.Lock()
	defer r.gridMu.Unlock()
	var b strings.Builder
	for _, row := range r.canvas {
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *LiveRenderer) render(f liveFrame) string {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs  balls=%d\n", r.name, f.t, len(f.balls)))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	if f.sel {
		b.WriteString(fmt.Sprintf("  selected pos=%v vel=%v\n", f.pos, f.vel))
	}
	return b.String()
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
