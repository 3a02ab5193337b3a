package tui

import (
	"fmt"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/engine"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/viz"
	"github.com/san-kum/ballsim/internal/vmath"
)

const (
	historyLen   = 120
	spawnHeight  = 5.0
	spawnTries   = 20
	fpsIncrement = 10
)

type model struct {
	eng    *engine.Engine
	cfg    *config.Config
	preset string
	rng    *rand.Rand

	view   viz.Projection
	camera *viz.Camera
	snap   *physics.Scene

	// editing is what the edit keys change; power and decay shape pushes.
	editing field
	power   float64
	decay   float64

	energy    []float64
	status    string
	statusErr bool

	lastFrame time.Time
	renderFPS float64

	width  int
	height int
}

// New builds the interactive model around a running engine. The caller owns
// the engine and closes it after the program exits.
func New(eng *engine.Engine, cfg *config.Config, preset string) tea.Model {
	return newModel(eng, cfg, preset)
}

func newModel(eng *engine.Engine, cfg *config.Config, preset string) model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return model{
		eng:    eng,
		cfg:    cfg,
		preset: preset,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		view:   viz.Side,
		camera: viz.NewCamera(),
		snap:   eng.Snapshot(),
		power:  cfg.Impulse.Power,
		decay:  cfg.Impulse.Decay,
		energy: make([]float64, 0, historyLen),
		width:  100,
		height: 32,
	}
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(eng *engine.Engine, cfg *config.Config, preset string) error {
	_, err := tea.NewProgram(New(eng, cfg, preset),
		tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

type tickMsg time.Time

func (m model) tick() tea.Cmd {
	fps := m.cfg.RenderFPS
	if fps <= 0 {
		fps = config.DefaultRenderFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd { return m.tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.pick(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
				m.renderFPS = 1 / dt
			}
		}
		m.lastFrame = now
		m.refresh()
		return m, m.tick()
	}
	return m, nil
}

// refresh takes a new snapshot and extends the energy history.
func (m *model) refresh() {
	m.snap = m.eng.Snapshot()
	var ke float64
	for _, s := range m.snap.Spheres {
		if s != nil {
			ke += s.KineticEnergy()
		}
	}
	m.energy = append(m.energy, ke)
	if len(m.energy) > historyLen {
		m.energy = m.energy[len(m.energy)-historyLen:]
	}
}

func (m *model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// quiesced runs fn with the loop stopped, resuming it afterwards if it was
// running. Stop is retried once before giving up.
func (m *model) quiesced(fn func(*physics.Scene) error) error {
	running := m.eng.State() == engine.Running
	if running && !m.eng.Stop() && !m.eng.Stop() {
		return fmt.Errorf("tui: simulation did not stop")
	}
	err := m.eng.Mutate(fn)
	if running {
		m.eng.Flip()
	}
	return err
}

func (m *model) mutate(fn func(*physics.Scene) error) {
	if err := m.eng.Mutate(fn); err != nil {
		m.setError(err)
	}
	m.snap = m.eng.Snapshot()
}

func (m *model) generate() {
	err := m.quiesced(func(sc *physics.Scene) error {
		sc.ClearSpheres()
		for _, s := range physics.GenerateBalls(m.rng, m.cfg.Physics) {
			sc.AddSphere(s)
		}
		return nil
	})
	if err != nil {
		m.setError(err)
		return
	}
	m.snap = m.eng.Snapshot()
	m.setStatus("generated %d balls", m.snap.Len())
}

func (m *model) clearAll() {
	if err := m.quiesced(func(sc *physics.Scene) error {
		sc.ClearSpheres()
		return nil
	}); err != nil {
		m.setError(err)
		return
	}
	m.snap = m.eng.Snapshot()
	m.setStatus("cleared")
}

func (m *model) toggleWalls() {
	var on bool
	m.mutate(func(sc *physics.Scene) error {
		if sc.HasWalls() {
			sc.ClearWalls()
			return nil
		}
		walls, err := physics.StandardWalls()
		if err != nil {
			return err
		}
		sc.AddWalls(walls...)
		on = true
		return nil
	})
	if m.statusErr {
		return
	}
	if on {
		m.setStatus("walls on")
	} else {
		m.setStatus("walls off")
	}
}

// spawn places a ball at a random free spot above the middle of the floor.
func (m *model) spawn() {
	var spawned *physics.Sphere
	m.mutate(func(sc *physics.Scene) error {
		for i := 0; i < spawnTries && spawned == nil; i++ {
			p := vmath.New(m.rng.Float64()*10-5, spawnHeight, m.rng.Float64()*10-5)
			s, err := physics.SpawnAt(sc, p, m.cfg.Physics)
			if err != nil {
				return err
			}
			spawned = s
		}
		return nil
	})
	if m.statusErr {
		return
	}
	if spawned == nil {
		m.setStatus("no room to spawn")
		return
	}
	m.setStatus("spawned ball at %v", spawned.Position)
}

func (m *model) impulse(dir vmath.Vec3) {
	applied := false
	m.mutate(func(sc *physics.Scene) error {
		if _, s := sc.Selected(); s != nil {
			s.ApplyForce(physics.NewForce(dir, m.power, m.decay))
			applied = true
		}
		return nil
	})
	if !applied {
		m.setStatus("select a ball first (tab)")
	}
}

func (m *model) selectNext() {
	var idx int
	m.mutate(func(sc *physics.Scene) error {
		idx = sc.SelectNext()
		return nil
	})
	if idx < 0 {
		m.setStatus("nothing to select")
		return
	}
	m.setStatus("selected ball %d", idx)
}

func (m *model) deleteSelected() {
	var removed bool
	m.mutate(func(sc *physics.Scene) error {
		removed = sc.RemoveSelected()
		return nil
	})
	if removed {
		m.setStatus("deleted selected ball")
	}
}

func (m *model) resetAll() {
	m.mutate(func(sc *physics.Scene) error {
		sc.ResetAll()
		return nil
	})
	m.setStatus("reset all balls")
}

func (m *model) resetSelected() {
	m.mutate(func(sc *physics.Scene) error {
		if _, s := sc.Selected(); s != nil {
			s.Reset()
		}
		return nil
	})
}

func (m *model) changeFPS(delta int) {
	m.eng.SetFPS(m.eng.FPS() + delta)
	m.setStatus("physics fps %d", m.eng.FPS())
}
