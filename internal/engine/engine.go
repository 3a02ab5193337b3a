package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jinzhu/copier"

	"github.com/san-kum/ballsim/internal/physics"
)

// Observer is notified after every tick with the scene lock held. OnTick must
// not call back into the engine.
type Observer interface {
	OnTick(scene *physics.Scene, simTime float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(scene *physics.Scene, simTime float64)

func (f ObserverFunc) OnTick(scene *physics.Scene, simTime float64) { f(scene, simTime) }

// Engine owns a scene and the goroutine that advances it.
type Engine struct {
	cfg Config

	mu        sync.Mutex
	scene     *physics.Scene
	observers []Observer
	simTime   float64

	state atomic.Int32
	fps   atomic.Int64
	ticks atomic.Uint64
	rate  atomic.Int64

	cmds    chan command
	stopAck chan struct{}

	quit      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	wg        sync.WaitGroup
}

// New starts the loop goroutine in the Stopped state.
func New(scene *physics.Scene, cfg Config) *Engine {
	cfg = cfg.withDefaults()
	if scene == nil {
		scene = physics.NewScene()
	}

	e := &Engine{
		cfg:     cfg,
		scene:   scene,
		cmds:    make(chan command, 16),
		stopAck: make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}
	e.fps.Store(int64(clampFPS(cfg.FPS)))

	e.wg.Add(1)
	go e.loop()
	return e
}

func (e *Engine) State() State { return State(e.state.Load()) }

func (e *Engine) FPS() int { return int(e.fps.Load()) }

// SetFPS changes the tick rate; the new period applies from the next tick.
func (e *Engine) SetFPS(n int) {
	e.fps.Store(int64(clampFPS(n)))
}

// Ticks is the total number of ticks executed.
func (e *Engine) Ticks() uint64 { return e.ticks.Load() }

// Rate is the number of loop ticks counted over the last full second.
func (e *Engine) Rate() int { return int(e.rate.Load()) }

func (e *Engine) SimTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.simTime
}

// Flip toggles between Running and Stopped.
func (e *Engine) Flip() { e.send(cmdFlip) }

// Step requests a single fixed tick. It is ignored while running.
func (e *Engine) Step() { e.send(cmdStep) }

// Stop asks the loop to halt and waits for it to acknowledge. It returns
// false when no acknowledgement arrived within StopPolls*StopPollInterval;
// callers must then not assume the scene is quiescent.
func (e *Engine) Stop() bool {
	if e.closed.Load() {
		return true
	}

	select {
	case <-e.stopAck:
	default:
	}
	if !e.send(cmdStop) {
		return true
	}

	poll := time.NewTicker(e.cfg.StopPollInterval)
	defer poll.Stop()
	for i := 0; i < e.cfg.StopPolls; i++ {
		select {
		case <-e.stopAck:
			return true
		case <-e.quit:
			return true
		case <-poll.C:
		}
	}

	select {
	case <-e.stopAck:
		return true
	default:
	}
	e.cfg.Logger.Printf("engine: stop not acknowledged after %v",
		time.Duration(e.cfg.StopPolls)*e.cfg.StopPollInterval)
	return false
}

// Close shuts the loop down and waits for it to exit. It is safe to call
// more than once.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.quit)
	})
	e.wg.Wait()
}

// Mutate runs fn with the scene lock held. All foreground edits to the scene
// or its spheres go through here.
func (e *Engine) Mutate(fn func(*physics.Scene) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.scene)
}

// Snapshot returns a deep copy of the spheres. Planes and walls are
// immutable after construction and are shared.
func (e *Engine) Snapshot() *physics.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := &physics.Scene{
		Spheres: make([]*physics.Sphere, len(e.scene.Spheres)),
		Planes:  append([]*physics.Plane(nil), e.scene.Planes...),
		AABBs:   append([]*physics.AABB(nil), e.scene.AABBs...),
	}
	for i, s := range e.scene.Spheres {
		if s == nil {
			continue
		}
		var c physics.Sphere
		if err := copier.CopyWithOption(&c, s, copier.Option{DeepCopy: true}); err != nil {
			e.cfg.Logger.Printf("engine: snapshot sphere %d: %v", i, err)
			continue
		}
		snap.Spheres[i] = &c
	}
	return snap
}

// AddObserver registers o for every subsequent tick.
func (e *Engine) AddObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// Advance runs n fixed ticks of 1/FPS on the calling goroutine.
func (e *Engine) Advance(n int) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if e.State() == Running {
		return ErrRunning
	}
	dt := 1 / float64(e.FPS())
	for i := 0; i < n; i++ {
		e.tick(dt)
	}
	return nil
}

func (e *Engine) send(cmd command) bool {
	if e.closed.Load() {
		return false
	}
	select {
	case e.cmds <- cmd:
		return true
	case <-e.quit:
		return false
	}
}

func (e *Engine) period() time.Duration {
	return time.Second / time.Duration(e.fps.Load())
}

func (e *Engine) tick(dt float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	Tick(e.scene, dt)
	e.simTime += dt
	e.ticks.Add(1)
	for _, o := range e.observers {
		o.OnTick(e.scene, e.simTime)
	}
}

// apply runs on the loop goroutine between ticks.
func (e *Engine) apply(cmd command) State {
	prev := e.State()
	next := prev.next(cmd)
	e.state.Store(int32(next))

	if cmd == cmdStop {
		select {
		case e.stopAck <- struct{}{}:
		default:
		}
	}
	if next != prev {
		e.cfg.Logger.Printf("engine: %s -> %s", prev, next)
	}
	return next
}

func (e *Engine) loop() {
	defer e.wg.Done()

	timer := time.NewTimer(e.period())
	defer timer.Stop()

	last := time.Now()
	window := last
	var windowTicks int64

	for {
		select {
		case <-e.quit:
			e.cfg.Logger.Printf("engine: loop exited after %d ticks", e.Ticks())
			return

		case cmd := <-e.cmds:
			prev := e.State()
			if next := e.apply(cmd); next == Running && prev != Running {
				last = time.Now()
			}
			continue

		case <-timer.C:
		}

		start := time.Now()
		period := e.period()

		switch e.State() {
		case Running:
			frame := start.Sub(last)
			if frame > e.cfg.MaxFrameDelta {
				frame = period
			}
			e.tick(frame.Seconds())
			windowTicks++
		case SingleStepPending:
			e.tick(1 / float64(e.FPS()))
			e.state.Store(int32(Stopped))
			windowTicks++
		}
		last = start

		if start.Sub(window) >= time.Second {
			e.rate.Store(windowTicks)
			if e.State() == Running {
				e.cfg.Logger.Printf("engine: physics rate %d Hz", windowTicks)
			}
			windowTicks = 0
			window = start
		}

		wait := period - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
	}
}
