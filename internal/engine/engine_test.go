package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/vmath"
)

func dropScene(t *testing.T) *physics.Scene {
	t.Helper()
	sc := physics.NewScene()
	floor, err := physics.Floor()
	if err != nil {
		t.Fatalf("floor: %v", err)
	}
	sc.AddPlane(floor)
	s, err := physics.NewSphere(vmath.New(0, 10, 0), 0.2, 1)
	if err != nil {
		t.Fatalf("sphere: %v", err)
	}
	sc.AddSphere(s)
	return sc
}

func newTestEngine(t *testing.T, sc *physics.Scene) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.FPS = 200
	e := New(sc, cfg)
	t.Cleanup(e.Close)
	return e
}

func TestEngineStartsStopped(t *testing.T) {
	g := NewWithT(t)
	e := newTestEngine(t, dropScene(t))

	g.Expect(e.State()).To(Equal(Stopped))
	g.Consistently(e.Ticks, 50*time.Millisecond).Should(BeZero())
	g.Expect(e.FPS()).To(Equal(200))
}

func TestEngineFlip(t *testing.T) {
	g := NewWithT(t)
	e := newTestEngine(t, dropScene(t))

	e.Flip()
	g.Eventually(e.State).Should(Equal(Running))
	g.Eventually(e.Ticks).Should(BeNumerically(">", 5))

	e.Flip()
	g.Eventually(e.State).Should(Equal(Stopped))
}

func TestEngineStopQuiesces(t *testing.T) {
	g := NewWithT(t)
	e := newTestEngine(t, dropScene(t))

	e.Flip()
	g.Eventually(e.Ticks).Should(BeNumerically(">", 3))

	g.Expect(e.Stop()).To(BeTrue())
	g.Expect(e.State()).To(Equal(Stopped))

	n := e.Ticks()
	g.Consistently(e.Ticks, 100*time.Millisecond).Should(Equal(n))
}

func TestEngineStopWhileStopped(t *testing.T) {
	g := NewWithT(t)
	e := newTestEngine(t, dropScene(t))

	g.Expect(e.Stop()).To(BeTrue())
	g.Expect(e.Stop()).To(BeTrue())
	g.Expect(e.Ticks()).To(BeZero())
}

func TestEngineStep(t *testing.T) {
	g := NewWithT(t)
	e := newTestEngine(t, dropScene(t))

	e.Step()
	g.Eventually(e.Ticks).Should(Equal(uint64(1)))
	g.Consistently(e.Ticks, 50*time.Millisecond).Should(Equal(uint64(1)))
	g.Expect(e.State()).To(Equal(Stopped))
	g.Expect(e.SimTime()).To(BeNumerically("~", 1.0/200, 1e-12))
}

func TestEngineStepIgnoredWhileRunning(t *testing.T) {
	g := NewWithT(t)
	e := newTestEngine(t, dropScene(t))

	e.Flip()
	g.Eventually(e.State).Should(Equal(Running))
	e.Step()
	g.Consistently(e.State, 30*time.Millisecond).Should(Equal(Running))
}

func TestEngineAdvance(t *testing.T) {
	g := NewWithT(t)
	e := newTestEngine(t, dropScene(t))
	e.SetFPS(60)

	g.Expect(e.Advance(60)).To(Succeed())
	g.Expect(e.Ticks()).To(Equal(uint64(60)))
	g.Expect(e.SimTime()).To(BeNumerically("~", 1, 1e-9))

	snap := e.Snapshot()
	g.Expect(snap.Spheres[0].Position.Y()).To(BeNumerically("<", 10))
	g.Expect(snap.Spheres[0].Velocity.Y()).To(BeNumerically("<", 0))

	e.Flip()
	g.Eventually(e.State).Should(Equal(Running))
	g.Expect(e.Advance(1)).To(MatchError(ErrRunning))

	e.Close()
	g.Expect(e.Advance(1)).To(MatchError(ErrClosed))
}

func TestEngineAdvanceIsDeterministic(t *testing.T) {
	g := NewWithT(t)
	a := newTestEngine(t, dropScene(t))
	b := newTestEngine(t, dropScene(t))

	g.Expect(a.Advance(500)).To(Succeed())
	g.Expect(b.Advance(500)).To(Succeed())

	g.Expect(a.Snapshot().Spheres[0].Position).To(Equal(b.Snapshot().Spheres[0].Position))
}

func TestEngineSnapshotIsDeepCopy(t *testing.T) {
	g := NewWithT(t)
	e := newTestEngine(t, dropScene(t))
	g.Expect(e.Mutate(func(sc *physics.Scene) error {
		sc.Spheres[0].ApplyForce(physics.NewForce(vmath.New(1, 0, 0), 2, 0.1))
		sc.Spheres = append(sc.Spheres, nil)
		return nil
	})).To(Succeed())

	snap := e.Snapshot()
	g.Expect(snap.Spheres).To(HaveLen(2))
	g.Expect(snap.Spheres[1]).To(BeNil())
	g.Expect(snap.Spheres[0].Forces).To(HaveLen(2))

	snap.Spheres[0].Position = vmath.New(99, 99, 99)
	snap.Spheres[0].Forces[1].Magnitude = 50

	_ = e.Mutate(func(sc *physics.Scene) error {
		g.Expect(sc.Spheres[0].Position).To(Equal(vmath.New(0, 10, 0)))
		g.Expect(sc.Spheres[0].Forces[1].Magnitude).To(Equal(2.0))
		return nil
	})
}

func TestEngineObserver(t *testing.T) {
	g := NewWithT(t)
	e := newTestEngine(t, dropScene(t))

	var calls int
	var lastTime float64
	e.AddObserver(ObserverFunc(func(sc *physics.Scene, simTime float64) {
		calls++
		lastTime = simTime
	}))

	g.Expect(e.Advance(10)).To(Succeed())
	g.Expect(calls).To(Equal(10))
	g.Expect(lastTime).To(BeNumerically("~", e.SimTime(), 1e-12))
}

func TestEngineSetFPSClamps(t *testing.T) {
	g := NewWithT(t)
	e := newTestEngine(t, dropScene(t))

	e.SetFPS(0)
	g.Expect(e.FPS()).To(Equal(1))
	e.SetFPS(1 << 20)
	g.Expect(e.FPS()).To(Equal(maxFPS))
}

func TestEngineCloseJoins(t *testing.T) {
	g := NewWithT(t)
	e := New(dropScene(t), DefaultConfig())

	e.Flip()
	g.Eventually(e.Ticks).Should(BeNumerically(">", 0))

	done := make(chan struct{})
	go func() {
		e.Close()
		e.Close()
		close(done)
	}()
	g.Eventually(done).Should(BeClosed())

	n := e.Ticks()
	g.Consistently(e.Ticks, 50*time.Millisecond).Should(Equal(n))
	g.Expect(e.Stop()).To(BeTrue())

	e.Flip()
	e.Step()
	g.Expect(e.Ticks()).To(Equal(n))
}

func TestEngineConcurrentMutate(t *testing.T) {
	g := NewWithT(t)
	e := newTestEngine(t, dropScene(t))
	e.Flip()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				p := vmath.New(float64(w*5)-10, 5, float64(i)-12)
				_ = e.Mutate(func(sc *physics.Scene) error {
					_, err := physics.SpawnAt(sc, p, physics.DefaultTuning())
					return err
				})
				_ = e.Snapshot()
			}
		}(w)
	}
	wg.Wait()

	g.Expect(e.Stop()).To(BeTrue())
	var n int
	_ = e.Mutate(func(sc *physics.Scene) error {
		n = sc.Len()
		return nil
	})
	g.Expect(n).To(Equal(101))
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from State
		cmd  command
		want State
	}{
		{Stopped, cmdFlip, Running},
		{Running, cmdFlip, Stopped},
		{SingleStepPending, cmdFlip, Running},
		{Stopped, cmdStep, SingleStepPending},
		{Running, cmdStep, Running},
		{SingleStepPending, cmdStep, SingleStepPending},
		{Running, cmdStop, Stopped},
		{SingleStepPending, cmdStop, Stopped},
	}
	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			if got := tt.from.next(tt.cmd); got != tt.want {
				t.Errorf("%s + %d = %s, want %s", tt.from, tt.cmd, got, tt.want)
			}
		})
	}
}

func TestEngineStopTimeout(t *testing.T) {
	g := NewWithT(t)
	cfg := DefaultConfig()
	cfg.FPS = 200
	cfg.StopPolls = 3
	cfg.StopPollInterval = 5 * time.Millisecond
	e := New(dropScene(t), cfg)

	var block atomic.Bool
	entered := make(chan struct{})
	release := make(chan struct{})
	var releaseOnce sync.Once
	unblock := func() { releaseOnce.Do(func() { close(release) }) }
	t.Cleanup(func() {
		unblock()
		e.Close()
	})

	e.AddObserver(ObserverFunc(func(*physics.Scene, float64) {
		if block.CompareAndSwap(true, false) {
			close(entered)
			<-release
		}
	}))

	e.Flip()
	g.Eventually(e.Ticks).Should(BeNumerically(">", 2))
	block.Store(true)
	g.Eventually(entered).Should(BeClosed())

	g.Expect(e.Stop()).To(BeFalse())
	g.Expect(e.State()).To(Equal(Running))

	unblock()
	g.Eventually(e.State).Should(Equal(Stopped))
	n := e.Ticks()
	g.Consistently(e.Ticks, 50*time.Millisecond).Should(Equal(n))

	g.Expect(e.Stop()).To(BeTrue())
	g.Expect(e.Ticks()).To(Equal(n))
}

func TestEngineClampsLongFrames(t *testing.T) {
	g := NewWithT(t)
	cfg := DefaultConfig()
	cfg.FPS = 100
	cfg.MaxFrameDelta = 20 * time.Millisecond
	e := New(dropScene(t), cfg)
	t.Cleanup(e.Close)

	const slow = 4
	var mu sync.Mutex
	var times []float64
	e.AddObserver(ObserverFunc(func(_ *physics.Scene, simTime float64) {
		mu.Lock()
		times = append(times, simTime)
		n := len(times)
		mu.Unlock()
		if n == slow+1 {
			time.Sleep(60 * time.Millisecond)
		}
	}))
	recorded := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(times)
	}

	e.Flip()
	g.Eventually(recorded).Should(BeNumerically(">=", slow+4))
	g.Expect(e.Stop()).To(BeTrue())

	mu.Lock()
	defer mu.Unlock()
	// The tick after the stalled one measured at least 60ms and advances
	// by one period instead.
	g.Expect(times[slow+1] - times[slow]).To(BeNumerically("~", 0.01, 1e-9))
	for i := 1; i < len(times); i++ {
		g.Expect(times[i] - times[i-1]).To(BeNumerically("<=", 0.02+1e-9))
	}
}
