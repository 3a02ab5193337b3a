// Package engine drives a physics.Scene from a dedicated goroutine.
//
// The loop is a small state machine (Stopped, Running, SingleStepPending)
// controlled through Flip, Step and Stop. Commands are queued on a channel
// and applied by the loop between ticks, never during one. Stop waits a
// bounded time for the loop to acknowledge; a true result means no tick is
// in flight and none will start until the next Flip or Step.
//
// Every access to the scene is serialized by one mutex. The loop holds it for
// a whole tick plus observer notification; foreground code goes through
// Mutate and Snapshot:
//
//	eng := engine.New(scene, engine.DefaultConfig())
//	defer eng.Close()
//
//	eng.Flip()
//	_ = eng.Mutate(func(sc *physics.Scene) error {
//	    _, err := physics.SpawnAt(sc, vmath.New(0, 5, 0), physics.DefaultTuning())
//	    return err
//	})
//	view := eng.Snapshot()
//
// Headless callers that need deterministic results leave the loop stopped
// and call Advance.
package engine
