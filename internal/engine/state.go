package engine

// State is the run state of the simulation loop.
type State int32

const (
	Stopped State = iota
	Running
	SingleStepPending
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case SingleStepPending:
		return "step-pending"
	default:
		return "unknown"
	}
}

type command uint8

const (
	cmdFlip command = iota
	cmdStep
	cmdStop
)

// next applies cmd to s. A pending step is subsumed by Running; Step is
// ignored unless the loop is stopped.
func (s State) next(cmd command) State {
	switch cmd {
	case cmdFlip:
		if s == Running {
			return Stopped
		}
		return Running
	case cmdStep:
		if s == Stopped {
			return SingleStepPending
		}
		return s
	case cmdStop:
		return Stopped
	}
	return s
}
