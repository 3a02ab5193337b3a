package engine

import (
	"io"
	"log"
	"time"
)

const (
	DefaultFPS              = 60
	DefaultStopPolls        = 10
	DefaultStopPollInterval = 10 * time.Millisecond
	DefaultMaxFrameDelta    = 500 * time.Millisecond

	maxFPS = 1000
)

// Config tunes the loop. Zero fields fall back to the defaults.
type Config struct {
	FPS int

	// StopPolls and StopPollInterval bound how long Stop waits for the loop
	// to acknowledge.
	StopPolls        int
	StopPollInterval time.Duration

	// MaxFrameDelta caps a measured frame time; longer frames (debugger
	// pauses, suspended processes) advance by one tick period instead.
	MaxFrameDelta time.Duration

	Logger *log.Logger
}

func DefaultConfig() Config {
	return Config{
		FPS:              DefaultFPS,
		StopPolls:        DefaultStopPolls,
		StopPollInterval: DefaultStopPollInterval,
		MaxFrameDelta:    DefaultMaxFrameDelta,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FPS <= 0 {
		c.FPS = d.FPS
	}
	if c.StopPolls <= 0 {
		c.StopPolls = d.StopPolls
	}
	if c.StopPollInterval <= 0 {
		c.StopPollInterval = d.StopPollInterval
	}
	if c.MaxFrameDelta <= 0 {
		c.MaxFrameDelta = d.MaxFrameDelta
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	return c
}

func clampFPS(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxFPS {
		return maxFPS
	}
	return n
}
