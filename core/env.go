package core

import (
	"context"
	"errors"
)

var (
	ErrInvalidAction         = errors.New("invalid action")
	ErrNotReset              = errors.New("environment not reset")
	ErrClosed                = errors.New("environment closed")
	ErrUnknownEnvironment    = errors.New("unknown environment")
	ErrUnsupportedRenderMode = errors.New("unsupported render mode")
)

// Observation is whatever the environment reports as its current state.
// The driver never inspects it.
type Observation interface{}

// Action is a value drawn from an environment's action space.
type Action interface{}

// Info carries auxiliary diagnostics returned alongside observations.
type Info map[string]interface{}

type StepResult struct {
	Observation Observation
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        Info
}

// Done reports whether the episode is over
func (r StepResult) Done() bool {
	return r.Terminated || r.Truncated
}

type Environment interface {
	// Reset starts a new episode and returns the initial observation.
	Reset() (Observation, Info, error)
	Step(Action) (StepResult, error)
	ActionSpace() Space
	// Close releases the environment. It is called exactly once by the owner.
	Close() error
}

// Renderer is implemented by environments that can draw their current
// state as text.
type Renderer interface {
	Render() (string, error)
}

// Seeder is implemented by environments with their own randomness.
type Seeder interface {
	Seed(uint64)
}

// SeedEnvironment seeds the action space of env and env itself when it
// implements Seeder.
func SeedEnvironment(env Environment, seed uint64) {
	env.ActionSpace().Seed(seed)
	if s, ok := env.(Seeder); ok {
		s.Seed(seed)
	}
}

type RenderMode string

const (
	RenderNone  RenderMode = "none"
	RenderHuman RenderMode = "human"
	RenderANSI  RenderMode = "ansi"
)

type EnvironmentConstructor interface {
	// NewEnvironment creates a new environment rendering in the given mode.
	NewEnvironment(RenderMode) (Environment, error)
	RenderModes() []RenderMode
}

type EpisodeContext struct {
	Context context.Context
	Episode int
	Run     int

	Trace *Trace

	err error
}

func NewEpisodeContext(ctx context.Context) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
		Trace:   NewTrace(),
	}
}

func (e *EpisodeContext) Error(err error) {
	e.err = err
}

func (e *EpisodeContext) Err() error {
	return e.err
}

func (e *EpisodeContext) IsError() bool {
	return e.err != nil
}

type StepContext struct {
	Step int
	*EpisodeContext
}
