package core

import (
	"errors"
	"fmt"
	"sync"
)

var errFault = errors.New("emulator fault")

// scriptedEnv replays a fixed sequence of step results and records every
// call made to it.
type scriptedEnv struct {
	results []StepResult
	// failAt makes the n-th step of an episode (1-based) fail
	failAt     int
	failReset  bool
	closeError error
	frame      string

	space *Discrete
	calls []string
	steps int

	resets   int
	stepsAll int
	closes   int
}

var _ Environment = &scriptedEnv{}

func newScriptedEnv(results ...StepResult) *scriptedEnv {
	space := NewDiscrete(4)
	space.Seed(1)
	return &scriptedEnv{results: results, space: space}
}

// doneAt scripts an episode that is not over for n-1 steps and ends on step n.
func doneAt(n int, truncated bool) []StepResult {
	out := make([]StepResult, n)
	for i := range out {
		out[i] = StepResult{Reward: 1}
	}
	if truncated {
		out[n-1].Truncated = true
	} else {
		out[n-1].Terminated = true
	}
	return out
}

func (e *scriptedEnv) Reset() (Observation, Info, error) {
	e.calls = append(e.calls, "reset")
	e.resets++
	e.steps = 0
	if e.failReset {
		return nil, nil, errFault
	}
	return "initial", Info{"seed": 0}, nil
}

func (e *scriptedEnv) Step(a Action) (StepResult, error) {
	e.calls = append(e.calls, "step")
	e.steps++
	e.stepsAll++
	if !e.space.Contains(a) {
		return StepResult{}, fmt.Errorf("%w: %v", ErrInvalidAction, a)
	}
	if e.failAt > 0 && e.steps == e.failAt {
		return StepResult{}, errFault
	}
	if e.steps > len(e.results) {
		return StepResult{Reward: 0}, nil
	}
	return e.results[e.steps-1], nil
}

func (e *scriptedEnv) ActionSpace() Space {
	return e.space
}

func (e *scriptedEnv) Close() error {
	e.calls = append(e.calls, "close")
	e.closes++
	return e.closeError
}

type renderingEnv struct {
	*scriptedEnv
}

func (e renderingEnv) Render() (string, error) {
	return fmt.Sprintf("frame %d\n", e.steps), nil
}

type scriptedConstructor struct {
	mtx     *sync.Mutex
	doneAt  int
	failAt  int
	modes   []RenderMode
	created []*scriptedEnv
}

func newScriptedConstructor(doneAtStep, failAt int) *scriptedConstructor {
	return &scriptedConstructor{
		mtx:    &sync.Mutex{},
		doneAt: doneAtStep,
		failAt: failAt,
	}
}

func (c *scriptedConstructor) NewEnvironment(_ RenderMode) (Environment, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	env := newScriptedEnv(doneAt(c.doneAt, false)...)
	env.failAt = c.failAt
	c.created = append(c.created, env)
	return env, nil
}

func (c *scriptedConstructor) RenderModes() []RenderMode {
	return c.modes
}

func (c *scriptedConstructor) environments() []*scriptedEnv {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return append([]*scriptedEnv(nil), c.created...)
}

var registerMtx = &sync.Mutex{}

// register is idempotent so tests survive -count > 1.
func register(id string, c EnvironmentConstructor) EnvironmentConstructor {
	registerMtx.Lock()
	defer registerMtx.Unlock()
	if existing, err := Lookup(id); err == nil {
		return existing
	}
	Register(id, c)
	return c
}
