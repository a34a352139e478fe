// Package cartpole implements the classic cart-pole balancing task.
package cartpole

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/zeu5/rl-driver/core"
	"github.com/zeu5/rl-driver/envs/render"
)

const (
	gravity    = 9.8
	massCart   = 1.0
	massPole   = 0.1
	totalMass  = massCart + massPole
	length     = 0.5 // half the pole length
	poleMassL  = massPole * length
	forceMag   = 10.0
	tau        = 0.02
	xThreshold = 2.4

	trackWidth = 41
)

var thetaThreshold = 12 * 2 * math.Pi / 360

const (
	ActionPushLeft = iota
	ActionPushRight
)

// State is the observation: cart position and velocity, pole angle and
// angular velocity.
type State [4]float64

type Env struct {
	mode    core.RenderMode
	actions *core.Discrete
	starts  *core.Box
	screen  *render.Screen

	state   State
	over    bool
	started bool
	closed  bool
}

var _ core.Environment = &Env{}

func NewEnv(mode core.RenderMode, out io.Writer) *Env {
	e := &Env{
		mode:    mode,
		actions: core.NewDiscrete(2),
		starts:  core.NewBox([]float64{-0.05, -0.05, -0.05, -0.05}, []float64{0.05, 0.05, 0.05, 0.05}),
	}
	if mode == core.RenderHuman {
		e.screen = render.NewScreen(out)
	}
	return e
}

// Seed makes the initial states of subsequent episodes reproducible.
func (e *Env) Seed(seed uint64) {
	e.starts.Seed(seed)
}

func (e *Env) ActionSpace() core.Space {
	return e.actions
}

func (e *Env) Reset() (core.Observation, core.Info, error) {
	if e.closed {
		return nil, nil, core.ErrClosed
	}
	copy(e.state[:], e.starts.Sample().([]float64))
	e.over = false
	e.started = true
	if err := e.renderHuman(); err != nil {
		return nil, nil, err
	}
	return e.state, core.Info{}, nil
}

func (e *Env) Step(action core.Action) (core.StepResult, error) {
	if e.closed {
		return core.StepResult{}, core.ErrClosed
	}
	if !e.started || e.over {
		return core.StepResult{}, core.ErrNotReset
	}
	if !e.actions.Contains(action) {
		return core.StepResult{}, fmt.Errorf("%w: %v", core.ErrInvalidAction, action)
	}

	x, xDot, theta, thetaDot := e.state[0], e.state[1], e.state[2], e.state[3]
	force := forceMag
	if action.(int) == ActionPushLeft {
		force = -forceMag
	}
	cosTheta, sinTheta := math.Cos(theta), math.Sin(theta)

	temp := (force + poleMassL*thetaDot*thetaDot*sinTheta) / totalMass
	thetaAcc := (gravity*sinTheta - cosTheta*temp) /
		(length * (4.0/3.0 - massPole*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassL*thetaAcc*cosTheta/totalMass

	x += tau * xDot
	xDot += tau * xAcc
	theta += tau * thetaDot
	thetaDot += tau * thetaAcc
	e.state = State{x, xDot, theta, thetaDot}

	e.over = x < -xThreshold || x > xThreshold ||
		theta < -thetaThreshold || theta > thetaThreshold

	if err := e.renderHuman(); err != nil {
		return core.StepResult{}, err
	}
	return core.StepResult{
		Observation: e.state,
		Reward:      1,
		Terminated:  e.over,
		Info:        core.Info{},
	}, nil
}

// Render draws the cart on a one-line track with the pole angle.
func (e *Env) Render() (string, error) {
	if !e.started {
		return "", core.ErrNotReset
	}
	pos := int(math.Round((e.state[0] + xThreshold) / (2 * xThreshold) * (trackWidth - 1)))
	pos = max(0, min(trackWidth-1, pos))
	track := []byte(strings.Repeat("_", trackWidth))
	track[pos] = pole(e.state[2])
	return fmt.Sprintf("|%s|  x=%+.3f theta=%+.3f\n", track, e.state[0], e.state[2]), nil
}

func pole(theta float64) byte {
	switch {
	case theta < -thetaThreshold/3:
		return '\\'
	case theta > thetaThreshold/3:
		return '/'
	}
	return '|'
}

func (e *Env) renderHuman() error {
	if e.screen == nil {
		return nil
	}
	frame, err := e.Render()
	if err != nil {
		return err
	}
	return e.screen.Draw(frame)
}

func (e *Env) Close() error {
	if e.closed {
		return core.ErrClosed
	}
	e.closed = true
	return nil
}

type Constructor struct {
	Out io.Writer
}

var _ core.EnvironmentConstructor = &Constructor{}

func (c *Constructor) NewEnvironment(mode core.RenderMode) (core.Environment, error) {
	return NewEnv(mode, c.Out), nil
}

func (c *Constructor) RenderModes() []core.RenderMode {
	return []core.RenderMode{core.RenderHuman, core.RenderANSI}
}
