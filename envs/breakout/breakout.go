// Package breakout is a small brick-breaking game on a character grid.
//
// The ball moves one cell per step diagonally, bounces off walls, the
// ceiling, bricks and the paddle, and costs a life when it passes the
// paddle. The action set mirrors the minimal Atari Breakout one.
package breakout

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zeu5/rl-driver/core"
	"github.com/zeu5/rl-driver/envs/render"
)

const (
	ActionNoop = iota
	ActionFire
	ActionRight
	ActionLeft

	numActions
)

var actionNames = []string{"NOOP", "FIRE", "RIGHT", "LEFT"}

func ActionName(a int) string {
	if a < 0 || a >= len(actionNames) {
		return fmt.Sprintf("UNKNOWN(%d)", a)
	}
	return actionNames[a]
}

type Config struct {
	Width       int
	Height      int
	BrickRows   int
	PaddleWidth int
	Lives       int

	// Out receives human rendering. Defaults to stdout.
	Out io.Writer
}

func DefaultConfig() Config {
	return Config{
		Width:       12,
		Height:      12,
		BrickRows:   3,
		PaddleWidth: 3,
		Lives:       5,
	}
}

func (c Config) validate() error {
	switch {
	case c.Width < 2:
		return errors.New("width must be at least 2")
	case c.PaddleWidth < 1 || c.PaddleWidth > c.Width:
		return fmt.Errorf("paddle width must be within [1, %d]", c.Width)
	case c.BrickRows < 1:
		return errors.New("need at least one row of bricks")
	case c.Height < c.BrickRows+3:
		return fmt.Errorf("height must be at least %d", c.BrickRows+3)
	case c.Lives < 1:
		return errors.New("need at least one life")
	}
	return nil
}

// Frame is the observation. Bricks are indexed [row][column], row 0 on top.
type Frame struct {
	Bricks     [][]bool
	PaddleX    int
	BallX      int
	BallY      int
	BallInPlay bool
	Lives      int
	Score      int
}

func (f *Frame) Copy() *Frame {
	bricks := make([][]bool, len(f.Bricks))
	for i, row := range f.Bricks {
		bricks[i] = append([]bool(nil), row...)
	}
	out := *f
	out.Bricks = bricks
	return &out
}

type Env struct {
	config  Config
	mode    core.RenderMode
	actions *core.Discrete
	screen  *render.Screen

	frame      *Frame
	dx, dy     int
	bricksLeft int
	launches   int
	over       bool
	started    bool
	closed     bool
}

var _ core.Environment = &Env{}

func NewEnv(config Config, mode core.RenderMode) (*Env, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	e := &Env{
		config:  config,
		mode:    mode,
		actions: core.NewDiscrete(numActions),
	}
	if mode == core.RenderHuman {
		e.screen = render.NewScreen(config.Out)
	}
	return e, nil
}

func (e *Env) ActionSpace() core.Space {
	return e.actions
}

func (e *Env) Reset() (core.Observation, core.Info, error) {
	if e.closed {
		return nil, nil, core.ErrClosed
	}
	c := e.config
	bricks := make([][]bool, c.BrickRows)
	for i := range bricks {
		bricks[i] = make([]bool, c.Width)
		for j := range bricks[i] {
			bricks[i][j] = true
		}
	}
	e.frame = &Frame{
		Bricks:  bricks,
		PaddleX: (c.Width - c.PaddleWidth) / 2,
		Lives:   c.Lives,
	}
	e.bricksLeft = c.BrickRows * c.Width
	e.launches = 0
	e.over = false
	e.started = true
	if err := e.renderHuman(); err != nil {
		return nil, nil, err
	}
	return e.frame.Copy(), e.info(), nil
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
	c := e.config
	f := e.frame

	switch action.(int) {
	case ActionRight:
		f.PaddleX = min(f.PaddleX+1, c.Width-c.PaddleWidth)
	case ActionLeft:
		f.PaddleX = max(f.PaddleX-1, 0)
	case ActionFire:
		if !f.BallInPlay {
			e.launch()
		}
	}

	reward := 0.0
	if f.BallInPlay {
		reward = e.moveBall()
	}
	e.over = f.Lives == 0 || e.bricksLeft == 0

	if err := e.renderHuman(); err != nil {
		return core.StepResult{}, err
	}
	return core.StepResult{
		Observation: f.Copy(),
		Reward:      reward,
		Terminated:  e.over,
		Info:        e.info(),
	}, nil
}

func (e *Env) launch() {
	f := e.frame
	f.BallInPlay = true
	f.BallX = f.PaddleX + e.config.PaddleWidth/2
	f.BallY = e.config.Height - 2
	e.dy = -1
	e.dx = 1
	if e.launches%2 == 1 {
		e.dx = -1
	}
	e.launches++
}

// moveBall advances the ball one cell and returns the points scored.
func (e *Env) moveBall() float64 {
	c := e.config
	f := e.frame

	nx, ny := f.BallX+e.dx, f.BallY+e.dy
	if nx < 0 || nx >= c.Width {
		e.dx = -e.dx
		nx = f.BallX + e.dx
	}
	if ny < 0 {
		e.dy = -e.dy
		ny = f.BallY + e.dy
	}

	reward := 0.0
	paddleRow := c.Height - 1
	switch {
	case ny >= 1 && ny <= c.BrickRows && f.Bricks[ny-1][nx]:
		f.Bricks[ny-1][nx] = false
		e.bricksLeft--
		points := c.BrickRows - (ny - 1)
		f.Score += points
		reward = float64(points)
		e.dy = -e.dy
		ny = f.BallY
	case ny == paddleRow:
		if nx >= f.PaddleX && nx < f.PaddleX+c.PaddleWidth {
			e.dy = -1
			ny = f.BallY
		} else {
			f.Lives--
			f.BallInPlay = false
			return reward
		}
	}
	f.BallX, f.BallY = nx, ny
	return reward
}

func (e *Env) info() core.Info {
	return core.Info{
		"lives": e.frame.Lives,
		"score": e.frame.Score,
	}
}

// Render returns the current frame as text.
func (e *Env) Render() (string, error) {
	if e.frame == nil {
		return "", core.ErrNotReset
	}
	c := e.config
	f := e.frame
	b := new(strings.Builder)
	fmt.Fprintf(b, "Score: %d  Lives: %d\n", f.Score, f.Lives)
	border := "+" + strings.Repeat("-", c.Width) + "+\n"
	b.WriteString(border)
	for y := 0; y < c.Height; y++ {
		b.WriteByte('|')
		for x := 0; x < c.Width; x++ {
			b.WriteByte(e.cell(x, y))
		}
		b.WriteString("|\n")
	}
	b.WriteString(border)
	return b.String(), nil
}

func (e *Env) cell(x, y int) byte {
	c := e.config
	f := e.frame
	switch {
	case f.BallInPlay && x == f.BallX && y == f.BallY:
		return 'o'
	case y >= 1 && y <= c.BrickRows && f.Bricks[y-1][x]:
		return '#'
	case y == c.Height-1 && x >= f.PaddleX && x < f.PaddleX+c.PaddleWidth:
		return '='
	}
	return ' '
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
	Config Config
}

var _ core.EnvironmentConstructor = &Constructor{}

func NewConstructor(config Config) *Constructor {
	return &Constructor{Config: config}
}

func (c *Constructor) NewEnvironment(mode core.RenderMode) (core.Environment, error) {
	return NewEnv(c.Config, mode)
}

func (c *Constructor) RenderModes() []core.RenderMode {
	return []core.RenderMode{core.RenderHuman, core.RenderANSI}
}
