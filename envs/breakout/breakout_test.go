package breakout

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeu5/rl-driver/core"
	"github.com/zeu5/rl-driver/envs/wrappers"
)

func tinyConfig() Config {
	return Config{
		Width:       4,
		Height:      5,
		BrickRows:   1,
		PaddleWidth: 1,
		Lives:       1,
	}
}

func TestResetBuildsBoard(t *testing.T) {
	env, err := NewEnv(DefaultConfig(), core.RenderNone)
	require.NoError(t, err)

	obs, info, err := env.Reset()
	require.NoError(t, err)
	frame := obs.(*Frame)
	require.Len(t, frame.Bricks, 3)
	for _, row := range frame.Bricks {
		require.NotContains(t, row, false)
	}
	require.Equal(t, 5, frame.Lives)
	require.False(t, frame.BallInPlay)
	require.Equal(t, 5, info["lives"])
}

func TestMissingTheBallEndsTheGame(t *testing.T) {
	env, err := NewEnv(tinyConfig(), core.RenderNone)
	require.NoError(t, err)
	_, _, err = env.Reset()
	require.NoError(t, err)

	r, err := env.Step(ActionFire)
	require.NoError(t, err)
	frame := r.Observation.(*Frame)
	require.True(t, frame.BallInPlay)
	require.Equal(t, 2, frame.BallX)
	require.Equal(t, 2, frame.BallY)

	// ball hits the brick in the top right corner
	r, err = env.Step(ActionLeft)
	require.NoError(t, err)
	require.Equal(t, 1.0, r.Reward)
	require.False(t, r.Observation.(*Frame).Bricks[0][3])

	r, err = env.Step(ActionLeft)
	require.NoError(t, err)
	require.False(t, r.Done())

	// paddle sits in column 0, the ball lands in column 1
	r, err = env.Step(ActionLeft)
	require.NoError(t, err)
	require.True(t, r.Terminated)
	require.False(t, r.Truncated)
	require.Equal(t, 0, r.Info["lives"])
	require.Equal(t, 1, r.Info["score"])

	_, err = env.Step(ActionNoop)
	require.ErrorIs(t, err, core.ErrNotReset)
}

func TestStepErrors(t *testing.T) {
	env, err := NewEnv(DefaultConfig(), core.RenderNone)
	require.NoError(t, err)

	_, err = env.Step(ActionNoop)
	require.ErrorIs(t, err, core.ErrNotReset)

	_, _, err = env.Reset()
	require.NoError(t, err)
	_, err = env.Step(4)
	require.ErrorIs(t, err, core.ErrInvalidAction)
	_, err = env.Step("FIRE")
	require.ErrorIs(t, err, core.ErrInvalidAction)

	require.NoError(t, env.Close())
	require.ErrorIs(t, env.Close(), core.ErrClosed)
	_, err = env.Step(ActionNoop)
	require.ErrorIs(t, err, core.ErrClosed)
	_, _, err = env.Reset()
	require.ErrorIs(t, err, core.ErrClosed)
}

func TestInvalidConfig(t *testing.T) {
	c := DefaultConfig()
	c.PaddleWidth = 20
	_, err := NewEnv(c, core.RenderNone)
	require.Error(t, err)

	c = DefaultConfig()
	c.Height = 4
	_, err = NewEnv(c, core.RenderNone)
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	out := new(bytes.Buffer)
	c := DefaultConfig()
	c.Out = out
	env, err := NewEnv(c, core.RenderHuman)
	require.NoError(t, err)

	_, err = env.Render()
	require.ErrorIs(t, err, core.ErrNotReset)

	_, _, err = env.Reset()
	require.NoError(t, err)
	require.Contains(t, out.String(), "Score: 0  Lives: 5")

	frame, err := env.Render()
	require.NoError(t, err)
	require.Contains(t, frame, "|############|")
	require.Contains(t, frame, "===")
}

func TestRandomPlayEnds(t *testing.T) {
	env, err := (&wrappers.TimeLimitConstructor{
		Constructor: NewConstructor(DefaultConfig()),
		MaxSteps:    5000,
	}).NewEnvironment(core.RenderNone)
	require.NoError(t, err)

	d := &core.Driver{
		Seed:   9,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	result, err := d.Drive(context.Background(), env)
	require.NoError(t, err)
	require.True(t, result.Terminated || result.Truncated)
	require.LessOrEqual(t, result.Steps, 5000)
	require.GreaterOrEqual(t, result.Return, 0.0)
}

func TestActionName(t *testing.T) {
	require.Equal(t, "FIRE", ActionName(ActionFire))
	require.Equal(t, "UNKNOWN(7)", ActionName(7))
}
