package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultStepDelay slows playback down enough for a human to follow it.
// Set Driver.StepDelay to zero when nobody is watching.
const DefaultStepDelay = 100 * time.Millisecond

// Driver plays episodes by submitting sampled actions until the
// environment reports the episode as terminated or truncated.
type Driver struct {
	// Policy picks actions. When nil, actions are sampled straight from the
	// environment's action space.
	Policy    Policy
	StepDelay time.Duration
	// MaxSteps stops an episode early when positive. The result is then
	// reported as truncated.
	MaxSteps int
	// Frames receives the text frame of environments implementing Renderer
	// after reset and after every step. Used for ansi rendering.
	Frames io.Writer
	// Seed, when non-zero, seeds the action space and the environment
	// before the first episode.
	Seed   uint64
	Logger *slog.Logger
}

func NewDriver() *Driver {
	return &Driver{
		StepDelay: DefaultStepDelay,
		Logger:    slog.Default(),
	}
}

type EpisodeResult struct {
	Steps      int
	Return     float64
	Terminated bool
	Truncated  bool
}

// Play creates the environment registered under id, plays one episode on
// it and closes it.
func (d *Driver) Play(ctx context.Context, id string, mode RenderMode) (*EpisodeResult, error) {
	env, err := Make(id, mode)
	if err != nil {
		return nil, err
	}
	d.logger().Info("environment created", "env", id, "render_mode", mode)
	return d.Drive(ctx, env)
}

// Drive takes ownership of env, plays one episode and closes env exactly
// once, whether the episode completes or fails. A close failure is joined
// to the episode error.
func (d *Driver) Drive(ctx context.Context, env Environment) (result *EpisodeResult, err error) {
	defer func() {
		if cerr := env.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close: %w", cerr))
		}
	}()
	if d.Seed != 0 {
		SeedEnvironment(env, d.Seed)
	}
	eCtx := NewEpisodeContext(ctx)
	return d.RunEpisode(eCtx, env)
}

// RunEpisode resets env and steps it until the episode is over. It does
// not close env. Failures from the environment are returned unchanged in
// kind, wrapped with the operation that raised them.
func (d *Driver) RunEpisode(eCtx *EpisodeContext, env Environment) (*EpisodeResult, error) {
	logger := d.logger()
	policy := d.Policy
	if policy != nil {
		policy.ResetEpisode(eCtx)
	}

	result := &EpisodeResult{}
	if _, _, err := env.Reset(); err != nil {
		return result, d.fail(eCtx, fmt.Errorf("reset: %w", err))
	}
	if err := d.drawFrame(env); err != nil {
		return result, d.fail(eCtx, err)
	}
	logger.Info("episode started", "run", eCtx.Run, "episode", eCtx.Episode)

	for over := false; !over; {
		if d.MaxSteps > 0 && result.Steps >= d.MaxSteps {
			result.Truncated = true
			break
		}
		if err := d.wait(eCtx.Context); err != nil {
			return result, d.fail(eCtx, err)
		}

		sCtx := &StepContext{Step: result.Steps, EpisodeContext: eCtx}
		var action Action
		if policy != nil {
			action = policy.PickAction(sCtx, env.ActionSpace())
		} else {
			action = env.ActionSpace().Sample()
		}

		sr, err := env.Step(action)
		if err != nil {
			return result, d.fail(eCtx, fmt.Errorf("step %d: %w", result.Steps, err))
		}
		if policy != nil {
			policy.UpdateStep(sCtx, action, sr)
		}
		eCtx.Trace.AddStep(&Step{
			Action:     action,
			Reward:     sr.Reward,
			Terminated: sr.Terminated,
			Truncated:  sr.Truncated,
			Info:       sr.Info,
		})
		if err := d.drawFrame(env); err != nil {
			return result, d.fail(eCtx, err)
		}
		logger.Debug("step", "step", result.Steps, "action", action, "reward", sr.Reward)

		result.Steps++
		result.Return += sr.Reward
		result.Terminated = sr.Terminated
		result.Truncated = sr.Truncated
		over = sr.Done()
	}

	logger.Info("episode finished",
		"run", eCtx.Run,
		"episode", eCtx.Episode,
		"steps", result.Steps,
		"return", result.Return,
		"terminated", result.Terminated,
		"truncated", result.Truncated,
	)
	return result, nil
}

func (d *Driver) drawFrame(env Environment) error {
	if d.Frames == nil {
		return nil
	}
	r, ok := env.(Renderer)
	if !ok {
		return nil
	}
	frame, err := r.Render()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	_, err = io.WriteString(d.Frames, frame)
	return err
}

func (d *Driver) fail(eCtx *EpisodeContext, err error) error {
	eCtx.Error(err)
	eCtx.Trace.SetError(err)
	return err
}

// wait blocks for the step delay. Cancellation is only observed here.
func (d *Driver) wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if d.StepDelay <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	timer := time.NewTimer(d.StepDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}
