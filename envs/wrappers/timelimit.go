package wrappers

import (
	"fmt"

	"github.com/zeu5/rl-driver/core"
)

// TruncatedKey is set in the step info when the time limit cut the episode.
const TruncatedKey = "TimeLimit.truncated"

// TimeLimit truncates episodes of the wrapped environment after MaxSteps
// steps. An episode that terminates naturally on the last step is reported
// as terminated, not truncated.
type TimeLimit struct {
	core.Environment
	MaxSteps int

	elapsed int
}

var _ core.Environment = &TimeLimit{}

func NewTimeLimit(env core.Environment, maxSteps int) (*TimeLimit, error) {
	if maxSteps <= 0 {
		return nil, fmt.Errorf("time limit must be positive, got %d", maxSteps)
	}
	return &TimeLimit{Environment: env, MaxSteps: maxSteps}, nil
}

func (t *TimeLimit) Reset() (core.Observation, core.Info, error) {
	t.elapsed = 0
	return t.Environment.Reset()
}

func (t *TimeLimit) Step(action core.Action) (core.StepResult, error) {
	result, err := t.Environment.Step(action)
	if err != nil {
		return result, err
	}
	t.elapsed++
	if t.elapsed >= t.MaxSteps && !result.Terminated {
		result.Truncated = true
		if result.Info == nil {
			result.Info = core.Info{}
		}
		result.Info[TruncatedKey] = true
	}
	return result, nil
}

// Elapsed is the number of steps taken since the last reset
func (t *TimeLimit) Elapsed() int {
	return t.elapsed
}

func (t *TimeLimit) Seed(seed uint64) {
	if s, ok := t.Environment.(core.Seeder); ok {
		s.Seed(seed)
	}
}

func (t *TimeLimit) Render() (string, error) {
	r, ok := t.Environment.(core.Renderer)
	if !ok {
		return "", fmt.Errorf("%w: wrapped environment cannot render", core.ErrUnsupportedRenderMode)
	}
	return r.Render()
}

// TimeLimitConstructor wraps every environment of Constructor in a TimeLimit.
type TimeLimitConstructor struct {
	Constructor core.EnvironmentConstructor
	MaxSteps    int
}

var _ core.EnvironmentConstructor = &TimeLimitConstructor{}

func (c *TimeLimitConstructor) NewEnvironment(mode core.RenderMode) (core.Environment, error) {
	env, err := c.Constructor.NewEnvironment(mode)
	if err != nil {
		return nil, err
	}
	limited, err := NewTimeLimit(env, c.MaxSteps)
	if err != nil {
		env.Close()
		return nil, err
	}
	return limited, nil
}

func (c *TimeLimitConstructor) RenderModes() []core.RenderMode {
	return c.Constructor.RenderModes()
}
