package policies

import (
	"github.com/zeu5/rl-driver/core"
)

// RandomPolicy draws every action from the action space itself. It keeps
// no state, so actions are independent of observations and of each other.
type RandomPolicy struct{}

var _ core.Policy = &RandomPolicy{}

func NewRandomPolicy() *RandomPolicy {
	return &RandomPolicy{}
}

func (r *RandomPolicy) PickAction(_ *core.StepContext, space core.Space) core.Action {
	return space.Sample()
}

func (r *RandomPolicy) UpdateStep(_ *core.StepContext, _ core.Action, _ core.StepResult) {}

func (r *RandomPolicy) ResetEpisode(_ *core.EpisodeContext) {}

type RandomPolicyConstructor struct{}

func (r *RandomPolicyConstructor) NewPolicy() core.Policy {
	return NewRandomPolicy()
}
