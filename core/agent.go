package core

// Policy picks the next action. Implementations must not depend on the
// observation returned by Reset unless they learn from it.
type Policy interface {
	ResetEpisode(*EpisodeContext)
	PickAction(*StepContext, Space) Action
	UpdateStep(*StepContext, Action, StepResult)
}

type PolicyConstructor interface {
	NewPolicy() Policy
}
