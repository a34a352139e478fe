// Package envs registers the built-in environments with core.
package envs

import (
	"sync"

	"github.com/zeu5/rl-driver/core"
	"github.com/zeu5/rl-driver/envs/breakout"
	"github.com/zeu5/rl-driver/envs/cartpole"
	"github.com/zeu5/rl-driver/envs/wrappers"
)

const (
	Breakout = "grid/Breakout-v0"
	CartPole = "classic/CartPole-v1"

	// BreakoutMaxSteps matches the Atari frame cap of 108000 frames with a
	// frame skip of 4.
	BreakoutMaxSteps = 27000
	CartPoleMaxSteps = 500
)

var once = new(sync.Once)

// Register adds the built-in environments. Safe to call more than once.
func Register() {
	once.Do(func() {
		core.Register(Breakout, &wrappers.TimeLimitConstructor{
			Constructor: breakout.NewConstructor(breakout.DefaultConfig()),
			MaxSteps:    BreakoutMaxSteps,
		})
		core.Register(CartPole, &wrappers.TimeLimitConstructor{
			Constructor: &cartpole.Constructor{},
			MaxSteps:    CartPoleMaxSteps,
		})
	})
}
