package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	c := newScriptedConstructor(1, 0)
	c.modes = []RenderMode{RenderANSI}
	register("test/Registry-v0", c)

	require.Contains(t, Registered(), "test/Registry-v0")
	require.IsIncreasing(t, Registered())
	require.Panics(t, func() { Register("test/Registry-v0", c) })

	env, err := Make("test/Registry-v0", RenderANSI)
	require.NoError(t, err)
	require.NoError(t, env.Close())

	_, err = Make("test/Registry-v0", RenderHuman)
	require.ErrorIs(t, err, ErrUnsupportedRenderMode)

	_, err = Make("test/Nope-v0", RenderNone)
	require.ErrorIs(t, err, ErrUnknownEnvironment)
}
