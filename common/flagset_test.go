package common

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zeu5/rl-driver/core"
	"github.com/zeu5/rl-driver/envs"
)

func TestDefaultFlags(t *testing.T) {
	f := DefaultFlags()
	require.Equal(t, envs.Breakout, f.EnvID)
	require.Equal(t, core.RenderHuman, f.RenderMode)
	require.Equal(t, 100*time.Millisecond, f.StepDelay)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("RL_DRIVER_ENV=classic/CartPole-v1\nRL_DRIVER_STEP_DELAY=0s\n"), 0644))
	t.Setenv("RL_DRIVER_SEED", "12")
	t.Setenv("RL_DRIVER_RENDER_MODE", "ansi")
	t.Setenv("RL_DRIVER_ENV", "")
	os.Unsetenv("RL_DRIVER_ENV")
	t.Setenv("RL_DRIVER_STEP_DELAY", "")
	os.Unsetenv("RL_DRIVER_STEP_DELAY")

	f := DefaultFlags()
	f.LoadEnv(filepath.Join(dir, "missing.env"), file)
	require.Equal(t, envs.CartPole, f.EnvID)
	require.Equal(t, time.Duration(0), f.StepDelay)
	require.Equal(t, uint64(12), f.Seed)
	require.Equal(t, core.RenderANSI, f.RenderMode)
}

func TestRecord(t *testing.T) {
	f := DefaultFlags()
	f.SavePath = t.TempDir()
	f.RunID = "run-1"
	require.NoError(t, f.Record())

	bs, err := os.ReadFile(filepath.Join(f.SavePath, "run-1", "config.json"))
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(bs, &out))
	require.Equal(t, envs.Breakout, out["EnvID"])
}
