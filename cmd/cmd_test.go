package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zeu5/rl-driver/core"
	"github.com/zeu5/rl-driver/envs"
)

func execute(args ...string) (string, error) {
	root := RootCommand()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestEnvsCommand(t *testing.T) {
	out, err := execute("envs")
	require.NoError(t, err)
	require.Contains(t, out, envs.Breakout+"\thuman,ansi")
	require.Contains(t, out, envs.CartPole)
}

func TestPlayCommand(t *testing.T) {
	out, err := execute("play", "--env", envs.CartPole, "--render-mode", "none", "--step-delay", "0", "--seed", "3")
	require.NoError(t, err)
	require.Contains(t, out, "Episode over after")
}

func TestPlayCommandANSI(t *testing.T) {
	out, err := execute("play", "--render-mode", "ansi", "--step-delay", "0", "--max-steps", "20")
	require.NoError(t, err)
	require.Contains(t, out, "Score: 0  Lives: 5")
	require.Contains(t, out, "Episode over after")
}

func TestPlayCommandUnknownEnvironment(t *testing.T) {
	_, err := execute("play", "--env", "ALE/Pong-v5", "--render-mode", "none", "--step-delay", "0")
	require.ErrorIs(t, err, core.ErrUnknownEnvironment)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	_, err := execute("run", "--env", envs.CartPole, "--episodes", "3", "--step-delay", "0", "--save-path", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, flags.RunID, "config.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, flags.RunID, "0", "returns.json"))
	require.NoError(t, err)
	log, err := os.ReadFile(filepath.Join(dir, flags.RunID, "run.log"))
	require.NoError(t, err)
	require.Contains(t, string(log), `"msg":"results saved"`)
}

func TestParseDelay(t *testing.T) {
	d, err := parseDelay("250")
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, d)

	d, err = parseDelay("1s")
	require.NoError(t, err)
	require.Equal(t, time.Second, d)

	_, err = parseDelay("-1")
	require.Error(t, err)
	_, err = parseDelay("soon")
	require.Error(t, err)
}
