package common

import (
	"os"
	"path"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/zeu5/rl-driver/core"
	"github.com/zeu5/rl-driver/envs"
	"github.com/zeu5/rl-driver/util"
)

// Prefix of environment variables that override flag defaults
const EnvPrefix = "RL_DRIVER_"

type Flags struct {
	EnvFlags
	SavePath string
	RunFlags
	Parallelism int
	Debug       bool
	LogLevel    string
	RunID       string
}

type EnvFlags struct {
	EnvID      string
	RenderMode core.RenderMode
	StepDelay  time.Duration
	Seed       uint64
	MaxSteps   int
}

type RunFlags struct {
	NumRuns              int
	Episodes             int
	MaxConsecutiveErrors int
}

func DefaultFlags() *Flags {
	return &Flags{
		EnvFlags: EnvFlags{
			EnvID:      envs.Breakout,
			RenderMode: core.RenderHuman,
			StepDelay:  core.DefaultStepDelay,
			Seed:       0,
			MaxSteps:   0,
		},
		SavePath: "results",
		RunFlags: RunFlags{
			NumRuns:              1,
			Episodes:             100,
			MaxConsecutiveErrors: 20,
		},
		Parallelism: 1,
		Debug:       false,
		LogLevel:    "info",
	}
}

// LoadEnv reads the first .env file found in files (default ".env") into
// the process environment and applies RL_DRIVER_* overrides to f. Missing
// files are not an error; malformed values are ignored.
func (f *Flags) LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err == nil {
			break
		}
	}

	if v, ok := lookup("ENV"); ok {
		f.EnvID = v
	}
	if v, ok := lookup("RENDER_MODE"); ok {
		f.RenderMode = core.RenderMode(v)
	}
	if v, ok := lookup("STEP_DELAY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			f.StepDelay = d
		}
	}
	if v, ok := lookup("SEED"); ok {
		if s, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.Seed = s
		}
	}
	if v, ok := lookup("SAVE_PATH"); ok {
		f.SavePath = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		f.LogLevel = v
	}
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (f *Flags) RunConfig() *core.RunConfig {
	return &core.RunConfig{
		Episodes:                   f.Episodes,
		StepDelay:                  f.StepDelay,
		MaxSteps:                   f.MaxSteps,
		Seed:                       f.Seed,
		ThresholdConsecutiveErrors: f.MaxConsecutiveErrors,
	}
}

// RunPath is the directory holding the results of this invocation
func (f *Flags) RunPath() string {
	return path.Join(f.SavePath, f.RunID)
}

func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.RunPath(), "config.json"), f)
}
