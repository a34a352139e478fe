package core

import (
	"io"
	"log/slog"
	"time"
)

// Experiment plays episodes of one environment with one policy.
type Experiment struct {
	Name       string
	EnvID      string
	RenderMode RenderMode
	Policy     PolicyConstructor
}

type DataSet interface{}

type Analyzer interface {
	Analyze(*EpisodeContext, *Trace)
	DataSet() DataSet
	Reset()
}

type AnalyzerConstructor interface {
	// new analyzer based on experiment name and run
	NewAnalyzer(string, int) Analyzer
}

type Comparator interface {
	Compare([]string, []DataSet)
}

type ComparatorConstructor interface {
	NewComparator(int) Comparator
}

type Comparison struct {
	Experiments []*Experiment
	Analyzers   map[string]AnalyzerConstructor
	Comparators map[string]ComparatorConstructor
}

type RunConfig struct {
	Episodes  int
	StepDelay time.Duration
	MaxSteps  int
	// Seed, when non-zero, seeds run r with Seed+r.
	Seed uint64

	ThresholdConsecutiveErrors int

	// Progress receives one status line per experiment. Defaults to stdout.
	Progress io.Writer
	Logger   *slog.Logger
}

func NewComparison() *Comparison {
	return &Comparison{
		Analyzers:   make(map[string]AnalyzerConstructor),
		Comparators: make(map[string]ComparatorConstructor),
		Experiments: make([]*Experiment, 0),
	}
}

func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) AddAnalysis(name string, a AnalyzerConstructor, cmp ComparatorConstructor) {
	c.Analyzers[name] = a
	c.Comparators[name] = cmp
}
