package core

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingAnalyzer struct {
	episodes int
	steps    int
	errors   int
}

func (a *countingAnalyzer) Analyze(eCtx *EpisodeContext, trace *Trace) {
	a.episodes++
	a.steps += trace.Len()
	if eCtx.IsError() {
		a.errors++
	}
}

func (a *countingAnalyzer) DataSet() DataSet {
	return *a
}

func (a *countingAnalyzer) Reset() {}

type countingAnalyzerConstructor struct{}

func (countingAnalyzerConstructor) NewAnalyzer(_ string, _ int) Analyzer {
	return &countingAnalyzer{}
}

type recordingComparator struct {
	mtx   *sync.Mutex
	runs  []int
	names [][]string
	data  [][]DataSet
}

func (r *recordingComparator) NewComparator(run int) Comparator {
	return comparatorFunc(func(names []string, data []DataSet) {
		r.mtx.Lock()
		defer r.mtx.Unlock()
		r.runs = append(r.runs, run)
		r.names = append(r.names, names)
		r.data = append(r.data, data)
	})
}

type comparatorFunc func([]string, []DataSet)

func (f comparatorFunc) Compare(names []string, data []DataSet) {
	f(names, data)
}

func testRunConfig(episodes int) *RunConfig {
	return &RunConfig{
		Episodes:                   episodes,
		ThresholdConsecutiveErrors: 3,
		Progress:                   io.Discard,
		Logger:                     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestComparisonRun(t *testing.T) {
	register("test/RunnerA-v0", newScriptedConstructor(3, 0))
	register("test/RunnerB-v0", newScriptedConstructor(5, 0))

	cmp := NewComparison()
	cmp.AddExperiment(&Experiment{Name: "A", EnvID: "test/RunnerA-v0"})
	cmp.AddExperiment(&Experiment{Name: "B", EnvID: "test/RunnerB-v0"})
	comparator := &recordingComparator{mtx: &sync.Mutex{}}
	cmp.AddAnalysis("Count", countingAnalyzerConstructor{}, comparator)
	cmp.AddAnalysis("NoCompare", countingAnalyzerConstructor{}, nil)

	results := cmp.Run(context.Background(), 2, testRunConfig(4), 2)

	require.Len(t, results, 2)
	require.False(t, results["A"].IsError())
	require.Equal(t, 4, results["A"].CompletedEpisodes)
	require.Equal(t, 12, results["A"].TotalTimeSteps)
	require.Equal(t, 20, results["B"].TotalTimeSteps)

	require.Equal(t, []int{0, 1}, comparator.runs)
	require.Equal(t, []string{"A", "B"}, comparator.names[0])
	a := comparator.data[1][0].(countingAnalyzer)
	require.Equal(t, 4, a.episodes)
	require.Equal(t, 12, a.steps)
}

func TestExperimentClosesEnvironmentOnce(t *testing.T) {
	c := register("test/RunnerClose-v0", newScriptedConstructor(2, 0)).(*scriptedConstructor)
	before := len(c.environments())

	cmp := NewComparison()
	cmp.AddExperiment(&Experiment{Name: "Close", EnvID: "test/RunnerClose-v0"})
	cmp.Run(context.Background(), 1, testRunConfig(5), 1)

	envs := c.environments()[before:]
	require.Len(t, envs, 1)
	require.Equal(t, 5, envs[0].resets)
	require.Equal(t, 1, envs[0].closes)
}

func TestExperimentStopsAfterConsecutiveErrors(t *testing.T) {
	register("test/RunnerFault-v0", newScriptedConstructor(5, 2))

	cmp := NewComparison()
	cmp.AddExperiment(&Experiment{Name: "Fault", EnvID: "test/RunnerFault-v0"})
	cmp.AddAnalysis("Count", countingAnalyzerConstructor{}, nil)
	results := cmp.Run(context.Background(), 1, testRunConfig(10), 1)

	r := results["Fault"]
	require.ErrorIs(t, r.Error, ErrTooManyErrors)
	require.ErrorIs(t, r.Error, errFault)
	require.Equal(t, 3, r.ErrorEpisodes)
	require.Equal(t, 0, r.CompletedEpisodes)
	require.Equal(t, 3, r.Datasets["Count"].(countingAnalyzer).errors)
}

func TestExperimentUnknownEnvironment(t *testing.T) {
	cmp := NewComparison()
	cmp.AddExperiment(&Experiment{Name: "Missing", EnvID: "test/RunnerMissing-v0"})
	results := cmp.Run(context.Background(), 1, testRunConfig(1), 1)
	require.ErrorIs(t, results["Missing"].Error, ErrUnknownEnvironment)
}

func TestComparisonRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmp := NewComparison()
	cmp.AddExperiment(&Experiment{Name: "A", EnvID: "test/RunnerA-v0"})
	require.Nil(t, cmp.Run(ctx, 3, testRunConfig(1), 1))
}
