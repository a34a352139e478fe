package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/zeu5/rl-driver/util"
)

var (
	ErrTooManyErrors = errors.New("too many errors")
)

type experimentRunContext struct {
	run       int
	ctx       context.Context
	analyzers map[string]Analyzer

	output *util.ParallelOutput

	*RunConfig
}

type ExperimentResult struct {
	CompletedEpisodes int
	TotalEpisodes     int
	ErrorEpisodes     int
	TotalTimeSteps    int

	Error    error
	Datasets map[string]DataSet
}

func (r *ExperimentResult) IsError() bool {
	return r.Error != nil
}

func (e *Experiment) driver(ctx *experimentRunContext) *Driver {
	var policy Policy
	if e.Policy != nil {
		policy = e.Policy.NewPolicy()
	}
	logger := ctx.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		Policy:    policy,
		StepDelay: ctx.StepDelay,
		MaxSteps:  ctx.MaxSteps,
		Logger:    logger.With("experiment", e.Name),
	}
}

// run plays the configured number of episodes on a single environment,
// which is closed once all episodes are done.
func (e *Experiment) run(ctx *experimentRunContext) (result *ExperimentResult) {
	result = &ExperimentResult{
		Datasets: make(map[string]DataSet),
	}
	env, err := Make(e.EnvID, e.RenderMode)
	if err != nil {
		result.Error = err
		return result
	}
	defer func() {
		if cerr := env.Close(); cerr != nil {
			result.Error = errors.Join(result.Error, fmt.Errorf("close: %w", cerr))
		}
	}()
	if ctx.Seed != 0 {
		SeedEnvironment(env, ctx.Seed+uint64(ctx.run))
	}

	d := e.driver(ctx)
	consecutiveErrors := 0
EpisodeLoop:
	for episode := 0; episode < ctx.Episodes; episode++ {
		select {
		case <-ctx.ctx.Done():
			result.Error = ctx.ctx.Err()
			break EpisodeLoop
		default:
		}

		ctx.output.TrySet(fmt.Sprintf(
			"Experiment: %s, Run %d, Episode %d/%d, Timesteps: %d, Error: %d",
			e.Name, ctx.run, episode, ctx.Episodes, result.TotalTimeSteps, result.ErrorEpisodes,
		))
		eCtx := NewEpisodeContext(ctx.ctx)
		eCtx.Run = ctx.run
		eCtx.Episode = episode

		_, err := d.RunEpisode(eCtx, env)
		if err != nil && errors.Is(err, ctx.ctx.Err()) {
			result.Error = err
			break EpisodeLoop
		}
		result.TotalEpisodes++
		result.TotalTimeSteps += eCtx.Trace.Len()

		if err != nil {
			result.ErrorEpisodes++
			if consecutiveErrors++; consecutiveErrors >= ctx.ThresholdConsecutiveErrors {
				result.Error = fmt.Errorf("%w: last: %w", ErrTooManyErrors, err)
			}
		} else {
			consecutiveErrors = 0
			result.CompletedEpisodes++
		}

		for _, a := range ctx.analyzers {
			a.Analyze(eCtx, eCtx.Trace)
		}
		if result.Error != nil {
			break EpisodeLoop
		}
	}
	ctx.output.Set(fmt.Sprintf(
		"Experiment: %s, Run %d, Episodes: %d, Timesteps: %d, Error: %d, Done",
		e.Name, ctx.run, result.TotalEpisodes, result.TotalTimeSteps, result.ErrorEpisodes,
	))

	for name, a := range ctx.analyzers {
		result.Datasets[name] = a.DataSet()
	}
	return result
}

// parallelWorker is a worker that runs experiments
type parallelWorker struct {
	id int
}

// parallelWork is a struct that contains all the information needed to run an experiment
type parallelWork struct {
	experiment *Experiment
	comp       *Comparison
	runNumber  int
	output     *util.ParallelOutput
	rConfig    *RunConfig
}

// parallelResult is a struct that contains the result of running an experiment
type parallelResult struct {
	experimentName string
	run            int
	result         *ExperimentResult
}

// Worker main loop that consumes work from a channel
func (w *parallelWorker) run(ctx context.Context, workCh <-chan *parallelWork, resultsCh chan<- *parallelResult) {
	for work := range workCh {
		resultsCh <- w.runWork(ctx, work)
	}
}

// Run an experiment by constructing its run context. Every worker creates
// its own environment, so workers never share one.
func (w *parallelWorker) runWork(ctx context.Context, work *parallelWork) *parallelResult {
	eCtx := &experimentRunContext{
		run:       work.runNumber,
		ctx:       ctx,
		analyzers: make(map[string]Analyzer),
		output:    work.output,
		RunConfig: work.rConfig,
	}

	for name, aC := range work.comp.Analyzers {
		eCtx.analyzers[name] = aC.NewAnalyzer(work.experiment.Name, w.id)
	}

	return &parallelResult{
		experimentName: work.experiment.Name,
		run:            work.runNumber,
		result:         work.experiment.run(eCtx),
	}
}

// Run plays every experiment runs times, spreading experiments of a run over
// parallelism workers. Comparators see the datasets of each run once all of
// its experiments are done. The returned map holds the results of the last
// run keyed by experiment name.
func (c *Comparison) Run(ctx context.Context, runs int, rConfig *RunConfig, parallelism int) map[string]*ExperimentResult {
	if parallelism < 1 {
		parallelism = 1
	}
	progress := rConfig.Progress
	if progress == nil {
		progress = os.Stdout
	}

	var results map[string]*ExperimentResult
	for run := 0; run < runs; run++ {
		select {
		case <-ctx.Done():
			return results
		default:
		}
		printer := util.NewTerminalPrinter(100*time.Millisecond, progress)
		printer.Write(fmt.Sprintf("Run %d\n", run))

		workCh := make(chan *parallelWork, len(c.Experiments))
		resultsCh := make(chan *parallelResult, len(c.Experiments))
		for _, e := range c.Experiments {
			workCh <- &parallelWork{
				experiment: e,
				comp:       c,
				runNumber:  run,
				rConfig:    rConfig,
				output:     printer.NewOutput(),
			}
		}
		close(workCh)

		printer.Start(ctx)
		for i := 0; i < parallelism; i++ {
			w := &parallelWorker{id: i}
			go w.run(ctx, workCh, resultsCh)
		}

		results = make(map[string]*ExperimentResult)
		for range c.Experiments {
			r := <-resultsCh
			results[r.experimentName] = r.result
		}
		printer.Stop()

		// Gather datasets to run comparisons
		experimentNames := make([]string, 0, len(results))
		for name := range results {
			experimentNames = append(experimentNames, name)
		}
		sort.Strings(experimentNames)
		for name, cc := range c.Comparators {
			if cc == nil {
				continue
			}
			datasets := make([]DataSet, len(experimentNames))
			for i, exp := range experimentNames {
				if result := results[exp]; !result.IsError() {
					datasets[i] = result.Datasets[name]
				}
			}
			cc.NewComparator(run).Compare(experimentNames, datasets)
		}
	}
	return results
}
