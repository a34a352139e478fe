package analysis

import (
	"path"
	"strconv"

	"github.com/zeu5/rl-driver/core"
	"github.com/zeu5/rl-driver/util"
	"gonum.org/v1/gonum/stat"
)

type returnAnalyzerDataset struct {
	Returns    []float64
	Lengths    []int
	Terminated int
	Truncated  int
	Errored    int
}

func (d *returnAnalyzerDataset) Copy() *returnAnalyzerDataset {
	return &returnAnalyzerDataset{
		Returns:    append([]float64(nil), d.Returns...),
		Lengths:    util.CopyIntSlice(d.Lengths),
		Terminated: d.Terminated,
		Truncated:  d.Truncated,
		Errored:    d.Errored,
	}
}

// ReturnAnalyzer records the return and length of every episode.
type ReturnAnalyzer struct {
	dataset *returnAnalyzerDataset
}

var _ core.Analyzer = &ReturnAnalyzer{}

func NewReturnAnalyzer() *ReturnAnalyzer {
	r := &ReturnAnalyzer{}
	r.Reset()
	return r
}

func (r *ReturnAnalyzer) Reset() {
	r.dataset = &returnAnalyzerDataset{
		Returns: make([]float64, 0),
		Lengths: make([]int, 0),
	}
}

func (r *ReturnAnalyzer) Analyze(_ *core.EpisodeContext, trace *core.Trace) {
	if trace.Error() != nil {
		r.dataset.Errored++
		return
	}
	r.dataset.Returns = append(r.dataset.Returns, trace.Return())
	r.dataset.Lengths = append(r.dataset.Lengths, trace.Len())
	if last := trace.Last(); last != nil {
		if last.Terminated {
			r.dataset.Terminated++
		} else if last.Truncated {
			r.dataset.Truncated++
		}
	}
}

func (r *ReturnAnalyzer) DataSet() core.DataSet {
	return r.dataset.Copy()
}

type ReturnAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &ReturnAnalyzerConstructor{}

func NewReturnAnalyzerConstructor() *ReturnAnalyzerConstructor {
	return &ReturnAnalyzerConstructor{}
}

func (c *ReturnAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewReturnAnalyzer()
}

// ReturnSummary aggregates the episodes of one experiment.
type ReturnSummary struct {
	Episodes     int
	MeanReturn   float64
	StdDevReturn float64
	MinReturn    float64
	MaxReturn    float64
	MeanLength   float64
	Terminated   int
	Truncated    int
	Errored      int

	Returns []float64
	Lengths []int
}

func summarize(d *returnAnalyzerDataset) *ReturnSummary {
	s := &ReturnSummary{
		Episodes:   len(d.Returns),
		Terminated: d.Terminated,
		Truncated:  d.Truncated,
		Errored:    d.Errored,
		Returns:    d.Returns,
		Lengths:    d.Lengths,
	}
	if len(d.Returns) == 0 {
		return s
	}
	s.MeanReturn = stat.Mean(d.Returns, nil)
	if len(d.Returns) > 1 {
		s.StdDevReturn = stat.StdDev(d.Returns, nil)
	}
	s.MinReturn, s.MaxReturn = d.Returns[0], d.Returns[0]
	for _, v := range d.Returns {
		s.MinReturn = min(s.MinReturn, v)
		s.MaxReturn = max(s.MaxReturn, v)
	}
	lengths := make([]float64, len(d.Lengths))
	for i, l := range d.Lengths {
		lengths[i] = float64(l)
	}
	s.MeanLength = stat.Mean(lengths, nil)
	return s
}

// ReturnComparator saves the summary of every experiment of a run as JSON.
type ReturnComparator struct {
	savePath string
}

var _ core.Comparator = &ReturnComparator{}

func NewReturnComparator(savePath string) *ReturnComparator {
	return &ReturnComparator{
		savePath: path.Join(savePath, "returns.json"),
	}
}

func (c *ReturnComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	out := make(map[string]*ReturnSummary)
	for i, name := range experimentNames {
		d, ok := datasets[i].(*returnAnalyzerDataset)
		if !ok {
			continue
		}
		out[name] = summarize(d)
	}
	util.SaveJson(c.savePath, out)
}

type ReturnComparatorConstructor struct {
	savePath string
}

var _ core.ComparatorConstructor = &ReturnComparatorConstructor{}

func NewReturnComparatorConstructor(savePath string) *ReturnComparatorConstructor {
	return &ReturnComparatorConstructor{
		savePath: savePath,
	}
}

func (c *ReturnComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewReturnComparator(path.Join(c.savePath, strconv.Itoa(run)))
}
