package core

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Space describes the set of values an environment accepts or produces.
type Space interface {
	// Sample draws a uniformly random element of the space.
	Sample() Action
	Contains(Action) bool
	Seed(uint64)
}

// Discrete is the space {0, 1, ..., N-1}. Actions are plain ints.
type Discrete struct {
	N int

	src  rand.Source
	dist distuv.Categorical
}

var _ Space = &Discrete{}

func NewDiscrete(n int) *Discrete {
	if n <= 0 {
		panic(fmt.Sprintf("discrete space needs at least one element, got %d", n))
	}
	d := &Discrete{N: n}
	d.Seed(uint64(time.Now().UnixNano()))
	return d
}

func (d *Discrete) Seed(seed uint64) {
	d.src = rand.NewSource(seed)
	weights := make([]float64, d.N)
	for i := range weights {
		weights[i] = 1
	}
	d.dist = distuv.NewCategorical(weights, d.src)
}

func (d *Discrete) Sample() Action {
	return int(d.dist.Rand())
}

func (d *Discrete) Contains(a Action) bool {
	i, ok := a.(int)
	return ok && i >= 0 && i < d.N
}

func (d *Discrete) String() string {
	return fmt.Sprintf("Discrete(%d)", d.N)
}

// Box is a bounded region of R^n. Actions are []float64.
type Box struct {
	Low  []float64
	High []float64

	dims []distuv.Uniform
}

var _ Space = &Box{}

func NewBox(low, high []float64) *Box {
	if len(low) != len(high) {
		panic(fmt.Sprintf("box bounds differ in shape: %d != %d", len(low), len(high)))
	}
	b := &Box{Low: low, High: high}
	b.Seed(uint64(time.Now().UnixNano()))
	return b
}

func (b *Box) Seed(seed uint64) {
	src := rand.NewSource(seed)
	b.dims = make([]distuv.Uniform, len(b.Low))
	for i := range b.Low {
		b.dims[i] = distuv.Uniform{Min: b.Low[i], Max: b.High[i], Src: src}
	}
}

func (b *Box) Sample() Action {
	out := make([]float64, len(b.dims))
	for i, d := range b.dims {
		out[i] = d.Rand()
	}
	return out
}

func (b *Box) Contains(a Action) bool {
	v, ok := a.([]float64)
	if !ok || len(v) != len(b.Low) {
		return false
	}
	for i, x := range v {
		if x < b.Low[i] || x > b.High[i] {
			return false
		}
	}
	return true
}

func (b *Box) String() string {
	return fmt.Sprintf("Box(%d)", len(b.Low))
}
