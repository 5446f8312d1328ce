package metrics

import (
	"math"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

// Age is the lookback time, in years, from the present to the oldest
// recorded sample: how long ago the scale factor was last above the floor.
type Age struct {
	name    string
	oldest  float64
	samples int
}

func NewAge() *Age {
	return &Age{
		name:   "age",
		oldest: math.Inf(1),
	}
}

func (a *Age) Name() string { return a.name }

func (a *Age) Observe(s dynamo.Sample) {
	a.oldest = math.Min(a.oldest, s.T)
	a.samples++
}

func (a *Age) Value() float64 {
	if a.samples == 0 || a.oldest > 0 {
		return 0
	}
	return -a.oldest
}

func (a *Age) Reset() {
	a.oldest = math.Inf(1)
	a.samples = 0
}
