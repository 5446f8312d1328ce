package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/integrators"
	"github.com/san-kum/cosmosim/internal/metrics"
	"github.com/san-kum/cosmosim/internal/physics"
	"github.com/san-kum/cosmosim/internal/sim"
)

var ErrNoCandidates = errors.New("optim: no grid point completed")

// Point is one evaluated grid point. Err is set when that simulation
// failed; the rest of the grid is unaffected.
type Point struct {
	Params        map[string]float64
	Densities     physics.Densities
	Metrics       map[string]float64
	BackwardSteps int
	ForwardSteps  int
	Err           error
}

// GridSearch evaluates the cartesian product of density parameter ranges.
// Parameter names are those of physics.Friedmann.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers bounds the number of concurrent simulations.
func (g *GridSearch) WithWorkers(n int) *GridSearch {
	if n > 0 {
		g.workers = n
	}
	return g
}

// Evaluate runs one simulation per grid point, concurrently, and returns
// the points in grid order (last parameter varying fastest).
func (g *GridSearch) Evaluate(ctx context.Context, base physics.Densities, cfg sim.Config) ([]Point, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("%w: %d params but %d ranges", dynamo.ErrDimensionMismatch, len(g.paramNames), len(g.ranges))
	}
	var model dynamo.Configurable = physics.NewFriedmann(base)
	known := model.GetParams()
	for _, name := range g.paramNames {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("unknown param: %s", name)
		}
	}

	combos := g.combinations()
	points := make([]Point, len(combos))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, params := range combos {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			points[i] = evaluate(egctx, base, params, cfg)
			if errors.Is(points[i].Err, dynamo.ErrContextCanceled) {
				return points[i].Err
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return points, nil
}

// Search returns the completed point with the lowest objective value.
func (g *GridSearch) Search(
	ctx context.Context,
	base physics.Densities,
	cfg sim.Config,
	objective func(Point) float64,
) (Point, float64, error) {
	points, err := g.Evaluate(ctx, base, cfg)
	if err != nil {
		return Point{}, 0, err
	}

	best := math.Inf(1)
	bestIdx := -1
	for i, p := range points {
		if p.Err != nil {
			continue
		}
		if val := objective(p); val < best {
			best = val
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return Point{}, 0, ErrNoCandidates
	}

	return points[bestIdx], best, nil
}

func (g *GridSearch) combinations() []map[string]float64 {
	combos := []map[string]float64{{}}
	for depth, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(combos)*len(g.ranges[depth]))
		for _, current := range combos {
			for _, val := range g.ranges[depth] {
				params := make(map[string]float64, len(current)+1)
				for k, v := range current {
					params[k] = v
				}
				params[name] = val
				next = append(next, params)
			}
		}
		combos = next
	}
	return combos
}

func evaluate(ctx context.Context, base physics.Densities, params map[string]float64, cfg sim.Config) Point {
	dyn := physics.NewFriedmann(base)
	p := Point{Params: params}
	err := applyParams(dyn, params)
	p.Densities = dyn.Densities
	if err != nil {
		p.Err = err
		return p
	}

	s := sim.New(dyn, integrators.NewEuler())
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}

	result, err := s.Run(ctx, cfg)
	if err != nil {
		p.Err = err
		return p
	}

	p.Metrics = result.Metrics
	p.BackwardSteps = result.BackwardSteps
	p.ForwardSteps = result.ForwardSteps
	return p
}

func applyParams(c dynamo.Configurable, params map[string]float64) error {
	for name, val := range params {
		if err := c.SetParam(name, val); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from start to end inclusive.
func Linspace(start, end float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = end
	return out
}
