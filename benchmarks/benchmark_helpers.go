package benchmarks

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/barrierpool/pool"
)

// strategyConfig defines one way of running a data-parallel map over a slice.
type strategyConfig struct {
	name string
	// setup returns the map runner and a cleanup function.
	setup func(workers int) (func(in []float64, fn func(float64) float64) []float64, func())
}

// getAllStrategies returns every strategy compared by the benchmarks: the barrier pool
// at several grains, a fresh errgroup fan-out per call and a sequential loop.
func getAllStrategies() []strategyConfig {
	return []strategyConfig{
		poolStrategy("Pool_Grain1", pool.WithGrain(1)),
		poolStrategy("Pool_Grain64", pool.WithGrain(64)),
		poolStrategy("Pool_Unlocked", pool.WithLockedThreads(false)),
		{
			name: "Errgroup",
			setup: func(workers int) (func([]float64, func(float64) float64) []float64, func()) {
				return func(in []float64, fn func(float64) float64) []float64 {
					return errgroupMap(workers, in, fn)
				}, func() {}
			},
		},
		{
			name: "Sequential",
			setup: func(int) (func([]float64, func(float64) float64) []float64, func()) {
				return sequentialMap, func() {}
			},
		},
	}
}

func poolStrategy(name string, opts ...pool.Option) strategyConfig {
	return strategyConfig{
		name: name,
		setup: func(workers int) (func([]float64, func(float64) float64) []float64, func()) {
			p, err := pool.New(workers, opts...)
			if err != nil {
				panic(err)
			}
			return func(in []float64, fn func(float64) float64) []float64 {
				return pool.Map(p, in, fn)
			}, p.Close
		},
	}
}

// errgroupMap splits in into one contiguous chunk per worker and runs each chunk on
// a fresh goroutine. It is the spawn-per-call baseline the persistent pool competes with.
func errgroupMap(workers int, in []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(in))
	if len(in) == 0 {
		return out
	}

	chunk := (len(in) + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(in); start += chunk {
		end := min(start+chunk, len(in))
		g.Go(func() error {
			for i := start; i < end; i++ {
				out[i] = fn(in[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func sequentialMap(in []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

// cheapWork is a handful of flops per element: dispatch overhead dominates.
func cheapWork(x float64) float64 {
	return x*1.5 + 2
}

// heavyWork costs roughly a microsecond per element.
func heavyWork(x float64) float64 {
	acc := x
	for i := range 200 {
		acc = math.Sin(acc) + math.Sqrt(float64(i)+x)
	}
	return acc
}

// skewedWork is cheap for most elements and very expensive for every 97th one,
// which favours dynamic claiming over static chunking.
func skewedWork(x float64) float64 {
	if int(x)%97 == 0 {
		return heavyWork(x) + heavyWork(x+1) + heavyWork(x+2)
	}
	return cheapWork(x)
}

func makeInput(n int) []float64 {
	in := make([]float64, n)
	for i := range in {
		in[i] = float64(i)
	}
	return in
}

func defaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}
