package sim

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sync"
)

// Ensemble runs the same configuration under consecutive seeds.
type Ensemble struct {
	base      *Simulator
	numRuns   int
	seedStart int64
	workers   int
}

func NewEnsemble(s *Simulator, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: s, numRuns: numRuns, seedStart: seedStart, workers: runtime.NumCPU()}
}

// WithWorkers bounds how many runs execute at once.
func (e *Ensemble) WithWorkers(n int) *Ensemble {
	if n > 0 {
		e.workers = n
	}
	return e
}

// Run returns one result per seed in seed order. Every run is attempted; the
// errors of failed runs are joined.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	if e.numRuns < 1 {
		return nil, ErrNoRuns
	}

	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	ParallelFor(e.numRuns, e.workers, func(idx int) {
		results[idx], errs[idx] = e.base.Run(ctx, e.seedStart+int64(idx))
	})

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// ParallelFor calls fn for every index in [0, n) on at most workers
// goroutines.
func ParallelFor(n, workers int, fn func(i int)) {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	next := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range next {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
}

// Summarize reduces each metric over the results.
func Summarize(results []*Result) map[string]Stat {
	out := make(map[string]Stat)
	counts := make(map[string]int)
	for _, r := range results {
		if r == nil {
			continue
		}
		for name, v := range r.Metrics {
			st, ok := out[name]
			if !ok {
				st = Stat{Min: math.Inf(1), Max: math.Inf(-1)}
			}
			st.Mean += v
			st.Min = math.Min(st.Min, v)
			st.Max = math.Max(st.Max, v)
			out[name] = st
			counts[name]++
		}
	}
	for name, st := range out {
		st.Mean /= float64(counts[name])
		out[name] = st
	}
	return out
}
