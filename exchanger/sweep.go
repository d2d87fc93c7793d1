package exchanger

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"hexcalc/props"
)

// SweepCase is one exchanger configuration of a parametric sweep.
type SweepCase struct {
	Name  string
	Input *STHeatExchangerInput
}

// SweepResult carries one case's outcome; Err is set when the case failed
// and the profile is nil.
type SweepResult struct {
	Name    string
	Duty    float64
	Profile *SpatialProfile
	Err     error
}

// RunSweep solves independent cases on a fixed pool of workers. Each worker
// owns its model instances and its own backend handle from the factory, so
// no state is shared between concurrent solves. Results keep case order.
func RunSweep(cases []SweepCase, backendFactory func() props.MixtureBackend, workers int) []SweepResult {
	if workers < 1 {
		workers = 1
	}
	if workers > len(cases) {
		workers = len(cases)
	}

	results := make([]SweepResult, len(cases))
	tasks := make(chan int, len(cases))
	for i := range cases {
		tasks <- i
	}
	close(tasks)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			backend := backendFactory()
			for i := range tasks {
				c := cases[i]
				res := SweepResult{Name: c.Name}
				if err := c.Input.Validate(); err != nil {
					res.Err = err
				} else {
					m := NewCounterflowModel(c.Input, backend)
					res.Profile, res.Err = m.Solve()
					if res.Profile != nil {
						res.Duty = res.Profile.Duty
					}
				}
				if res.Err != nil {
					log.WithFields(log.Fields{
						"worker": worker,
						"case":   c.Name,
					}).Warn("sweep case failed: ", res.Err)
				}
				results[i] = res
			}
		}(w)
	}
	wg.Wait()
	return results
}
