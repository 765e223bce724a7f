package engine

import (
	"fmt"
	"time"
)

// RunTimeout is the hard limit for a single script run.
const RunTimeout = 5 * time.Second

// runResult passes one run's output through the worker channel.
type runResult struct {
	result *Result
	errors []EvalError
	err    error
}

func (e *Engine) currentGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// await blocks for the run's result or the RunTimeout deadline,
// whichever comes first. A result belonging to a superseded generation
// is discarded: only the newest run may speak for the engine.
func (e *Engine) await(ch <-chan runResult, gen uint64) (*Result, []EvalError, error) {
	select {
	case res := <-ch:
		if gen != e.currentGeneration() {
			return nil, nil, fmt.Errorf("run superseded by newer request")
		}
		return res.result, res.errors, res.err

	case <-time.After(RunTimeout):
		return nil, nil, fmt.Errorf("script timed out after %s", RunTimeout)
	}
}
