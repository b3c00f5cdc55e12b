package torus

import (
	"sync"

	"gopkg.in/tomb.v2"
)

type task struct {
	slot int
	ack  func(Execution, error)
}

// RunnerConfig is used to configure a runner.
type RunnerConfig struct {
	// The size of the task queue.
	Queue int
}

// Runner serializes execution requests from concurrent front ends through a
// single worker. Machine runs are not reentrant, the runner is the mutual
// exclusion boundary a concurrent host submits through.
type Runner struct {
	engine *Engine
	config RunnerConfig
	pipe   chan task
	mutex  sync.RWMutex
	once   sync.Once
	tomb   tomb.Tomb
}

// NewRunner will create and return a new runner.
func NewRunner(engine *Engine, config RunnerConfig) *Runner {
	// set default queue size
	if config.Queue <= 0 {
		config.Queue = 1
	}

	// prepare runner
	r := &Runner{
		engine: engine,
		config: config,
		pipe:   make(chan task, config.Queue),
	}

	// run worker
	r.tomb.Go(r.worker)

	return r
}

// Submit will asynchronously execute the specified slot and call the
// provided callback with the result. It returns whether the task has been
// queued.
func (r *Runner) Submit(slot int, ack func(Execution, error)) bool {
	// check if closed
	select {
	case <-r.tomb.Dying():
		return false
	default:
	}

	// create task
	tsk := task{
		slot: slot,
		ack:  ack,
	}

	// acquire mutex
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	// queue task
	select {
	case r.pipe <- tsk:
		return true
	case <-r.tomb.Dying():
		return false
	}
}

// Close will close the runner.
func (r *Runner) Close() {
	// kill tomb
	r.tomb.Kill(nil)

	// close pipe
	r.once.Do(func() {
		r.mutex.Lock()
		close(r.pipe)
		r.mutex.Unlock()
	})

	// wait for exit
	_ = r.tomb.Wait()
}

func (r *Runner) worker() error {
	for {
		// wait for task
		tsk, ok := <-r.pipe

		// return if pipe has been closed
		if !ok {
			return tomb.ErrDying
		}

		// execute slot
		execution, err := r.engine.Execute(tsk.slot)

		// call ack
		if tsk.ack != nil {
			tsk.ack(execution, err)
		}
	}
}
