package torus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunner(t *testing.T) {
	engine := NewEngine(Config{Lines: 4, Population: 4})

	slot := engine.Append("quine")
	engine.CompileIfChanged(slot)

	runner := NewRunner(engine, RunnerConfig{Queue: 4})

	// submit a task and wait for the ack
	done := make(chan Execution, 1)
	ok := runner.Submit(slot, func(execution Execution, err error) {
		assert.NoError(t, err)
		done <- execution
	})
	assert.True(t, ok)

	execution := <-done
	assert.Equal(t, 1, execution.Executed)
	assert.Equal(t, uint64(1), execution.LedgerTotal)

	runner.Close()

	// a closed runner rejects tasks
	assert.False(t, runner.Submit(slot, nil))
}

func TestRunnerSerializes(t *testing.T) {
	engine := NewEngine(Config{Lines: 4, Population: 4})

	slot := engine.Append("quine")
	engine.CompileIfChanged(slot)

	runner := NewRunner(engine, RunnerConfig{Queue: 16})
	defer runner.Close()

	// submit from multiple goroutines
	var group sync.WaitGroup
	acks := make(chan struct{}, 64)
	for i := 0; i < 8; i++ {
		group.Add(1)
		go func() {
			defer group.Done()
			for j := 0; j < 8; j++ {
				runner.Submit(slot, func(Execution, error) {
					acks <- struct{}{}
				})
			}
		}()
	}
	group.Wait()

	// wait for all acks
	for i := 0; i < 64; i++ {
		<-acks
	}

	// every run charged the ledger exactly once
	assert.Equal(t, uint64(64), engine.Ledger().Total())
}
