package torus

import (
	"errors"

	"gopkg.in/tomb.v2"
)

// ErrInvalidSample is yielded when a sample names a quine outside of the
// population.
var ErrInvalidSample = errors.New("torus: invalid sample index")

// Sample is a single instrumentation measurement for a quine. The engine
// treats energy and cache misses as opaque numeric inputs, it never computes
// them itself.
type Sample struct {
	// The index of the measured quine.
	Index int

	// The measured energy cost.
	Energy float64

	// The measured cache misses.
	CacheMisses uint32

	// The irreversible operations to charge to the quine's toll.
	Toll uint64
}

// HarvesterConfig is used to configure a harvester.
type HarvesterConfig struct {
	// The channel on which samples are received.
	Samples <-chan Sample

	// The callback used to yield errors.
	Errors func(error)
}

// Harvester applies measurements from an external instrumentation harness
// to the engine's population. Samples with an invalid index are dropped and
// yielded to the configured error callback.
type Harvester struct {
	engine *Engine
	config HarvesterConfig

	tomb tomb.Tomb
}

// NewHarvester will create and return a new harvester.
func NewHarvester(engine *Engine, config HarvesterConfig) *Harvester {
	// check samples channel
	if config.Samples == nil {
		panic("torus: missing samples channel")
	}

	// prepare harvester
	h := &Harvester{
		engine: engine,
		config: config,
	}

	// run worker
	h.tomb.Go(h.worker)

	return h
}

// Close will close the harvester.
func (h *Harvester) Close() {
	h.tomb.Kill(nil)
	_ = h.tomb.Wait()
}

func (h *Harvester) worker() error {
	for {
		// wait for sample or close
		var sample Sample
		var ok bool
		select {
		case sample, ok = <-h.config.Samples:
			// return if channel has been closed
			if !ok {
				return tomb.ErrDying
			}
		case <-h.tomb.Dying():
			return tomb.ErrDying
		}

		// drop invalid samples
		if sample.Index < 0 || sample.Index >= h.engine.Population().Capacity() {
			if h.config.Errors != nil {
				h.config.Errors(ErrInvalidSample)
			}

			continue
		}

		// apply measurements
		h.engine.Observe(sample.Index, sample.Energy, sample.CacheMisses)

		// charge toll
		if sample.Toll > 0 {
			h.engine.Charge(sample.Index, sample.Toll)
		}
	}
}
