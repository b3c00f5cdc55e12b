package torus

import (
	"time"

	"gopkg.in/tomb.v2"
)

// BreederConfig is used to configure a breeder.
type BreederConfig struct {
	// The interval of breeding rounds.
	Interval time.Duration

	// The callback invoked after every breeding round.
	OnBreed func()
}

// Breeder will periodically run breeding rounds on the engine's population,
// replacing the weakest quartile with fitness-reset clones of the strongest
// quartile.
type Breeder struct {
	engine *Engine
	config BreederConfig

	tomb tomb.Tomb
}

// NewBreeder will create and return a new breeder.
func NewBreeder(engine *Engine, config BreederConfig) *Breeder {
	// check interval
	if config.Interval <= 0 {
		panic("torus: missing interval")
	}

	// prepare breeder
	b := &Breeder{
		engine: engine,
		config: config,
	}

	// run worker
	b.tomb.Go(b.worker)

	return b
}

// Close will close the breeder.
func (b *Breeder) Close() {
	b.tomb.Kill(nil)
	_ = b.tomb.Wait()
}

func (b *Breeder) worker() error {
	for {
		// wait for trigger or close
		select {
		case <-time.After(b.config.Interval):
		case <-b.tomb.Dying():
			return tomb.ErrDying
		}

		// run breeding round
		b.engine.Breed()

		// yield notification
		if b.config.OnBreed != nil {
			b.config.OnBreed()
		}
	}
}
