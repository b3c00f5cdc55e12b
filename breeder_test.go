package torus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreeder(t *testing.T) {
	engine := NewEngine(Config{Lines: 4, Population: 4})

	slot := engine.Append("quine")
	engine.CompileIfChanged(slot)

	// grade quines: index three is the weakest
	for i := 0; i < 4; i++ {
		engine.Seed(i, slot)
		engine.Observe(i, float64(i), 0)
	}

	rounds := make(chan struct{}, 16)

	breeder := NewBreeder(engine, BreederConfig{
		Interval: 10 * time.Millisecond,
		OnBreed: func() {
			rounds <- struct{}{}
		},
	})

	// wait for two rounds
	<-rounds
	<-rounds

	breeder.Close()

	// the weakest quine has been replaced by a copy of the strongest
	assert.Equal(t, 0.0, engine.Population().Quine(3).Energy)
}

func TestBreederMissingInterval(t *testing.T) {
	assert.PanicsWithValue(t, "torus: missing interval", func() {
		NewBreeder(nil, BreederConfig{})
	})
}

func TestBreederClose(t *testing.T) {
	engine := NewEngine(Config{Lines: 4, Population: 4})

	breeder := NewBreeder(engine, BreederConfig{
		Interval: time.Minute,
	})

	// closing does not wait for the interval
	done := make(chan struct{})
	go func() {
		breeder.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("close timed out")
	}
}
