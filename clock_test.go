package torus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNow(t *testing.T) {
	first := Now()
	second := Now()
	third := Now()

	// stamps are strictly increasing
	assert.True(t, second > first)
	assert.True(t, third > second)
}

func TestNowConcurrent(t *testing.T) {
	stamps := make(chan uint64, 100)

	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 10; j++ {
				stamps <- Now()
			}
		}()
	}

	// collect stamps
	seen := map[uint64]bool{}
	for i := 0; i < 100; i++ {
		stamp := <-stamps
		assert.False(t, seen[stamp])
		seen[stamp] = true
	}
}

func TestTime(t *testing.T) {
	stamp := Now()
	assert.True(t, time.Since(Time(stamp)) < time.Second)
}

func BenchmarkNow(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		Now()
	}
}
