package torus

import (
	"sync"
	"time"
)

var nanos uint64
var clockMutex sync.Mutex

// Now will return a locally monotonic wall-clock reading in nanoseconds.
// Readings are strictly increasing within the process: a reading that is not
// after the previous one is bumped by a single nanosecond. Lineage uses
// these readings as advisory hints, not as unique keys, so the occasional
// bumped reading is acceptable.
func Now() uint64 {
	// acquire mutex
	clockMutex.Lock()

	// get current time
	now := uint64(time.Now().UnixNano())

	// bump if not after the last reading
	if now <= nanos {
		now = nanos + 1
	}

	// save reading
	nanos = now

	// release mutex
	clockMutex.Unlock()

	return now
}

// Time will convert a clock reading back to a wall-clock time.
func Time(stamp uint64) time.Time {
	return time.Unix(0, int64(stamp))
}
