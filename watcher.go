package torus

import "sync"

// WatcherConfig is used to configure a watcher.
type WatcherConfig struct {
	// The channel on which ledger totals are sent.
	Totals chan<- uint64
}

// Watcher streams ledger totals to a channel as irreversible operations are
// recorded. Intermediate totals may be skipped, the latest total is always
// delivered eventually.
type Watcher struct {
	ledger *Ledger
	config WatcherConfig

	notifications chan uint64
	baseline      uint64

	once   sync.Once
	closed chan struct{}
}

// NewWatcher will create and return a new watcher. Operations recorded after
// the watcher has been created are always delivered.
func NewWatcher(ledger *Ledger, config WatcherConfig) *Watcher {
	// check totals channel
	if config.Totals == nil {
		panic("torus: missing totals channel")
	}

	// prepare watcher
	w := &Watcher{
		ledger:        ledger,
		config:        config,
		notifications: make(chan uint64, 1),
		closed:        make(chan struct{}),
	}

	// subscribe before the worker starts and capture the baseline after, any
	// operation recorded from here on raises a pending notification
	w.ledger.Subscribe(w.notifications)
	w.baseline = w.ledger.Total()

	// run worker
	go w.worker()

	return w
}

// Close will close the watcher.
func (w *Watcher) Close() {
	w.once.Do(func() {
		close(w.closed)
	})
}

func (w *Watcher) worker() {
	// unsubscribe on exit
	defer w.ledger.Unsubscribe(w.notifications)

	// track last sent total
	last := w.baseline

	for {
		// wait for notification or close
		select {
		case <-w.notifications:
		case <-w.closed:
			return
		}

		// read current total, skipped notifications collapse into one read
		total := w.ledger.Total()
		if total <= last {
			continue
		}

		// send total
		select {
		case w.config.Totals <- total:
			last = total
		case <-w.closed:
			return
		}
	}
}
