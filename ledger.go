package torus

import "sync"

// Ledger counts the irreversible operations performed by the process. The
// counter is monotonically non-decreasing for the lifetime of the process,
// there is no decrement operation. Per quine toll resets in the population
// are scoped to the quine's own copy of the count and never touch a ledger.
type Ledger struct {
	total uint64
	mutex sync.Mutex

	receivers sync.Map
}

// NewLedger will create and return a new ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Increment will record n irreversible operations and notify all subscribed
// receivers of the new total. Notifications are skipped if a receiver is not
// writable.
func (l *Ledger) Increment(n uint64) {
	// acquire mutex
	l.mutex.Lock()

	// increment total
	l.total += n
	total := l.total

	// release mutex
	l.mutex.Unlock()

	// send notifications to all receivers and skip full receivers
	l.receivers.Range(func(_, value interface{}) bool {
		select {
		case value.(chan<- uint64) <- total:
		default:
		}

		return true
	})
}

// Total will return the number of recorded irreversible operations.
func (l *Ledger) Total() uint64 {
	// get total
	l.mutex.Lock()
	total := l.total
	l.mutex.Unlock()

	return total
}

// Subscribe will subscribe the specified channel to changes of the total.
// Notifications will be skipped if the specified channel is not writable for
// some reason.
func (l *Ledger) Subscribe(receiver chan<- uint64) {
	l.receivers.Store(receiver, receiver)
}

// Unsubscribe will remove a previously subscribed receiver.
func (l *Ledger) Unsubscribe(receiver chan<- uint64) {
	l.receivers.Delete(receiver)
}
