package torus

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var wireEncMode cbor.EncMode

func init() {
	// canonical mode yields deterministic encodings
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("torus: failed to create CBOR enc mode: %v", err))
	}
	wireEncMode = em
}

// Snapshot captures a population for interchange between cooperating
// processes. Bytecode travels as a byte string which preserves the literal
// opcode values. Snapshots are in-flight data, nothing in the engine writes
// them to disk.
type Snapshot struct {
	// The capture time.
	Time uint64

	// The ledger total at capture.
	LedgerTotal uint64

	// The quines.
	Quines []Quine
}

// MarshalQuine will serialize a quine to canonical CBOR bytes.
func MarshalQuine(q *Quine) ([]byte, error) {
	return wireEncMode.Marshal(q)
}

// UnmarshalQuine will deserialize a quine from CBOR bytes.
func UnmarshalQuine(data []byte) (*Quine, error) {
	var q Quine
	if err := cbor.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("torus: unmarshal quine: %w", err)
	}

	return &q, nil
}

// MarshalSnapshot will serialize a snapshot to canonical CBOR bytes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return wireEncMode.Marshal(s)
}

// UnmarshalSnapshot will deserialize a snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("torus: unmarshal snapshot: %w", err)
	}

	return &s, nil
}

// Snapshot will capture the current population and ledger total.
func (e *Engine) Snapshot() Snapshot {
	// resolve time source
	now := e.config.Now
	if now == nil {
		now = Now
	}

	return Snapshot{
		Time:        now(),
		LedgerTotal: e.ledger.Total(),
		Quines:      e.population.Snapshot(),
	}
}

// Adopt will overwrite the population with the quines of the provided
// snapshot. The ledger is never adopted, totals from other processes only
// exist as per quine tolls.
func (e *Engine) Adopt(s *Snapshot) {
	e.population.Restore(s.Quines)
}
