package torus

import "errors"

// ErrStackUnderflow is returned when an addition is attempted with fewer than
// two values on the stack.
var ErrStackUnderflow = errors.New("torus: stack underflow")

// ErrMalformedOpcode is returned when an unknown byte is encountered in a
// bytecode sequence.
var ErrMalformedOpcode = errors.New("torus: malformed opcode")

// Result is the observable outcome of a bytecode run.
type Result struct {
	// The number of opcodes that completed their effect.
	Executed int

	// The irreversible operations charged during the run.
	LedgerDelta uint64
}

// Machine executes bytecode against a bounded value stack and a shared
// ledger. The stack is shared between runs, not per call state, machines are
// therefore not reentrant: concurrent hosts must serialize runs together
// with their ledger as a unit.
type Machine struct {
	ledger *Ledger
	stack  []Num
	sp     int
}

// NewMachine will create and return a new machine with the specified stack
// capacity.
func NewMachine(ledger *Ledger, capacity int) *Machine {
	// check ledger
	if ledger == nil {
		panic("torus: missing ledger")
	}

	// set default capacity
	if capacity <= 0 {
		capacity = 256
	}

	return &Machine{
		ledger: ledger,
		stack:  make([]Num, capacity),
	}
}

// Reset will empty the stack. The ledger is never reset.
func (m *Machine) Reset() {
	m.sp = 0
}

// Push will push a value onto the stack and return whether it has been
// stored. Values pushed beyond the stack capacity are silently dropped at
// the boundary.
func (m *Machine) Push(v Num) bool {
	// drop if full
	if m.sp == len(m.stack) {
		return false
	}

	// save value
	m.stack[m.sp] = v
	m.sp++

	return true
}

// Top will return the value on top of the stack.
func (m *Machine) Top() (Num, bool) {
	// check depth
	if m.sp == 0 {
		return 0, false
	}

	return m.stack[m.sp-1], true
}

// Depth will return the number of values on the stack.
func (m *Machine) Depth() int {
	return m.sp
}

// Run will execute the provided bytecode against the current stack and the
// shared ledger. Execution stops at the first halt, the first unknown opcode
// or the first addition attempted with fewer than two values on the stack.
// Partial stack and ledger effects are kept in any case, faults are reported
// through the returned error.
func (m *Machine) Run(bytecode []byte) (Result, error) {
	// capture total
	before := m.ledger.Total()

	// execute bytecode
	executed, err := m.run(bytecode)

	return Result{
		Executed:    executed,
		LedgerDelta: m.ledger.Total() - before,
	}, err
}

func (m *Machine) run(bytecode []byte) (int, error) {
	// execute opcodes in sequence
	for i, b := range bytecode {
		switch Opcode(b) {
		case OpAdd:
			// stop if not enough operands
			if m.sp < 2 {
				return i, ErrStackUnderflow
			}

			// pop operands and push saturating sum
			m.sp--
			m.stack[m.sp-1] = Add(m.stack[m.sp-1], m.stack[m.sp], m.ledger)
		case OpCheckpoint:
			// charge ledger
			m.ledger.Increment(1)
		case OpHalt:
			// stop execution
			return i + 1, nil
		default:
			// stop at malformed instruction
			return i, ErrMalformedOpcode
		}
	}

	return len(bytecode), nil
}
