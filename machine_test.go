package torus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMachineAdd(t *testing.T) {
	ledger := NewLedger()
	machine := NewMachine(ledger, 0)

	machine.Push(Encode(0.5))
	machine.Push(Encode(0.25))

	result, err := machine.Run([]byte{byte(OpAdd)})
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Executed)
	assert.Equal(t, uint64(1), result.LedgerDelta)
	assert.Equal(t, uint64(1), ledger.Total())

	top, ok := machine.Top()
	assert.True(t, ok)
	assert.Equal(t, 0.75, Decode(top))
	assert.Equal(t, 1, machine.Depth())
}

func TestMachineCheckpoint(t *testing.T) {
	ledger := NewLedger()
	machine := NewMachine(ledger, 0)

	result, err := machine.Run([]byte{byte(OpCheckpoint), byte(OpCheckpoint)})
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Executed)
	assert.Equal(t, uint64(2), result.LedgerDelta)
	assert.Equal(t, 0, machine.Depth())
}

func TestMachineHalt(t *testing.T) {
	ledger := NewLedger()
	machine := NewMachine(ledger, 0)

	// opcodes after the halt are never executed
	result, err := machine.Run([]byte{byte(OpCheckpoint), byte(OpHalt), byte(OpCheckpoint)})
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Executed)
	assert.Equal(t, uint64(1), result.LedgerDelta)
}

func TestMachineStackUnderflow(t *testing.T) {
	ledger := NewLedger()
	machine := NewMachine(ledger, 0)

	machine.Push(Encode(0.5))

	// partial effects before the fault remain
	result, err := machine.Run([]byte{byte(OpCheckpoint), byte(OpAdd)})
	assert.Equal(t, ErrStackUnderflow, err)
	assert.Equal(t, 1, result.Executed)
	assert.Equal(t, uint64(1), result.LedgerDelta)
	assert.Equal(t, 1, machine.Depth())
}

func TestMachineMalformedOpcode(t *testing.T) {
	ledger := NewLedger()
	machine := NewMachine(ledger, 0)

	result, err := machine.Run([]byte{byte(OpCheckpoint), 0x7B, byte(OpCheckpoint)})
	assert.Equal(t, ErrMalformedOpcode, err)
	assert.Equal(t, 1, result.Executed)
	assert.Equal(t, uint64(1), result.LedgerDelta)
}

func TestMachinePushBoundary(t *testing.T) {
	ledger := NewLedger()
	machine := NewMachine(ledger, 2)

	assert.True(t, machine.Push(1))
	assert.True(t, machine.Push(2))

	// values beyond the capacity are dropped at the boundary
	assert.False(t, machine.Push(3))
	assert.Equal(t, 2, machine.Depth())

	top, ok := machine.Top()
	assert.True(t, ok)
	assert.Equal(t, Num(2), top)
}

func TestMachineReset(t *testing.T) {
	ledger := NewLedger()
	machine := NewMachine(ledger, 0)

	machine.Push(1)
	machine.Push(2)
	ledger.Increment(5)

	machine.Reset()
	assert.Equal(t, 0, machine.Depth())

	// the ledger is never reset
	assert.Equal(t, uint64(5), ledger.Total())

	_, ok := machine.Top()
	assert.False(t, ok)
}

func TestMachineLedgerMonotonic(t *testing.T) {
	ledger := NewLedger()
	machine := NewMachine(ledger, 0)

	var last uint64
	sequences := [][]byte{
		{byte(OpCheckpoint)},
		{byte(OpAdd)},
		{byte(OpCheckpoint), byte(OpCheckpoint), byte(OpHalt), byte(OpCheckpoint)},
		{0x7B},
		{byte(OpHalt)},
	}

	for _, bytecode := range sequences {
		_, _ = machine.Run(bytecode)
		total := ledger.Total()
		assert.True(t, total >= last)
		last = total
	}

	// one checkpoint, a faulted add, two checkpoints before the halt
	assert.Equal(t, uint64(3), last)
}

func BenchmarkMachineRun(b *testing.B) {
	ledger := NewLedger()
	machine := NewMachine(ledger, 0)
	bytecode := []byte{byte(OpCheckpoint), byte(OpCheckpoint), byte(OpHalt)}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = machine.Run(bytecode)
	}
}
