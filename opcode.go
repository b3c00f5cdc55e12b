package torus

import (
	"fmt"
	"strings"
)

// Opcode represents a single bytecode instruction. The byte values are a
// closed and stable format, any bytecode interchange must preserve them.
type Opcode byte

const (
	// OpAdd pops two values and pushes their saturating sum. The addition
	// charges one irreversible operation to the ledger. Execution stops if
	// fewer than two values are on the stack.
	OpAdd Opcode = 0x01

	// OpCheckpoint charges one irreversible operation to the ledger and has
	// no stack effect.
	OpCheckpoint Opcode = 0x20

	// OpHalt stops execution of the current bytecode sequence.
	OpHalt Opcode = 0xFF
)

// String will return the mnemonic of the opcode or the hex value if the
// opcode is unknown.
func (o Opcode) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpCheckpoint:
		return "quine"
	case OpHalt:
		return "halt"
	}

	return fmt.Sprintf("0x%02X", byte(o))
}

// Disassemble will return the space separated mnemonics of the provided
// bytecode sequence.
func Disassemble(bytecode []byte) string {
	// collect mnemonics
	list := make([]string, 0, len(bytecode))
	for _, b := range bytecode {
		list = append(list, Opcode(b).String())
	}

	return strings.Join(list, " ")
}
