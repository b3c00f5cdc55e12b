package torus

import "strings"

// Keyword maps a source word to the opcode it compiles to.
type Keyword struct {
	Word string
	Op   Opcode
}

// keywords are matched by literal prefix, not by word boundary. A token like
// "quinexyz" therefore compiles to a checkpoint followed by stray text that
// stops tokenization of the line.
var keywords = []Keyword{
	{Word: "add", Op: OpAdd},
	{Word: "quine", Op: OpCheckpoint},
}

// Keywords will return the keyword table of the compiler.
func Keywords() []Keyword {
	return append([]Keyword(nil), keywords...)
}

// Hash will compute the djb2 hash of the provided text: h starts at 5381 and
// becomes h*33 + b for every byte, using 32 bit wraparound arithmetic. The
// hash of the empty string is 5381. The exact recurrence is part of the
// stable format and used for golden expectations.
func Hash(text string) uint32 {
	// compute recurrence
	h := uint32(5381)
	for i := 0; i < len(text); i++ {
		h = h<<5 + h + uint32(text[i])
	}

	return h
}

// Tokenize will compile the provided text to bytecode. Tokens are matched
// against the keyword table by literal prefix with spaces and tabs skipped
// in between. The first token that matches no keyword stops tokenization and
// the bytecode emitted so far is the result. At most limit bytes are
// emitted, further opcodes are silently dropped at the boundary. A zero or
// negative limit emits without bound.
func Tokenize(text string, limit int) []byte {
	// prepare bytecode
	var bytecode []byte

	// scan text
	scan(text, func(op Opcode) {
		// drop if limit is reached
		if limit > 0 && len(bytecode) >= limit {
			return
		}

		// emit opcode
		bytecode = append(bytecode, byte(op))
	})

	return bytecode
}

// Residue will return the untokenized remainder of the provided text: the
// suffix starting at the first token that matches no keyword. An empty
// residue means the whole text tokenizes.
func Residue(text string) string {
	stop := scan(text, func(Opcode) {})
	return text[stop:]
}

func scan(text string, emit func(Opcode)) int {
	// match keywords until the text is exhausted or a token mismatches
	i := 0
	for i < len(text) {
		// skip whitespace
		for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
			i++
		}

		// stop at end of text
		if i >= len(text) {
			break
		}

		// match keyword prefix
		matched := false
		for _, kw := range keywords {
			if strings.HasPrefix(text[i:], kw.Word) {
				emit(kw.Op)
				i += len(kw.Word)
				matched = true
				break
			}
		}

		// stop at first unmatched token
		if !matched {
			break
		}
	}

	return i
}
