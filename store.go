package torus

import "sync"

// Line is a single line of source text together with its compiled form. The
// bytecode is always the compiled form of the text as of the last successful
// compilation of its slot.
type Line struct {
	// The source text.
	Text string

	// The hash of the text at the last compilation.
	LastHash uint32

	// The compiled bytecode.
	Bytecode []byte
}

// StoreConfig is used to configure a store.
type StoreConfig struct {
	// The number of line slots.
	Capacity int

	// The maximum text length in bytes. Longer texts are truncated.
	TextLimit int

	// The maximum bytecode length in bytes. Longer sequences are truncated.
	BytecodeLimit int
}

// Store holds a fixed circular collection of source lines and recompiles
// them lazily: a slot is only tokenized again when the hash of its text
// differs from the hash recorded at its last compilation.
type Store struct {
	config StoreConfig
	lines  []Line
	cursor int

	mutex sync.RWMutex
}

// NewStore will create and return a new store.
func NewStore(config StoreConfig) *Store {
	// set defaults
	if config.Capacity <= 0 {
		config.Capacity = 1024
	}
	if config.TextLimit <= 0 {
		config.TextLimit = 256
	}
	if config.BytecodeLimit <= 0 {
		config.BytecodeLimit = 128
	}

	return &Store{
		config: config,
		lines:  make([]Line, config.Capacity),
	}
}

// WriteLine will store text in the specified slot. Slot indexes wrap around
// the capacity. Text beyond the configured limit is silently truncated at
// the boundary.
func (s *Store) WriteLine(slot int, text string) {
	// acquire mutex
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// truncate text
	if len(text) > s.config.TextLimit {
		text = text[:s.config.TextLimit]
	}

	// save text
	s.lines[s.wrap(slot)].Text = text
}

// Append will store text at the cursor, advance the cursor with wraparound
// and return the written slot. A wrapped around cursor overwrites the oldest
// line.
func (s *Store) Append(text string) int {
	// acquire mutex
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// truncate text
	if len(text) > s.config.TextLimit {
		text = text[:s.config.TextLimit]
	}

	// save text at cursor
	slot := s.cursor
	s.lines[slot].Text = text

	// advance cursor
	s.cursor = s.wrap(s.cursor + 1)

	return slot
}

// Line will return a copy of the specified line.
func (s *Store) Line(slot int) Line {
	// acquire mutex
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	// copy line and bytecode
	line := s.lines[s.wrap(slot)]
	line.Bytecode = append([]byte(nil), line.Bytecode...)

	return line
}

// CompileIfChanged will hash the slot's current text and recompile it if the
// hash differs from the recorded one. It returns whether the slot has been
// recompiled.
func (s *Store) CompileIfChanged(slot int) bool {
	// acquire mutex
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.compile(s.wrap(slot))
}

// CompileAll will compile every slot and return the number of slots that
// have been recompiled. This is the batch entry point invoked when a whole
// document has been saved.
func (s *Store) CompileAll() int {
	// acquire mutex
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// compile all slots
	changed := 0
	for i := range s.lines {
		if s.compile(i) {
			changed++
		}
	}

	return changed
}

// Capacity will return the number of slots.
func (s *Store) Capacity() int {
	return s.config.Capacity
}

func (s *Store) compile(slot int) bool {
	// get line
	line := &s.lines[slot]

	// hash text
	h := Hash(line.Text)

	// skip if unchanged
	if h == line.LastHash {
		return false
	}

	// tokenize text and record hash
	line.Bytecode = Tokenize(line.Text, s.config.BytecodeLimit)
	line.LastHash = h

	return true
}

func (s *Store) wrap(i int) int {
	// wrap into capacity
	i %= s.config.Capacity
	if i < 0 {
		i += s.config.Capacity
	}

	return i
}
