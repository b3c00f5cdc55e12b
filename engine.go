package torus

import "sync"

// Config is used to configure an engine.
type Config struct {
	// The number of line slots.
	Lines int

	// The maximum line text length in bytes.
	TextLimit int

	// The maximum bytecode length in bytes.
	BytecodeLimit int

	// The value stack capacity.
	Stack int

	// The number of quines in the population.
	Population int

	// The time source used for lineage stamps.
	Now func() uint64
}

// Execution is the observable outcome of executing a line.
type Execution struct {
	// The decoded top of stack after the run, zero if the stack is empty.
	Top float64

	// The stack depth after the run.
	Depth int

	// The number of opcodes that completed their effect.
	Executed int

	// The irreversible operations charged during the run.
	LedgerDelta uint64

	// The ledger total after the run.
	LedgerTotal uint64
}

// Engine ties together the line store, the stack machine, the ledger and the
// population. The machine and its ledger runs are guarded as a unit since
// the stack is shared state, the population is guarded separately so a breed
// cannot tear a concurrent fitness read.
type Engine struct {
	config     Config
	ledger     *Ledger
	machine    *Machine
	store      *Store
	population *Population

	mutex sync.Mutex
}

// NewEngine will create and return a new engine.
func NewEngine(config Config) *Engine {
	// create ledger
	ledger := NewLedger()

	return &Engine{
		config:  config,
		ledger:  ledger,
		machine: NewMachine(ledger, config.Stack),
		store: NewStore(StoreConfig{
			Capacity:      config.Lines,
			TextLimit:     config.TextLimit,
			BytecodeLimit: config.BytecodeLimit,
		}),
		population: NewPopulation(PopulationConfig{
			Capacity:      config.Population,
			BytecodeLimit: config.BytecodeLimit,
			Now:           config.Now,
		}),
	}
}

// Ledger will return the shared ledger.
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

// WriteLine will store text in the specified line slot.
func (e *Engine) WriteLine(slot int, text string) {
	e.store.WriteLine(slot, text)
}

// Append will store text at the line cursor and return the written slot.
func (e *Engine) Append(text string) int {
	return e.store.Append(text)
}

// Line will return a copy of the specified line.
func (e *Engine) Line(slot int) Line {
	return e.store.Line(slot)
}

// Lines will return the number of line slots.
func (e *Engine) Lines() int {
	return e.store.Capacity()
}

// CompileIfChanged will recompile the specified slot if its text changed
// since the last compilation and return whether it did.
func (e *Engine) CompileIfChanged(slot int) bool {
	return e.store.CompileIfChanged(slot)
}

// CompileAll will recompile every changed slot, reset the machine stack and
// return the number of recompiled slots. This is the entry point for the
// "document saved" signal of an editing front end.
func (e *Engine) CompileAll() int {
	// compile slots
	changed := e.store.CompileAll()

	// reset stack
	e.mutex.Lock()
	e.machine.Reset()
	e.mutex.Unlock()

	return changed
}

// Push will encode the provided number and push it onto the machine stack.
// It returns whether the value has been stored or silently dropped at the
// stack boundary.
func (e *Engine) Push(x float64) bool {
	// acquire mutex
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return e.machine.Push(Encode(x))
}

// ResetStack will empty the machine stack. The ledger keeps its total.
func (e *Engine) ResetStack() {
	// acquire mutex
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.machine.Reset()
}

// Execute will run the bytecode of the specified slot against the shared
// stack and ledger. The stack is intentionally not reset first, residual
// values from previous runs and pushes remain available as operands. Faults
// stop the run and are reported through the error, partial effects remain.
func (e *Engine) Execute(slot int) (Execution, error) {
	// get line
	line := e.store.Line(slot)

	// acquire mutex
	e.mutex.Lock()
	defer e.mutex.Unlock()

	// run bytecode
	result, err := e.machine.Run(line.Bytecode)

	// read top of stack
	top, _ := e.machine.Top()

	return Execution{
		Top:         Decode(top),
		Depth:       e.machine.Depth(),
		Executed:    result.Executed,
		LedgerDelta: result.LedgerDelta,
		LedgerTotal: e.ledger.Total(),
	}, err
}

// Breed will run one breeding round on the population.
func (e *Engine) Breed() {
	e.population.Breed()
}

// Fitness will return the fitness of the specified quine. An out of range
// index panics.
func (e *Engine) Fitness(i int) float64 {
	return e.population.Fitness(i)
}

// Observe will record externally measured energy and cache miss cost for
// the specified quine. An out of range index panics, untrusted indexes are
// validated and reported by the harvester instead.
func (e *Engine) Observe(i int, energy float64, misses uint32) {
	e.population.Observe(i, energy, misses)
}

// Charge will add irreversible operations to the specified quine's toll. An
// out of range index panics.
func (e *Engine) Charge(i int, toll uint64) {
	e.population.Charge(i, toll)
}

// Seed will install the compiled bytecode and content hash of the specified
// line slot in the specified quine. This is the only path by which bytecode
// enters the population. An out of range quine index panics, line slots wrap
// around as usual.
func (e *Engine) Seed(i int, slot int) {
	// get line
	line := e.store.Line(slot)

	// install bytecode
	e.population.Load(i, line.LastHash, line.Bytecode)
}

// Population will return the quine population.
func (e *Engine) Population() *Population {
	return e.population
}
