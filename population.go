package torus

import (
	"sort"
	"sync"
)

// Quine is a population member carrying its own bytecode together with cost
// and lineage metadata. Quines are plain value records addressed by index,
// copying one is a full value copy without ownership ambiguity.
type Quine struct {
	// The creation time of the quine and the creation time of its source at
	// breeding. Parent stamps are advisory lineage hints, collisions are
	// possible and acceptable.
	BirthTime       uint64
	ParentBirthTime uint64

	// The irreversible operations charged to this quine. Reset to zero when
	// the quine is bred as a clone.
	LedgerToll uint64

	// The simulated energy cost, supplied by external instrumentation.
	Energy float64

	// The observed cache misses, supplied by external instrumentation.
	CacheMisses uint32

	// The hash of the source the bytecode was compiled from.
	ContentHash uint32

	// The compiled bytecode.
	Bytecode []byte
}

// PopulationConfig is used to configure a population.
type PopulationConfig struct {
	// The fixed number of quines. Must be divisible by four.
	Capacity int

	// The maximum bytecode length in bytes. Longer sequences are truncated.
	BytecodeLimit int

	// The time source used for lineage stamps.
	Now func() uint64
}

// Population is a fixed collection of quines subject to fitness ranking and
// quartile breeding. All quines exist from construction, breeding only ever
// overwrites records in place, the population never grows or shrinks.
type Population struct {
	config PopulationConfig
	quines []Quine

	mutex sync.Mutex
}

// NewPopulation will create and return a new population with all quines
// born at the current time.
func NewPopulation(config PopulationConfig) *Population {
	// set defaults
	if config.Capacity <= 0 {
		config.Capacity = 64
	}
	if config.BytecodeLimit <= 0 {
		config.BytecodeLimit = 128
	}
	if config.Now == nil {
		config.Now = Now
	}

	// check capacity
	if config.Capacity%4 != 0 {
		panic("torus: capacity not divisible by four")
	}

	// prepare quines
	quines := make([]Quine, config.Capacity)
	for i := range quines {
		quines[i].BirthTime = config.Now()
	}

	return &Population{
		config: config,
		quines: quines,
	}
}

// Capacity will return the number of quines.
func (p *Population) Capacity() int {
	return p.config.Capacity
}

// Quine will return a copy of the specified quine. An out of range index
// panics, indexes from untrusted inputs must be validated against the
// capacity first.
func (p *Population) Quine(i int) Quine {
	// check index
	p.check(i)

	// acquire mutex
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// copy record and bytecode
	quine := p.quines[i]
	quine.Bytecode = append([]byte(nil), quine.Bytecode...)

	return quine
}

// Fitness will return the fitness of the specified quine: the reciprocal of
// its combined energy, cache miss and ledger toll cost. Every term carries a
// small additive floor so the score stays finite. Higher is fitter. An out
// of range index panics.
func (p *Population) Fitness(i int) float64 {
	// check index
	p.check(i)

	// acquire mutex
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return fitness(&p.quines[i])
}

// Observe will record externally measured energy and cache miss cost for the
// specified quine. The engine never computes these inputs itself, they are
// opaque measurements from an instrumentation harness. An out of range
// index panics.
func (p *Population) Observe(i int, energy float64, misses uint32) {
	// check index
	p.check(i)

	// acquire mutex
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// save measurements
	p.quines[i].Energy = energy
	p.quines[i].CacheMisses = misses
}

// Charge will add irreversible operations to the specified quine's toll. An
// out of range index panics.
func (p *Population) Charge(i int, toll uint64) {
	// check index
	p.check(i)

	// acquire mutex
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// increment toll
	p.quines[i].LedgerToll += toll
}

// Load will install the provided bytecode and content hash in the specified
// quine. Bytecode beyond the configured limit is silently truncated at the
// boundary. An out of range index panics.
func (p *Population) Load(i int, hash uint32, bytecode []byte) {
	// check index
	p.check(i)

	// truncate bytecode
	if len(bytecode) > p.config.BytecodeLimit {
		bytecode = bytecode[:p.config.BytecodeLimit]
	}

	// acquire mutex
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// copy bytecode and record hash
	p.quines[i].Bytecode = append([]byte(nil), bytecode...)
	p.quines[i].ContentHash = hash
}

// Snapshot will return a copy of all quines.
func (p *Population) Snapshot() []Quine {
	// acquire mutex
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// copy records and bytecode
	quines := make([]Quine, len(p.quines))
	copy(quines, p.quines)
	for i := range quines {
		quines[i].Bytecode = append([]byte(nil), quines[i].Bytecode...)
	}

	return quines
}

// Restore will overwrite the population with the provided quines. Surplus
// records are dropped, missing records keep their current value. Bytecode is
// truncated to the configured limit.
func (p *Population) Restore(quines []Quine) {
	// acquire mutex
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// copy records up to capacity
	for i := 0; i < len(quines) && i < len(p.quines); i++ {
		quine := quines[i]

		// copy and truncate bytecode
		bytecode := quine.Bytecode
		if len(bytecode) > p.config.BytecodeLimit {
			bytecode = bytecode[:p.config.BytecodeLimit]
		}
		quine.Bytecode = append([]byte(nil), bytecode...)

		// save record
		p.quines[i] = quine
	}
}

// Breed will rank all quines by descending fitness, ties keeping their
// current order, and overwrite the weakest quartile in place with copies of
// the strongest quartile. A copy starts with a zero ledger toll, its parent
// birth time set to the birth time of its source as captured before the
// copy, and its own birth time set to the current time. The middle half of
// the population is left untouched and the original keeps its accumulated
// toll.
func (p *Population) Breed() {
	// acquire mutex
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// sort quines by descending fitness
	sort.SliceStable(p.quines, func(i, j int) bool {
		return fitness(&p.quines[i]) > fitness(&p.quines[j])
	})

	// overwrite the weakest quartile with resets of the strongest quartile
	quarter := len(p.quines) / 4
	for i := 3 * quarter; i < len(p.quines); i++ {
		src := &p.quines[i-3*quarter]

		// capture parent stamp before the copy
		parent := src.BirthTime

		// copy record and bytecode
		clone := *src
		clone.Bytecode = append([]byte(nil), src.Bytecode...)

		// reset toll and stamp lineage
		clone.LedgerToll = 0
		clone.ParentBirthTime = parent
		clone.BirthTime = p.config.Now()

		// save clone
		p.quines[i] = clone
	}
}

func (p *Population) check(i int) {
	// verify index bound
	if i < 0 || i >= len(p.quines) {
		panic("torus: invalid quine index")
	}
}

func fitness(q *Quine) float64 {
	// apply additive floors
	e := q.Energy + 1e-12
	m := float64(q.CacheMisses) + 1
	b := float64(q.LedgerToll) + 1

	return 1 / (e + 1e-6*m + 1e-9*b)
}
