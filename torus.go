// Package torus implements a minimal incremental execution engine: a bounded
// store of source lines, each lazily recompiled to a tiny bytecode when its
// content hash changes, executed on a fixed-point stack machine that charges
// every irreversible operation to a shared ledger. On top sits a fixed
// population of quines that is periodically ranked by a fitness score
// blending simulated energy, cache misses and ledger toll, with the least fit
// quartile replaced in place by clones of the most fit quartile.
package torus

/*
Execution Architecture

Source text lives in a fixed circular collection of line slots. Compiling a
slot hashes its text first and only tokenizes again when the hash differs
from the previously recorded one, unchanged lines are a no-op.

The machine runs compiled bytecode against a bounded value stack. There are
no control flow opcodes, every run is bounded by the bytecode length. The
ledger is shared across runs and only ever counts up, the stack is shared
state as well and therefore machines are not reentrant.

The population never grows or shrinks. Breeding ranks all quines by fitness
and overwrites the weakest quartile with fitness-reset copies of the
strongest quartile, recording lineage through birth timestamps.
*/
