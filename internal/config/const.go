// Package config hosts non-user-configurable parameters: internal tunables that affect algorithm
// behavior but are not exposed as cmd/bmc CLI flags.
package config

// ManagerReserveGranularity is a chunk size for growing the BE manager's physical variable arena.
// No code in this module reads it.
const ManagerReserveGranularity = 64

// InliningChunkSize is a bound on the AND-gate nodes one inlining pass would consider. No code in
// this module reads it; be.Manager.computeInlineSet walks the whole DAG of its argument.
const InliningChunkSize = 4096

// SATPollIntervalMillis is the same 50 ms as internal/sat.pollInterval, the pause between bounded
// Try calls in which a solve checks its context. No code reads this constant; pollInterval is
// defined on its own.
const SATPollIntervalMillis = 50

// EenSorenssonDefaultKMax is a default step bound for Een-Sørensson. No code reads it:
// driver.EenSorensson always runs up to its KMax field.
const EenSorenssonDefaultKMax = 64

// MaxLoopSearchWidth is a limit on the loop positions one all-loops query would build. No code
// reads it: internal/ltl.Tableau.Eval and internal/sbmc build one disjunct or el_i variable per
// position in [0,k) for any k.
const MaxLoopSearchWidth = 4096
