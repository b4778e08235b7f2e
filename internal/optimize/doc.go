// Package optimize implements the gatefold circuit rewrite passes.
//
// The centerpiece is Resynth1Q - it collects maximal runs of single-qubit
// gates, accumulates each run into one 2x2 unitary, asks the Euler kernel
// for the best replacement over the eligible decomposer families, and
// substitutes when the replacement wins.
//
// ARCHITECTURE:
//
// Pass Pipeline:
// Passes rewrite a circuit in place and run in a fixed order under a
// Pipeline. Every pipeline invocation gets a run token so interleaved runs
// can be told apart in logs. A failing pass aborts the pipeline.
//
// Resynth1Q Flow:
//
//  1. Control-flow blocks rewritten first, recursively, with block qubits
//     mapped back to the physical qubits of the carrier node
//  2. Collect1QRuns gathers maximal single-qubit runs per qubit
//  3. Each run accumulated into a single unitary
//  4. Euler kernel synthesizes one candidate per eligible family and keeps
//     the best score
//  5. Substitution policy decides replace-or-keep
//  6. Replacement inserted before the run head, originals removed, global
//     phase updated
//
// The pass is designed for correctness and determinism, not throughput.
// Runs are processed in ascending qubit order and candidate families in
// declaration order; no randomness, no concurrency.
//
// CRITICAL PATTERNS:
//
// Lexicographic Scores:
// Candidates compare by (error probability, gate count). With no device
// model every error is zero, so comparison degrades to plain gate count
// and only strictly shorter replacements win.
//
// Calibration Safety:
// Gates with a pulse calibration never count as out-of-basis and a fully
// calibrated run is only replaced by a candidate whose error is zero within
// the configured tolerance. A bespoke pulse implementation outranks nominal
// basis membership.
package optimize
