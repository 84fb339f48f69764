// Package pipeline drives a batch: candidate discovery, the per-video
// processing state machine, and the closing summary.
//
// Types:
//   - Runner (batch loop plus per-video orchestration; owns the prober,
//     extractor, artifact builder, and collision resolver)
//   - Stage / FileResult (how far one video got, and why it stopped)
//   - RunStats (found/processed/succeeded/failed/skipped counters)
//
// Per video the Runner applies the idempotency gate, probes and screens the
// source, plans cut points, extracts segments into the workspace, builds the
// requested artifacts independently, removes the workspace, and optionally
// moves the source into its artifact directory. One video's failure never
// stops the batch; a canceled context does.
//
// Split along these boundaries: discover.go, runner.go, stats.go, analyze.go.
package pipeline
