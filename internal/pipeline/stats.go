package pipeline

// RunStats aggregates per-video outcomes across a batch. Skipped videos
// (idempotency gate) are counted apart from processed ones, so
// Found = Processed + Skipped + not-reached (after an interrupt).
type RunStats struct {
	Found     int
	Processed int
	Succeeded int
	Failed    int
	Skipped   int
}

// AnyFailed reports whether at least one video failed. The command exits
// nonzero in that case even when the rest of the batch succeeded.
func (s *RunStats) AnyFailed() bool {
	return s.Failed > 0
}
