// Package artifact turns verified segment clips into the final deliverables:
// the looping preview thumbnail, the animated contact sheet, and the static
// contact sheet image. Each builder is independent; one failing artifact
// never blocks the others, and a failed build removes its partial output so
// later runs see a clean slate.
//
// Split along these boundaries: builder.go, preview.go, animsheet.go,
// static.go.
package artifact
