// Package cutplan decides where to sample a video and how the samples are
// laid out. It is pure computation, no external processes.
//
// Types:
//   - Plan (cut positions plus the sheet Layout)
//   - Layout (cell geometry, effective orientation, row math, filter strings)
//
// Functions:
//   - Points(n, blacklist) → n ascending fractions of the source duration,
//     spread evenly between fixed boundaries, dodging blacklisted positions
//     by nudging the boundaries or shrinking the window a bounded number of
//     times before giving up.
//   - Build(cfg, vertical) → *Plan for one source video.
//
// Split along these boundaries: types.go, points.go, layout.go.
package cutplan
