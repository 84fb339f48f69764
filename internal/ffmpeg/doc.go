// Package ffmpeg builds and executes ffmpeg/ffprobe commands with typed
// per-operation argument builders and a shared executor.
//
// Types:
//   - Result (stdout, stderr, error of one invocation)
//   - TranscodeService / ProbeService (the two call surfaces components
//     depend on; tests substitute fakes)
//   - Exec (real implementation: binary paths, per-call timeout,
//     verbose stderr tee)
//   - One builder struct per operation: Extract, Overlay, Concat, Stack,
//     Synth, Anim, Loop, Frame, Downscale. Each validates its fields and
//     returns the argument slice via Args().
//
// Functions:
//   - ProbeArgs / DurationArgs / ClipInfoArgs → []string
//     ffprobe queries (full JSON, single duration, stream geometry).
//   - Hint(stderr) → string
//     Maps known ffmpeg failure chatter to a short operator hint.
//
// Split along these boundaries: args.go, service.go, errors.go.
package ffmpeg
