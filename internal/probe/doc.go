// Package probe provides ffprobe-based media inspection and typed result
// structures. One JSON call per source file covers discovery-time screening;
// two narrow queries (ClipDuration, ClipInfo) serve the per-clip checks that
// happen during extraction and composition.
//
// Types:
//   - FormatInfo, VideoStream, AudioStream, MediaInfo, ClipGeometry
//
// Functions:
//   - (*Prober).Inspect(ctx, path) → *MediaInfo
//     Runs ffprobe -print_format json -show_format -show_streams and fails
//     closed when no decodable video stream is present.
//   - Screen(mi) → error
//     Rejects rotated sources, sources at or under MinDuration, and codecs
//     whose seek behavior breaks extraction.
//   - HashFile(path) → hex MD5, computed in 64 KiB chunks.
//
// Split along these boundaries: types.go, prober.go, screen.go, hash.go.
package probe
