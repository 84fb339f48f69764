// Package naming turns source filenames into stable artifact locations.
//
// Types:
//   - ArtifactSet (per-video output directory plus the three artifact paths
//     and the scratch workspace inside it)
//   - CollisionResolver (in-run duplicate base arbiter with owner map and
//     counter)
//
// Functions:
//   - Sanitize(stem) → filesystem-safe ASCII base
//     NFKD fold, underscore substitution and collapse, edge trim, with a
//     fixed fallback for names that sanitize to nothing.
//   - Existing(paths) → the subset present on disk.
//
// Split along these boundaries: sanitize.go, paths.go, collision.go.
package naming
