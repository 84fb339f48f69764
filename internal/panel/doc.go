// Package panel renders the metadata header that tops both contact sheets.
//
// Types:
//   - Field (one key/value row of the panel)
//   - Renderer (draws the panel image and encodes its looping video form)
//
// Functions:
//   - Fields(info) → the display rows: File, Title, Size, Resolution,
//     Duration, Video, Audio, plus MD5 when a hash was computed.
//   - ResolveFontPath(configured) → first usable TrueType font, probing
//     common distro locations when the configured one is absent.
//
// Values wider than the panel wrap on word boundaries against real font
// metrics; words wider than a full line are broken by character count.
// When no TrueType font can be found the built-in bitmap face stands in.
//
// Split along these boundaries: font.go, wrap.go, panel.go.
package panel
