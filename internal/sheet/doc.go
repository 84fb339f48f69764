// Package sheet stitches segment clips into the grid video both contact
// sheets derive from. Clips are stacked into rows of the planned grid
// width, a short tail row is padded with synthesized black clips matching
// its first member, and the info-panel clip is stacked on top. Grid-4
// landscape sheets get a final bounded-width downscale, kept best-effort.
package sheet
