package naming

import (
	"os"
	"path/filepath"
)

// Artifact filename suffixes, fixed so downstream tooling can find outputs
// without consulting this program.
const (
	previewSuffix = "_preview.webp"
	sheetSuffix   = "_preview_sheet.webp"
	staticStem    = "_preview_sheet."
	workspaceMark = "-temp"
)

// ArtifactSet locates every output belonging to one source video. All
// artifacts live in a per-video directory under the destination root, and
// the scratch workspace sits inside it so a single remove cleans up.
type ArtifactSet struct {
	Base string // sanitized source stem, collision-resolved
	Dir  string // <dest>/<Base>
}

// NewArtifactSet builds the artifact set for a claimed base under destRoot.
func NewArtifactSet(destRoot, base string) ArtifactSet {
	return ArtifactSet{Base: base, Dir: filepath.Join(destRoot, base)}
}

// PreviewPath is the animated thumbnail output.
func (a ArtifactSet) PreviewPath() string {
	return filepath.Join(a.Dir, a.Base+previewSuffix)
}

// SheetPath is the animated contact sheet output.
func (a ArtifactSet) SheetPath() string {
	return filepath.Join(a.Dir, a.Base+sheetSuffix)
}

// StaticPath is the still contact sheet output for the given extension
// ("png" or "jpg").
func (a ArtifactSet) StaticPath(ext string) string {
	return filepath.Join(a.Dir, a.Base+staticStem+ext)
}

// WorkspaceDir is the scratch directory for intermediate clips and frames.
func (a ArtifactSet) WorkspaceDir() string {
	return filepath.Join(a.Dir, a.Base+workspaceMark)
}

// Existing filters paths down to those present on disk.
func Existing(paths []string) []string {
	var found []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		}
	}
	return found
}
