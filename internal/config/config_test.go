package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/library", "/media/library"},
		{"single trailing slash", "/media/library/", "/media/library"},
		{"multiple trailing slashes", "/media/library///", "/media/library"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate_Timestamps(t *testing.T) {
	tests := []struct {
		name    string
		mode    TimestampMode
		wantErr bool
	}{
		{"off is valid", TimestampsOff, false},
		{"all is valid", TimestampsAll, false},
		{"sheet is valid", TimestampsSheet, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "everywhere", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true // skip path requirement
			cfg.Timestamps = tt.mode
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_SheetFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  SheetFormat
		wantErr bool
	}{
		{"png is valid", SheetPNG, false},
		{"jpg is valid", SheetJPG, false},
		{"jpeg is valid", SheetJPEG, false},
		{"empty is invalid", "", true},
		{"webp is invalid", "webp", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true
			cfg.SheetFormat = tt.format
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_GridCombination(t *testing.T) {
	tests := []struct {
		name    string
		grid    int
		count   int
		wantErr bool
	}{
		{"grid 4 default count", 4, 16, false},
		{"grid 4 lower bound", 4, 12, false},
		{"grid 4 upper bound", 4, 28, false},
		{"grid 4 not divisible", 4, 18, true},
		{"grid 4 below bound", 4, 8, true},
		{"grid 4 above bound", 4, 32, true},
		{"grid 3 valid", 3, 12, false},
		{"grid 3 lower bound", 3, 9, false},
		{"grid 3 upper bound", 3, 30, false},
		{"grid 3 not divisible", 3, 16, true},
		{"grid 2 invalid", 2, 16, true},
		{"grid 5 invalid", 5, 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true
			cfg.GridWidth = tt.grid
			cfg.SegmentCount = tt.count
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Artifacts(t *testing.T) {
	tests := []struct {
		name      string
		artifacts []ArtifactType
		wantErr   bool
	}{
		{"all three", []ArtifactType{ArtifactPreview, ArtifactSheet, ArtifactStatic}, false},
		{"single", []ArtifactType{ArtifactStatic}, false},
		{"empty", nil, true},
		{"unknown", []ArtifactType{"gif"}, true},
		{"duplicate", []ArtifactType{ArtifactPreview, ArtifactPreview}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true
			cfg.Artifacts = tt.artifacts
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Blacklist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = true
	cfg.Blacklist = []float64{0.05, 0.5, 0.98}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error for in-range blacklist: %v", err)
	}

	cfg.Blacklist = []float64{0.5, 1.0}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject blacklist entry 1.0")
	}

	cfg.Blacklist = []float64{0}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject blacklist entry 0")
	}
}

func TestValidate_RequiresPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = false
	cfg.InputDir = ""
	cfg.OutputDir = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when paths are empty and CheckOnly is false")
	}

	cfg.InputDir = "/in"
	cfg.OutputDir = "/out"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestValidate_AnalyzeNeedsInputOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AnalyzeOnly = true
	cfg.InputDir = "/in"

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should pass with input only in analyze mode, got: %v", err)
	}

	cfg.InputDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail in analyze mode without input_dir")
	}
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		wantErr bool
	}{
		{"separate directories", "/media/in", "/media/out", false},
		{"output equals input", "/media/lib", "/media/lib", true},
		{"output inside input", "/media/lib", "/media/lib/previews", true},
		{"output is parent of input", "/media/lib/sub", "/media/lib", false},
		{"similar prefix not nested", "/media/library", "/media/library2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ValidatePaths(tt.input, tt.output)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaths(%q, %q) error = %v, wantErr %v",
					tt.input, tt.output, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SegmentCount != 16 {
		t.Errorf("default SegmentCount = %d, want 16", cfg.SegmentCount)
	}
	if cfg.SegmentDuration != 1.5 {
		t.Errorf("default SegmentDuration = %v, want 1.5", cfg.SegmentDuration)
	}
	if cfg.GridWidth != 4 {
		t.Errorf("default GridWidth = %d, want 4", cfg.GridWidth)
	}
	if cfg.Timestamps != TimestampsSheet {
		t.Errorf("default Timestamps = %q, want %q", cfg.Timestamps, TimestampsSheet)
	}
	if cfg.SheetFormat != SheetPNG {
		t.Errorf("default SheetFormat = %q, want %q", cfg.SheetFormat, SheetPNG)
	}
	if len(cfg.Artifacts) != 3 {
		t.Errorf("default Artifacts = %v, want all three", cfg.Artifacts)
	}
	if cfg.IgnoreExisting {
		t.Error("default IgnoreExisting should be false")
	}
	if cfg.ToolTimeout != 10*time.Minute {
		t.Errorf("default ToolTimeout = %v, want 10m", cfg.ToolTimeout)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail on defaults without paths")
	}
}

func TestWantArtifact(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Artifacts = []ArtifactType{ArtifactPreview, ArtifactStatic}

	if !cfg.WantArtifact(ArtifactPreview) {
		t.Error("WantArtifact(preview) should be true")
	}
	if cfg.WantArtifact(ArtifactSheet) {
		t.Error("WantArtifact(sheet) should be false")
	}
	if !cfg.WantArtifact(ArtifactStatic) {
		t.Error("WantArtifact(static) should be true")
	}
}

func TestStillExt_FoldsJpeg(t *testing.T) {
	cfg := DefaultConfig()

	cfg.SheetFormat = SheetPNG
	if got := cfg.StillExt(); got != "png" {
		t.Errorf("StillExt() = %q, want png", got)
	}
	cfg.SheetFormat = SheetJPG
	if got := cfg.StillExt(); got != "jpg" {
		t.Errorf("StillExt() = %q, want jpg", got)
	}
	cfg.SheetFormat = SheetJPEG
	if got := cfg.StillExt(); got != "jpg" {
		t.Errorf("StillExt() = %q, want jpg (jpeg folds into jpg)", got)
	}
}

func TestLoadFile_AppliesPresentKeysOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridmaster.yaml")
	doc := `
segment_count: 12
grid_width: 3
blacklist: [0.25, 0.5]
timestamps: all
exclude:
  - sample.mp4
tool_timeout: 2m
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	if cfg.SegmentCount != 12 {
		t.Errorf("SegmentCount = %d, want 12", cfg.SegmentCount)
	}
	if cfg.GridWidth != 3 {
		t.Errorf("GridWidth = %d, want 3", cfg.GridWidth)
	}
	if len(cfg.Blacklist) != 2 || cfg.Blacklist[0] != 0.25 {
		t.Errorf("Blacklist = %v, want [0.25 0.5]", cfg.Blacklist)
	}
	if cfg.Timestamps != TimestampsAll {
		t.Errorf("Timestamps = %q, want all", cfg.Timestamps)
	}
	if len(cfg.Exclusions) != 1 || cfg.Exclusions[0] != "sample.mp4" {
		t.Errorf("Exclusions = %v, want [sample.mp4]", cfg.Exclusions)
	}
	if cfg.ToolTimeout != 2*time.Minute {
		t.Errorf("ToolTimeout = %v, want 2m", cfg.ToolTimeout)
	}

	// Keys absent from the file keep their defaults.
	if cfg.SegmentDuration != 1.5 {
		t.Errorf("SegmentDuration = %v, want default 1.5", cfg.SegmentDuration)
	}
	if cfg.SheetFormat != SheetPNG {
		t.Errorf("SheetFormat = %q, want default png", cfg.SheetFormat)
	}

	// The combination from the file validates as a whole.
	cfg.CheckOnly = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after LoadFile: %v", err)
	}
}

func TestLoadFile_BadTimeout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("tool_timeout: soon\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadFile(path, &cfg); err == nil {
		t.Error("LoadFile() should reject an unparseable tool_timeout")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadFile("/nonexistent/gridmaster.yaml", &cfg); err == nil {
		t.Error("LoadFile() should fail for a missing file")
	}
}
