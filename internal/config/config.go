// Package config holds runtime configuration: defaults, the optional YAML
// config file, CLI flag binding, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// --- Enum types for validated string fields ---

// TimestampMode controls where the HH:MM:SS label is burned into segments.
type TimestampMode string

const (
	TimestampsOff   TimestampMode = "off"   // No timestamp overlay anywhere.
	TimestampsAll   TimestampMode = "all"   // Overlay on the animated preview and both sheets.
	TimestampsSheet TimestampMode = "sheet" // Overlay on sheets only; preview stays clean (default).
)

// SheetFormat is the raster format of the static contact sheet.
type SheetFormat string

const (
	SheetPNG  SheetFormat = "png"  // Lossless, optimized (default).
	SheetJPG  SheetFormat = "jpg"  // JPEG quality 85.
	SheetJPEG SheetFormat = "jpeg" // Alias for jpg.
)

// ArtifactType names one of the three outputs a run can produce.
type ArtifactType string

const (
	ArtifactPreview ArtifactType = "preview" // Animated thumbnail.
	ArtifactSheet   ArtifactType = "sheet"   // Animated contact sheet.
	ArtifactStatic  ArtifactType = "static"  // Static contact sheet with info panel.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stderr is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [LoadFile] and CLI flags, validated once, and then
// treated as read-only for the duration of the run. Fields are grouped by
// concern with inline documentation of defaults and fixed values.
type Config struct {
	// Paths (set from positional args).
	InputDir  string
	OutputDir string

	// Sampling.
	SegmentCount    int       // Default: 16. Constrained by GridWidth (see Validate).
	SegmentDuration float64   // Default: 1.5 seconds per segment.
	Blacklist       []float64 // Cut-point fractions to avoid, rounded to 3 decimals.

	// Layout.
	GridWidth int  // Segments per sheet row. Default: 4 (3 or 4 allowed).
	BlackBars bool // Pad vertical sources into landscape cells instead of portrait cells.

	// Artifacts.
	Artifacts   []ArtifactType // Which outputs to build. Default: all three.
	SheetFormat SheetFormat    // Default: "png".
	Timestamps  TimestampMode  // Default: "sheet".

	// Segment encoding (not user-configurable).
	SegmentCRF    int    // Fixed: 23.
	SegmentPreset string // Fixed: "medium".

	// Behavior flags.
	IgnoreExisting bool          // Delete pre-existing artifacts and regenerate.
	KeepTemp       bool          // Preserve the per-video workspace.
	MoveSource     bool          // Move the source video into its artifact directory on success.
	ComputeMD5     bool          // Hash the source and show it in the info panel.
	Exclusions     []string      // Base filenames to skip during discovery.
	ToolTimeout    time.Duration // Per external-call deadline. Default: 10m.

	// External tools and resources.
	FFmpegPath  string // Default: "ffmpeg" (PATH lookup). Env: GRIDMASTER_FFMPEG.
	FFprobePath string // Default: "ffprobe" (PATH lookup). Env: GRIDMASTER_FFPROBE.
	FontPath    string // Panel font. Empty means probe the built-in fallback chain.

	// Display and logging.
	Verbose      bool
	ShowProgress bool      // Default: true. Extraction progress bar on TTYs.
	ColorMode    ColorMode // Default: "auto".
	LogLevel     string    // Default: "info". Env: GRIDMASTER_LOG_LEVEL.
	LogFile      string    // Optional log file path.
	CheckOnly    bool      // Run --check diagnostics and exit.
	AnalyzeOnly  bool      // Probe and report candidates without writing anything.
}

// DefaultConfig returns a Config with all defaults applied. Used as the base
// before the config file and CLI flags apply overrides.
func DefaultConfig() Config {
	return Config{
		SegmentCount:    16,
		SegmentDuration: 1.5,
		GridWidth:       4,
		BlackBars:       false,
		Artifacts:       []ArtifactType{ArtifactPreview, ArtifactSheet, ArtifactStatic},
		SheetFormat:     SheetPNG,
		Timestamps:      TimestampsSheet,
		SegmentCRF:      23,
		SegmentPreset:   "medium",
		IgnoreExisting:  false,
		KeepTemp:        false,
		MoveSource:      false,
		ComputeMD5:      false,
		ToolTimeout:     10 * time.Minute,
		FFmpegPath:      "ffmpeg",
		FFprobePath:     "ffprobe",
		Verbose:         false,
		ShowProgress:    true,
		ColorMode:       ColorAuto,
		LogLevel:        "info",
		CheckOnly:       false,
		AnalyzeOnly:     false,
	}
}

// Segment count bounds per grid width. A sheet of G columns needs a count
// that fills whole rows and stays within a browsable size.
const (
	minCountGrid3 = 9
	maxCountGrid3 = 30
	minCountGrid4 = 12
	maxCountGrid4 = 28
)

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields, the grid/segment-count combination, blacklist
// ranges, and timeout sanity. When not in CheckOnly mode it also requires the
// input directory (and, unless AnalyzeOnly, the output directory).
func (c *Config) Validate() error {
	switch c.Timestamps {
	case TimestampsOff, TimestampsAll, TimestampsSheet:
		// valid
	default:
		return errors.New("invalid timestamps mode (use 'off', 'all' or 'sheet')")
	}

	switch c.SheetFormat {
	case SheetPNG, SheetJPG, SheetJPEG:
		// valid
	default:
		return errors.New("invalid sheet format (use 'png', 'jpg' or 'jpeg')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if err := c.validateArtifacts(); err != nil {
		return err
	}
	if err := c.validateGrid(); err != nil {
		return err
	}

	if c.SegmentDuration <= 0 {
		return errors.New("segment duration must be positive")
	}
	for _, f := range c.Blacklist {
		if f <= 0 || f >= 1 {
			return fmt.Errorf("blacklisted cut point %v outside (0,1)", f)
		}
	}
	if c.ToolTimeout <= 0 {
		return errors.New("tool timeout must be positive")
	}

	if c.CheckOnly {
		return nil
	}
	if c.AnalyzeOnly {
		if c.InputDir == "" {
			return errors.New("analyze needs an input_dir")
		}
		return nil
	}
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("need exactly input_dir and output_dir")
	}
	return nil
}

// validateArtifacts requires a non-empty, duplicate-free artifact selection.
func (c *Config) validateArtifacts() error {
	if len(c.Artifacts) == 0 {
		return errors.New("at least one artifact type must be selected")
	}
	seen := make(map[ArtifactType]bool, len(c.Artifacts))
	for _, a := range c.Artifacts {
		switch a {
		case ArtifactPreview, ArtifactSheet, ArtifactStatic:
			// valid
		default:
			return fmt.Errorf("invalid artifact type %q (use 'preview', 'sheet' or 'static')", a)
		}
		if seen[a] {
			return fmt.Errorf("artifact type %q selected twice", a)
		}
		seen[a] = true
	}
	return nil
}

// validateGrid enforces the grid width / segment count contract: rows must
// fill completely, and the count must stay within per-width bounds.
func (c *Config) validateGrid() error {
	switch c.GridWidth {
	case 3:
		if c.SegmentCount%3 != 0 || c.SegmentCount < minCountGrid3 || c.SegmentCount > maxCountGrid3 {
			return fmt.Errorf("grid width 3 needs a segment count divisible by 3 in [%d,%d], got %d",
				minCountGrid3, maxCountGrid3, c.SegmentCount)
		}
	case 4:
		if c.SegmentCount%4 != 0 || c.SegmentCount < minCountGrid4 || c.SegmentCount > maxCountGrid4 {
			return fmt.Errorf("grid width 4 needs a segment count divisible by 4 in [%d,%d], got %d",
				minCountGrid4, maxCountGrid4, c.SegmentCount)
		}
	default:
		return errors.New("invalid grid width (use 3 or 4)")
	}
	return nil
}

// WantArtifact reports whether the given artifact type was selected.
func (c *Config) WantArtifact(t ArtifactType) bool {
	for _, a := range c.Artifacts {
		if a == t {
			return true
		}
	}
	return false
}

// StillExt returns the file extension (without dot) for the static sheet.
// "jpeg" is folded into "jpg" so output naming stays stable.
func (c *Config) StillExt() string {
	if c.SheetFormat == SheetJPEG {
		return string(SheetJPG)
	}
	return string(c.SheetFormat)
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved input directory, keeping artifact trees and relocated
// sources out of the scan root. Both arguments must be absolute,
// symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}
