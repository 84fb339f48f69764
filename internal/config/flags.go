package config

// This file binds CLI flags. Flags are grouped into sampling, layout,
// artifacts, behavior, display, and utility. Values are staged in a Flags
// struct and only copied onto Config when the user actually set them, so
// config-file values survive unless overridden on the command line.
// Precedence: defaults < environment < config file < flags.

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Environment variable names honored by [ApplyEnv]. A .env file in the
// working directory feeds these through the godotenv autoload in main.
const (
	EnvLogLevel = "GRIDMASTER_LOG_LEVEL"
	EnvFFmpeg   = "GRIDMASTER_FFMPEG"
	EnvFFprobe  = "GRIDMASTER_FFPROBE"
)

// Flags stages raw CLI values between Parse and [Flags.Apply].
type Flags struct {
	ConfigFile string

	SegmentCount    int
	SegmentDuration float64
	Blacklist       []float64

	GridWidth int
	BlackBars bool

	Artifacts   []string
	SheetFormat string
	Timestamps  string

	IgnoreExisting bool
	KeepTemp       bool
	MoveSource     bool
	ComputeMD5     bool
	Exclude        []string
	ToolTimeout    time.Duration

	FFmpeg  string
	FFprobe string
	Font    string

	Verbose    bool
	NoProgress bool
	ForceColor bool
	NoColor    bool
	LogLevel   string
	LogFile    string

	Check   bool
	Analyze bool
}

// Register defines every flag on fs with defaults mirroring [DefaultConfig],
// so that generated help shows the effective default values.
func (f *Flags) Register(fs *pflag.FlagSet) {
	d := DefaultConfig()
	f.defineSamplingFlags(fs, &d)
	f.defineLayoutFlags(fs, &d)
	f.defineArtifactFlags(fs, &d)
	f.defineBehaviorFlags(fs, &d)
	f.defineDisplayFlags(fs, &d)
	f.defineUtilityFlags(fs)
}

// defineSamplingFlags registers segment count/duration and the cut-point blacklist.
func (f *Flags) defineSamplingFlags(fs *pflag.FlagSet, d *Config) {
	fs.IntVarP(&f.SegmentCount, "segments", "n", d.SegmentCount, "Segments to sample per video")
	fs.Float64Var(&f.SegmentDuration, "segment-duration", d.SegmentDuration, "Seconds per segment")
	fs.Float64SliceVar(&f.Blacklist, "blacklist", nil, "Cut-point fractions to avoid (e.g. 0.25,0.5)")
}

// defineLayoutFlags registers grid width and black-bar padding.
func (f *Flags) defineLayoutFlags(fs *pflag.FlagSet, d *Config) {
	fs.IntVarP(&f.GridWidth, "grid", "g", d.GridWidth, "Segments per sheet row (3 or 4)")
	fs.BoolVar(&f.BlackBars, "black-bars", d.BlackBars, "Pad vertical sources into landscape cells")
}

// defineArtifactFlags registers artifact selection, sheet format, timestamp mode.
func (f *Flags) defineArtifactFlags(fs *pflag.FlagSet, d *Config) {
	fs.StringSliceVarP(&f.Artifacts, "artifacts", "a", []string{"preview", "sheet", "static"},
		"Artifacts to build: preview,sheet,static")
	fs.StringVar(&f.SheetFormat, "sheet-format", string(d.SheetFormat), "Static sheet format: png | jpg | jpeg")
	fs.StringVarP(&f.Timestamps, "timestamps", "t", string(d.Timestamps), "Timestamp overlay: off | all | sheet")
}

// defineBehaviorFlags registers idempotency, workspace, hashing, and tool flags.
func (f *Flags) defineBehaviorFlags(fs *pflag.FlagSet, d *Config) {
	fs.BoolVarP(&f.IgnoreExisting, "ignore-existing", "i", d.IgnoreExisting,
		"Delete pre-existing artifacts and regenerate")
	fs.BoolVar(&f.KeepTemp, "keep-temp", d.KeepTemp, "Keep the per-video workspace directory")
	fs.BoolVar(&f.MoveSource, "move-source", d.MoveSource, "Move the source video into its artifact directory on success")
	fs.BoolVar(&f.ComputeMD5, "md5", d.ComputeMD5, "Compute source MD5 and show it in the info panel")
	fs.StringSliceVar(&f.Exclude, "exclude", nil, "Base filenames to skip (repeatable)")
	fs.DurationVar(&f.ToolTimeout, "tool-timeout", d.ToolTimeout, "Deadline per ffmpeg/ffprobe call")
	fs.StringVar(&f.FFmpeg, "ffmpeg", d.FFmpegPath, "ffmpeg executable")
	fs.StringVar(&f.FFprobe, "ffprobe", d.FFprobePath, "ffprobe executable")
	fs.StringVar(&f.Font, "font", d.FontPath, "TTF font for the info panel (default: built-in fallback chain)")
}

// defineDisplayFlags registers verbosity, progress, color, and log sinks.
func (f *Flags) defineDisplayFlags(fs *pflag.FlagSet, d *Config) {
	fs.BoolVarP(&f.Verbose, "verbose", "v", d.Verbose, "Verbose output (tees ffmpeg stderr)")
	fs.BoolVar(&f.NoProgress, "no-progress", false, "Disable the extraction progress bar")
	fs.BoolVar(&f.ForceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.NoColor, "no-color", false, "Disable colored logs")
	fs.StringVar(&f.LogLevel, "log-level", d.LogLevel, "Log level: trace | debug | info | warn | error")
	fs.StringVarP(&f.LogFile, "log-file", "l", d.LogFile, "Append logs to file")
}

// defineUtilityFlags registers config file path and the run modes.
func (f *Flags) defineUtilityFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFile, "config", "", "YAML config file")
	fs.BoolVarP(&f.Check, "check", "c", false, "Run system diagnostics and exit")
	fs.BoolVar(&f.Analyze, "analyze", false, "Probe candidates and report; write nothing")
}

// Apply copies flag values the user actually set onto cfg. fs must be the
// same flag set passed to [Flags.Register], already parsed.
func (f *Flags) Apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed("segments") {
		cfg.SegmentCount = f.SegmentCount
	}
	if fs.Changed("segment-duration") {
		cfg.SegmentDuration = f.SegmentDuration
	}
	if fs.Changed("blacklist") {
		cfg.Blacklist = f.Blacklist
	}
	if fs.Changed("grid") {
		cfg.GridWidth = f.GridWidth
	}
	if fs.Changed("black-bars") {
		cfg.BlackBars = f.BlackBars
	}
	if fs.Changed("artifacts") {
		cfg.Artifacts = cfg.Artifacts[:0]
		for _, a := range f.Artifacts {
			cfg.Artifacts = append(cfg.Artifacts, ArtifactType(a))
		}
	}
	if fs.Changed("sheet-format") {
		cfg.SheetFormat = SheetFormat(f.SheetFormat)
	}
	if fs.Changed("timestamps") {
		cfg.Timestamps = TimestampMode(f.Timestamps)
	}
	if fs.Changed("ignore-existing") {
		cfg.IgnoreExisting = f.IgnoreExisting
	}
	if fs.Changed("keep-temp") {
		cfg.KeepTemp = f.KeepTemp
	}
	if fs.Changed("move-source") {
		cfg.MoveSource = f.MoveSource
	}
	if fs.Changed("md5") {
		cfg.ComputeMD5 = f.ComputeMD5
	}
	if fs.Changed("exclude") {
		cfg.Exclusions = f.Exclude
	}
	if fs.Changed("tool-timeout") {
		cfg.ToolTimeout = f.ToolTimeout
	}
	if fs.Changed("ffmpeg") {
		cfg.FFmpegPath = f.FFmpeg
	}
	if fs.Changed("ffprobe") {
		cfg.FFprobePath = f.FFprobe
	}
	if fs.Changed("font") {
		cfg.FontPath = f.Font
	}
	if fs.Changed("verbose") {
		cfg.Verbose = f.Verbose
	}
	if f.NoProgress {
		cfg.ShowProgress = false
	}
	if f.NoColor {
		cfg.ColorMode = ColorNever
	} else if f.ForceColor {
		cfg.ColorMode = ColorAlways
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.LogLevel
	}
	if fs.Changed("log-file") {
		cfg.LogFile = f.LogFile
	}
	cfg.CheckOnly = f.Check
	cfg.AnalyzeOnly = f.Analyze
}

// ApplyEnv overlays supported environment variables onto cfg. Called after
// defaults and before the config file, so explicit configuration wins.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvFFmpeg); v != "" {
		cfg.FFmpegPath = v
	}
	if v := os.Getenv(EnvFFprobe); v != "" {
		cfg.FFprobePath = v
	}
}

// ParsePositionals fills InputDir/OutputDir from cobra positional args.
// Check mode takes none, analyze takes just the input directory, and a normal
// run takes both. Actual presence requirements are enforced by [Config.Validate].
func ParsePositionals(args []string, cfg *Config) error {
	switch {
	case len(args) > 2:
		return fmt.Errorf("too many arguments (want input_dir output_dir, got %d)", len(args))
	case len(args) == 2:
		cfg.InputDir = NormalizeDirArg(args[0])
		cfg.OutputDir = NormalizeDirArg(args[1])
	case len(args) == 1:
		cfg.InputDir = NormalizeDirArg(args[0])
	}
	return nil
}
