// Command gridmaster is the CLI entrypoint for the GridMaster preview
// generator.
//
// It assembles configuration from defaults, environment, an optional YAML
// file, flags, and positional directories, then runs system diagnostics
// (--check), a read-only batch report (--analyze), or the full pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/backmassage/gridmaster/internal/check"
	"github.com/backmassage/gridmaster/internal/config"
	"github.com/backmassage/gridmaster/internal/display"
	"github.com/backmassage/gridmaster/internal/ffmpeg"
	"github.com/backmassage/gridmaster/internal/logging"
	"github.com/backmassage/gridmaster/internal/panel"
	"github.com/backmassage/gridmaster/internal/pipeline"
	"github.com/backmassage/gridmaster/internal/term"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

// exitCode is consumed by main after cobra returns, so deferred cleanup
// (closing the log file) still runs before the process exits.
var exitCode int

var flags config.Flags

var rootCmd = &cobra.Command{
	Use:   "gridmaster [flags] input_dir [output_dir]",
	Short: "Generate animated previews and contact sheets for a folder of videos",
	Long: `gridmaster samples evenly spaced segments from every video in a folder
and assembles browsable artifacts for each one: an animated WebP preview,
an animated contact sheet, and a static contact sheet headed by a
metadata panel.

Configuration precedence: defaults, then environment, then --config file,
then flags. A .env file in the working directory is loaded automatically.

Examples:
  gridmaster ~/videos ~/videos/previews
  gridmaster -n 20 -g 4 --timestamps all ~/videos ~/previews
  gridmaster --artifacts preview,static --sheet-format png ~/in ~/out
  gridmaster --analyze ~/videos
  gridmaster --check`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags.Register(rootCmd.Flags())
}

func main() {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gridmaster: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	config.ApplyEnv(&cfg)
	if flags.ConfigFile != "" {
		if err := config.LoadFile(flags.ConfigFile, &cfg); err != nil {
			return err
		}
	}
	flags.Apply(cmd.Flags(), &cfg)
	if err := config.ParsePositionals(args, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closeLog, err := logging.New(&cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	display.PrintBanner(term.Resolve(cfg.ColorMode))
	log.Info().Str("version", version).Str("commit", commit).Msg("gridmaster starting")

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		return nil
	}

	// The info panel and the drawtext overlay both consume the font, so
	// resolve it once up front and record what was picked.
	cfg.FontPath = panel.ResolveFontPath(cfg.FontPath, log)

	// Cancel the batch on SIGINT/SIGTERM; the pipeline stops between steps
	// without leaving partial artifacts behind.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		log.Warn().Msg("interrupt received, finishing the current step")
		cancel()
	}()

	exec := ffmpeg.NewExec(&cfg)
	runner := pipeline.NewRunner(exec, exec, &cfg, log)

	if cfg.AnalyzeOnly {
		return runner.Analyze(ctx)
	}

	if err := preparePaths(&cfg); err != nil {
		return err
	}
	if err := check.Preflight(&cfg, log); err != nil {
		return err
	}

	stats := runner.Run(ctx)
	if stats.AnyFailed() {
		exitCode = 1
	}
	return nil
}

// preparePaths resolves both directories, creates the output root if needed,
// and rejects an output nested inside the input so artifact trees never
// commingle with the scan root.
func preparePaths(cfg *config.Config) error {
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("input directory %s: %w", cfg.InputDir, err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("output directory %s: %w", cfg.OutputDir, err)
	}
	return cfg.ValidatePaths(inputAbs, outputAbs)
}

// absPath returns the absolute path with symlinks resolved, so the
// input/output hierarchy comparison is not fooled by links.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
