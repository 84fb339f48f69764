package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/gridmaster/internal/display"
	"github.com/backmassage/gridmaster/internal/naming"
	"github.com/backmassage/gridmaster/internal/term"
)

const (
	maxNameWidth      = 50
	progressNameWidth = 40
)

// fileRow holds the probed per-file data for the analysis table.
type fileRow struct {
	Name      string
	Duration  string
	Res       string
	Codec     string
	Bitrate   string
	Size      string
	Artifacts string
}

// Analyze probes every candidate and prints a per-file table: duration,
// resolution, codec, bitrate, size, and which target artifacts already
// exist. Nothing is written; the table is the deliverable.
func (r *Runner) Analyze(ctx context.Context) error {
	files, err := Discover(r.cfg.InputDir, r.cfg.Exclusions)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		r.log.Warn().Str("dir", r.cfg.InputDir).Msg("no video files found")
		return nil
	}

	r.log.Info().Int("found", len(files)).Str("dir", r.cfg.InputDir).Msg("analyzing")

	bar := r.analyzeBar(len(files))
	var rows []fileRow
	var unreadable int
	counts := make(map[string]int)

	for _, path := range files {
		if ctx.Err() != nil {
			r.log.Warn().Msg("analysis interrupted")
			return ctx.Err()
		}
		if bar != nil {
			bar.Describe(shorten(filepath.Base(path), progressNameWidth))
		}

		row, ok := r.analyzeOne(ctx, path)
		if bar != nil {
			_ = bar.Add(1)
		}
		if !ok {
			unreadable++
			continue
		}
		rows = append(rows, row)
		counts[row.Artifacts]++
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if len(rows) == 0 {
		r.log.Warn().Int("unreadable", unreadable).Msg("no files could be probed")
		return nil
	}

	printAnalysisTable(rows)

	evt := r.log.Info().
		Int("analyzed", len(rows)).
		Int("complete", counts["all"]).
		Int("partial", counts["partial"]).
		Int("missing", counts["none"])
	if unreadable > 0 {
		evt = evt.Int("unreadable", unreadable)
	}
	evt.Msg("analysis finished")
	return nil
}

// analyzeOne probes one candidate into a table row. ok is false when the
// file could not be probed.
func (r *Runner) analyzeOne(ctx context.Context, path string) (fileRow, bool) {
	info, err := r.pr.Inspect(ctx, path)
	if err != nil {
		r.log.Warn().Err(err).Str("file", filepath.Base(path)).Msg("probe failed")
		return fileRow{}, false
	}

	codec := "unknown"
	if info.PrimaryVideo.Codec != "" {
		codec = info.PrimaryVideo.Codec
	}

	return fileRow{
		Name:      filepath.Base(path),
		Duration:  display.FormatTimestamp(info.Format.Duration),
		Res:       info.Resolution(),
		Codec:     codec,
		Bitrate:   display.FormatBitrateLabel(info.VideoBitRate() / 1000),
		Size:      display.FormatBytes(info.Format.Size),
		Artifacts: r.artifactStatus(path),
	}, true
}

// artifactStatus reports which of the configured targets already exist for
// path: "none", "partial", "all", or "n/a" when no output directory is set.
func (r *Runner) artifactStatus(path string) string {
	if r.cfg.OutputDir == "" {
		return "n/a"
	}
	set := naming.NewArtifactSet(r.cfg.OutputDir, r.claimBase(path))
	targets := r.targetPaths(set)
	existing := naming.Existing(targets)
	switch {
	case len(existing) == 0:
		return "none"
	case len(existing) == len(targets):
		return "all"
	default:
		return "partial"
	}
}

// printAnalysisTable writes the aligned report to stdout. Logs go to stderr,
// so the table survives piping.
func printAnalysisTable(rows []fileRow) {
	nameW := len("File")
	durW := len("Duration")
	resW := len("Resolution")
	codecW := len("Codec")
	rateW := len("Bitrate")
	sizeW := len("Size")

	for _, r := range rows {
		nameW = max(nameW, len(r.Name))
		durW = max(durW, len(r.Duration))
		resW = max(resW, len(r.Res))
		codecW = max(codecW, len(r.Codec))
		rateW = max(rateW, len(r.Bitrate))
		sizeW = max(sizeW, len(r.Size))
	}
	if nameW > maxNameWidth {
		nameW = maxNameWidth
	}

	header := fmt.Sprintf("  %-*s  %-*s  %-*s  %-*s  %-*s  %-*s  %s",
		nameW, "File",
		durW, "Duration",
		resW, "Resolution",
		codecW, "Codec",
		rateW, "Bitrate",
		sizeW, "Size",
		"Artifacts",
	)
	fmt.Println(header)
	fmt.Println("  " + strings.Repeat("─", len(header)-2))

	for _, r := range rows {
		fmt.Printf("  %-*s  %-*s  %-*s  %-*s  %-*s  %-*s  %s\n",
			nameW, shorten(r.Name, nameW),
			durW, r.Duration,
			resW, r.Res,
			codecW, r.Codec,
			rateW, r.Bitrate,
			sizeW, r.Size,
			r.Artifacts,
		)
	}
	fmt.Println()
}

// analyzeBar mirrors the extraction progress bar; nil when progress is off
// or stderr is not a terminal.
func (r *Runner) analyzeBar(total int) *progressbar.ProgressBar {
	if !r.cfg.ShowProgress || !term.IsTerminal(os.Stderr) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Probing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

// shorten truncates s with a trailing ellipsis.
func shorten(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-1] + "…"
}
