package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/backmassage/gridmaster/internal/artifact"
	"github.com/backmassage/gridmaster/internal/config"
	"github.com/backmassage/gridmaster/internal/cutplan"
	"github.com/backmassage/gridmaster/internal/ffmpeg"
	"github.com/backmassage/gridmaster/internal/naming"
	"github.com/backmassage/gridmaster/internal/probe"
	"github.com/backmassage/gridmaster/internal/segment"
)

// Stage marks how far a video made it through the pipeline. A failed video
// keeps the last stage it completed.
type Stage string

const (
	StageIdle            Stage = "idle"
	StageMetadataChecked Stage = "metadata-checked"
	StageSegmentsReady   Stage = "segments-ready"
	StageArtifactsBuilt  Stage = "artifacts-built"
	StageCleaned         Stage = "cleaned"
)

// errNoArtifacts means every requested artifact build failed for a video
// whose segments extracted fine.
var errNoArtifacts = errors.New("no requested artifact could be built")

// FileResult is the outcome of one video's run.
type FileResult struct {
	Path    string
	Base    string
	Stage   Stage
	Skipped bool
	Built   []config.ArtifactType
	Err     error
}

// Runner owns the batch loop and the per-video state machine.
type Runner struct {
	ts       ffmpeg.TranscodeService
	pr       *probe.Prober
	cfg      *config.Config
	log      zerolog.Logger
	extract  *segment.Extractor
	builder  *artifact.Builder
	resolver *naming.CollisionResolver
}

// NewRunner wires a Runner and its extraction and artifact stages.
func NewRunner(ts ffmpeg.TranscodeService, ps ffmpeg.ProbeService, cfg *config.Config, log zerolog.Logger) *Runner {
	pr := probe.New(ps)
	return &Runner{
		ts:       ts,
		pr:       pr,
		cfg:      cfg,
		log:      log,
		extract:  segment.New(ts, pr, cfg, log),
		builder:  artifact.NewBuilder(ts, pr, cfg, log),
		resolver: naming.NewCollisionResolver(),
	}
}

// Run is the top-level batch entry point: discover candidates, process each
// sequentially, report the aggregate. A canceled context stops the batch
// between videos; the in-flight video aborts through its own context checks.
func (r *Runner) Run(ctx context.Context) RunStats {
	var stats RunStats

	files, err := Discover(r.cfg.InputDir, r.cfg.Exclusions)
	if err != nil {
		r.log.Error().Err(err).Msg("discovery failed")
		return stats
	}
	stats.Found = len(files)
	if len(files) == 0 {
		r.log.Warn().Str("dir", r.cfg.InputDir).Msg("no video files found, nothing to do")
		return stats
	}

	r.logBatchHeader(len(files))

	for i, path := range files {
		if ctx.Err() != nil {
			r.log.Warn().Msg("batch interrupted")
			break
		}

		flog := r.log.With().Str("file", filepath.Base(path)).Logger()
		flog.Info().Int("index", i+1).Int("total", len(files)).Msg("processing")

		res := r.processFile(ctx, flog, path)
		switch {
		case res.Skipped:
			stats.Skipped++
		case res.Err != nil:
			stats.Processed++
			stats.Failed++
			flog.Error().Err(res.Err).Str("stage", string(res.Stage)).Msg("failed")
		default:
			stats.Processed++
			stats.Succeeded++
			flog.Info().Str("base", res.Base).Msg("finished")
		}
	}

	r.logSummary(&stats)
	return stats
}

// processFile walks one video through the state machine: idempotency gate,
// probe and screen, cut-point plan, extraction, artifact builds, cleanup,
// and the optional source move. Failures abort this video only.
func (r *Runner) processFile(ctx context.Context, log zerolog.Logger, path string) FileResult {
	res := FileResult{Path: path, Stage: StageIdle}

	base := r.claimBase(path)
	res.Base = base

	set := naming.NewArtifactSet(r.cfg.OutputDir, base)

	if reason := r.checkExisting(log, set); reason != "" {
		res.Skipped = true
		res.Stage = StageCleaned
		log.Info().Str("reason", reason).Msg("skipping")
		return res
	}

	info, err := r.pr.Inspect(ctx, path)
	if err != nil {
		res.Err = err
		return res
	}
	if err := probe.Screen(info); err != nil {
		res.Err = err
		return res
	}
	res.Stage = StageMetadataChecked

	if r.cfg.ComputeMD5 {
		sum, err := probe.HashFile(path)
		if err != nil {
			log.Warn().Err(err).Msg("hashing failed, panel will omit the MD5 row")
		} else {
			info.MD5 = sum
		}
	}

	plan, err := cutplan.Build(r.cfg, info.Vertical())
	if err != nil {
		res.Err = err
		return res
	}

	workDir := set.WorkspaceDir()
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		res.Err = fmt.Errorf("workspace: %w", err)
		return res
	}
	defer r.cleanup(log, workDir)

	clips, err := r.extract.Extract(ctx, path, base, workDir, info.Format.Duration, plan)
	if err != nil {
		res.Err = err
		return res
	}
	res.Stage = StageSegmentsReady

	in := &artifact.Input{
		Info:    info,
		Clips:   clips,
		Plan:    plan,
		Set:     set,
		Base:    base,
		WorkDir: workDir,
	}
	for _, kind := range r.cfg.Artifacts {
		if ctx.Err() != nil {
			break
		}
		if err := r.builder.Build(ctx, kind, in); err != nil {
			log.Error().Err(err).Str("artifact", string(kind)).Msg("artifact build failed")
			continue
		}
		res.Built = append(res.Built, kind)
		log.Info().Str("artifact", string(kind)).Msg("artifact written")
	}
	if len(res.Built) == 0 {
		if err := ctx.Err(); err != nil {
			res.Err = err
		} else {
			res.Err = errNoArtifacts
		}
		return res
	}
	res.Stage = StageArtifactsBuilt

	if r.cfg.MoveSource {
		dest, err := moveIntoDir(path, set.Dir)
		if err != nil {
			log.Warn().Err(err).Msg("source move failed, leaving it in place")
		} else {
			log.Info().Str("to", dest).Msg("source moved")
		}
	}

	res.Stage = StageCleaned
	return res
}

// claimBase derives the collision-resolved artifact base for a source path.
// The black-bars variant gets its own base so both renditions can coexist.
func (r *Runner) claimBase(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base := naming.Sanitize(stem)
	if r.cfg.BlackBars {
		base += "_black_bars"
	}
	return r.resolver.Claim(path, base)
}

// checkExisting applies the idempotency policy for one artifact set and
// returns a non-empty skip reason when the video should not be processed.
// All targets present without ignore-existing skips; ignore-existing deletes
// the old targets and proceeds; a partial set without ignore-existing skips
// deterministically, naming what already exists.
func (r *Runner) checkExisting(log zerolog.Logger, set naming.ArtifactSet) string {
	targets := r.targetPaths(set)
	existing := naming.Existing(targets)

	switch {
	case len(existing) == 0:
		return ""
	case r.cfg.IgnoreExisting:
		for _, p := range existing {
			if err := os.Remove(p); err != nil {
				log.Warn().Err(err).Str("path", p).Msg("could not delete old artifact")
			} else {
				log.Info().Str("artifact", filepath.Base(p)).Msg("deleted old artifact")
			}
		}
		return ""
	case len(existing) == len(targets):
		return "all artifacts exist"
	default:
		names := make([]string, len(existing))
		for i, p := range existing {
			names[i] = filepath.Base(p)
		}
		return "partial artifacts exist (rerun with --ignore-existing): " + strings.Join(names, ", ")
	}
}

// targetPaths lists the artifact files this configuration would produce.
func (r *Runner) targetPaths(set naming.ArtifactSet) []string {
	var targets []string
	if r.cfg.WantArtifact(config.ArtifactPreview) {
		targets = append(targets, set.PreviewPath())
	}
	if r.cfg.WantArtifact(config.ArtifactSheet) {
		targets = append(targets, set.SheetPath())
	}
	if r.cfg.WantArtifact(config.ArtifactStatic) {
		targets = append(targets, set.StaticPath(r.cfg.StillExt()))
	}
	return targets
}

// cleanup removes the per-video workspace unless the run keeps it.
func (r *Runner) cleanup(log zerolog.Logger, workDir string) {
	if r.cfg.KeepTemp {
		log.Info().Str("dir", workDir).Msg("keeping workspace")
		return
	}
	if err := os.RemoveAll(workDir); err != nil {
		log.Warn().Err(err).Str("dir", workDir).Msg("workspace removal failed")
	}
}

// moveIntoDir relocates src into destDir, keeping its filename. Rename is
// tried first; a cross-device move falls back to copy plus remove.
func moveIntoDir(src, destDir string) (string, error) {
	dest := filepath.Join(destDir, filepath.Base(src))
	if _, err := os.Stat(dest); err == nil {
		return "", fmt.Errorf("move target already exists: %s", dest)
	}
	if err := os.Rename(src, dest); err == nil {
		return dest, nil
	}
	if err := copyFile(src, dest); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	if err := os.Remove(src); err != nil {
		return "", fmt.Errorf("copied but could not remove original: %w", err)
	}
	return dest, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (r *Runner) logBatchHeader(found int) {
	arts := make([]string, len(r.cfg.Artifacts))
	for i, a := range r.cfg.Artifacts {
		arts[i] = string(a)
	}
	r.log.Info().
		Int("found", found).
		Str("artifacts", strings.Join(arts, ",")).
		Int("segments", r.cfg.SegmentCount).
		Float64("segment_seconds", r.cfg.SegmentDuration).
		Int("grid", r.cfg.GridWidth).
		Str("timestamps", string(r.cfg.Timestamps)).
		Str("output", r.cfg.OutputDir).
		Msg("starting batch")
}

func (r *Runner) logSummary(stats *RunStats) {
	r.log.Info().
		Int("found", stats.Found).
		Int("processed", stats.Processed).
		Int("succeeded", stats.Succeeded).
		Int("failed", stats.Failed).
		Int("skipped", stats.Skipped).
		Msg("batch finished")
}
