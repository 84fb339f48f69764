package config

// This file implements the optional YAML config file. Values present in the
// file override defaults; CLI flags override both. Absent keys leave the
// running value untouched, which is why the wire struct uses pointers.

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML document. It is decoded separately from Config
// so that only keys actually present in the file are applied.
type fileConfig struct {
	SegmentCount    *int      `yaml:"segment_count"`
	SegmentDuration *float64  `yaml:"segment_duration"`
	Blacklist       []float64 `yaml:"blacklist"`
	GridWidth       *int      `yaml:"grid_width"`
	BlackBars       *bool     `yaml:"black_bars"`
	Artifacts       []string  `yaml:"artifacts"`
	SheetFormat     *string   `yaml:"sheet_format"`
	Timestamps      *string   `yaml:"timestamps"`
	IgnoreExisting  *bool     `yaml:"ignore_existing"`
	KeepTemp        *bool     `yaml:"keep_temp"`
	MoveSource      *bool     `yaml:"move_source"`
	ComputeMD5      *bool     `yaml:"md5"`
	Exclusions      []string  `yaml:"exclude"`
	ToolTimeout     *string   `yaml:"tool_timeout"`
	FFmpegPath      *string   `yaml:"ffmpeg"`
	FFprobePath     *string   `yaml:"ffprobe"`
	FontPath        *string   `yaml:"font"`
	ShowProgress    *bool     `yaml:"show_progress"`
	ColorMode       *string   `yaml:"color"`
	LogLevel        *string   `yaml:"log_level"`
	LogFile         *string   `yaml:"log_file"`
}

// LoadFile reads a YAML config file and applies its values onto cfg.
// Validation happens later via [Config.Validate], so the file may hold
// anything the flags could; only the timeout gets parsed eagerly because it
// crosses from string to time.Duration here.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc.apply(cfg)
}

// apply copies present keys onto cfg.
func (fc *fileConfig) apply(cfg *Config) error {
	if fc.SegmentCount != nil {
		cfg.SegmentCount = *fc.SegmentCount
	}
	if fc.SegmentDuration != nil {
		cfg.SegmentDuration = *fc.SegmentDuration
	}
	if fc.Blacklist != nil {
		cfg.Blacklist = fc.Blacklist
	}
	if fc.GridWidth != nil {
		cfg.GridWidth = *fc.GridWidth
	}
	if fc.BlackBars != nil {
		cfg.BlackBars = *fc.BlackBars
	}
	if fc.Artifacts != nil {
		cfg.Artifacts = cfg.Artifacts[:0]
		for _, a := range fc.Artifacts {
			cfg.Artifacts = append(cfg.Artifacts, ArtifactType(a))
		}
	}
	if fc.SheetFormat != nil {
		cfg.SheetFormat = SheetFormat(*fc.SheetFormat)
	}
	if fc.Timestamps != nil {
		cfg.Timestamps = TimestampMode(*fc.Timestamps)
	}
	if fc.IgnoreExisting != nil {
		cfg.IgnoreExisting = *fc.IgnoreExisting
	}
	if fc.KeepTemp != nil {
		cfg.KeepTemp = *fc.KeepTemp
	}
	if fc.MoveSource != nil {
		cfg.MoveSource = *fc.MoveSource
	}
	if fc.ComputeMD5 != nil {
		cfg.ComputeMD5 = *fc.ComputeMD5
	}
	if fc.Exclusions != nil {
		cfg.Exclusions = fc.Exclusions
	}
	if fc.ToolTimeout != nil {
		d, err := time.ParseDuration(*fc.ToolTimeout)
		if err != nil {
			return fmt.Errorf("invalid tool_timeout %q: %w", *fc.ToolTimeout, err)
		}
		cfg.ToolTimeout = d
	}
	if fc.FFmpegPath != nil {
		cfg.FFmpegPath = *fc.FFmpegPath
	}
	if fc.FFprobePath != nil {
		cfg.FFprobePath = *fc.FFprobePath
	}
	if fc.FontPath != nil {
		cfg.FontPath = *fc.FontPath
	}
	if fc.ShowProgress != nil {
		cfg.ShowProgress = *fc.ShowProgress
	}
	if fc.ColorMode != nil {
		cfg.ColorMode = ColorMode(*fc.ColorMode)
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.LogFile != nil {
		cfg.LogFile = *fc.LogFile
	}
	return nil
}
