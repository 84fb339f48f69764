package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/backmassage/gridmaster/internal/ffmpeg"
)

// Prober answers media questions through a ProbeService. One full JSON call
// covers everything the pipeline needs to know about a source; the two
// narrow queries serve segment verification and filler synthesis.
type Prober struct {
	ps ffmpeg.ProbeService
}

// New returns a Prober backed by the given service.
func New(ps ffmpeg.ProbeService) *Prober {
	return &Prober{ps: ps}
}

// Inspect runs the full ffprobe JSON call against path and returns the
// parsed result. Fails closed when the file has no decodable video stream.
func (p *Prober) Inspect(ctx context.Context, path string) (*MediaInfo, error) {
	res := p.ps.Query(ctx, ffmpeg.ProbeArgs(path))
	if res.Err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, res.Err)
	}

	mi, err := ParseJSON([]byte(res.Stdout))
	if err != nil {
		return nil, err
	}
	if mi.PrimaryVideo == nil {
		return nil, fmt.Errorf("%q: %w", path, ErrNoVideoStream)
	}
	return mi, nil
}

// ClipDuration returns the container duration of an intermediate clip.
// Used by segment verification, where only one value matters and a full
// parse would be noise.
func (p *Prober) ClipDuration(ctx context.Context, path string) (float64, error) {
	res := p.ps.Query(ctx, ffmpeg.DurationArgs(path))
	if res.Err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", path, res.Err)
	}
	v := gjson.Get(res.Stdout, "format.duration")
	if !v.Exists() {
		return 0, fmt.Errorf("ffprobe duration %q: no duration in output", path)
	}
	return v.Float(), nil
}

// ClipGeometry describes an intermediate clip for filler matching.
type ClipGeometry struct {
	Width    int
	Height   int
	Rate     float64
	Duration float64
}

// ClipInfo returns the first video stream's geometry and frame rate plus the
// container duration of an intermediate clip.
func (p *Prober) ClipInfo(ctx context.Context, path string) (ClipGeometry, error) {
	res := p.ps.Query(ctx, ffmpeg.ClipInfoArgs(path))
	if res.Err != nil {
		return ClipGeometry{}, fmt.Errorf("ffprobe clip info %q: %w", path, res.Err)
	}
	g := ClipGeometry{
		Width:    int(gjson.Get(res.Stdout, "streams.0.width").Int()),
		Height:   int(gjson.Get(res.Stdout, "streams.0.height").Int()),
		Rate:     ParseFrameRate(gjson.Get(res.Stdout, "streams.0.r_frame_rate").String()),
		Duration: gjson.Get(res.Stdout, "format.duration").Float(),
	}
	if g.Width <= 0 || g.Height <= 0 {
		return ClipGeometry{}, fmt.Errorf("ffprobe clip info %q: no stream geometry", path)
	}
	return g, nil
}

// ParseJSON converts raw ffprobe JSON output into a MediaInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*MediaInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildInfo(&raw), nil
}

// ParseFrameRate reduces an ffprobe rational ("24000/1001") to a float
// rounded to 2 decimals. Returns 0 for malformed or zero-denominator input.
func ParseFrameRate(r string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(r), "/")
	if !ok {
		f, _ := strconv.ParseFloat(r, 64)
		return math.Round(f*100) / 100
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return math.Round(n/d*100) / 100
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename       string            `json:"filename"`
	FormatName     string            `json:"format_name"`
	FormatLongName string            `json:"format_long_name"`
	Duration       string            `json:"duration"`
	Size           string            `json:"size"`
	BitRate        string            `json:"bit_rate"`
	Tags           map[string]string `json:"tags"`
}

type ffprobeStream struct {
	Index         int               `json:"index"`
	CodecName     string            `json:"codec_name"`
	CodecType     string            `json:"codec_type"`
	Profile       string            `json:"profile"`
	PixFmt        string            `json:"pix_fmt"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	BitRate       string            `json:"bit_rate"`
	RFrameRate    string            `json:"r_frame_rate"`
	Channels      int               `json:"channels"`
	ChannelLayout string            `json:"channel_layout"`
	SampleRate    string            `json:"sample_rate"`
	Disposition   map[string]int    `json:"disposition"`
	Tags          map[string]string `json:"tags"`
	SideDataList  []ffprobeSideData `json:"side_data_list"`
}

type ffprobeSideData struct {
	SideDataType string  `json:"side_data_type"`
	Rotation     float64 `json:"rotation"`
}

// --- Conversion from wire types to domain types ---

func buildInfo(raw *ffprobeOutput) *MediaInfo {
	mi := &MediaInfo{
		Format: convertFormat(&raw.Format),
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			vs := convertVideo(s)
			if !vs.IsAttachedPic && mi.PrimaryVideo == nil {
				mi.PrimaryVideo = &vs
			}
		case "audio":
			mi.AudioStreams = append(mi.AudioStreams, convertAudio(s))
		}
	}

	if mi.PrimaryVideo != nil {
		mi.FPS = ParseFrameRate(mi.PrimaryVideo.RawFrameRate)
	}
	return mi
}

func convertFormat(f *ffprobeFormat) FormatInfo {
	return FormatInfo{
		Filename:       f.Filename,
		FormatName:     f.FormatName,
		FormatLongName: f.FormatLongName,
		Duration:       parseFloat(f.Duration),
		Size:           parseInt64(f.Size),
		BitRate:        parseInt64(f.BitRate),
		Tags:           f.Tags,
	}
}

func convertVideo(s *ffprobeStream) VideoStream {
	return VideoStream{
		Index:         s.Index,
		Codec:         s.CodecName,
		Profile:       s.Profile,
		PixFmt:        s.PixFmt,
		Width:         s.Width,
		Height:        s.Height,
		BitRate:       streamBitRate(s),
		Rotation:      extractRotation(s),
		RawFrameRate:  s.RFrameRate,
		IsAttachedPic: s.Disposition["attached_pic"] == 1,
	}
}

// extractRotation reads the rotate tag, falling back to display-matrix side
// data. Either source marks the file as rotated.
func extractRotation(s *ffprobeStream) int {
	if tag, ok := s.Tags["rotate"]; ok {
		if r, err := strconv.Atoi(strings.TrimSpace(tag)); err == nil && r != 0 {
			return r
		}
	}
	for _, sd := range s.SideDataList {
		if sd.Rotation != 0 {
			return int(sd.Rotation)
		}
	}
	return 0
}

func convertAudio(s *ffprobeStream) AudioStream {
	return AudioStream{
		Index:         s.Index,
		Codec:         s.CodecName,
		Profile:       s.Profile,
		Channels:      s.Channels,
		ChannelLayout: s.ChannelLayout,
		SampleRate:    parseInt(s.SampleRate),
		BitRate:       streamBitRate(s),
		Language:      s.Tags["language"],
		IsDefault:     s.Disposition["default"] == 1,
	}
}

// streamBitRate prefers the stream's bit_rate field and falls back to the
// Matroska BPS tag, which is where mkvmerge puts per-stream rates.
func streamBitRate(s *ffprobeStream) int64 {
	if s.BitRate != "" {
		return parseInt64(s.BitRate)
	}
	if bps, ok := s.Tags["BPS"]; ok {
		return parseInt64(bps)
	}
	return 0
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	n, _ := strconv.Atoi(s)
	return n
}
