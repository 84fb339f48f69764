package probe

import "strconv"

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename       string
	FormatName     string
	FormatLongName string
	Duration       float64
	Size           int64
	BitRate        int64
	Tags           map[string]string
}

// Title returns the container title tag, if any.
func (f *FormatInfo) Title() string {
	return f.Tags["title"]
}

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index         int
	Codec         string
	Profile       string
	PixFmt        string
	Width         int
	Height        int
	BitRate       int64
	Rotation      int // degrees, from the rotate tag or display-matrix side data
	RawFrameRate  string
	IsAttachedPic bool
}

// AudioStream holds the parsed properties of a single audio stream.
type AudioStream struct {
	Index         int
	Codec         string
	Profile       string
	Channels      int
	ChannelLayout string
	SampleRate    int
	BitRate       int64
	Language      string
	IsDefault     bool
}

// MediaInfo is the fully parsed output of a single ffprobe JSON call.
// PrimaryVideo is the first non-attached-pic video stream (nil if none).
// MD5 is filled in separately when content hashing is enabled.
type MediaInfo struct {
	Format       FormatInfo
	PrimaryVideo *VideoStream
	AudioStreams []AudioStream
	FPS          float64 // r_frame_rate reduced and rounded to 2 decimals
	MD5          string
}

// VideoBitRate returns the primary video stream bitrate in bits/sec,
// falling back to the format-level bitrate when the stream value is
// unavailable or zero.
func (m *MediaInfo) VideoBitRate() int64 {
	if m.PrimaryVideo != nil && m.PrimaryVideo.BitRate > 0 {
		return m.PrimaryVideo.BitRate
	}
	return m.Format.BitRate
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (m *MediaInfo) Resolution() string {
	if m.PrimaryVideo == nil || m.PrimaryVideo.Width <= 0 || m.PrimaryVideo.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(m.PrimaryVideo.Width) + "x" + strconv.Itoa(m.PrimaryVideo.Height)
}

// Vertical reports whether the source is portrait-oriented (taller than wide).
// Square sources count as landscape.
func (m *MediaInfo) Vertical() bool {
	return m.PrimaryVideo != nil && m.PrimaryVideo.Height > m.PrimaryVideo.Width
}

// PrimaryAudio returns the default audio stream, or the first one, or nil.
func (m *MediaInfo) PrimaryAudio() *AudioStream {
	for i := range m.AudioStreams {
		if m.AudioStreams[i].IsDefault {
			return &m.AudioStreams[i]
		}
	}
	if len(m.AudioStreams) > 0 {
		return &m.AudioStreams[0]
	}
	return nil
}
