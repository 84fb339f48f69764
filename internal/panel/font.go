package panel

import (
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// fontSearchPaths lists common system font locations, probed in order when
// the configured font is absent.
var fontSearchPaths = []string{
	"/usr/share/fonts/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"C:/Windows/Fonts/arial.ttf",
}

// ResolveFontPath returns the configured font when it exists on disk,
// otherwise the first present fallback. An empty result means no TrueType
// font is available: the panel falls back to the built-in bitmap face and
// timestamp overlays use ffmpeg's default font.
func ResolveFontPath(configured string, log zerolog.Logger) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
		log.Warn().Str("font", configured).Msg("configured font not found, probing fallbacks")
	}
	if found := firstFont(fontSearchPaths); found != "" {
		if configured != "" {
			log.Warn().Str("font", found).Msg("using fallback font")
		}
		return found
	}
	log.Warn().Msg("no TrueType font found; panel text uses the built-in bitmap face")
	return ""
}

func firstFont(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// loadFace opens the TrueType file at path as a panel-sized face. A missing
// or unparsable file degrades to the built-in bitmap face rather than
// failing the sheet.
func loadFace(path string, log zerolog.Logger) font.Face {
	if path == "" {
		return basicfont.Face7x13
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("font", path).Msg("font unreadable, using bitmap face")
		return basicfont.Face7x13
	}
	ft, err := opentype.Parse(data)
	if err != nil {
		log.Warn().Err(err).Str("font", path).Msg("font unparsable, using bitmap face")
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Warn().Err(err).Str("font", path).Msg("face creation failed, using bitmap face")
		return basicfont.Face7x13
	}
	return face
}
