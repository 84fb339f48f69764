package naming

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already clean", "Holiday_Trip-2019.final", "Holiday_Trip-2019.final"},
		{"spaces to underscores", "Holiday Trip 2019", "Holiday_Trip_2019"},
		{"accents folded", "Café en Montréal", "Cafe_en_Montreal"},
		{"umlaut folded", "Übung für Anfänger", "Ubung_fur_Anfanger"},
		{"symbols collapse", "clip @@ home!!", "clip_home"},
		{"brackets and hash", "trip [4K] #2", "trip_4K_2"},
		{"underscore runs collapse", "a___b", "a_b"},
		{"mixed run collapses", "a _ - _ b", "a_-_b"},
		{"leading dot trimmed", ".hidden", "hidden"},
		{"trailing dot trimmed", "name.", "name"},
		{"edge underscores trimmed", "__wrapped__", "wrapped"},
		{"fullwidth digits folded", "ｖｉｄｅｏ１２３", "video123"},
		{"cjk becomes fallback", "日本語", FallbackBase},
		{"emoji only", "🎬🎬🎬", FallbackBase},
		{"empty", "", FallbackBase},
		{"only punctuation", "***", FallbackBase},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.in); got != tc.want {
				t.Errorf("Sanitize(%q): got %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestArtifactSetPaths(t *testing.T) {
	a := NewArtifactSet("/out", "Holiday_Trip")

	if a.Dir != filepath.Join("/out", "Holiday_Trip") {
		t.Errorf("Dir: got %q", a.Dir)
	}
	if got, want := a.PreviewPath(), filepath.Join("/out", "Holiday_Trip", "Holiday_Trip_preview.webp"); got != want {
		t.Errorf("PreviewPath: got %q, want %q", got, want)
	}
	if got, want := a.SheetPath(), filepath.Join("/out", "Holiday_Trip", "Holiday_Trip_preview_sheet.webp"); got != want {
		t.Errorf("SheetPath: got %q, want %q", got, want)
	}
	if got, want := a.StaticPath("png"), filepath.Join("/out", "Holiday_Trip", "Holiday_Trip_preview_sheet.png"); got != want {
		t.Errorf("StaticPath png: got %q, want %q", got, want)
	}
	if got, want := a.StaticPath("jpg"), filepath.Join("/out", "Holiday_Trip", "Holiday_Trip_preview_sheet.jpg"); got != want {
		t.Errorf("StaticPath jpg: got %q, want %q", got, want)
	}
	if got, want := a.WorkspaceDir(), filepath.Join("/out", "Holiday_Trip", "Holiday_Trip-temp"); got != want {
		t.Errorf("WorkspaceDir: got %q, want %q", got, want)
	}
}

func TestExisting(t *testing.T) {
	dir := t.TempDir()
	have := filepath.Join(dir, "have.webp")
	if err := os.WriteFile(have, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.webp")

	got := Existing([]string{have, missing})
	if len(got) != 1 || got[0] != have {
		t.Errorf("Existing: got %v, want [%s]", got, have)
	}

	if got := Existing(nil); got != nil {
		t.Errorf("Existing(nil): got %v, want nil", got)
	}
}

func TestCollisionResolver(t *testing.T) {
	cr := NewCollisionResolver()

	// First claim wins the plain base.
	if got := cr.Claim("/in/Video.mp4", "Video"); got != "Video" {
		t.Errorf("first claim: got %q", got)
	}

	// Same source re-claims its own base unchanged.
	if got := cr.Claim("/in/Video.mp4", "Video"); got != "Video" {
		t.Errorf("re-claim by owner: got %q", got)
	}

	// A different source that sanitizes to the same base gets dup1.
	if got := cr.Claim("/in/Vidéo.mp4", "Video"); got != "Video - dup1" {
		t.Errorf("second source: got %q", got)
	}

	// And a third gets dup2.
	if got := cr.Claim("/in/VIDEO!.mp4", "Video"); got != "Video - dup2" {
		t.Errorf("third source: got %q", got)
	}

	// The dup holders also re-claim stably.
	if got := cr.Claim("/in/Vidéo.mp4", "Video"); got != "Video - dup1" {
		t.Errorf("dup re-claim: got %q", got)
	}

	// Unrelated bases are untouched.
	if got := cr.Claim("/in/Other.mp4", "Other"); got != "Other" {
		t.Errorf("unrelated base: got %q", got)
	}
}
