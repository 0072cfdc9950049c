package subtitle_test

import (
	"testing"

	"github.com/subtitle-flow/backend/internal/subtitle"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want subtitle.Format
	}{
		{
			name: "vtt header",
			raw:  "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHi",
			want: subtitle.FormatVTT,
		},
		{
			name: "vtt header with leading whitespace",
			raw:  "\n  WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHi",
			want: subtitle.FormatVTT,
		},
		{
			name: "srt timing arrow",
			raw:  "1\n00:00:01,000 --> 00:00:04,000\nHello",
			want: subtitle.FormatSRT,
		},
		{
			// Header-based detection must win even when cue text contains
			// comma-timestamp-like substrings.
			name: "vtt body containing srt-like timestamps",
			raw:  "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nShown at 00:00:01,000 --> 00:00:02,000",
			want: subtitle.FormatVTT,
		},
		{
			name: "plain text",
			raw:  "just some words\nwith no timestamps",
			want: subtitle.FormatUnknown,
		},
		{
			name: "empty",
			raw:  "",
			want: subtitle.FormatUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := subtitle.Detect(tc.raw); got != tc.want {
				t.Fatalf("Detect() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetectFromName(t *testing.T) {
	if got := subtitle.DetectFromName("Movie.2023.EN.SRT"); got != subtitle.FormatSRT {
		t.Fatalf("DetectFromName srt = %q", got)
	}
	if got := subtitle.DetectFromName("episode.vtt"); got != subtitle.FormatVTT {
		t.Fatalf("DetectFromName vtt = %q", got)
	}
	if got := subtitle.DetectFromName("notes.txt"); got != subtitle.FormatUnknown {
		t.Fatalf("DetectFromName txt = %q", got)
	}
}
