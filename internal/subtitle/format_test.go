package subtitle_test

import (
	"strings"
	"testing"

	"github.com/subtitle-flow/backend/internal/subtitle"
)

func translatedCues() []subtitle.Cue {
	return []subtitle.Cue{
		{ID: "1", StartTime: 1, EndTime: 4, Text: "Hello", TranslatedText: "Hola"},
		{ID: "2", StartTime: 5, EndTime: 7.5, Text: "Goodbye"},
	}
}

func TestRenderSRTSelectsTranslatedText(t *testing.T) {
	out := subtitle.RenderSRT(translatedCues())

	want := "1\n00:00:01,000 --> 00:00:04,000\nHola\n\n2\n00:00:05,000 --> 00:00:07,500\nGoodbye\n"
	if out != want {
		t.Fatalf("RenderSRT output:\n%q\nwant:\n%q", out, want)
	}
}

func TestRenderVTTHeaderAndSeparator(t *testing.T) {
	out := subtitle.RenderVTT(translatedCues())

	if !strings.HasPrefix(out, "WEBVTT\n\n") {
		t.Fatalf("missing WEBVTT header: %q", out)
	}
	if !strings.Contains(out, "00:00:01.000 --> 00:00:04.000") {
		t.Fatalf("VTT timestamps must use dots: %q", out)
	}
	if strings.Contains(out, ",") {
		t.Fatalf("VTT output contains commas: %q", out)
	}
}

func TestFormattingIsIdempotent(t *testing.T) {
	cues := translatedCues()
	first := subtitle.RenderSRT(cues)
	second := subtitle.RenderSRT(cues)
	if first != second {
		t.Fatal("formatting the same cues twice produced different output")
	}
}

func TestRender(t *testing.T) {
	file := subtitle.NewFile("movie.srt", subtitle.FormatSRT, translatedCues(), 100)

	content, name, err := subtitle.Render(file, subtitle.FormatVTT)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if name != "movie_translated.vtt" {
		t.Fatalf("download name = %q, want movie_translated.vtt", name)
	}
	if !strings.HasPrefix(content, "WEBVTT\n\n") {
		t.Fatalf("converted content missing header: %q", content)
	}

	if _, _, err := subtitle.Render(file, subtitle.FormatUnknown); err == nil {
		t.Fatal("Render with unknown format should fail")
	}
}

func TestDownloadName(t *testing.T) {
	if got := subtitle.DownloadName("show.s01e01.vtt", subtitle.FormatSRT); got != "show.s01e01_translated.srt" {
		t.Fatalf("DownloadName = %q", got)
	}
	if got := subtitle.DownloadName("", subtitle.FormatVTT); got != "subtitles_translated.vtt" {
		t.Fatalf("DownloadName fallback = %q", got)
	}
}
