package subtitle

import (
	"regexp"
	"strings"
)

const vttHeader = "WEBVTT"

var srtTimingRe = regexp.MustCompile(`\d{2}:\d{2}:\d{2},\d{3}\s*-->\s*\d{2}:\d{2}:\d{2},\d{3}`)

// Detect sniffs raw content and decides which parser applies. The WEBVTT
// header is checked first: a VTT body may contain comma-timestamp-like
// substrings in cue text, so header detection must win over the SRT
// timing-arrow scan.
func Detect(raw string) Format {
	if strings.HasPrefix(strings.TrimSpace(raw), vttHeader) {
		return FormatVTT
	}
	if srtTimingRe.MatchString(raw) {
		return FormatSRT
	}
	return FormatUnknown
}

// DetectFromName infers the format from a filename extension, used when
// content re-detection is skipped.
func DetectFromName(fileName string) Format {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".srt"):
		return FormatSRT
	case strings.HasSuffix(lower, ".vtt"):
		return FormatVTT
	}
	return FormatUnknown
}
