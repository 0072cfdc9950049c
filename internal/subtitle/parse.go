package subtitle

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoCues reports that parsing produced zero valid cues.
	ErrNoCues = errors.New("no subtitle cues found")
	// ErrMissingHeader reports a VTT input without the required WEBVTT header.
	ErrMissingHeader = errors.New("missing WEBVTT header")
	// ErrUnknownFormat reports content that matched neither format.
	ErrUnknownFormat = errors.New("unknown subtitle format")
)

var (
	srtCueTimingRe = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2},\d{3})`)
	vttCueTimingRe = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}\.\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}\.\d{3})`)
)

// Parse dispatches to the format-specific parser.
func Parse(raw string, f Format) ([]Cue, error) {
	switch f {
	case FormatSRT:
		return ParseSRT(raw)
	case FormatVTT:
		return ParseVTT(raw)
	}
	return nil, ErrUnknownFormat
}

// ParseSRT parses SubRip content into cues. Blocks with malformed timing
// lines are skipped individually; only a total absence of valid cues fails.
func ParseSRT(raw string) ([]Cue, error) {
	var cues []Cue

	for _, block := range splitBlocks(raw) {
		if len(block) < 3 {
			logrus.Debugf("[subtitle] skipping srt block with %d lines", len(block))
			continue
		}

		start, end, ok := parseTimingLine(block[1], FormatSRT)
		if !ok {
			logrus.Debugf("[subtitle] skipping srt block, bad timing line: %q", block[1])
			continue
		}

		text := strings.Join(block[2:], "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}

		cues = append(cues, Cue{
			ID:        block[0],
			StartTime: start,
			EndTime:   end,
			Text:      text,
		})
	}

	if len(cues) == 0 {
		return nil, ErrNoCues
	}
	return cues, nil
}

// ParseVTT parses WebVTT content into cues. Cue identifiers are optional in
// VTT; id-less cues get a synthesized "cue-<n>" id so translation results can
// still be correlated back.
func ParseVTT(raw string) ([]Cue, error) {
	if !strings.HasPrefix(strings.TrimSpace(raw), vttHeader) {
		return nil, ErrMissingHeader
	}

	var cues []Cue

	for _, block := range splitBlocks(raw) {
		// The header block (and any NOTE/STYLE block without a timing line)
		// falls out of the cue shape below and is skipped.
		if len(block) < 2 {
			continue
		}

		var id, text string
		var start, end float64

		if s, e, ok := parseTimingLine(block[0], FormatVTT); ok {
			start, end = s, e
			id = fmt.Sprintf("cue-%d", len(cues)+1)
			text = strings.Join(block[1:], "\n")
		} else if s, e, ok := parseTimingLine(block[1], FormatVTT); ok {
			start, end = s, e
			id = block[0]
			text = strings.Join(block[2:], "\n")
		} else {
			logrus.Debugf("[subtitle] skipping vtt block, no timing line: %q", block[0])
			continue
		}

		if strings.TrimSpace(text) == "" {
			continue
		}

		cues = append(cues, Cue{
			ID:        id,
			StartTime: start,
			EndTime:   end,
			Text:      text,
		})
	}

	if len(cues) == 0 {
		return nil, ErrNoCues
	}
	return cues, nil
}

// splitBlocks normalizes line endings and splits content into blocks on
// blank-line boundaries, dropping whitespace-only lines and blocks.
func splitBlocks(raw string) [][]string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var blocks [][]string
	var current []string

	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	return blocks
}

// parseTimingLine matches an arrow timing line and decodes both endpoints.
func parseTimingLine(line string, f Format) (start, end float64, ok bool) {
	re := srtCueTimingRe
	if f == FormatVTT {
		re = vttCueTimingRe
	}

	matches := re.FindStringSubmatch(strings.TrimSpace(line))
	if len(matches) != 3 {
		return 0, 0, false
	}

	start, err := ParseTimestamp(matches[1], f)
	if err != nil {
		return 0, 0, false
	}
	end, err = ParseTimestamp(matches[2], f)
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}
