package subtitle

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Issue is a single field-level validation problem. Validation never
// short-circuits: callers receive every problem at once.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Limits are the configured validation ceilings.
type Limits struct {
	MaxFileBytes int64 // reject uploads above this size
	MaxCues      int   // reject files with more cues than this
	SampleCues   int   // per-cue sanity pass covers at most this many cues
}

// DefaultLimits mirror the configuration defaults.
var DefaultLimits = Limits{
	MaxFileBytes: 1 << 20,
	MaxCues:      1000,
	SampleCues:   50,
}

// ValidateUpload checks file-level constraints before any parsing work.
func ValidateUpload(fileName string, byteSize int64, limits Limits) []Issue {
	var issues []Issue

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".srt" && ext != ".vtt" {
		issues = append(issues, Issue{
			Field:   "file_name",
			Message: fmt.Sprintf("unsupported file extension %q, expected .srt or .vtt", ext),
		})
	}
	if byteSize == 0 {
		issues = append(issues, Issue{Field: "file", Message: "file is empty"})
	}
	if limits.MaxFileBytes > 0 && byteSize > limits.MaxFileBytes {
		issues = append(issues, Issue{
			Field:   "file",
			Message: fmt.Sprintf("file size %d exceeds limit of %d bytes", byteSize, limits.MaxFileBytes),
		})
	}

	return issues
}

// ValidateFile checks cue-count and per-cue constraints on a parsed file.
// The per-cue pass covers the first SampleCues cues as a fast sanity check.
func ValidateFile(f *File, limits Limits) []Issue {
	var issues []Issue

	if limits.MaxCues > 0 && len(f.Cues) > limits.MaxCues {
		issues = append(issues, Issue{
			Field:   "cues",
			Message: fmt.Sprintf("file has %d cues, exceeding the limit of %d", len(f.Cues), limits.MaxCues),
		})
	}

	sample := len(f.Cues)
	if limits.SampleCues > 0 && sample > limits.SampleCues {
		sample = limits.SampleCues
	}

	for i := 0; i < sample; i++ {
		cue := f.Cues[i]
		if strings.TrimSpace(cue.Text) == "" {
			issues = append(issues, Issue{
				Field:   "cues",
				Message: fmt.Sprintf("cue %s has empty text", cue.ID),
			})
		}
		if cue.StartTime < 0 || cue.EndTime < 0 {
			issues = append(issues, Issue{
				Field:   "cues",
				Message: fmt.Sprintf("cue %s has negative timing", cue.ID),
			})
		}
		if cue.EndTime <= cue.StartTime {
			issues = append(issues, Issue{
				Field:   "cues",
				Message: fmt.Sprintf("cue %s end time is not after start time", cue.ID),
			})
		}
	}

	return issues
}

// ValidateRequest checks the translation request languages: both must be
// present and must differ.
func ValidateRequest(sourceLanguage, targetLanguage string) []Issue {
	var issues []Issue

	source := strings.TrimSpace(sourceLanguage)
	target := strings.TrimSpace(targetLanguage)

	if source == "" {
		issues = append(issues, Issue{Field: "source_language", Message: "source language is required"})
	}
	if target == "" {
		issues = append(issues, Issue{Field: "target_language", Message: "target language is required"})
	}
	if source != "" && target != "" && strings.EqualFold(source, target) {
		issues = append(issues, Issue{
			Field:   "target_language",
			Message: "source and target languages must differ",
		})
	}

	return issues
}
