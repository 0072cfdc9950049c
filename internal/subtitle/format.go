package subtitle

import (
	"fmt"
	"path/filepath"
	"strings"
)

// translatedSuffix is appended to the base name of a rendered download so it
// never overwrites the uploaded original.
const translatedSuffix = "_translated"

// RenderSRT renders cues as SubRip text. Each cue emits its translated text
// when present and falls back to the original otherwise, so the output never
// contains an empty cue body.
func RenderSRT(cues []Cue) string {
	return formatCues(cues, FormatSRT, "")
}

// RenderVTT renders cues as WebVTT text, prepending the WEBVTT header.
func RenderVTT(cues []Cue) string {
	return formatCues(cues, FormatVTT, vttHeader+"\n\n")
}

// Render produces the downloadable bytes for a file in the requested format
// along with the derived download filename.
func Render(f *File, target Format) (string, string, error) {
	var content string
	switch target {
	case FormatSRT:
		content = RenderSRT(f.Cues)
	case FormatVTT:
		content = RenderVTT(f.Cues)
	default:
		return "", "", ErrUnknownFormat
	}
	return content, DownloadName(f.FileName, target), nil
}

// DownloadName derives the output filename: base name plus a fixed suffix
// before the target extension.
func DownloadName(fileName string, target Format) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if base == "" {
		base = "subtitles"
	}
	return base + translatedSuffix + target.Extension()
}

func formatCues(cues []Cue, f Format, header string) string {
	var sb strings.Builder
	sb.WriteString(header)

	for i, cue := range cues {
		if i > 0 {
			sb.WriteString("\n")
		}
		text := cue.TranslatedText
		if text == "" {
			text = cue.Text
		}
		sb.WriteString(fmt.Sprintf("%s\n%s --> %s\n%s\n",
			cue.ID,
			FormatTimestamp(cue.StartTime, f),
			FormatTimestamp(cue.EndTime, f),
			text))
	}

	return sb.String()
}
