package subtitle

// Format identifies a subtitle container format.
type Format string

const (
	FormatSRT     Format = "srt"
	FormatVTT     Format = "vtt"
	FormatUnknown Format = ""
)

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	}
	return ""
}

// Cue is a single timed caption unit. TranslatedText is empty until a
// translation merge or a manual edit attaches one.
type Cue struct {
	ID             string  `json:"id"`
	StartTime      float64 `json:"start_time"` // seconds
	EndTime        float64 `json:"end_time"`   // seconds
	Text           string  `json:"text"`
	TranslatedText string  `json:"translated_text,omitempty"`
}

// Metadata is derived read-only information about a parsed file.
type Metadata struct {
	ByteSize      int     `json:"byte_size"`
	TotalCues     int     `json:"total_cues"`
	TotalDuration float64 `json:"total_duration"` // last cue's end time, seconds
}

// File aggregates a parsed subtitle upload. Cue order is source file order
// and is never re-sorted.
type File struct {
	FileName string   `json:"file_name"`
	Format   Format   `json:"format"`
	Cues     []Cue    `json:"cues"`
	Metadata Metadata `json:"metadata"`
}

// NewFile builds the aggregate with derived metadata.
func NewFile(fileName string, format Format, cues []Cue, byteSize int) *File {
	var duration float64
	if len(cues) > 0 {
		duration = cues[len(cues)-1].EndTime
	}
	return &File{
		FileName: fileName,
		Format:   format,
		Cues:     cues,
		Metadata: Metadata{
			ByteSize:      byteSize,
			TotalCues:     len(cues),
			TotalDuration: duration,
		},
	}
}
