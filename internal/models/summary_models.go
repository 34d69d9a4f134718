package models

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

type SummaryRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
	Format    string `json:"format,omitempty"`
}

type SummaryResult struct {
	SummaryText        string     `json:"summary_text"`
	OriginalWordCount  int        `json:"original_word_count"`
	SummaryWordCount   int        `json:"summary_word_count"`
	CompressionRatio   float64    `json:"compression_ratio"`
	CompressionPercent string     `json:"compression_percent"`
	MaxLength          int        `json:"max_length"`
	MinLength          int        `json:"min_length"`
	Provider           string     `json:"provider"`
	Cached             bool       `json:"cached"`
	Tone               *ToneScore `json:"tone,omitempty"`
}

type ToneScore struct {
	Compound float64 `json:"compound"`
	Label    string  `json:"label"`
}

// GenerationParams are forwarded verbatim to the summarization capability.
type GenerationParams struct {
	MaxLength int
	MinLength int
	DoSample  bool
}
