package summarizer

import (
	"fmt"

	"github.com/spacesedan/textsummarizer/internal/models"
	"github.com/spacesedan/textsummarizer/internal/textproc"
)

// CompressionRatio is summaryWords / originalWords.
func CompressionRatio(summaryWords, originalWords int) (float64, error) {
	if originalWords == 0 {
		return 0, &DivisionError{Reason: "original text has no words"}
	}
	return float64(summaryWords) / float64(originalWords), nil
}

// FormatPercent renders a ratio the way the demo page showed it, e.g. "30.8%".
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// ComputeStats derives the word-count statistics for a summary of original.
func ComputeStats(original, summary string) (*models.SummaryResult, error) {
	originalWords := textproc.WordCount(original)
	summaryWords := textproc.WordCount(summary)

	ratio, err := CompressionRatio(summaryWords, originalWords)
	if err != nil {
		return nil, err
	}

	return &models.SummaryResult{
		SummaryText:        summary,
		OriginalWordCount:  originalWords,
		SummaryWordCount:   summaryWords,
		CompressionRatio:   ratio,
		CompressionPercent: FormatPercent(ratio),
	}, nil
}
