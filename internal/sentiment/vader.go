package sentiment

import (
	"github.com/jonreiter/govader"
	"github.com/spacesedan/textsummarizer/internal/models"
)

const (
	positiveThreshold = 0.20
	negativeThreshold = -0.20
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

// Score returns the VADER compound score of text with a coarse label.
func Score(text string) models.ToneScore {
	score := analyzer.PolarityScores(text).Compound

	return models.ToneScore{
		Compound: score,
		Label:    Label(score),
	}
}

func Label(score float64) string {
	switch {
	case score >= positiveThreshold:
		return "positive"
	case score <= negativeThreshold:
		return "negative"
	default:
		return "neutral"
	}
}
