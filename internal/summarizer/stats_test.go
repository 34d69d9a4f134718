package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionRatio(t *testing.T) {
	ratio, err := CompressionRatio(40, 160)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, ratio, 1e-12)

	_, err = CompressionRatio(3, 0)
	var dErr *DivisionError
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, KindDivision, Kind(err))
}

func TestComputeStats(t *testing.T) {
	t.Run("Should count whitespace delimited words", func(t *testing.T) {
		result, err := ComputeStats("one two three four", "one  two")
		require.NoError(t, err)

		assert.Equal(t, 4, result.OriginalWordCount)
		assert.Equal(t, 2, result.SummaryWordCount)
		assert.InDelta(t, 0.5, result.CompressionRatio, 1e-12)
		assert.Equal(t, "50.0%", result.CompressionPercent)
		assert.Equal(t, "one  two", result.SummaryText)
	})

	t.Run("Should guard an empty original", func(t *testing.T) {
		result, err := ComputeStats("   ", "summary")
		assert.Nil(t, result)
		var dErr *DivisionError
		require.ErrorAs(t, err, &dErr)
	})
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "30.8%", FormatPercent(0.3077))
	assert.Equal(t, "0.0%", FormatPercent(0))
	assert.Equal(t, "100.0%", FormatPercent(1))
}
