package summarizer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	t.Run("Should classify wrapped errors", func(t *testing.T) {
		wrapped := fmt.Errorf("worker: %w", &ValidationError{Field: "text", Reason: "empty"})
		assert.Equal(t, KindValidation, Kind(wrapped))
		assert.Equal(t, KindDivision, Kind(&DivisionError{Reason: "zero"}))
		assert.Equal(t, KindExternalService, Kind(&ExternalServiceError{Provider: "hf", Err: errors.New("down")}))
		assert.Equal(t, KindInternal, Kind(errors.New("boom")))
	})

	t.Run("Should unwrap external service causes", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := &ExternalServiceError{Provider: "hf", Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, `summarization service "hf" failed: connection reset`, err.Error())
	})
}

func TestDescribe(t *testing.T) {
	body := Describe(&ValidationError{Field: "max_length", Reason: "301 is outside [50, 300]"})
	assert.Equal(t, "validation", body.Kind)
	assert.Equal(t, "invalid max_length: 301 is outside [50, 300]", body.Message)

	body = Describe(errors.New("nil pointer somewhere"))
	assert.Equal(t, "internal", body.Kind)
	assert.Equal(t, "internal error", body.Message)
}
