package clients

import "time"

const (
	DEFAULT_TIMEOUT = 60 * time.Second
	PREVIEW_BYTES   = 50
	USER_AGENT      = "textsummarizer-client/1.0 (+https://github.com/spacesedan/textsummarizer)"
)

// HTTPTimeout returns SUMMARIZER_TIMEOUT, or DEFAULT_TIMEOUT when it is
// zero.
func HTTPTimeout(configured time.Duration) time.Duration {
	if configured > 0 {
		return configured
	}
	return DEFAULT_TIMEOUT
}
