package models

// ErrorBody is the error shape shared by the HTTP API and the result topic.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// SummaryRequestMessage is consumed from the request topic.
type SummaryRequestMessage struct {
	RequestID string         `json:"request_id"`
	Request   SummaryRequest `json:"request"`
}

// SummaryResponseMessage is published to the result topic. Exactly one of
// Result and Error is set.
type SummaryResponseMessage struct {
	RequestID string         `json:"request_id"`
	Result    *SummaryResult `json:"result,omitempty"`
	Error     *ErrorBody     `json:"error,omitempty"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
}
