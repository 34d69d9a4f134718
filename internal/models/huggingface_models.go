package models

// Payloads for the Hugging Face Inference API summarization task.
type (
	HFSummaryRequest struct {
		Inputs     string              `json:"inputs"`
		Parameters HFSummaryParameters `json:"parameters"`
		Options    *HFInferenceOptions `json:"options,omitempty"`
	}
	HFSummaryParameters struct {
		MaxLength int  `json:"max_length"`
		MinLength int  `json:"min_length"`
		DoSample  bool `json:"do_sample"`
	}
	HFInferenceOptions struct {
		WaitForModel bool `json:"wait_for_model"`
	}
)

type (
	HFSummaryResponse []HFSummary
	HFSummary         struct {
		SummaryText string `json:"summary_text"`
	}
)

type HFErrorResponse struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}
