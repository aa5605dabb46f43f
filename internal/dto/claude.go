package dto

// AnalyzeRequest represents the payload for the Claude analysis endpoints
type AnalyzeRequest struct {
	Text string `json:"text" validate:"required"`
}

// AnalysisResponse represents a cleaned completion with its confidence.
// Confidence is a 0-1 fraction parsed from the response text; nil when the
// model reported none.
type AnalysisResponse struct {
	Result     string   `json:"result"`
	Confidence *float64 `json:"confidence"`
}

// ReasoningResponse represents a structured decision-reasoning result
type ReasoningResponse struct {
	Result     string            `json:"result"`
	Sections   map[string]string `json:"sections"`
	Confidence *float64          `json:"confidence"`
}
