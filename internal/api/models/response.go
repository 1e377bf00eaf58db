package models

import (
	"encoding/json"

	"tech-envelope/internal/algebra"
	"tech-envelope/internal/analysis"
)

// BuildResponse returns the synthesized fragment plus its size summary.
type BuildResponse struct {
	BuildID    string          `json:"build_id"`
	Technology string          `json:"technology"`
	Stats      algebra.Stats   `json:"stats"`
	Fragment   json.RawMessage `json:"fragment"`
}

// FitResponse returns the fitted coefficients per output carrier.
type FitResponse struct {
	Technology  string               `json:"technology"`
	Breakpoints []float64            `json:"breakpoints,omitempty"`
	Alpha1      map[string][]float64 `json:"alpha1"`
	Alpha2      map[string][]float64 `json:"alpha2"`
}

// AnalyzeResponse returns the scored function types, best fit first.
type AnalyzeResponse struct {
	Technology string               `json:"technology"`
	Candidates []analysis.Candidate `json:"candidates"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
