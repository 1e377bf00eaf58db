package models

// BuildRequest is the body of POST /api/v1/build. Document is a full
// technology document in the YAML configuration format, including inline
// performance samples.
type BuildRequest struct {
	Document string `json:"document" binding:"required"`

	// TransformBigM compiles the disjunctions into big-M constraints and
	// indicator binaries before returning the fragment.
	TransformBigM bool `json:"transform_big_m,omitempty"`
}

// FitRequest is the body of POST /api/v1/fit: fit only, no constraints.
type FitRequest struct {
	Document string `json:"document" binding:"required"`
}

// AnalyzeRequest is the body of POST /api/v1/analyze: score the candidate
// function types for the document.
type AnalyzeRequest struct {
	Document string `json:"document" binding:"required"`
}
