package dto

// EvaluationRequest is the payload accepted by POST /evaluate.
type EvaluationRequest struct {
	Pseudocode string `json:"pseudocode" validate:"required"`
}

