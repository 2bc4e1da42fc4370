package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrEmbedding       = errors.New("embedding request failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
)

// Sentinel outputs for locally recoverable outcomes. They are returned as
// ordinary text so a pipeline keeps going.
const (
	NoSuitableTarget         = "No suitable agent found for the prompt."
	NoOutputGenerated        = "No output generated."
	NoRelevantInformation    = "No relevant information found."
	EvaluationFailedResponse = "Failed to generate a satisfactory response within the interaction limit."
	EvaluationFailedVerdict  = "Failed"
)
