package rubric

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/rubricai-api/internal/models"
)

// ErrMalformedResponse indicates the model reply could not be used as an evaluation.
var ErrMalformedResponse = errors.New("malformed ai response")

// MalformedResponseError carries the raw model output that failed to parse.
type MalformedResponseError struct {
	Raw   string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("ai response is not valid json (%d bytes): %v", len(e.Raw), e.Cause)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// Is reports ErrMalformedResponse so callers can match without a type assertion.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// Parse turns the raw model reply into an evaluation. The reply must be a JSON
// document as emitted; surrounding whitespace is the only thing tolerated and
// no rubric fields are checked here.
func Parse(raw string) (models.Evaluation, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil, &MalformedResponseError{Raw: raw, Cause: errors.New("empty response")}
	}

	var document json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &document); err != nil {
		return nil, &MalformedResponseError{Raw: raw, Cause: err}
	}

	return models.Evaluation(cleaned), nil
}
