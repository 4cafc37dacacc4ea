// internal/domain/identity/errors.go
package identity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProviderError is an error reported by the identity provider. Its
// message is surfaced to the user verbatim.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("identity provider error (%d): %s", e.StatusCode, e.Message)
	}
	return "identity provider error: " + e.Message
}

// newProviderError extracts the provider's message from the error body.
// GoTrue variously uses error_description, msg and message.
func newProviderError(statusCode int, body []byte) *ProviderError {
	var payload struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.ErrorDescription != "":
			message = payload.ErrorDescription
		case payload.Msg != "":
			message = payload.Msg
		case payload.Message != "":
			message = payload.Message
		}
	}
	return &ProviderError{StatusCode: statusCode, Message: message}
}
