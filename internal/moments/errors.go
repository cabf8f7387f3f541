package moments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mxkvch/valentine/internal/logger"
)

// Error codes surfaced in the JSON envelope.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidID     = "INVALID_ID"
	CodeInvalidCursor = "INVALID_CURSOR"
	CodeNotFound      = "NOT_FOUND"
	CodeInternal      = "INTERNAL_ERROR"
)

// APIError is a request-level failure carrying the HTTP status and the wire
// code. Anything that is not an APIError is reported to the caller as a
// generic internal error; backend detail never leaks.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details interface{}
}

func (e *APIError) Error() string { return e.Message }

func validationError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: CodeValidation, Message: message}
}

func invalidIDError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: CodeInvalidID, Message: message}
}

func invalidCursorError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: CodeInvalidCursor, Message: message}
}

func notFoundError(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

func internalError(message string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: message}
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		log.Error("unexpected error", logger.Error(err))
		apiErr = internalError("Internal server error")
	}

	writeJSON(w, apiErr.Status, errorEnvelope{Error: errorBody{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}})
}
