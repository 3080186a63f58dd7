package httputil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/R3E-Network/rainwater/internal/errors"
)

// MaxRequestBody bounds JSON request bodies accepted by DecodeJSON.
const MaxRequestBody = 32 << 20

// =============================================================================
// Responses
// =============================================================================

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error *errors.ServiceError `json:"error"`
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes err using its HTTP status and code.
func WriteError(w http.ResponseWriter, err *errors.ServiceError) {
	WriteJSON(w, err.HTTPStatus, ErrorResponse{Error: err})
}

// BadRequest writes a 400 invalid_input response.
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, errors.InvalidInput(message, nil))
}

// InternalError writes a 500 response.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, errors.Internal(message, nil))
}

// =============================================================================
// Requests
// =============================================================================

// DecodeJSON decodes the request body into v. On failure it writes a 400
// response and returns false. Unknown fields are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		BadRequest(w, "empty request body")
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteError(w, errors.InvalidInput("invalid JSON body", err))
		return false
	}
	if dec.More() {
		BadRequest(w, "request body must contain a single JSON object")
		return false
	}
	return true
}

// =============================================================================
// Body Reading
// =============================================================================

// ReadAllWithLimit reads up to limit bytes and reports whether more remained.
func ReadAllWithLimit(r io.Reader, limit int64) ([]byte, bool, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > limit {
		return data[:limit], true, nil
	}
	return data, false, nil
}

// ReadAllStrict reads the whole body and fails if it exceeds limit bytes.
func ReadAllStrict(r io.Reader, limit int64) ([]byte, error) {
	data, truncated, err := ReadAllWithLimit(r, limit)
	if err != nil {
		return nil, err
	}
	if truncated {
		return nil, fmt.Errorf("body exceeds %d bytes", limit)
	}
	return bytes.TrimSpace(data), nil
}
