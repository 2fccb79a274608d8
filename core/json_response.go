package core

import (
	"encoding/json"
	"errors"
	"net/http"
)

// JSONResponse is the standard response envelope.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// RespondJSON writes data wrapped in the standard envelope.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, JSONResponse{Data: data})
}

// RespondJSONMeta writes data plus metadata (pagination totals and the like).
func RespondJSONMeta(w http.ResponseWriter, status int, data any, meta map[string]any) {
	writeJSON(w, status, JSONResponse{Data: data, Meta: meta})
}

// RespondError maps err to an HTTP status and writes the error envelope.
// HTTPError values keep their code and key; anything else is reported as
// an opaque internal error so low-level detail never leaks to clients.
func RespondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := &ErrorDetail{Code: ErrInternalServerError.Key}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		detail.Code = httpErr.Key
		if msg := err.Error(); msg != httpErr.Key {
			detail.Message = msg
		}
	}

	writeJSON(w, status, JSONResponse{Error: detail})
}

func writeJSON(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// DecodeJSON parses a request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ErrBadRequest.WithMessage("invalid request body")
	}
	return nil
}
