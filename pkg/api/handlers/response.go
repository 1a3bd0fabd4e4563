package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	rerrors "github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/errors"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/service"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/logging"
)

// Error kinds for failures detected before the service is called.
const (
	KindInvalidRequest  = "invalid_request"
	KindRequestTooLarge = "request_too_large"
)

// requestError is a malformed request body.
type requestError struct {
	kind   string
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

// StatusFor maps an error to an HTTP status. Engine errors are client errors
// except an undecodable tree, missing rules are 404 and anything else is 500.
func StatusFor(err error) int {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reqErr.status
	}
	if kind := rerrors.KindOf(err); kind != "" {
		if kind == rerrors.KindInvalidTree {
			return http.StatusInternalServerError
		}
		return http.StatusBadRequest
	}
	switch service.ErrorKind(err) {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the error payload. Internal errors get a generic message.
func errorBody(err error, status int) ErrorBody {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return ErrorBody{Kind: reqErr.kind, Message: reqErr.msg}
	}
	if e, ok := rerrors.As(err); ok {
		return ErrorBody{
			Kind:       string(e.Kind),
			Message:    e.Message,
			Fragment:   e.Fragment,
			Field:      e.Field,
			Suggestion: e.Suggestion,
		}
	}
	if status >= http.StatusInternalServerError {
		return ErrorBody{Kind: service.KindInternal, Message: "an internal error occurred"}
	}
	return ErrorBody{Kind: service.ErrorKind(err), Message: err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		http.Error(w, `{"error":{"kind":"internal","message":"failed to encode response"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusFor(err)
	log := logging.FromContext(r.Context(), logger)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	} else {
		log.Debug("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: errorBody(err, status)})
}

// decodeJSON decodes a single JSON object from the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return &requestError{kind: KindRequestTooLarge, status: http.StatusRequestEntityTooLarge,
				msg: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)}
		case errors.Is(err, io.EOF):
			return &requestError{kind: KindInvalidRequest, status: http.StatusBadRequest, msg: "request body is empty"}
		default:
			return &requestError{kind: KindInvalidRequest, status: http.StatusBadRequest,
				msg: fmt.Sprintf("invalid JSON body: %v", err)}
		}
	}
	if dec.More() {
		return &requestError{kind: KindInvalidRequest, status: http.StatusBadRequest, msg: "unexpected data after JSON body"}
	}
	return nil
}

func badRequest(msg string) error {
	return &requestError{kind: KindInvalidRequest, status: http.StatusBadRequest, msg: msg}
}
