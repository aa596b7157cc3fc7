// Package httpjson holds the JSON request/response helpers shared by
// every API handler. All error bodies are {"message": "..."} with the
// status derived from the apperr taxonomy.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/farmcycle/farmcycle/internal/app/system/apperr"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; the API only carries small JSON
// documents.
const maxBodyBytes = 1 << 20

// Decode reads the request body into dst. Failures come back as
// validation errors so handlers can pass them straight to Error.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	return nil
}

// Respond writes v as JSON with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes a {"message": msg} body with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, map[string]string{"message": msg})
}

// Error maps err through the apperr taxonomy and writes the JSON error
// body. Internal errors are logged with their cause and surfaced as a
// generic message.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError && log != nil {
		cause := err
		var e *apperr.Error
		if errors.As(err, &e) && e.Err != nil {
			cause = e.Err
		}
		log.Error("request failed", zap.Error(cause))
	}
	Message(w, status, errMessage(err))
}

func errMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return "internal server error"
}
