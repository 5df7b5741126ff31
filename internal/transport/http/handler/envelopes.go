package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-otp-auth/internal/domain"
)

// Envelope is the response wrapper for every auth endpoint.
type Envelope struct {
	Success       bool        `json:"success"`
	Code          domain.Code `json:"code"`
	Message       string      `json:"message"`
	Token         string      `json:"token,omitempty"`
	Data          interface{} `json:"data,omitempty"`
	CooldownUntil *int64      `json:"cooldownUntil,omitempty"`
}

type emailData struct {
	Email string `json:"email"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its status and stable code. Causes are logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	de := domain.AsError(err)
	status := de.Status()
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "code", de.Code, "err", err)
	}
	writeJSON(w, status, Envelope{Success: false, Code: de.Code, Message: de.Message})
}

func writeValidation(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, Envelope{
		Success: false, Code: domain.CodeValidationRequestInvalid, Message: msg,
	})
}
