package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/go-otp-auth/internal/domain"
)

type errorBody struct {
	Success bool        `json:"success"`
	Code    domain.Code `json:"code"`
	Message string      `json:"message"`
}

// writeJSONError writes the standard failure envelope with the correct Content-Type.
func writeJSONError(w http.ResponseWriter, status int, code domain.Code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Success: false, Code: code, Message: msg})
}
