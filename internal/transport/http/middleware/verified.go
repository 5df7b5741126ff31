package middleware

import (
	"net/http"

	"github.com/go-otp-auth/internal/domain"
)

// RequireVerified allows only session tokens issued to a verified identity.
// It must run after Auth.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, domain.CodeTokenMissing, "Access token is missing.")
			return
		}
		if claims.Purpose != domain.PurposeAuth {
			writeJSONError(w, http.StatusForbidden, domain.CodeTokenInvalid, "Access token is invalid or expired.")
			return
		}
		if !claims.Verified {
			writeJSONError(w, http.StatusForbidden, domain.CodeEmailNotVerified, "Email is not verified.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
