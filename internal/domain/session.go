package domain

// PurposeAuth marks a session token issued after verification or login.
const PurposeAuth = "auth"

// SessionClaims is the application payload of a stateless session token.
// Issue and expiry times are added by the token issuer.
type SessionClaims struct {
	SubjectID string `json:"userId"`
	Email     string `json:"email"`
	Verified  bool   `json:"isVerified"`
	Purpose   string `json:"purpose"`
}
