package domain

// Ephemeral store keys. At most one OTP and one cooldown marker live per email;
// writing a key replaces the previous value and TTL.
const (
	otpKeyPrefix      = "otp:email:"
	cooldownKeyPrefix = "otp:cooldown:"
)

func OTPKey(email string) string      { return otpKeyPrefix + email }
func CooldownKey(email string) string { return cooldownKeyPrefix + email }

// VerificationEntry is a TTL-bound ephemeral value as persisted by table-backed stores.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type VerificationEntry struct {
	Key       string `json:"key" dynamodbav:"key"`
	Value     string `json:"value" dynamodbav:"value"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
