package dynamo

// DynamoDB attribute names used in keys and expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail     = "email"
	fieldVerified  = "verified"
	fieldUpdatedAt = "updated_at"
	fieldKey       = "key"
	fieldExpiresAt = "expires_at"
)
