package domain

// Code is a stable machine-readable outcome identifier returned to clients.
type Code string

const (
	CodeEmailAlreadyRegisteredVerified   Code = "AUTH_EMAIL_ALREADY_REGISTERED_VERIFIED"
	CodeEmailAlreadyRegisteredUnverified Code = "AUTH_EMAIL_ALREADY_REGISTERED_UNVERIFIED"
	CodeUserNotFound                     Code = "AUTH_USER_NOT_FOUND"
	CodeEmailAlreadyVerified             Code = "AUTH_EMAIL_ALREADY_VERIFIED"
	CodeEmailNotVerified                 Code = "AUTH_EMAIL_NOT_VERIFIED"
	CodeRegisterSuccess                  Code = "AUTH_REGISTER_SUCCESS"
	CodeLoginSuccess                     Code = "AUTH_LOGIN_SUCCESS"
	CodeTokenMissing                     Code = "AUTH_TOKEN_MISSING"
	CodeTokenInvalid                     Code = "AUTH_TOKEN_INVALID"

	CodeOTPExpiredOrInvalid   Code = "OTP_EXPIRED_OR_INVALID"
	CodeOTPIncorrect          Code = "OTP_INCORRECT"
	CodeOTPVerifiedSuccess    Code = "OTP_VERIFIED_SUCCESS"
	CodeOTPResendCooldown     Code = "OTP_RESEND_COOLDOWN_ACTIVE"
	CodeOTPResentSuccess      Code = "OTP_RESENT_SUCCESS"
	CodeOTPGenerationFailed   Code = "OTP_GENERATION_FAILED"
	CodeOTPStorageFailed      Code = "REDIS_OTP_STORAGE_FAILED"
	CodeEmailDeliveryFailed   Code = "EMAIL_DELIVERY_FAILED"
	CodeTooManyRequests       Code = "TOO_MANY_REQUESTS"

	CodeValidationEmailInvalid          Code = "VALIDATION_EMAIL_INVALID"
	CodeValidationEmailPasswordRequired Code = "VALIDATION_EMAIL_PASSWORD_REQUIRED"
	CodeValidationEmailPasswordInvalid  Code = "VALIDATION_EMAIL_PASSWORD_INVALID"
	CodeValidationEmailOTPRequired      Code = "VALIDATION_EMAIL_OTP_REQUIRED"
	CodeValidationRequestInvalid        Code = "VALIDATION_REQUEST_INVALID"

	CodeInternal Code = "INTERNAL_SERVER_ERROR"
)
