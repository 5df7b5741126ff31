package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// Default policy windows. Each is overridable through ServiceDeps.
const (
	DefaultOTPTTL          = 10 * time.Minute
	DefaultResendCooldown  = 120 * time.Second
	DefaultSessionTokenTTL = 30 * time.Minute
)

// Status is the tagged outcome of Register and Login.
type Status string

const (
	StatusCreated             Status = "created"
	StatusPendingVerification Status = "pending_verification"
	StatusLoggedIn            Status = "logged_in"
)

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Division  *domain.Region
	District  *domain.Region
	Upazila   *domain.Region
	Address   string
}

type RegisterResult struct {
	Status Status
	Email  string
}

type VerifyResult struct {
	Token   string
	Profile *domain.Profile
}

type ResendOptions struct {
	// BypassCooldown is set by internal callers; such resends neither check nor write a cooldown.
	BypassCooldown bool
}

// ResendResult reports a resend outcome. Blocked is a normal result, not an error.
type ResendResult struct {
	Blocked       bool
	CooldownUntil *time.Time
	Code          domain.Code
}

// CooldownUntilMillis returns CooldownUntil as epoch milliseconds, or nil.
func (r *ResendResult) CooldownUntilMillis() *int64 {
	if r.CooldownUntil == nil {
		return nil
	}
	ms := r.CooldownUntil.UnixMilli()
	return &ms
}

type LoginResult struct {
	Status  Status
	Email   string
	Token   string
	Profile *domain.Profile
}

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	Verify(ctx context.Context, email, code string) (*VerifyResult, error)
	Resend(ctx context.Context, email string, opts ResendOptions) (*ResendResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// CredentialStore is the durable user repository. FindByEmail returns an error
// wrapping domain.ErrNotFound when absent; Create wraps domain.ErrConflict on a
// duplicate email; SetVerified is idempotent.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	SetVerified(ctx context.Context, email string) error
}

// EphemeralStore is a key-value store with per-key TTL. Get wraps
// domain.ErrNotFound for absent or expired keys; Delete of an absent key is a no-op.
type EphemeralStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Notifier delivers a message out of band. Failures wrap domain.ErrDispatch.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type TokenIssuer interface {
	Sign(claims domain.SessionClaims, ttl time.Duration) (string, error)
}

type CodeGenerator interface {
	Generate() (string, error)
	Length() int
}

// Recorder receives coordinator outcomes for metrics.
type Recorder interface {
	Registration(outcome string)
	OTPDispatched(reason string)
	Verification(outcome string)
	ResendBlocked()
	Login(outcome string)
}

type service struct {
	users      CredentialStore
	ephemeral  EphemeralStore
	notifier   Notifier
	tokens     TokenIssuer
	codes      CodeGenerator
	metrics    Recorder
	otpTTL     time.Duration
	cooldown   time.Duration
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
	newID      func() string

	dummyOnce sync.Once
	dummyHash []byte
}

type ServiceDeps struct {
	UserRepo        CredentialStore
	EphemeralStore  EphemeralStore
	Notifier        Notifier
	TokenIssuer     TokenIssuer
	CodeGenerator   CodeGenerator
	Metrics         Recorder // optional
	OTPTTL          time.Duration
	ResendCooldown  time.Duration
	SessionTokenTTL time.Duration
	BcryptCost      int              // zero selects bcrypt.DefaultCost
	Now             func() time.Time // zero selects time.Now
	NewID           func() string
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		users:      deps.UserRepo,
		ephemeral:  deps.EphemeralStore,
		notifier:   deps.Notifier,
		tokens:     deps.TokenIssuer,
		codes:      deps.CodeGenerator,
		metrics:    deps.Metrics,
		otpTTL:     deps.OTPTTL,
		cooldown:   deps.ResendCooldown,
		tokenTTL:   deps.SessionTokenTTL,
		bcryptCost: deps.BcryptCost,
		now:        deps.Now,
		newID:      deps.NewID,
	}
	if s.metrics == nil {
		s.metrics = nopRecorder{}
	}
	if s.otpTTL <= 0 {
		s.otpTTL = DefaultOTPTTL
	}
	if s.cooldown <= 0 {
		s.cooldown = DefaultResendCooldown
	}
	if s.tokenTTL <= 0 {
		s.tokenTTL = DefaultSessionTokenTTL
	}
	if s.bcryptCost == 0 {
		s.bcryptCost = bcrypt.DefaultCost
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = id.New
	}
	return s
}

// normalizeEmail is applied at every entry point so store keys agree.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func storeFailure(err error) error {
	return domain.Wrap(domain.ErrInternal, domain.CodeInternal, "Internal server error", err)
}

func (s *service) issueToken(u *domain.User) (string, error) {
	token, err := s.tokens.Sign(domain.SessionClaims{
		SubjectID: u.UserID,
		Email:     u.Email,
		Verified:  u.Verified,
		Purpose:   domain.PurposeAuth,
	}, s.tokenTTL)
	if err != nil {
		return "", domain.Wrap(domain.ErrInternal, domain.CodeInternal, "Failed to issue session token", err)
	}
	return token, nil
}

type nopRecorder struct{}

func (nopRecorder) Registration(string)  {}
func (nopRecorder) OTPDispatched(string) {}
func (nopRecorder) Verification(string)  {}
func (nopRecorder) ResendBlocked()       {}
func (nopRecorder) Login(string)         {}
