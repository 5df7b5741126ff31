package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-otp-auth/internal/application/auth"
	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/validate"
	"github.com/go-otp-auth/internal/transport/http/middleware"
)

// AuthHandler exposes the registration, verification, resend and login flows.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

type regionRequest struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	BnName string `json:"bnName" validate:"required"`
}

func (r *regionRequest) toDomain() *domain.Region {
	return &domain.Region{ID: r.ID, Name: r.Name, BnName: r.BnName}
}

type registerRequest struct {
	FirstName string         `json:"firstName" validate:"required"`
	LastName  string         `json:"lastName" validate:"required"`
	Email     string         `json:"email" validate:"required,email"`
	Password  string         `json:"password" validate:"required,strong_password"`
	Division  *regionRequest `json:"division" validate:"required"`
	District  *regionRequest `json:"district" validate:"required"`
	Upazila   *regionRequest `json:"upazila" validate:"required"`
	Address   string         `json:"address"`
}

type verifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric_code"`
}

type resendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// decode reads a JSON body into dst and validates it. It writes the 400 response itself.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeValidation(w, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeValidation(w, err.Error())
		return false
	}
	return true
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Register(r.Context(), auth.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Division:  req.Division.toDomain(),
		District:  req.District.toDomain(),
		Upazila:   req.Upazila.toDomain(),
		Address:   req.Address,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res.Status == auth.StatusPendingVerification {
		writeJSON(w, http.StatusOK, Envelope{
			Success: true,
			Code:    domain.CodeEmailAlreadyRegisteredUnverified,
			Message: "Email is already registered but not verified. A new OTP has been sent.",
			Data:    emailData{Email: res.Email},
		})
		return
	}
	writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Code:    domain.CodeRegisterSuccess,
		Message: "Registration successful. Please verify your email with the OTP sent.",
		Data:    emailData{Email: res.Email},
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Verify(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Code:    domain.CodeOTPVerifiedSuccess,
		Message: "Email verified successfully.",
		Token:   res.Token,
		Data:    res.Profile,
	})
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Resend(r.Context(), req.Email, auth.ResendOptions{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res.Blocked {
		writeJSON(w, http.StatusOK, Envelope{
			Success:       false,
			Code:          res.Code,
			Message:       "Please wait before requesting a new OTP.",
			CooldownUntil: res.CooldownUntilMillis(),
		})
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success:       true,
		Code:          res.Code,
		Message:       "A new OTP has been sent to your email.",
		CooldownUntil: res.CooldownUntilMillis(),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res.Status == auth.StatusPendingVerification {
		writeJSON(w, http.StatusForbidden, Envelope{
			Success: false,
			Code:    domain.CodeEmailNotVerified,
			Message: "Email is not verified. A new OTP has been sent.",
			Data:    emailData{Email: res.Email},
		})
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Code:    domain.CodeLoginSuccess,
		Message: "Login successful.",
		Token:   res.Token,
		Data:    res.Profile,
	})
}

type meData struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
	ExpiresAt  int64  `json:"exp"`
}

// Me returns the identity carried by the bearer token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.NewError(domain.ErrUnauthorized, domain.CodeTokenMissing, "Access token is missing."))
		return
	}
	data := meData{UserID: claims.SubjectID, Email: claims.Email, IsVerified: claims.Verified}
	if claims.ExpiresAt != nil {
		data.ExpiresAt = claims.ExpiresAt.Unix()
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Code: domain.CodeLoginSuccess, Message: "Authenticated.", Data: data})
}
