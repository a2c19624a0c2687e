package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hearthside/authkit"
)

const maxBodyBytes = 1 << 20

type fieldError struct {
	Path string `json:"path"`
	Msg  string `json:"msg"`
}

// envelope is the uniform response body. Success responses carry the payload
// fields; failures carry message and optional field-level errors.
type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Errors  []fieldError `json:"errors,omitempty"`
	UserID  string       `json:"userId,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    *userView    `json:"user,omitempty"`
}

type userView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func viewOf(account authkit.Account) *userView {
	return &userView{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
	}
}

func writeJSON(w http.ResponseWriter, status int, v envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFieldErrors(w http.ResponseWriter, fields []fieldError) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Success: false,
		Message: "validation failed",
		Errors:  fields,
	})
}

// decodeBody parses a JSON request body into dst. A malformed body is a
// validation failure, reported before any business logic runs.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "malformed request body",
		})
		return false
	}
	return true
}

// writeEngineError maps a domain error to an HTTP status and a safe
// user-facing message. Internal detail never leaves the handler boundary.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authkit.ErrNameInvalid):
		writeFieldErrors(w, []fieldError{{Path: "name", Msg: "name is invalid"}})
	case errors.Is(err, authkit.ErrEmailInvalid):
		writeFieldErrors(w, []fieldError{{Path: "email", Msg: "email is invalid"}})
	case errors.Is(err, authkit.ErrPasswordPolicy):
		writeFieldErrors(w, []fieldError{{Path: "password", Msg: "password does not meet the complexity policy"}})
	case errors.Is(err, authkit.ErrPasswordReuse):
		writeFieldErrors(w, []fieldError{{Path: "newPassword", Msg: "new password must differ from the current password"}})
	case errors.Is(err, authkit.ErrDuplicateAccount):
		writeJSON(w, http.StatusConflict, envelope{Success: false, Message: "an account with this email already exists"})
	case errors.Is(err, authkit.ErrAccountAlreadyVerified):
		writeJSON(w, http.StatusConflict, envelope{Success: false, Message: "account is already verified"})
	case errors.Is(err, authkit.ErrAccountNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "account not found"})
	case errors.Is(err, authkit.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "invalid credentials"})
	case errors.Is(err, authkit.ErrAccountUnverified):
		writeJSON(w, http.StatusForbidden, envelope{Success: false, Message: "account is not verified"})
	case errors.Is(err, authkit.ErrOTPInvalid):
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid one-time code"})
	case errors.Is(err, authkit.ErrOTPExpired):
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "one-time code expired"})
	case errors.Is(err, authkit.ErrOTPAttemptsExceeded):
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "too many attempts, request a new code"})
	case errors.Is(err, authkit.ErrResetTokenInvalid):
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid or expired reset token"})
	case errors.Is(err, authkit.ErrTokenInvalid), errors.Is(err, authkit.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "unauthenticated"})
	default:
		writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "internal server error"})
	}
}
