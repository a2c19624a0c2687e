package httpapi

import (
	"net/http"
	"strings"

	"github.com/hearthside/authkit"
	"github.com/hearthside/authkit/middleware"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	var fields []fieldError
	if strings.TrimSpace(body.Name) == "" {
		fields = append(fields, fieldError{Path: "name", Msg: "name is required"})
	}
	if body.Email == "" {
		fields = append(fields, fieldError{Path: "email", Msg: "email is required"})
	}
	if body.Password == "" {
		fields = append(fields, fieldError{Path: "password", Msg: "password is required"})
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	account, err := s.engine.Register(requestContext(r), authkit.RegisterRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{Success: true, UserID: account.ID})
}

func (s *Server) handleVerifyRegistration(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
		OTP    string `json:"otp"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	var fields []fieldError
	if body.UserID == "" {
		fields = append(fields, fieldError{Path: "userId", Msg: "userId is required"})
	}
	if body.OTP == "" {
		fields = append(fields, fieldError{Path: "otp", Msg: "otp is required"})
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	result, err := s.engine.VerifyRegistration(requestContext(r), body.UserID, body.OTP)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Token: result.Token, User: viewOf(result.Account)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	var fields []fieldError
	if body.Email == "" {
		fields = append(fields, fieldError{Path: "email", Msg: "email is required"})
	}
	if body.Password == "" {
		fields = append(fields, fieldError{Path: "password", Msg: "password is required"})
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	accountID, err := s.engine.Login(requestContext(r), body.Email, body.Password)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, UserID: accountID})
}

func (s *Server) handleVerifyLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
		OTP    string `json:"otp"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	var fields []fieldError
	if body.UserID == "" {
		fields = append(fields, fieldError{Path: "userId", Msg: "userId is required"})
	}
	if body.OTP == "" {
		fields = append(fields, fieldError{Path: "otp", Msg: "otp is required"})
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	result, err := s.engine.VerifyLogin(requestContext(r), body.UserID, body.OTP)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Token: result.Token, User: viewOf(result.Account)})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Email == "" {
		writeFieldErrors(w, []fieldError{{Path: "email", Msg: "email is required"}})
		return
	}

	if err := s.engine.RequestPasswordReset(requestContext(r), body.Email); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	resetToken := r.PathValue("resetToken")

	var body struct {
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Password == "" {
		writeFieldErrors(w, []fieldError{{Path: "password", Msg: "password is required"}})
		return
	}

	if err := s.engine.ConfirmPasswordReset(requestContext(r), resetToken, body.Password); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func (s *Server) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Email == "" {
		writeFieldErrors(w, []fieldError{{Path: "email", Msg: "email is required"}})
		return
	}

	if err := s.engine.ResendRegistrationOTP(requestContext(r), body.Email); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "unauthenticated"})
		return
	}

	if err := s.engine.Logout(requestContext(r), token); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	res, ok := middleware.AuthResultFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "unauthenticated"})
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeFieldErrors(w, []fieldError{{Path: "name", Msg: "name is required"}})
		return
	}

	account, err := s.engine.UpdateName(requestContext(r), res.Account.ID, body.Name)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, User: viewOf(account)})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	res, ok := middleware.AuthResultFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "unauthenticated"})
		return
	}

	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	var fields []fieldError
	if body.CurrentPassword == "" {
		fields = append(fields, fieldError{Path: "currentPassword", Msg: "currentPassword is required"})
	}
	if body.NewPassword == "" {
		fields = append(fields, fieldError{Path: "newPassword", Msg: "newPassword is required"})
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	if err := s.engine.ChangePassword(requestContext(r), res.Account.ID, body.CurrentPassword, body.NewPassword); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	res, ok := middleware.AuthResultFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "unauthenticated"})
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, User: viewOf(res.Account)})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}
	token := value[len(bearer):]
	if token == "" {
		return "", false
	}
	return token, true
}
