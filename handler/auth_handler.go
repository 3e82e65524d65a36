package handler

import (
	"errors"
	"go-finance-api/common"
	"go-finance-api/logger"
	"go-finance-api/model"
	"go-finance-api/service"
	"net/http"
	"time"
)

const (
	RefreshCookieName   = "refreshToken"
	refreshCookieMaxAge = 7 * 24 * time.Hour
)

type AuthHandler struct {
	service       *service.AuthService
	secureCookies bool
}

func NewAuthHandler(service *service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{service: service, secureCookies: secureCookies}
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(refreshCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func refreshCookie(r *http.Request) string {
	c, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an account and signs it in. The refresh token is set as an HTTP-only cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      model.RegisterRequest  true  "Credentials"
// @Success      201   {object}  model.AuthResponse
// @Failure      400   {object}  common.AppError
// @Failure      409   {object}  common.AppError
// @Failure      429   {object}  common.AppError
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	res, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return common.Conflict("User already exists", err)
		}
		return common.Internal(err)
	}

	h.setRefreshCookie(w, res.RefreshToken)
	common.WriteJSON(w, http.StatusCreated, model.AuthResponse{
		Message:     "User registered successfully",
		User:        res.User.Public(),
		AccessToken: res.AccessToken,
	})
	return nil
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      model.LoginRequest  true  "Credentials"
// @Success      200   {object}  model.AuthResponse
// @Failure      400   {object}  common.AppError
// @Failure      401   {object}  common.AppError
// @Failure      403   {object}  common.AppError
// @Failure      429   {object}  common.AppError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return common.Unauthorized(common.ReasonInvalidCredentials, "Invalid credentials", nil)
		case errors.Is(err, service.ErrAccountDeactivated):
			return common.Forbidden(common.ReasonAccountDeactivated, "Account is deactivated", nil)
		default:
			return common.Internal(err)
		}
	}

	logger.Log.WithField("user_id", res.User.ID).Info("User logged in")
	h.setRefreshCookie(w, res.RefreshToken)
	common.WriteJSON(w, http.StatusOK, model.AuthResponse{
		Message:     "Login successful",
		User:        res.User.Public(),
		AccessToken: res.AccessToken,
	})
	return nil
}

// Refresh godoc
// @Summary      Get a new access token
// @Description  Uses the refreshToken cookie. The refresh token itself is not rotated.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.RefreshResponse
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	token := refreshCookie(r)
	if token == "" {
		return common.Unauthorized(common.ReasonTokenRequired, "Refresh token required", nil)
	}

	access, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken):
			return common.Forbidden(common.ReasonInvalidToken, "Invalid refresh token", err)
		case errors.Is(err, service.ErrRefreshTokenNotFound):
			return common.Forbidden(common.ReasonInvalidToken, "Refresh token expired or invalid", err)
		default:
			return common.Internal(err)
		}
	}

	common.WriteJSON(w, http.StatusOK, model.RefreshResponse{AccessToken: access})
	return nil
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the refresh token from the cookie, if any, and clears the cookie. Always succeeds.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.MessageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.service.Logout(r.Context(), refreshCookie(r)); err != nil {
		logger.Log.WithError(err).Warn("Failed to revoke refresh token on logout")
	}
	h.clearRefreshCookie(w)
	common.WriteJSON(w, http.StatusOK, model.MessageResponse{Message: "Logout successful"})
	return nil
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.UserResponse
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}

	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return common.NotFound("User not found", err)
		}
		return common.Internal(err)
	}

	common.WriteJSON(w, http.StatusOK, model.UserResponse{User: user})
	return nil
}

// Deactivate godoc
// @Summary      Deactivate the current account
// @Description  Disables login and revokes every refresh token of the caller.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.MessageResponse
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /api/auth/deactivate [post]
func (h *AuthHandler) Deactivate(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}

	if err := h.service.Deactivate(r.Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return common.NotFound("User not found", err)
		}
		return common.Internal(err)
	}

	h.clearRefreshCookie(w)
	common.WriteJSON(w, http.StatusOK, model.MessageResponse{Message: "Account deactivated"})
	return nil
}

// ChangePassword godoc
// @Summary      Change the current password
// @Description  Verifies the current password, stores the new one and revokes every refresh token of the caller.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      model.ChangePasswordRequest  true  "Current and new password"
// @Success      200   {object}  model.MessageResponse
// @Failure      400   {object}  common.AppError
// @Failure      401   {object}  common.AppError
// @Failure      403   {object}  common.AppError
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}

	var req model.ChangePasswordRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if err := h.service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			return common.Unauthorized(common.ReasonInvalidCredentials, "Current password is incorrect", nil)
		case errors.Is(err, service.ErrUserNotFound):
			return common.NotFound("User not found", err)
		default:
			return common.Internal(err)
		}
	}

	h.clearRefreshCookie(w)
	common.WriteJSON(w, http.StatusOK, model.MessageResponse{Message: "Password changed successfully"})
	return nil
}

// UpdateProfile godoc
// @Summary      Update the current user's email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      model.ProfileUpdateRequest  true  "New email"
// @Success      200   {object}  model.ProfileResponse
// @Failure      400   {object}  common.AppError
// @Failure      401   {object}  common.AppError
// @Failure      409   {object}  common.AppError
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}

	var req model.ProfileUpdateRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			return common.Conflict("Email already in use", err)
		case errors.Is(err, service.ErrUserNotFound):
			return common.NotFound("User not found", err)
		default:
			return common.Internal(err)
		}
	}

	common.WriteJSON(w, http.StatusOK, model.ProfileResponse{Message: "Profile updated successfully", User: user})
	return nil
}
