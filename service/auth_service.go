package service

import (
	"context"
	"errors"
	"fmt"
	"go-finance-api/logger"
	"go-finance-api/model"
	"go-finance-api/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrUserExists           = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountDeactivated   = errors.New("account is deactivated")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrRefreshTokenNotFound = errors.New("refresh token expired or invalid")
	ErrUserNotFound         = errors.New("user not found")
	ErrWrongPassword        = errors.New("current password is incorrect")
)

// AuthResult is what register and login hand back to the transport layer.
type AuthResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// AuthService runs the register/login/refresh/logout flows on top of the
// credential store, the refresh token ledger, the hasher and the issuer.
type AuthService struct {
	users  repository.IUserRepository
	tokens repository.ITokenRepository
	hasher PasswordHasher
	issuer *TokenService
}

func NewAuthService(users repository.IUserRepository, tokens repository.ITokenRepository, hasher PasswordHasher, issuer *TokenService) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		issuer: issuer,
	}
}

// Register creates an account for an already validated email and password
// and signs the user in.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.Log.WithField("email", email)

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Email: email, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	log.WithField("user_id", user.ID).Info("User registered")

	return s.startSession(ctx, user)
}

// Login checks credentials. Unknown email and wrong password both yield
// ErrInvalidCredentials; the active flag is consulted only after the
// password matched.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		logger.Log.WithField("user_id", user.ID).Info("Login rejected: wrong password")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}
	return s.startSession(ctx, user)
}

// startSession issues a token pair and records the refresh token. The ledger
// row is written before the caller can hand the cookie out.
func (s *AuthService) startSession(ctx context.Context, user *model.User) (*AuthResult, error) {
	access, err := s.issuer.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.IssueRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Store(ctx, user.ID, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return &AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh mints a new access token. The refresh token must verify against
// the refresh secret and still have a live ledger row; it is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.issuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	row, err := s.tokens.Lookup(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrRefreshTokenNotFound
		}
		return "", err
	}
	if row.UserID != claims.UserID {
		logger.Log.WithFields(logrus.Fields{
			"ledger_user_id": row.UserID,
			"claim_user_id":  claims.UserID,
		}).Warn("Refresh token owner does not match its claims")
		return "", ErrRefreshTokenNotFound
	}

	return s.issuer.IssueAccessToken(claims.UserID, claims.Email)
}

// Logout revokes the refresh token if one was presented. It never fails on
// an unknown token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, refreshToken)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Deactivate disables the account and revokes all of its refresh tokens.
// Access tokens already issued stay valid until they expire.
func (s *AuthService) Deactivate(ctx context.Context, userID int) error {
	if err := s.users.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}
	logger.Log.WithField("user_id", userID).Info("User deactivated")
	return nil
}

// ChangePassword replaces the password after checking the current one, then
// revokes every refresh token so other sessions must log in again.
func (s *AuthService) ChangePassword(ctx context.Context, userID int, current, next string) error {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(user.PasswordHash, current) {
		logger.Log.WithField("user_id", userID).Info("Password change rejected: wrong current password")
		return ErrWrongPassword
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}
	logger.Log.WithField("user_id", userID).Info("Password changed")
	return nil
}

// UpdateProfile changes the account email. An email owned by another
// account yields ErrUserExists.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int, email string) (*model.User, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Email == email {
		return user, nil
	}

	owner, err := s.users.GetUserByEmail(ctx, email)
	if err == nil && owner.ID != userID {
		return nil, ErrUserExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	updated, err := s.users.UpdateEmail(ctx, userID, email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUserExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	logger.Log.WithField("user_id", userID).Info("User profile updated")
	return updated, nil
}
