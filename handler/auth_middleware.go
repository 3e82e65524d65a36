package handler

import (
	"context"
	"errors"
	"go-finance-api/common"
	"go-finance-api/model"
	"go-finance-api/service"
	"net/http"
	"strings"
)

type contextKey string

const (
	ClaimsKey    contextKey = "claims"
	RequestIDKey contextKey = "requestID"
)

// bearerToken extracts the token from "Authorization: Bearer <token>". The
// scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	headerParts := strings.Fields(r.Header.Get("Authorization"))
	if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
		return "", false
	}
	return headerParts[1], true
}

// AuthMiddleware rejects requests without a valid access token. A missing
// token and an expired token answer 401 with different reasons; a token that
// fails verification answers 403.
func AuthMiddleware(verifier service.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				common.Unauthorized(common.ReasonTokenRequired, "Access token required", nil).Send(w)
				return
			}

			claims, err := verifier.VerifyAccessToken(token)
			if err != nil {
				if errors.Is(err, service.ErrTokenExpired) {
					common.Unauthorized(common.ReasonTokenExpired, "Token expired", err).Send(w)
					return
				}
				common.Forbidden(common.ReasonInvalidToken, "Invalid token", err).Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches claims when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuthMiddleware(verifier service.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if claims, err := verifier.VerifyAccessToken(token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), ClaimsKey, claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext returns the identity attached by the auth middlewares.
func ClaimsFromContext(ctx context.Context) (*model.AppClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*model.AppClaims)
	return claims, ok && claims != nil
}

// currentUserID is used by handlers mounted behind AuthMiddleware.
func currentUserID(r *http.Request) (int, *common.AppError) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return 0, common.Unauthorized(common.ReasonTokenRequired, "Access token required", nil)
	}
	return claims.UserID, nil
}
