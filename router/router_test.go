// file: router/router_test.go

package router_test

import (
	"encoding/json"
	"go-finance-api/config"
	"go-finance-api/handler"
	"go-finance-api/logger"
	"go-finance-api/model"
	"go-finance-api/repository/memstore"
	"go-finance-api/router"
	"go-finance-api/service"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testEmail    = "user@example.com"
	testPassword = "Passw0rd1"
)

var jwtConfig = config.JWTConfig{
	AccessSecret:  "test-access-secret",
	RefreshSecret: "test-refresh-secret",
	AccessExpiry:  15 * time.Minute,
	RefreshExpiry: 7 * 24 * time.Hour,
	LedgerTTL:     7 * 24 * time.Hour,
}

func TestMain(m *testing.M) {
	logger.Init()
	logger.SetLevel("error")
	os.Exit(m.Run())
}

// testApp wires the real auth stack over in-memory stores.
type testApp struct {
	handler http.Handler
	issuer  *service.TokenService
	tokens  *memstore.TokenStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	issuer, err := service.NewTokenService(jwtConfig)
	require.NoError(t, err)

	users := memstore.NewUserStore()
	tokens := memstore.NewTokenStore(jwtConfig.LedgerTTL)
	authService := service.NewAuthService(users, tokens, service.NewBcryptHasher(bcrypt.MinCost), issuer)

	h := router.NewRouter(router.Handlers{
		Auth:     handler.NewAuthHandler(authService, false),
		Verifier: issuer,
	})
	return &testApp{handler: h, issuer: issuer, tokens: tokens}
}

type requestOption func(*http.Request)

func withBearer(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(c *http.Cookie) requestOption {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value}) }
}

func (a *testApp) do(method, path, body string, opts ...requestOption) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, opt := range opts {
		opt(req)
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

func credentials(email, password string) string {
	b, _ := json.Marshal(map[string]string{"email": email, "password": password})
	return string(b)
}

func refreshCookieOf(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == handler.RefreshCookieName {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", handler.RefreshCookieName)
	return nil
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

func (a *testApp) register(t *testing.T) (model.AuthResponse, *http.Cookie) {
	t.Helper()
	rr := a.do(http.MethodPost, "/auth/register", credentials(testEmail, testPassword))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	cookie := refreshCookieOf(t, rr)
	return decode[model.AuthResponse](t, rr), cookie
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)
	rr := app.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"API is healthy and running"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRegister(t *testing.T) {
	app := newTestApp(t)

	rr := app.do(http.MethodPost, "/auth/register", credentials(testEmail, testPassword))

	require.Equal(t, http.StatusCreated, rr.Code)
	cookie := refreshCookieOf(t, rr)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)
	assert.False(t, cookie.Secure)

	body := decode[model.AuthResponse](t, rr)
	assert.Equal(t, "User registered successfully", body.Message)
	assert.Equal(t, testEmail, body.User.Email)

	claims, err := app.issuer.VerifyAccessToken(body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, body.User.ID, claims.UserID)
	assert.Equal(t, testEmail, claims.Email)

	refreshClaims, err := app.issuer.VerifyRefreshToken(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, body.User.ID, refreshClaims.UserID)
	assert.Equal(t, 1, app.tokens.Len())
}

func TestRegister_Validation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing password", `{"email":"user@example.com"}`, "password is required"},
		{"bad email", credentials("not-an-email", testPassword), "Invalid email format"},
		{"weak password", credentials(testEmail, "password"), "Password must be at least 8 characters with uppercase, lowercase, and number"},
		{"malformed json", `{"email":`, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := app.do(http.MethodPost, "/auth/register", tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			appErr := decode[map[string]interface{}](t, rr)
			assert.Equal(t, tt.message, appErr["message"])
		})
	}
	assert.Equal(t, 0, app.tokens.Len(), "nothing is stored for invalid input")
}

func TestRegister_PasswordByteLimit(t *testing.T) {
	app := newTestApp(t)

	tooLong := "Passw0rd" + strings.Repeat("a", 65)
	rr := app.do(http.MethodPost, "/auth/register", credentials(testEmail, tooLong))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Password must be at most 72 bytes", decode[map[string]interface{}](t, rr)["message"])
	assert.Equal(t, 0, app.tokens.Len())

	atLimit := "Passw0rd" + strings.Repeat("a", 64)
	rr = app.do(http.MethodPost, "/auth/register", credentials(testEmail, atLimit))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = app.do(http.MethodPost, "/auth/login", credentials(testEmail, atLimit))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRegister_Duplicate(t *testing.T) {
	app := newTestApp(t)
	first, _ := app.register(t)

	rr := app.do(http.MethodPost, "/auth/register", credentials(testEmail, "Another1pass"))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "User already exists", decode[map[string]interface{}](t, rr)["message"])

	// the original account and password are untouched
	rr = app.do(http.MethodPost, "/auth/login", credentials(testEmail, testPassword))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, first.User.ID, decode[model.AuthResponse](t, rr).User.ID)
}

func TestLogin_FailuresLookIdentical(t *testing.T) {
	app := newTestApp(t)
	app.register(t)

	wrongPassword := app.do(http.MethodPost, "/auth/login", credentials(testEmail, "Wrong0pass"))
	unknownEmail := app.do(http.MethodPost, "/auth/login", credentials("nobody@example.com", testPassword))

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Contains(t, wrongPassword.Body.String(), "Invalid credentials")
	assert.Empty(t, wrongPassword.Result().Cookies())
}

func TestLogin_MissingFields(t *testing.T) {
	app := newTestApp(t)
	rr := app.do(http.MethodPost, "/auth/login", `{"email":"user@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuthGate_ExpiredVersusInvalid(t *testing.T) {
	app := newTestApp(t)
	body, _ := app.register(t)

	expiredClaims := &model.AppClaims{
		UserID: body.User.ID,
		Email:  testEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte(jwtConfig.AccessSecret))
	require.NoError(t, err)

	forgedClaims := *expiredClaims
	forgedClaims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &forgedClaims).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	rr := app.do(http.MethodGet, "/auth/me", "", withBearer(expired))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	expiredBody := decode[map[string]interface{}](t, rr)
	assert.Equal(t, "token_expired", expiredBody["reason"])
	assert.Equal(t, "Token expired", expiredBody["message"])

	rr = app.do(http.MethodGet, "/auth/me", "", withBearer(forged))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	forgedBody := decode[map[string]interface{}](t, rr)
	assert.Equal(t, "invalid_token", forgedBody["reason"])
	assert.Equal(t, "Invalid token", forgedBody["message"])

	rr = app.do(http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "token_required", decode[map[string]interface{}](t, rr)["reason"])
}

func TestRefresh(t *testing.T) {
	app := newTestApp(t)
	body, cookie := app.register(t)

	t.Run("no cookie", func(t *testing.T) {
		rr := app.do(http.MethodPost, "/auth/refresh", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Refresh token required", decode[map[string]interface{}](t, rr)["message"])
	})

	t.Run("access token in the cookie", func(t *testing.T) {
		fake := &http.Cookie{Name: handler.RefreshCookieName, Value: body.AccessToken}
		rr := app.do(http.MethodPost, "/auth/refresh", "", withCookie(fake))
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Invalid refresh token", decode[map[string]interface{}](t, rr)["message"])
	})

	t.Run("success without rotation", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			rr := app.do(http.MethodPost, "/auth/refresh", "", withCookie(cookie))
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Empty(t, rr.Result().Cookies())

			resp := decode[model.RefreshResponse](t, rr)
			claims, err := app.issuer.VerifyAccessToken(resp.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, body.User.ID, claims.UserID)
		}
	})

	t.Run("ledger row expired", func(t *testing.T) {
		app.tokens.SetClock(func() time.Time { return time.Now().Add(8 * 24 * time.Hour) })
		defer app.tokens.SetClock(time.Now)

		rr := app.do(http.MethodPost, "/auth/refresh", "", withCookie(cookie))
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Refresh token expired or invalid", decode[map[string]interface{}](t, rr)["message"])
	})
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.register(t)

	rr := app.do(http.MethodPost, "/auth/logout", "", withCookie(cookie))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Logout successful"}`, rr.Body.String())
	cleared := refreshCookieOf(t, rr)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)

	// the signature is still fine, only the ledger row is gone
	_, err := app.issuer.VerifyRefreshToken(cookie.Value)
	require.NoError(t, err)

	rr = app.do(http.MethodPost, "/auth/refresh", "", withCookie(cookie))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Refresh token expired or invalid", decode[map[string]interface{}](t, rr)["message"])
}

func TestLogout_Idempotent(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.register(t)

	for i := 0; i < 2; i++ {
		rr := app.do(http.MethodPost, "/auth/logout", "", withCookie(cookie))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
	rr := app.do(http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDeactivate(t *testing.T) {
	app := newTestApp(t)
	body, cookie := app.register(t)

	rr := app.do(http.MethodPost, "/api/auth/deactivate", "", withBearer(body.AccessToken))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, app.tokens.Len())

	rr = app.do(http.MethodPost, "/auth/refresh", "", withCookie(cookie))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	wrong := app.do(http.MethodPost, "/auth/login", credentials(testEmail, "Wrong0pass"))
	assert.Equal(t, http.StatusUnauthorized, wrong.Code, "wrong password still reads as invalid credentials")

	rr = app.do(http.MethodPost, "/auth/login", credentials(testEmail, testPassword))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Account is deactivated", decode[map[string]interface{}](t, rr)["message"])
}

func changePasswordBody(current, next string) string {
	b, _ := json.Marshal(map[string]string{"current_password": current, "new_password": next})
	return string(b)
}

func TestChangePassword(t *testing.T) {
	app := newTestApp(t)
	body, cookie := app.register(t)
	const newPassword = "N3wPassword"

	rr := app.do(http.MethodPost, "/api/auth/change-password", changePasswordBody(testPassword, newPassword))
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "bearer token required")

	rr = app.do(http.MethodPost, "/api/auth/change-password", changePasswordBody("Wrong0pass", newPassword), withBearer(body.AccessToken))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Current password is incorrect", decode[map[string]interface{}](t, rr)["message"])
	assert.Equal(t, 1, app.tokens.Len(), "a failed attempt keeps the session")

	rr = app.do(http.MethodPost, "/api/auth/change-password", changePasswordBody(testPassword, "weak"), withBearer(body.AccessToken))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = app.do(http.MethodPost, "/api/auth/change-password", changePasswordBody(testPassword, newPassword), withBearer(body.AccessToken))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Password changed successfully", decode[model.MessageResponse](t, rr).Message)
	assert.Equal(t, 0, app.tokens.Len())

	rr = app.do(http.MethodPost, "/auth/refresh", "", withCookie(cookie))
	assert.Equal(t, http.StatusForbidden, rr.Code, "old refresh token is revoked")

	rr = app.do(http.MethodPost, "/auth/login", credentials(testEmail, testPassword))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = app.do(http.MethodPost, "/auth/login", credentials(testEmail, newPassword))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUpdateProfile(t *testing.T) {
	app := newTestApp(t)
	body, _ := app.register(t)

	rr := app.do(http.MethodPost, "/auth/register", credentials("other@example.com", testPassword))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = app.do(http.MethodPut, "/api/auth/profile", `{"email":"other@example.com"}`, withBearer(body.AccessToken))
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Email already in use", decode[map[string]interface{}](t, rr)["message"])

	rr = app.do(http.MethodPut, "/api/auth/profile", `{"email":"not-an-email"}`, withBearer(body.AccessToken))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = app.do(http.MethodPut, "/api/auth/profile", `{"email":"renamed@example.com"}`, withBearer(body.AccessToken))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[map[string]interface{}](t, rr)
	assert.Equal(t, "Profile updated successfully", updated["message"])
	assert.Equal(t, "renamed@example.com", updated["user"].(map[string]interface{})["email"])

	rr = app.do(http.MethodPost, "/auth/login", credentials(testEmail, testPassword))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = app.do(http.MethodPost, "/auth/login", credentials("renamed@example.com", testPassword))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = app.do(http.MethodPost, "/auth/register", credentials(testEmail, testPassword))
	assert.Equal(t, http.StatusCreated, rr.Code, "the old email is free again")
}

// TestFullSession walks one user through register, login, me, refresh and
// logout, using the /api/auth aliases for half of the calls.
func TestFullSession(t *testing.T) {
	app := newTestApp(t)

	rr := app.do(http.MethodPost, "/api/auth/register", credentials(testEmail, testPassword))
	require.Equal(t, http.StatusCreated, rr.Code)
	registered := decode[model.AuthResponse](t, rr)

	rr = app.do(http.MethodPost, "/auth/login", credentials(testEmail, testPassword))
	require.Equal(t, http.StatusOK, rr.Code)
	cookie := refreshCookieOf(t, rr)
	loggedIn := decode[model.AuthResponse](t, rr)
	assert.Equal(t, "Login successful", loggedIn.Message)
	assert.Equal(t, registered.User, loggedIn.User)

	rr = app.do(http.MethodGet, "/api/auth/me", "", withBearer(loggedIn.AccessToken))
	require.Equal(t, http.StatusOK, rr.Code)
	me := decode[map[string]map[string]interface{}](t, rr)
	assert.Equal(t, testEmail, me["user"]["email"])
	assert.NotContains(t, me["user"], "password_hash")
	assert.NotNil(t, me["user"]["last_login"])

	rr = app.do(http.MethodPost, "/auth/refresh", "", withCookie(cookie))
	require.Equal(t, http.StatusOK, rr.Code)
	refreshed := decode[model.RefreshResponse](t, rr)

	rr = app.do(http.MethodGet, "/auth/me", "", withBearer(refreshed.AccessToken))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = app.do(http.MethodPost, "/api/auth/logout", "", withCookie(cookie))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = app.do(http.MethodPost, "/auth/refresh", "", withCookie(cookie))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// the access token keeps working until it expires
	rr = app.do(http.MethodGet, "/auth/me", "", withBearer(refreshed.AccessToken))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestFinanceRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/daily-entries", "/api/investments", "/api/goals", "/api/goals/2024/1"} {
		rr := app.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestSwaggerDocServed(t *testing.T) {
	app := newTestApp(t)
	rr := app.do(http.MethodGet, "/swagger/doc.json", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Go-Finance API")
	assert.Contains(t, rr.Body.String(), "/auth/refresh")
	for _, path := range []string{
		"/health",
		"/api/auth/change-password",
		"/api/auth/profile",
		"/api/daily-entries/{id}",
		"/api/investments/{id}",
		"/api/daily-entries/stats/{year}/{month}",
		"/api/investments/stats/{year}/{month}",
	} {
		assert.Contains(t, rr.Body.String(), `"`+path+`"`, path)
	}
}
