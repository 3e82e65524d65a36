package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Passw0rd1": true,
		"Abcdefg1":  true,
		"short1A":   false,
		"alllower1": false,
		"ALLUPPER1": false,
		"NoDigitsX": false,
		"":          false,
	}
	for password, want := range cases {
		assert.Equal(t, want, IsStrongPassword(password), password)
	}
}

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword,passwordbytes"`
}

func TestValidateAndDecode(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.io","password":"Passw0rd1"}`))
		var req signup
		assert.Nil(t, ValidateAndDecode(r, &req))
		assert.Equal(t, "a@b.io", req.Email)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
		appErr := ValidateAndDecode(r, &signup{})
		if assert.NotNil(t, appErr) {
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
			assert.Equal(t, "Invalid request body", appErr.Message)
		}
	})

	t.Run("missing field uses json name", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"password":"Passw0rd1"}`))
		appErr := ValidateAndDecode(r, &signup{})
		if assert.NotNil(t, appErr) {
			assert.Equal(t, "email is required", appErr.Message)
			assert.Equal(t, ReasonValidation, appErr.Reason)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.io","password":"password"}`))
		appErr := ValidateAndDecode(r, &signup{})
		if assert.NotNil(t, appErr) {
			assert.Contains(t, appErr.Message, "at least 8 characters")
		}
	})

	t.Run("password over the bcrypt limit", func(t *testing.T) {
		long := "Passw0rd" + strings.Repeat("a", MaxPasswordBytes)
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.io","password":"`+long+`"}`))
		appErr := ValidateAndDecode(r, &signup{})
		if assert.NotNil(t, appErr) {
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
			assert.Equal(t, "Password must be at most 72 bytes", appErr.Message)
		}
	})

	t.Run("multibyte password counted in bytes", func(t *testing.T) {
		long := "Passw0rd" + strings.Repeat("é", 33)
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.io","password":"`+long+`"}`))
		appErr := ValidateAndDecode(r, &signup{})
		if assert.NotNil(t, appErr) {
			assert.Equal(t, "Password must be at most 72 bytes", appErr.Message)
		}
	})

	t.Run("oversized body", func(t *testing.T) {
		big := `{"email":"` + strings.Repeat("a", MaxBodyBytes) + `@b.io","password":"Passw0rd1"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
		appErr := ValidateAndDecode(r, &signup{})
		if assert.NotNil(t, appErr) {
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
		}
	})
}

func TestAppError_Send(t *testing.T) {
	rr := httptest.NewRecorder()
	Unauthorized(ReasonTokenExpired, "Token expired", nil).Send(rr)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"code":401,"reason":"token_expired","message":"Token expired"}`, rr.Body.String())
}
