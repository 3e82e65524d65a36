package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 10 << 10

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// MaxPasswordBytes is the most bcrypt accepts. Longer passwords are rejected
// at validation rather than truncated.
const MaxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	v.RegisterValidation("passwordbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	return v
}

// IsStrongPassword requires at least 8 characters with one upper-case letter,
// one lower-case letter and one digit.
func IsStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}

// Validate runs struct validation and converts failures into a 400 AppError.
func Validate(payload interface{}) *AppError {
	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return BadRequest(describe(validationErrors[0]), nil)
		}
		return BadRequest("Invalid request body", err)
	}
	return nil
}

// ValidateAndDecode decodes the JSON body into payload and validates it.
func ValidateAndDecode(r *http.Request, payload interface{}) *AppError {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(payload); err != nil {
		return BadRequest("Invalid request body", err)
	}
	return Validate(payload)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email format"
	case "strongpassword":
		return "Password must be at least 8 characters with uppercase, lowercase, and number"
	case "passwordbytes":
		return fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes)
	case "datetime":
		return "Invalid date format"
	default:
		return fmt.Sprintf("Invalid %s", fe.Field())
	}
}
