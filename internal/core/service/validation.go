package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{4,}$`)
	mailboxPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// maxPasswordBytes is the bcrypt input ceiling.
const maxPasswordBytes = 72

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return mailboxPattern.MatchString(fl.Field().String())
	})
	return v
}

// validateInput runs struct validation and reports the first failing field as
// a *domain.InputError.
func validateInput(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return domain.NewInputError(strings.ToLower(fe.Field()), reason(fe))
	}
	return fmt.Errorf("validate: %w", err)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "mailbox", "email":
		return "must be a valid email"
	case "username":
		return "must be at least 4 letters, digits or underscores"
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}
