package runner

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/baechuer/useradmin/internal/domain"
)

// MinPasswordLength matches the auth service's password rule.
const MinPasswordLength = 12

var validate = validator.New(validator.WithRequiredStructEnabled())

// targetInput only requires a non-empty identifier; stored addresses are
// matched as-is, whatever their shape.
type targetInput struct {
	Email string `validate:"required,max=320"`
}

type passwordInput struct {
	Password string `validate:"required,min=12,max=72"`
}

// validateInput runs struct validation and maps the first failure to a domain error.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return domain.ErrInternal(err)
	}
	return formatFieldError(ves[0])
}

func formatFieldError(fe validator.FieldError) error {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return domain.ErrMissingField(field)
	case "min":
		if field == "password" {
			return domain.ErrWeakPassword("min length " + fe.Param())
		}
		return domain.ErrInvalidField(field, "must be at least "+fe.Param()+" characters")
	case "max":
		return domain.ErrInvalidField(field, "must be at most "+fe.Param()+" characters")
	default:
		return domain.ErrInvalidField(field, "invalid")
	}
}
