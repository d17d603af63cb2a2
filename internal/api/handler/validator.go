package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/adroid/pool-registry/internal/core/domain"
)

var (
	phonePattern    = regexp.MustCompile(`^\d{10,15}$`)
	zipCodePattern  = regexp.MustCompile(`^\d{5,10}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field errors are reported under their JSON names.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phone", matches(phonePattern))
	_ = v.RegisterValidation("zipcode", matches(zipCodePattern))
	_ = v.RegisterValidation("username", matches(usernamePattern))

	return &echoValidator{v: v}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Validate satisfies the echo.Validator interface. Failures are returned as
// a *domain.ValidationError listing every rejected field.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]domain.FieldError, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, domain.FieldError{Field: fe.Field(), Message: fieldError(fe)})
			}
			return domain.NewValidationError(fields...)
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "phone":
		return field + " must be 10-15 digits"
	case "zipcode":
		return field + " must be 5-10 digits"
	case "username":
		return field + " may only contain letters, numbers and underscores"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// normalizer is implemented by request types that clean their input
// before validation.
type normalizer interface {
	normalize()
}

// bindAndValidate decodes the request body into req, normalizes it and runs
// struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if n, ok := req.(normalizer); ok {
		n.normalize()
	}
	return c.Validate(req)
}
