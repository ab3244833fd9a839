package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/linguahub/crm-service/internal/utils"
)

// Validator wraps go-playground/validator with CRM-specific rules.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	// A phone is valid when, after normalization, it is all digits (with an
	// optional leading +) and long enough to be dialable.
	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		phone := utils.NormalizePhone(fl.Field().String())
		if len(phone) > 0 && phone[0] == '+' {
			phone = phone[1:]
		}
		if len(phone) < 10 {
			return false
		}
		for _, r := range phone {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})

	return &Validator{validate: validate}
}

// Validate validates a struct; returns ValidationErrors on failure.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var errs ValidationErrors
	for _, fe := range fieldErrors {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: errorMessage(fe),
		})
	}
	return errs
}

type ValidationError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "phone":
		return "must be a valid phone number"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
