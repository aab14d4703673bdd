package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SupportedImageTypes are the mime types accepted for profile photos.
var SupportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("supported_image", validateImageType)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

func validateImageType(fl validator.FieldLevel) bool {
	return SupportedImageTypes[strings.ToLower(fl.Field().String())]
}

// Messages renders validation errors as "Email is invalid"-style sentences.
// Errors that did not come from the validator are returned as-is.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s can't be blank", field)
	case "email":
		return fmt.Sprintf("%s is invalid", field)
	case "min":
		return fmt.Sprintf("%s is too short (minimum is %s characters)", field, fe.Param())
	case "supported_image":
		return fmt.Sprintf("%s is not a supported image type", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
