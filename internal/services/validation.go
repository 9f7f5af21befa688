package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Messages shown for known field/tag pairs; anything else gets the generic form.
var fieldMessages = map[string]string{
	"title.required":            "Title is required",
	"title.max":                 "Title cannot exceed 100 characters",
	"content.required":          "Content is required",
	"username.required":         "Username is required",
	"username.min":              "Username must be at least 3 characters",
	"username.username":         "Username can only contain letters, numbers, and underscores",
	"email.required":            "Email is required",
	"email.email":               "Invalid email address",
	"password.required":         "Password is required",
	"password.min":              "Password must be at least 6 characters",
	"confirm_password.required": "Please confirm your password",
	"confirm_password.eqfield":  "Passwords do not match",
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct runs the validator and converts failures into a ValidationError.
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		if msg, ok := fieldMessages[e.Field()+"."+e.Tag()]; ok {
			fields[e.Field()] = msg
			continue
		}
		fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return &ValidationError{Fields: fields}
}
