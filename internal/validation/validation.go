package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func init() {
	Validate = validator.New()

	// Report field names by json tag so error payloads match the wire format.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Letters, digits, dash and underscore only.
	_ = Validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// FieldErrors flattens validator errors into a field -> messages map for
// 422 responses.
func FieldErrors(err error) map[string][]string {
	out := make(map[string][]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out[""] = []string{err.Error()}
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", fe.Field())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s.", fe.Field(), strings.Join(strings.Fields(fe.Param()), ", "))
	case "username":
		return fmt.Sprintf("The %s field may only contain letters, numbers, dashes and underscores.", fe.Field())
	}
	return fmt.Sprintf("The %s field is invalid.", fe.Field())
}
