// Package inputval validates form input with struct tags and produces
// user-presentable messages.
//
// Fields carry standard `validate` tags plus a `label` tag used in error
// messages:
//
//	type createInput struct {
//	    Title string `validate:"required,max=200" label:"Title"`
//	    Marks int    `validate:"min=1" label:"Marks"`
//	}
//
//	if result := inputval.Validate(input); result.HasErrors() {
//	    reRender(result.First())
//	    return
//	}
package inputval

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report the `label` tag instead of the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return v
}

// Result holds the outcome of a validation pass.
type Result struct {
	messages []string
}

// HasErrors reports whether any field failed validation.
func (r Result) HasErrors() bool { return len(r.messages) > 0 }

// First returns the first error message, or "".
func (r Result) First() string {
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[0]
}

// All returns every error message.
func (r Result) All() []string { return r.messages }

// Validate checks input against its struct tags.
func Validate(input any) Result {
	err := validate.Struct(input)
	if err == nil {
		return Result{}
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{messages: []string{"Invalid input."}}
	}

	var res Result
	for _, fe := range verrs {
		res.messages = append(res.messages, message(fe))
	}
	return res
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s is invalid.", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
