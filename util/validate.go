package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// ValidateStruct runs the `validate` tags of req and converts failures into a field-level 400.
func ValidateStruct(req interface{}) *HTTPError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return BadRequestHTTPErr("invalid request", err)
	}
	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields[fieldErr.Field()] = fieldMessage(fieldErr)
	}
	return ValidationHTTPErr(fields)
}

func fieldMessage(fieldErr validator.FieldError) string {
	name := fieldErr.Field()
	label := strings.ToUpper(name[:1]) + name[1:]
	switch fieldErr.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fieldErr.Param())
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// BindJSON decodes the body into req and validates it. An empty body validates as an empty request.
func BindJSON(c *gin.Context, req interface{}) *HTTPError {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return BuildJSONBindHTTPErr(err)
	}
	return ValidateStruct(req)
}

func BuildJSONBindHTTPErr(err error) *HTTPError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return ValidationHTTPErr(map[string]string{
			typeErr.Field: fmt.Sprintf("Expected %s, received %s", typeErr.Type.Kind(), typeErr.Value),
		})
	}
	return BadRequestHTTPErr("malformed request body", err)
}
