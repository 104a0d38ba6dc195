package models

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"reflect"
	"strings"
)

var ErrValidation = errors.New("validation failed")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 错误信息中使用表单里的字段名
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return strings.ToLower(field.Name)
	})

	return v
}

type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (fe FieldError) String() string {
	switch fe.Rule {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field, fe.Param)
	case "number":
		return fmt.Sprintf("%s must contain digits only", fe.Field)
	case "image":
		return fmt.Sprintf("%s must be an image file", fe.Field)
	default:
		return fmt.Sprintf("%s is invalid", fe.Field)
	}
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		msgs = append(msgs, fe.String())
	}
	return strings.Join(msgs, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validate 按结构体上的 validate 标签进行校验，失败时返回 *ValidationError
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return ve
}
