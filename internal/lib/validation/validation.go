// Package validation настраивает go-playground/validator для входных DTO.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// New возвращает валидатор, который называет поля по json-тегу,
// чтобы ошибки совпадали с именами в теле запроса.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
