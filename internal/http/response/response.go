// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов HTTP-обработчиков: {success, message, errors}.
package response

import (
	"fmt"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON-ответа сервера.
// Обработчики встраивают её в свои ответы и добавляют поля.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError ошибка валидации одного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Invalid form data"`
}

// OK возвращает успешный Response.
func OK(msg string) Response {
	return Response{Success: true, Message: msg}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{Success: false, Message: msg}
}

// ValidationError формирует ответ с ошибками по каждому полю.
func ValidationError(msg string, errs validator.ValidationErrors) Response {
	fields := make([]FieldError, 0, len(errs))
	for _, err := range errs {
		fields = append(fields, FieldError{Field: err.Field(), Message: fieldMessage(err)})
	}
	return Response{
		Success: false,
		Message: msg,
		Errors:  fields,
	}
}

func fieldMessage(err validator.FieldError) string {
	switch err.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s is not valid", err.Field())
	}
}
