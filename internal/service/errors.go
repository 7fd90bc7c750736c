package service

import "fmt"

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeForbidden    = "FORBIDDEN"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeEmailTaken   = "EMAIL_TAKEN"
)

// BusinessError — ошибка бизнес-логики с кодом для маппинга в HTTP-статус.
// Три вида отказов (валидация, владение, отсутствие) различаются кодами
// и никогда не схлопываются в один.
type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewNotFound(resource, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewForbidden() *BusinessError {
	return &BusinessError{
		Code:    CodeForbidden,
		Message: "Доступ к чужому ресурсу запрещён",
	}
}

func NewUnauthorized(reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeUnauthorized,
		Message: reason,
	}
}

func NewEmailTaken(email string) *BusinessError {
	return &BusinessError{
		Code:    CodeEmailTaken,
		Message: "Email уже зарегистрирован",
		Details: map[string]any{
			"email": email,
		},
	}
}
