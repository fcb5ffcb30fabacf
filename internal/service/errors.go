package service

import "fmt"

const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeNotFound         = "NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
)

// Сравнение через errors.Is идёт только по коду.
var (
	ErrInvalidInput     = &BusinessError{Code: CodeInvalidInput}
	ErrNotFound         = &BusinessError{Code: CodeNotFound}
	ErrStoreUnavailable = &BusinessError{Code: CodeStoreUnavailable}
)

// BusinessError - ошибка для клиента. Message уходит в ответ как есть,
// Err остаётся только в логах.
type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
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

func (b *BusinessError) Is(target error) bool {
	t, ok := target.(*BusinessError)
	return ok && t.Code == b.Code
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(id int64) *BusinessError {
	return NewBusinessError(CodeNotFound, "Task not found", ToDetail("id", id))
}

func NewValidationError(field, reason, message string) *BusinessError {
	return NewBusinessError(CodeInvalidInput, message,
		ToDetail("field", field),
		ToDetail("reason", reason),
	)
}

func NewStoreUnavailable(message string, err error) *BusinessError {
	busErr := NewBusinessError(CodeStoreUnavailable, message)
	busErr.Err = err
	return busErr
}
