package order

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState — операция недопустима из текущего статуса заказа.
	ErrInvalidState = errors.New("operation not allowed in current order status")
	// ErrInvalidTransition — запрошенный переход статуса вне разрешённых рёбер.
	ErrInvalidTransition = errors.New("status transition not allowed")
	// ErrStore — отказ хранилища; заказ не записан/не обновлён.
	ErrStore = errors.New("order store failure")
	// ErrGateway — отказ платёжного шлюза; заказ остаётся pending, попытку можно повторить.
	ErrGateway = errors.New("payment gateway failure")
)

// ValidationError — некорректный ввод; не ретраится, текст показывается вызывающему.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
