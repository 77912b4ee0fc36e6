package domain

import "errors"

// Ошибки, которые HTTP-слой переводит в коды ответа.
var (
	ErrMissingParameter = errors.New("required parameter is missing")
	ErrInvalidParameter = errors.New("invalid request parameters")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrTimeout          = errors.New("request timeout")
)

// Ошибки хранилища для отсутствующих записей.
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrOwnerNotFound    = errors.New("owner not found")
)

// DetailedError дополняет ошибку пояснением, которое можно показать клиенту.
type DetailedError struct {
	Err    error
	Detail string
}

func (e *DetailedError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *DetailedError) Unwrap() error { return e.Err }

func WithDetail(err error, detail string) error {
	return &DetailedError{Err: err, Detail: detail}
}
