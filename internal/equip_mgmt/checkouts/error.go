package checkouts

import (
	"errors"
	"fmt"
)

// ===== Error model (items/reservations と同型＋貸出固有コード) =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
	// 不正遷移の型付き理由．黙って無視せず必ずこのコードで返す
	CodeAlreadyCheckedOut Code = "ALREADY_CHECKED_OUT"
	CodeNotCheckedOut     Code = "NOT_CHECKED_OUT"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func ErrAlreadyCheckedOut(msg string) *APIError {
	return &APIError{Code: CodeAlreadyCheckedOut, Message: msg}
}

func ErrNotCheckedOut(msg string) *APIError {
	return &APIError{Code: CodeNotCheckedOut, Message: msg}
}

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict, CodeAlreadyCheckedOut, CodeNotCheckedOut:
			return 409
		default:
			return 500
		}
	}
	return 500
}
