package items

import (
	"errors"
	"fmt"
)

// ===== Error model (checkouts/reservations と同型) =====

type Code string

const (
	CodeInvalidArgument      Code = "INVALID_ARGUMENT"
	CodeNotFound             Code = "NOT_FOUND"
	CodeConflict             Code = "CONFLICT"
	CodeInternal             Code = "INTERNAL"
	CodeValidation           Code = "VALIDATION"
	CodeHasActiveCommitments Code = "HAS_ACTIVE_COMMITMENTS"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	// フィールド単位のバリデーション結果（CodeValidation のとき）
	Fields map[string]string `json:"fields,omitempty"`
	// 削除ガードで巻き込まれるレコード数（CodeHasActiveCommitments のとき）
	ReservationCount int  `json:"reservation_count,omitempty"`
	HasCheckout      bool `json:"has_checkout,omitempty"`
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func ErrValidation(fields map[string]string) *APIError {
	return &APIError{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument, CodeValidation:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict, CodeHasActiveCommitments:
			return 409
		default:
			return 500
		}
	}
	return 500
}
