package reservations

import (
	"errors"
	"fmt"

	"KIZAI-backend/internal/equip_mgmt/schedule"
)

// ===== Error model (items/checkouts と同型) =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
	CodeValidation      Code = "VALIDATION"
	// 削除済み機材への参照など，データ整合性の問題．自動補正はしない
	CodeConsistency Code = "CONSISTENCY"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	// フィールド単位のバリデーション結果（CodeValidation のとき）
	Fields map[string]string `json:"fields,omitempty"`
	// 衝突の詳細（CodeConflict のとき）．acknowledged 付きで再送すれば保存できる
	Report *schedule.Report `json:"report,omitempty"`
	// スナップショットに存在しなかった機材コード（CodeConsistency のとき）
	MissingItems []string `json:"missing_items,omitempty"`
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func ErrValidation(fields map[string]string) *APIError {
	return &APIError{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

func ErrConflictReport(rep *schedule.Report) *APIError {
	return &APIError{
		Code:    CodeConflict,
		Message: "reservation window conflicts with existing bookings (set acknowledged to force)",
		Report:  rep,
	}
}

func ErrMissingItems(codes []string) *APIError {
	return &APIError{
		Code:         CodeConsistency,
		Message:      "reservation references items that do not exist",
		MissingItems: codes,
	}
}

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument, CodeValidation:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict, CodeConsistency:
			return 409
		default:
			return 500
		}
	}
	return 500
}
