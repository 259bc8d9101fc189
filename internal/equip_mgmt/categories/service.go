package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
)

// ===== Error model (items/checkouts と同型) =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
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

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{db: db, store: NewStore(db)} }

func (s *Service) ListCategories(ctx context.Context, includeDisabled bool) ([]Category, error) {
	return s.store.List(ctx, includeDisabled)
}

func (s *Service) CreateCategory(ctx context.Context, in CreateCategoryRequest) (*Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalid("name is required")
	}
	id, err := s.store.Insert(ctx, in)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 { // duplicate key
			return nil, ErrConflict("category name already exists")
		}
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

func (s *Service) UpdateCategory(ctx context.Context, id uint, in UpdateCategoryRequest) (*Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalid("name is required")
	}
	if err := s.store.Update(ctx, id, in); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound("category not found")
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return nil, ErrConflict("category name already exists")
		}
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}
