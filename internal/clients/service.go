package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ===== Error model (equip_mgmt 各パッケージと同型) =====

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

// ===== Service =====

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, store: NewStore(db)}
}

// POST /clients
func (s *Service) CreateClient(ctx context.Context, in CreateClientRequest) (ClientResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return ClientResponse{}, ErrInvalid("name is required")
	}
	id, err := s.store.Insert(ctx, in)
	if err != nil {
		return ClientResponse{}, err
	}
	return s.GetClient(ctx, id)
}

// GET /clients/:id
func (s *Service) GetClient(ctx context.Context, id int64) (ClientResponse, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ClientResponse{}, ErrNotFound("client not found")
		}
		return ClientResponse{}, err
	}
	return row.toDTO(), nil
}

// GET /clients
func (s *Service) List(ctx context.Context, q ListQuery) ([]ClientResponse, int64, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ClientResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		out = append(out, rows[i].toDTO())
	}
	return out, total, nil
}
