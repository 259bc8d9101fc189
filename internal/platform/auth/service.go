package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrAuthFailed    = errors.New("authentication failed")
)

const tokenTTL = 24 * time.Hour

type Service struct {
	store  AccountStore
	secret []byte
}

// NewService は設定ファイル由来の署名鍵を受け取る．鍵をコードに埋め込まない
func NewService(db *sql.DB, secret string) *Service {
	return &Service{store: NewStore(db), secret: []byte(secret)}
}

type AuthService interface {
	Login(ctx context.Context, id, password string) (string, error)
	Register(ctx context.Context, id, displayName, password, role string) error
	Delete(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, id, current, next string) error
}

func (s *Service) Secret() []byte { return s.secret }

func (s *Service) Login(ctx context.Context, id, password string) (string, error) {
	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if acct == nil || acct.IsDisabled {
		// 存在しない／無効化済みは同じ応答にする（アカウント列挙対策）
		return "", ErrAuthFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", ErrAuthFailed
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  acct.ID,
		"name": acct.DisplayName,
		"role": acct.Role,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(s.secret)
}

func (s *Service) Register(ctx context.Context, id, displayName, password, role string) error {
	exists, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exists != nil {
		return ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.store.Create(ctx, &StaffAccount{
		ID:           id,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         role,
		IsDisabled:   false,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if acct == nil {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(current)); err != nil {
		return ErrAuthFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	n, err := s.store.UpdatePassword(ctx, id, string(hash))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
