package auth

import (
	"context"
	"database/sql"
	"errors"
)

// StaffAccount は管理コンソールにログインする担当者のアカウント
type StaffAccount struct {
	ID           string
	DisplayName  string
	PasswordHash string
	Role         string
	IsDisabled   bool
	CreatedAt    string
}

type AccountStore interface {
	GetByID(ctx context.Context, id string) (*StaffAccount, error)
	Create(ctx context.Context, a *StaffAccount) error
	Delete(ctx context.Context, id string) (int64, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) AccountStore {
	return &Store{db: db}
}

func (s *Store) GetByID(ctx context.Context, id string) (*StaffAccount, error) {
	const q = `
SELECT id, display_name, password_hash, role, is_disabled, created_at
FROM staff_accounts
WHERE id = ?
LIMIT 1
`
	var a StaffAccount
	var isDisabledInt int
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID,
		&a.DisplayName,
		&a.PasswordHash,
		&a.Role,
		&isDisabledInt,
		&a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if isDisabledInt != 0 {
		a.IsDisabled = true
	}
	return &a, nil
}

func (s *Store) Create(ctx context.Context, a *StaffAccount) error {
	const q = `
INSERT INTO staff_accounts (id, display_name, password_hash, role, is_disabled, created_at)
VALUES (?, ?, ?, ?, 0, NOW(6))
`
	_, err := s.db.ExecContext(ctx, q, a.ID, a.DisplayName, a.PasswordHash, a.Role)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM staff_accounts WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id, passwordHash string) (int64, error) {
	const q = `UPDATE staff_accounts SET password_hash = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, passwordHash, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}
