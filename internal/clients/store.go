package clients

import (
	"context"
	"database/sql"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const clientColumns = `client_id, name, organization, phone, email, note, created_at`

func scanClient(row interface{ Scan(...any) error }) (*clientRow, error) {
	var r clientRow
	if err := row.Scan(&r.ClientID, &r.Name, &r.Organization, &r.Phone, &r.Email, &r.Note, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) Insert(ctx context.Context, in CreateClientRequest) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (name, organization, phone, email, note, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		in.Name, in.Organization, in.Phone, in.Email, in.Note)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetByID(ctx context.Context, id int64) (*clientRow, error) {
	q := `SELECT ` + clientColumns + ` FROM clients WHERE client_id = ?`
	return scanClient(s.db.QueryRowContext(ctx, q, id))
}

func (s *Store) List(ctx context.Context, q ListQuery) ([]clientRow, int64, error) {
	where := " WHERE 1=1"
	args := []any{}
	if q.Name != nil {
		where += " AND name LIKE ?"
		args = append(args, "%"+*q.Name+"%")
	}

	selectSQL := `SELECT ` + clientColumns + ` FROM clients` + where +
		` ORDER BY name ASC, client_id ASC LIMIT ? OFFSET ?`
	queryArgs := append(append([]any{}, args...), q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, selectSQL, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []clientRow{}
	for rows.Next() {
		r, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
