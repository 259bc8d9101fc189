package categories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func marshalFields(fields []string) (any, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanCategory(row interface{ Scan(...any) error }) (*Category, error) {
	var c Category
	var fieldsJSON sql.NullString
	if err := row.Scan(&c.CategoryID, &c.Name, &c.SerialTracked, &fieldsJSON, &c.IsDisabled); err != nil {
		return nil, err
	}
	if fieldsJSON.Valid && fieldsJSON.String != "" {
		if err := json.Unmarshal([]byte(fieldsJSON.String), &c.RequiredFields); err != nil {
			return nil, fmt.Errorf("broken required_fields for category %s: %w", c.Name, err)
		}
	}
	return &c, nil
}

// GET /categories?all=1
func (s *Store) List(ctx context.Context, includeDisabled bool) ([]Category, error) {
	q := `
		SELECT category_id, name, serial_tracked, required_fields, is_disabled
		FROM item_categories
	`
	if !includeDisabled {
		q += ` WHERE is_disabled = 0`
	}
	q += ` ORDER BY category_id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]Category, 0, 16)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) GetByID(ctx context.Context, id uint) (*Category, error) {
	const q = `
		SELECT category_id, name, serial_tracked, required_fields, is_disabled
		FROM item_categories
		WHERE category_id = ?
	`
	return scanCategory(s.db.QueryRowContext(ctx, q, id))
}

func (s *Store) Insert(ctx context.Context, in CreateCategoryRequest) (uint, error) {
	fields, err := marshalFields(in.RequiredFields)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO item_categories (name, serial_tracked, required_fields, is_disabled)
		VALUES (?, ?, ?, 0)`, in.Name, in.SerialTracked, fields)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (s *Store) Update(ctx context.Context, id uint, in UpdateCategoryRequest) error {
	fields, err := marshalFields(in.RequiredFields)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE item_categories
		SET name = ?, serial_tracked = ?, required_fields = ?, is_disabled = ?
		WHERE category_id = ?`, in.Name, in.SerialTracked, fields, in.IsDisabled, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
