package checkouts

import (
	"context"
	"database/sql"
	"strings"

	platformdb "KIZAI-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// ===== 機材行（直列化ポイント） =====

// LockItemStatusTx は機材行をロックして現在ステータスを返す．
// ガード判定→書き込みの間に他の貸出・返却が割り込まないようにする
func LockItemStatusTx(ctx context.Context, tx platformdb.DBTX, code string) (string, error) {
	var st string
	err := tx.QueryRowContext(ctx, `SELECT status FROM items WHERE code = ? FOR UPDATE`, code).Scan(&st)
	if err != nil {
		return "", err
	}
	return st, nil
}

func UpdateItemStatusTx(ctx context.Context, tx platformdb.DBTX, code, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE items SET status = ? WHERE code = ?`, status, code)
	return err
}

// AppendDamageNoteTx は返却時の破損報告を機材レコードに残す．
// ステータスはブロックしない：破損ありでも available に戻し，レビュー待ちはこのメモで追う
func AppendDamageNoteTx(ctx context.Context, tx platformdb.DBTX, code, note string) error {
	const q = `
	UPDATE items
	SET damage_note = CASE WHEN damage_note IS NULL OR damage_note = ''
	                       THEN ? ELSE CONCAT(damage_note, '\n', ?) END
	WHERE code = ?`
	_, err := tx.ExecContext(ctx, q, note, note, code)
	return err
}

// ===== checkouts =====

const checkoutColumns = `
	checkout_id, checkout_ulid, item_code, borrower, client_id, contact_phone,
	contact_email, due_on, condition_out, checked_out_on, note, returned`

func scanCheckout(row interface{ Scan(...any) error }) (*Checkout, error) {
	var m Checkout
	if err := row.Scan(
		&m.CheckoutID, &m.CheckoutULID, &m.ItemCode, &m.Borrower, &m.ClientID,
		&m.ContactPhone, &m.ContactEmail, &m.DueOn, &m.ConditionOut, &m.CheckedOutOn,
		&m.Note, &m.Returned,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetActiveByItemTx はアクティブな貸出行を返す（なければ sql.ErrNoRows）
func GetActiveByItemTx(ctx context.Context, tx platformdb.DBTX, code string) (*Checkout, error) {
	q := `SELECT ` + checkoutColumns + ` FROM checkouts WHERE item_code = ? AND returned = 0`
	return scanCheckout(tx.QueryRowContext(ctx, q, code))
}

func InsertCheckoutTx(ctx context.Context, tx platformdb.DBTX, m *Checkout) error {
	const q = `
	INSERT INTO checkouts
	  (checkout_ulid, item_code, borrower, client_id, contact_phone, contact_email,
	   due_on, condition_out, checked_out_on, note, returned)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`
	res, err := tx.ExecContext(ctx, q,
		m.CheckoutULID, m.ItemCode, m.Borrower, m.ClientID, m.ContactPhone,
		m.ContactEmail, m.DueOn, m.ConditionOut, m.CheckedOutOn, m.Note)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.CheckoutID = id
	return nil
}

func CloseCheckoutTx(ctx context.Context, tx platformdb.DBTX, checkoutID int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE checkouts SET returned = 1 WHERE checkout_id = ? AND returned = 0`, checkoutID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) GetActiveByItem(ctx context.Context, code string) (*Checkout, error) {
	return GetActiveByItemTx(ctx, s.db, code)
}

func (s *Store) GetCheckoutByULID(ctx context.Context, ul string) (*Checkout, error) {
	q := `SELECT ` + checkoutColumns + ` FROM checkouts WHERE checkout_ulid = ?`
	return scanCheckout(s.db.QueryRowContext(ctx, q, ul))
}

// ===== returns =====

func InsertReturnTx(ctx context.Context, tx platformdb.DBTX, m *Return) error {
	const q = `
	INSERT INTO returns
	  (return_ulid, checkout_id, condition_in, damage_reported, damage_note, processed_by, returned_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		m.ReturnULID, m.CheckoutID, m.ConditionIn, m.DamageReported, m.DamageNote,
		m.ProcessedBy, m.ReturnedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ReturnID = id
	return nil
}

// returnRow は一覧用の JOIN 行
type returnRow struct {
	Return
	CheckoutULID string
	ItemCode     string
}

func (s *Store) ListReturns(ctx context.Context, f ReturnFilter, p Page) ([]returnRow, int64, error) {
	order := "DESC"
	if strings.ToLower(p.Order) == "asc" {
		order = "ASC"
	}
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	baseFrom := `
	FROM returns r
	JOIN checkouts c ON c.checkout_id = r.checkout_id`
	where := " WHERE 1=1"
	args := []any{}
	if f.ItemCode != "" {
		where += " AND c.item_code = ?"
		args = append(args, f.ItemCode)
	}
	if f.CheckoutULID != "" {
		where += " AND c.checkout_ulid = ?"
		args = append(args, f.CheckoutULID)
	}

	selectSQL := `
	SELECT r.return_id, r.return_ulid, r.checkout_id, r.condition_in, r.damage_reported,
	       r.damage_note, r.processed_by, r.returned_at, c.checkout_ulid, c.item_code` +
		baseFrom + where + ` ORDER BY r.returned_at ` + order + `, r.return_id ` + order + ` LIMIT ? OFFSET ?`
	queryArgs := append(append([]any{}, args...), p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, selectSQL, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []returnRow{}
	for rows.Next() {
		var r returnRow
		if err := rows.Scan(
			&r.ReturnID, &r.ReturnULID, &r.CheckoutID, &r.ConditionIn, &r.DamageReported,
			&r.DamageNote, &r.ProcessedBy, &r.ReturnedAt, &r.CheckoutULID, &r.ItemCode,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*)`+baseFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
