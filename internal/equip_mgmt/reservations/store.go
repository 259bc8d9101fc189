package reservations

import (
	"context"
	"database/sql"
	"strings"

	"KIZAI-backend/internal/equip_mgmt/schedule"
	platformdb "KIZAI-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// ===== スナップショット =====

// LockItemCodesTx は対象機材の行をロックし，実在したコードを返す．
// 衝突判定→INSERT の間に他の予約・貸出が割り込まないための直列化ポイント
func LockItemCodesTx(ctx context.Context, tx platformdb.DBTX, codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	q := `SELECT code FROM items WHERE code IN (` + placeholders(len(codes)) + `) FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, toAnySlice(codes)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		found = append(found, c)
	}
	return found, rows.Err()
}

// LoadSnapshot は seeds とそのキット構成品（再帰）について，
// 予約・アクティブ貸出込みのスナップショットを組み立てる．
// 読み取り専用評価では s.db を，書き込み時はロック済み Tx を渡す
func LoadSnapshot(ctx context.Context, tx platformdb.DBTX, seeds []string) (map[string]schedule.Item, error) {
	snapshot := map[string]schedule.Item{}

	pending := append([]string(nil), seeds...)
	for len(pending) > 0 {
		// 未取得のコードだけに絞る
		batch := pending[:0:0]
		seen := map[string]bool{}
		for _, c := range pending {
			if _, ok := snapshot[c]; !ok && !seen[c] {
				batch = append(batch, c)
				seen[c] = true
			}
		}
		pending = nil
		if len(batch) == 0 {
			break
		}

		items, err := loadItemRows(ctx, tx, batch)
		if err != nil {
			return nil, err
		}
		for code, it := range items {
			snapshot[code] = it
			pending = append(pending, it.Contents...)
		}
	}
	return snapshot, nil
}

func loadItemRows(ctx context.Context, tx platformdb.DBTX, codes []string) (map[string]schedule.Item, error) {
	in := placeholders(len(codes))
	args := toAnySlice(codes)

	out := map[string]schedule.Item{}
	rows, err := tx.QueryContext(ctx, `SELECT code, status FROM items WHERE code IN (`+in+`)`, args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var it schedule.Item
		if err := rows.Scan(&it.Code, &it.Status); err != nil {
			rows.Close()
			return nil, err
		}
		out[it.Code] = it
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// キット構成品
	rows, err = tx.QueryContext(ctx,
		`SELECT parent_code, child_code FROM kit_contents WHERE parent_code IN (`+in+`)`, args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var parent, child string
		if err := rows.Scan(&parent, &child); err != nil {
			rows.Close()
			return nil, err
		}
		it := out[parent]
		it.Contents = append(it.Contents, child)
		out[parent] = it
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// 既存予約（作成順のまま）
	rows, err = tx.QueryContext(ctx, `
		SELECT ri.item_code, r.reservation_ulid, r.start_on, r.end_on, r.requested_by, r.project
		FROM reservation_items ri
		JOIN reservations r ON r.reservation_id = ri.reservation_id
		WHERE ri.item_code IN (`+in+`)
		ORDER BY r.reservation_id`, args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var code string
		var res schedule.Reservation
		if err := rows.Scan(&code, &res.ULID, &res.Start, &res.End, &res.RequestedBy, &res.Project); err != nil {
			rows.Close()
			return nil, err
		}
		it := out[code]
		it.Reservations = append(it.Reservations, res)
		out[code] = it
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// アクティブ貸出
	rows, err = tx.QueryContext(ctx, `
		SELECT item_code, borrower, checked_out_on, due_on
		FROM checkouts
		WHERE returned = 0 AND item_code IN (`+in+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		var co schedule.ActiveCheckout
		var due sql.NullTime
		if err := rows.Scan(&code, &co.Borrower, &co.CheckedOutOn, &due); err != nil {
			return nil, err
		}
		if due.Valid {
			d := due.Time
			co.DueOn = &d
		}
		it := out[code]
		it.Checkout = &co
		out[code] = it
	}
	return out, rows.Err()
}

// ===== reservations =====

func InsertTx(ctx context.Context, tx platformdb.DBTX, m *Reservation) error {
	const q = `
	INSERT INTO reservations
	  (reservation_ulid, start_on, end_on, requested_by, client_id, contact_phone,
	   contact_email, project, project_type, location, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`
	res, err := tx.ExecContext(ctx, q,
		m.ReservationULID, m.StartOn, m.EndOn, m.RequestedBy, m.ClientID,
		m.ContactPhone, m.ContactEmail, m.Project, m.ProjectType, m.Location)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ReservationID = id

	for _, code := range m.ItemCodes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reservation_items (reservation_id, item_code) VALUES (?, ?)`,
			m.ReservationID, code); err != nil {
			return err
		}
	}
	return nil
}

func UpdateTx(ctx context.Context, tx platformdb.DBTX, m *Reservation) error {
	const q = `
	UPDATE reservations
	SET start_on = ?, end_on = ?, requested_by = ?, client_id = ?, contact_phone = ?,
	    contact_email = ?, project = ?, project_type = ?, location = ?
	WHERE reservation_id = ?`
	res, err := tx.ExecContext(ctx, q,
		m.StartOn, m.EndOn, m.RequestedBy, m.ClientID, m.ContactPhone,
		m.ContactEmail, m.Project, m.ProjectType, m.Location, m.ReservationID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}

	// 対象機材は全置換
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reservation_items WHERE reservation_id = ?`, m.ReservationID); err != nil {
		return err
	}
	for _, code := range m.ItemCodes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reservation_items (reservation_id, item_code) VALUES (?, ?)`,
			m.ReservationID, code); err != nil {
			return err
		}
	}
	return nil
}

const reservationColumns = `
	reservation_id, reservation_ulid, start_on, end_on, requested_by, client_id,
	contact_phone, contact_email, project, project_type, location, created_at`

func scanReservation(row interface{ Scan(...any) error }) (*Reservation, error) {
	var m Reservation
	if err := row.Scan(
		&m.ReservationID, &m.ReservationULID, &m.StartOn, &m.EndOn, &m.RequestedBy,
		&m.ClientID, &m.ContactPhone, &m.ContactEmail, &m.Project, &m.ProjectType,
		&m.Location, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) GetByULID(ctx context.Context, ul string) (*Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_ulid = ?`
	m, err := scanReservation(s.db.QueryRowContext(ctx, q, ul))
	if err != nil {
		return nil, err
	}
	codes, err := s.listItemCodes(ctx, m.ReservationID)
	if err != nil {
		return nil, err
	}
	m.ItemCodes = codes
	return m, nil
}

func (s *Store) listItemCodes(ctx context.Context, reservationID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_code FROM reservation_items WHERE reservation_id = ? ORDER BY item_code`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context, f ReservationFilter, p Page) ([]Reservation, int64, error) {
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

	baseFrom := ` FROM reservations`
	where := " WHERE 1=1"
	args := []any{}
	if f.ItemCode != "" {
		where += ` AND reservation_id IN (SELECT reservation_id FROM reservation_items WHERE item_code = ?)`
		args = append(args, f.ItemCode)
	}
	if f.Project != "" {
		where += " AND project = ?"
		args = append(args, f.Project)
	}
	if f.RequestedBy != "" {
		where += " AND requested_by = ?"
		args = append(args, f.RequestedBy)
	}
	if f.From != nil {
		where += " AND start_on >= ?"
		args = append(args, *f.From)
	}
	if f.To != nil {
		where += " AND end_on <= ?"
		args = append(args, *f.To)
	}

	selectSQL := `SELECT ` + reservationColumns + baseFrom + where +
		` ORDER BY start_on ` + order + `, reservation_id ` + order + ` LIMIT ? OFFSET ?`
	queryArgs := append(append([]any{}, args...), p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, selectSQL, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Reservation{}
	for rows.Next() {
		m, err := scanReservation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range out {
		codes, err := s.listItemCodes(ctx, out[i].ReservationID)
		if err != nil {
			return nil, 0, err
		}
		out[i].ItemCodes = codes
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*)`+baseFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// DeleteByULID は予約の明示的キャンセル
func (s *Store) DeleteByULID(ctx context.Context, ul string) error {
	return platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		var id int64
		if err := tx.QueryRowContext(ctx,
			`SELECT reservation_id FROM reservations WHERE reservation_ulid = ?`, ul).Scan(&id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM reservation_items WHERE reservation_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE reservation_id = ?`, id)
		return err
	})
}
