package integrity

import (
	"context"
	"database/sql"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// ListOrphanedReservationItems は items に存在しないコードを持つ予約明細を列挙する．
// 機材削除時のカスケードが原則だが、外部ツールでの直接操作に備えて監査する
func (s *Store) ListOrphanedReservationItems(ctx context.Context) ([]OrphanedReservationItem, error) {
	const q = `
	SELECT r.reservation_ulid, ri.item_code
	FROM reservation_items ri
	JOIN reservations r ON r.reservation_id = ri.reservation_id
	LEFT JOIN items i ON i.code = ri.item_code
	WHERE i.code IS NULL
	ORDER BY r.reservation_ulid, ri.item_code`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrphanedReservationItem
	for rows.Next() {
		var m OrphanedReservationItem
		if err := rows.Scan(&m.ReservationULID, &m.ItemCode); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListStrandedCheckouts はアクティブ貸出を持つのに checked_out でない機材を列挙する
func (s *Store) ListStrandedCheckouts(ctx context.Context) ([]StrandedCheckout, error) {
	const q = `
	SELECT i.code, i.status, c.checkout_ulid, c.borrower
	FROM checkouts c
	JOIN items i ON i.code = c.item_code
	WHERE c.returned = 0 AND i.status <> 'checked_out'
	ORDER BY i.code`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StrandedCheckout
	for rows.Next() {
		var m StrandedCheckout
		if err := rows.Scan(&m.ItemCode, &m.ItemStatus, &m.CheckoutULID, &m.Borrower); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListGhostCheckedOut は checked_out なのにアクティブ貸出行がない機材を列挙する
func (s *Store) ListGhostCheckedOut(ctx context.Context) ([]GhostCheckedOut, error) {
	const q = `
	SELECT i.code
	FROM items i
	LEFT JOIN checkouts c ON c.item_code = i.code AND c.returned = 0
	WHERE i.status = 'checked_out' AND c.checkout_id IS NULL
	ORDER BY i.code`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GhostCheckedOut
	for rows.Next() {
		var m GhostCheckedOut
		if err := rows.Scan(&m.ItemCode); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
