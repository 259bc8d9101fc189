package items

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	platformdb "KIZAI-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const itemColumns = `
	item_id, code, name, brand, category, status, ` + "`condition`" + `, location, serial,
	spec_fields, damage_note, purchased_at, purchase_price, created_at`

func scanItem(row interface{ Scan(...any) error }) (*Item, error) {
	var m Item
	var specJSON sql.NullString
	if err := row.Scan(
		&m.ItemID, &m.Code, &m.Name, &m.Brand, &m.Category, &m.Status, &m.Condition,
		&m.Location, &m.Serial, &specJSON, &m.DamageNote, &m.PurchasedAt, &m.PurchasePrice, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	if specJSON.Valid && specJSON.String != "" {
		if err := json.Unmarshal([]byte(specJSON.String), &m.SpecFields); err != nil {
			return nil, fmt.Errorf("broken spec_fields for %s: %w", m.Code, err)
		}
	}
	return &m, nil
}

func marshalSpecFields(m map[string]string) (any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// ===== items =====

// Insert は機材本体とキット構成品を1トランザクションで登録する
func (s *Store) Insert(ctx context.Context, m *Item, contents []string) (uint64, error) {
	var id uint64
	spec, err := marshalSpecFields(m.SpecFields)
	if err != nil {
		return 0, err
	}

	err = platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		const qIns = `
		INSERT INTO items
		  (code, name, brand, category, status, ` + "`condition`" + `, location, serial,
		   spec_fields, purchased_at, purchase_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`
		res, err := tx.ExecContext(ctx, qIns,
			m.Code, m.Name, m.Brand, m.Category, m.Status, m.Condition, m.Location,
			m.Serial, spec, m.PurchasedAt, m.PurchasePrice,
		)
		if err != nil {
			return err
		}
		id64, err := res.LastInsertId()
		if err != nil {
			return err
		}
		id = uint64(id64)

		for _, child := range contents {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO kit_contents (parent_code, child_code) VALUES (?, ?)`,
				m.Code, child); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetByCode(ctx context.Context, code string) (*Item, []string, error) {
	q := `SELECT ` + itemColumns + ` FROM items WHERE code = ?`
	m, err := scanItem(s.db.QueryRowContext(ctx, q, code))
	if err != nil {
		return nil, nil, err
	}
	contents, err := s.listContents(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	return m, contents, nil
}

func (s *Store) listContents(ctx context.Context, code string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT child_code FROM kit_contents WHERE parent_code = ? ORDER BY child_code`, code)
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

func (s *Store) List(ctx context.Context, q ItemSearchQuery, p Page) ([]Item, int64, error) {
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

	// WHERE句と args を SELECT / COUNT で共通に作る
	where := "WHERE 1=1"
	args := []any{}
	if q.Category != nil {
		where += " AND category = ?"
		args = append(args, *q.Category)
	}
	if q.Status != nil {
		where += " AND status = ?"
		args = append(args, *q.Status)
	}
	if q.Location != nil {
		where += " AND location = ?"
		args = append(args, *q.Location)
	}
	if q.Name != nil {
		where += " AND name LIKE ?"
		args = append(args, "%"+*q.Name+"%")
	}

	selectSQL := `SELECT ` + itemColumns + ` FROM items ` + where +
		` ORDER BY code ` + order + ` LIMIT ? OFFSET ?`
	queryArgs := append(append([]any{}, args...), p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, selectSQL, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Item{}
	for rows.Next() {
		m, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) UpdateByCode(ctx context.Context, code string, in UpdateItemRequest) error {
	// 動的アップデート
	sets := []string{}
	args := []any{}
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.Brand != nil {
		sets = append(sets, "brand = ?")
		args = append(args, *in.Brand)
	}
	if in.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *in.Category)
	}
	if in.Serial != nil {
		sets = append(sets, "serial = ?")
		args = append(args, *in.Serial)
	}
	if in.Condition != nil {
		sets = append(sets, "`condition` = ?")
		args = append(args, *in.Condition)
	}
	if in.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *in.Location)
	}
	if in.SpecFields != nil {
		spec, err := marshalSpecFields(in.SpecFields)
		if err != nil {
			return err
		}
		sets = append(sets, "spec_fields = ?")
		args = append(args, spec)
	}
	if in.PurchasedAt != nil {
		sets = append(sets, "purchased_at = ?")
		args = append(args, *in.PurchasedAt)
	}
	if in.PurchasePrice != nil {
		sets = append(sets, "purchase_price = ?")
		args = append(args, *in.PurchasePrice)
	}
	if len(sets) == 0 && in.Contents == nil {
		return nil
	}

	return platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		if len(sets) > 0 {
			q := fmt.Sprintf(`UPDATE items SET %s WHERE code = ?`, strings.Join(sets, ", "))
			res, err := tx.ExecContext(ctx, q, append(args, code)...)
			if err != nil {
				return err
			}
			if aff, _ := res.RowsAffected(); aff == 0 {
				return sql.ErrNoRows
			}
		}
		if in.Contents != nil {
			// 構成品は全置換
			if _, err := tx.ExecContext(ctx, `DELETE FROM kit_contents WHERE parent_code = ?`, code); err != nil {
				return err
			}
			for _, child := range in.Contents {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO kit_contents (parent_code, child_code) VALUES (?, ?)`, code, child); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ===== 状態遷移・削除まわり（service が RunInTx 内で呼ぶ） =====

// GetStatusForUpdate は機材行をロックして現在ステータスを返す．
// 衝突判定→書き込みの間に他の書き込みが割り込まないための直列化ポイント
func GetStatusForUpdate(ctx context.Context, tx platformdb.DBTX, code string) (string, error) {
	var st string
	err := tx.QueryRowContext(ctx, `SELECT status FROM items WHERE code = ? FOR UPDATE`, code).Scan(&st)
	if err != nil {
		return "", err
	}
	return st, nil
}

func UpdateStatusTx(ctx context.Context, tx platformdb.DBTX, code, status string) error {
	res, err := tx.ExecContext(ctx, `UPDATE items SET status = ? WHERE code = ?`, status, code)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountCommitmentsTx は削除確認ダイアログ用に，有効な予約数とアクティブ貸出の有無を数える
func CountCommitmentsTx(ctx context.Context, tx platformdb.DBTX, code string) (int, bool, error) {
	var resCount int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservation_items WHERE item_code = ?`, code).Scan(&resCount); err != nil {
		return 0, false, err
	}
	var coCount int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM checkouts WHERE item_code = ? AND returned = 0`, code).Scan(&coCount); err != nil {
		return 0, false, err
	}
	return resCount, coCount > 0, nil
}

// DeleteCascadeTx は機材と関連レコードを削除する（確認済みの場合のみ呼ばれる）
func DeleteCascadeTx(ctx context.Context, tx platformdb.DBTX, code string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM kit_contents WHERE parent_code = ? OR child_code = ?`, code, code); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reservation_items WHERE item_code = ?`, code); err != nil {
		return err
	}
	// 対象機材しか含まなかった予約は空になるので一緒に落とす
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM reservations
		WHERE reservation_id NOT IN (SELECT DISTINCT reservation_id FROM reservation_items)`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM checkouts WHERE item_code = ?`, code); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM items WHERE code = ?`, code)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== バリデーション文脈用スナップショット =====

func (s *Store) ListCodes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code FROM items`)
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

// ListSerials は正規化済みシリアル → code の map を返す
func (s *Store) ListSerials(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, serial FROM items WHERE serial IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var code, serial string
		if err := rows.Scan(&code, &serial); err != nil {
			return nil, err
		}
		if key := normalizeKey(serial); key != "" {
			out[key] = code
		}
	}
	return out, rows.Err()
}

func (s *Store) GetCategoryConfig(ctx context.Context, name string) (*CategoryConfig, error) {
	const q = `
	SELECT category_id, name, serial_tracked, required_fields, is_disabled
	FROM item_categories WHERE name = ?`
	var c CategoryConfig
	var fieldsJSON sql.NullString
	err := s.db.QueryRowContext(ctx, q, name).Scan(
		&c.CategoryID, &c.Name, &c.SerialTracked, &fieldsJSON, &c.IsDisabled)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // 未設定カテゴリはバリデーション側でエラーにする
		}
		return nil, err
	}
	if fieldsJSON.Valid && fieldsJSON.String != "" {
		if err := json.Unmarshal([]byte(fieldsJSON.String), &c.RequiredFields); err != nil {
			return nil, fmt.Errorf("broken required_fields for category %s: %w", name, err)
		}
	}
	return &c, nil
}
