package items

import (
	"database/sql"
	"time"
)

// Item は items テーブルの1行を表す
type Item struct {
	ItemID        uint64
	Code          string // 管理コード（カテゴリ接頭辞＋連番）
	Name          string
	Brand         string
	Category      string
	Status        string
	Condition     sql.NullString
	Location      sql.NullString
	Serial        sql.NullString
	SpecFields    map[string]string // spec_fields JSON カラム
	DamageNote    sql.NullString    // 返却時の破損報告．ステータスはブロックしない
	PurchasedAt   sql.NullTime
	PurchasePrice sql.NullInt64
	CreatedAt     time.Time
}

// CategoryConfig は item_categories の設定（バリデーション文脈用）
type CategoryConfig struct {
	CategoryID     uint
	Name           string
	SerialTracked  bool     // true ならシリアル番号必須＆一意
	RequiredFields []string // カテゴリ固有の必須スペック項目
	IsDisabled     bool
}
