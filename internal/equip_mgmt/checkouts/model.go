package checkouts

import (
	"database/sql"
	"time"
)

// Checkout は checkouts テーブルの1行を表す．
// 機材1点につきアクティブ（returned=0）な行は常に高々1件
type Checkout struct {
	CheckoutID   int64
	CheckoutULID string
	ItemCode     string
	Borrower     string
	ClientID     sql.NullInt64
	ContactPhone sql.NullString
	ContactEmail sql.NullString
	DueOn        sql.NullTime // DATE．NULL なら返却予定なし
	ConditionOut sql.NullString
	CheckedOutOn time.Time // DATE
	Note         sql.NullString
	Returned     bool
}

// Return は returns テーブルの1行を表す
type Return struct {
	ReturnID       int64
	ReturnULID     string
	CheckoutID     int64
	ConditionIn    sql.NullString
	DamageReported bool
	DamageNote     sql.NullString
	ProcessedBy    sql.NullString
	ReturnedAt     time.Time
}

// 返却履歴の検索条件
type ReturnFilter struct {
	ItemCode     string
	CheckoutULID string
}
