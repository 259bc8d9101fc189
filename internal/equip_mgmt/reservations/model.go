package reservations

import (
	"database/sql"
	"time"
)

// Reservation は reservations テーブルの1行＋対象機材コード群を表す．
// 期間は DATE（両端含む）．1件の予約が複数機材を対象にできる
type Reservation struct {
	ReservationID   int64
	ReservationULID string
	StartOn         time.Time
	EndOn           time.Time
	RequestedBy     string
	ClientID        sql.NullInt64
	ContactPhone    sql.NullString
	ContactEmail    sql.NullString
	Project         string
	ProjectType     sql.NullString
	Location        sql.NullString
	CreatedAt       time.Time
	ItemCodes       []string
}

// 予約一覧の検索条件
type ReservationFilter struct {
	ItemCode    string
	Project     string
	RequestedBy string
	From        *time.Time // start_on >= From
	To          *time.Time // end_on <= To
}
