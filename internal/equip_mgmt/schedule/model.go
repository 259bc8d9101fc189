package schedule

import "time"

// 予約・貸出の日付は DATE（時刻なし，両端含む）で扱う
const DateLayout = "2006-01-02"

// ParseDate は "2006-01-02" 形式を UTC 深夜0時の time.Time に変換する
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Reservation は重複判定に必要な最小限の予約スナップショット
type Reservation struct {
	ULID        string    `json:"reservation_ulid"`
	Start       time.Time `json:"start_on"`
	End         time.Time `json:"end_on"`
	RequestedBy string    `json:"requested_by"`
	Project     string    `json:"project"`
}

// ActiveCheckout は現在貸出中のレコード
// DueOn が nil の場合は返却予定なし＝以降のすべての候補期間と衝突する
type ActiveCheckout struct {
	Borrower     string     `json:"borrower"`
	CheckedOutOn time.Time  `json:"checked_out_on"`
	DueOn        *time.Time `json:"due_on,omitempty"`
}

// Item は衝突判定用の機材スナップショット
// 呼び出し側（service層）がDBから組み立てて渡す．このパッケージはDBを触らない
type Item struct {
	Code         string
	Status       string
	Reservations []Reservation
	Checkout     *ActiveCheckout
	Contents     []string // キット構成品の item code（キットでなければ空）
}
