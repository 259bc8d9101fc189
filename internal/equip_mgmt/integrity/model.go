package integrity

// OrphanedReservationItem は存在しない機材コードを参照している予約明細
type OrphanedReservationItem struct {
	ReservationULID string `json:"reservation_ulid"`
	ItemCode        string `json:"item_code"`
}

// StrandedCheckout はアクティブな貸出があるのにステータスが checked_out でない機材．
// 一括ステータス変更で checked_out を上書きした場合に発生する
type StrandedCheckout struct {
	ItemCode     string `json:"item_code"`
	ItemStatus   string `json:"item_status"`
	CheckoutULID string `json:"checkout_ulid"`
	Borrower     string `json:"borrower"`
}

// GhostCheckedOut はステータスが checked_out なのにアクティブな貸出行がない機材
type GhostCheckedOut struct {
	ItemCode string `json:"item_code"`
}

// Report は整合性チェック一式の結果．空なら問題なし
type Report struct {
	OrphanedReservationItems []OrphanedReservationItem `json:"orphaned_reservation_items"`
	StrandedCheckouts        []StrandedCheckout        `json:"stranded_checkouts"`
	GhostCheckedOut          []GhostCheckedOut         `json:"ghost_checked_out"`
	Clean                    bool                      `json:"clean"`
}
