package schedule

import "time"

// ===== 区間重複判定 =====

// 閉区間 [aStart,aEnd] と [bStart,bEnd] の重なり判定．
// 境界日の共有（同日返却→同日貸出）も衝突扱いにする
func datesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// OverlappingReservations は候補期間 [start,end] と重なる既存予約を入力順のまま返す．
// excludeULID が非空なら該当予約を比較前に除外する（予約編集時の自己衝突防止）．
// start ≤ end は呼び出し側のバリデーション責任で，ここでは検査しない
func OverlappingReservations(start, end time.Time, existing []Reservation, excludeULID string) []Reservation {
	var matches []Reservation
	for _, r := range existing {
		if excludeULID != "" && r.ULID == excludeULID {
			continue
		}
		if datesOverlap(start, end, r.Start, r.End) {
			matches = append(matches, r)
		}
	}
	return matches
}

// CheckoutConflictRecord は貸出との衝突の詳細．
// 画面側でメッセージを組めるよう bool ではなく内容を返す
type CheckoutConflictRecord struct {
	Borrower     string     `json:"borrower"`
	CheckedOutOn time.Time  `json:"checked_out_on"`
	DueOn        *time.Time `json:"due_on,omitempty"`
}

// CheckoutConflict は機材のアクティブな貸出が候補期間と衝突するかを判定する．
// 貸出なしなら nil．返却予定日なしの貸出は貸出日以降のすべてと衝突する
func CheckoutConflict(it Item, start, end time.Time) *CheckoutConflictRecord {
	co := it.Checkout
	if co == nil {
		return nil
	}
	if co.DueOn == nil {
		// 無期限：候補終了日が貸出日より前でない限り衝突
		if !end.Before(co.CheckedOutOn) {
			return &CheckoutConflictRecord{Borrower: co.Borrower, CheckedOutOn: co.CheckedOutOn}
		}
		return nil
	}
	if datesOverlap(start, end, co.CheckedOutOn, *co.DueOn) {
		due := *co.DueOn
		return &CheckoutConflictRecord{Borrower: co.Borrower, CheckedOutOn: co.CheckedOutOn, DueOn: &due}
	}
	return nil
}
