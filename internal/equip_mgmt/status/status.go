package status

import "fmt"

// ===== 機材ステータス語彙 =====

type Status string

const (
	Available      Status = "available"
	Reserved       Status = "reserved"
	CheckedOut     Status = "checked_out"
	NeedsAttention Status = "needs_attention"
	Missing        Status = "missing"
)

var all = map[Status]bool{
	Available:      true,
	Reserved:       true,
	CheckedOut:     true,
	NeedsAttention: true,
	Missing:        true,
}

// Parse は文字列をステータスに変換する．未知の値はエラー
func Parse(s string) (Status, error) {
	st := Status(s)
	if !all[st] {
		return "", fmt.Errorf("unknown status: %q", s)
	}
	return st, nil
}

// ===== 遷移エラー =====

// Reason は不正遷移の型付き理由．不正な遷移は黙って成功させない
type Reason string

const (
	ReasonAlreadyCheckedOut    Reason = "ALREADY_CHECKED_OUT"
	ReasonNotCheckedOut        Reason = "NOT_CHECKED_OUT"
	ReasonNotAvailable         Reason = "NOT_AVAILABLE"
	ReasonHasActiveCommitments Reason = "HAS_ACTIVE_COMMITMENTS"
)

type TransitionError struct {
	Reason  Reason
	Message string
	// 削除ガード用：巻き込まれるレコード数（確認ダイアログに出す）
	ReservationCount int
	HasCheckout      bool
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}
