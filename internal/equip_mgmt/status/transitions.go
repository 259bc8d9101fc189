package status

// ===== 遷移ガード =====
// いずれも純粋関数．DBロック下で現在値を読んだ service 層が呼ぶ

// CanCheckout は貸出可否を判定する．available からのみ合法
func CanCheckout(current Status) *TransitionError {
	switch current {
	case Available:
		return nil
	case CheckedOut:
		return &TransitionError{Reason: ReasonAlreadyCheckedOut, Message: "item already has an active checkout"}
	default:
		return &TransitionError{Reason: ReasonNotAvailable, Message: "item is not available for checkout (status: " + string(current) + ")"}
	}
}

// CanCheckIn は返却可否を判定する．checked_out からのみ合法
func CanCheckIn(current Status) *TransitionError {
	if current != CheckedOut {
		return &TransitionError{Reason: ReasonNotCheckedOut, Message: "item is not checked out (status: " + string(current) + ")"}
	}
	return nil
}

// CanReserve は予約受付可否を判定する．available / reserved から合法．
// 予約してもステータス自体は自動では変えない（表示側が予約期間から導出する）
func CanReserve(current Status) *TransitionError {
	switch current {
	case Available, Reserved:
		return nil
	default:
		return &TransitionError{Reason: ReasonNotAvailable, Message: "item cannot accept reservations (status: " + string(current) + ")"}
	}
}

// BulkTarget は一括ステータス変更の可否を判定する．
// 直接設定できるのは available / needs_attention / missing のみ．
// checked_out からの離脱は許すが，貸出クローズ処理を踏んでいない旨の警告を返す
// （Checkout レコードは自動では閉じない．呼び出し側が整合性レポートで追う）
func BulkTarget(current, next Status) (warning string, err *TransitionError) {
	switch next {
	case Available, NeedsAttention, Missing:
	default:
		return "", &TransitionError{Reason: ReasonNotAvailable, Message: "status " + string(next) + " cannot be set directly"}
	}
	if current == CheckedOut {
		warning = "item was checked_out: status overridden without closing the active checkout"
	}
	return warning, nil
}

// DeleteGuard は機材削除の可否を判定する．どのステータスからも削除自体は合法だが，
// アクティブな貸出や予約が残っている場合は明示的な確認なしには通さない
func DeleteGuard(reservationCount int, hasCheckout, confirmed bool) *TransitionError {
	if reservationCount == 0 && !hasCheckout {
		return nil
	}
	if confirmed {
		return nil
	}
	return &TransitionError{
		Reason:           ReasonHasActiveCommitments,
		Message:          "item has active reservations or checkout; confirmation required",
		ReservationCount: reservationCount,
		HasCheckout:      hasCheckout,
	}
}
