package schedule

import "time"

// ===== 衝突集約 =====

// ItemReport は機材1点ぶんの衝突レポート
type ItemReport struct {
	ReservationConflicts []Reservation           `json:"reservation_conflicts"`
	CheckoutConflict     *CheckoutConflictRecord `json:"checkout_conflict,omitempty"`
	HasConflicts         bool                    `json:"has_conflicts"`
}

// Report は複数機材リクエスト全体のレポート．
// Missing はスナップショットに存在しなかった対象コード（削除済み機材への参照など，
// データ整合性の問題として呼び出し側へそのまま返す．勝手に補正しない）
type Report struct {
	Items        map[string]ItemReport `json:"items"`
	Missing      []string              `json:"missing,omitempty"`
	HasConflicts bool                  `json:"has_conflicts"`
}

type EvaluateOptions struct {
	// 予約編集時に自分自身を除外するための ULID
	ExcludeReservationULID string
	// true ならキット構成品を再帰展開して対象に加える
	ExpandKits bool
}

// Evaluate は対象機材それぞれについて予約重複と貸出衝突を独立に判定し，
// 1つでも衝突があれば全体の HasConflicts を立てる．
// 衝突は助言であってブロックではない：state には一切触らず，レポートだけを返す
func Evaluate(snapshot map[string]Item, targets []string, start, end time.Time, opt EvaluateOptions) Report {
	if opt.ExpandKits {
		targets = expandKitContents(snapshot, targets)
	}

	rep := Report{Items: make(map[string]ItemReport, len(targets))}
	for _, code := range targets {
		it, ok := snapshot[code]
		if !ok {
			rep.Missing = append(rep.Missing, code)
			continue
		}

		ir := ItemReport{
			ReservationConflicts: OverlappingReservations(start, end, it.Reservations, opt.ExcludeReservationULID),
			CheckoutConflict:     CheckoutConflict(it, start, end),
		}
		ir.HasConflicts = len(ir.ReservationConflicts) > 0 || ir.CheckoutConflict != nil
		if ir.HasConflicts {
			rep.HasConflicts = true
		}
		rep.Items[code] = ir
	}
	return rep
}

// expandKitContents はキット構成品を幅優先で展開する．
// 構成品がさらにキットでも辿る（循環参照は visited で打ち切り）
func expandKitContents(snapshot map[string]Item, targets []string) []string {
	visited := make(map[string]bool, len(targets))
	out := make([]string, 0, len(targets))

	queue := append([]string(nil), targets...)
	for len(queue) > 0 {
		code := queue[0]
		queue = queue[1:]
		if visited[code] {
			continue
		}
		visited[code] = true
		out = append(out, code)

		if it, ok := snapshot[code]; ok {
			queue = append(queue, it.Contents...)
		}
	}
	return out
}
