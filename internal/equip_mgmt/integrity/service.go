package integrity

import (
	"context"
	"database/sql"
)

type Service struct {
	store *Store
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

// BuildReport は 3 種類の整合性チェックをまとめて実行する．
// 読み取り専用なのでトランザクションは張らない（多少のずれは次回実行で拾える）
func (s *Service) BuildReport(ctx context.Context) (Report, error) {
	var rep Report
	var err error

	rep.OrphanedReservationItems, err = s.store.ListOrphanedReservationItems(ctx)
	if err != nil {
		return Report{}, err
	}
	rep.StrandedCheckouts, err = s.store.ListStrandedCheckouts(ctx)
	if err != nil {
		return Report{}, err
	}
	rep.GhostCheckedOut, err = s.store.ListGhostCheckedOut(ctx)
	if err != nil {
		return Report{}, err
	}

	if rep.OrphanedReservationItems == nil {
		rep.OrphanedReservationItems = []OrphanedReservationItem{}
	}
	if rep.StrandedCheckouts == nil {
		rep.StrandedCheckouts = []StrandedCheckout{}
	}
	if rep.GhostCheckedOut == nil {
		rep.GhostCheckedOut = []GhostCheckedOut{}
	}
	rep.Clean = len(rep.OrphanedReservationItems) == 0 &&
		len(rep.StrandedCheckouts) == 0 &&
		len(rep.GhostCheckedOut) == 0
	return rep, nil
}
