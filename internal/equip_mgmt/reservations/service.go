package reservations

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"

	"KIZAI-backend/internal/equip_mgmt/schedule"
	"KIZAI-backend/internal/equip_mgmt/status"
	platformdb "KIZAI-backend/internal/platform/db"
)

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ===== Service本体 =====

type Service struct {
	db    *sql.DB
	store *Store
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB) *Service {
	return &Service{
		db:    db,
		store: NewStore(db),
		clock: realClock{},
		id:    ulidGen{},
	}
}

// Evaluate は保存せずに衝突レポートだけを返す（画面のプレビュー用）．
// レポートは計算した瞬間のスナップショットに対してのみ有効
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) (*schedule.Report, error) {
	start, end, err := parseWindow(req.StartOn, req.EndOn)
	if err != nil {
		return nil, err
	}

	snapshot, err := LoadSnapshot(ctx, s.db, req.ItemCodes)
	if err != nil {
		return nil, err
	}
	rep := schedule.Evaluate(snapshot, req.ItemCodes, start, end, schedule.EvaluateOptions{
		ExcludeReservationULID: req.ExcludeReservationULID,
		ExpandKits:             req.ExpandKits,
	})
	return &rep, nil
}

// CreateReservation は予約を登録する．
// 衝突判定と INSERT は同一トランザクションで対象機材の行ロック下にある：
// レポートは計算した瞬間にしか有効でないので，評価→確定の間を直列化する
func (s *Service) CreateReservation(ctx context.Context, req CreateReservationRequest) (ReservationResponse, error) {
	return s.saveReservation(ctx, req, "")
}

// UpdateReservation は予約を編集する．衝突判定は自分自身を除外して再実行される
func (s *Service) UpdateReservation(ctx context.Context, ul string, req UpdateReservationRequest) (ReservationResponse, error) {
	if ul == "" {
		return ReservationResponse{}, ErrInvalid("reservation_ulid is required")
	}
	return s.saveReservation(ctx, req, ul)
}

func (s *Service) saveReservation(ctx context.Context, req CreateReservationRequest, editingULID string) (ReservationResponse, error) {
	form := ReservationForm{
		ItemCodes:   req.ItemCodes,
		StartOn:     req.StartOn,
		EndOn:       req.EndOn,
		RequestedBy: req.RequestedBy,
		Project:     req.Project,
	}
	if req.Email != nil {
		form.Email = *req.Email
	}
	if errs := ValidateReservation(form); len(errs) > 0 {
		return ReservationResponse{}, ErrValidation(errs)
	}

	start, end, err := parseWindow(req.StartOn, req.EndOn)
	if err != nil {
		return ReservationResponse{}, err
	}

	var existing *Reservation
	if editingULID != "" {
		existing, err = s.store.GetByULID(ctx, editingULID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ReservationResponse{}, ErrNotFound("reservation not found: " + editingULID)
			}
			return ReservationResponse{}, err
		}
	}

	m := &Reservation{
		StartOn:     start,
		EndOn:       end,
		RequestedBy: req.RequestedBy,
		Project:     req.Project,
		ItemCodes:   req.ItemCodes,
	}
	if existing != nil {
		m.ReservationID = existing.ReservationID
		m.ReservationULID = existing.ReservationULID
	} else {
		idStr, err := s.id.New()
		if err != nil {
			return ReservationResponse{}, err
		}
		m.ReservationULID = idStr
	}
	if req.ClientID != nil {
		m.ClientID.Int64, m.ClientID.Valid = *req.ClientID, true
	}
	m.ContactPhone = toNullString(req.Phone)
	m.ContactEmail = toNullString(req.Email)
	m.ProjectType = toNullString(req.ProjectType)
	m.Location = toNullString(req.Location)

	err = platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		// 対象機材をロックしてからスナップショットを読む
		found, err := LockItemCodesTx(ctx, tx, req.ItemCodes)
		if err != nil {
			return err
		}
		if missing := diffCodes(req.ItemCodes, found); len(missing) > 0 {
			return ErrMissingItems(missing)
		}

		snapshot, err := LoadSnapshot(ctx, tx, req.ItemCodes)
		if err != nil {
			return err
		}

		// 予約を受けられないステータスの機材は弾く
		for _, code := range req.ItemCodes {
			st, perr := status.Parse(snapshot[code].Status)
			if perr != nil {
				return ErrInternal(perr.Error())
			}
			if terr := status.CanReserve(st); terr != nil {
				return ErrInvalid(code + ": " + terr.Message)
			}
		}

		rep := schedule.Evaluate(snapshot, req.ItemCodes, start, end, schedule.EvaluateOptions{
			ExcludeReservationULID: m.ReservationULID,
			ExpandKits:             req.ExpandKits,
		})
		// 衝突は助言：明示的な acknowledged があれば保存を通す
		if rep.HasConflicts && !req.Acknowledged {
			return ErrConflictReport(&rep)
		}

		if existing != nil {
			return UpdateTx(ctx, tx, m)
		}
		return InsertTx(ctx, tx, m)
	})
	if err != nil {
		return ReservationResponse{}, err
	}

	// コミット後に取り直して返す
	return s.GetReservation(ctx, m.ReservationULID)
}

func (s *Service) GetReservation(ctx context.Context, ul string) (ReservationResponse, error) {
	m, err := s.store.GetByULID(ctx, ul)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReservationResponse{}, ErrNotFound("reservation not found: " + ul)
		}
		return ReservationResponse{}, err
	}
	return buildReservationResponse(m), nil
}

func (s *Service) ListReservations(ctx context.Context, f ReservationFilter, p Page) ([]ReservationResponse, int64, error) {
	rows, total, err := s.store.List(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReservationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, buildReservationResponse(&rows[i]))
	}
	return out, total, nil
}

// CancelReservation は予約の明示的キャンセル
func (s *Service) CancelReservation(ctx context.Context, ul string) error {
	if err := s.store.DeleteByULID(ctx, ul); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound("reservation not found: " + ul)
		}
		return err
	}
	return nil
}

// ===== helpers =====

func parseWindow(startOn, endOn string) (time.Time, time.Time, error) {
	start, err := schedule.ParseDate(startOn)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalid("invalid start_on format, expected YYYY-MM-DD")
	}
	end, err := schedule.ParseDate(endOn)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalid("invalid end_on format, expected YYYY-MM-DD")
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, ErrInvalid("start_on must not be after end_on")
	}
	return start, end, nil
}

func diffCodes(want, have []string) []string {
	got := make(map[string]bool, len(have))
	for _, c := range have {
		got[c] = true
	}
	var missing []string
	for _, c := range want {
		if !got[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

func buildReservationResponse(m *Reservation) ReservationResponse {
	resp := ReservationResponse{
		ReservationID:   m.ReservationID,
		ReservationULID: m.ReservationULID,
		ItemCodes:       m.ItemCodes,
		StartOn:         m.StartOn.Format(schedule.DateLayout),
		EndOn:           m.EndOn.Format(schedule.DateLayout),
		RequestedBy:     m.RequestedBy,
		Project:         m.Project,
		CreatedAt:       m.CreatedAt,
	}
	if m.ClientID.Valid {
		v := m.ClientID.Int64
		resp.ClientID = &v
	}
	resp.Phone = nullToPtr(m.ContactPhone)
	resp.Email = nullToPtr(m.ContactEmail)
	resp.ProjectType = nullToPtr(m.ProjectType)
	resp.Location = nullToPtr(m.Location)
	return resp
}

func toNullString(s *string) (ns sql.NullString) {
	if s != nil && *s != "" {
		ns.Valid, ns.String = true, *s
	}
	return
}

func nullToPtr(ns sql.NullString) *string {
	if ns.Valid {
		v := ns.String
		return &v
	}
	return nil
}
