package checkouts

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

// Checkout は機材を貸し出す．available からのみ合法で，
// すでにアクティブな貸出があれば ALREADY_CHECKED_OUT で失敗し，何も変更しない
func (s *Service) Checkout(ctx context.Context, req CreateCheckoutRequest) (*CheckoutResponse, error) {
	if req.ItemCode == "" {
		return nil, ErrInvalid("item_code is required")
	}
	if req.Borrower == "" {
		return nil, ErrInvalid("borrower is required")
	}

	var dueOn sql.NullTime
	if req.DueOn != nil && *req.DueOn != "" {
		parsed, err := schedule.ParseDate(*req.DueOn)
		if err != nil {
			return nil, ErrInvalid("invalid due_on format, expected YYYY-MM-DD")
		}
		dueOn.Time, dueOn.Valid = parsed, true
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	m := &Checkout{
		CheckoutULID: idStr,
		ItemCode:     req.ItemCode,
		Borrower:     req.Borrower,
		DueOn:        dueOn,
		CheckedOutOn: today,
	}
	if req.ClientID != nil {
		m.ClientID.Int64, m.ClientID.Valid = *req.ClientID, true
	}
	m.ContactPhone = toNullString(req.Phone)
	m.ContactEmail = toNullString(req.Email)
	m.ConditionOut = toNullString(req.Condition)
	m.Note = toNullString(req.Note)

	err = platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		curStr, err := LockItemStatusTx(ctx, tx, req.ItemCode)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound("item not found: " + req.ItemCode)
			}
			return err
		}
		cur, err := status.Parse(curStr)
		if err != nil {
			return ErrInternal(err.Error())
		}
		if terr := status.CanCheckout(cur); terr != nil {
			return transitionToAPIError(terr)
		}

		// ステータスが available でも行が残っていれば不変条件違反として弾く
		if _, err := GetActiveByItemTx(ctx, tx, req.ItemCode); err == nil {
			return ErrAlreadyCheckedOut("item already has an active checkout record")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		if err := InsertCheckoutTx(ctx, tx, m); err != nil {
			return err
		}
		return UpdateItemStatusTx(ctx, tx, req.ItemCode, string(status.CheckedOut))
	})
	if err != nil {
		return nil, err
	}

	resp := buildCheckoutResponse(m)
	return &resp, nil
}

// CheckIn は返却を登録する．checked_out からのみ合法．
// 破損報告は機材のメモとして残すだけで，ステータスは available に戻す
// （破損ありでも再貸出可能のまま，レビュー待ちはメモで追うという設計判断）
func (s *Service) CheckIn(ctx context.Context, req CheckInRequest) (*ReturnResponse, error) {
	if req.ItemCode == "" {
		return nil, ErrInvalid("item_code is required")
	}
	if req.DamageReported && (req.DamageNote == nil || *req.DamageNote == "") {
		return nil, ErrInvalid("damage_note is required when damage_reported is set")
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	ret := &Return{
		ReturnULID:     idStr,
		DamageReported: req.DamageReported,
		ReturnedAt:     now,
	}
	ret.ConditionIn = toNullString(req.Condition)
	ret.DamageNote = toNullString(req.DamageNote)
	ret.ProcessedBy = toNullString(req.ProcessedBy)

	var co *Checkout
	err = platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		curStr, err := LockItemStatusTx(ctx, tx, req.ItemCode)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound("item not found: " + req.ItemCode)
			}
			return err
		}
		cur, err := status.Parse(curStr)
		if err != nil {
			return ErrInternal(err.Error())
		}
		if terr := status.CanCheckIn(cur); terr != nil {
			return transitionToAPIError(terr)
		}

		co, err = GetActiveByItemTx(ctx, tx, req.ItemCode)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// checked_out なのに貸出行がない：一括変更で作られる既知の不整合
				return ErrNotCheckedOut("item is marked checked_out but has no active checkout record")
			}
			return err
		}
		ret.CheckoutID = co.CheckoutID

		if err := InsertReturnTx(ctx, tx, ret); err != nil {
			return err
		}
		if err := CloseCheckoutTx(ctx, tx, co.CheckoutID); err != nil {
			return err
		}
		if req.DamageReported {
			if err := AppendDamageNoteTx(ctx, tx, req.ItemCode, *req.DamageNote); err != nil {
				return err
			}
		}
		return UpdateItemStatusTx(ctx, tx, req.ItemCode, string(status.Available))
	})
	if err != nil {
		return nil, err
	}

	resp := buildReturnResponse(ret, co.CheckoutULID, co.ItemCode)
	return &resp, nil
}

// GetActiveCheckout は機材コード起点の貸出照会（QRスキャン用）
func (s *Service) GetActiveCheckout(ctx context.Context, itemCode string) (*CheckoutResponse, error) {
	if itemCode == "" {
		return nil, ErrInvalid("item_code is required")
	}
	m, err := s.store.GetActiveByItem(ctx, itemCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound("no active checkout for item: " + itemCode)
		}
		return nil, err
	}
	resp := buildCheckoutResponse(m)
	return &resp, nil
}

// ListReturns は返却履歴を返す
func (s *Service) ListReturns(ctx context.Context, f ReturnFilter, p Page) ([]ReturnResponse, int64, error) {
	rows, total, err := s.store.ListReturns(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReturnResponse, 0, len(rows))
	for i := range rows {
		out = append(out, buildReturnResponse(&rows[i].Return, rows[i].CheckoutULID, rows[i].ItemCode))
	}
	return out, total, nil
}

// ===== helpers =====

func transitionToAPIError(terr *status.TransitionError) *APIError {
	switch terr.Reason {
	case status.ReasonAlreadyCheckedOut:
		return ErrAlreadyCheckedOut(terr.Message)
	case status.ReasonNotCheckedOut:
		return ErrNotCheckedOut(terr.Message)
	default:
		return ErrConflict(terr.Message)
	}
}

func buildCheckoutResponse(m *Checkout) CheckoutResponse {
	resp := CheckoutResponse{
		CheckoutID:   m.CheckoutID,
		CheckoutULID: m.CheckoutULID,
		ItemCode:     m.ItemCode,
		Borrower:     m.Borrower,
		CheckedOutOn: m.CheckedOutOn.Format(schedule.DateLayout),
		Returned:     m.Returned,
	}
	if m.ClientID.Valid {
		v := m.ClientID.Int64
		resp.ClientID = &v
	}
	resp.Phone = nullToPtr(m.ContactPhone)
	resp.Email = nullToPtr(m.ContactEmail)
	if m.DueOn.Valid {
		v := m.DueOn.Time.Format(schedule.DateLayout)
		resp.DueOn = &v
	}
	resp.Condition = nullToPtr(m.ConditionOut)
	resp.Note = nullToPtr(m.Note)
	return resp
}

func buildReturnResponse(m *Return, checkoutULID, itemCode string) ReturnResponse {
	resp := ReturnResponse{
		ReturnID:       m.ReturnID,
		ReturnULID:     m.ReturnULID,
		CheckoutULID:   checkoutULID,
		ItemCode:       itemCode,
		DamageReported: m.DamageReported,
		ReturnedAt:     m.ReturnedAt,
	}
	resp.Condition = nullToPtr(m.ConditionIn)
	resp.DamageNote = nullToPtr(m.DamageNote)
	resp.ProcessedBy = nullToPtr(m.ProcessedBy)
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
