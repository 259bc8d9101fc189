package items

import (
	"context"
	"database/sql"
	"errors"

	"KIZAI-backend/internal/equip_mgmt/status"
	platformdb "KIZAI-backend/internal/platform/db"
)

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{db: db, store: NewStore(db)} }

// buildValidationContext は現在のスナップショットから検証文脈を組み立てる
func (s *Service) buildValidationContext(ctx context.Context, category, editingCode string) (ValidationContext, error) {
	vctx := ValidationContext{EditingCode: editingCode}

	cat, err := s.store.GetCategoryConfig(ctx, category)
	if err != nil {
		return vctx, err
	}
	vctx.Category = cat

	serials, err := s.store.ListSerials(ctx)
	if err != nil {
		return vctx, err
	}
	vctx.ExistingSerials = serials

	codes, err := s.store.ListCodes(ctx)
	if err != nil {
		return vctx, err
	}
	vctx.ExistingCodes = make(map[string]bool, len(codes))
	for _, c := range codes {
		vctx.ExistingCodes[c] = true
	}
	return vctx, nil
}

// CreateItem は機材を登録する．code 省略時はカテゴリから自動採番
func (s *Service) CreateItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error) {
	form := ItemForm{
		Name:       req.Name,
		Brand:      req.Brand,
		Category:   req.Category,
		SpecFields: req.SpecFields,
	}
	if req.Code != nil {
		form.Code = *req.Code
	}
	if req.Serial != nil {
		form.Serial = *req.Serial
	}

	vctx, err := s.buildValidationContext(ctx, req.Category, "")
	if err != nil {
		return ItemResponse{}, err
	}
	if errs := ValidateItem(form, vctx); len(errs) > 0 {
		return ItemResponse{}, ErrValidation(errs)
	}

	code := normalizeKey(form.Code)
	if code == "" {
		// 採番は検証済みスナップショットに対して行うので衝突しない
		codes := make([]string, 0, len(vctx.ExistingCodes))
		for c := range vctx.ExistingCodes {
			codes = append(codes, c)
		}
		code = GenerateCode(req.Category, codes)
	}

	m := &Item{
		Code:       code,
		Name:       req.Name,
		Brand:      req.Brand,
		Category:   req.Category,
		Status:     string(status.Available),
		SpecFields: req.SpecFields,
	}
	m.Serial = toNullString(req.Serial)
	m.Condition = toNullString(req.Condition)
	m.Location = toNullString(req.Location)
	if req.PurchasedAt != nil {
		m.PurchasedAt.Time, m.PurchasedAt.Valid = *req.PurchasedAt, true
	}
	if req.PurchasePrice != nil {
		m.PurchasePrice.Int64, m.PurchasePrice.Valid = *req.PurchasePrice, true
	}

	id, err := s.store.Insert(ctx, m, req.Contents)
	if err != nil {
		return ItemResponse{}, err
	}
	m.ItemID = id
	return buildItemResponse(m, req.Contents), nil
}

func (s *Service) GetItem(ctx context.Context, code string) (ItemResponse, error) {
	m, contents, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ItemResponse{}, ErrNotFound("item not found: " + code)
		}
		return ItemResponse{}, err
	}
	return buildItemResponse(m, contents), nil
}

func (s *Service) ListItems(ctx context.Context, q ItemSearchQuery, p Page) ([]ItemResponse, int64, error) {
	rows, total, err := s.store.List(ctx, q, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ItemResponse, 0, len(rows))
	for i := range rows {
		out = append(out, buildItemResponse(&rows[i], nil))
	}
	return out, total, nil
}

// UpdateItem は編集後の姿をバリデーションしてから保存する．
// 重複判定は自分自身を除外して行う
func (s *Service) UpdateItem(ctx context.Context, code string, req UpdateItemRequest) (ItemResponse, error) {
	cur, _, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ItemResponse{}, ErrNotFound("item not found: " + code)
		}
		return ItemResponse{}, err
	}

	// 現在値に更新を重ねたフォームを検証する
	form := ItemForm{
		Code:       code,
		Name:       cur.Name,
		Brand:      cur.Brand,
		Category:   cur.Category,
		SpecFields: cur.SpecFields,
	}
	if cur.Serial.Valid {
		form.Serial = cur.Serial.String
	}
	if req.Name != nil {
		form.Name = *req.Name
	}
	if req.Brand != nil {
		form.Brand = *req.Brand
	}
	if req.Category != nil {
		form.Category = *req.Category
	}
	if req.Serial != nil {
		form.Serial = *req.Serial
	}
	if req.SpecFields != nil {
		form.SpecFields = req.SpecFields
	}

	vctx, err := s.buildValidationContext(ctx, form.Category, code)
	if err != nil {
		return ItemResponse{}, err
	}
	if errs := ValidateItem(form, vctx); len(errs) > 0 {
		return ItemResponse{}, ErrValidation(errs)
	}

	if err := s.store.UpdateByCode(ctx, code, req); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ItemResponse{}, ErrNotFound("item not found: " + code)
		}
		return ItemResponse{}, err
	}
	return s.GetItem(ctx, code)
}

// BulkStatusChange は複数機材のステータスを直接書き換える．
// checked_out からの離脱は成功させるが，貸出クローズを踏んでいない旨を警告として返す
// （Checkout レコードは閉じない．整合性レポートで追跡できる既知の不整合）
func (s *Service) BulkStatusChange(ctx context.Context, req BulkStatusRequest) (BulkStatusResponse, error) {
	if len(req.Codes) == 0 {
		return BulkStatusResponse{}, ErrInvalid("codes is required")
	}
	next, err := status.Parse(req.NewStatus)
	if err != nil {
		return BulkStatusResponse{}, ErrInvalid(err.Error())
	}

	var resp BulkStatusResponse
	err = platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		for _, code := range req.Codes {
			curStr, err := GetStatusForUpdate(ctx, tx, code)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrNotFound("item not found: " + code)
				}
				return err
			}
			cur, err := status.Parse(curStr)
			if err != nil {
				return ErrInternal(err.Error())
			}

			warning, terr := status.BulkTarget(cur, next)
			if terr != nil {
				return &APIError{Code: CodeInvalidArgument, Message: code + ": " + terr.Message}
			}
			if warning != "" {
				resp.Warnings = append(resp.Warnings, BulkWarning{Code: code, Message: warning})
			}

			if err := UpdateStatusTx(ctx, tx, code, string(next)); err != nil {
				return err
			}
			resp.Updated++
		}
		return nil
	})
	if err != nil {
		return BulkStatusResponse{}, err
	}
	return resp, nil
}

// DeleteItem は機材を削除する．貸出・予約が残っている場合は confirmed が必須
func (s *Service) DeleteItem(ctx context.Context, code string, confirmed bool) error {
	return platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		if _, err := GetStatusForUpdate(ctx, tx, code); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound("item not found: " + code)
			}
			return err
		}

		resCount, hasCheckout, err := CountCommitmentsTx(ctx, tx, code)
		if err != nil {
			return err
		}
		if terr := status.DeleteGuard(resCount, hasCheckout, confirmed); terr != nil {
			return &APIError{
				Code:             CodeHasActiveCommitments,
				Message:          terr.Message,
				ReservationCount: terr.ReservationCount,
				HasCheckout:      terr.HasCheckout,
			}
		}
		return DeleteCascadeTx(ctx, tx, code)
	})
}

// ===== helpers =====

func buildItemResponse(m *Item, contents []string) ItemResponse {
	resp := ItemResponse{
		ItemID:     m.ItemID,
		Code:       m.Code,
		Name:       m.Name,
		Brand:      m.Brand,
		Category:   m.Category,
		Status:     m.Status,
		SpecFields: m.SpecFields,
		Contents:   contents,
		CreatedAt:  m.CreatedAt,
	}
	resp.Condition = nullToPtr(m.Condition)
	resp.Location = nullToPtr(m.Location)
	resp.Serial = nullToPtr(m.Serial)
	resp.DamageNote = nullToPtr(m.DamageNote)
	if m.PurchasedAt.Valid {
		v := m.PurchasedAt.Time
		resp.PurchasedAt = &v
	}
	if m.PurchasePrice.Valid {
		v := m.PurchasePrice.Int64
		resp.PurchasePrice = &v
	}
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
