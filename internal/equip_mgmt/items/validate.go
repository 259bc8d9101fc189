package items

import (
	"strings"

	"golang.org/x/text/width"
)

// ===== 機材バリデーション =====

// ItemForm はバリデーション対象のフォーム値（保存前の生入力）
type ItemForm struct {
	Code       string
	Name       string
	Brand      string
	Category   string
	Serial     string
	SpecFields map[string]string
}

// ValidationContext は service 層がスナップショットから組み立てる検証文脈
type ValidationContext struct {
	// nil なら未設定カテゴリ
	Category *CategoryConfig
	// 正規化済みシリアル → 所有 item code
	ExistingSerials map[string]string
	ExistingCodes   map[string]bool
	// 編集中レコード自身の code（重複判定から除外する）
	EditingCode string
}

// normalizeKey は全角英数を半角に畳んで前後空白を落とす．
// シリアルや管理コードは IME 経由で全角混入しがちなので比較前に必ず通す
func normalizeKey(s string) string {
	return strings.TrimSpace(width.Fold.String(s))
}

// ValidateItem はフィールド→メッセージの map を返す．
// エラーを投げず，途中で打ち切らずに全フィールドを検査する．
// ブロックするかどうかは呼び出し側の判断
func ValidateItem(f ItemForm, vctx ValidationContext) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(f.Brand) == "" {
		errs["brand"] = "brand is required"
	}

	if strings.TrimSpace(f.Category) == "" {
		errs["category"] = "category is required"
	} else if vctx.Category == nil || vctx.Category.IsDisabled {
		errs["category"] = "category is not configured: " + f.Category
	}

	// シリアル：カテゴリ設定で追跡対象なら必須＆一意（編集中の自分は除外）
	serial := normalizeKey(f.Serial)
	if vctx.Category != nil && vctx.Category.SerialTracked && serial == "" {
		errs["serial"] = "serial number is required for category " + vctx.Category.Name
	}
	if serial != "" {
		if owner, dup := vctx.ExistingSerials[serial]; dup && owner != vctx.EditingCode {
			errs["serial"] = "serial number already registered on " + owner
		}
	}

	// カテゴリ固有の必須スペック項目はすべて非空であること
	if vctx.Category != nil {
		for _, field := range vctx.Category.RequiredFields {
			if strings.TrimSpace(f.SpecFields[field]) == "" {
				errs["spec_fields."+field] = "required specification field is missing: " + field
			}
		}
	}

	// 管理コード：指定されていれば一意であること
	code := normalizeKey(f.Code)
	if code != "" && code != vctx.EditingCode && vctx.ExistingCodes[code] {
		errs["code"] = "item code already exists: " + code
	}

	return errs
}
