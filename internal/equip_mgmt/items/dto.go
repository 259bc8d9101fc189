package items

import "time"

// ===== Requests =====

type CreateItemRequest struct {
	// 省略時はカテゴリから自動採番
	Code          *string           `json:"code,omitempty"`
	Name          string            `json:"name" binding:"required"`
	Brand         string            `json:"brand" binding:"required"`
	Category      string            `json:"category" binding:"required"`
	Serial        *string           `json:"serial,omitempty"`
	Condition     *string           `json:"condition,omitempty"`
	Location      *string           `json:"location,omitempty"`
	SpecFields    map[string]string `json:"spec_fields,omitempty"`
	Contents      []string          `json:"contents,omitempty"` // キット構成品の code
	PurchasedAt   *time.Time        `json:"purchased_at,omitempty"`
	PurchasePrice *int64            `json:"purchase_price,omitempty"`
}

type UpdateItemRequest struct {
	Name          *string           `json:"name,omitempty"`
	Brand         *string           `json:"brand,omitempty"`
	Category      *string           `json:"category,omitempty"`
	Serial        *string           `json:"serial,omitempty"`
	Condition     *string           `json:"condition,omitempty"`
	Location      *string           `json:"location,omitempty"`
	SpecFields    map[string]string `json:"spec_fields,omitempty"`
	Contents      []string          `json:"contents,omitempty"`
	PurchasedAt   *time.Time        `json:"purchased_at,omitempty"`
	PurchasePrice *int64            `json:"purchase_price,omitempty"`
}

type BulkStatusRequest struct {
	Codes     []string `json:"codes" binding:"required"`
	NewStatus string   `json:"new_status" binding:"required"`
}

// ===== Responses =====

type ItemResponse struct {
	ItemID        uint64            `json:"item_id"`
	Code          string            `json:"code"`
	Name          string            `json:"name"`
	Brand         string            `json:"brand"`
	Category      string            `json:"category"`
	Status        string            `json:"status"`
	Condition     *string           `json:"condition,omitempty"`
	Location      *string           `json:"location,omitempty"`
	Serial        *string           `json:"serial,omitempty"`
	SpecFields    map[string]string `json:"spec_fields,omitempty"`
	Contents      []string          `json:"contents,omitempty"`
	DamageNote    *string           `json:"damage_note,omitempty"`
	PurchasedAt   *time.Time        `json:"purchased_at,omitempty"`
	PurchasePrice *int64            `json:"purchase_price,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

type BulkStatusResponse struct {
	Updated  int           `json:"updated"`
	Warnings []BulkWarning `json:"warnings,omitempty"`
}

// 貸出クローズを踏まずに checked_out から離脱した場合などの警告
type BulkWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ===== Listing helpers =====

type Page struct {
	Limit  int
	Offset int
	Order  string // "asc" or "desc"
}

type ItemSearchQuery struct {
	Category *string
	Status   *string
	Location *string
	Name     *string // 部分一致
}
