package checkouts

import "time"

// ===== Requests =====

type CreateCheckoutRequest struct {
	ItemCode string  `json:"item_code" binding:"required"`
	Borrower string  `json:"borrower" binding:"required"`
	ClientID *int64  `json:"client_id,omitempty"`
	Phone    *string `json:"contact_phone,omitempty"`
	Email    *string `json:"contact_email,omitempty"`
	// "2006-01-02" 形式（DATE）．省略可＝返却予定なし
	DueOn     *string `json:"due_on,omitempty"`
	Condition *string `json:"condition,omitempty"` // 貸出時の状態記録
	Note      *string `json:"note,omitempty"`
}

type CheckInRequest struct {
	ItemCode       string  `json:"item_code" binding:"required"`
	Condition      *string `json:"condition,omitempty"` // 返却時の状態記録
	DamageReported bool    `json:"damage_reported"`
	DamageNote     *string `json:"damage_note,omitempty"`
	ProcessedBy    *string `json:"processed_by,omitempty"`
}

// ===== Responses =====

type CheckoutResponse struct {
	CheckoutID   int64      `json:"checkout_id"`
	CheckoutULID string     `json:"checkout_ulid"`
	ItemCode     string     `json:"item_code"`
	Borrower     string     `json:"borrower"`
	ClientID     *int64     `json:"client_id,omitempty"`
	Phone        *string    `json:"contact_phone,omitempty"`
	Email        *string    `json:"contact_email,omitempty"`
	DueOn        *string    `json:"due_on,omitempty"`
	Condition    *string    `json:"condition,omitempty"`
	CheckedOutOn string     `json:"checked_out_on"`
	Note         *string    `json:"note,omitempty"`
	Returned     bool       `json:"returned"`
}

type ReturnResponse struct {
	ReturnID       int64     `json:"return_id"`
	ReturnULID     string    `json:"return_ulid"`
	CheckoutULID   string    `json:"checkout_ulid"`
	ItemCode       string    `json:"item_code"`
	Condition      *string   `json:"condition,omitempty"`
	DamageReported bool      `json:"damage_reported"`
	DamageNote     *string   `json:"damage_note,omitempty"`
	ProcessedBy    *string   `json:"processed_by,omitempty"`
	ReturnedAt     time.Time `json:"returned_at"`
}

// ===== Listing helpers =====

type Page struct {
	Limit  int
	Offset int
	Order  string // "asc" or "desc"
}
