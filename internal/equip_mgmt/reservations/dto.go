package reservations

import "time"

// ===== Requests =====

type CreateReservationRequest struct {
	ItemCodes   []string `json:"item_codes" binding:"required"`
	StartOn     string   `json:"start_on" binding:"required"` // "2006-01-02"
	EndOn       string   `json:"end_on" binding:"required"`
	RequestedBy string   `json:"requested_by" binding:"required"`
	ClientID    *int64   `json:"client_id,omitempty"`
	Phone       *string  `json:"contact_phone,omitempty"`
	Email       *string  `json:"contact_email,omitempty"`
	Project     string   `json:"project" binding:"required"`
	ProjectType *string  `json:"project_type,omitempty"`
	Location    *string  `json:"location,omitempty"`
	// 衝突レポートを承知の上で保存を強行する明示フラグ
	Acknowledged bool `json:"acknowledged"`
	// キット構成品も衝突判定に含めるか
	ExpandKits bool `json:"expand_kits"`
}

// 編集はフォーム全体の置換（衝突判定は自分自身を除外して再実行される）
type UpdateReservationRequest = CreateReservationRequest

type EvaluateRequest struct {
	ItemCodes              []string `json:"item_codes" binding:"required"`
	StartOn                string   `json:"start_on" binding:"required"`
	EndOn                  string   `json:"end_on" binding:"required"`
	ExcludeReservationULID string   `json:"exclude_reservation_ulid,omitempty"`
	ExpandKits             bool     `json:"expand_kits"`
}

// ===== Responses =====

type ReservationResponse struct {
	ReservationID   int64     `json:"reservation_id"`
	ReservationULID string    `json:"reservation_ulid"`
	ItemCodes       []string  `json:"item_codes"`
	StartOn         string    `json:"start_on"`
	EndOn           string    `json:"end_on"`
	RequestedBy     string    `json:"requested_by"`
	ClientID        *int64    `json:"client_id,omitempty"`
	Phone           *string   `json:"contact_phone,omitempty"`
	Email           *string   `json:"contact_email,omitempty"`
	Project         string    `json:"project"`
	ProjectType     *string   `json:"project_type,omitempty"`
	Location        *string   `json:"location,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ===== Listing helpers =====

type Page struct {
	Limit  int
	Offset int
	Order  string // "asc" or "desc"
}
