package clients

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

type CreateClientRequest struct {
	Name         string  `json:"name" binding:"required"`
	Organization *string `json:"organization,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty"`
	Note         *string `json:"note,omitempty"`
}

// 予約・貸出フォームの連絡先オートフィルに使う読み取り専用データ．
// 衝突判定には一切関与しない
type ClientResponse struct {
	ClientID     int64     `json:"client_id"`
	Name         string    `json:"name"`
	Organization *string   `json:"organization,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Note         *string   `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListQuery struct {
	Name   *string // 部分一致
	Limit  int
	Offset int
}
