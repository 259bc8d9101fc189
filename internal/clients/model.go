package clients

import (
	"database/sql"
	"time"
)

// DB行に対応（スキャン用）
type clientRow struct {
	ClientID     int64
	Name         string
	Organization sql.NullString
	Phone        sql.NullString
	Email        sql.NullString
	Note         sql.NullString
	CreatedAt    time.Time
}

func (r clientRow) toDTO() ClientResponse {
	out := ClientResponse{
		ClientID:  r.ClientID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
	}
	if r.Organization.Valid {
		v := r.Organization.String
		out.Organization = &v
	}
	if r.Phone.Valid {
		v := r.Phone.String
		out.Phone = &v
	}
	if r.Email.Valid {
		v := r.Email.String
		out.Email = &v
	}
	if r.Note.Valid {
		v := r.Note.String
		out.Note = &v
	}
	return out
}
