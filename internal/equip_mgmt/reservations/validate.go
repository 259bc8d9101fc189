package reservations

import (
	"regexp"
	"strings"

	"KIZAI-backend/internal/equip_mgmt/schedule"
)

// ===== 予約バリデーション =====

// 厳密な RFC 検証ではなく「メールの形をしているか」だけ見る
var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ReservationForm はバリデーション対象のフォーム値
type ReservationForm struct {
	ItemCodes   []string
	StartOn     string
	EndOn       string
	RequestedBy string
	Project     string
	Email       string
}

// ValidateReservation はフィールド→メッセージの map を返す．
// 途中で打ち切らず全フィールドを検査する．エラーは投げない
func ValidateReservation(f ReservationForm) map[string]string {
	errs := map[string]string{}

	if len(f.ItemCodes) == 0 {
		errs["item_codes"] = "at least one target item is required"
	}
	if strings.TrimSpace(f.Project) == "" {
		errs["project"] = "project name is required"
	}
	if strings.TrimSpace(f.RequestedBy) == "" {
		errs["requested_by"] = "requester name is required"
	}

	start, startErr := schedule.ParseDate(f.StartOn)
	if f.StartOn == "" {
		errs["start_on"] = "start date is required"
	} else if startErr != nil {
		errs["start_on"] = "invalid date format, expected YYYY-MM-DD"
	}
	end, endErr := schedule.ParseDate(f.EndOn)
	if f.EndOn == "" {
		errs["end_on"] = "end date is required"
	} else if endErr != nil {
		errs["end_on"] = "invalid date format, expected YYYY-MM-DD"
	}
	if startErr == nil && endErr == nil && f.StartOn != "" && f.EndOn != "" && start.After(end) {
		errs["end_on"] = "end date must not be before start date"
	}

	if email := strings.TrimSpace(f.Email); email != "" && !emailShape.MatchString(email) {
		errs["contact_email"] = "contact email does not look like an email address"
	}

	return errs
}
