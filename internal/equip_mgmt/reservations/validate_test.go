package reservations

import "testing"

func validForm() ReservationForm {
	return ReservationForm{
		ItemCodes:   []string{"CA1001"},
		StartOn:     "2026-04-01",
		EndOn:       "2026-04-05",
		RequestedBy: "tanaka",
		Project:     "spring shoot",
		Email:       "tanaka@example.com",
	}
}

func TestValidateReservationCleanForm(t *testing.T) {
	if errs := ValidateReservation(validForm()); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateReservationCollectsAllErrors(t *testing.T) {
	errs := ValidateReservation(ReservationForm{})
	for _, field := range []string{"item_codes", "project", "requested_by", "start_on", "end_on"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %q, got %v", field, errs)
		}
	}
}

func TestValidateReservationDates(t *testing.T) {
	tests := []struct {
		name     string
		startOn  string
		endOn    string
		badField string // empty means valid
	}{
		{"same day window", "2026-04-01", "2026-04-01", ""},
		{"end before start", "2026-04-05", "2026-04-01", "end_on"},
		{"malformed start", "04/01/2026", "2026-04-05", "start_on"},
		{"malformed end", "2026-04-01", "tomorrow", "end_on"},
	}

	for _, tt := range tests {
		f := validForm()
		f.StartOn = tt.startOn
		f.EndOn = tt.endOn
		errs := ValidateReservation(f)
		if tt.badField == "" {
			if len(errs) != 0 {
				t.Errorf("%s: expected no errors, got %v", tt.name, errs)
			}
			continue
		}
		if _, ok := errs[tt.badField]; !ok {
			t.Errorf("%s: expected error for %q, got %v", tt.name, tt.badField, errs)
		}
	}
}

func TestValidateReservationEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"", false}, // optional
		{"tanaka@example.com", false},
		{"not-an-email", true},
		{"two@at@signs.com", true},
		{"no-domain@", true},
		{"@no-local.com", true},
	}

	for _, tt := range tests {
		f := validForm()
		f.Email = tt.email
		errs := ValidateReservation(f)
		_, got := errs["contact_email"]
		if got != tt.wantErr {
			t.Errorf("email %q: error = %v, want %v", tt.email, got, tt.wantErr)
		}
	}
}
