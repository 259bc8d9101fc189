package status

import "testing"

func TestParse(t *testing.T) {
	for _, s := range []string{"available", "reserved", "checked_out", "needs_attention", "missing"} {
		if _, err := Parse(s); err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", s, err)
		}
	}
	for _, s := range []string{"", "AVAILABLE", "lost", "checkedout"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) expected error", s)
		}
	}
}

func TestCanCheckout(t *testing.T) {
	tests := []struct {
		current Status
		reason  Reason // empty means allowed
	}{
		{Available, ""},
		{CheckedOut, ReasonAlreadyCheckedOut},
		{Reserved, ReasonNotAvailable},
		{NeedsAttention, ReasonNotAvailable},
		{Missing, ReasonNotAvailable},
	}

	for _, tt := range tests {
		err := CanCheckout(tt.current)
		if tt.reason == "" {
			if err != nil {
				t.Errorf("CanCheckout(%s) = %v, want nil", tt.current, err)
			}
			continue
		}
		if err == nil || err.Reason != tt.reason {
			t.Errorf("CanCheckout(%s) = %v, want reason %s", tt.current, err, tt.reason)
		}
	}
}

func TestCanCheckIn(t *testing.T) {
	if err := CanCheckIn(CheckedOut); err != nil {
		t.Errorf("CanCheckIn(checked_out) = %v, want nil", err)
	}
	for _, s := range []Status{Available, Reserved, NeedsAttention, Missing} {
		err := CanCheckIn(s)
		if err == nil || err.Reason != ReasonNotCheckedOut {
			t.Errorf("CanCheckIn(%s) = %v, want NOT_CHECKED_OUT", s, err)
		}
	}
}

func TestCanReserve(t *testing.T) {
	for _, s := range []Status{Available, Reserved} {
		if err := CanReserve(s); err != nil {
			t.Errorf("CanReserve(%s) = %v, want nil", s, err)
		}
	}
	for _, s := range []Status{CheckedOut, NeedsAttention, Missing} {
		if err := CanReserve(s); err == nil {
			t.Errorf("CanReserve(%s) = nil, want error", s)
		}
	}
}

func TestBulkTarget(t *testing.T) {
	// Only manually settable statuses are valid targets.
	for _, next := range []Status{Reserved, CheckedOut} {
		if _, err := BulkTarget(Available, next); err == nil {
			t.Errorf("BulkTarget(available, %s) = nil, want error", next)
		}
	}

	// Normal moves produce no warning.
	warning, err := BulkTarget(Available, NeedsAttention)
	if err != nil || warning != "" {
		t.Errorf("BulkTarget(available, needs_attention) = (%q, %v), want clean", warning, err)
	}

	// Forcing an item out of checked_out succeeds but warns about the
	// checkout record left open.
	warning, err = BulkTarget(CheckedOut, Missing)
	if err != nil {
		t.Fatalf("BulkTarget(checked_out, missing) = %v, want nil", err)
	}
	if warning == "" {
		t.Error("BulkTarget(checked_out, missing) should return a warning")
	}
}

func TestDeleteGuard(t *testing.T) {
	tests := []struct {
		name             string
		reservationCount int
		hasCheckout      bool
		confirmed        bool
		blocked          bool
	}{
		{"clean item", 0, false, false, false},
		{"reservations, unconfirmed", 2, false, false, true},
		{"checkout, unconfirmed", 0, true, false, true},
		{"reservations, confirmed", 2, false, true, false},
		{"checkout, confirmed", 0, true, true, false},
	}

	for _, tt := range tests {
		err := DeleteGuard(tt.reservationCount, tt.hasCheckout, tt.confirmed)
		if (err != nil) != tt.blocked {
			t.Errorf("%s: DeleteGuard = %v, want blocked=%v", tt.name, err, tt.blocked)
		}
		if err != nil {
			if err.Reason != ReasonHasActiveCommitments {
				t.Errorf("%s: reason = %s, want HAS_ACTIVE_COMMITMENTS", tt.name, err.Reason)
			}
			if err.ReservationCount != tt.reservationCount || err.HasCheckout != tt.hasCheckout {
				t.Errorf("%s: guard must carry counts for the confirmation dialog: %+v", tt.name, err)
			}
		}
	}
}
