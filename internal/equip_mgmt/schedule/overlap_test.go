package schedule

import (
	"testing"
	"time"
)

func d(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return v
}

func TestDatesOverlap(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		expected                       bool
	}{
		{"disjoint before", "2026-03-01", "2026-03-05", "2026-03-06", "2026-03-10", false},
		{"disjoint after", "2026-03-06", "2026-03-10", "2026-03-01", "2026-03-05", false},
		{"shared boundary day", "2026-03-01", "2026-03-05", "2026-03-05", "2026-03-10", true},
		{"contained", "2026-03-02", "2026-03-04", "2026-03-01", "2026-03-10", true},
		{"containing", "2026-03-01", "2026-03-10", "2026-03-02", "2026-03-04", true},
		{"partial", "2026-03-01", "2026-03-07", "2026-03-05", "2026-03-12", true},
		{"identical", "2026-03-01", "2026-03-05", "2026-03-01", "2026-03-05", true},
		{"single day vs single day same", "2026-03-03", "2026-03-03", "2026-03-03", "2026-03-03", true},
		{"single day vs single day different", "2026-03-03", "2026-03-03", "2026-03-04", "2026-03-04", false},
	}

	for _, tt := range tests {
		got := datesOverlap(d(t, tt.aStart), d(t, tt.aEnd), d(t, tt.bStart), d(t, tt.bEnd))
		if got != tt.expected {
			t.Errorf("%s: datesOverlap = %v, want %v", tt.name, got, tt.expected)
		}
		// Overlap must be symmetric in its two intervals.
		rev := datesOverlap(d(t, tt.bStart), d(t, tt.bEnd), d(t, tt.aStart), d(t, tt.aEnd))
		if rev != got {
			t.Errorf("%s: datesOverlap not symmetric: %v vs %v", tt.name, got, rev)
		}
	}
}

func TestOverlappingReservations(t *testing.T) {
	existing := []Reservation{
		{ULID: "01A", Start: d(t, "2026-03-01"), End: d(t, "2026-03-05")},
		{ULID: "01B", Start: d(t, "2026-03-10"), End: d(t, "2026-03-12")},
		{ULID: "01C", Start: d(t, "2026-03-04"), End: d(t, "2026-03-11")},
	}

	got := OverlappingReservations(d(t, "2026-03-05"), d(t, "2026-03-10"), existing, "")
	if len(got) != 3 {
		t.Fatalf("expected all 3 reservations to overlap, got %d", len(got))
	}
	// Input order is preserved.
	if got[0].ULID != "01A" || got[1].ULID != "01B" || got[2].ULID != "01C" {
		t.Errorf("overlaps out of input order: %v, %v, %v", got[0].ULID, got[1].ULID, got[2].ULID)
	}

	got = OverlappingReservations(d(t, "2026-03-06"), d(t, "2026-03-09"), existing, "")
	if len(got) != 1 || got[0].ULID != "01C" {
		t.Errorf("expected only 01C, got %v", got)
	}

	got = OverlappingReservations(d(t, "2026-03-20"), d(t, "2026-03-25"), existing, "")
	if len(got) != 0 {
		t.Errorf("expected no overlaps, got %v", got)
	}
}

func TestOverlappingReservationsExcludesEditedReservation(t *testing.T) {
	existing := []Reservation{
		{ULID: "01A", Start: d(t, "2026-03-01"), End: d(t, "2026-03-05")},
		{ULID: "01B", Start: d(t, "2026-03-03"), End: d(t, "2026-03-08")},
	}

	// Editing 01A: its own stored window must not count as a conflict.
	got := OverlappingReservations(d(t, "2026-03-01"), d(t, "2026-03-05"), existing, "01A")
	if len(got) != 1 || got[0].ULID != "01B" {
		t.Errorf("expected only 01B after excluding 01A, got %v", got)
	}
}

func TestCheckoutConflict(t *testing.T) {
	due := d(t, "2026-03-10")

	tests := []struct {
		name       string
		checkout   *ActiveCheckout
		start, end string
		conflict   bool
	}{
		{"no active checkout", nil, "2026-03-01", "2026-03-05", false},
		{"bounded, overlapping", &ActiveCheckout{CheckedOutOn: d(t, "2026-03-05"), DueOn: &due}, "2026-03-08", "2026-03-15", true},
		{"bounded, candidate after due", &ActiveCheckout{CheckedOutOn: d(t, "2026-03-05"), DueOn: &due}, "2026-03-11", "2026-03-15", false},
		{"bounded, candidate ends on due day", &ActiveCheckout{CheckedOutOn: d(t, "2026-03-05"), DueOn: &due}, "2026-03-10", "2026-03-15", true},
		{"open ended, candidate after checkout", &ActiveCheckout{CheckedOutOn: d(t, "2026-03-05")}, "2026-03-20", "2026-03-25", true},
		{"open ended, candidate entirely before checkout", &ActiveCheckout{CheckedOutOn: d(t, "2026-03-05")}, "2026-03-01", "2026-03-04", false},
		{"open ended, candidate ends on checkout day", &ActiveCheckout{CheckedOutOn: d(t, "2026-03-05")}, "2026-03-01", "2026-03-05", true},
	}

	for _, tt := range tests {
		it := Item{Code: "CA1001", Checkout: tt.checkout}
		got := CheckoutConflict(it, d(t, tt.start), d(t, tt.end))
		if (got != nil) != tt.conflict {
			t.Errorf("%s: CheckoutConflict = %v, want conflict=%v", tt.name, got, tt.conflict)
		}
		if got != nil && tt.checkout.DueOn == nil && got.DueOn != nil {
			t.Errorf("%s: open-ended conflict must not report a due date", tt.name)
		}
	}
}
