package schedule

import (
	"sort"
	"testing"
)

func snapshotForEvaluate(t *testing.T) map[string]Item {
	t.Helper()
	return map[string]Item{
		"CA1001": {
			Code: "CA1001",
			Reservations: []Reservation{
				{ULID: "01A", Start: d(t, "2026-04-01"), End: d(t, "2026-04-05")},
			},
		},
		"CA1002": {
			Code: "CA1002",
		},
		"LE1001": {
			Code:     "LE1001",
			Checkout: &ActiveCheckout{Borrower: "tanaka", CheckedOutOn: d(t, "2026-04-02")},
		},
	}
}

func TestEvaluateIndependentPerItem(t *testing.T) {
	snap := snapshotForEvaluate(t)

	rep := Evaluate(snap, []string{"CA1001", "CA1002", "LE1001"},
		d(t, "2026-04-03"), d(t, "2026-04-07"), EvaluateOptions{})

	if !rep.HasConflicts {
		t.Fatal("expected overall HasConflicts = true")
	}
	if len(rep.Missing) != 0 {
		t.Fatalf("unexpected missing codes: %v", rep.Missing)
	}

	if ir := rep.Items["CA1001"]; !ir.HasConflicts || len(ir.ReservationConflicts) != 1 {
		t.Errorf("CA1001: want one reservation conflict, got %+v", ir)
	}
	// A conflict on one item must not taint a clean one.
	if ir := rep.Items["CA1002"]; ir.HasConflicts {
		t.Errorf("CA1002: expected no conflicts, got %+v", ir)
	}
	if ir := rep.Items["LE1001"]; ir.CheckoutConflict == nil || ir.CheckoutConflict.Borrower != "tanaka" {
		t.Errorf("LE1001: want checkout conflict with borrower, got %+v", ir)
	}
}

func TestEvaluateReportsMissingCodes(t *testing.T) {
	snap := snapshotForEvaluate(t)

	rep := Evaluate(snap, []string{"CA1002", "GONE1", "GONE2"},
		d(t, "2026-04-01"), d(t, "2026-04-02"), EvaluateOptions{})

	sort.Strings(rep.Missing)
	if len(rep.Missing) != 2 || rep.Missing[0] != "GONE1" || rep.Missing[1] != "GONE2" {
		t.Errorf("missing = %v, want [GONE1 GONE2]", rep.Missing)
	}
	// Missing codes are reported, not treated as conflicts.
	if rep.HasConflicts {
		t.Error("missing codes alone must not set HasConflicts")
	}
	if _, ok := rep.Items["GONE1"]; ok {
		t.Error("missing code must not appear in per-item reports")
	}
}

func TestEvaluateExcludesEditedReservation(t *testing.T) {
	snap := snapshotForEvaluate(t)

	rep := Evaluate(snap, []string{"CA1001"},
		d(t, "2026-04-01"), d(t, "2026-04-05"),
		EvaluateOptions{ExcludeReservationULID: "01A"})

	if rep.HasConflicts {
		t.Errorf("editing reservation 01A must not conflict with itself: %+v", rep.Items["CA1001"])
	}
}

func TestEvaluateExpandsKitContents(t *testing.T) {
	snap := map[string]Item{
		"KT1001": {Code: "KT1001", Contents: []string{"CA1001", "KT1002"}},
		"KT1002": {Code: "KT1002", Contents: []string{"MI1001", "KT1001"}}, // cycle back to KT1001
		"CA1001": {Code: "CA1001"},
		"MI1001": {
			Code: "MI1001",
			Reservations: []Reservation{
				{ULID: "01Z", Start: d(t, "2026-05-01"), End: d(t, "2026-05-03")},
			},
		},
	}

	rep := Evaluate(snap, []string{"KT1001"},
		d(t, "2026-05-02"), d(t, "2026-05-04"), EvaluateOptions{ExpandKits: true})

	if len(rep.Items) != 4 {
		t.Fatalf("expected kit expansion to cover 4 items, got %d: %v", len(rep.Items), rep.Items)
	}
	if ir := rep.Items["MI1001"]; !ir.HasConflicts {
		t.Error("nested kit member MI1001 should report its reservation conflict")
	}

	// Without expansion only the kit itself is evaluated.
	rep = Evaluate(snap, []string{"KT1001"},
		d(t, "2026-05-02"), d(t, "2026-05-04"), EvaluateOptions{})
	if len(rep.Items) != 1 {
		t.Errorf("expected 1 item without expansion, got %d", len(rep.Items))
	}
}
