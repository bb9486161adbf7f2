package store

import (
	"testing"
	"time"

	"waitly/waitlist-service/internal/models"
)

func TestOrderWaitingByCreationTime(t *testing.T) {
	base := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	entries := []models.Entry{
		{EntryID: "c", CreatedAt: base.Add(2 * time.Minute)},
		{EntryID: "a", CreatedAt: base},
		{EntryID: "b", CreatedAt: base.Add(time.Minute)},
	}

	OrderWaiting(entries)

	want := []string{"a", "b", "c"}
	for i, id := range want {
		if entries[i].EntryID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, entries[i].EntryID)
		}
	}
}

func TestOrderWaitingBreaksTiesByID(t *testing.T) {
	base := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	entries := []models.Entry{
		{EntryID: "b", CreatedAt: base},
		{EntryID: "a", CreatedAt: base},
	}

	OrderWaiting(entries)

	if entries[0].EntryID != "a" || entries[1].EntryID != "b" {
		t.Fatalf("tie not broken by entry ID: %s, %s", entries[0].EntryID, entries[1].EntryID)
	}
}

func TestAssignPositions(t *testing.T) {
	entries := []models.Entry{{EntryID: "a"}, {EntryID: "b"}, {EntryID: "c"}}

	AssignPositions(entries, 5)

	for i, want := range []int{5, 6, 7} {
		if entries[i].Position != want {
			t.Fatalf("entry %d: expected position %d, got %d", i, want, entries[i].Position)
		}
	}
}

func TestAssignPositionsDefaultsToOne(t *testing.T) {
	entries := []models.Entry{{EntryID: "a"}, {EntryID: "b"}}

	AssignPositions(entries, 0)

	if entries[0].Position != 1 || entries[1].Position != 2 {
		t.Fatalf("expected positions 1 and 2, got %d and %d", entries[0].Position, entries[1].Position)
	}
}

func TestConsumptionTotal(t *testing.T) {
	cases := []struct {
		name     string
		prices   []float64
		subtotal float64
		total    float64
	}{
		{"empty", nil, 0, 0},
		{"single", []float64{10}, 10, 11.2},
		{"pair", []float64{10, 5.5}, 15.5, 17.36},
		{"rounding", []float64{0.1, 0.1, 0.1}, 0.3, 0.34},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var charges []models.DrinkCharge
			for _, price := range tc.prices {
				charges = append(charges, models.DrinkCharge{Price: price})
			}
			subtotal, total := ConsumptionTotal(charges)
			if subtotal != tc.subtotal {
				t.Fatalf("subtotal: expected %v, got %v", tc.subtotal, subtotal)
			}
			if total != tc.total {
				t.Fatalf("total: expected %v, got %v", tc.total, total)
			}
		})
	}
}
