package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/mmynk/debtbook/internal/models"
)

func TestConcentration(t *testing.T) {
	rate := d("4100")
	debts := []DebtForAnalysis{
		{Person: "Alice", PersonKey: "alice", Type: models.Lent, Currency: models.USD, Remaining: d("5")},
		{Person: "Alice", PersonKey: "alice", Type: models.Lent, Currency: models.USD, Remaining: d("7")},
		{Person: "Bob", PersonKey: "bob", Type: models.Lent, Currency: models.KHR, Remaining: d("82000")},
		{Person: "Alice", PersonKey: "alice", Type: models.Borrowed, Currency: models.USD, Remaining: d("1")},
	}

	got := Concentration(debts, rate)
	if len(got) != 3 {
		t.Fatalf("expected 3 groups, got %d: %+v", len(got), got)
	}

	// Bob: 82000 KHR = 20 USD, Alice lent: 12, Alice borrowed: 1
	if got[0].Person != "Bob" || !got[0].Total.Equal(d("20")) {
		t.Errorf("first entry = %+v, want Bob 20", got[0])
	}
	if got[1].Person != "Alice" || got[1].Type != models.Lent || !got[1].Total.Equal(d("12")) {
		t.Errorf("second entry = %+v, want Alice lent 12", got[1])
	}
	if got[2].Type != models.Borrowed || !got[2].Total.Equal(d("1")) {
		t.Errorf("third entry = %+v, want Alice borrowed 1", got[2])
	}
}

func TestAging(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	debts := []DebtForAnalysis{
		{Person: "Alice", PersonKey: "alice", CreatedAt: now.AddDate(0, 0, -10)},
		{Person: "Alice", PersonKey: "alice", CreatedAt: now.AddDate(0, 0, -20)},
		{Person: "Bob", PersonKey: "bob", CreatedAt: now.AddDate(0, 0, -30)},
	}

	got := Aging(debts, now)
	if len(got) != 2 {
		t.Fatalf("expected 2 people, got %d", len(got))
	}
	if got[0].Person != "Bob" || math.Abs(got[0].AverageAgeDays-30) > 0.01 || got[0].Count != 1 {
		t.Errorf("first entry = %+v, want Bob 30 days x1", got[0])
	}
	if got[1].Person != "Alice" || math.Abs(got[1].AverageAgeDays-15) > 0.01 || got[1].Count != 2 {
		t.Errorf("second entry = %+v, want Alice 15 days x2", got[1])
	}
}

func TestComputeOverview(t *testing.T) {
	debts := []DebtForAnalysis{
		{Type: models.Lent, Currency: models.USD, Remaining: d("10")},
		{Type: models.Lent, Currency: models.KHR, Remaining: d("41000")},
		{Type: models.Borrowed, Currency: models.KHR, Remaining: d("8200")},
	}

	o := ComputeOverview(debts, d("4100"))
	if !o.TotalLentUSD.Equal(d("20")) {
		t.Errorf("TotalLentUSD = %s, want 20", o.TotalLentUSD)
	}
	if !o.TotalBorrowedUSD.Equal(d("2")) {
		t.Errorf("TotalBorrowedUSD = %s, want 2", o.TotalBorrowedUSD)
	}
}

func TestGroupDebts(t *testing.T) {
	debts := []DebtForAnalysis{
		{Person: "Bob", PersonKey: "bob", Type: models.Lent, Currency: models.USD, Original: d("10"), Remaining: d("4")},
		{Person: "Alice", PersonKey: "alice", Type: models.Lent, Currency: models.USD, Original: d("5"), Remaining: d("5")},
		{Person: "Bob", PersonKey: "bob", Type: models.Lent, Currency: models.USD, Original: d("20"), Remaining: d("20")},
		{Person: "Bob", PersonKey: "bob", Type: models.Lent, Currency: models.KHR, Original: d("4100"), Remaining: d("4100")},
	}

	got := GroupDebts(debts)
	if len(got) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(got))
	}
	if got[0].Person != "Alice" {
		t.Errorf("groups should be ordered by person, got %s first", got[0].Person)
	}
	bobUSD := got[2]
	if bobUSD.Currency != models.USD || bobUSD.Count != 2 {
		t.Fatalf("unexpected Bob USD group: %+v", bobUSD)
	}
	if !bobUSD.TotalOriginal.Equal(d("30")) || !bobUSD.TotalRemaining.Equal(d("24")) {
		t.Errorf("Bob USD totals = %s/%s, want 30/24", bobUSD.TotalOriginal, bobUSD.TotalRemaining)
	}
}
