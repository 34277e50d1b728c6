package intake_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/Terry7788/caloric-intake-calculator/internal/intake"
	"github.com/Terry7788/caloric-intake-calculator/internal/model"
)

func TestLedgerConcurrentAddsKeepSums(t *testing.T) {
	t.Parallel()
	ledger := intake.NewLedger(intake.NewAggregator(fixedTarget(2000)))
	date := mustDay(t, "2024-05-01")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			meal := model.MealTypes[i%len(model.MealTypes)]
			if _, err := ledger.Add(date, meal, model.FoodEntry{Food: food("Snack", 10), Quantity: 1}); err != nil {
				t.Errorf("add %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	day, ok := ledger.Day(date)
	if !ok {
		t.Fatalf("expected day to exist")
	}
	if day.EntryCount() != 50 || day.TotalCalories() != 500 {
		t.Fatalf("expected 50 entries totalling 500, got %d entries totalling %v", day.EntryCount(), day.TotalCalories())
	}
	assertSums(t, &day)
}

func TestLedgerRemoveAndSnapshot(t *testing.T) {
	t.Parallel()
	ledger := intake.NewLedger(intake.NewAggregator(fixedTarget(1800)))
	d1 := mustDay(t, "2024-05-02")
	d2 := mustDay(t, "2024-05-01")

	day, err := ledger.Add(d1, model.MealLunch, model.FoodEntry{ID: "lunch-1", Food: food("Wrap", 450), Quantity: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if day.TargetCalories != 1800 {
		t.Fatalf("expected target 1800, got %d", day.TargetCalories)
	}
	ledger.Put(model.DailyEntry{Date: d2, TargetCalories: 2000})

	if _, err := ledger.Remove(d1, model.MealLunch, "missing"); !errors.Is(err, intake.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	day, err = ledger.Replace(d1, model.MealLunch, "lunch-1", model.FoodEntry{Food: food("Bowl", 600), Quantity: 1})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if day.TotalCalories() != 600 || day.Meal(model.MealLunch).Entries[0].ID != "lunch-1" {
		t.Fatalf("expected replaced entry under the same id, got %+v", day)
	}
	day, err = ledger.Remove(d1, model.MealLunch, "lunch-1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if day.TotalCalories() != 0 {
		t.Fatalf("expected empty day, got %v", day.TotalCalories())
	}

	snap := ledger.Snapshot()
	if len(snap) != 2 || snap[0].Date != d2 || snap[1].Date != d1 {
		t.Fatalf("expected snapshot ordered by date, got %+v", snap)
	}
	if _, ok := ledger.Day(mustDay(t, "2024-06-01")); ok {
		t.Fatalf("expected unknown day to be absent")
	}
}
