package service_test

import (
	"testing"

	"github.com/Terry7788/caloric-intake-calculator/internal/intake"
	"github.com/Terry7788/caloric-intake-calculator/internal/model"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

func TestHistoryFillsMissingDaysFromProfile(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()
	seedProfile(t, db, "2026-01-02", "maintain")

	if _, err := service.LogFood(db, service.LogFoodInput{
		Date:     "2026-01-03",
		Meal:     "dinner",
		Food:     &model.FoodItem{Name: "Feast", CaloriesPerServing: 3000},
		Quantity: 1,
	}); err != nil {
		t.Fatalf("log: %v", err)
	}

	w, err := intake.LastDays(model.Day{Year: 2026, Month: 1, Dom: 4}, 4)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	report, err := service.History(db, w)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	want := []model.DaySummary{
		{Date: model.Day{Year: 2026, Month: 1, Dom: 1}, Consumed: 0, Target: 0, Remaining: 0},
		{Date: model.Day{Year: 2026, Month: 1, Dom: 2}, Consumed: 0, Target: 2635, Remaining: 2635},
		{Date: model.Day{Year: 2026, Month: 1, Dom: 3}, Consumed: 3000, Target: 2635, Remaining: 0},
		{Date: model.Day{Year: 2026, Month: 1, Dom: 4}, Consumed: 0, Target: 2635, Remaining: 2635},
	}
	if len(report.Days) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(report.Days))
	}
	for i := range want {
		if report.Days[i] != want[i] {
			t.Fatalf("day %d: expected %+v, got %+v", i, want[i], report.Days[i])
		}
	}
	if report.Totals.DaysOverTarget != 1 || report.Totals.DaysLogged != 1 || report.Totals.Consumed != 3000 {
		t.Fatalf("unexpected totals: %+v", report.Totals)
	}
	if report.From != "2026-01-01" || report.To != "2026-01-04" {
		t.Fatalf("unexpected bounds %s..%s", report.From, report.To)
	}
}

func TestDayStatus(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	empty, err := service.DayStatusFor(db, model.Day{Year: 2026, Month: 1, Dom: 1})
	if err != nil {
		t.Fatalf("status without profile: %v", err)
	}
	if empty.HasProfile || empty.Logged || empty.Target != 0 || empty.Remaining != 0 {
		t.Fatalf("unexpected empty status: %+v", empty)
	}

	seedProfile(t, db, "2026-01-01", "maintain")
	date := model.Day{Year: 2026, Month: 1, Dom: 2}
	planned, err := service.DayStatusFor(db, date)
	if err != nil {
		t.Fatalf("status before logging: %v", err)
	}
	if planned.Logged || planned.Target != 2635 || planned.Remaining != 2635 {
		t.Fatalf("unexpected planned status: %+v", planned)
	}
	if planned.Recommended.ProteinG != 165 || planned.Recommended.CarbsG != 296 || planned.Recommended.FatG != 88 {
		t.Fatalf("unexpected recommended macros: %+v", planned.Recommended)
	}

	if _, err := service.LogFood(db, service.LogFoodInput{
		Date:     date.String(),
		Meal:     "lunch",
		Food:     &model.FoodItem{Name: "Chicken", CaloriesPerServing: 165, ProteinG: ptr(31)},
		Quantity: 2,
	}); err != nil {
		t.Fatalf("log: %v", err)
	}
	status, err := service.DayStatusFor(db, date)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Logged || status.Consumed != 330 || status.Remaining != 2305 {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.Macros.ProteinG != 62 || status.RemainingMacros.ProteinG != 103 {
		t.Fatalf("unexpected protein figures: %+v / %+v", status.Macros, status.RemainingMacros)
	}
	if len(status.Meals) != 1 || status.Meals[0].Type != model.MealLunch || status.Meals[0].Calories != 330 {
		t.Fatalf("unexpected meals: %+v", status.Meals)
	}
}
