package service

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/Terry7788/caloric-intake-calculator/internal/energy"
	"github.com/Terry7788/caloric-intake-calculator/internal/intake"
	"github.com/Terry7788/caloric-intake-calculator/internal/model"
)

type HistoryReport struct {
	From   string             `json:"from"`
	To     string             `json:"to"`
	Days   []model.DaySummary `json:"days"`
	Totals intake.RangeTotals `json:"totals"`
}

// History summarizes every day in w. Days with nothing logged are reported
// against the target of the profile in effect on that date, or 0 without one.
func History(db *sql.DB, w intake.Window) (HistoryReport, error) {
	days, err := LoadDays(db, w)
	if err != nil {
		return HistoryReport{}, err
	}
	summaries, err := intake.SummarizeRange(days, w, targetOrZero(db))
	if err != nil {
		return HistoryReport{}, fmt.Errorf("summarize history: %w", err)
	}
	return HistoryReport{
		From:   w.From.String(),
		To:     w.To.String(),
		Days:   summaries,
		Totals: intake.Totals(summaries),
	}, nil
}

type MealStatus struct {
	Type     model.MealType `json:"type"`
	Calories int            `json:"calories"`
	Entries  int            `json:"entries"`
}

type DayStatus struct {
	Date            string             `json:"date"`
	Consumed        int                `json:"consumed"`
	Macros          model.MacroTotals  `json:"macros"`
	Target          int                `json:"target"`
	Remaining       int                `json:"remaining"`
	Recommended     model.MacroTargets `json:"recommended_intake"`
	RemainingMacros model.MacroTotals  `json:"remaining_macros"`
	Meals           []MealStatus       `json:"meals"`
	Logged          bool               `json:"logged"`
	HasProfile      bool               `json:"has_profile"`
}

// DayStatusFor reports intake against target for one day. A logged day uses
// its stored target; otherwise the current profile's target applies.
func DayStatusFor(db *sql.DB, date model.Day) (*DayStatus, error) {
	day, err := loadDay(db, date)
	if err != nil {
		return nil, err
	}
	profile, err := currentProfile(db, date)
	if err != nil {
		return nil, err
	}

	status := &DayStatus{Date: date.String(), HasProfile: profile != nil, Meals: make([]MealStatus, 0)}
	switch {
	case day != nil:
		status.Logged = true
		status.Target = day.TargetCalories
		status.Consumed = int(math.Round(day.TotalCalories()))
		status.Macros = day.TotalMacros()
		for _, m := range day.Meals {
			status.Meals = append(status.Meals, MealStatus{
				Type:     m.Type,
				Calories: int(math.Round(m.TotalCalories())),
				Entries:  len(m.Entries),
			})
		}
	case profile != nil:
		est, err := energy.Estimate(profile.Profile)
		if err != nil {
			return nil, err
		}
		status.Target = est.TargetCalories
	}
	status.Remaining = intake.Remaining(status.Consumed, status.Target)
	status.Recommended = energy.MacroSplit(status.Target)
	status.RemainingMacros = model.MacroTotals{
		ProteinG: math.Max(0, float64(status.Recommended.ProteinG)-status.Macros.ProteinG),
		CarbsG:   math.Max(0, float64(status.Recommended.CarbsG)-status.Macros.CarbsG),
		FatG:     math.Max(0, float64(status.Recommended.FatG)-status.Macros.FatG),
	}
	return status, nil
}
