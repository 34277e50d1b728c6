package intake

import (
	"errors"
	"fmt"
	"math"

	"github.com/Terry7788/caloric-intake-calculator/internal/model"
)

var (
	ErrInvalidWindow = errors.New("invalid window")
	ErrDuplicateDay  = errors.New("duplicate day")
)

// Window is an inclusive range of calendar days.
type Window struct {
	From model.Day
	To   model.Day
}

// LastDays returns the n-day window ending on (and including) end.
func LastDays(end model.Day, n int) (Window, error) {
	if n <= 0 {
		return Window{}, fmt.Errorf("%w: day count must be > 0", ErrInvalidWindow)
	}
	return Window{From: end.AddDays(-(n - 1)), To: end}, nil
}

func (w Window) Validate() error {
	if w.From.IsZero() || w.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidWindow)
	}
	if w.From.After(w.To) {
		return fmt.Errorf("%w: from %s is after to %s", ErrInvalidWindow, w.From, w.To)
	}
	return nil
}

func (w Window) Days() int {
	return w.From.DaysUntil(w.To) + 1
}

// SummarizeRange emits one record per day of w in chronological order. Days
// with nothing logged are reported as consumed=0 against the target fallback
// returns for that date (0 when fallback is nil).
// Remaining is clamped at zero; consumed and target are left as they are so an
// overage is still visible by comparing the two.
func SummarizeRange(days []model.DailyEntry, w Window, fallback TargetFunc) ([]model.DaySummary, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	byDate := make(map[model.Day]model.DailyEntry, len(days))
	for _, d := range days {
		if _, dup := byDate[d.Date]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDay, d.Date)
		}
		byDate[d.Date] = d
	}

	out := make([]model.DaySummary, 0, w.Days())
	for date := w.From; !date.After(w.To); date = date.AddDays(1) {
		s := model.DaySummary{Date: date}
		if d, ok := byDate[date]; ok {
			s.Consumed = int(math.Round(d.TotalCalories()))
			s.Target = d.TargetCalories
		} else if fallback != nil {
			target, err := fallback(date)
			if err != nil {
				return nil, fmt.Errorf("resolve target for %s: %w", date, err)
			}
			s.Target = target
		}
		s.Remaining = Remaining(s.Consumed, s.Target)
		out = append(out, s)
	}
	return out, nil
}

func Remaining(consumed, target int) int {
	if target-consumed < 0 {
		return 0
	}
	return target - consumed
}

// RangeTotals rolls a summary series up into footer figures.
type RangeTotals struct {
	Days            int     `json:"days"`
	DaysLogged      int     `json:"days_logged"`
	DaysOverTarget  int     `json:"days_over_target"`
	Consumed        int     `json:"consumed"`
	Target          int     `json:"target"`
	AverageConsumed float64 `json:"average_consumed"`
}

func Totals(summaries []model.DaySummary) RangeTotals {
	out := RangeTotals{Days: len(summaries)}
	for _, s := range summaries {
		out.Consumed += s.Consumed
		out.Target += s.Target
		if s.Consumed > 0 {
			out.DaysLogged++
		}
		if s.OverTarget() {
			out.DaysOverTarget++
		}
	}
	if out.Days > 0 {
		out.AverageConsumed = float64(out.Consumed) / float64(out.Days)
	}
	return out
}
