package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

// Day is a user-local calendar date with no time-of-day component.
type Day struct {
	Year  int
	Month time.Month
	Dom   int
}

func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Dom: d}
}

func Today() Day {
	return DayOf(time.Now())
}

func ParseDay(value string) (Day, error) {
	t, err := time.Parse(DayLayout, strings.TrimSpace(value))
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return DayOf(t), nil
}

func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Dom, 0, 0, 0, 0, time.UTC)
}

func (d Day) String() string {
	return d.Time().Format(DayLayout)
}

func (d Day) IsZero() bool {
	return d == Day{}
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) Before(other Day) bool {
	return d.Time().Before(other.Time())
}

func (d Day) After(other Day) bool {
	return d.Time().After(other.Time())
}

// DaysUntil returns the number of calendar days from d to other.
func (d Day) DaysUntil(other Day) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
