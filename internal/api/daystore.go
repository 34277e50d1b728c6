package api

import (
	"database/sql"

	"github.com/Terry7788/caloric-intake-calculator/internal/intake"
	"github.com/Terry7788/caloric-intake-calculator/internal/model"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

// DayStore owns the day log. Every mutation runs with exclusive access to the
// day it touches.
type DayStore interface {
	Day(date model.Day) (*model.DailyEntry, error)
	Add(date model.Day, meal model.MealType, entry model.FoodEntry) (model.DailyEntry, error)
	Replace(date model.Day, meal model.MealType, entryID string, entry model.FoodEntry) (model.DailyEntry, error)
	Remove(date model.Day, meal model.MealType, entryID string) (model.DailyEntry, error)
	Summaries(w intake.Window) ([]model.DaySummary, error)
}

// SQLDayStore persists the day log in SQLite.
type SQLDayStore struct {
	db *sql.DB
}

func NewSQLDayStore(db *sql.DB) *SQLDayStore {
	return &SQLDayStore{db: db}
}

func (s *SQLDayStore) Day(date model.Day) (*model.DailyEntry, error) {
	return service.LoadDay(s.db, date.String())
}

func (s *SQLDayStore) Add(date model.Day, meal model.MealType, entry model.FoodEntry) (model.DailyEntry, error) {
	res, err := service.LogFood(s.db, service.LogFoodInput{
		Date:     date.String(),
		Meal:     string(meal),
		Food:     &entry.Food,
		Quantity: entry.Quantity,
		EntryID:  entry.ID,
	})
	if err != nil {
		return model.DailyEntry{}, err
	}
	return res.Day, nil
}

func (s *SQLDayStore) Replace(date model.Day, meal model.MealType, entryID string, entry model.FoodEntry) (model.DailyEntry, error) {
	return service.ReplaceLoggedFood(s.db, entryID, service.LogFoodInput{
		Date:     date.String(),
		Meal:     string(meal),
		Food:     &entry.Food,
		Quantity: entry.Quantity,
	})
}

func (s *SQLDayStore) Remove(date model.Day, meal model.MealType, entryID string) (model.DailyEntry, error) {
	return service.RemoveLoggedFood(s.db, date.String(), string(meal), entryID)
}

func (s *SQLDayStore) Summaries(w intake.Window) ([]model.DaySummary, error) {
	report, err := service.History(s.db, w)
	if err != nil {
		return nil, err
	}
	return report.Days, nil
}

// LedgerDayStore keeps the day log in memory for the life of the process.
// Profiles and targets still come from the database.
type LedgerDayStore struct {
	ledger   *intake.Ledger
	fallback intake.TargetFunc
}

func NewLedgerDayStore(db *sql.DB) *LedgerDayStore {
	return &LedgerDayStore{
		ledger:   intake.NewLedger(intake.NewAggregator(service.RequiredTarget(db))),
		fallback: service.FallbackTarget(db),
	}
}

func (s *LedgerDayStore) Day(date model.Day) (*model.DailyEntry, error) {
	d, ok := s.ledger.Day(date)
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (s *LedgerDayStore) Add(date model.Day, meal model.MealType, entry model.FoodEntry) (model.DailyEntry, error) {
	return s.ledger.Add(date, meal, entry)
}

func (s *LedgerDayStore) Replace(date model.Day, meal model.MealType, entryID string, entry model.FoodEntry) (model.DailyEntry, error) {
	return s.ledger.Replace(date, meal, entryID, entry)
}

func (s *LedgerDayStore) Remove(date model.Day, meal model.MealType, entryID string) (model.DailyEntry, error) {
	return s.ledger.Remove(date, meal, entryID)
}

func (s *LedgerDayStore) Summaries(w intake.Window) ([]model.DaySummary, error) {
	return s.ledger.Summarize(w, s.fallback)
}
