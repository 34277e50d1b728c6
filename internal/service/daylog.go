package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Terry7788/caloric-intake-calculator/internal/intake"
	"github.com/Terry7788/caloric-intake-calculator/internal/model"
)

type LogFoodInput struct {
	Date     string
	Meal     string
	FoodRef  string
	Food     *model.FoodItem
	Quantity float64
	// EntryID is generated when empty.
	EntryID string
}

type LogFoodResult struct {
	EntryID string
	Day     model.DailyEntry
}

// LogFood adds a food entry to a meal. FoodRef names a catalog food by ID or
// name; Food logs an ad-hoc item instead. A day logged for the first time
// snapshots the target of the profile in effect on that date.
func LogFood(db *sql.DB, in LogFoodInput) (LogFoodResult, error) {
	date, meal, err := parseDayMeal(in.Date, in.Meal)
	if err != nil {
		return LogFoodResult{}, err
	}
	var result LogFoodResult
	err = withDayTx(db, date, func(tx *sql.Tx, day *model.DailyEntry) (*model.DailyEntry, error) {
		food, err := resolveLogFood(tx, in)
		if err != nil {
			return nil, err
		}
		entryID := strings.TrimSpace(in.EntryID)
		if err := ensureEntryIDFree(tx, entryID); err != nil {
			return nil, err
		}
		agg := intake.NewAggregator(requireTarget(tx))
		updated, err := agg.AddEntry(day, date, meal, model.FoodEntry{ID: entryID, Food: food, Quantity: in.Quantity})
		if err != nil {
			return nil, err
		}
		m := updated.Meal(meal)
		result.EntryID = m.Entries[len(m.Entries)-1].ID
		return updated, nil
	})
	if err != nil {
		return LogFoodResult{}, err
	}
	day, err := LoadDay(db, date.String())
	if err != nil {
		return LogFoodResult{}, err
	}
	result.Day = *day
	return result, nil
}

func RemoveLoggedFood(db *sql.DB, date, meal, entryID string) (model.DailyEntry, error) {
	d, m, err := parseDayMeal(date, meal)
	if err != nil {
		return model.DailyEntry{}, err
	}
	entryID = strings.TrimSpace(entryID)
	var out model.DailyEntry
	err = withDayTx(db, d, func(tx *sql.Tx, day *model.DailyEntry) (*model.DailyEntry, error) {
		updated, err := intake.NewAggregator(nil).RemoveEntry(day, m, entryID)
		if err != nil {
			return nil, err
		}
		out = *updated
		return updated, nil
	})
	if err != nil {
		return model.DailyEntry{}, err
	}
	return out, nil
}

// ReplaceLoggedFood swaps a logged entry for a new food and quantity while
// keeping its ID and position.
func ReplaceLoggedFood(db *sql.DB, entryID string, in LogFoodInput) (model.DailyEntry, error) {
	d, m, err := parseDayMeal(in.Date, in.Meal)
	if err != nil {
		return model.DailyEntry{}, err
	}
	entryID = strings.TrimSpace(entryID)
	var out model.DailyEntry
	err = withDayTx(db, d, func(tx *sql.Tx, day *model.DailyEntry) (*model.DailyEntry, error) {
		food, err := resolveLogFood(tx, in)
		if err != nil {
			return nil, err
		}
		updated, err := intake.NewAggregator(nil).ReplaceEntry(day, m, entryID, model.FoodEntry{Food: food, Quantity: in.Quantity})
		if err != nil {
			return nil, err
		}
		out = *updated
		return updated, nil
	})
	if err != nil {
		return model.DailyEntry{}, err
	}
	return out, nil
}

// LoadDay returns the stored day, or nil when nothing was logged for it.
func LoadDay(db *sql.DB, date string) (*model.DailyEntry, error) {
	day, err := model.ParseDay(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return loadDay(db, day)
}

// LoadDays returns every stored day in w, in date order.
func LoadDays(db *sql.DB, w intake.Window) ([]model.DailyEntry, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT date FROM daily_entries WHERE date >= ? AND date <= ? ORDER BY date ASC`, w.From.String(), w.To.String())
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	dates := make([]model.Day, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan day: %w", err)
		}
		d, err := model.ParseDay(raw)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("stored day %q: %w", raw, err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate days: %w", err)
	}
	_ = rows.Close()

	out := make([]model.DailyEntry, 0, len(dates))
	for _, d := range dates {
		day, err := loadDay(db, d)
		if err != nil {
			return nil, err
		}
		if day != nil {
			out = append(out, *day)
		}
	}
	return out, nil
}

// withDayTx runs fn against the stored day inside one transaction and writes
// the day it returns back before committing. The database holds a single
// connection, so the transaction is exclusive for the whole read-modify-write.
func withDayTx(db *sql.DB, date model.Day, fn func(tx *sql.Tx, day *model.DailyEntry) (*model.DailyEntry, error)) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin day tx: %w", err)
	}
	day, err := loadDay(tx, date)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	updated, err := fn(tx, day)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := saveDay(tx, updated); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit day %s: %w", date, err)
	}
	return nil
}

func loadDay(q querier, date model.Day) (*model.DailyEntry, error) {
	day := &model.DailyEntry{Date: date}
	err := q.QueryRow(`SELECT target_calories FROM daily_entries WHERE date = ?`, date.String()).Scan(&day.TargetCalories)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load day %s: %w", date, err)
	}

	present := map[model.MealType]bool{}
	mealRows, err := q.Query(`SELECT meal_type FROM daily_entry_meals WHERE date = ?`, date.String())
	if err != nil {
		return nil, fmt.Errorf("load meals for %s: %w", date, err)
	}
	for mealRows.Next() {
		var mt string
		if err := mealRows.Scan(&mt); err != nil {
			_ = mealRows.Close()
			return nil, fmt.Errorf("scan meal for %s: %w", date, err)
		}
		present[model.MealType(mt)] = true
	}
	if err := mealRows.Err(); err != nil {
		_ = mealRows.Close()
		return nil, fmt.Errorf("iterate meals for %s: %w", date, err)
	}
	_ = mealRows.Close()

	entries := map[model.MealType][]model.FoodEntry{}
	rows, err := q.Query(`
SELECT id, meal_type, food_id, food_name, calories_per_serving, serving_size, protein_g, carbs_g, fat_g, brand, barcode, verified, quantity
FROM food_entries
WHERE date = ?
ORDER BY meal_type ASC, position ASC
`, date.String())
	if err != nil {
		return nil, fmt.Errorf("load entries for %s: %w", date, err)
	}
	defer rows.Close()
	for rows.Next() {
		var e model.FoodEntry
		var mt string
		var foodID sql.NullInt64
		var protein, carbs, fat sql.NullFloat64
		if err := rows.Scan(&e.ID, &mt, &foodID, &e.Food.Name, &e.Food.CaloriesPerServing, &e.Food.ServingSize,
			&protein, &carbs, &fat, &e.Food.Brand, &e.Food.Barcode, &e.Food.Verified, &e.Quantity); err != nil {
			return nil, fmt.Errorf("scan entry for %s: %w", date, err)
		}
		e.Food.ID = foodID.Int64
		e.Food.ProteinG = floatPtr(protein)
		e.Food.CarbsG = floatPtr(carbs)
		e.Food.FatG = floatPtr(fat)
		entries[model.MealType(mt)] = append(entries[model.MealType(mt)], e)
		present[model.MealType(mt)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries for %s: %w", date, err)
	}

	for _, mt := range model.MealTypes {
		if present[mt] {
			day.Meals = append(day.Meals, model.Meal{Type: mt, Entries: entries[mt]})
		}
	}
	return day, nil
}

func saveDay(tx *sql.Tx, day *model.DailyEntry) error {
	date := day.Date.String()
	if _, err := tx.Exec(`
INSERT INTO daily_entries(date, target_calories)
VALUES(?, ?)
ON CONFLICT(date) DO UPDATE SET target_calories=excluded.target_calories, updated_at=CURRENT_TIMESTAMP
`, date, day.TargetCalories); err != nil {
		return fmt.Errorf("save day %s: %w", date, err)
	}
	if _, err := tx.Exec(`DELETE FROM food_entries WHERE date = ?`, date); err != nil {
		return fmt.Errorf("clear entries for %s: %w", date, err)
	}
	if _, err := tx.Exec(`DELETE FROM daily_entry_meals WHERE date = ?`, date); err != nil {
		return fmt.Errorf("clear meals for %s: %w", date, err)
	}
	for _, m := range day.Meals {
		if _, err := tx.Exec(`INSERT INTO daily_entry_meals(date, meal_type) VALUES(?, ?)`, date, string(m.Type)); err != nil {
			return fmt.Errorf("save meal %s for %s: %w", m.Type, date, err)
		}
		for i, e := range m.Entries {
			var foodID sql.NullInt64
			if e.Food.ID > 0 {
				foodID = sql.NullInt64{Int64: e.Food.ID, Valid: true}
			}
			if _, err := tx.Exec(`
INSERT INTO food_entries(id, date, meal_type, position, food_id, food_name, calories_per_serving, serving_size, protein_g, carbs_g, fat_g, brand, barcode, verified, quantity)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, e.ID, date, string(m.Type), i, foodID, e.Food.Name, e.Food.CaloriesPerServing, e.Food.ServingSize,
				nullFloat(e.Food.ProteinG), nullFloat(e.Food.CarbsG), nullFloat(e.Food.FatG),
				e.Food.Brand, e.Food.Barcode, e.Food.Verified, e.Quantity); err != nil {
				return fmt.Errorf("save entry %s for %s: %w", e.ID, date, err)
			}
		}
	}
	return nil
}

func resolveLogFood(q querier, in LogFoodInput) (model.FoodItem, error) {
	if ref := strings.TrimSpace(in.FoodRef); ref != "" {
		food, err := getFood(q, ref)
		if err != nil {
			return model.FoodItem{}, err
		}
		return *food, nil
	}
	if in.Food == nil {
		return model.FoodItem{}, fmt.Errorf("%w: a catalog food or an ad-hoc food is required", ErrInvalidInput)
	}
	food := *in.Food
	food.Name = strings.TrimSpace(food.Name)
	if food.Name == "" {
		return model.FoodItem{}, fmt.Errorf("%w: food name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(food.ServingSize) == "" {
		food.ServingSize = "1 serving"
	}
	return food, nil
}

// ensureEntryIDFree rejects a caller-chosen entry ID already used on any day.
func ensureEntryIDFree(q querier, id string) error {
	if id == "" {
		return nil
	}
	var date string
	err := q.QueryRow(`SELECT date FROM food_entries WHERE id = ?`, id).Scan(&date)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check entry id %q: %w", id, err)
	}
	return fmt.Errorf("%w: entry id %q already logged on %s", ErrInvalidInput, id, date)
}

// RequiredTarget resolves the target for a new day from the profile in effect
// on that date. Logging without a profile fails.
func RequiredTarget(db *sql.DB) intake.TargetFunc {
	return requireTarget(db)
}

func requireTarget(q querier) intake.TargetFunc {
	return func(date model.Day) (int, error) {
		est, err := estimateForDate(q, date)
		if err != nil {
			return 0, err
		}
		return est.TargetCalories, nil
	}
}

func parseDayMeal(date, meal string) (model.Day, model.MealType, error) {
	date = strings.TrimSpace(date)
	var d model.Day
	if date == "" {
		d = model.Today()
	} else {
		parsed, err := model.ParseDay(date)
		if err != nil {
			return model.Day{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		d = parsed
	}
	mt := model.MealType(normalizeName(meal))
	if !mt.Valid() {
		return model.Day{}, "", fmt.Errorf("%w %q (use breakfast, lunch, dinner, or snack)", intake.ErrInvalidMealType, meal)
	}
	return d, mt, nil
}
