package service

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/Terry7788/caloric-intake-calculator/internal/model"
)

type AddFoodInput struct {
	Name               string
	CaloriesPerServing float64
	ServingSize        string
	ProteinG           *float64
	CarbsG             *float64
	FatG               *float64
	Brand              string
	Barcode            string
	Verified           bool
}

func AddFood(db *sql.DB, in AddFoodInput) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return 0, fmt.Errorf("%w: food name is required", ErrInvalidInput)
	}
	if !(in.CaloriesPerServing > 0) || math.IsInf(in.CaloriesPerServing, 0) {
		return 0, fmt.Errorf("%w: calories per serving must be a finite number > 0", ErrInvalidInput)
	}
	if err := validateOptionalNonNegative("protein", in.ProteinG); err != nil {
		return 0, err
	}
	if err := validateOptionalNonNegative("carbs", in.CarbsG); err != nil {
		return 0, err
	}
	if err := validateOptionalNonNegative("fat", in.FatG); err != nil {
		return 0, err
	}
	if strings.TrimSpace(in.ServingSize) == "" {
		in.ServingSize = "1 serving"
	}

	res, err := db.Exec(`
INSERT INTO foods(name, name_norm, calories_per_serving, serving_size, protein_g, carbs_g, fat_g, brand, barcode, verified)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, in.Name, normalizeName(in.Name), in.CaloriesPerServing, strings.TrimSpace(in.ServingSize),
		nullFloat(in.ProteinG), nullFloat(in.CarbsG), nullFloat(in.FatG),
		strings.TrimSpace(in.Brand), strings.TrimSpace(in.Barcode), in.Verified)
	if err != nil {
		return 0, fmt.Errorf("insert food: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read food id: %w", err)
	}
	return id, nil
}

// GetFood resolves a catalog food by numeric ID or exact (case-insensitive)
// name.
func GetFood(db *sql.DB, idOrName string) (*model.FoodItem, error) {
	return getFood(db, idOrName)
}

func getFood(q querier, idOrName string) (*model.FoodItem, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, fmt.Errorf("%w: food identifier is required", ErrInvalidInput)
	}
	var row *sql.Row
	if id, err := parseIDLoose(idOrName); err == nil {
		row = q.QueryRow(foodSelectBase()+` WHERE id = ?`, id)
	} else {
		row = q.QueryRow(foodSelectBase()+` WHERE name_norm = ? ORDER BY verified DESC, id ASC LIMIT 1`, normalizeName(idOrName))
	}
	item, err := scanFood(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: food %q", ErrNotFound, idOrName)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve food %q: %w", idOrName, err)
	}
	return item, nil
}

// SearchFoods matches name or brand by substring and barcode exactly.
// Verified foods sort first.
func SearchFoods(db *sql.DB, query string, limit int) ([]model.FoodItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 20
	}
	like := "%" + normalizeName(query) + "%"
	return listFoods(db, foodSelectBase()+`
WHERE name_norm LIKE ? OR LOWER(brand) LIKE ? OR barcode = ?
ORDER BY verified DESC, name ASC
LIMIT ?`, like, like, query, limit)
}

func ListFoods(db *sql.DB, limit int) ([]model.FoodItem, error) {
	if limit <= 0 {
		limit = 100
	}
	return listFoods(db, foodSelectBase()+`
ORDER BY verified DESC, name ASC
LIMIT ?`, limit)
}

func listFoods(db *sql.DB, query string, args ...any) ([]model.FoodItem, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()
	out := make([]model.FoodItem, 0)
	for rows.Next() {
		item, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foods: %w", err)
	}
	return out, nil
}

func foodSelectBase() string {
	return `
SELECT id, name, calories_per_serving, serving_size, protein_g, carbs_g, fat_g, brand, barcode, verified
FROM foods`
}

func scanFood(row rowScanner) (*model.FoodItem, error) {
	var item model.FoodItem
	var protein, carbs, fat sql.NullFloat64
	if err := row.Scan(&item.ID, &item.Name, &item.CaloriesPerServing, &item.ServingSize, &protein, &carbs, &fat, &item.Brand, &item.Barcode, &item.Verified); err != nil {
		return nil, err
	}
	item.ProteinG = floatPtr(protein)
	item.CarbsG = floatPtr(carbs)
	item.FatG = floatPtr(fat)
	return &item, nil
}
