package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Terry7788/caloric-intake-calculator/internal/model"
	"github.com/Terry7788/caloric-intake-calculator/internal/provider/openfoodfacts"
)

type barcodeClient interface {
	LookupBarcode(ctx context.Context, barcode string) (openfoodfacts.FoodLookup, error)
}

// ImportFoodByBarcode copies a product from the external catalog into the
// local one. A barcode already in the catalog is returned as is.
func ImportFoodByBarcode(ctx context.Context, db *sql.DB, client barcodeClient, barcode string) (*model.FoodItem, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: barcode is required", ErrInvalidInput)
	}
	existing, err := scanFood(db.QueryRow(foodSelectBase()+` WHERE barcode = ? ORDER BY id ASC LIMIT 1`, barcode))
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("check catalog for barcode %q: %w", barcode, err)
	}

	lookup, err := client.LookupBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	item := lookup.FoodItem()
	if !(item.CaloriesPerServing > 0) {
		return nil, fmt.Errorf("%w: product %q reports no calories", ErrInvalidInput, barcode)
	}
	if item.Barcode == "" {
		item.Barcode = barcode
	}
	id, err := AddFood(db, AddFoodInput{
		Name:               item.Name,
		CaloriesPerServing: item.CaloriesPerServing,
		ServingSize:        item.ServingSize,
		ProteinG:           item.ProteinG,
		CarbsG:             item.CarbsG,
		FatG:               item.FatG,
		Brand:              item.Brand,
		Barcode:            item.Barcode,
		Verified:           item.Verified,
	})
	if err != nil {
		return nil, fmt.Errorf("import %q: %w", barcode, err)
	}
	return GetFood(db, fmt.Sprint(id))
}
