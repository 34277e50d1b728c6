package openfoodfacts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLookupBarcodeUsesServingFigures(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/product/0123456789012.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "caltrack/") {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "status": 1,
  "product": {
    "product_name": "Yogurt Cup",
    "brands": "Brand Co",
    "serving_size": "170 g",
    "nutriments": {
      "energy-kcal_serving": 120,
      "energy-kcal_100g": 70.6,
      "proteins_serving": 10,
      "carbohydrates_serving": "15",
      "fat_serving": 2
    }
  }
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	item, err := c.LookupBarcode(context.Background(), "0123456789012")
	if err != nil {
		t.Fatalf("lookup barcode: %v", err)
	}
	if item.Name != "Yogurt Cup" || item.Calories != 120 || item.ServingSize != "170 g" {
		t.Fatalf("unexpected parsed item: %+v", item)
	}
	if item.ProteinG == nil || *item.ProteinG != 10 || item.CarbsG == nil || *item.CarbsG != 15 {
		t.Fatalf("unexpected macros: %+v", item)
	}
	if item.Code != "0123456789012" {
		t.Fatalf("expected barcode to fill missing code, got %q", item.Code)
	}

	food := item.FoodItem()
	if !food.Verified || food.Barcode != "0123456789012" || food.Brand != "Brand Co" {
		t.Fatalf("unexpected food item: %+v", food)
	}
}

func TestLookupBarcodeFallsBackToPer100g(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
  "status": 1,
  "product": {
    "code": "555",
    "product_name": "Oats",
    "nutriments": {"energy-kcal_100g": 389, "proteins_100g": 16.9}
  }
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	item, err := c.LookupBarcode(context.Background(), "555")
	if err != nil {
		t.Fatalf("lookup barcode: %v", err)
	}
	if item.Calories != 389 || item.ServingSize != "100 g" {
		t.Fatalf("expected per-100g figures, got %+v", item)
	}
	if item.FatG != nil {
		t.Fatalf("expected missing fat to stay nil, got %v", *item.FatG)
	}
}

func TestLookupBarcodeNotFound(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": 0, "product": {}}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	if _, err := c.LookupBarcode(context.Background(), "999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchFoodsSkipsUnnamedProducts(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_terms"); got != "greek yogurt" {
			t.Errorf("unexpected search terms %q", got)
		}
		if got := r.URL.Query().Get("page_size"); got != "5" {
			t.Errorf("unexpected page size %q", got)
		}
		_, _ = w.Write([]byte(`{"products": [
  {"code": "1", "product_name": "Greek Yogurt", "nutriments": {"energy-kcal_100g": 97}},
  {"code": "2", "product_name": "", "nutriments": {"energy-kcal_100g": 50}}
]}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	items, err := c.SearchFoods(context.Background(), "greek yogurt", 5)
	if err != nil {
		t.Fatalf("search foods: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Greek Yogurt" || items[0].Calories != 97 {
		t.Fatalf("unexpected search results: %+v", items)
	}
}

func TestLookupBarcodeHTTPError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	_, err := c.LookupBarcode(context.Background(), "123")
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status error, got %v", err)
	}
}
