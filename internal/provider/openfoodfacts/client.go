package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Terry7788/caloric-intake-calculator/internal/model"
)

const DefaultBaseURL = "https://world.openfoodfacts.org"

const userAgent = "caltrack/1.0 (+https://github.com/Terry7788/caloric-intake-calculator)"

var ErrNotFound = errors.New("openfoodfacts product not found")

// FoodLookup is one product as reported by Open Food Facts. Nutrient values
// are per serving when the product declares a serving, otherwise per 100 g.
// A nil macro means the product does not report it.
type FoodLookup struct {
	Code        string
	Name        string
	Brand       string
	ServingSize string
	Calories    float64
	ProteinG    *float64
	CarbsG      *float64
	FatG        *float64
}

// FoodItem converts the lookup into a catalog food. Imported products are
// marked verified.
func (l FoodLookup) FoodItem() model.FoodItem {
	return model.FoodItem{
		Name:               l.Name,
		CaloriesPerServing: l.Calories,
		ServingSize:        l.ServingSize,
		ProteinG:           l.ProteinG,
		CarbsG:             l.CarbsG,
		FatG:               l.FatG,
		Brand:              l.Brand,
		Barcode:            l.Code,
		Verified:           true,
	}
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) LookupBarcode(ctx context.Context, barcode string) (FoodLookup, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return FoodLookup{}, fmt.Errorf("barcode is required")
	}
	var parsed offResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v2/product/%s.json", url.PathEscape(barcode)), &parsed); err != nil {
		return FoodLookup{}, err
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return FoodLookup{}, fmt.Errorf("%w for barcode %q", ErrNotFound, barcode)
	}
	if parsed.Product.Code == "" {
		parsed.Product.Code = barcode
	}
	return toLookup(parsed.Product), nil
}

func (c *Client) SearchFoods(ctx context.Context, query string, limit int) ([]FoodLookup, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if limit <= 0 {
		limit = 10
	}
	path := fmt.Sprintf("/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=%d",
		url.QueryEscape(query), limit)
	var parsed offSearchResponse
	if err := c.getJSON(ctx, path, &parsed); err != nil {
		return nil, err
	}
	out := make([]FoodLookup, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			continue
		}
		out = append(out, toLookup(p))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w for query %q", ErrNotFound, query)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return fmt.Errorf("create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read openfoodfacts response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("openfoodfacts request failed with status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode openfoodfacts response: %w", err)
	}
	return nil
}

func toLookup(p offProduct) FoodLookup {
	suffix, serving := servingBasis(p)
	return FoodLookup{
		Code:        strings.TrimSpace(p.Code),
		Name:        strings.TrimSpace(p.ProductName),
		Brand:       strings.TrimSpace(p.Brands),
		ServingSize: serving,
		Calories:    nutrientOrZero(p.Nutriments, "energy-kcal"+suffix),
		ProteinG:    nutrient(p.Nutriments, "proteins"+suffix),
		CarbsG:      nutrient(p.Nutriments, "carbohydrates"+suffix),
		FatG:        nutrient(p.Nutriments, "fat"+suffix),
	}
}

// servingBasis picks per-serving figures when the product reports serving
// calories, falling back to per-100 g.
func servingBasis(p offProduct) (string, string) {
	if _, ok := parseFloatAny(p.Nutriments["energy-kcal_serving"]); ok {
		if s := strings.TrimSpace(p.ServingSize); s != "" {
			return "_serving", s
		}
		if p.ServingQuantity > 0 {
			unit := strings.TrimSpace(p.ServingQuantityUnit)
			if unit == "" {
				unit = "g"
			}
			return "_serving", strconv.FormatFloat(p.ServingQuantity, 'f', -1, 64) + " " + unit
		}
		return "_serving", "1 serving"
	}
	return "_100g", "100 g"
}

func nutrient(n map[string]any, key string) *float64 {
	v, ok := parseFloatAny(n[key])
	if !ok || v < 0 {
		return nil
	}
	return &v
}

func nutrientOrZero(n map[string]any, key string) float64 {
	if v := nutrient(n, key); v != nil {
		return *v
	}
	return 0
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	Code                string         `json:"code"`
	ProductName         string         `json:"product_name"`
	Brands              string         `json:"brands"`
	ServingSize         string         `json:"serving_size"`
	ServingQuantity     float64        `json:"serving_quantity"`
	ServingQuantityUnit string         `json:"serving_quantity_unit"`
	Nutriments          map[string]any `json:"nutriments"`
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}
