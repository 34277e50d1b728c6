package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Terry7788/caloric-intake-calculator/internal/api"
	"github.com/Terry7788/caloric-intake-calculator/internal/db"
	"github.com/Terry7788/caloric-intake-calculator/internal/provider/openfoodfacts"
)

/* ─── Helpers ─────────────────────────────────────────────────────────── */

type fakeCatalog struct{}

func (fakeCatalog) LookupBarcode(_ context.Context, barcode string) (openfoodfacts.FoodLookup, error) {
	if barcode != "4006381333931" {
		return openfoodfacts.FoodLookup{}, openfoodfacts.ErrNotFound
	}
	protein := 7.0
	return openfoodfacts.FoodLookup{Code: barcode, Name: "Muesli", ServingSize: "45 g", Calories: 170, ProteinG: &protein}, nil
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqldb, err := db.Open(filepath.Join(t.TempDir(), "caltrack.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	return sqldb
}

// newTestRouter builds a router over a fresh database. ephemeral selects the
// in-memory day store.
func newTestRouter(t *testing.T, ephemeral bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sqldb := newTestDB(t)
	var days api.DayStore = api.NewSQLDayStore(sqldb)
	if ephemeral {
		days = api.NewLedgerDayStore(sqldb)
	}
	return api.NewServer(sqldb, days, fakeCatalog{}).Router()
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

const referenceProfile = `{"age":25,"sex":"male","height":170,"weight":70,"activity_level":"moderate","goal":"maintain","effective_date":"2026-01-01"}`

type estimateResponse struct {
	BMR               int `json:"bmr"`
	TDEE              int `json:"tdee"`
	TargetCalories    int `json:"target_calories"`
	RecommendedIntake struct {
		Protein int `json:"protein"`
		Carbs   int `json:"carbs"`
		Fat     int `json:"fat"`
	} `json:"recommended_intake"`
}

type dayResponse struct {
	Date           string  `json:"date"`
	TotalCalories  float64 `json:"total_calories"`
	TargetCalories int     `json:"target_calories"`
	Remaining      int     `json:"remaining"`
	Logged         bool    `json:"logged"`
	Meals          []struct {
		Type          string  `json:"type"`
		TotalCalories float64 `json:"total_calories"`
		Foods         []struct {
			ID       string  `json:"id"`
			Calories float64 `json:"calories"`
		} `json:"foods"`
	} `json:"meals"`
}

/* ─── Calculate ───────────────────────────────────────────────────────── */

func TestCalculateCalories(t *testing.T) {
	router := newTestRouter(t, false)

	w := doRequest(router, http.MethodPost, "/api/calories/calculate",
		`{"age":25,"gender":"male","height_cm":170,"weight_kg":70,"activity_level":"moderate","goal":"lose"}`)
	expectStatus(t, w, http.StatusOK)
	got := decode[estimateResponse](t, w)
	if got.BMR != 1700 || got.TDEE != 2635 || got.TargetCalories != 2135 {
		t.Fatalf("unexpected estimate: %+v", got)
	}
	if got.RecommendedIntake.Protein != 133 || got.RecommendedIntake.Carbs != 240 || got.RecommendedIntake.Fat != 71 {
		t.Fatalf("unexpected macros: %+v", got.RecommendedIntake)
	}
}

func TestCalculateCaloriesRejectsBadProfiles(t *testing.T) {
	router := newTestRouter(t, false)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown activity", `{"age":25,"sex":"male","height_cm":170,"weight_kg":70,"activity_level":"athlete","goal":"maintain"}`, "activity"},
		{"zero weight", `{"age":25,"sex":"male","height_cm":170,"weight_kg":0,"activity_level":"light","goal":"maintain"}`, "weight"},
		{"malformed json", `{"age":`, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/calories/calculate", tt.body)
			expectStatus(t, w, http.StatusBadRequest)
			body := decode[map[string]string](t, w)
			if !strings.Contains(body["error"], tt.want) {
				t.Fatalf("expected error mentioning %q, got %q", tt.want, body["error"])
			}
		})
	}
}

/* ─── Profile ─────────────────────────────────────────────────────────── */

func TestProfileRoutes(t *testing.T) {
	router := newTestRouter(t, false)

	expectStatus(t, doRequest(router, http.MethodGet, "/api/profile", ""), http.StatusNotFound)
	expectStatus(t, doRequest(router, http.MethodPut, "/api/profile", referenceProfile), http.StatusOK)

	w := doRequest(router, http.MethodGet, "/api/profile?date=2026-02-01", "")
	expectStatus(t, w, http.StatusOK)
	got := decode[struct {
		EffectiveDate string           `json:"effective_date"`
		Estimate      estimateResponse `json:"estimate"`
	}](t, w)
	if got.EffectiveDate != "2026-01-01" || got.Estimate.TargetCalories != 2635 {
		t.Fatalf("unexpected profile: %+v", got)
	}

	bad := strings.Replace(referenceProfile, `"moderate"`, `"couch"`, 1)
	expectStatus(t, doRequest(router, http.MethodPut, "/api/profile", bad), http.StatusBadRequest)

	w = doRequest(router, http.MethodGet, "/api/profile/history", "")
	expectStatus(t, w, http.StatusOK)
	if history := decode[[]json.RawMessage](t, w); len(history) != 1 {
		t.Fatalf("expected one profile version, got %d", len(history))
	}
}

/* ─── Foods ───────────────────────────────────────────────────────────── */

func TestFoodRoutes(t *testing.T) {
	router := newTestRouter(t, false)

	w := doRequest(router, http.MethodPost, "/api/foods", `{"name":"Oatmeal","calories_per_serving":150,"serving_size":"1 cup","protein_g":5}`)
	expectStatus(t, w, http.StatusCreated)
	created := decode[struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}](t, w)
	if created.ID == 0 || created.Name != "Oatmeal" {
		t.Fatalf("unexpected created food: %+v", created)
	}

	expectStatus(t, doRequest(router, http.MethodPost, "/api/foods", `{"name":"Air","calories_per_serving":0}`), http.StatusBadRequest)
	expectStatus(t, doRequest(router, http.MethodGet, "/api/foods/search", ""), http.StatusBadRequest)

	w = doRequest(router, http.MethodGet, "/api/foods/search?q=oat", "")
	expectStatus(t, w, http.StatusOK)
	if found := decode[[]json.RawMessage](t, w); len(found) != 1 {
		t.Fatalf("expected one search hit, got %d", len(found))
	}

	expectStatus(t, doRequest(router, http.MethodPost, "/api/foods/import/4006381333931", ""), http.StatusCreated)
	expectStatus(t, doRequest(router, http.MethodPost, "/api/foods/import/000", ""), http.StatusNotFound)

	w = doRequest(router, http.MethodGet, "/api/foods", "")
	expectStatus(t, w, http.StatusOK)
	if all := decode[[]json.RawMessage](t, w); len(all) != 2 {
		t.Fatalf("expected two foods, got %d", len(all))
	}
}

/* ─── Entries ─────────────────────────────────────────────────────────── */

func TestEntryRoutesAcrossStores(t *testing.T) {
	for _, tc := range []struct {
		name      string
		ephemeral bool
	}{
		{"sqlite", false},
		{"memory", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(t, tc.ephemeral)
			expectStatus(t, doRequest(router, http.MethodPut, "/api/profile", referenceProfile), http.StatusOK)
			expectStatus(t, doRequest(router, http.MethodPost, "/api/foods", `{"name":"Egg","calories_per_serving":78}`), http.StatusCreated)

			w := doRequest(router, http.MethodGet, "/api/entries/2026-01-10", "")
			expectStatus(t, w, http.StatusOK)
			if empty := decode[dayResponse](t, w); empty.Logged || empty.TargetCalories != 2635 || empty.Remaining != 2635 {
				t.Fatalf("unexpected empty day: %+v", empty)
			}

			w = doRequest(router, http.MethodPost, "/api/entries/2026-01-10/breakfast", `{"food_id":1,"quantity":2}`)
			expectStatus(t, w, http.StatusCreated)
			added := decode[struct {
				EntryID string      `json:"entry_id"`
				Day     dayResponse `json:"day"`
			}](t, w)
			if added.EntryID == "" || added.Day.TotalCalories != 156 {
				t.Fatalf("unexpected add response: %+v", added)
			}

			w = doRequest(router, http.MethodPost, "/api/entries/2026-01-10/lunch",
				`{"food_item":{"name":"Salad","calories_per_serving":190},"quantity":1.5}`)
			expectStatus(t, w, http.StatusCreated)

			w = doRequest(router, http.MethodGet, "/api/entries/2026-01-10", "")
			expectStatus(t, w, http.StatusOK)
			day := decode[dayResponse](t, w)
			if !day.Logged || day.TotalCalories != 441 || day.Remaining != 2194 || len(day.Meals) != 2 {
				t.Fatalf("unexpected day: %+v", day)
			}

			expectStatus(t, doRequest(router, http.MethodPost, "/api/entries/2026-01-10/brunch", `{"food_id":1,"quantity":1}`), http.StatusBadRequest)
			expectStatus(t, doRequest(router, http.MethodPost, "/api/entries/2026-01-10/lunch", `{"food_id":1,"quantity":0}`), http.StatusBadRequest)
			expectStatus(t, doRequest(router, http.MethodPost, "/api/entries/2026-01-10/lunch", `{"food_id":99,"quantity":1}`), http.StatusNotFound)
			expectStatus(t, doRequest(router, http.MethodPost, "/api/entries/10-01-2026/lunch", `{"food_id":1,"quantity":1}`), http.StatusBadRequest)
			expectStatus(t, doRequest(router, http.MethodDelete, "/api/entries/2026-01-10/breakfast/missing", ""), http.StatusNotFound)

			w = doRequest(router, http.MethodPut, "/api/entries/2026-01-10/breakfast/"+added.EntryID, `{"food_id":1,"quantity":3}`)
			expectStatus(t, w, http.StatusOK)
			if replaced := decode[dayResponse](t, w); replaced.TotalCalories != 519 {
				t.Fatalf("expected 519 kcal after replace, got %v", replaced.TotalCalories)
			}

			w = doRequest(router, http.MethodDelete, "/api/entries/2026-01-10/breakfast/"+added.EntryID, "")
			expectStatus(t, w, http.StatusOK)
			removed := decode[dayResponse](t, w)
			if removed.TotalCalories != 285 || len(removed.Meals) != 2 || len(removed.Meals[0].Foods) != 0 {
				t.Fatalf("expected empty breakfast to remain, got %+v", removed)
			}

			w = doRequest(router, http.MethodGet, "/api/entries/history?days=3&end=2026-01-11", "")
			expectStatus(t, w, http.StatusOK)
			history := decode[struct {
				Days []struct {
					Date      string `json:"date"`
					Consumed  int    `json:"consumed"`
					Target    int    `json:"target"`
					Remaining int    `json:"remaining"`
				} `json:"days"`
				Totals struct {
					Consumed   int `json:"consumed"`
					DaysLogged int `json:"days_logged"`
				} `json:"totals"`
			}](t, w)
			if len(history.Days) != 3 || history.Days[1].Date != "2026-01-10" || history.Days[1].Consumed != 285 {
				t.Fatalf("unexpected history: %+v", history)
			}
			if history.Days[0].Consumed != 0 || history.Days[0].Remaining != 2635 || history.Totals.DaysLogged != 1 {
				t.Fatalf("unexpected history fill: %+v", history)
			}

			expectStatus(t, doRequest(router, http.MethodGet, "/api/entries/history?days=0", ""), http.StatusBadRequest)
		})
	}
}

func TestAddEntryWithoutProfileConflicts(t *testing.T) {
	router := newTestRouter(t, true)
	w := doRequest(router, http.MethodPost, "/api/entries/2026-01-10/dinner", `{"food_item":{"name":"Rice","calories_per_serving":200},"quantity":1}`)
	expectStatus(t, w, http.StatusConflict)
}

func TestOverflowingEntryLeavesDayIntact(t *testing.T) {
	for _, tc := range []struct {
		name      string
		ephemeral bool
	}{
		{"sqlite", false},
		{"memory", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(t, tc.ephemeral)
			expectStatus(t, doRequest(router, http.MethodPut, "/api/profile", referenceProfile), http.StatusOK)
			expectStatus(t, doRequest(router, http.MethodPost, "/api/entries/2026-02-02/breakfast",
				`{"food_item":{"name":"Toast","calories_per_serving":120},"quantity":1}`), http.StatusCreated)

			for _, body := range []string{
				`{"food_item":{"name":"x","calories_per_serving":1e308},"quantity":1e308}`,
				`{"food_item":{"name":"x","calories_per_serving":1000},"quantity":1000}`,
				`{"food_item":{"name":"x","calories_per_serving":100,"protein_g":1e308},"quantity":10}`,
			} {
				expectStatus(t, doRequest(router, http.MethodPost, "/api/entries/2026-02-02/breakfast", body), http.StatusBadRequest)
			}

			w := doRequest(router, http.MethodGet, "/api/entries/2026-02-02", "")
			expectStatus(t, w, http.StatusOK)
			if day := decode[dayResponse](t, w); day.TotalCalories != 120 || day.Remaining != 2515 {
				t.Fatalf("expected day unchanged, got %+v", day)
			}

			w = doRequest(router, http.MethodGet, "/api/entries/history?days=1&end=2026-02-02", "")
			expectStatus(t, w, http.StatusOK)
			history := decode[struct {
				Days []struct {
					Consumed int `json:"consumed"`
				} `json:"days"`
			}](t, w)
			if len(history.Days) != 1 || history.Days[0].Consumed != 120 {
				t.Fatalf("unexpected history: %+v", history)
			}
		})
	}
}

func TestGetProfileRejectsBadDate(t *testing.T) {
	router := newTestRouter(t, false)
	expectStatus(t, doRequest(router, http.MethodPut, "/api/profile", referenceProfile), http.StatusOK)
	expectStatus(t, doRequest(router, http.MethodGet, "/api/profile?date=bogus", ""), http.StatusBadRequest)
}
