package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Terry7788/caloric-intake-calculator/internal/intake"
	"github.com/Terry7788/caloric-intake-calculator/internal/model"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

const maxHistoryDays = 366

type entryView struct {
	ID       string         `json:"id"`
	FoodItem model.FoodItem `json:"food_item"`
	Quantity float64        `json:"quantity"`
	Calories float64        `json:"calories"`
}

type mealView struct {
	Type          model.MealType `json:"type"`
	Foods         []entryView    `json:"foods"`
	TotalCalories float64        `json:"total_calories"`
}

// dayView is a DailyEntry with its derived totals filled in.
type dayView struct {
	Date           string            `json:"date"`
	Meals          []mealView        `json:"meals"`
	TotalCalories  float64           `json:"total_calories"`
	TargetCalories int               `json:"target_calories"`
	Remaining      int               `json:"remaining"`
	Macros         model.MacroTotals `json:"macros"`
	Logged         bool              `json:"logged"`
}

func newDayView(d model.DailyEntry, logged bool) dayView {
	view := dayView{
		Date:           d.Date.String(),
		Meals:          make([]mealView, 0, len(d.Meals)),
		TotalCalories:  d.TotalCalories(),
		TargetCalories: d.TargetCalories,
		Macros:         d.TotalMacros(),
		Logged:         logged,
	}
	view.Remaining = intake.Remaining(int(math.Round(view.TotalCalories)), d.TargetCalories)
	for _, m := range d.Meals {
		mv := mealView{Type: m.Type, Foods: make([]entryView, 0, len(m.Entries)), TotalCalories: m.TotalCalories()}
		for _, e := range m.Entries {
			mv.Foods = append(mv.Foods, entryView{ID: e.ID, FoodItem: e.Food, Quantity: e.Quantity, Calories: e.Calories()})
		}
		view.Meals = append(view.Meals, mv)
	}
	return view
}

func pathDay(c *gin.Context) (model.Day, bool) {
	d, err := model.ParseDay(c.Param("date"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return model.Day{}, false
	}
	return d, true
}

func pathMeal(c *gin.Context) (model.MealType, bool) {
	m := model.MealType(c.Param("meal"))
	if !m.Valid() {
		apiError(c, http.StatusBadRequest, "invalid meal, expected breakfast, lunch, dinner, or snack")
		return "", false
	}
	return m, true
}

// getDay returns the day's meals and totals. A day with nothing logged comes
// back empty with the target that would apply to it.
// GET /api/entries/:date
func (s *Server) getDay(c *gin.Context) {
	date, ok := pathDay(c)
	if !ok {
		return
	}
	day, err := s.days.Day(date)
	if err != nil {
		fail(c, err)
		return
	}
	if day != nil {
		c.JSON(http.StatusOK, newDayView(*day, true))
		return
	}
	target, err := service.FallbackTarget(s.db)(date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDayView(model.DailyEntry{Date: date, TargetCalories: target}, false))
}

// entryRequest names a catalog food by food_id or carries an ad-hoc food_item.
type entryRequest struct {
	FoodID   int64           `json:"food_id"`
	FoodItem *model.FoodItem `json:"food_item"`
	Quantity float64         `json:"quantity"`
}

func (s *Server) bindEntry(c *gin.Context) (model.FoodEntry, bool) {
	var body entryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return model.FoodEntry{}, false
	}
	switch {
	case body.FoodID > 0:
		food, err := service.GetFood(s.db, strconv.FormatInt(body.FoodID, 10))
		if err != nil {
			fail(c, err)
			return model.FoodEntry{}, false
		}
		return model.FoodEntry{Food: *food, Quantity: body.Quantity}, true
	case body.FoodItem != nil:
		return model.FoodEntry{Food: *body.FoodItem, Quantity: body.Quantity}, true
	default:
		apiError(c, http.StatusBadRequest, "food_id or food_item is required")
		return model.FoodEntry{}, false
	}
}

type addEntryResponse struct {
	EntryID string  `json:"entry_id"`
	Day     dayView `json:"day"`
}

// POST /api/entries/:date/:meal
func (s *Server) addEntry(c *gin.Context) {
	date, ok := pathDay(c)
	if !ok {
		return
	}
	meal, ok := pathMeal(c)
	if !ok {
		return
	}
	entry, ok := s.bindEntry(c)
	if !ok {
		return
	}
	entry.ID = uuid.NewString()
	day, err := s.days.Add(date, meal, entry)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, addEntryResponse{EntryID: entry.ID, Day: newDayView(day, true)})
}

// PUT /api/entries/:date/:meal/:id
func (s *Server) replaceEntry(c *gin.Context) {
	date, ok := pathDay(c)
	if !ok {
		return
	}
	meal, ok := pathMeal(c)
	if !ok {
		return
	}
	entry, ok := s.bindEntry(c)
	if !ok {
		return
	}
	day, err := s.days.Replace(date, meal, c.Param("id"), entry)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDayView(day, true))
}

// DELETE /api/entries/:date/:meal/:id
func (s *Server) removeEntry(c *gin.Context) {
	date, ok := pathDay(c)
	if !ok {
		return
	}
	meal, ok := pathMeal(c)
	if !ok {
		return
	}
	day, err := s.days.Remove(date, meal, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDayView(day, true))
}

type historyResponse struct {
	Days   []model.DaySummary `json:"days"`
	Totals intake.RangeTotals `json:"totals"`
}

// getHistory returns one summary per day for the N days ending on ?end=
// (defaults to today). N comes from ?days= or the history_days setting.
// GET /api/entries/history?days=N&end=YYYY-MM-DD
func (s *Server) getHistory(c *gin.Context) {
	n, err := service.HistoryDays(s.db)
	if err != nil {
		fail(c, err)
		return
	}
	if raw := c.Query("days"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryDays {
			apiError(c, http.StatusBadRequest, "invalid days, expected 1-366")
			return
		}
	}
	end := model.Today()
	if raw := c.Query("end"); raw != "" {
		end, err = model.ParseDay(raw)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
			return
		}
	}
	w, err := intake.LastDays(end, n)
	if err != nil {
		fail(c, err)
		return
	}
	days, err := s.days.Summaries(w)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, historyResponse{Days: days, Totals: intake.Totals(days)})
}
