package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Terry7788/caloric-intake-calculator/internal/model"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

func queryLimit(c *gin.Context, fallback int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		apiError(c, http.StatusBadRequest, "invalid limit, expected a positive integer")
		return 0, false
	}
	return n, true
}

// GET /api/foods?limit=N
func (s *Server) listFoods(c *gin.Context) {
	limit, ok := queryLimit(c, 100)
	if !ok {
		return
	}
	foods, err := service.ListFoods(s.db, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

// GET /api/foods/search?q=...&limit=N
func (s *Server) searchFoods(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		apiError(c, http.StatusBadRequest, "missing search query q")
		return
	}
	limit, ok := queryLimit(c, 20)
	if !ok {
		return
	}
	foods, err := service.SearchFoods(s.db, q, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

// POST /api/foods
func (s *Server) createFood(c *gin.Context) {
	var body model.FoodItem
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := service.AddFood(s.db, service.AddFoodInput{
		Name:               body.Name,
		CaloriesPerServing: body.CaloriesPerServing,
		ServingSize:        body.ServingSize,
		ProteinG:           body.ProteinG,
		CarbsG:             body.CarbsG,
		FatG:               body.FatG,
		Brand:              body.Brand,
		Barcode:            body.Barcode,
		Verified:           body.Verified,
	})
	if err != nil {
		fail(c, err)
		return
	}
	food, err := service.GetFood(s.db, strconv.FormatInt(id, 10))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

// importFood copies a product from Open Food Facts into the catalog.
// POST /api/foods/import/:barcode
func (s *Server) importFood(c *gin.Context) {
	if s.catalog == nil {
		apiError(c, http.StatusServiceUnavailable, "barcode import is not configured")
		return
	}
	food, err := service.ImportFoodByBarcode(c.Request.Context(), s.db, s.catalog, c.Param("barcode"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}
