package api

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Terry7788/caloric-intake-calculator/internal/energy"
	"github.com/Terry7788/caloric-intake-calculator/internal/intake"
	"github.com/Terry7788/caloric-intake-calculator/internal/provider/openfoodfacts"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

type barcodeLookup interface {
	LookupBarcode(ctx context.Context, barcode string) (openfoodfacts.FoodLookup, error)
}

// Server holds the shared dependencies of every route handler.
type Server struct {
	db      *sql.DB
	days    DayStore
	catalog barcodeLookup
}

// NewServer wires the handlers. catalog may be nil, which disables barcode
// import.
func NewServer(db *sql.DB, days DayStore, catalog barcodeLookup) *Server {
	return &Server{db: db, days: days, catalog: catalog}
}

// Router builds the gin engine with request logging and panic recovery.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	_ = router.SetTrustedProxies(nil)
	s.registerRoutes(router)
	return router
}

func (s *Server) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/calories/calculate", s.calculateCalories)
	api.GET("/profile", s.getProfile)
	api.PUT("/profile", s.putProfile)
	api.GET("/profile/history", s.getProfileHistory)
	api.GET("/foods", s.listFoods)
	api.GET("/foods/search", s.searchFoods)
	api.POST("/foods", s.createFood)
	api.POST("/foods/import/:barcode", s.importFood)
	api.GET("/entries/history", s.getHistory)
	api.GET("/entries/:date", s.getDay)
	api.POST("/entries/:date/:meal", s.addEntry)
	api.PUT("/entries/:date/:meal/:id", s.replaceEntry)
	api.DELETE("/entries/:date/:meal/:id", s.removeEntry)
}

/* ─── Errors ──────────────────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// fail maps err to a status code. Unexpected errors are logged and reported
// without detail.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[api] %s %s: %v", c.Request.Method, c.FullPath(), err)
		apiError(c, status, "internal error")
		return
	}
	apiError(c, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, energy.ErrInvalidProfile),
		errors.Is(err, energy.ErrInvalidActivityLevel),
		errors.Is(err, energy.ErrInvalidAdjustment),
		errors.Is(err, intake.ErrInvalidQuantity),
		errors.Is(err, intake.ErrInvalidMealType),
		errors.Is(err, intake.ErrInvalidWindow),
		errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, intake.ErrEntryNotFound),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, openfoodfacts.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoProfile):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
