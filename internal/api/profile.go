package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Terry7788/caloric-intake-calculator/internal/energy"
	"github.com/Terry7788/caloric-intake-calculator/internal/model"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

// calculateRequest accepts "gender" as an alias of "sex".
type calculateRequest struct {
	model.Profile
	Gender string `json:"gender"`
}

// calculateCalories runs the estimator on a posted profile without storing it.
// POST /api/calories/calculate
func (s *Server) calculateCalories(c *gin.Context) {
	var body calculateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p := body.Profile
	if p.Sex == "" {
		p.Sex = model.Sex(strings.ToLower(strings.TrimSpace(body.Gender)))
	}
	est, err := energy.Estimate(p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

type profileView struct {
	ID            int64                `json:"id"`
	Name          string               `json:"name"`
	EffectiveDate string               `json:"effective_date"`
	Profile       model.Profile        `json:"profile"`
	Estimate      model.EnergyEstimate `json:"estimate"`
}

func newProfileView(p *model.StoredProfile) (profileView, error) {
	est, err := energy.Estimate(p.Profile)
	if err != nil {
		return profileView{}, err
	}
	return profileView{ID: p.ID, Name: p.Name, EffectiveDate: p.EffectiveDate, Profile: p.Profile, Estimate: est}, nil
}

// getProfile returns the profile in effect on ?date= (defaults to today).
// GET /api/profile
func (s *Server) getProfile(c *gin.Context) {
	p, err := service.CurrentProfile(s.db, c.Query("date"))
	if err != nil {
		fail(c, err)
		return
	}
	if p == nil {
		apiError(c, http.StatusNotFound, "no profile configured")
		return
	}
	view, err := newProfileView(p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type putProfileRequest struct {
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	Sex           string  `json:"sex"`
	Height        float64 `json:"height"`
	HeightUnit    string  `json:"height_unit"`
	Weight        float64 `json:"weight"`
	WeightUnit    string  `json:"weight_unit"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
	EffectiveDate string  `json:"effective_date"`
}

// putProfile stores a profile version. PUT /api/profile
func (s *Server) putProfile(c *gin.Context) {
	var body putProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := service.SetProfile(s.db, service.SetProfileInput(body))
	if err != nil {
		fail(c, err)
		return
	}
	view, err := newProfileView(p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /api/profile/history
func (s *Server) getProfileHistory(c *gin.Context) {
	history, err := service.ProfileHistory(s.db)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]profileView, 0, len(history))
	for i := range history {
		view, err := newProfileView(&history[i])
		if err != nil {
			fail(c, err)
			return
		}
		out = append(out, view)
	}
	c.JSON(http.StatusOK, out)
}
