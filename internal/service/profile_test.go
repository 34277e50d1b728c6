package service_test

import (
	"errors"
	"testing"

	"github.com/Terry7788/caloric-intake-calculator/internal/energy"
	"github.com/Terry7788/caloric-intake-calculator/internal/model"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

func TestProfileVersioningByEffectiveDate(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	seedProfile(t, db, "2026-01-01", "maintain")
	seedProfile(t, db, "2026-02-01", "lose")

	january, err := service.CurrentProfile(db, "2026-01-15")
	if err != nil {
		t.Fatalf("current january profile: %v", err)
	}
	if january == nil || january.Profile.Goal != model.GoalMaintain {
		t.Fatalf("expected january goal maintain, got %+v", january)
	}

	february, err := service.EstimateForDate(db, model.Day{Year: 2026, Month: 2, Dom: 10})
	if err != nil {
		t.Fatalf("estimate february: %v", err)
	}
	if february.TargetCalories != 2135 {
		t.Fatalf("expected february target 2135, got %d", february.TargetCalories)
	}

	before, err := service.CurrentProfile(db, "2025-12-31")
	if err != nil {
		t.Fatalf("current profile before first version: %v", err)
	}
	if before != nil {
		t.Fatalf("expected no profile before first version, got %+v", before)
	}
}

func TestSetProfileSameDateReplaces(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	seedProfile(t, db, "2026-03-01", "maintain")
	seedProfile(t, db, "2026-03-01", "gain")

	history, err := service.ProfileHistory(db)
	if err != nil {
		t.Fatalf("profile history: %v", err)
	}
	if len(history) != 1 || history[0].Profile.Goal != model.GoalGain {
		t.Fatalf("expected a single gain profile, got %+v", history)
	}
}

func TestSetProfileConvertsUnits(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	p, err := service.SetProfile(db, service.SetProfileInput{
		Name:          "Sam",
		Age:           30,
		Sex:           "Female",
		Height:        65,
		HeightUnit:    "in",
		Weight:        132,
		WeightUnit:    "lb",
		ActivityLevel: "sedentary",
		Goal:          "maintain",
		EffectiveDate: "2026-01-01",
	})
	if err != nil {
		t.Fatalf("set profile: %v", err)
	}
	if p.Name != "Sam" || p.Profile.Sex != model.SexFemale {
		t.Fatalf("unexpected stored profile: %+v", p)
	}
	if p.Profile.HeightCM < 165.09 || p.Profile.HeightCM > 165.11 {
		t.Fatalf("expected ~165.1 cm, got %v", p.Profile.HeightCM)
	}
	if p.Profile.WeightKG < 59.87 || p.Profile.WeightKG > 59.88 {
		t.Fatalf("expected ~59.87 kg, got %v", p.Profile.WeightKG)
	}
}

func TestSetProfileRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	base := service.SetProfileInput{Age: 25, Sex: "male", Height: 170, Weight: 70, ActivityLevel: "moderate", Goal: "maintain"}
	tests := []struct {
		name   string
		mutate func(*service.SetProfileInput)
		want   error
	}{
		{"unknown activity", func(in *service.SetProfileInput) { in.ActivityLevel = "extreme" }, energy.ErrInvalidActivityLevel},
		{"zero age", func(in *service.SetProfileInput) { in.Age = 0 }, energy.ErrInvalidProfile},
		{"unknown sex", func(in *service.SetProfileInput) { in.Sex = "other" }, energy.ErrInvalidProfile},
		{"unknown goal", func(in *service.SetProfileInput) { in.Goal = "bulk" }, energy.ErrInvalidProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			if _, err := service.SetProfile(db, in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	in := base
	in.EffectiveDate = "01/02/2026"
	if _, err := service.SetProfile(db, in); err == nil {
		t.Fatalf("expected invalid effective date error")
	}
	in = base
	in.WeightUnit = "oz"
	if _, err := service.SetProfile(db, in); err == nil {
		t.Fatalf("expected unknown weight unit error")
	}
}

func TestEstimateForDateWithoutProfile(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, err := service.EstimateForDate(db, model.Today()); !errors.Is(err, service.ErrNoProfile) {
		t.Fatalf("expected ErrNoProfile, got %v", err)
	}
}

func TestCurrentProfileRejectsBadDate(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, err := service.CurrentProfile(db, "2026-13-01"); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
