package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Terry7788/caloric-intake-calculator/internal/energy"
	"github.com/Terry7788/caloric-intake-calculator/internal/intake"
	"github.com/Terry7788/caloric-intake-calculator/internal/model"
)

var ErrNoProfile = errors.New("no profile configured")

type SetProfileInput struct {
	Name          string
	Age           int
	Sex           string
	Height        float64
	HeightUnit    string
	Weight        float64
	WeightUnit    string
	ActivityLevel string
	Goal          string
	EffectiveDate string
}

// SetProfile stores a profile version taking effect on EffectiveDate (today
// when empty). A second version for the same date replaces the first.
func SetProfile(db *sql.DB, in SetProfileInput) (*model.StoredProfile, error) {
	heightCM, err := ConvertHeightToCm(in.Height, in.HeightUnit)
	if err != nil {
		return nil, err
	}
	weightKG, err := ConvertWeightToKg(in.Weight, in.WeightUnit)
	if err != nil {
		return nil, err
	}
	p := model.Profile{
		Age:           in.Age,
		Sex:           model.Sex(normalizeName(in.Sex)),
		HeightCM:      heightCM,
		WeightKG:      weightKG,
		ActivityLevel: model.ActivityLevel(normalizeName(in.ActivityLevel)),
		Goal:          model.Goal(normalizeName(in.Goal)),
	}
	// Reject anything the estimator would reject so stored profiles always
	// produce a target.
	if _, err := energy.Estimate(p); err != nil {
		return nil, err
	}

	in.EffectiveDate = strings.TrimSpace(in.EffectiveDate)
	if in.EffectiveDate == "" {
		in.EffectiveDate = model.Today().String()
	}
	if _, err := model.ParseDay(in.EffectiveDate); err != nil {
		return nil, fmt.Errorf("%w: effective date %q (expected YYYY-MM-DD)", ErrInvalidInput, in.EffectiveDate)
	}

	_, err = db.Exec(`
INSERT INTO profiles(name, age, sex, height_cm, weight_kg, activity_level, goal, effective_date)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(effective_date) DO UPDATE SET
  name=excluded.name,
  age=excluded.age,
  sex=excluded.sex,
  height_cm=excluded.height_cm,
  weight_kg=excluded.weight_kg,
  activity_level=excluded.activity_level,
  goal=excluded.goal
`, strings.TrimSpace(in.Name), p.Age, string(p.Sex), p.HeightCM, p.WeightKG, string(p.ActivityLevel), string(p.Goal), in.EffectiveDate)
	if err != nil {
		return nil, fmt.Errorf("set profile: %w", err)
	}
	return CurrentProfile(db, in.EffectiveDate)
}

// CurrentProfile returns the profile in effect on date (today when empty), or
// nil when no version is effective yet.
func CurrentProfile(db *sql.DB, date string) (*model.StoredProfile, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = model.Today().String()
	}
	day, err := model.ParseDay(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return currentProfile(db, day)
}

func currentProfile(q querier, day model.Day) (*model.StoredProfile, error) {
	row := q.QueryRow(profileSelectBase()+`
WHERE effective_date <= ?
ORDER BY effective_date DESC
LIMIT 1
`, day.String())
	p, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("current profile for %s: %w", day, err)
	}
	return p, nil
}

func ProfileHistory(db *sql.DB) ([]model.StoredProfile, error) {
	rows, err := db.Query(profileSelectBase() + `
ORDER BY effective_date DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list profile history: %w", err)
	}
	defer rows.Close()

	profiles := make([]model.StoredProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile history: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile history: %w", err)
	}
	return profiles, nil
}

// EstimateForDate runs the energy estimator on the profile in effect on date.
func EstimateForDate(db *sql.DB, date model.Day) (model.EnergyEstimate, error) {
	return estimateForDate(db, date)
}

func estimateForDate(q querier, date model.Day) (model.EnergyEstimate, error) {
	p, err := currentProfile(q, date)
	if err != nil {
		return model.EnergyEstimate{}, err
	}
	if p == nil {
		return model.EnergyEstimate{}, fmt.Errorf("%w for %s (run `caltrack profile set`)", ErrNoProfile, date)
	}
	est, err := energy.Estimate(p.Profile)
	if err != nil {
		return model.EnergyEstimate{}, fmt.Errorf("estimate profile effective %s: %w", p.EffectiveDate, err)
	}
	return est, nil
}

// FallbackTarget resolves the target in effect on a date, treating a missing
// profile as a zero target.
func FallbackTarget(db *sql.DB) intake.TargetFunc {
	return targetOrZero(db)
}

func targetOrZero(q querier) intake.TargetFunc {
	return func(date model.Day) (int, error) {
		est, err := estimateForDate(q, date)
		if errors.Is(err, ErrNoProfile) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		return est.TargetCalories, nil
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func profileSelectBase() string {
	return `
SELECT id, name, age, sex, height_cm, weight_kg, activity_level, goal, effective_date, created_at
FROM profiles`
}

func scanProfile(row rowScanner) (*model.StoredProfile, error) {
	var out model.StoredProfile
	var sex, activity, goal string
	if err := row.Scan(&out.ID, &out.Name, &out.Profile.Age, &sex, &out.Profile.HeightCM, &out.Profile.WeightKG, &activity, &goal, &out.EffectiveDate, &out.CreatedAt); err != nil {
		return nil, err
	}
	out.Profile.Sex = model.Sex(sex)
	out.Profile.ActivityLevel = model.ActivityLevel(activity)
	out.Profile.Goal = model.Goal(goal)
	return &out, nil
}
