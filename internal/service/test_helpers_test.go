package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Terry7788/caloric-intake-calculator/internal/db"
	"github.com/Terry7788/caloric-intake-calculator/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "caltrack.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

// seedProfile stores the reference profile (male, 25y, 170cm, 70kg, moderate)
// whose maintenance target is 2635 kcal.
func seedProfile(t *testing.T, sqldb *sql.DB, effective, goal string) {
	t.Helper()
	if _, err := service.SetProfile(sqldb, service.SetProfileInput{
		Age:           25,
		Sex:           "male",
		Height:        170,
		Weight:        70,
		ActivityLevel: "moderate",
		Goal:          goal,
		EffectiveDate: effective,
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func ptr(v float64) *float64 {
	return &v
}
