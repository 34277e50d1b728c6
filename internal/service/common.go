package service

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// querier is satisfied by both *sql.DB and *sql.Tx, so lookups can run inside
// a day's transaction without needing a second connection.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func validateNonNegativeFloat(name string, value float64) error {
	if !(value >= 0) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s must be a finite number >= 0", ErrInvalidInput, name)
	}
	return nil
}

func validateOptionalNonNegative(name string, value *float64) error {
	if value == nil {
		return nil
	}
	return validateNonNegativeFloat(name, *value)
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func parseIDLoose(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be > 0")
	}
	return id, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
