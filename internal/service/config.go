package service

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	ConfigHistoryDays          = "history_days"
	ConfigOpenFoodFactsBaseURL = "openfoodfacts_base_url"
)

const DefaultHistoryDays = 7

var configValidators = map[string]func(string) error{
	ConfigHistoryDays: func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 366 {
			return fmt.Errorf("%s must be a whole number between 1 and 366", ConfigHistoryDays)
		}
		return nil
	},
	ConfigOpenFoodFactsBaseURL: func(v string) error {
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			return fmt.Errorf("%s must be an http(s) URL", ConfigOpenFoodFactsBaseURL)
		}
		return nil
	},
}

// ConfigKeys lists the settings SetConfig accepts.
func ConfigKeys() []string {
	keys := make([]string, 0, len(configValidators))
	for k := range configValidators {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func SetConfig(db *sql.DB, key, value string) error {
	key = normalizeName(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	validate, ok := configValidators[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	if err := validate(value); err != nil {
		return err
	}
	_, err := db.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, value)
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

func GetConfig(db *sql.DB, key string) (string, bool, error) {
	key = normalizeName(key)
	if key == "" {
		return "", false, fmt.Errorf("config key is required")
	}
	var value string
	err := db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

func ListConfig(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}

// HistoryDays returns the configured history window length.
func HistoryDays(db *sql.DB) (int, error) {
	v, ok, err := GetConfig(db, ConfigHistoryDays)
	if err != nil || !ok {
		return DefaultHistoryDays, err
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return DefaultHistoryDays, nil
	}
	return n, nil
}
