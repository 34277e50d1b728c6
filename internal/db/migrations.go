package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS profiles (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL DEFAULT '',
  age INTEGER NOT NULL CHECK(age > 0),
  sex TEXT NOT NULL CHECK(sex IN ('male', 'female')),
  height_cm REAL NOT NULL CHECK(height_cm > 0),
  weight_kg REAL NOT NULL CHECK(weight_kg > 0),
  activity_level TEXT NOT NULL,
  goal TEXT NOT NULL CHECK(goal IN ('lose', 'maintain', 'gain')),
  effective_date TEXT NOT NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(effective_date)
);

CREATE TABLE IF NOT EXISTS foods (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  name_norm TEXT NOT NULL,
  calories_per_serving REAL NOT NULL CHECK(calories_per_serving > 0),
  serving_size TEXT NOT NULL DEFAULT '',
  protein_g REAL CHECK(protein_g >= 0),
  carbs_g REAL CHECK(carbs_g >= 0),
  fat_g REAL CHECK(fat_g >= 0),
  brand TEXT NOT NULL DEFAULT '',
  barcode TEXT NOT NULL DEFAULT '',
  verified INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_foods_name_norm ON foods(name_norm);
CREATE INDEX IF NOT EXISTS idx_foods_barcode ON foods(barcode);

CREATE TABLE IF NOT EXISTS daily_entries (
  date TEXT PRIMARY KEY,
  target_calories INTEGER NOT NULL CHECK(target_calories >= 0),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS food_entries (
  id TEXT PRIMARY KEY,
  date TEXT NOT NULL,
  meal_type TEXT NOT NULL CHECK(meal_type IN ('breakfast', 'lunch', 'dinner', 'snack')),
  position INTEGER NOT NULL,
  food_id INTEGER,
  food_name TEXT NOT NULL,
  calories_per_serving REAL NOT NULL CHECK(calories_per_serving > 0),
  serving_size TEXT NOT NULL DEFAULT '',
  protein_g REAL,
  carbs_g REAL,
  fat_g REAL,
  brand TEXT NOT NULL DEFAULT '',
  barcode TEXT NOT NULL DEFAULT '',
  verified INTEGER NOT NULL DEFAULT 0,
  quantity REAL NOT NULL CHECK(quantity > 0),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(date) REFERENCES daily_entries(date) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_food_entries_date ON food_entries(date);
`,
	},
	{
		version: 2,
		name:    "app_config",
		sql: `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 3,
		name:    "daily_entry_meals",
		sql: `
CREATE TABLE IF NOT EXISTS daily_entry_meals (
  date TEXT NOT NULL,
  meal_type TEXT NOT NULL CHECK(meal_type IN ('breakfast', 'lunch', 'dinner', 'snack')),
  PRIMARY KEY(date, meal_type),
  FOREIGN KEY(date) REFERENCES daily_entries(date) ON DELETE CASCADE
);
`,
	},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}
	return nil
}
