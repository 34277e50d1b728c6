package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

type DoctorReport struct {
	OrphanEntries    int `json:"orphan_entries"`
	UnlistedMeals    int `json:"unlisted_meals"`
	EmptyDays        int `json:"empty_days"`
	RemovedOrphans   int `json:"removed_orphans,omitempty"`
	RegisteredMeals  int `json:"registered_meals,omitempty"`
	RemovedEmptyDays int `json:"removed_empty_days,omitempty"`
}

// CreateBackup writes a consistent snapshot of the open database to outPath
// with a .sha256 sidecar next to it.
func CreateBackup(db *sql.DB, outPath string) (BackupInfo, error) {
	outPath = strings.TrimSpace(outPath)
	if outPath == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if _, err := os.Stat(outPath); err == nil {
		return BackupInfo{}, fmt.Errorf("backup %s already exists", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if _, err := db.Exec(`VACUUM INTO ?`, outPath); err != nil {
		return BackupInfo{}, fmt.Errorf("snapshot database: %w", err)
	}
	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	return BackupInfo{Path: outPath, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

// RestoreBackup copies a backup over dbPath. The checksum sidecar, when
// present, must match. The target database must not be open.
func RestoreBackup(backupPath, dbPath string, force bool) error {
	backupPath = strings.TrimSpace(backupPath)
	dbPath = strings.TrimSpace(dbPath)
	if backupPath == "" || dbPath == "" {
		return fmt.Errorf("backup path and db path are required")
	}
	if _, err := os.Stat(dbPath); err == nil && !force {
		return fmt.Errorf("database %s already exists; use --force to overwrite", dbPath)
	}
	expected, err := os.ReadFile(backupPath + ".sha256")
	switch {
	case err == nil:
		actual, err := fileSHA256(backupPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(expected)) != actual {
			return fmt.Errorf("backup checksum mismatch for %s", backupPath)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("read checksum file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return copyFile(backupPath, dbPath)
}

// RunDoctor counts rows that break the day log's shape. With fix it deletes
// entries whose day row is gone, registers meals that have entries but no
// meal row, and deletes days with no meals.
func RunDoctor(db *sql.DB, fix bool) (DoctorReport, error) {
	report := DoctorReport{}
	checks := []struct {
		name  string
		query string
		dst   *int
	}{
		{"orphan entries", `SELECT COUNT(1) FROM food_entries fe LEFT JOIN daily_entries d ON d.date = fe.date WHERE d.date IS NULL`, &report.OrphanEntries},
		{"unlisted meals", `SELECT COUNT(1) FROM (SELECT DISTINCT fe.date, fe.meal_type FROM food_entries fe JOIN daily_entries d ON d.date = fe.date LEFT JOIN daily_entry_meals m ON m.date = fe.date AND m.meal_type = fe.meal_type WHERE m.date IS NULL)`, &report.UnlistedMeals},
		{"empty days", `SELECT COUNT(1) FROM daily_entries d WHERE NOT EXISTS (SELECT 1 FROM daily_entry_meals m WHERE m.date = d.date) AND NOT EXISTS (SELECT 1 FROM food_entries fe WHERE fe.date = d.date)`, &report.EmptyDays},
	}
	for _, c := range checks {
		if err := db.QueryRow(c.query).Scan(c.dst); err != nil {
			return report, fmt.Errorf("doctor %s check: %w", c.name, err)
		}
	}
	if !fix || report.OrphanEntries+report.UnlistedMeals+report.EmptyDays == 0 {
		return report, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("doctor fix begin tx: %w", err)
	}
	fixes := []struct {
		name  string
		query string
		dst   *int
	}{
		{"remove orphan entries", `DELETE FROM food_entries WHERE date NOT IN (SELECT date FROM daily_entries)`, &report.RemovedOrphans},
		{"register meals", `INSERT OR IGNORE INTO daily_entry_meals(date, meal_type) SELECT DISTINCT date, meal_type FROM food_entries`, &report.RegisteredMeals},
		{"remove empty days", `DELETE FROM daily_entries WHERE date NOT IN (SELECT date FROM daily_entry_meals) AND date NOT IN (SELECT date FROM food_entries)`, &report.RemovedEmptyDays},
	}
	for _, f := range fixes {
		res, err := tx.Exec(f.query)
		if err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("doctor %s: %w", f.name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("doctor %s: %w", f.name, err)
		}
		*f.dst = int(n)
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("doctor fix commit: %w", err)
	}
	return report, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync destination file: %w", err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
