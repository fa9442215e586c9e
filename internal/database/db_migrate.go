package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var EmbeddedMigrationsFS embed.FS

// MigrationFile represents a migration file with its metadata
type MigrationFile struct {
	FileName    string
	Version     int
	Description string
}

// Migrate applies pending migrations to the main database
func (db *Database) Migrate() error {
	if err := ensureMigrationsTable(db.mainDB); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	migrations, err := getMigrationFiles()
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	applied, err := getAppliedMigrations(db.mainDB)
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}

	for _, migration := range migrations {
		if applied[migration.FileName] {
			continue
		}
		if err := db.applyMigration(migration); err != nil {
			log.Printf("[DB]: Failed to apply migration %s: %v", migration.FileName, err)
			return err
		}
	}

	return nil
}

// parseMigrationFileName parses a migration file name to extract metadata
func parseMigrationFileName(fileName string) (*MigrationFile, error) {
	if !strings.HasSuffix(fileName, ".sql") {
		return nil, fmt.Errorf("migration file must have .sql extension: %s", fileName)
	}

	name := strings.TrimSuffix(fileName, ".sql")
	parts := strings.SplitN(name, "_", 3)
	if len(parts) < 3 || parts[1] != "main" {
		return nil, fmt.Errorf("invalid migration file name format: %s (expected format: 0001_main_description.sql)", fileName)
	}

	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid version number in migration file: %s", fileName)
	}

	return &MigrationFile{
		FileName:    fileName,
		Version:     version,
		Description: parts[2],
	}, nil
}

// getMigrationFiles reads and parses all migration files from the embedded filesystem
func getMigrationFiles() ([]*MigrationFile, error) {
	files, err := fs.ReadDir(EmbeddedMigrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations directory: %w", err)
	}

	var migrations []*MigrationFile
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
			continue
		}
		migration, err := parseMigrationFileName(f.Name())
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, migration)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// ensureMigrationsTable creates the schema_migrations table if it doesn't exist
func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL UNIQUE,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// getAppliedMigrations returns a map of applied migration filenames
func getAppliedMigrations(db *sql.DB) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := db.Query(`SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var fname string
		if err := rows.Scan(&fname); err != nil {
			return nil, err
		}
		applied[fname] = true
	}

	return applied, rows.Err()
}

// applyMigration applies a single migration and records it as applied
func (db *Database) applyMigration(migration *MigrationFile) error {
	content, err := fs.ReadFile(EmbeddedMigrationsFS, "migrations/"+migration.FileName)
	if err != nil {
		return fmt.Errorf("failed to read embedded migration file %s: %w", migration.FileName, err)
	}

	if _, err := db.mainDB.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", migration.FileName, err)
	}

	if _, err := db.mainDB.Exec(`INSERT INTO schema_migrations (filename) VALUES (?)`, migration.FileName); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.FileName, err)
	}

	log.Printf("[DB]: Applied migration %s (%s)", migration.FileName, migration.Description)
	return nil
}
