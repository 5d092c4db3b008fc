package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	pg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const (
	migrationsDir   = "migrations"
	migrationsTable = "schema_migrations_migrate"
)

// schemaSteps maps each migration to the table it creates, in order.
var schemaSteps = []struct {
	version int
	table   string
}{
	{1, "rack_results"},
	{2, "admin_accounts"},
	{3, "runtime_config"},
}

// RunMigrations applies ./migrations with the postgres driver. A database
// created before migrate tracked it (tables present, no metadata table) is
// first forced to the last version whose tables all exist, so only the
// missing steps run.
func RunMigrations(databaseURL string) error {
	if databaseURL == "" {
		return fmt.Errorf("database URL is empty")
	}

	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	driver, err := pg.WithInstance(sqlDB, &pg.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	exists := func(name string) bool {
		var ok bool
		row := sqlDB.QueryRow("SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", name)
		return row.Scan(&ok) == nil && ok
	}

	if !exists(migrationsTable) {
		if v := baselineVersion(exists, findLatestMigrationVersion(migrationsDir)); v > 0 {
			log.Printf("[MIGRATE] Untracked schema found; baselining to version %d", v)
			if ferr := m.Force(v); ferr != nil {
				return fmt.Errorf("baseline to version %d: %w", v, ferr)
			}
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		log.Printf("[MIGRATE] Applied, version unknown: %v", verr)
		return nil
	}
	log.Printf("[MIGRATE] Schema at version %d (dirty=%v)", version, dirty)
	return nil
}

// baselineVersion returns the highest schema step whose table and every
// earlier step's table exist, capped at latest. 0 means a fresh database.
func baselineVersion(exists func(table string) bool, latest int64) int {
	version := 0
	for _, step := range schemaSteps {
		if int64(step.version) > latest || !exists(step.table) {
			break
		}
		version = step.version
	}
	return version
}

// findLatestMigrationVersion returns the highest numeric prefix (000001_) in dir.
func findLatestMigrationVersion(dir string) int64 {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	re := regexp.MustCompile(`^0*([0-9]+)_`)
	var max int64
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(f.Name())
		if len(m) < 2 {
			continue
		}
		v, _ := strconv.ParseInt(m[1], 10, 64)
		if v > max {
			max = v
		}
	}

	return max
}
