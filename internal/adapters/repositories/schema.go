package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"shop-directory-service/internal/adapters/shopapi"
	"shop-directory-service/internal/domain"
)

// Dialect selects placeholder style and DDL types for the shop fixture table.
type Dialect string

const (
	Postgres Dialect = "postgres"
	Sqlite   Dialect = "sqlite"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case Postgres, Sqlite:
		return Dialect(s), nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", s)
	}
}

// Initialize the shop fixture schema.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	coordType := "REAL"
	if dialect == Postgres {
		coordType = "DOUBLE PRECISION"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createShopsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS shops (
		shop_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		primary_category TEXT NOT NULL DEFAULT '',
		lon %[1]s,
		lat %[1]s
	);
	`, coordType)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_shops_primary_category
	ON shops(primary_category);
	`

	statements := []string{
		createShopsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// LoadSeedFile reads upstream-shaped shop JSON and validates ids.
// Field values go through the same permissive decoder the client uses.
func LoadSeedFile(jsonPath string) ([]domain.Shop, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed shops: read %q: %w", jsonPath, err)
	}

	shops, err := shopapi.DecodeShops(bytes)
	if err != nil {
		return nil, fmt.Errorf("seed shops: parse json: %w", err)
	}

	seen := make(map[int]struct{}, len(shops))
	for i, s := range shops {
		if s.ID <= 0 {
			return nil, fmt.Errorf("seed shops: invalid id at index %d: %d", i+1, s.ID)
		}
		if _, ok := seen[s.ID]; ok {
			return nil, fmt.Errorf("seed shops: duplicate id %d at index %d", s.ID, i+1)
		}
		seen[s.ID] = struct{}{}
	}

	return shops, nil
}

// Populate the shops table from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) (int, error) {
	shops, err := LoadSeedFile(jsonPath)
	if err != nil {
		return 0, err
	}

	repo := NewSQLShopRepository(db, dialect)
	if err := repo.UpsertShops(ctx, shops); err != nil {
		return 0, fmt.Errorf("seed shops: %w", err)
	}

	return len(shops), nil
}
