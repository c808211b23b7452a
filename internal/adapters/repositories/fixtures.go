package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"shop-directory-service/internal/config"
	"shop-directory-service/internal/platform/db"
	"shop-directory-service/internal/platform/search"
	"shop-directory-service/internal/ports"
)

// Fixtures is the shop fixture store behind the upstream stub, whatever the backend.
type Fixtures struct {
	ports.ShopRepository

	Backend string
	init    func(ctx context.Context) error
	seed    func(ctx context.Context, seedPath string) (int, error)
	close   func() error
}

// OpenFixtures connects to the backend selected by cfg.Driver.
func OpenFixtures(ctx context.Context, cfg config.Store) (*Fixtures, error) {
	if cfg.Driver == "elasticsearch" {
		client, err := search.Open(ctx, search.Options{
			URL:        cfg.ElasticURL,
			Username:   cfg.ElasticUser,
			Password:   cfg.ElasticPassword,
			CACertPath: cfg.ElasticCACert,
		})
		if err != nil {
			return nil, fmt.Errorf("open fixtures: %w", err)
		}
		return NewElasticFixtures(NewElasticShopRepository(client, cfg.ElasticIndex)), nil
	}

	dialect, err := ParseDialect(cfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}

	var conn *sql.DB
	if dialect == Postgres {
		conn, err = db.Open(cfg.DatabaseURL)
	} else {
		conn, err = db.OpenSqlite(cfg.DBPath)
	}
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}

	return NewSQLFixtures(conn, dialect), nil
}

func NewSQLFixtures(conn *sql.DB, dialect Dialect) *Fixtures {
	return &Fixtures{
		ShopRepository: NewSQLShopRepository(conn, dialect),
		Backend:        string(dialect),
		init: func(ctx context.Context) error {
			return InitSchema(ctx, conn, dialect)
		},
		seed: func(ctx context.Context, seedPath string) (int, error) {
			return SeedFromJSON(ctx, conn, dialect, seedPath)
		},
		close: conn.Close,
	}
}

func NewElasticFixtures(repo *ElasticShopRepository) *Fixtures {
	return &Fixtures{
		ShopRepository: repo,
		Backend:        "elasticsearch",
		init:           repo.EnsureIndex,
		seed: func(ctx context.Context, seedPath string) (int, error) {
			shops, err := LoadSeedFile(seedPath)
			if err != nil {
				return 0, err
			}
			if err := repo.IndexShops(ctx, shops); err != nil {
				return 0, fmt.Errorf("seed shops: %w", err)
			}
			return len(shops), nil
		},
		close: func() error { return nil },
	}
}

// Init creates the schema or index when missing.
func (f *Fixtures) Init(ctx context.Context) error {
	if err := f.init(ctx); err != nil {
		return fmt.Errorf("init %s fixtures: %w", f.Backend, err)
	}
	return nil
}

// Seed loads the JSON file at seedPath and upserts its shops.
func (f *Fixtures) Seed(ctx context.Context, seedPath string) (int, error) {
	n, err := f.seed(ctx, seedPath)
	if err != nil {
		return 0, fmt.Errorf("seed %s fixtures: %w", f.Backend, err)
	}
	return n, nil
}

func (f *Fixtures) Close() error { return f.close() }
