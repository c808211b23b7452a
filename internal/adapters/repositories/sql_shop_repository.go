package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"shop-directory-service/internal/domain"
	"shop-directory-service/internal/platform/obs"
)

// SQL-backed implementation of the ShopRepository port.
// The same type serves Postgres (pgx driver) and SQLite (go-sqlite3);
// only placeholders and the upsert clause differ.
type SQLShopRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLShopRepository(db *sql.DB, dialect Dialect) *SQLShopRepository {
	return &SQLShopRepository{DB: db, Dialect: dialect}
}

// Return all shops ordered by id.
func (s *SQLShopRepository) ListShops(ctx context.Context) (_ []domain.Shop, err error) {
	defer obs.Time(ctx, "shops.repo.ListShops")(&err)

	if s.DB == nil {
		return nil, errors.New("shop repository: DB is nil")
	}

	query := `
	SELECT
		shop_id,
		name,
		primary_category,
		lon,
		lat
	FROM shops
	ORDER BY shop_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list shops: query shops table: %w", err)
	}
	defer rows.Close()

	shops := make([]domain.Shop, 0, 64)
	for rows.Next() {
		var (
			id       int
			name     string
			category string
			lon, lat sql.NullFloat64
		)
		if err := rows.Scan(&id, &name, &category, &lon, &lat); err != nil {
			return nil, fmt.Errorf("list shops: scan row: %w", err)
		}
		shops = append(shops, domain.Shop{
			ID:       id,
			Name:     name,
			Category: category,
			Location: locationFromColumns(lon, lat),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shops: row iteration: %w", err)
	}

	return shops, nil
}

// Insert or overwrite shops by id in one transaction.
func (s *SQLShopRepository) UpsertShops(ctx context.Context, shops []domain.Shop) error {
	if s.DB == nil {
		return errors.New("shop repository: DB is nil")
	}

	if len(shops) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert shops: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.upsertQuery())
	if err != nil {
		return fmt.Errorf("upsert shops: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, shop := range shops {
		lon, lat := columnsFromLocation(shop.Location)
		if _, err := stmt.ExecContext(ctx, shop.ID, shop.Name, shop.Category, lon, lat); err != nil {
			return fmt.Errorf("upsert shops: shop_id=%d: %w", shop.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert shops: commit: %w", err)
	}

	return nil
}

func (s *SQLShopRepository) upsertQuery() string {
	if s.Dialect == Postgres {
		return `
		INSERT INTO shops (shop_id, name, primary_category, lon, lat)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (shop_id) DO UPDATE
		SET name = EXCLUDED.name,
			primary_category = EXCLUDED.primary_category,
			lon = EXCLUDED.lon,
			lat = EXCLUDED.lat;
		`
	}

	return `
	INSERT OR REPLACE INTO shops (
		shop_id,
		name,
		primary_category,
		lon,
		lat
	)
	VALUES (?, ?, ?, ?, ?);
	`
}

// NULL columns stand for the missing tail of a short coordinate list.
func columnsFromLocation(loc domain.GeoLocation) (lon, lat sql.NullFloat64) {
	if len(loc.Coordinates) > 0 {
		lon = sql.NullFloat64{Float64: loc.Coordinates[0], Valid: true}
	}
	if len(loc.Coordinates) > 1 {
		lat = sql.NullFloat64{Float64: loc.Coordinates[1], Valid: true}
	}
	return lon, lat
}

func locationFromColumns(lon, lat sql.NullFloat64) domain.GeoLocation {
	if !lon.Valid {
		return domain.GeoLocation{}
	}
	if !lat.Valid {
		return domain.GeoLocation{Coordinates: []float64{lon.Float64}}
	}
	return domain.NewGeoLocation(lon.Float64, lat.Float64)
}
