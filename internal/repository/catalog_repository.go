package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/motohunt/motohunt-api/internal/model"
)

// CatalogRepo reads brands and bikes.  Listing queries are built from a
// fixed set of clauses; filter values are always bound as arguments.
type CatalogRepo struct{ db *sql.DB }

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// ListBrands returns all brands ordered by name.
func (r *CatalogRepo) ListBrands(ctx context.Context) ([]model.Brand, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, logo_url, country_of_origin FROM brands ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()
	brands := []model.Brand{}
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.LogoURL, &b.CountryOfOrigin); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

const bikeSelect = `SELECT b.id, b.brand_id, b.model_name, b.type, b.engine_cc, b.price_on_road,
       b.image_url, b.is_trending, br.name, br.country_of_origin
FROM bikes b
JOIN brands br ON br.id = b.brand_id`

// ListBikes returns bikes matching f, cheapest first.
func (r *CatalogRepo) ListBikes(ctx context.Context, f model.BikeFilter) ([]model.Bike, error) {
	var (
		where []string
		args  []any
	)
	if f.MinPrice != nil {
		where = append(where, "b.price_on_road >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "b.price_on_road <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.MinCC != nil {
		where = append(where, "b.engine_cc >= ?")
		args = append(args, *f.MinCC)
	}
	if f.MaxCC != nil {
		where = append(where, "b.engine_cc <= ?")
		args = append(args, *f.MaxCC)
	}
	if f.Brand != "" {
		where = append(where, "br.name = ?")
		args = append(args, f.Brand)
	}
	if f.Type != "" {
		where = append(where, "b.type = ?")
		args = append(args, f.Type)
	}
	q := bikeSelect
	if len(where) > 0 {
		q += "\nWHERE " + strings.Join(where, " AND ")
	}
	q += "\nORDER BY b.price_on_road ASC, b.id ASC"
	return r.queryBikes(ctx, q, args...)
}

// ListTrending returns bikes flagged as trending.
func (r *CatalogRepo) ListTrending(ctx context.Context) ([]model.Bike, error) {
	return r.queryBikes(ctx, bikeSelect+"\nWHERE b.is_trending = 1\nORDER BY b.id ASC")
}

// GetBike fetches one bike.  ErrNotFound when it does not exist.
func (r *CatalogRepo) GetBike(ctx context.Context, id int64) (model.Bike, error) {
	var b model.Bike
	err := r.db.QueryRowContext(ctx, bikeSelect+"\nWHERE b.id = ?", id).Scan(
		&b.ID, &b.BrandID, &b.ModelName, &b.Type, &b.EngineCC, &b.PriceOnRoad,
		&b.ImageURL, &b.IsTrending, &b.BrandName, &b.CountryOfOrigin)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bike{}, ErrNotFound
	}
	if err != nil {
		return model.Bike{}, fmt.Errorf("get bike %d: %w", id, err)
	}
	return b, nil
}

// BikeExists reports whether a bike with id exists.
func (r *CatalogRepo) BikeExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM bikes WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("bike exists %d: %w", id, err)
	}
	return true, nil
}

func (r *CatalogRepo) queryBikes(ctx context.Context, q string, args ...any) ([]model.Bike, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list bikes: %w", err)
	}
	defer rows.Close()
	bikes := []model.Bike{}
	for rows.Next() {
		var b model.Bike
		if err := rows.Scan(&b.ID, &b.BrandID, &b.ModelName, &b.Type, &b.EngineCC, &b.PriceOnRoad,
			&b.ImageURL, &b.IsTrending, &b.BrandName, &b.CountryOfOrigin); err != nil {
			return nil, err
		}
		bikes = append(bikes, b)
	}
	return bikes, rows.Err()
}

// CreateBrand inserts a brand and returns its id.
func (r *CatalogRepo) CreateBrand(ctx context.Context, b model.Brand) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO brands (name, logo_url, country_of_origin) VALUES (?, ?, ?)",
		b.Name, b.LogoURL, b.CountryOfOrigin)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("insert brand: %w", err)
	}
	return res.LastInsertId()
}

// CreateBike inserts a bike and returns its id.
func (r *CatalogRepo) CreateBike(ctx context.Context, b model.Bike) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bikes (brand_id, model_name, type, engine_cc, price_on_road, image_url, is_trending)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.BrandID, b.ModelName, b.Type, b.EngineCC, b.PriceOnRoad, b.ImageURL, b.IsTrending)
	if err != nil {
		return 0, fmt.Errorf("insert bike: %w", err)
	}
	return res.LastInsertId()
}
