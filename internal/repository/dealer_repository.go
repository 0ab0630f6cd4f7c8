package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/motohunt/motohunt-api/internal/model"
)

// DealerRepo is the dealer directory.
type DealerRepo struct{ db *sql.DB }

func NewDealerRepo(db *sql.DB) *DealerRepo { return &DealerRepo{db: db} }

// ListIDs returns the ids of every dealer, in id order.
func (r *DealerRepo) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM dealers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list dealer ids: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListAll returns all dealers ordered by city.
func (r *DealerRepo) ListAll(ctx context.Context) ([]model.Dealer, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, city, location_area, contact_number FROM dealers ORDER BY city ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("list dealers: %w", err)
	}
	defer rows.Close()
	dealers := []model.Dealer{}
	for rows.Next() {
		var d model.Dealer
		if err := rows.Scan(&d.ID, &d.Name, &d.City, &d.LocationArea, &d.ContactNumber); err != nil {
			return nil, err
		}
		dealers = append(dealers, d)
	}
	return dealers, rows.Err()
}

// Create inserts a dealer and returns its id.
func (r *DealerRepo) Create(ctx context.Context, d model.Dealer) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO dealers (name, city, location_area, contact_number) VALUES (?, ?, ?, ?)",
		d.Name, d.City, d.LocationArea, d.ContactNumber)
	if err != nil {
		return 0, fmt.Errorf("insert dealer: %w", err)
	}
	return res.LastInsertId()
}
