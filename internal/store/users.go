package store

import (
	"context"
	"database/sql"

	"jewelshop/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetUserByEmail retrieves a user by email. Returns (nil, nil) when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID. Returns (nil, nil) when absent.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetVendorByUserID retrieves the vendor record owned by a user account.
// Returns (nil, nil) when the user is not a vendor.
func (s *Store) GetVendorByUserID(ctx context.Context, userID int64) (*models.Vendor, error) {
	var vendor models.Vendor
	err := s.db.GetContext(ctx, &vendor, "SELECT * FROM vendors WHERE user_id = $1", userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// GetVendorsByIDs retrieves multiple vendors keyed by ID
func (s *Store) GetVendorsByIDs(ctx context.Context, ids []int64) (map[int64]models.Vendor, error) {
	result := make(map[int64]models.Vendor, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In("SELECT * FROM vendors WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var vendors []models.Vendor
	if err := s.db.SelectContext(ctx, &vendors, query, args...); err != nil {
		return nil, err
	}

	for _, v := range vendors {
		result[v.ID] = v
	}
	return result, nil
}
