package repository

import (
	"context"
	"errors"
	"fmt"

	"furnistore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const addressColumns = `id, user_id, name, phone, line1, line2, city, state, postal_code, is_default, created_at, updated_at`

// addressRepository implements the AddressRepository interface using PostgreSQL.
type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

func scanAddress(row pgx.Row, a *model.Address) error {
	return row.Scan(&a.ID, &a.UserID, &a.Name, &a.Phone, &a.Line1, &a.Line2,
		&a.City, &a.State, &a.PostalCode, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
}

// ListByUser returns the user's addresses, default first.
func (r *addressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at, id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query addresses")
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	addresses := []model.Address{}
	for rows.Next() {
		var a model.Address
		if err := scanAddress(rows, &a); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan address row")
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating address rows")
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

// GetByID retrieves an address owned by the user.
func (r *addressRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND user_id = $2`

	var a model.Address
	if err := scanAddress(r.pool.QueryRow(ctx, query, id, userID), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("address_id", id.String()).Msg("address not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}

	return &a, nil
}

// Create inserts an address. The user's first address always becomes the default.
func (r *addressRepository) Create(ctx context.Context, address *model.Address) error {
	return r.inTx(ctx, address.UserID, func(tx pgx.Tx) error {
		var hasDefault bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM addresses WHERE user_id = $1 AND is_default)`,
			address.UserID,
		).Scan(&hasDefault)
		if err != nil {
			return fmt.Errorf("failed to check default address: %w", err)
		}
		if !hasDefault {
			address.IsDefault = true
		}

		if address.IsDefault {
			if err := clearDefault(ctx, tx, address.UserID); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO addresses (` + addressColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		_, err = tx.Exec(ctx, query,
			address.ID, address.UserID, address.Name, address.Phone, address.Line1, address.Line2,
			address.City, address.State, address.PostalCode, address.IsDefault,
			address.CreatedAt, address.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Str("address_id", address.ID.String()).Msg("failed to create address")
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
}

// Update overwrites an address owned by address.UserID.
func (r *addressRepository) Update(ctx context.Context, address *model.Address) (bool, error) {
	var found bool
	err := r.inTx(ctx, address.UserID, func(tx pgx.Tx) error {
		if address.IsDefault {
			if err := clearDefault(ctx, tx, address.UserID); err != nil {
				return err
			}
		}

		query := `
			UPDATE addresses
			SET name = $3, phone = $4, line1 = $5, line2 = $6, city = $7, state = $8,
				postal_code = $9, is_default = is_default OR $10, updated_at = $11
			WHERE id = $1 AND user_id = $2
			RETURNING ` + addressColumns

		err := scanAddress(tx.QueryRow(ctx, query,
			address.ID, address.UserID, address.Name, address.Phone, address.Line1, address.Line2,
			address.City, address.State, address.PostalCode, address.IsDefault, address.UpdatedAt,
		), address)
		if errors.Is(err, pgx.ErrNoRows) {
			return errNoMatch
		}
		if err != nil {
			r.logger.Error().Err(err).Str("address_id", address.ID.String()).Msg("failed to update address")
			return fmt.Errorf("failed to update address: %w", err)
		}
		found = true
		return nil
	})
	if errors.Is(err, errNoMatch) {
		return false, nil
	}
	return found, err
}

// Delete removes an address owned by the user. When the default is removed,
// the user's oldest remaining address becomes the default.
func (r *addressRepository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	err := r.inTx(ctx, userID, func(tx pgx.Tx) error {
		var wasDefault bool
		err := tx.QueryRow(ctx,
			`DELETE FROM addresses WHERE id = $1 AND user_id = $2 RETURNING is_default`,
			id, userID,
		).Scan(&wasDefault)
		if errors.Is(err, pgx.ErrNoRows) {
			return errNoMatch
		}
		if err != nil {
			r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to delete address")
			return fmt.Errorf("failed to delete address: %w", err)
		}
		if !wasDefault {
			return nil
		}

		_, err = tx.Exec(ctx, `
			UPDATE addresses SET is_default = TRUE, updated_at = NOW()
			WHERE id = (
				SELECT id FROM addresses WHERE user_id = $1
				ORDER BY created_at, id
				LIMIT 1
			)`, userID)
		if err != nil {
			r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to promote default address")
			return fmt.Errorf("failed to promote default address: %w", err)
		}
		return nil
	})
	if errors.Is(err, errNoMatch) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetDefault marks the address as the user's only default.
func (r *addressRepository) SetDefault(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	err := r.inTx(ctx, userID, func(tx pgx.Tx) error {
		if err := clearDefault(ctx, tx, userID); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE addresses SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`,
			id, userID,
		)
		if err != nil {
			r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to set default address")
			return fmt.Errorf("failed to set default address: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errNoMatch
		}
		return nil
	})
	if errors.Is(err, errNoMatch) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// errNoMatch rolls back a transaction whose target row does not exist.
var errNoMatch = errors.New("no matching row")

func clearDefault(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND is_default`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}
	return nil
}

// inTx runs fn in a transaction holding the user's address lock, so default
// handling for one user is serialised.
func (r *addressRepository) inTx(ctx context.Context, userID uuid.UUID, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, userID.String()); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to lock addresses")
		return fmt.Errorf("failed to lock addresses: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
