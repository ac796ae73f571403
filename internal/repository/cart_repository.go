package repository

import (
	"context"
	"fmt"

	"furnistore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const addCartItemQuery = `
	INSERT INTO cart_items (user_id, product_id, quantity, added_at)
	VALUES ($1, $2, LEAST($3::int, $4::int), NOW())
	ON CONFLICT (user_id, product_id)
	DO UPDATE SET quantity = LEAST(cart_items.quantity + EXCLUDED.quantity, $4::int)
`

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// ListItems returns the user's cart items in the order they were added.
func (r *cartRepository) ListItems(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	query := `
		SELECT user_id, product_id, quantity, added_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY added_at, product_id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.UserID, &item.ProductID, &item.Quantity, &item.AddedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// AddItem inserts a line or adds quantity to an existing one.
func (r *cartRepository) AddItem(ctx context.Context, userID uuid.UUID, productID string, quantity int) error {
	return addCartItem(ctx, r.pool, r.logger, userID, productID, quantity)
}

func addCartItem(ctx context.Context, db execer, logger zerolog.Logger, userID uuid.UUID, productID string, quantity int) error {
	if _, err := db.Exec(ctx, addCartItemQuery, userID, productID, quantity, model.MaxLineQuantity); err != nil {
		logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID).
			Msg("failed to add cart item")
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// SetQuantity overwrites the quantity of an existing line.
func (r *cartRepository) SetQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (bool, error) {
	query := `
		UPDATE cart_items
		SET quantity = $3
		WHERE user_id = $1 AND product_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, userID, productID, quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID).
			Msg("failed to update cart item")
		return false, fmt.Errorf("failed to update cart item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RemoveItem deletes a line.
func (r *cartRepository) RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID).
			Msg("failed to remove cart item")
		return false, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Clear empties the user's cart.
func (r *cartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().
		Str("user_id", userID.String()).
		Int64("removed", tag.RowsAffected()).
		Msg("cart cleared")

	return nil
}

// RemoveOrderedTx deletes exactly the given lines within the provided
// transaction. A line matches only when its quantity is unchanged. It reports
// false when any line no longer matches; lines added since the snapshot are
// never touched.
func (r *cartRepository) RemoveOrderedTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, lines []model.CartItem) (bool, error) {
	query := `
		DELETE FROM cart_items c
		USING unnest($2::text[], $3::int[]) AS ordered(product_id, quantity)
		WHERE c.user_id = $1
		  AND c.product_id = ordered.product_id
		  AND c.quantity = ordered.quantity
	`

	productIDs := make([]string, len(lines))
	quantities := make([]int32, len(lines))
	for i, line := range lines {
		productIDs[i] = line.ProductID
		quantities[i] = int32(line.Quantity)
	}

	tag, err := tx.Exec(ctx, query, userID, productIDs, quantities)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to remove ordered cart items")
		return false, fmt.Errorf("failed to remove ordered cart items: %w", err)
	}

	matched := tag.RowsAffected() == int64(len(lines))
	if !matched {
		r.logger.Warn().
			Str("user_id", userID.String()).
			Int("expected", len(lines)).
			Int64("removed", tag.RowsAffected()).
			Msg("cart changed during checkout")
	}

	return matched, nil
}
