package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"

	"github.com/ipvault/ipvault/internal/model"
)

// itemsSchema creates the items table. record_id is a ULID so that
// lexical order equals insertion order; token_id is deliberately not unique.
const itemsSchema = `
	CREATE TABLE IF NOT EXISTS minted_items (
		record_id            TEXT PRIMARY KEY,
		token_id             TEXT NOT NULL,
		title                TEXT NOT NULL DEFAULT '',
		description          TEXT NOT NULL DEFAULT '',
		enhanced_description TEXT NOT NULL DEFAULT '',
		tags                 TEXT[],
		file_type            TEXT NOT NULL DEFAULT '',
		file_url             TEXT NOT NULL DEFAULT '',
		owner                TEXT NOT NULL,
		price                TEXT NOT NULL DEFAULT '',
		vector               DOUBLE PRECISION[],
		created_at           TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_minted_items_owner ON minted_items (lower(owner));
`

// PostgresItemRepository stores items in PostgreSQL.
type PostgresItemRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresItemRepository connects to PostgreSQL and ensures the schema exists.
func NewPostgresItemRepository(ctx context.Context, databaseURL string) (*PostgresItemRepository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &PostgresItemRepository{pool: pool}
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return repo, nil
}

// EnsureSchema creates the items table if it does not exist.
func (r *PostgresItemRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, itemsSchema); err != nil {
		return fmt.Errorf("failed to create items schema: %w", err)
	}
	return nil
}

// Append inserts the item under a fresh record id.
func (r *PostgresItemRepository) Append(ctx context.Context, item *model.MintedItem) error {
	query := `
		INSERT INTO minted_items (record_id, token_id, title, description, enhanced_description,
			tags, file_type, file_url, owner, price, vector, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		ulid.Make().String(),
		item.ID,
		item.Title,
		item.Description,
		item.EnhancedDescription,
		pq.Array(item.Tags),
		item.FileType,
		item.FileURL,
		item.Owner,
		item.Price,
		pq.Array(item.Vector),
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// ListAll returns all items in insertion order.
func (r *PostgresItemRepository) ListAll(ctx context.Context) ([]model.MintedItem, error) {
	query := `
		SELECT token_id, title, description, enhanced_description, tags,
			file_type, file_url, owner, price, vector, created_at
		FROM minted_items
		ORDER BY record_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]model.MintedItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// Ping checks database connectivity.
func (r *PostgresItemRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the connection pool.
func (r *PostgresItemRepository) Close() error {
	r.pool.Close()
	return nil
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to the repository.
func (r *PostgresItemRepository) Pool() *pgxpool.Pool {
	return r.pool
}

func scanItem(row pgx.Row) (*model.MintedItem, error) {
	var (
		item   model.MintedItem
		tags   pq.StringArray
		vector pq.Float64Array
	)

	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.EnhancedDescription,
		&tags,
		&item.FileType,
		&item.FileURL,
		&item.Owner,
		&item.Price,
		&vector,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	item.Tags = []string(tags)
	item.Vector = []float64(vector)
	return &item, nil
}
