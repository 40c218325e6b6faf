package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/avdeyev/localscout/internal/model"
)

// CreateClient inserts a new client row.
func (s *Store) CreateClient(ctx context.Context, client *model.Client) error {
	if client.ID == "" {
		return errors.New("client id is required")
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}

	differentiators, err := encodeJSON(client.Differentiators)
	if err != nil {
		return err
	}

	query, args, err := builder.
		Insert("clients").
		Columns("id", "business_name", "city", "category", "website_url", "brand_tone", "differentiators", "created_at").
		Values(client.ID, client.BusinessName, client.City, client.Category, client.WebsiteURL, client.BrandTone, differentiators, encodeTime(client.CreatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting client: %w", err)
	}
	return nil
}

// GetClient looks a client up by identifier, case-insensitively. The returned
// client carries the stored identifier, which downstream writes must use.
func (s *Store) GetClient(ctx context.Context, id string) (*model.Client, error) {
	query, args, err := builder.
		Select("id", "business_name", "city", "category", "website_url", "brand_tone", "differentiators", "created_at").
		From("clients").
		Where(sq.Expr("lower(id) = lower(?)", id)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	return scanClient(s.db.QueryRowContext(ctx, query, args...))
}

// ListClients returns all clients ordered by creation time.
func (s *Store) ListClients(ctx context.Context) ([]*model.Client, error) {
	query, args, err := builder.
		Select("id", "business_name", "city", "category", "website_url", "brand_tone", "differentiators", "created_at").
		From("clients").
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var clients []*model.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*model.Client, error) {
	var (
		client          model.Client
		differentiators string
		createdAt       string
	)
	err := row.Scan(&client.ID, &client.BusinessName, &client.City, &client.Category,
		&client.WebsiteURL, &client.BrandTone, &differentiators, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning client: %w", err)
	}

	if err := decodeJSON(differentiators, &client.Differentiators); err != nil {
		return nil, fmt.Errorf("decoding differentiators: %w", err)
	}
	client.CreatedAt = decodeTime(createdAt)
	return &client, nil
}
