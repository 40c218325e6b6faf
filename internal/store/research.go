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

var researchColumns = []string{
	"id", "client_id", "city", "raw_text",
	"services", "pricing", "gaps", "keywords", "status", "backend",
	"competitor_count", "created_at",
}

// InsertResearchRecord writes one Researcher run's output. Records are
// immutable once written.
func (s *Store) InsertResearchRecord(ctx context.Context, record *model.ResearchRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	services, err := encodeJSON(record.Extraction.Services)
	if err != nil {
		return err
	}
	pricing, err := encodeJSON(record.Extraction.Pricing)
	if err != nil {
		return err
	}
	gaps, err := encodeJSON(record.Extraction.Gaps)
	if err != nil {
		return err
	}
	keywords, err := encodeJSON(record.Extraction.Keywords)
	if err != nil {
		return err
	}

	query, args, err := builder.
		Insert("research_records").
		Columns(researchColumns...).
		Values(record.ID, record.ClientID, record.City, record.RawText,
			services, pricing, gaps, keywords, string(record.Extraction.Status), record.Extraction.Backend,
			record.CompetitorCount, encodeTime(record.CreatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting research record: %w", err)
	}
	return nil
}

// LatestResearchRecord returns the newest record for a client.
func (s *Store) LatestResearchRecord(ctx context.Context, clientID string) (*model.ResearchRecord, error) {
	query, args, err := builder.
		Select(researchColumns...).
		From("research_records").
		Where(sq.Eq{"client_id": clientID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	return scanResearchRecord(s.db.QueryRowContext(ctx, query, args...))
}

// ResearchRecordByID returns one record by identifier.
func (s *Store) ResearchRecordByID(ctx context.Context, id string) (*model.ResearchRecord, error) {
	query, args, err := builder.
		Select(researchColumns...).
		From("research_records").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	return scanResearchRecord(s.db.QueryRowContext(ctx, query, args...))
}

// CountResearchRecords reports how many records a client has.
func (s *Store) CountResearchRecords(ctx context.Context, clientID string) (int, error) {
	query, args, err := builder.
		Select("COUNT(*)").
		From("research_records").
		Where(sq.Eq{"client_id": clientID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting research records: %w", err)
	}
	return count, nil
}

func scanResearchRecord(row rowScanner) (*model.ResearchRecord, error) {
	var (
		record                       model.ResearchRecord
		services, pricing, gaps, kws string
		status, backend, createdAt   string
	)
	err := row.Scan(&record.ID, &record.ClientID, &record.City, &record.RawText,
		&services, &pricing, &gaps, &kws, &status, &backend,
		&record.CompetitorCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("research record: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning research record: %w", err)
	}

	record.Extraction = model.EmptyExtraction(model.ExtractionStatus(status))
	record.Extraction.Backend = backend
	if err := decodeJSON(services, &record.Extraction.Services); err != nil {
		return nil, fmt.Errorf("decoding services: %w", err)
	}
	if err := decodeJSON(pricing, &record.Extraction.Pricing); err != nil {
		return nil, fmt.Errorf("decoding pricing: %w", err)
	}
	if err := decodeJSON(gaps, &record.Extraction.Gaps); err != nil {
		return nil, fmt.Errorf("decoding gaps: %w", err)
	}
	if err := decodeJSON(kws, &record.Extraction.Keywords); err != nil {
		return nil, fmt.Errorf("decoding keywords: %w", err)
	}
	record.CreatedAt = decodeTime(createdAt)
	return &record, nil
}
