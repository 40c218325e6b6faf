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

var draftColumns = []string{
	"id", "client_id", "research_id", "topic", "platform",
	"title", "body", "notes", "score", "word_count", "status", "created_at",
}

// InsertDraft writes one Strategist output row.
func (s *Store) InsertDraft(ctx context.Context, draft *model.ContentDraft) error {
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now().UTC()
	}

	query, args, err := builder.
		Insert("content_drafts").
		Columns(draftColumns...).
		Values(draft.ID, draft.ClientID, draft.ResearchID, draft.Topic, string(draft.Platform),
			draft.Title, draft.Body, draft.Notes, draft.Score, draft.WordCount,
			string(draft.Status), encodeTime(draft.CreatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting draft: %w", err)
	}
	return nil
}

// ListDrafts returns a client's drafts, newest first.
func (s *Store) ListDrafts(ctx context.Context, clientID string) ([]*model.ContentDraft, error) {
	query, args, err := builder.
		Select(draftColumns...).
		From("content_drafts").
		Where(sq.Eq{"client_id": clientID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var drafts []*model.ContentDraft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, rows.Err()
}

// UpdateDraftStatus flips a draft's review state. This is the dashboard's
// write path: the pipeline itself never updates drafts.
func (s *Store) UpdateDraftStatus(ctx context.Context, id string, status model.DraftStatus) error {
	query, args, err := builder.
		Update("content_drafts").
		Set("status", string(status)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating draft status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating draft status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanDraft(row rowScanner) (*model.ContentDraft, error) {
	var (
		draft              model.ContentDraft
		platform, status   string
		createdAt          string
	)
	err := row.Scan(&draft.ID, &draft.ClientID, &draft.ResearchID, &draft.Topic, &platform,
		&draft.Title, &draft.Body, &draft.Notes, &draft.Score, &draft.WordCount,
		&status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("draft: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning draft: %w", err)
	}

	draft.Platform = model.DraftPlatform(platform)
	draft.Status = model.DraftStatus(status)
	draft.CreatedAt = decodeTime(createdAt)
	return &draft, nil
}
