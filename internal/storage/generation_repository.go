package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/logo-generator/internal/model"
)

// DefaultListLimit caps ListRecent when the caller passes a non-positive limit.
const DefaultListLimit = 50

// GenerationRepository persists the outcome of /generate calls.
// Go interfaces are implicit — the service depends on this interface only, so
// tests can hand it a fake without a database.
type GenerationRepository interface {
	Create(ctx context.Context, gen *model.Generation) error
	ListRecent(ctx context.Context, limit int) ([]model.Generation, error)
	Count(ctx context.Context) (int64, error)
	CountByOutcome(ctx context.Context, outcome model.GenerationOutcome) (int64, error)
}

// sqliteGenerationRepository is the SQLite implementation of GenerationRepository.
type sqliteGenerationRepository struct {
	db *sqlx.DB
}

// NewGenerationRepository creates a new SQLite-backed GenerationRepository.
func NewGenerationRepository(db *sqlx.DB) GenerationRepository {
	return &sqliteGenerationRepository{db: db}
}

func (r *sqliteGenerationRepository) Create(ctx context.Context, gen *model.Generation) error {
	// NamedExecContext maps the struct's `db:` tags to :named placeholders.
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO generations (text_len, outcome, client_ip, request_id)
		VALUES (:text_len, :outcome, :client_ip, :request_id)
	`, gen)
	if err != nil {
		return fmt.Errorf("creating generation record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	gen.ID = id
	return nil
}

// ListRecent returns the newest records first.
func (r *sqliteGenerationRepository) ListRecent(ctx context.Context, limit int) ([]model.Generation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var gens []model.Generation
	err := r.db.SelectContext(ctx, &gens,
		"SELECT * FROM generations ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}
	return gens, nil
}

func (r *sqliteGenerationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM generations"); err != nil {
		return 0, fmt.Errorf("counting generations: %w", err)
	}
	return count, nil
}

func (r *sqliteGenerationRepository) CountByOutcome(ctx context.Context, outcome model.GenerationOutcome) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM generations WHERE outcome = ?", outcome)
	if err != nil {
		return 0, fmt.Errorf("counting %s generations: %w", outcome, err)
	}
	return count, nil
}
