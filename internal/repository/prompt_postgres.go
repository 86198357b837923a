package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	insertPromptQuery = `
INSERT INTO prompts (id, raw_prompt, enhanced_prompt)
VALUES ($1, $2, $3)
RETURNING id, raw_prompt, enhanced_prompt, created_at`

	listPromptsQuery = `
SELECT id, raw_prompt, enhanced_prompt, created_at
FROM prompts
ORDER BY created_at DESC, id DESC
LIMIT $1`

	getPromptQuery = `
SELECT id, raw_prompt, enhanced_prompt, created_at
FROM prompts
WHERE id = $1`

	uniqueViolationCode = "23505"
)

var _ PromptRepository = &PromptPostgres{}

// PromptPostgres implements PromptRepository using PostgreSQL
type PromptPostgres struct {
	db *pgxpool.Pool
}

func NewPromptPostgres(db *pgxpool.Pool) *PromptPostgres {
	return &PromptPostgres{
		db: db,
	}
}

func (r *PromptPostgres) Create(ctx context.Context, prompt entity.Prompt) (*entity.Prompt, error) {
	id := uuid.New()

	row := r.db.QueryRow(ctx, insertPromptQuery,
		pgtype.UUID{Bytes: id, Valid: true},
		prompt.RawPrompt,
		[]byte(prompt.EnhancedPrompt),
	)

	result, err := scanPrompt(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, fmt.Errorf("create prompt %s: %w", id, entity.ErrPromptExists)
		}
		return nil, fmt.Errorf("create prompt: %w", err)
	}

	return result, nil
}

func (r *PromptPostgres) List(ctx context.Context, limit int) ([]*entity.Prompt, error) {
	if limit <= 0 {
		return []*entity.Prompt{}, nil
	}

	rows, err := r.db.Query(ctx, listPromptsQuery, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	prompts := make([]*entity.Prompt, 0, limit)
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}

	return prompts, nil
}

func (r *PromptPostgres) Get(ctx context.Context, id string) (*entity.Prompt, error) {
	promptID, err := uuid.Parse(id)
	if err != nil {
		// Not a UUID, so it can't name a stored record
		return nil, entity.ErrPromptNotFound
	}

	p, err := scanPrompt(r.db.QueryRow(ctx, getPromptQuery, pgtype.UUID{Bytes: promptID, Valid: true}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrPromptNotFound
		}
		return nil, fmt.Errorf("get prompt: %w", err)
	}

	return p, nil
}

func scanPrompt(row pgx.Row) (*entity.Prompt, error) {
	var (
		id        pgtype.UUID
		raw       string
		enhanced  []byte
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&id, &raw, &enhanced, &createdAt); err != nil {
		return nil, err
	}

	return &entity.Prompt{
		ID:             uuid.UUID(id.Bytes).String(),
		RawPrompt:      raw,
		EnhancedPrompt: enhanced,
		CreatedAt:      createdAt.Time.UTC(),
	}, nil
}
