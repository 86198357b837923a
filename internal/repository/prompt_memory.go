package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var _ PromptRepository = &PromptMemory{}

// PromptMemory keeps prompt records in process memory for the lifetime of
// the process
type PromptMemory struct {
	items *cache.Cache
	now   func() time.Time
}

func NewPromptMemory() *PromptMemory {
	return &PromptMemory{
		items: cache.New(cache.NoExpiration, 0),
		now:   time.Now,
	}
}

func (r *PromptMemory) Create(_ context.Context, prompt entity.Prompt) (*entity.Prompt, error) {
	record := prompt
	record.ID = uuid.NewString()
	record.CreatedAt = r.now().UTC()

	if err := r.items.Add(record.ID, &record, cache.NoExpiration); err != nil {
		return nil, fmt.Errorf("create prompt %s: %w", record.ID, entity.ErrPromptExists)
	}

	return clonePrompt(&record), nil
}

func (r *PromptMemory) List(_ context.Context, limit int) ([]*entity.Prompt, error) {
	if limit <= 0 {
		return []*entity.Prompt{}, nil
	}

	items := r.items.Items()
	prompts := make([]*entity.Prompt, 0, len(items))
	for _, item := range items {
		p, ok := item.Object.(*entity.Prompt)
		if !ok {
			continue
		}
		prompts = append(prompts, p)
	}

	sort.Slice(prompts, func(i, j int) bool {
		if prompts[i].CreatedAt.Equal(prompts[j].CreatedAt) {
			return prompts[i].ID > prompts[j].ID
		}
		return prompts[i].CreatedAt.After(prompts[j].CreatedAt)
	})

	if len(prompts) > limit {
		prompts = prompts[:limit]
	}

	result := make([]*entity.Prompt, len(prompts))
	for i, p := range prompts {
		result[i] = clonePrompt(p)
	}

	return result, nil
}

func (r *PromptMemory) Get(_ context.Context, id string) (*entity.Prompt, error) {
	item, ok := r.items.Get(id)
	if !ok {
		return nil, entity.ErrPromptNotFound
	}

	p, ok := item.(*entity.Prompt)
	if !ok {
		return nil, errors.New("unexpected prompt record type")
	}

	return clonePrompt(p), nil
}

// Stored records are shared between readers, callers get their own copy.
func clonePrompt(p *entity.Prompt) *entity.Prompt {
	c := *p
	c.EnhancedPrompt = append([]byte(nil), p.EnhancedPrompt...)
	return &c
}
