package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/demeter/internal/common"
	"github.com/dmitrijs2005/demeter/internal/server/config"
	"github.com/dmitrijs2005/demeter/internal/server/models"
	"github.com/dmitrijs2005/demeter/internal/server/repositories/repomanager"
)

// TodoUpdate is a partial update: nil fields keep their stored values.
type TodoUpdate struct {
	Title       *string
	Description *string
	Emoji       *string
	Completed   *bool
}

// HistoryDay is one calendar-day bucket of the history view.
type HistoryDay struct {
	Date           time.Time
	Count          int64
	CompletedCount int64
	Tasks          []*models.Todo
}

// TodoService implements the todo CRUD and the per-day history aggregation,
// all scoped to an owning user.
type TodoService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	historyWindow time.Duration
}

func NewTodoService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TodoService {
	return &TodoService{
		db:            db,
		repomanager:   m,
		historyWindow: cfg.HistoryWindow,
	}
}

// List returns the owner's todos, newest first.
func (s *TodoService) List(ctx context.Context, ownerID int64) ([]*models.Todo, error) {
	repo := s.repomanager.Todos(s.db)

	list, err := repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Create stores a new todo for the owner. Title is required; an empty emoji
// falls back to the default marker.
func (s *TodoService) Create(ctx context.Context, ownerID int64, title string, description *string, emoji string) (*models.Todo, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
	}
	if emoji == "" {
		emoji = common.DefaultEmoji
	}

	now := time.Now()
	todo := &models.Todo{
		UserID:    ownerID,
		Title:     title,
		Emoji:     emoji,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if description != nil {
		todo.Description = sql.NullString{String: *description, Valid: true}
	}

	repo := s.repomanager.Todos(s.db)
	created, err := repo.Create(ctx, todo)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return created, nil
}

// Update fetches the todo by id alone, applies the provided fields and bumps
// updated_at. Unlike Delete there is no owner filter here; the upstream
// behavior is preserved as-is and the caller's write permission is the only
// gate.
func (s *TodoService) Update(ctx context.Context, id int64, upd TodoUpdate) (*models.Todo, error) {
	repo := s.repomanager.Todos(s.db)

	todo, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if upd.Title != nil {
		todo.Title = *upd.Title
	}
	if upd.Description != nil {
		todo.Description = sql.NullString{String: *upd.Description, Valid: true}
	}
	if upd.Emoji != nil {
		todo.Emoji = *upd.Emoji
	}
	if upd.Completed != nil {
		todo.Completed = *upd.Completed
	}
	todo.UpdatedAt = time.Now()

	if err := repo.Update(ctx, todo); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return todo, nil
}

// Delete removes the todo only when it belongs to the owner; a mismatched
// owner is indistinguishable from a missing row.
func (s *TodoService) Delete(ctx context.Context, id int64, ownerID int64) error {
	repo := s.repomanager.Todos(s.db)

	err := repo.Delete(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

// History groups the owner's todos created within the trailing window into
// calendar-day buckets, oldest day first, re-fetching each day's full task
// list.
func (s *TodoService) History(ctx context.Context, ownerID int64) ([]HistoryDay, error) {
	repo := s.repomanager.Todos(s.db)
	since := time.Now().Add(-s.historyWindow)

	stats, err := repo.HistoryDays(ctx, ownerID, since)
	if err != nil {
		return nil, common.ErrorInternal
	}

	result := make([]HistoryDay, 0, len(stats))
	for _, stat := range stats {
		tasks, err := repo.ListByOwnerOnDay(ctx, ownerID, stat.Date)
		if err != nil {
			return nil, common.ErrorInternal
		}
		result = append(result, HistoryDay{
			Date:           stat.Date,
			Count:          stat.Count,
			CompletedCount: stat.CompletedCount,
			Tasks:          tasks,
		})
	}

	return result, nil
}
