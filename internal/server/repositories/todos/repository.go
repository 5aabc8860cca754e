package todos

import (
	"context"
	"time"

	"github.com/dmitrijs2005/demeter/internal/server/models"
)

// DayStat is one calendar-day aggregate of a user's todos.
type DayStat struct {
	Date           time.Time
	Count          int64
	CompletedCount int64
}

type Repository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	GetByID(ctx context.Context, id int64) (*models.Todo, error)
	Update(ctx context.Context, todo *models.Todo) error
	Delete(ctx context.Context, id int64, ownerID int64) error
	HistoryDays(ctx context.Context, ownerID int64, since time.Time) ([]DayStat, error)
	ListByOwnerOnDay(ctx context.Context, ownerID int64, day time.Time) ([]*models.Todo, error)
}
