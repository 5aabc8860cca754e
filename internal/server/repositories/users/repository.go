package users

import (
	"context"

	"github.com/dmitrijs2005/demeter/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	GetFirstPublic(ctx context.Context) (*models.User, error)
	UpdatePublicAccess(ctx context.Context, id int64, value bool) (*models.User, error)
}
