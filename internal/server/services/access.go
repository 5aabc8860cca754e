package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/demeter/internal/common"
	"github.com/dmitrijs2005/demeter/internal/server/auth"
	"github.com/dmitrijs2005/demeter/internal/server/config"
	"github.com/dmitrijs2005/demeter/internal/server/models"
	"github.com/dmitrijs2005/demeter/internal/server/repositories/repomanager"
)

// AccessService resolves bearer tokens to acting users and enforces the
// write permission. Because tokens carry no identity claim, resolution is a
// linear scan over all users, recomputing the expected token per candidate.
// This is O(total users) per request, which is acceptable at the intended
// scale; embedding the user id in a signed token would remove the scan at
// the cost of a new token format.
type AccessService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokenSecret []byte
}

func NewAccessService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccessService {
	return &AccessService{
		db:          db,
		repomanager: m,
		tokenSecret: []byte(cfg.TokenSecret),
	}
}

// resolveUser finds the user whose (username, password_hash) pair produced
// the token. Missing token or no match both yield ErrorUnauthorized.
func (s *AccessService) resolveUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	list, err := repo.List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}

	for _, user := range list {
		if auth.Verify(token, user.Username, user.PasswordHash, s.tokenSecret) {
			return user, nil
		}
	}

	return nil, common.ErrorUnauthorized
}

// ResolveIdentity returns the id of the user the token belongs to.
func (s *AccessService) ResolveIdentity(ctx context.Context, token string) (int64, error) {
	user, err := s.resolveUser(ctx, token)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// RequireWriter resolves the token and additionally rejects readonly users
// with ErrorForbidden. A valid readonly token is never reported as
// unauthorized.
func (s *AccessService) RequireWriter(ctx context.Context, token string) (int64, error) {
	user, err := s.resolveUser(ctx, token)
	if err != nil {
		return 0, err
	}
	if user.Readonly {
		return 0, common.ErrorForbidden
	}
	return user.ID, nil
}

// ResolveReadScope returns the user id whose todos the caller may read:
// the token owner when the token resolves, otherwise the first public user.
// When neither exists it returns ok=false, which callers render as an empty
// list rather than an error.
func (s *AccessService) ResolveReadScope(ctx context.Context, token string) (int64, bool, error) {
	user, err := s.resolveUser(ctx, token)
	if err == nil {
		return user.ID, true, nil
	}
	if !errors.Is(err, common.ErrorUnauthorized) {
		return 0, false, err
	}

	repo := s.repomanager.Users(s.db)
	public, err := repo.GetFirstPublic(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, false, nil
		}
		return 0, false, common.ErrorInternal
	}
	return public.ID, true, nil
}
