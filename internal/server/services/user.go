// Package services contains server-side business logic. This file implements
// UserService, which handles registration, provisioning, login, and the
// public-access settings of a user.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/demeter/internal/common"
	"github.com/dmitrijs2005/demeter/internal/server/auth"
	"github.com/dmitrijs2005/demeter/internal/server/config"
	"github.com/dmitrijs2005/demeter/internal/server/models"
	"github.com/dmitrijs2005/demeter/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// UserService provides credential-store operations:
// - CreateUser / Register: create users (explicit flags vs. defaults)
// - Login: verify credentials and derive the bearer token
// - UpdatePublicAccess: the only post-creation user mutation
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokenSecret []byte
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokenSecret: []byte(cfg.TokenSecret),
	}
}

// ValidateCredentials enforces the minimum username and password lengths.
// It runs before any hashing or storage access.
func ValidateCredentials(username, password string) error {
	if len(username) < common.MinUsernameLength {
		return fmt.Errorf("%w: username must be at least %d characters",
			common.ErrorValidation, common.MinUsernameLength)
	}
	if len(password) < common.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters",
			common.ErrorValidation, common.MinPasswordLength)
	}
	return nil
}

// CreateUser validates the credentials, pre-checks username availability so
// the caller gets an actionable message, hashes the password with bcrypt and
// inserts the user. Two concurrent calls with the same username may both
// pass the pre-check; the unique index on users.username is the backstop.
func (s *UserService) CreateUser(ctx context.Context, username, password string, publicAccess, readonly bool) (*models.User, error) {
	if err := ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByUsername(ctx, username)
	if err == nil {
		return nil, common.ErrorUsernameTaken
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		PublicAccess: publicAccess,
		Readonly:     readonly,
	}
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Register creates a regular user: not public, not readonly.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	return s.CreateUser(ctx, username, password, false, false)
}

// Login verifies the password against the stored bcrypt hash and, on
// success, returns the user together with their bearer token. An unknown
// username and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", common.ErrorUnauthorized
	}

	token := auth.Token(user.Username, user.PasswordHash, s.tokenSecret)
	return user, token, nil
}

// UpdatePublicAccess flips the public-access flag of the given user and
// returns the updated record.
func (s *UserService) UpdatePublicAccess(ctx context.Context, userID int64, value bool) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.UpdatePublicAccess(ctx, userID, value)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// FirstUser returns the stored user with the lowest id, or ErrorNotFound
// when no users exist. The public-access endpoint reports this user's flag.
func (s *UserService) FirstUser(ctx context.Context) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	list, err := repo.List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if len(list) == 0 {
		return nil, common.ErrorNotFound
	}
	return list[0], nil
}
