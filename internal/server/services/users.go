package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/cryptox"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
	"github.com/google/uuid"
)

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    sessions.Store
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, s sessions.Store, l logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		sessions:    s,
		logger:      l.With("module", "users"),
	}
}

// Register creates an account. The password is stored as a salted argon2id
// hash only.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, common.ErrMissingEmail
	}
	if password == "" {
		return nil, common.ErrMissingPassword
	}

	salt := cryptox.NewSalt()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: cryptox.HashPassword([]byte(password), salt),
		Salt:         salt,
		CreatedAt:    time.Now().UTC(),
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, email)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		user, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, translate(ctx, s.logger, "register", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the credentials and opens a session.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", translate(ctx, s.logger, "login", err)
	}

	if !cryptox.VerifyPassword(user.PasswordHash, user.Salt, []byte(password)) {
		return "", common.ErrorUnauthorized
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", translate(ctx, s.logger, "create session", err)
	}
	return token, nil
}

// Logout revokes token. An unknown or expired token is unauthorized.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return common.ErrorUnauthorized
	}
	_, ok, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return translate(ctx, s.logger, "resolve session", err)
	}
	if !ok {
		return common.ErrorUnauthorized
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return translate(ctx, s.logger, "revoke session", err)
	}
	return nil
}

// Me returns the account of an identified caller.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, translate(ctx, s.logger, "get user", err)
	}
	return user, nil
}
