package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
)

// Pinger is anything with a liveness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status reports whether the backing stores are reachable.
type Status struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// Stats holds global counts.
type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

type StatusService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       Pinger
	logger      logging.Logger
}

func NewStatusService(db *sql.DB, m repomanager.RepositoryManager, cache Pinger, l logging.Logger) *StatusService {
	return &StatusService{db: db, repomanager: m, cache: cache, logger: l.With("module", "status")}
}

func (s *StatusService) Status(ctx context.Context) Status {
	var st Status
	if err := s.cache.Ping(ctx); err != nil {
		s.logger.Warn(ctx, "cache ping failed", "error", err)
	} else {
		st.Redis = true
	}
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "database ping failed", "error", err)
	} else {
		st.DB = true
	}
	return st
}

func (s *StatusService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.repomanager.Users(s.db).Count(ctx)
	if err != nil {
		return nil, translate(ctx, s.logger, "count users", err)
	}
	files, err := s.repomanager.Files(s.db).Count(ctx)
	if err != nil {
		return nil, translate(ctx, s.logger, "count files", err)
	}
	return &Stats{Users: users, Files: files}, nil
}
