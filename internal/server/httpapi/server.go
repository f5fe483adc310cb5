// Package httpapi exposes the services over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// Identifier resolves the X-Token header.
type Identifier interface {
	Identify(ctx context.Context, token string) (string, error)
	IdentifyOptional(ctx context.Context, token string) (string, error)
}

type UserAPI interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, userID string) (*models.User, error)
}

type FileAPI interface {
	Create(ctx context.Context, ownerID string, req services.CreateRequest) (*services.Created, error)
	Get(ctx context.Context, id, requester string) (*models.FileNode, error)
	List(ctx context.Context, requester, parent string, page int) ([]*models.FileNode, error)
	SetVisibility(ctx context.Context, id, requester string, isPublic bool) (*models.FileNode, error)
	ReadContent(ctx context.Context, id, requester string, size int) (*services.Content, error)
}

type StatusAPI interface {
	Status(ctx context.Context) services.Status
	Stats(ctx context.Context) (*services.Stats, error)
}

type Server struct {
	address string
	guard   Identifier
	users   UserAPI
	files   FileAPI
	status  StatusAPI
	logger  logging.Logger
}

func NewServer(address string, guard Identifier, users UserAPI, files FileAPI, status StatusAPI, l logging.Logger) *Server {
	return &Server{
		address: address,
		guard:   guard,
		users:   users,
		files:   files,
		status:  status,
		logger:  l.With("module", "http_server"),
	}
}

// Handler returns the routed API with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /status", s.getStatus)
	mux.HandleFunc("GET /stats", s.getStats)

	mux.HandleFunc("POST /users", s.postUser)
	mux.HandleFunc("GET /users/me", s.requireUser(s.getMe))
	mux.HandleFunc("GET /connect", s.getConnect)
	mux.HandleFunc("GET /disconnect", s.getDisconnect)

	mux.HandleFunc("POST /files", s.requireUser(s.postFile))
	mux.HandleFunc("GET /files", s.requireUser(s.getFiles))
	mux.HandleFunc("GET /files/{id}", s.requireUser(s.getFile))
	mux.HandleFunc("PUT /files/{id}/publish", s.requireUser(s.putPublish))
	mux.HandleFunc("PUT /files/{id}/unpublish", s.requireUser(s.putUnpublish))
	mux.HandleFunc("GET /files/{id}/data", s.optionalUser(s.getFileData))

	return s.logRequests(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
