// Package auth resolves caller identity from session tokens and decides
// whether a caller may read or modify a node.
//
// Denied reads are reported as common.ErrorNotFound, never as unauthorized,
// so that a private node is indistinguishable from a missing one.
package auth

import (
	"context"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// SessionResolver is the read side of the session store.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (userID string, ok bool, err error)
}

type Guard struct {
	sessions SessionResolver
	logger   logging.Logger
}

func NewGuard(sessions SessionResolver, logger logging.Logger) *Guard {
	return &Guard{sessions: sessions, logger: logger.With("module", "auth")}
}

// Identify returns the user behind token or common.ErrorUnauthorized.
func (g *Guard) Identify(ctx context.Context, token string) (string, error) {
	userID, err := g.IdentifyOptional(ctx, token)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", common.ErrorUnauthorized
	}
	return userID, nil
}

// IdentifyOptional is Identify for endpoints that also serve anonymous
// callers; it returns "" instead of an error when there is no valid session.
func (g *Guard) IdentifyOptional(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}
	userID, ok, err := g.sessions.Resolve(ctx, token)
	if err != nil {
		g.logger.Error(ctx, "session lookup failed", "error", err)
		return "", common.ErrorInternal
	}
	if !ok {
		return "", nil
	}
	return userID, nil
}

// CanRead reports whether requester ("" for anonymous) may see node.
func CanRead(node *models.FileNode, requester string) bool {
	return node.IsPublic || (requester != "" && node.OwnerID == requester)
}

// CanWrite reports whether requester may modify node. Visibility is ignored.
func CanWrite(node *models.FileNode, requester string) bool {
	return requester != "" && node.OwnerID == requester
}

// AuthorizeRead masks a denied read as not found.
func AuthorizeRead(node *models.FileNode, requester string) error {
	if !CanRead(node, requester) {
		return common.ErrorNotFound
	}
	return nil
}

// AuthorizeWrite masks a denied write as not found.
func AuthorizeWrite(node *models.FileNode, requester string) error {
	if !CanWrite(node, requester) {
		return common.ErrorNotFound
	}
	return nil
}
