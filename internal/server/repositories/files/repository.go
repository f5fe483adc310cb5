// Package files declares the repository contract for FileNode metadata and
// its PostgreSQL implementation.
package files

import (
	"context"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

type Repository interface {
	// Create inserts node and fills in its CreatedOrder.
	Create(ctx context.Context, node *models.FileNode) (*models.FileNode, error)
	GetByID(ctx context.Context, id string) (*models.FileNode, error)
	// GetOwned is GetByID restricted to ownerID; a foreign node is not found.
	GetOwned(ctx context.Context, id, ownerID string) (*models.FileNode, error)
	// ListByParent returns ownerID's children of parent in creation order.
	ListByParent(ctx context.Context, ownerID string, parent models.ParentRef, limit, offset int) ([]*models.FileNode, error)
	// SetPublic updates visibility; a missing or foreign node is not found.
	SetPublic(ctx context.Context, id, ownerID string, isPublic bool) error
	Count(ctx context.Context) (int64, error)
}
