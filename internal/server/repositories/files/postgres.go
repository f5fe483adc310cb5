package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const nodeColumns = `seq, id, user_id, name, type, parent_id, is_public, local_path, created_at`

// Create inserts the node. parent_id is NULL for Root, local_path is NULL for folders.
func (r *PostgresRepository) Create(ctx context.Context, node *models.FileNode) (*models.FileNode, error) {
	query := `
		INSERT INTO files (id, user_id, name, type, parent_id, is_public, local_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq
	`
	err := r.db.QueryRowContext(ctx, query,
		node.ID, node.OwnerID, node.Name, string(node.Kind), parentArg(node.Parent),
		node.IsPublic, nullString(node.ContentPath), node.CreatedAt,
	).Scan(&node.CreatedOrder)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return node, nil
}

// GetByID returns the node with id regardless of owner.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.FileNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM files WHERE id = $1`
	return scanNode(r.db.QueryRowContext(ctx, query, id))
}

// GetOwned returns the node with id only when it belongs to ownerID.
func (r *PostgresRepository) GetOwned(ctx context.Context, id, ownerID string) (*models.FileNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM files WHERE id = $1 AND user_id = $2`
	return scanNode(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// ListByParent returns one page of ownerID's nodes under parent ordered by seq.
func (r *PostgresRepository) ListByParent(ctx context.Context, ownerID string, parent models.ParentRef, limit, offset int) ([]*models.FileNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM files
		WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2
		ORDER BY seq
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, parentArg(parent), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := make([]*models.FileNode, 0, limit)
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, node)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetPublic sets is_public on ownerID's node. Exactly one row must match.
func (r *PostgresRepository) SetPublic(ctx context.Context, id, ownerID string, isPublic bool) error {
	query := `UPDATE files SET is_public = $1 WHERE id = $2 AND user_id = $3`
	res, err := r.db.ExecContext(ctx, query, isPublic, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Count returns the number of nodes of every owner.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(row scanner) (*models.FileNode, error) {
	var (
		node      models.FileNode
		kind      string
		parentID  sql.NullString
		localPath sql.NullString
	)
	err := row.Scan(&node.CreatedOrder, &node.ID, &node.OwnerID, &node.Name, &kind,
		&parentID, &node.IsPublic, &localPath, &node.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	node.Kind = models.NodeKind(kind)
	if parentID.Valid {
		node.Parent = models.ParentNode(parentID.String)
	}
	node.ContentPath = localPath.String
	return &node, nil
}

func parentArg(p models.ParentRef) sql.NullString {
	return nullString(p.ID())
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
