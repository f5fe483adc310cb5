package services

import (
	"context"
	"database/sql"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/auth"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// PageSize is the number of nodes returned per List page.
const PageSize = 20

const defaultContentType = "application/octet-stream"

// CreateRequest carries the caller-supplied fields of a new node. Type is
// kept raw so that an unknown kind can be reported as missing.
type CreateRequest struct {
	Name     string
	Type     string
	Parent   models.ParentRef
	IsPublic bool
	Data     []byte
}

// Created is the outcome of FileService.Create. EnqueueErr records a failed
// thumbnail enqueue, which does not fail the create.
type Created struct {
	Node       *models.FileNode
	EnqueueErr error
}

// Content is the payload of a node or of one of its variants.
type Content struct {
	Data        []byte
	ContentType string
}

type FileService struct {
	db                     *sql.DB
	repomanager            repomanager.RepositoryManager
	blobs                  blobstore.Store
	jobs                   queue.Producer
	logger                 logging.Logger
	enforceParentOwnership bool
}

// FileServiceOption tweaks a FileService.
type FileServiceOption func(*FileService)

// WithParentOwnership makes Create apply the write rule to the parent folder,
// so only its owner may add children. Without it any existing folder id is
// accepted.
func WithParentOwnership(enforce bool) FileServiceOption {
	return func(s *FileService) { s.enforceParentOwnership = enforce }
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store, jobs queue.Producer, l logging.Logger, opts ...FileServiceOption) *FileService {
	s := &FileService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		jobs:        jobs,
		logger:      l.With("module", "files"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create validates req, stores its content when the kind has any, persists the
// node and, for images, enqueues a thumbnail job.
func (s *FileService) Create(ctx context.Context, ownerID string, req CreateRequest) (*Created, error) {
	if req.Name == "" {
		return nil, common.ErrMissingName
	}
	kind, ok := models.ParseNodeKind(req.Type)
	if !ok {
		return nil, common.ErrMissingType
	}
	if kind.HasContent() && len(req.Data) == 0 {
		return nil, common.ErrMissingData
	}

	if !req.Parent.IsRoot() {
		if err := s.checkParent(ctx, ownerID, req.Parent.ID()); err != nil {
			return nil, translate(ctx, s.logger, "resolve parent", err)
		}
	}

	node := &models.FileNode{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      norm.NFC.String(req.Name),
		Kind:      kind,
		Parent:    req.Parent,
		IsPublic:  req.IsPublic,
		CreatedAt: time.Now().UTC(),
	}

	if kind.HasContent() {
		path, err := s.blobs.Write(ctx, req.Data)
		if err != nil {
			return nil, translate(ctx, s.logger, "write content", err)
		}
		node.ContentPath = path
	}

	node, err := s.repomanager.Files(s.db).Create(ctx, node)
	if err != nil {
		return nil, translate(ctx, s.logger, "create node", err)
	}

	created := &Created{Node: node}
	if kind == models.KindImage {
		job := models.ThumbnailJob{UserID: ownerID, FileID: node.ID}
		if err := s.jobs.Enqueue(ctx, job); err != nil {
			s.logger.Warn(ctx, "thumbnail enqueue failed", "file_id", node.ID, "error", err)
			created.EnqueueErr = err
		}
	}
	return created, nil
}

func (s *FileService) checkParent(ctx context.Context, ownerID, parentID string) error {
	if _, err := uuid.Parse(parentID); err != nil {
		return common.ErrParentNotFound
	}

	parent, err := s.repomanager.Files(s.db).GetByID(ctx, parentID)
	if err == nil && s.enforceParentOwnership {
		err = auth.AuthorizeWrite(parent, ownerID)
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrParentNotFound
		}
		return err
	}
	if !parent.IsFolder() {
		return common.ErrParentNotFolder
	}
	return nil
}

// Get returns the node if requester may read it. requester is "" for an
// anonymous caller.
func (s *FileService) Get(ctx context.Context, id, requester string) (*models.FileNode, error) {
	node, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeRead(node, requester); err != nil {
		return nil, err
	}
	return node, nil
}

// List returns one page of requester's own nodes under parent, in creation
// order. A malformed parent yields an empty page; a negative page is page 0.
func (s *FileService) List(ctx context.Context, requester, parent string, page int) ([]*models.FileNode, error) {
	ref, ok := models.ParseParentRef(parent)
	if !ok {
		return []*models.FileNode{}, nil
	}
	if page < 0 {
		page = 0
	}

	nodes, err := s.repomanager.Files(s.db).ListByParent(ctx, requester, ref, PageSize, page*PageSize)
	if err != nil {
		return nil, translate(ctx, s.logger, "list nodes", err)
	}
	return nodes, nil
}

// SetVisibility publishes or unpublishes one of requester's nodes.
func (s *FileService) SetVisibility(ctx context.Context, id, requester string, isPublic bool) (*models.FileNode, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	var node *models.FileNode
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Files(tx)
		n, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := auth.AuthorizeWrite(n, requester); err != nil {
			return err
		}
		if err := repo.SetPublic(ctx, id, requester, isPublic); err != nil {
			return err
		}
		n.IsPublic = isPublic
		node = n
		return nil
	})
	if err != nil {
		return nil, translate(ctx, s.logger, "set visibility", err)
	}
	return node, nil
}

// ReadContent returns the content of a node, or of its width-size variant
// when size is not zero.
func (s *FileService) ReadContent(ctx context.Context, id, requester string, size int) (*Content, error) {
	node, err := s.Get(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	if node.IsFolder() {
		return nil, common.ErrFolderHasNoContent
	}

	path := node.ContentPath
	if size != 0 {
		if !models.IsThumbnailWidth(size) {
			return nil, common.ErrorNotFound
		}
		path = blobstore.VariantPath(path, size)
	}

	data, err := s.blobs.Read(ctx, path)
	if err != nil {
		return nil, translate(ctx, s.logger, "read content", err)
	}
	ct := contentType(node.Name)
	if size != 0 {
		ct = variantContentType(data, ct)
	}
	return &Content{Data: data, ContentType: ct}, nil
}

// LookupOwned returns fileID only if it belongs to ownerID.
func (s *FileService) LookupOwned(ctx context.Context, fileID, ownerID string) (*models.FileNode, error) {
	if _, err := uuid.Parse(fileID); err != nil {
		return nil, common.ErrorNotFound
	}
	node, err := s.repomanager.Files(s.db).GetOwned(ctx, fileID, ownerID)
	if err != nil {
		return nil, translate(ctx, s.logger, "lookup node", err)
	}
	return node, nil
}

func (s *FileService) find(ctx context.Context, id string) (*models.FileNode, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	node, err := s.repomanager.Files(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, translate(ctx, s.logger, "get node", err)
	}
	return node, nil
}

// variantContentType prefers the sniffed image type, since a variant may be
// encoded differently from the original. Formats net/http cannot sniff keep
// fallback.
func variantContentType(data []byte, fallback string) string {
	if ct := http.DetectContentType(data); strings.HasPrefix(ct, "image/") {
		return ct
	}
	return fallback
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return defaultContentType
}
