package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/users"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newSessionStore(t *testing.T) (*sessions.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return sessions.NewRedisStore(rdb, 24*time.Hour), mr
}

type fakeUsersRepo struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	getErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.byID {
		if e.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return 0, f.getErr
	}
	return int64(len(f.byID)), nil
}

type fakeFilesRepo struct {
	mu        sync.Mutex
	nodes     map[string]*models.FileNode
	seq       int64
	err       error
	setPublic int
	getOwned  int
}

func newFakeFilesRepo() *fakeFilesRepo {
	return &fakeFilesRepo{nodes: map[string]*models.FileNode{}}
}

func (f *fakeFilesRepo) Create(_ context.Context, n *models.FileNode) (*models.FileNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.seq++
	n.CreatedOrder = f.seq
	cp := *n
	f.nodes[n.ID] = &cp
	return n, nil
}

func (f *fakeFilesRepo) GetByID(_ context.Context, id string) (*models.FileNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	n, ok := f.nodes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeFilesRepo) GetOwned(ctx context.Context, id, ownerID string) (*models.FileNode, error) {
	f.mu.Lock()
	f.getOwned++
	f.mu.Unlock()
	n, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return n, nil
}

func (f *fakeFilesRepo) ListByParent(_ context.Context, ownerID string, parent models.ParentRef, limit, offset int) ([]*models.FileNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var all []*models.FileNode
	for _, n := range f.nodes {
		if n.OwnerID == ownerID && n.Parent == parent {
			cp := *n
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedOrder < all[j].CreatedOrder })

	out := []*models.FileNode{}
	for i := offset; i < len(all) && i < offset+limit; i++ {
		out = append(out, all[i])
	}
	return out, nil
}

func (f *fakeFilesRepo) SetPublic(_ context.Context, id, ownerID string, isPublic bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.setPublic++
	n, ok := f.nodes[id]
	if !ok || n.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	n.IsPublic = isPublic
	return nil
}

func (f *fakeFilesRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.nodes)), nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	f *fakeFilesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), f: newFakeFilesRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository              { return m.f }

type fakeBlobs struct {
	mu       sync.Mutex
	data     map[string][]byte
	n        int
	writeErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{data: map[string][]byte{}}
}

func (b *fakeBlobs) Write(_ context.Context, data []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writeErr != nil {
		return "", b.writeErr
	}
	b.n++
	p := "/blobs/" + string(rune('a'+b.n))
	b.data[p] = append([]byte(nil), data...)
	return p, nil
}

func (b *fakeBlobs) Read(_ context.Context, path string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.data[path]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return d, nil
}

func (b *fakeBlobs) Put(_ context.Context, path string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[path] = append([]byte(nil), data...)
	return nil
}

type fakeProducer struct {
	mu   sync.Mutex
	jobs []models.ThumbnailJob
	err  error
}

func (p *fakeProducer) Enqueue(_ context.Context, job models.ThumbnailJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	return nil
}

var errBackend = errors.New("backend exploded")
