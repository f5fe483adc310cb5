package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestStatus(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	s := NewStatusService(db, newFakeRepoManager(), fakePinger{}, logging.Nop())
	assert.Equal(t, Status{Redis: true, DB: true}, s.Status(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	s = NewStatusService(db, newFakeRepoManager(), fakePinger{err: errors.New("down")}, logging.Nop())
	assert.Equal(t, Status{Redis: false, DB: false}, s.Status(context.Background()))
}

func TestStats(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.u.byID["u1"] = &models.User{ID: "u1"}
	rm.f.nodes["n1"] = &models.FileNode{ID: "n1"}
	rm.f.nodes["n2"] = &models.FileNode{ID: "n2"}

	s := NewStatusService(db, rm, fakePinger{}, logging.Nop())
	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Stats{Users: 1, Files: 2}, st)

	rm.f.err = errBackend
	_, err = s.Stats(context.Background())
	assert.ErrorIs(t, err, common.ErrorInternal)
}
