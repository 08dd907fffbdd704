package gorm

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alnpaa/certify/pkg/server/store"
)

func newMockStore(t *testing.T) (*CertificatesStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gormlib.Open(
		gormpostgres.New(gormpostgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gormlib.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return NewCertificatesStore(gormDB), mock
}

func TestList_FullPageReturnsCursor(t *testing.T) {
	s, mock := newMockStore(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "code", "name", "program", "created_at", "created_by"})
	for i, id := range []string{"id-1", "id-2"} {
		rows.AddRow(id, fmt.Sprintf("CODE000%d", i+1), "Name", "Program", now.Add(-time.Duration(i)*time.Minute), "admin@example.com")
	}
	mock.ExpectQuery(`SELECT \* FROM "certificates" ORDER BY created_at DESC, id DESC LIMIT \$1`).
		WithArgs(2).
		WillReturnRows(rows)

	certs, next, err := s.List(nil, 2)
	require.NoError(t, err)
	assert.Len(t, certs, 2)
	require.NotNil(t, next, "a full page must yield a next cursor")
	assert.Equal(t, "id-2", next.Id)
}

func TestList_ShortPageEndsTraversal(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "code", "name", "program", "created_at", "created_by"}).
		AddRow("id-1", "CODE0001", "Name", "Program", time.Now(), "")
	mock.ExpectQuery(`SELECT \* FROM "certificates" ORDER BY created_at DESC, id DESC LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(rows)

	certs, next, err := s.List(nil, 5)
	require.NoError(t, err)
	assert.Len(t, certs, 1)
	assert.Nil(t, next, "a short page signals end of data")
}

func TestList_WithCursor(t *testing.T) {
	s, mock := newMockStore(t)

	cursor := &store.Cursor{CreatedAt: time.Now(), Id: "id-9"}
	mock.ExpectQuery(`SELECT \* FROM "certificates" WHERE \(created_at, id\) < \(\$1, \$2\) ORDER BY created_at DESC, id DESC LIMIT \$3`).
		WithArgs(cursor.CreatedAt, cursor.Id, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "program", "created_at", "created_by"}))

	certs, next, err := s.List(cursor, 5)
	require.NoError(t, err)
	assert.Empty(t, certs)
	assert.Nil(t, next)
}

func TestDelete_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "certificates" WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.Delete("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInsert_UniqueViolationMapsToCodeTaken(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "certificates"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := s.Insert(&store.Certificate{
		Id:        "id-1",
		Code:      "AAAA1111",
		Name:      "Ann",
		Program:   "Go 101",
		CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, store.ErrCodeTaken)
}

func TestInsert_PermissionDenied(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "certificates"`).
		WillReturnError(&pgconn.PgError{Code: "42501"})
	mock.ExpectRollback()

	err := s.Insert(&store.Certificate{Id: "id-1", Code: "AAAA1111", Name: "A", Program: "B"})
	assert.ErrorIs(t, err, store.ErrPermissionDenied)
}

func batchFixture() []*store.Certificate {
	now := time.Now()
	return []*store.Certificate{
		{Id: "id-1", Code: "AAAA1111", Name: "Ann", Program: "Go 101", CreatedAt: now},
		{Id: "id-2", Code: "BBBB2222", Name: "Ben", Program: "Go 101", CreatedAt: now},
		{Id: "id-3", Code: "CCCC3333", Name: "Cam", Program: "Go 101", CreatedAt: now},
	}
}

func TestInsertBatch_CommitsEachBatchSeparately(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "certificates"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "certificates"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.InsertBatch(batchFixture(), 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBatch_FailureLeavesEarlierBatchesCommitted(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "certificates"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "certificates"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := s.InsertBatch(batchFixture(), 2)
	assert.ErrorIs(t, err, store.ErrCodeTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteError_PostgresStateMapping(t *testing.T) {
	assert.ErrorIs(t, writeError(&pgconn.PgError{Code: "23505"}), store.ErrCodeTaken)
	assert.ErrorIs(t, writeError(&pgconn.PgError{Code: "42501"}), store.ErrPermissionDenied)
	assert.ErrorIs(t, writeError(gormlib.ErrDuplicatedKey), store.ErrCodeTaken)
	assert.NotErrorIs(t, writeError(fmt.Errorf("disk full")), store.ErrCodeTaken)
}

func TestExistingCodes(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT "code" FROM "certificates" WHERE code IN \(\$1,\$2,\$3\)`).
		WithArgs("AAAA1111", "BBBB2222", "CCCC3333").
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("BBBB2222"))

	existing, err := s.ExistingCodes([]string{"AAAA1111", "BBBB2222", "CCCC3333"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"BBBB2222": true}, existing)
}

func TestExistingCodes_EmptyInput(t *testing.T) {
	s, _ := newMockStore(t)

	existing, err := s.ExistingCodes(nil)
	require.NoError(t, err)
	assert.Empty(t, existing)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike(`100%`))
	assert.Equal(t, `a\_b`, escapeLike(`a_b`))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}
