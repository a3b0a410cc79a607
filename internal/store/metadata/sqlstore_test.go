package metadata

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hsgmemory/engine/internal/sector"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockStore(t *testing.T) (*sqlStore, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "postgres")
	return &sqlStore{db: db, dialect: "postgres"}, mock
}

func TestInsertMemoryCommitsNamespacesTagsAndVectorRows(t *testing.T) {
	store, mock := setupMockStore(t)
	defer store.Close()

	mem := Memory{
		ID:            "mem-1",
		Content:       "the user prefers dark mode",
		PrimarySector: sector.Semantic,
		Sectors:       []sector.Sector{sector.Semantic},
		Namespaces:    []string{"user-42"},
		Tags:          []string{"preference"},
		Metadata:      []byte(`{}`),
		Salience:      0.5,
		DecayLambda:   0.01,
		CreatedAt:     1000,
		UpdatedAt:     1000,
		LastSeenAt:    1000,
	}
	vectorRows := []VectorRow{{MemoryID: "mem-1", Sector: sector.Semantic, Namespace: "user-42", Dim: 8, CreatedAt: 1000}}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO memories").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO memory_namespaces").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO memory_tags").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO vector_metadata").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.InsertMemory(context.Background(), mem, vectorRows)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMemoryRollsBackOnVectorRowFailure(t *testing.T) {
	store, mock := setupMockStore(t)
	defer store.Close()

	mem := Memory{ID: "mem-2", PrimarySector: sector.Episodic, Metadata: []byte(`{}`)}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO memories").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO vector_metadata").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := store.InsertMemory(context.Background(), mem, []VectorRow{{MemoryID: "mem-2"}})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertNamespaceCreatesMissingNamespace(t *testing.T) {
	store, mock := setupMockStore(t)
	defer store.Close()

	rows := sqlmock.NewRows([]string{"namespace", "description", "ontology_profile", "metadata_json", "created_at", "updated_at", "active"})
	mock.ExpectQuery("SELECT \\* FROM namespaces WHERE namespace").WillReturnRows(rows)
	mock.ExpectExec("INSERT INTO namespaces").WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := store.UpsertNamespace(context.Background(), Namespace{Namespace: "user-42", CreatedAt: 1, UpdatedAt: 1})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendStatAndReadStats(t *testing.T) {
	store, mock := setupMockStore(t)
	defer store.Close()

	mock.ExpectExec("INSERT INTO stats").WithArgs("store", int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	err := store.AppendStat(context.Background(), "store", 1)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"type", "count", "ts"}).AddRow("store", 1, 1000)
	mock.ExpectQuery("SELECT type, count, ts FROM stats").WithArgs("store").WillReturnRows(rows)
	out, err := store.ReadStats(context.Background(), "store")
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].Count)

	assert.NoError(t, mock.ExpectationsWereMet())
}
