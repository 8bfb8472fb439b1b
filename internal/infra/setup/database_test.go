package setup_test

import (
	"testing"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/infra/setup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector_RejectsUnknownDriver(t *testing.T) {
	_, err := setup.Dialector("oracle", "dsn")
	assert.Error(t, err)
}

func TestInitDB_RequiresDSN(t *testing.T) {
	_, err := setup.InitDB(setup.DBOptions{Driver: setup.DriverSQLite})
	assert.Error(t, err)
}

func TestMigrateDB_CreatesTables(t *testing.T) {
	db, err := setup.InitDB(setup.DBOptions{Driver: setup.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = setup.CloseDB(db) })

	require.NoError(t, setup.MigrateDB(db))

	assert.True(t, db.Migrator().HasTable(&domain.User{}))
	assert.True(t, db.Migrator().HasTable(&domain.Post{}))
	assert.True(t, db.Migrator().HasColumn(&domain.Post{}, "AuthorID"))

	// running again on an existing schema is a no-op
	assert.NoError(t, setup.MigrateDB(db))
}

func TestMigrateDB_NilDB(t *testing.T) {
	assert.Error(t, setup.MigrateDB(nil))
}
