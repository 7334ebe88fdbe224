package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/estoque/pkg/database"
)

func TestOpenRelationalSQLiteInMemory(t *testing.T) {
	db, err := database.OpenRelational(context.Background(), "sqlite", "file:db_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseRelational(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpenRelationalRejectsUnknownDriver(t *testing.T) {
	_, err := database.OpenRelational(context.Background(), "oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestCloseRelationalNil(t *testing.T) {
	assert.NoError(t, database.CloseRelational(nil))
}
