package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-menu-service/internal/apperr"
)

func TestOpenSQLiteAppliesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, &Config{Driver: DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"categories", "menu_items", "hero_images"} {
		var n int
		err := db.GetContext(ctx, &n, "SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}

	// idempotent
	require.NoError(t, Migrate(ctx, db))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap("x", nil))
	assert.Equal(t, apperr.KindStoreUnavailable, apperr.KindOf(Wrap("query", driver.ErrBadConn)))
	assert.Equal(t, apperr.KindStoreUnavailable, apperr.KindOf(Wrap("query", context.DeadlineExceeded)))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(Wrap("query", errors.New("syntax error"))))
}
