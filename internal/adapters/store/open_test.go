package store

import (
	"context"
	"delivery-tracker/internal/config"
	"delivery-tracker/internal/domain"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemory(t *testing.T) {
	st, closeFn, err := Open(context.Background(), Options{Driver: config.StoreDriverMemory})
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &MemoryStore{}, st)
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	st, closeFn, err := Open(context.Background(), Options{Driver: config.StoreDriverRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer closeFn()

	_, err = st.Insert(context.Background(), "deliveries", sample("PKG", domain.StatusPending))
	assert.NoError(t, err)
}

func TestOpenErrors(t *testing.T) {
	_, _, err := Open(context.Background(), Options{Driver: "sqlite"})
	assert.ErrorContains(t, err, "unknown driver")

	_, _, err = Open(context.Background(), Options{Driver: config.StoreDriverPostgres})
	assert.ErrorContains(t, err, "DATABASE_URL")

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, _, err = Open(context.Background(), Options{Driver: config.StoreDriverRedis, RedisAddr: addr})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
