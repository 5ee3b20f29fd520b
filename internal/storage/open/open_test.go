package open

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/projects-api/internal/config"
	"github.com/aanand-mishra/projects-api/internal/storage/sqlite"
)

func TestStorage_SQLite(t *testing.T) {
	s, err := Storage(context.Background(), &config.Config{
		StorageDriver: config.DriverSQLite,
		StoragePath:   ":memory:",
	})
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &sqlite.SQLite{}, s)
}

func TestStorage_UnknownDriver(t *testing.T) {
	_, err := Storage(context.Background(), &config.Config{StorageDriver: "mysql"})
	assert.Error(t, err)
}

func TestStorage_ZeroTimeout(t *testing.T) {
	s, err := Storage(context.Background(), &config.Config{
		StorageDriver: config.DriverSQLite,
		StoragePath:   ":memory:",
		DBTimeout:     0,
	})
	require.NoError(t, err)
	defer s.Close()
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := withTimeout(context.Background(), 0)
	defer cancel()
	_, ok := ctx.Deadline()
	assert.False(t, ok)
	assert.NoError(t, ctx.Err())

	ctx, cancel = withTimeout(context.Background(), -time.Second)
	defer cancel()
	_, ok = ctx.Deadline()
	assert.False(t, ok)

	ctx, cancel = withTimeout(context.Background(), time.Minute)
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}
