package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedis(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRedis_GetMissOnAbsentKey(t *testing.T) {
	_, store := newTestRedis(t)

	val, ok := store.Get(context.Background(), "absent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestRedis_SetGetRoundTrip(t *testing.T) {
	_, store := newTestRedis(t)

	require.NoError(t, store.Set(context.Background(), "geocode:flood", []byte(`{"lat":40.7}`), time.Hour))

	val, ok := store.Get(context.Background(), "geocode:flood")
	require.True(t, ok)
	assert.JSONEq(t, `{"lat":40.7}`, string(val))
}

func TestRedis_ExpiredEntryIsAMiss(t *testing.T) {
	mr, store := newTestRedis(t)

	require.NoError(t, store.Set(context.Background(), "k", []byte("v"), time.Hour))

	mr.FastForward(time.Hour + time.Second)

	_, ok := store.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestRedis_SetUpsertsExistingKey(t *testing.T) {
	_, store := newTestRedis(t)

	require.NoError(t, store.Set(context.Background(), "k", []byte("old"), time.Hour))
	require.NoError(t, store.Set(context.Background(), "k", []byte("new"), time.Hour))

	val, ok := store.Get(context.Background(), "k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), val)
}

func TestRedis_BackendFailureDegradesToMiss(t *testing.T) {
	mr, store := newTestRedis(t)

	require.NoError(t, store.Set(context.Background(), "k", []byte("v"), time.Hour))
	mr.Close()

	// A dead backing store must read as a miss, not an error or a panic.
	val, ok := store.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Nil(t, val)

	// Writes do surface their error so callers can log it.
	assert.Error(t, store.Set(context.Background(), "k", []byte("v2"), time.Hour))
}

func TestRedis_CheckReadiness(t *testing.T) {
	mr, store := newTestRedis(t)

	assert.NoError(t, store.CheckReadiness(context.Background()))

	mr.Close()
	assert.Error(t, store.CheckReadiness(context.Background()))
}
