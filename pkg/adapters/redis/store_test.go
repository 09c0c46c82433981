package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/hpos-config/pkg/adapters/redis"
	"github.com/aretw0/hpos-config/pkg/domain"
	"github.com/aretw0/hpos-config/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunReportStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := redis.NewFromClient(client, redis.WithTTL(time.Second), redis.WithClock(clock))
	ctx := context.Background()

	report := domain.NewReport([]byte(`{"v1": {}}`), nil, now)
	require.NoError(t, store.Save(ctx, report))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, report.ID)

	// Key expiration is miniredis' clock, index pruning is ours.
	mr.FastForward(2 * time.Second)
	now = now.Add(2 * time.Second)

	_, err = store.Load(ctx, report.ID)
	assert.ErrorIs(t, err, domain.ErrReportNotFound)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	report := domain.NewReport([]byte("doc"), nil, time.Now())
	require.NoError(t, store.Save(ctx, report))

	assert.True(t, mr.Exists("custom:app:"+report.ID), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")
	assert.False(t, mr.Exists(redis.DefaultPrefix+report.ID))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, report.ID)
}

func TestRedisStore_StoresJSON(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	require.NoError(t, store.Ping(context.Background()))

	report := &domain.Report{ID: "abc", Kind: "TypeMismatch", Path: ".v1.seed", CheckedAt: time.Unix(0, 0).UTC()}
	require.NoError(t, store.Save(context.Background(), report))

	raw, err := mr.Get("hpos:report:abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","valid":false,"kind":"TypeMismatch","path":".v1.seed","checked_at":"1970-01-01T00:00:00Z"}`, raw)
}

func TestRedisStore_Unreachable(t *testing.T) {
	store := redis.New("127.0.0.1:1", "", 0)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := store.Load(ctx, "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrReportNotFound)
}
