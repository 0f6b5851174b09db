package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtapi/booking-api/internal/testutil"
)

func TestRedisCacheRepo_SetGetDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(RedisCacheOptions{Client: client, Namespace: "test"})
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "job:1", []byte(`{"id":1}`), time.Minute))

		got, err := repo.Get(ctx, "job:1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1}`, string(got))

		ttl := client.TTL(ctx, "test:job:1").Val()
		assert.True(t, ttl > 0 && ttl <= time.Minute)
	})

	t.Run("missing key is nil", func(t *testing.T) {
		got, err := repo.Get(ctx, "job:missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete reports existence", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "job:2", []byte("x"), time.Minute))

		deleted, err := repo.Delete(ctx, "job:2")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, "job:2")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		assert.Error(t, repo.Set(ctx, "", []byte("x"), time.Minute))
		_, err := repo.Get(ctx, "")
		assert.Error(t, err)
		_, err = repo.Delete(ctx, "")
		assert.Error(t, err)
	})

	assert.NoError(t, repo.Health(ctx))
}
