package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func TestRedisCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	_, c := setupRedis(t)

	_, hit, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "small", []byte("tiny"), time.Hour))
	data, hit, err := c.Get(ctx, "small")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "tiny", string(data))

	require.NoError(t, c.Delete(ctx, "small"))
	_, hit, err = c.Get(ctx, "small")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_CompressesLargeValues(t *testing.T) {
	ctx := context.Background()
	mr, c := setupRedis(t)

	payload := bytes.Repeat([]byte(`{"left":12,"right":7},`), 500)
	require.NoError(t, c.Set(ctx, "big", payload, 0))

	raw, err := mr.Get("big")
	require.NoError(t, err)
	assert.Equal(t, codecZstd, raw[0])
	assert.Less(t, len(raw), len(payload)/2)

	data, hit, err := c.Get(ctx, "big")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, payload, data)
}

func TestRedisCache_TTL(t *testing.T) {
	ctx := context.Background()
	mr, c := setupRedis(t)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_CorruptValueIsMiss(t *testing.T) {
	ctx := context.Background()
	mr, c := setupRedis(t)

	require.NoError(t, mr.Set("bad", "\x07junk"))
	_, hit, err := c.Get(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists("bad"))
}

func TestRedisCache_Clear(t *testing.T) {
	ctx := context.Background()
	mr, c := setupRedis(t)

	k := NewDefaultKeyer()
	for seed := range uint64(4) {
		require.NoError(t, c.Set(ctx, k.MatchKey(MatchKeyOpts{Left: 1, Right: 1, Seed: seed}), []byte("m"), 0))
	}
	require.NoError(t, mr.Set("unrelated", "x"))

	n, err := c.Clear(ctx, "match:*")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.True(t, mr.Exists("unrelated"))
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "http://localhost")
	assert.Error(t, err)
}

func TestEncodeValue(t *testing.T) {
	small := []byte("abc")
	enc := encodeValue(small)
	assert.Equal(t, codecRaw, enc[0])

	dec, err := decodeValue(enc)
	require.NoError(t, err)
	assert.Equal(t, small, dec)

	_, err = decodeValue(nil)
	assert.Error(t, err)
}
