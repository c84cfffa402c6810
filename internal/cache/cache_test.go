package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exercise runs the behavior every adapter must share. advance moves the
// adapter's clock forward.
func exercise(t *testing.T, c Cache, advance func(time.Duration)) {
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "rates", `{"USD":4.56}`, time.Hour))
	got, err := c.Get(ctx, "rates")
	require.NoError(t, err)
	assert.Equal(t, `{"USD":4.56}`, got)

	require.NoError(t, c.Set(ctx, "forever", "x", 0))

	advance(2 * time.Hour)
	_, err = c.Get(ctx, "rates")
	assert.ErrorIs(t, err, ErrMiss, "entry should expire")

	got, err = c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	n, err := c.Del(ctx, "forever", "missing")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.NoError(t, c.Ping(ctx))
}

func TestMemory(t *testing.T) {
	now := time.Now()
	m := NewMemory()
	m.now = func() time.Time { return now }

	exercise(t, m, func(d time.Duration) { now = now.Add(d) })
}

func TestRedis(t *testing.T) {
	srv := miniredis.RunT(t)

	c, err := NewRedis(context.Background(), "redis://"+srv.Addr())
	require.NoError(t, err)
	defer c.Close()

	exercise(t, c, srv.FastForward)
}

func TestNewPicksAdapter(t *testing.T) {
	c, err := New(context.Background(), "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	_, err = New(context.Background(), "not a url")
	assert.Error(t, err)
}
