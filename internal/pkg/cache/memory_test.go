package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewMemory[[]string](5*time.Minute, clk.Now)

	_, ok := c.Get(ctx)
	assert.False(t, ok, "empty cache")

	assert.True(t, c.SetIfCurrent(ctx, c.Generation(ctx), []string{"a"}))
	got, ok := c.Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, got)

	clk.Advance(4*time.Minute + 59*time.Second)
	_, ok = c.Get(ctx)
	assert.True(t, ok, "still fresh")

	clk.Advance(time.Second)
	_, ok = c.Get(ctx)
	assert.False(t, ok, "expired at ttl")
}

func TestMemoryInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[int](time.Hour, nil)

	c.SetIfCurrent(ctx, c.Generation(ctx), 42)
	c.Invalidate(ctx)

	v, ok := c.Get(ctx)
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestMemoryRefusesStaleGeneration(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[[]string](time.Hour, nil)

	gen := c.Generation(ctx)
	c.Invalidate(ctx)
	assert.False(t, c.SetIfCurrent(ctx, gen, []string{"old"}))

	_, ok := c.Get(ctx)
	assert.False(t, ok, "stale value must not be stored")

	assert.True(t, c.SetIfCurrent(ctx, c.Generation(ctx), []string{"new"}))
	got, ok := c.Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, []string{"new"}, got)
}
