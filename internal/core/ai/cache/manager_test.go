package cache

import (
	"fmt"
	"testing"
	"time"

	"smashly-api/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, maxSize int, ttl time.Duration) *Manager {
	t.Helper()
	cfg := &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         maxSize,
			TTL:             ttl,
			CleanupInterval: time.Hour,
		},
	}
	m := NewManager(cfg)
	require.NotNil(t, m)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestManagerRoundTrip(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)

	_, ok := m.Get("fp1")
	assert.False(t, ok)

	require.NoError(t, m.Put("fp1", `{"analysis":"x"}`))

	value, ok := m.Get("fp1")
	assert.True(t, ok)
	assert.Equal(t, `{"analysis":"x"}`, value)
}

func TestManagerOverwritesExistingKey(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)

	require.NoError(t, m.Put("fp1", "old"))
	require.NoError(t, m.Put("fp1", "new"))

	value, ok := m.Get("fp1")
	require.True(t, ok)
	assert.Equal(t, "new", value)
}

func TestManagerLazyExpiry(t *testing.T) {
	m := newTestManager(t, 10, 10*time.Millisecond)

	require.NoError(t, m.Put("fp1", "value"))
	time.Sleep(30 * time.Millisecond)

	_, ok := m.Get("fp1")
	assert.False(t, ok, "過期條目讀取時應被淘汰")

	stats := m.GetStats()
	assert.EqualValues(t, 1, stats["evictions"])
	assert.Equal(t, 0, stats["keys"])
}

func TestManagerClear(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)

	require.NoError(t, m.Put("fp1", "a"))
	require.NoError(t, m.Put("fp2", "b"))

	assert.Equal(t, 2, m.Clear())

	_, ok := m.Get("fp1")
	assert.False(t, ok)
}

func TestManagerEvictsWhenFull(t *testing.T) {
	m := newTestManager(t, 3, time.Hour)

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Put(fmt.Sprintf("fp%d", i), "v"))
	}

	// 容量已滿且無過期條目，LRU 淘汰後寫入成功
	require.NoError(t, m.Put("fp-new", "v"))

	_, ok := m.Get("fp-new")
	assert.True(t, ok)

	stats := m.GetStats()
	assert.Equal(t, 3, stats["keys"])
	assert.EqualValues(t, 1, stats["evictions"])
}

func TestManagerStats(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)

	require.NoError(t, m.Put("fp1", "v"))
	m.Get("fp1")
	m.Get("missing")

	stats := m.GetStats()
	assert.Equal(t, true, stats["enabled"])
	assert.EqualValues(t, 1, stats["hits"])
	assert.EqualValues(t, 1, stats["misses"])
	assert.Equal(t, 0.5, stats["hit_ratio"])
}

func TestManagerDisabledReturnsNil(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{Enabled: false}}
	m := NewManager(cfg)
	assert.Nil(t, m)

	// nil 管理器的操作一律安全
	_, ok := m.Get("fp")
	assert.False(t, ok)
	assert.NoError(t, m.Put("fp", "v"))
	assert.Equal(t, 0, m.Clear())
	assert.Equal(t, map[string]interface{}{"enabled": false}, m.GetStats())
	assert.NoError(t, m.Close())
}
