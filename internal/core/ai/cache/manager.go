package cache

import (
	"sync"
	"time"

	"smashly-api/internal/infrastructure/config"
	"smashly-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Manager 推薦結果快取
// 以使用者輪廓指紋為鍵，整筆覆寫、不做部分更新；過期採讀取時懶惰淘汰加定期掃描
type Manager struct {
	config *config.Config
	mu     sync.RWMutex
	store  map[string]cacheEntry
	stats  cacheStats
	done   chan struct{}
}

// cacheEntry 緩存條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewManager 創建新的快取管理器
func NewManager(cfg *config.Config) *Manager {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	m := &Manager{
		config: cfg,
		store:  make(map[string]cacheEntry),
		stats:  cacheStats{},
		done:   make(chan struct{}),
	}

	// 啟動清理過期緩存的協程
	go m.startCleanup()

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.Cache.MaxSize),
		zap.Duration("存活時間", cfg.Cache.TTL),
		zap.Duration("清理間隔", cfg.Cache.CleanupInterval),
	)

	return m
}

// Get 依指紋讀取快取值
func (m *Manager) Get(fingerprint string) (string, bool) {
	if m == nil {
		return "", false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[fingerprint]
	if !exists {
		m.stats.misses++
		common.LogCacheMiss("recommendation", fingerprint)
		return "", false
	}

	// 讀取時懶惰淘汰過期條目
	if time.Now().After(entry.expiresAt) {
		delete(m.store, fingerprint)
		m.stats.evictions++
		m.stats.misses++
		common.LogInfo("快取已過期",
			zap.String("鍵", fingerprint),
		)
		return "", false
	}

	// 更新訪問統計
	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[fingerprint] = entry
	m.stats.hits++

	common.LogCacheHit("recommendation", fingerprint)
	return entry.value, true
}

// Put 寫入快取值，同指紋直接整筆覆寫
func (m *Manager) Put(fingerprint, value string) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// 檢查緩存大小
	if len(m.store) >= m.config.Cache.MaxSize {
		// 清理過期項目
		evicted := m.cleanup()
		common.LogInfo("快取清理執行",
			zap.Int("清理數量", evicted),
		)

		// 如果仍然超過大小限制，執行 LRU 清理
		if len(m.store) >= m.config.Cache.MaxSize {
			m.evictLRU()
		}

		// 如果仍然超過大小限制，返回錯誤
		if len(m.store) >= m.config.Cache.MaxSize {
			m.stats.errors++
			common.LogWarn("快取已滿",
				zap.Int("目前容量", len(m.store)),
			)
			return common.ErrCacheFull
		}
	}

	now := time.Now()
	m.store[fingerprint] = cacheEntry{
		value:       value,
		expiresAt:   now.Add(m.config.Cache.TTL),
		createdAt:   now,
		lastAccess:  now,
		accessCount: 0,
	}

	common.LogInfo("快取已儲存",
		zap.String("鍵", fingerprint),
	)

	return nil
}

// Clear 清空全部快取（目錄重新匯入後由管理端觸發）
func (m *Manager) Clear() int {
	if m == nil {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cleared := len(m.store)
	m.store = make(map[string]cacheEntry)

	common.LogInfo("快取已清空",
		zap.Int("清除數量", cleared),
	)

	return cleared
}

// startCleanup 啟動清理過期緩存的協程
func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.config.Cache.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		}
	}
}

// cleanup 清理過期的緩存，呼叫方需持有寫鎖
func (m *Manager) cleanup() int {
	now := time.Now()
	count := 0

	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}

	if count > 0 {
		common.LogInfo("Cleaned up expired cache entries",
			zap.Int("count", count),
			zap.Int64("total_evictions", m.stats.evictions),
			zap.Int("remaining_size", len(m.store)),
		)
	}

	return count
}

// evictLRU 執行 LRU 清理，呼叫方需持有寫鎖
func (m *Manager) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	// 找到最少訪問的項目
	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
		common.LogInfo("快取已淘汰(LRU)",
			zap.String("鍵", oldestKey),
		)
	}
}

// GetStats 獲取緩存統計信息
func (m *Manager) GetStats() map[string]interface{} {
	if m == nil {
		return map[string]interface{}{"enabled": false}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var hitRatio float64
	if total := m.stats.hits + m.stats.misses; total > 0 {
		hitRatio = float64(m.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"enabled":   true,
		"keys":      len(m.store),
		"max_size":  m.config.Cache.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"errors":    m.stats.errors,
		"hit_ratio": hitRatio,
	}
}

// Close 關閉快取管理器
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}

	close(m.done)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.store = make(map[string]cacheEntry)
	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("淘汰次數", m.stats.evictions),
	)
	return nil
}
