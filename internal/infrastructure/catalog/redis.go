package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"smashly-api/internal/infrastructure/config"
	"smashly-api/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore 以 Redis 為後端的目錄儲存
// 爬蟲將完整目錄以 JSON 陣列寫入單一鍵，本服務每次請求讀取快照
type RedisStore struct {
	client *redis.Client
	config *config.CatalogConfig
}

// NewRedisStore 創建 Redis 目錄儲存
func NewRedisStore(cfg *config.CatalogConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("目錄儲存已連線",
		zap.String("addr", cfg.RedisAddr),
		zap.String("key", cfg.Key),
	)

	return &RedisStore{
		client: client,
		config: cfg,
	}, nil
}

// ListAll 讀取完整目錄快照
func (s *RedisStore) ListAll(ctx context.Context) ([]common.Racket, error) {
	data, err := s.client.Get(ctx, s.config.Key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("catalog key %q not found", s.config.Key)
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var rackets []common.Racket
	if err := json.Unmarshal(data, &rackets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	common.LogDebug("目錄快照已載入", zap.Int("球拍數量", len(rackets)))
	return rackets, nil
}

// GetByIDs 依 ID 讀取球拍
func (s *RedisStore) GetByIDs(ctx context.Context, ids []int) ([]common.Racket, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]common.Racket, len(all))
	for _, r := range all {
		byID[r.ID] = r
	}

	result := make([]common.Racket, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			result = append(result, r)
		}
	}
	return result, nil
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
