package catalog

import (
	"context"

	"smashly-api/internal/pkg/common"
)

// MemoryStore 記憶體目錄儲存，用於測試與本地固定資料
type MemoryStore struct {
	rackets []common.Racket
}

// NewMemoryStore 創建記憶體目錄儲存
func NewMemoryStore(rackets []common.Racket) *MemoryStore {
	return &MemoryStore{rackets: rackets}
}

// ListAll 讀取完整目錄快照
func (s *MemoryStore) ListAll(ctx context.Context) ([]common.Racket, error) {
	result := make([]common.Racket, len(s.rackets))
	copy(result, s.rackets)
	return result, nil
}

// GetByIDs 依 ID 讀取球拍
func (s *MemoryStore) GetByIDs(ctx context.Context, ids []int) ([]common.Racket, error) {
	byID := make(map[int]common.Racket, len(s.rackets))
	for _, r := range s.rackets {
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
