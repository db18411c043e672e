package catalog

import (
	"context"

	"smashly-api/internal/pkg/common"
)

// Store 球拍目錄儲存介面
// 目錄由外部爬蟲寫入，本服務只讀取快照，不修改目錄狀態
type Store interface {
	// ListAll 讀取完整目錄快照
	ListAll(ctx context.Context) ([]common.Racket, error)

	// GetByIDs 依 ID 讀取球拍，回傳順序與輸入 ID 順序一致；找不到的 ID 直接略過
	GetByIDs(ctx context.Context, ids []int) ([]common.Racket, error)
}
