package racket

import (
	"context"
	"encoding/json"
	"time"

	"smashly-api/internal/core/ai/cache"
	"smashly-api/internal/infrastructure/catalog"
	"smashly-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Generator 文字生成介面，由 AI 供應鏈服務實作
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RecommendService 推薦服務
// 組裝流程：指紋 → 快取 → 候選清單 → prompt → 生成 → 解析 → 對賬 → 快取寫入
type RecommendService struct {
	generator Generator
	cache     *cache.Manager
	catalog   catalog.Store
}

// NewRecommendService 建立推薦服務
func NewRecommendService(generator Generator, cacheManager *cache.Manager, store catalog.Store) *RecommendService {
	return &RecommendService{
		generator: generator,
		cache:     cacheManager,
		catalog:   store,
	}
}

// looseRecommendation 寬鬆版中繼結構，容忍模型輸出的雜訊
type looseRecommendation struct {
	Rackets []struct {
		ID         int    `json:"id"`
		MatchScore int    `json:"match_score"`
		Reason     string `json:"reason"`
	} `json:"rackets"`
	Analysis string `json:"analysis"`
}

// Recommend 產生個人化球拍推薦
// 相同輪廓指紋在 TTL 內直接回傳快取結果，不經過 AI 供應鏈
func (s *RecommendService) Recommend(ctx context.Context, profile *common.UserProfile, advanced bool) (*common.RecommendationResult, error) {
	startTime := time.Now()
	fingerprint := Fingerprint(profile, advanced)

	// 1. 快取查詢
	if cached, ok := s.cache.Get(fingerprint); ok {
		var result common.RecommendationResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			common.LogInfo("推薦快取命中",
				zap.String("指紋", fingerprint[:12]),
				zap.Duration("耗時", time.Since(startTime)),
			)
			return &result, nil
		}
		common.LogWarn("快取內容損毀，重新生成", zap.String("指紋", fingerprint[:12]))
	}

	// 2. 讀取目錄並篩選候選清單
	rackets, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalError, "無法讀取球拍目錄", 500, err)
	}

	shortlist := Shortlist(rackets, profile, advanced)
	if len(shortlist) == 0 {
		return nil, common.ErrEmptyShortlist
	}

	// 3. 組裝 prompt 並呼叫 AI 供應鏈
	prompt := buildRecommendationPrompt(profile, shortlist, advanced)
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// 4. 解析回應
	block, err := common.ExtractJSONBlock(raw)
	if err != nil {
		return nil, common.NewError(
			common.ErrInvalidAIResponse.Code,
			common.ErrInvalidAIResponse.Message,
			common.ErrInvalidAIResponse.Status,
			err,
		)
	}

	var loose looseRecommendation
	if err := common.ParseJSON(block, &loose); err != nil {
		if err2 := common.ParseJSON(common.QuoteJSONKeys(block), &loose); err2 != nil {
			return nil, common.NewError(
				common.ErrInvalidAIResponse.Code,
				common.ErrInvalidAIResponse.Message,
				common.ErrInvalidAIResponse.Status,
				err,
			)
		}
	}

	// 5. 對賬：只接受候選清單內的 id，全部無效視為契約違反
	result, err := s.reconcile(&loose, shortlist)
	if err != nil {
		return nil, err
	}

	// 6. 寫入快取（失敗不影響回應）
	if data, err := json.Marshal(result); err == nil {
		if err := s.cache.Put(fingerprint, string(data)); err != nil {
			common.LogWarn("推薦結果快取寫入失敗", zap.Error(err))
		}
	}

	common.LogInfo("推薦生成完成",
		zap.Int("推薦數量", len(result.Rackets)),
		zap.Duration("耗時", time.Since(startTime)),
	)
	return result, nil
}

// reconcile 比對模型回傳的 id 與候選清單
// 未知 id 靜默捨棄並記錄；有效推薦歸零時整個請求失敗
func (s *RecommendService) reconcile(loose *looseRecommendation, shortlist []ScoredRacket) (*common.RecommendationResult, error) {
	byID := make(map[int]common.Racket, len(shortlist))
	for _, entry := range shortlist {
		byID[entry.Racket.ID] = entry.Racket
	}

	result := &common.RecommendationResult{
		Rackets:  make([]common.RecommendedRacket, 0, len(loose.Rackets)),
		Analysis: loose.Analysis,
	}

	for _, rec := range loose.Rackets {
		r, ok := byID[rec.ID]
		if !ok {
			common.LogWarn("模型回傳了候選清單外的球拍 id，已捨棄",
				zap.Int("id", rec.ID),
			)
			continue
		}

		score := rec.MatchScore
		if score < 0 {
			score = 0
		} else if score > 100 {
			score = 100
		}

		metrics := MetricsFor(r)
		result.Rackets = append(result.Rackets, common.RecommendedRacket{
			ID:            r.ID,
			Name:          r.Name,
			Brand:         r.Brand,
			Price:         r.Price,
			Image:         r.Image,
			MatchScore:    score,
			Reason:        rec.Reason,
			TesteaMetrics: &metrics,
		})
	}

	if len(result.Rackets) == 0 {
		return nil, common.ErrContractViolation
	}
	return result, nil
}
