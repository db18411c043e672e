package racket

import (
	"context"
	"time"

	"smashly-api/internal/infrastructure/catalog"
	"smashly-api/internal/pkg/common"

	"go.uber.org/zap"
)

// CompareService 球拍比較服務
// 比較組合的排列空間大，不做結果快取
type CompareService struct {
	generator Generator
	catalog   catalog.Store
}

// NewCompareService 建立比較服務
func NewCompareService(generator Generator, store catalog.Store) *CompareService {
	return &CompareService{
		generator: generator,
		catalog:   store,
	}
}

// Compare 比較 2~3 支球拍並產生結構化報告
func (s *CompareService) Compare(ctx context.Context, racketIDs []int, profile *common.UserProfile) (*common.ComparisonResult, error) {
	startTime := time.Now()

	if len(racketIDs) < 2 || len(racketIDs) > 3 {
		return nil, common.ErrInvalidComparison
	}

	rackets, err := s.catalog.GetByIDs(ctx, racketIDs)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalError, "無法讀取球拍目錄", 500, err)
	}
	if len(rackets) != len(racketIDs) {
		common.LogWarn("部分球拍 id 不存在於目錄",
			zap.Ints("請求", racketIDs),
			zap.Int("找到", len(rackets)),
		)
		return nil, common.ErrRacketNotFound
	}

	prompt := buildComparisonPrompt(rackets, profile)
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, parseResult, err := ParseComparison(raw, rackets)
	if err != nil {
		return nil, err
	}

	common.LogInfo("比較生成完成",
		zap.Int("球拍數量", len(rackets)),
		zap.Bool("欄位經過修復", parseResult.Status == StatusRepaired),
		zap.Duration("耗時", time.Since(startTime)),
	)
	return result, nil
}
