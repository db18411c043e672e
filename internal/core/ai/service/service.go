package service

import (
	"context"
	"time"

	"smashly-api/internal/core/ai/freeai"
	"smashly-api/internal/core/ai/gemini"
	"smashly-api/internal/core/ai/openrouter"
	"smashly-api/internal/core/ai/provider"
	"smashly-api/internal/infrastructure/config"
	"smashly-api/internal/pkg/common"

	"go.uber.org/zap"
)

// ChainEntry 提供者鏈中的單一成員
// Backoff 在該成員失敗後、嘗試下一個成員前生效
type ChainEntry struct {
	Provider provider.Provider
	Backoff  *provider.BackoffPolicy
}

// Service 生成協調器
// 依固定順序嘗試提供者鏈：本地 FreeAI → OpenRouter 免費模型（依序）→ Gemini
// 成本低的在前、能力強的在後，第一個成功的回應勝出
type Service struct {
	chain []ChainEntry
}

// NewService 依配置建立提供者鏈
func NewService(cfg *config.Config) *Service {
	var chain []ChainEntry

	if cfg.FreeAI.Enabled {
		chain = append(chain, ChainEntry{
			Provider: freeai.NewClient(&cfg.FreeAI),
		})
	}

	if cfg.OpenRouter.Enabled {
		backoff := cfg.OpenRouter.Backoff
		if backoff <= 0 {
			backoff = 500 * time.Millisecond
		}
		for i, model := range cfg.OpenRouter.Models {
			entry := ChainEntry{
				Provider: openrouter.NewClient(&cfg.OpenRouter, model),
			}
			// 模型之間固定退避；最後一個模型失敗後直接進入下一層
			if i < len(cfg.OpenRouter.Models)-1 {
				entry.Backoff = provider.NewBackoffPolicy(backoff)
			}
			chain = append(chain, entry)
		}
	}

	if cfg.Gemini.Enabled {
		chain = append(chain, ChainEntry{
			Provider: gemini.NewClient(&cfg.Gemini, cfg.Gemini.Model),
		})
		// 標準模型失敗後，以更強的變體再試一次
		if cfg.Gemini.FallbackModel != "" {
			chain = append(chain, ChainEntry{
				Provider: gemini.NewClient(&cfg.Gemini, cfg.Gemini.FallbackModel),
			})
		}
	}

	common.LogInfo("提供者鏈已建立", zap.Int("提供者數量", len(chain)))

	return &Service{chain: chain}
}

// NewServiceWithChain 以自訂鏈建立協調器（測試用）
func NewServiceWithChain(chain []ChainEntry) *Service {
	return &Service{chain: chain}
}

// Generate 依序嘗試提供者鏈，回傳第一個非空回應
// 全部失敗時回傳提供者耗盡錯誤，包裝最後一個錯誤
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for _, entry := range s.chain {
		start := time.Now()
		content, err := entry.Provider.Generate(ctx, prompt)
		duration := time.Since(start)

		if err == nil && content != "" {
			common.LogAICall(entry.Provider.Name(), duration, nil)
			return content, nil
		}
		if err == nil {
			err = common.NewValidationError("empty response")
		}
		lastErr = err

		common.LogWarn("提供者嘗試失敗",
			zap.String("提供者", entry.Provider.Name()),
			zap.Error(err),
			zap.Duration("耗時", duration),
		)

		// context 已取消就不再嘗試後續提供者
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}

		if entry.Backoff != nil {
			if err := entry.Backoff.Wait(ctx); err != nil {
				lastErr = err
				break
			}
		}
	}

	common.LogError("所有提供者皆失敗",
		zap.Int("提供者數量", len(s.chain)),
		zap.Error(lastErr),
	)

	return "", common.NewError(
		common.ErrProviderExhausted.Code,
		common.ErrProviderExhausted.Message,
		common.ErrProviderExhausted.Status,
		lastErr,
	)
}
