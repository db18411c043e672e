package provider

import (
	"context"
)

// Provider 定義 AI 提供者介面
// 提供者鏈中的每個成員（本地服務、各個 OpenRouter 模型、Gemini 各變體）
// 都是一個獨立的 Provider，由協調器依固定順序嘗試
type Provider interface {
	// Name 提供者識別名稱（用於日誌與測試）
	Name() string

	// Generate 生成 AI 響應，空回應視為失敗
	Generate(ctx context.Context, prompt string) (string, error)
}
