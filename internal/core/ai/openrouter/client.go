package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"smashly-api/internal/infrastructure/config"
	"smashly-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://openrouter.ai/api/v1"

// Client OpenRouter 客戶端，綁定單一模型
// 提供者鏈中每個免費模型各對應一個 Client 實例，依固定順序嘗試
type Client struct {
	client *resty.Client
	config *config.OpenRouterConfig
	model  string
}

// NewClient 創建綁定指定模型的 OpenRouter 客戶端
func NewClient(cfg *config.OpenRouterConfig, model string) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://smashly.app").
		SetHeader("X-Title", "Smashly")

	return &Client{
		client: client,
		config: cfg,
		model:  model,
	}
}

// Name 提供者識別名稱
func (c *Client) Name() string {
	return "openrouter:" + c.model
}

// Generate 生成回應
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	// 構建請求
	req := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"max_tokens": c.config.MaxTokens,
	}

	common.LogInfo("Sending request to OpenRouter",
		zap.String("model", c.model),
	)

	// 發送請求
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenRouter API returned error (status %d): %s", resp.StatusCode(), resp.String())
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	content := result.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty content in OpenRouter response")
	}

	return content, nil
}
