package gemini

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

const baseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client Gemini 客戶端，提供者鏈的最後防線
// 標準模型失敗後，鏈中會以更強的 fallback 模型再嘗試一次
type Client struct {
	client *resty.Client
	config *config.GeminiConfig
	model  string
}

// NewClient 創建綁定指定模型的 Gemini 客戶端
func NewClient(cfg *config.GeminiConfig, model string) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetQueryParam("key", cfg.APIKey)

	return &Client{
		client: client,
		config: cfg,
		model:  model,
	}
}

// Name 提供者識別名稱
func (c *Client) Name() string {
	return "gemini:" + c.model
}

// Generate 生成回應
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	// 構建請求
	req := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}

	common.LogInfo("Sending request to Gemini",
		zap.String("model", c.model),
	)

	// 發送請求
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(fmt.Sprintf("/models/%s:generateContent", c.model))

	if err != nil {
		return "", fmt.Errorf("failed to send request to Gemini: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("Gemini API returned error (status %d): %s", resp.StatusCode(), resp.String())
	}

	// 解析回應
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in Gemini response")
	}

	content := result.Candidates[0].Content.Parts[0].Text
	if content == "" {
		return "", fmt.Errorf("empty content in Gemini response")
	}

	return content, nil
}
