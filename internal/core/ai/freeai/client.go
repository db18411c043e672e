package freeai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smashly-api/internal/infrastructure/config"
	"smashly-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Client 本地 FreeAI 服務客戶端，提供者鏈的第一順位
// 回應為串流文字，必須完整緩衝後才回傳；空緩衝視為失敗
type Client struct {
	httpClient *http.Client
	config     *config.FreeAIConfig
}

// Request 表示 API 請求
type Request struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// chunk 串流中的單一 JSON 片段，不同後端的欄位名稱不一致
type chunk struct {
	Response string `json:"response,omitempty"`
	Content  string `json:"content,omitempty"`
	Done     bool   `json:"done,omitempty"`
}

// NewClient 創建新的 FreeAI 客戶端
func NewClient(cfg *config.FreeAIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: cfg,
	}
}

// Name 提供者識別名稱
func (c *Client) Name() string {
	return "freeai"
}

// Generate 發送 prompt 並緩衝完整的串流回應
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(&Request{
		Model:  c.config.Model,
		Prompt: prompt,
		Stream: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	common.LogInfo("Sending request to FreeAI",
		zap.String("url", url),
		zap.String("model", c.config.Model),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("FreeAI service error (status %d)", resp.StatusCode)
	}

	// 逐行緩衝串流內容，同時支援 SSE 與原始 JSON 行兩種格式
	var buffer strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "data: ")
		if line == "[DONE]" {
			break
		}

		var ck chunk
		if err := json.Unmarshal([]byte(line), &ck); err != nil {
			// 非 JSON 行視為原始文字片段
			buffer.WriteString(line)
			continue
		}
		if ck.Response != "" {
			buffer.WriteString(ck.Response)
		} else if ck.Content != "" {
			buffer.WriteString(ck.Content)
		}
		if ck.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read stream: %w", err)
	}

	content := strings.TrimSpace(buffer.String())
	if content == "" {
		return "", fmt.Errorf("empty content in FreeAI stream")
	}

	common.LogInfo("Successfully generated response from FreeAI",
		zap.Int("content_length", len(content)),
	)

	return content, nil
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
