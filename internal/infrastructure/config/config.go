package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	FreeAI      FreeAIConfig     `mapstructure:"freeai"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	Gemini      GeminiConfig     `mapstructure:"gemini"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Catalog     CatalogConfig    `mapstructure:"catalog"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// FreeAIConfig 本地 FreeAI 服務配置（提供者鏈第一順位）
type FreeAIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// OpenRouterConfig OpenRouter 配置（提供者鏈第二順位，依序嘗試多個免費模型）
type OpenRouterConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	APIKey    string        `mapstructure:"api_key"`
	Models    []string      `mapstructure:"models"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Backoff   time.Duration `mapstructure:"backoff"`
}

// GeminiConfig Gemini 配置（提供者鏈最後順位，失敗時升級到更強的模型重試一次）
type GeminiConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	APIKey        string        `mapstructure:"api_key"`
	Model         string        `mapstructure:"model"`
	FallbackModel string        `mapstructure:"fallback_model"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// CacheConfig 推薦結果快取配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// CatalogConfig 球拍目錄儲存配置（由爬蟲寫入 Redis，本服務唯讀）
type CatalogConfig struct {
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	Key           string `mapstructure:"key"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件
	if err := godotenv.Load(); err != nil {
		return nil, err
	}

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("freeai.enabled", "FREE_AI_ENABLED")
	viper.BindEnv("freeai.base_url", "FREE_AI_API_URL")
	viper.BindEnv("freeai.model", "FREE_AI_MODEL")
	viper.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("openrouter.max_tokens", "MODEL_MAX_TOKENS")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "GEMINI_MODEL")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("catalog.redis_addr", "CATALOG_REDIS_ADDR")
	viper.BindEnv("catalog.redis_password", "CATALOG_REDIS_PASSWORD")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration",
		"openrouter_api_key:", maskAPIKey(viper.GetString("openrouter.api_key")),
		"gemini_api_key:", maskAPIKey(viper.GetString("gemini.api_key")),
		"freeai_base_url:", viper.GetString("freeai.base_url"))

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "smashly-api")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// FreeAI 設定
	viper.SetDefault("freeai.enabled", true)
	viper.SetDefault("freeai.base_url", "http://localhost:11434")
	viper.SetDefault("freeai.model", "llama3.1")
	viper.SetDefault("freeai.timeout", "2m")

	// OpenRouter 設定：固定順序的免費模型清單
	viper.SetDefault("openrouter.enabled", true)
	viper.SetDefault("openrouter.models", []string{
		"google/gemini-2.0-flash-exp:free",
		"deepseek/deepseek-r1:free",
		"meta-llama/llama-3.3-70b-instruct:free",
		"mistralai/mistral-nemo:free",
		"qwen/qwen-2.5-7b-instruct:free",
	})
	viper.SetDefault("openrouter.max_tokens", 4000)
	viper.SetDefault("openrouter.timeout", "60s")
	viper.SetDefault("openrouter.backoff", "500ms")

	// Gemini 設定
	viper.SetDefault("gemini.enabled", true)
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.fallback_model", "gemini-2.5-pro")
	viper.SetDefault("gemini.timeout", "60s")

	// 快取設定：推薦結果保留 7 天，每小時清理一次
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 10000)
	viper.SetDefault("cache.ttl", "168h")
	viper.SetDefault("cache.cleanup_interval", "1h")

	// 目錄儲存設定
	viper.SetDefault("catalog.redis_addr", "localhost:6379")
	viper.SetDefault("catalog.redis_db", 0)
	viper.SetDefault("catalog.key", "smashly:catalog:rackets")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 重複請求過濾窗口
	viper.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 至少要有一個可用的提供者
	if !config.FreeAI.Enabled && !config.OpenRouter.Enabled && !config.Gemini.Enabled {
		return fmt.Errorf("at least one AI provider must be enabled")
	}

	// 驗證 OpenRouter 模型清單
	if config.OpenRouter.Enabled && len(config.OpenRouter.Models) == 0 {
		return fmt.Errorf("openrouter models list is empty")
	}

	// 驗證目錄儲存設定
	if config.Catalog.RedisAddr == "" {
		return fmt.Errorf("catalog redis addr is required")
	}
	if config.Catalog.Key == "" {
		return fmt.Errorf("catalog key is required")
	}

	return nil
}
