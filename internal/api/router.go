package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"smashly-api/internal/api/handlers/health"
	racketHandler "smashly-api/internal/api/handlers/racket"
	"smashly-api/internal/api/middleware"
	"smashly-api/internal/core/ai/cache"
	"smashly-api/internal/core/ai/service"
	racketService "smashly-api/internal/core/racket"
	"smashly-api/internal/infrastructure/catalog"
	"smashly-api/internal/infrastructure/config"
	"smashly-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)，純 JSON 請求不需要更大
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager, catalogStore catalog.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 速率限制與請求去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	if cfg.DedupWindow > 0 {
		router.Use(middleware.Deduplication(cfg))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Strings("openrouter_models", cfg.OpenRouter.Models),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化 AI 供應鏈服務
	aiService := service.NewService(cfg)
	if aiService == nil {
		common.LogError("Failed to initialize AI service")
		return nil, fmt.Errorf("failed to initialize AI service")
	}

	// 初始化推薦與比較服務
	recommendSvc := racketService.NewRecommendService(aiService, cacheManager, catalogStore)
	compareSvc := racketService.NewCompareService(aiService, catalogStore)
	if recommendSvc == nil || compareSvc == nil {
		common.LogError("Failed to initialize racket services: service returned nil",
			zap.Bool("ai_service_initialized", aiService != nil),
			zap.Bool("cache_manager_initialized", cacheManager != nil),
			zap.String("environment", cfg.App.Env),
		)
		return nil, fmt.Errorf("failed to initialize racket services: service returned nil")
	}

	common.LogInfo("Racket services initialized successfully",
		zap.Bool("ai_service_initialized", aiService != nil),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.String("environment", cfg.App.Env),
	)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		// 創建新的請求上下文
		req := c.Request.WithContext(ctx)
		c.Request = req

		// 設置配置與快取管理器
		c.Set("config", cfg)
		c.Set("cache_manager", cacheManager)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		racketHandlerInstance := racketHandler.NewHandler(recommendSvc, compareSvc, cacheManager)

		// 個人化推薦
		api.POST("/recommendations", racketHandlerInstance.HandleRecommendation)

		// 球拍比較
		api.POST("/comparisons", racketHandlerInstance.HandleComparison)

		// 管理操作
		adminGroup := api.Group("/admin")
		{
			adminGroup.POST("/cache/clear", racketHandlerInstance.HandleClearCache)
			adminGroup.GET("/cache/stats", racketHandlerInstance.HandleCacheStats)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("ai_service_initialized", aiService != nil),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
