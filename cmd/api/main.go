package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smashly-api/internal/api"
	"smashly-api/internal/core/ai/cache"
	"smashly-api/internal/core/racket"
	"smashly-api/internal/infrastructure/catalog"
	"smashly-api/internal/infrastructure/config"
	"smashly-api/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 使用 logger 記錄啟動信息
	common.LogInfo("載入設定",
		zap.Bool("freeai_enabled", cfg.FreeAI.Enabled),
		zap.Bool("openrouter_enabled", cfg.OpenRouter.Enabled),
		zap.Bool("gemini_enabled", cfg.Gemini.Enabled),
		zap.Strings("openrouter_models", cfg.OpenRouter.Models),
	)

	// 初始化球拍目錄儲存
	catalogStore, err := catalog.NewRedisStore(&cfg.Catalog)
	if err != nil {
		common.LogFatal("Failed to connect to catalog store", zap.Error(err))
	}
	defer catalogStore.Close()

	// 記錄目錄認證數據覆蓋率
	if rackets, err := catalogStore.ListAll(context.Background()); err == nil {
		total, certified, percentage := racket.CertificationCoverage(rackets)
		common.LogInfo("球拍目錄已載入",
			zap.Int("總數", total),
			zap.Int("認證數量", certified),
			zap.Int("認證比例", percentage),
		)
	} else {
		common.LogWarn("無法預讀球拍目錄", zap.Error(err))
	}

	// 初始化快取
	cacheManager := cache.NewManager(cfg)
	// 只在快取開啟但初始化失敗時才 Fatal
	if cfg.Cache.Enabled && cacheManager == nil {
		common.LogFatal("Failed to initialize cache manager")
	}
	defer cacheManager.Close()

	// 設置路由
	router, err := api.SetupRouter(cfg, cacheManager, catalogStore)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
