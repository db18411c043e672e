package racket

import (
	"errors"
	"net/http"
	"strings"

	"smashly-api/internal/core/ai/cache"
	racketService "smashly-api/internal/core/racket"
	"smashly-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecommendationRequest 球拍推薦請求
// type 決定使用基本或進階表單欄位
type RecommendationRequest struct {
	Type string             `json:"type" binding:"required,oneof=basic advanced"`
	Data common.UserProfile `json:"data" binding:"required"`
}

// ComparisonRequest 球拍比較請求
type ComparisonRequest struct {
	RacketIDs   []int               `json:"racketIds" binding:"required"`
	UserProfile *common.UserProfile `json:"userProfile,omitempty"`
}

// Handler 球拍推薦與比較處理程序
type Handler struct {
	recommendService *racketService.RecommendService
	compareService   *racketService.CompareService
	cacheManager     *cache.Manager
}

// NewHandler 創建新的球拍處理程序
func NewHandler(recommendService *racketService.RecommendService, compareService *racketService.CompareService, cacheManager *cache.Manager) *Handler {
	return &Handler{
		recommendService: recommendService,
		compareService:   compareService,
		cacheManager:     cacheManager,
	}
}

// HandleRecommendation 產生個人化球拍推薦
func (h *Handler) HandleRecommendation(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	common.LogInfo("開始處理球拍推薦請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if strings.TrimSpace(req.Data.Level) == "" {
		common.LogError("缺少必要欄位 level",
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field 'level' is required"})
		return
	}

	advanced := req.Type == "advanced"
	result, err := h.recommendService.Recommend(c.Request.Context(), &req.Data, advanced)
	if err != nil {
		common.LogError("球拍推薦失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		writeServiceError(c, err, "Recommendation failed")
		return
	}

	common.LogInfo("球拍推薦成功",
		zap.String("request_id", requestID),
		zap.Int("推薦數量", len(result.Rackets)),
	)
	c.JSON(http.StatusOK, result)
}

// HandleComparison 比較 2~3 支球拍
func (h *Handler) HandleComparison(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	common.LogInfo("開始處理球拍比較請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req ComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.compareService.Compare(c.Request.Context(), req.RacketIDs, req.UserProfile)
	if err != nil {
		common.LogError("球拍比較失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.Ints("racket_ids", req.RacketIDs),
		)
		writeServiceError(c, err, "Comparison failed")
		return
	}

	common.LogInfo("球拍比較成功",
		zap.String("request_id", requestID),
		zap.Ints("racket_ids", req.RacketIDs),
	)
	c.JSON(http.StatusOK, gin.H{"comparison": result})
}

// HandleClearCache 清空推薦結果快取（管理操作）
func (h *Handler) HandleClearCache(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	removed := h.cacheManager.Clear()

	common.LogInfo("快取已清空",
		zap.String("request_id", requestID),
		zap.Int("移除項目數", removed),
	)
	c.JSON(http.StatusOK, gin.H{
		"message": "Cache cleared",
		"removed": removed,
	})
}

// HandleCacheStats 查詢快取統計（管理操作）
func (h *Handler) HandleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.cacheManager.GetStats())
}

// writeServiceError 將服務層錯誤轉換為 HTTP 回應
// CustomError 帶有狀態碼與錯誤代碼；其他錯誤一律視為內部錯誤
func writeServiceError(c *gin.Context, err error, fallback string) {
	var customErr *common.CustomError
	if errors.As(err, &customErr) {
		c.JSON(customErr.Status, gin.H{
			"error": customErr.Message,
			"code":  customErr.Code,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
