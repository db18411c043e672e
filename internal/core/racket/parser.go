package racket

import (
	"encoding/json"
	"strings"

	"smashly-api/internal/pkg/common"

	"go.uber.org/zap"
)

// ParseStatus 解析結果標記
// Parsed 表示回應完整可信；Repaired 表示部分欄位由後端補全
type ParseStatus int

const (
	StatusParsed ParseStatus = iota
	StatusRepaired
)

// ParseResult 結構化回應的解析結果
type ParseResult struct {
	Status         ParseStatus
	RepairedFields []string
}

// looseComparison 寬鬆版中繼結構，容忍模型輸出的型別雜訊
type looseComparison struct {
	ExecutiveSummary            string                   `json:"executiveSummary"`
	TechnicalAnalysis           []common.TechnicalSection `json:"technicalAnalysis"`
	ComparisonTable             json.RawMessage          `json:"comparisonTable"`
	RecommendedProfiles         string                   `json:"recommendedProfiles"`
	BiomechanicalConsiderations string                   `json:"biomechanicalConsiderations"`
	Conclusion                  string                   `json:"conclusion"`
	Metrics                     json.RawMessage          `json:"metrics"`
}

// ParseComparison 解析比較回應
// JSON 區塊缺失或無法解析是硬錯誤；結構存在但欄位缺漏則逐欄位修復，
// 性能向量缺失時以認證數據合成（未認證軸預設 5/10），保證回應形狀永遠可用
func ParseComparison(raw string, expected []common.Racket) (*common.ComparisonResult, ParseResult, error) {
	block, err := common.ExtractJSONBlock(raw)
	if err != nil {
		return nil, ParseResult{}, common.NewError(
			common.ErrInvalidAIResponse.Code,
			common.ErrInvalidAIResponse.Message,
			common.ErrInvalidAIResponse.Status,
			err,
		)
	}

	var loose looseComparison
	if err := common.ParseJSON(block, &loose); err != nil {
		// 模型偶爾漏掉鍵的雙引號，補上後再試一次
		if err2 := common.ParseJSON(common.QuoteJSONKeys(block), &loose); err2 != nil {
			return nil, ParseResult{}, common.NewError(
				common.ErrInvalidAIResponse.Code,
				common.ErrInvalidAIResponse.Message,
				common.ErrInvalidAIResponse.Status,
				err,
			)
		}
	}

	result := &common.ComparisonResult{
		ExecutiveSummary:            loose.ExecutiveSummary,
		TechnicalAnalysis:           loose.TechnicalAnalysis,
		RecommendedProfiles:         loose.RecommendedProfiles,
		BiomechanicalConsiderations: loose.BiomechanicalConsiderations,
		Conclusion:                  loose.Conclusion,
	}

	var repaired []string

	// 逐欄位修復敘事欄位
	if result.ExecutiveSummary == "" {
		repaired = append(repaired, "executiveSummary")
	}
	if result.TechnicalAnalysis == nil {
		result.TechnicalAnalysis = []common.TechnicalSection{}
		repaired = append(repaired, "technicalAnalysis")
	}
	if result.Conclusion == "" {
		repaired = append(repaired, "conclusion")
	}

	// 比較表缺失或非陣列時預設為空陣列
	if table, ok := parseComparisonTable(loose.ComparisonTable); ok {
		result.ComparisonTable = table
	} else {
		result.ComparisonTable = []map[string]interface{}{}
		repaired = append(repaired, "comparisonTable")
	}

	// 性能向量：缺失時合成；存在時對齊到請求的球拍順序
	metrics, metricsRepaired := reconcileMetrics(loose.Metrics, expected)
	result.Metrics = metrics
	if metricsRepaired {
		repaired = append(repaired, "metrics")
	}

	status := StatusParsed
	if len(repaired) > 0 {
		status = StatusRepaired
		common.LogDebug("比較回應欄位已修復",
			zap.Strings("修復欄位", repaired),
		)
	}

	return result, ParseResult{Status: status, RepairedFields: repaired}, nil
}

// parseComparisonTable 解析動態比較表，失敗即視為缺失
func parseComparisonTable(raw json.RawMessage) ([]map[string]interface{}, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var table []map[string]interface{}
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, false
	}
	if table == nil {
		return nil, false
	}
	return table, true
}

// reconcileMetrics 使每支請求的球拍在向量集中恰好出現一次，順序與請求一致
// 模型提供的向量依名稱對齊；缺漏的球拍以認證數據合成
func reconcileMetrics(raw json.RawMessage, expected []common.Racket) ([]common.RacketComparisonMetrics, bool) {
	var provided []common.RacketComparisonMetrics
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &provided); err != nil {
			provided = nil
		}
	}

	byName := make(map[string]common.RacketComparisonMetrics, len(provided))
	for _, m := range provided {
		byName[strings.ToLower(strings.TrimSpace(m.RacketName))] = m
	}

	result := make([]common.RacketComparisonMetrics, 0, len(expected))
	repairedAny := len(provided) == 0

	for _, r := range expected {
		if m, ok := byName[strings.ToLower(strings.TrimSpace(r.Name))]; ok {
			m.RacketName = r.Name
			m.Certified = HasCertification(r)
			result = append(result, m)
			continue
		}
		result = append(result, synthesizeMetrics(r))
		repairedAny = true
	}

	return result, repairedAny
}

// synthesizeMetrics 以認證數據合成單支球拍的比較向量，未認證軸預設 5
func synthesizeMetrics(r common.Racket) common.RacketComparisonMetrics {
	m := common.RacketComparisonMetrics{
		RacketName:    r.Name,
		Potencia:      5,
		Control:       5,
		SalidaDeBola:  5,
		Manejabilidad: 5,
		PuntoDulce:    5,
		Certified:     HasCertification(r),
	}

	if m.Certified {
		if r.TesteaPotencia != nil {
			m.Potencia = *r.TesteaPotencia
		}
		if r.TesteaControl != nil {
			m.Control = *r.TesteaControl
		}
		if r.TesteaManejabilidad != nil {
			m.Manejabilidad = *r.TesteaManejabilidad
		}
	}

	// 衍生軸由物理特性推導
	if r.Hardness != "" || r.Shape != "" {
		salida, punto := DerivedMetrics(r)
		m.SalidaDeBola = derivedScore(salida)
		m.PuntoDulce = derivedScore(punto)
	}

	return m
}
