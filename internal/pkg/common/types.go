package common

import (
	"encoding/json"
	"strings"
)

// Racket 球拍目錄項目（由爬蟲寫入目錄儲存，對本服務唯讀）
// 注意：JSON 欄位名稱需與目錄資料（西班牙文欄位）一致
type Racket struct {
	ID               int      `json:"id"`
	Name             string   `json:"nombre"`
	Brand            string   `json:"marca"`
	Price            float64  `json:"precio_actual,omitempty"` // 0 表示價格未知
	Image            string   `json:"imagen,omitempty"`
	Shape            string   `json:"caracteristicas_forma,omitempty"`
	Balance          string   `json:"caracteristicas_balance,omitempty"`
	Hardness         string   `json:"caracteristicas_dureza,omitempty"`
	GameLevel        string   `json:"caracteristicas_nivel_de_juego,omitempty"`
	Weight           float64  `json:"peso,omitempty"`
	HasAntiVibration *bool    `json:"tiene_antivibracion,omitempty"`
	IsBestseller     bool     `json:"es_bestseller,omitempty"`

	// Testea Pádel 實驗室認證數據（0~10，可能缺漏）
	TesteaPotencia      *float64 `json:"testea_potencia,omitempty"`
	TesteaControl       *float64 `json:"testea_control,omitempty"`
	TesteaManejabilidad *float64 `json:"testea_manejabilidad,omitempty"`
	TesteaConfort       *float64 `json:"testea_confort,omitempty"`
	TesteaIniciacion    *float64 `json:"testea_iniciacion,omitempty"`
	TesteaCertificado   bool     `json:"testea_certificado,omitempty"`
}

// BudgetString 預算欄位，前端可能傳數字或字串（"150"、"100-200"、"300+"）
type BudgetString string

// UnmarshalJSON 同時接受 JSON 字串與數字
func (b *BudgetString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*b = BudgetString(str)
		return nil
	}
	if s == "null" {
		*b = ""
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*b = BudgetString(num.String())
	return nil
}

func (b BudgetString) String() string {
	return string(b)
}

// UserProfile 使用者球拍需求表單（基本 + 進階欄位）
// 僅作為請求輸入，本服務不持久化
type UserProfile struct {
	Level             string       `json:"level"`
	Frequency         string       `json:"frequency,omitempty"`
	Injuries          string       `json:"injuries,omitempty"`
	Budget            BudgetString `json:"budget"`
	CurrentRacket     string       `json:"current_racket,omitempty"`
	Gender            string       `json:"gender,omitempty"`
	PhysicalCondition string       `json:"physical_condition,omitempty"`
	TouchPreference   string       `json:"touch_preference,omitempty"`
	AestheticPreference string     `json:"aesthetic_preference,omitempty"`

	// 進階表單欄位
	PlayStyle              string            `json:"play_style,omitempty"`
	YearsPlaying           string            `json:"years_playing,omitempty"`
	Position               string            `json:"position,omitempty"`
	BestShot               string            `json:"best_shot,omitempty"`
	WeakShot               string            `json:"weak_shot,omitempty"`
	WeightPreference       string            `json:"weight_preference,omitempty"`
	BalancePreference      string            `json:"balance_preference,omitempty"`
	ShapePreference        string            `json:"shape_preference,omitempty"`
	CurrentRacketLikes     string            `json:"current_racket_likes,omitempty"`
	CurrentRacketDislikes  string            `json:"current_racket_dislikes,omitempty"`
	Objectives             []string          `json:"objectives,omitempty"`
	CharacteristicPriorities map[string]int  `json:"characteristic_priorities,omitempty"`
}

// HasInjuries 是否申報傷病（"no"/"none"/"ninguna" 視為無）
func (p *UserProfile) HasInjuries() bool {
	injuries := strings.ToLower(strings.TrimSpace(p.Injuries))
	return injuries != "" && injuries != "no" && injuries != "none" && injuries != "ninguna"
}

// TesteaMetrics 球拍性能指標（認證或由物理規格估算）
type TesteaMetrics struct {
	Potencia      float64  `json:"potencia"`
	Control       float64  `json:"control"`
	Manejabilidad float64  `json:"manejabilidad"`
	Confort       float64  `json:"confort"`
	Iniciacion    *float64 `json:"iniciacion,omitempty"`
	Certificado   bool     `json:"certificado"`
}

// RecommendedRacket 推薦結果中的單支球拍
type RecommendedRacket struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Brand         string         `json:"brand"`
	Price         float64        `json:"price,omitempty"`
	Image         string         `json:"image,omitempty"`
	MatchScore    int            `json:"match_score"`
	Reason        string         `json:"reason"`
	TesteaMetrics *TesteaMetrics `json:"testea_metrics,omitempty"`
}

// RecommendationResult 推薦回應
type RecommendationResult struct {
	Rackets  []RecommendedRacket `json:"rackets"`
	Analysis string              `json:"analysis"`
}

// TechnicalSection 比較結果的技術分析段落
type TechnicalSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// RacketComparisonMetrics 單支球拍的五軸比較向量（0~10）
type RacketComparisonMetrics struct {
	RacketName    string  `json:"racketName"`
	Potencia      float64 `json:"potencia"`
	Control       float64 `json:"control"`
	SalidaDeBola  float64 `json:"salidaDeBola"`
	Manejabilidad float64 `json:"manejabilidad"`
	PuntoDulce    float64 `json:"puntoDulce"`
	Certified     bool    `json:"certified"`
}

// ComparisonResult 球拍比較回應
type ComparisonResult struct {
	ExecutiveSummary            string                    `json:"executiveSummary"`
	TechnicalAnalysis           []TechnicalSection        `json:"technicalAnalysis"`
	ComparisonTable             []map[string]interface{}  `json:"comparisonTable"`
	RecommendedProfiles         string                    `json:"recommendedProfiles"`
	BiomechanicalConsiderations string                    `json:"biomechanicalConsiderations"`
	Conclusion                  string                    `json:"conclusion"`
	Metrics                     []RacketComparisonMetrics `json:"metrics"`
}
