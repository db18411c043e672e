package racket

import (
	"sort"
	"strconv"
	"strings"

	"smashly-api/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	// 候選清單目標數量與單一品牌上限
	shortlistTarget = 40
	brandCap        = 8
)

// ScoredRacket 帶匹配分數（0~100）的候選球拍
type ScoredRacket struct {
	Racket common.Racket
	Score  int
}

// 各等級可接受的目錄標籤，一階相鄰降級避免篩選結果清空
var levelMap = map[string][]string{
	"principiante": {"principiante", "iniciación", "fácil", "intermedio", "polivalente"},
	"intermedio":   {"intermedio", "polivalente", "avanzado"},
	"avanzado":     {"avanzado", "pro", "competición", "profesional", "intermedio"},
}

// budgetRange 解析後的預算範圍，nil 邊界表示無限制
type budgetRange struct {
	min *float64
	max *float64
}

// parseBudget 解析預算字串
// 支援三種格式：上限（"150"）、閉區間（"100-200"）、開放下限（"300+"）
func parseBudget(budget string) (budgetRange, bool) {
	s := strings.TrimSpace(budget)
	// 去除貨幣符號與空白
	s = strings.NewReplacer("€", "", "$", "", " ", "").Replace(s)
	if s == "" {
		return budgetRange{}, false
	}

	if strings.HasSuffix(s, "+") {
		min, err := strconv.ParseFloat(strings.TrimSuffix(s, "+"), 64)
		if err != nil {
			return budgetRange{}, false
		}
		return budgetRange{min: &min}, true
	}

	if strings.Contains(s, "-") {
		parts := strings.SplitN(s, "-", 2)
		min, errMin := strconv.ParseFloat(parts[0], 64)
		max, errMax := strconv.ParseFloat(parts[1], 64)
		if errMin != nil || errMax != nil {
			return budgetRange{}, false
		}
		return budgetRange{min: &min, max: &max}, true
	}

	max, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return budgetRange{}, false
	}
	return budgetRange{max: &max}, true
}

// contains 價格是否落在範圍內，未知價格（0）一律通過
func (r budgetRange) contains(price float64) bool {
	if price <= 0 {
		return true
	}
	if r.min != nil && price < *r.min {
		return false
	}
	if r.max != nil && price > *r.max {
		return false
	}
	return true
}

// Shortlist 從完整目錄篩選出多樣化的候選清單
// 篩選階段依序收窄集合；傷病與打法階段若會清空集合則跳過，預算與等級為硬性條件
func Shortlist(rackets []common.Racket, profile *common.UserProfile, advanced bool) []ScoredRacket {
	common.LogInfo("開始智慧篩選",
		zap.Int("目錄數量", len(rackets)),
		zap.String("等級", profile.Level),
		zap.String("預算", profile.Budget.String()),
	)

	filtered := rackets

	// 1. 預算篩選
	if br, ok := parseBudget(profile.Budget.String()); ok {
		filtered = filterByBudget(filtered, br)
	}
	common.LogInfo("預算篩選後", zap.Int("剩餘數量", len(filtered)))

	// 2. 等級篩選
	filtered = filterByLevel(filtered, profile.Level)
	common.LogInfo("等級篩選後", zap.Int("剩餘數量", len(filtered)))

	// 3. 傷病篩選：保留軟質或低/中平衡的球拍；清空集合時跳過
	if profile.HasInjuries() {
		if narrowed := filterByInjuries(filtered); len(narrowed) > 0 {
			filtered = narrowed
		} else {
			common.LogWarn("傷病篩選會清空候選集合，跳過該階段")
		}
		common.LogInfo("傷病篩選後", zap.Int("剩餘數量", len(filtered)))
	}

	// 4. 打法篩選（僅進階表單）：清空集合時跳過
	if advanced && profile.PlayStyle != "" {
		if narrowed := filterByPlayStyle(filtered, profile.PlayStyle); len(narrowed) > 0 {
			filtered = narrowed
		} else {
			common.LogWarn("打法篩選會清空候選集合，跳過該階段")
		}
		common.LogInfo("打法篩選後", zap.Int("剩餘數量", len(filtered)))
	}

	// 5. 計算匹配分數並排序
	scored := make([]ScoredRacket, len(filtered))
	for i, r := range filtered {
		scored[i] = ScoredRacket{Racket: r, Score: MatchScore(r, profile, advanced)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	// 6. 品牌多樣性：單一品牌最多 8 支，不足 40 支時以次高分回填
	result := ensureDiversity(scored, shortlistTarget)

	common.LogInfo("候選清單已完成", zap.Int("候選數量", len(result)))
	return result
}

// filterByBudget 預算篩選
func filterByBudget(rackets []common.Racket, br budgetRange) []common.Racket {
	var result []common.Racket
	for _, r := range rackets {
		if br.contains(r.Price) {
			result = append(result, r)
		}
	}
	return result
}

// filterByLevel 等級篩選，帶一階相鄰降級
func filterByLevel(rackets []common.Racket, level string) []common.Racket {
	accepted := levelMap[strings.ToLower(strings.TrimSpace(level))]
	if len(accepted) == 0 {
		return rackets
	}

	var result []common.Racket
	for _, r := range rackets {
		racketLevel := strings.ToLower(r.GameLevel)
		for _, lvl := range accepted {
			if strings.Contains(racketLevel, lvl) {
				result = append(result, r)
				break
			}
		}
	}
	return result
}

// filterByInjuries 傷病篩選：軟質拍面或低/中平衡
func filterByInjuries(rackets []common.Racket) []common.Racket {
	var result []common.Racket
	for _, r := range rackets {
		hardness := strings.ToLower(r.Hardness)
		balance := strings.ToLower(r.Balance)

		isSoft := strings.Contains(hardness, "blanda") || strings.Contains(hardness, "soft")
		isLowBalance := strings.Contains(balance, "bajo") || strings.Contains(balance, "medio")

		if isSoft || isLowBalance {
			result = append(result, r)
		}
	}
	return result
}

// filterByPlayStyle 打法篩選（進階表單）
func filterByPlayStyle(rackets []common.Racket, playStyle string) []common.Racket {
	style := strings.ToLower(playStyle)

	var result []common.Racket
	for _, r := range rackets {
		shape := strings.ToLower(r.Shape)
		balance := strings.ToLower(r.Balance)

		switch {
		case strings.Contains(style, "ofensivo") || strings.Contains(style, "atacante"):
			// 進攻型：鑽石拍形或高平衡
			if strings.Contains(shape, "diamante") || strings.Contains(balance, "alto") {
				result = append(result, r)
			}
		case strings.Contains(style, "defensivo") || strings.Contains(style, "control"):
			// 防守型：圓形拍面或低平衡
			if strings.Contains(shape, "redonda") || strings.Contains(balance, "bajo") {
				result = append(result, r)
			}
		default:
			// 均衡型：不限拍形
			result = append(result, r)
		}
	}
	return result
}

// MatchScore 計算球拍與使用者輪廓的匹配分數（0~100）
func MatchScore(r common.Racket, profile *common.UserProfile, advanced bool) int {
	score := 0

	// 1. 等級匹配（40 分，相鄰等級 20 分）
	racketLevel := strings.ToLower(r.GameLevel)
	userLevel := strings.ToLower(strings.TrimSpace(profile.Level))
	if userLevel != "" && strings.Contains(racketLevel, userLevel) {
		score += 40
	} else if (userLevel == "principiante" && strings.Contains(racketLevel, "intermedio")) ||
		(userLevel == "intermedio" && strings.Contains(racketLevel, "avanzado")) ||
		(userLevel == "avanzado" && strings.Contains(racketLevel, "intermedio")) {
		score += 20
	}

	// 2. 預算餘裕（20 分：價格 ≤ 上限 80% 拿滿，≤ 上限 15 分）
	if r.Price > 0 {
		if br, ok := parseBudget(profile.Budget.String()); ok && br.max != nil && *br.max > 0 {
			ratio := r.Price / *br.max
			if ratio <= 0.8 {
				score += 20
			} else if ratio <= 1.0 {
				score += 15
			}
		}
	}

	// 3. 打法匹配（20 分，polivalente 15 分）— 僅進階表單
	if advanced {
		style := strings.ToLower(profile.PlayStyle)
		shape := strings.ToLower(r.Shape)
		balance := strings.ToLower(r.Balance)

		if strings.Contains(style, "ofensivo") &&
			(strings.Contains(shape, "diamante") || strings.Contains(balance, "alto")) {
			score += 20
		} else if strings.Contains(style, "defensivo") &&
			(strings.Contains(shape, "redonda") || strings.Contains(balance, "bajo")) {
			score += 20
		} else if strings.Contains(style, "polivalente") {
			score += 15
		}
	}

	// 4. 傷病考量（20 分）：軟質拍面
	if profile.HasInjuries() {
		hardness := strings.ToLower(r.Hardness)
		if strings.Contains(hardness, "blanda") || strings.Contains(hardness, "soft") {
			score += 20
		}
	}

	// 5. 熱銷加分（10 分）
	if r.IsBestseller {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// ensureDiversity 品牌多樣性選取
// 先依分數取候選並限制單一品牌 8 支；若不足目標數量，以剩餘高分回填（軟上限）
func ensureDiversity(scored []ScoredRacket, targetCount int) []ScoredRacket {
	result := make([]ScoredRacket, 0, targetCount)
	brandCounts := make(map[string]int)
	taken := make(map[int]bool)

	for i, item := range scored {
		if len(result) >= targetCount {
			break
		}
		brand := item.Racket.Brand
		if brand == "" {
			brand = "Unknown"
		}
		if brandCounts[brand] < brandCap {
			result = append(result, item)
			brandCounts[brand]++
			taken[i] = true
		}
	}

	// 品牌上限導致不足時，以次高分回填，不再受品牌限制
	if len(result) < targetCount {
		for i, item := range scored {
			if len(result) >= targetCount {
				break
			}
			if !taken[i] {
				result = append(result, item)
			}
		}
	}

	return result
}
