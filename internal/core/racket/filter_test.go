package racket

import (
	"fmt"
	"testing"

	"smashly-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBudget(t *testing.T) {
	tests := []struct {
		input   string
		ok      bool
		min     float64
		max     float64
		hasMin  bool
		hasMax  bool
	}{
		{"150", true, 0, 150, false, true},
		{"100-200", true, 100, 200, true, true},
		{"300+", true, 300, 0, true, false},
		{"150€", true, 0, 150, false, true},
		{" 100 - 200 ", true, 100, 200, true, true},
		{"", false, 0, 0, false, false},
		{"abc", false, 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			br, ok := parseBudget(tt.input)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			if tt.hasMin {
				require.NotNil(t, br.min)
				assert.Equal(t, tt.min, *br.min)
			} else {
				assert.Nil(t, br.min)
			}
			if tt.hasMax {
				require.NotNil(t, br.max)
				assert.Equal(t, tt.max, *br.max)
			} else {
				assert.Nil(t, br.max)
			}
		})
	}
}

func TestBudgetRangeUnknownPricePasses(t *testing.T) {
	br, ok := parseBudget("100-200")
	require.True(t, ok)

	assert.True(t, br.contains(0), "未知價格應通過預算篩選")
	assert.True(t, br.contains(150))
	assert.False(t, br.contains(250))
	assert.False(t, br.contains(50))
}

func TestMatchScoreBounds(t *testing.T) {
	profile := &common.UserProfile{
		Level:    "intermedio",
		Budget:   "300",
		Injuries: "codo de tenista",
	}
	r := common.Racket{
		ID:           1,
		Name:         "Test Pro",
		Brand:        "Bullpadel",
		Price:        100,
		GameLevel:    "intermedio",
		Hardness:     "blanda",
		IsBestseller: true,
	}

	score := MatchScore(r, profile, false)
	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, 100)
	// 等級 40 + 預算餘裕 20 + 傷病 20 + 熱銷 10
	assert.Equal(t, 90, score)
}

func TestMatchScoreAdjacentLevel(t *testing.T) {
	profile := &common.UserProfile{Level: "principiante"}
	r := common.Racket{GameLevel: "intermedio"}

	assert.Equal(t, 20, MatchScore(r, profile, false))
}

func TestMatchScorePlayStyleAdvancedOnly(t *testing.T) {
	profile := &common.UserProfile{
		Level:     "avanzado",
		PlayStyle: "ofensivo",
	}
	r := common.Racket{
		GameLevel: "avanzado",
		Shape:     "diamante",
	}

	// 基本表單不計打法分
	assert.Equal(t, 40, MatchScore(r, profile, false))
	// 進階表單加計 20 分
	assert.Equal(t, 60, MatchScore(r, profile, true))
}

func TestShortlistFiltersAndScores(t *testing.T) {
	rackets := []common.Racket{
		{ID: 1, Name: "Control One", Brand: "Nox", Price: 120, GameLevel: "intermedio", Shape: "redonda", Hardness: "blanda"},
		{ID: 2, Name: "Power Max", Brand: "Adidas", Price: 350, GameLevel: "avanzado", Shape: "diamante"},
		{ID: 3, Name: "Starter", Brand: "Head", Price: 60, GameLevel: "principiante"},
	}
	profile := &common.UserProfile{
		Level:  "intermedio",
		Budget: "200",
	}

	result := Shortlist(rackets, profile, false)

	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].Racket.ID)
	assert.Greater(t, result[0].Score, 0)
}

func TestShortlistInjuryStageSkippedWhenEmpty(t *testing.T) {
	// 所有球拍皆為硬拍高平衡，傷病篩選會清空集合，應跳過該階段
	rackets := []common.Racket{
		{ID: 1, Name: "Hard One", Brand: "Nox", Price: 100, GameLevel: "intermedio", Hardness: "dura", Balance: "alto"},
		{ID: 2, Name: "Hard Two", Brand: "Head", Price: 110, GameLevel: "intermedio", Hardness: "dura", Balance: "alto"},
	}
	profile := &common.UserProfile{
		Level:    "intermedio",
		Budget:   "200",
		Injuries: "hombro",
	}

	result := Shortlist(rackets, profile, false)
	assert.Len(t, result, 2)
}

func TestEnsureDiversityBrandCap(t *testing.T) {
	// 10 個品牌各 10 支，總量充足：單一品牌不得超過 8 支
	var scored []ScoredRacket
	for b := 0; b < 10; b++ {
		for i := 0; i < 10; i++ {
			scored = append(scored, ScoredRacket{
				Racket: common.Racket{
					ID:    b*10 + i,
					Name:  fmt.Sprintf("Racket %d-%d", b, i),
					Brand: fmt.Sprintf("Brand%d", b),
				},
				Score: 100 - i,
			})
		}
	}

	result := ensureDiversity(scored, shortlistTarget)

	require.Len(t, result, shortlistTarget)
	counts := make(map[string]int)
	for _, item := range result {
		counts[item.Racket.Brand]++
	}
	for brand, n := range counts {
		assert.LessOrEqual(t, n, brandCap, "品牌 %s 超過上限", brand)
	}
}

func TestEnsureDiversityBackfillIsSoftCap(t *testing.T) {
	// 單一品牌 50 支：上限先取 8 支，回填補滿 40 支
	var scored []ScoredRacket
	for i := 0; i < 50; i++ {
		scored = append(scored, ScoredRacket{
			Racket: common.Racket{ID: i, Name: fmt.Sprintf("Solo %d", i), Brand: "OnlyBrand"},
			Score:  100 - i,
		})
	}

	result := ensureDiversity(scored, shortlistTarget)

	require.Len(t, result, shortlistTarget)
	// 回填依分數次序
	assert.Equal(t, 0, result[0].Racket.ID)
}

func TestEnsureDiversityFewerThanTarget(t *testing.T) {
	scored := []ScoredRacket{
		{Racket: common.Racket{ID: 1, Brand: "A"}, Score: 90},
		{Racket: common.Racket{ID: 2, Brand: "B"}, Score: 80},
	}

	result := ensureDiversity(scored, shortlistTarget)
	assert.Len(t, result, 2)
}
