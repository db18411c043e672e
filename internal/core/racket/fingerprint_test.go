package racket

import (
	"testing"

	"smashly-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

func baseProfile() *common.UserProfile {
	return &common.UserProfile{
		Level:     "intermedio",
		Budget:    "150",
		Injuries:  "no",
		Frequency: "semanal",
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint(baseProfile(), false)
	b := Fingerprint(baseProfile(), false)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprintNormalizesCaseAndWhitespace(t *testing.T) {
	p1 := baseProfile()
	p2 := baseProfile()
	p2.Level = "  Intermedio "
	p2.Budget = "150"

	assert.Equal(t, Fingerprint(p1, false), Fingerprint(p2, false))
}

func TestFingerprintIgnoresFreeTextFields(t *testing.T) {
	p1 := baseProfile()
	p2 := baseProfile()
	p2.CurrentRacket = "Bullpadel Vertex 04"
	p2.CurrentRacketLikes = "buen control"

	assert.Equal(t, Fingerprint(p1, false), Fingerprint(p2, false))
}

func TestFingerprintChangesWithEssentialFields(t *testing.T) {
	p1 := baseProfile()
	p2 := baseProfile()
	p2.Budget = "300"

	assert.NotEqual(t, Fingerprint(p1, false), Fingerprint(p2, false))
}

func TestFingerprintAdvancedIncludesPlayStyle(t *testing.T) {
	p1 := baseProfile()
	p1.PlayStyle = "ofensivo"
	p2 := baseProfile()
	p2.PlayStyle = "defensivo"

	// 基本表單不納入打法欄位
	assert.Equal(t, Fingerprint(p1, false), Fingerprint(p2, false))
	// 進階表單納入
	assert.NotEqual(t, Fingerprint(p1, true), Fingerprint(p2, true))
}
