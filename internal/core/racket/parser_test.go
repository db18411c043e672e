package racket

import (
	"testing"

	"smashly-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var compareRackets = []common.Racket{
	{ID: 1, Name: "Vertex 04", Brand: "Bullpadel", Hardness: "dura", Shape: "diamante"},
	{ID: 2, Name: "AT10 Genius", Brand: "Nox", TesteaCertificado: true, TesteaPotencia: ptr(8), TesteaControl: ptr(9), TesteaManejabilidad: ptr(7)},
}

func TestParseComparisonComplete(t *testing.T) {
	raw := `{
		"executiveSummary": "resumen",
		"technicalAnalysis": [{"title": "Potencia", "content": "..."}],
		"comparisonTable": [{"feature": "Forma", "Vertex 04": "diamante", "AT10 Genius": "redonda"}],
		"recommendedProfiles": "perfiles",
		"biomechanicalConsiderations": "consideraciones",
		"conclusion": "conclusión",
		"metrics": [
			{"racketName": "Vertex 04", "potencia": 9, "control": 6, "salidaDeBola": 5, "manejabilidad": 6, "puntoDulce": 4},
			{"racketName": "AT10 Genius", "potencia": 8, "control": 9, "salidaDeBola": 7, "manejabilidad": 7, "puntoDulce": 8}
		]
	}`

	result, parseResult, err := ParseComparison(raw, compareRackets)
	require.NoError(t, err)
	assert.Equal(t, StatusParsed, parseResult.Status)
	assert.Empty(t, parseResult.RepairedFields)
	assert.Equal(t, "resumen", result.ExecutiveSummary)
	require.Len(t, result.Metrics, 2)
	assert.Equal(t, 9.0, result.Metrics[0].Potencia)
	assert.True(t, result.Metrics[1].Certified)
}

func TestParseComparisonStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"executiveSummary\": \"ok\", \"conclusion\": \"fin\"}\n```"

	result, parseResult, err := ParseComparison(raw, compareRackets)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.ExecutiveSummary)
	assert.Equal(t, StatusRepaired, parseResult.Status)
}

func TestParseComparisonRepairsMissingFields(t *testing.T) {
	raw := `{"executiveSummary": "solo resumen"}`

	result, parseResult, err := ParseComparison(raw, compareRackets)
	require.NoError(t, err)

	assert.Equal(t, StatusRepaired, parseResult.Status)
	assert.Contains(t, parseResult.RepairedFields, "metrics")
	assert.Contains(t, parseResult.RepairedFields, "comparisonTable")
	assert.Contains(t, parseResult.RepairedFields, "conclusion")

	// 比較表預設為空陣列而非 nil
	assert.NotNil(t, result.ComparisonTable)
	assert.Empty(t, result.ComparisonTable)

	// 每支球拍恰好一筆向量，順序與請求一致
	require.Len(t, result.Metrics, 2)
	assert.Equal(t, "Vertex 04", result.Metrics[0].RacketName)
	assert.Equal(t, "AT10 Genius", result.Metrics[1].RacketName)
}

func TestParseComparisonSynthesizedMetricsUseCertifiedData(t *testing.T) {
	raw := `{"executiveSummary": "sin metrics", "conclusion": "fin"}`

	result, _, err := ParseComparison(raw, compareRackets)
	require.NoError(t, err)
	require.Len(t, result.Metrics, 2)

	// 未認證球拍：衍生軸由物理特性推導，其餘預設 5
	uncert := result.Metrics[0]
	assert.False(t, uncert.Certified)
	assert.Equal(t, 5.0, uncert.Potencia)
	assert.Equal(t, 3.0, uncert.SalidaDeBola) // dura → baja
	assert.Equal(t, 3.0, uncert.PuntoDulce)   // diamante → reducido

	// 認證球拍：採用認證數據
	cert := result.Metrics[1]
	assert.True(t, cert.Certified)
	assert.Equal(t, 8.0, cert.Potencia)
	assert.Equal(t, 9.0, cert.Control)
}

func TestParseComparisonAlignsPartialMetrics(t *testing.T) {
	// 模型只回傳其中一支，另一支需合成
	raw := `{
		"executiveSummary": "parcial",
		"conclusion": "fin",
		"metrics": [{"racketName": "at10 genius", "potencia": 7, "control": 8, "salidaDeBola": 6, "manejabilidad": 7, "puntoDulce": 7}]
	}`

	result, parseResult, err := ParseComparison(raw, compareRackets)
	require.NoError(t, err)
	assert.Equal(t, StatusRepaired, parseResult.Status)

	require.Len(t, result.Metrics, 2)
	// 名稱比對不分大小寫，輸出使用目錄名稱
	assert.Equal(t, "Vertex 04", result.Metrics[0].RacketName)
	assert.Equal(t, "AT10 Genius", result.Metrics[1].RacketName)
	assert.Equal(t, 7.0, result.Metrics[1].Potencia)
}

func TestParseComparisonUnparseableFails(t *testing.T) {
	_, _, err := ParseComparison("lo siento, no puedo generar la comparación", compareRackets)
	require.Error(t, err)

	var customErr *common.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.ErrInvalidAIResponse.Code, customErr.Code)
}

func TestExtractJSONBlockIgnoresSurroundingText(t *testing.T) {
	raw := "Aquí tienes el resultado:\n{\"executiveSummary\": \"con ruido\", \"conclusion\": \"fin\"}\nEspero que te sirva."

	result, _, err := ParseComparison(raw, compareRackets)
	require.NoError(t, err)
	assert.Equal(t, "con ruido", result.ExecutiveSummary)
}
