package racket

import (
	"math"
	"strings"

	"smashly-api/internal/pkg/common"

	"go.uber.org/zap"
)

// MetricsFor 取得球拍的性能指標
// 有 Testea Pádel 認證數據時直接採用；否則由物理規格估算
func MetricsFor(r common.Racket) common.TesteaMetrics {
	if HasCertification(r) {
		return common.TesteaMetrics{
			Potencia:      certifiedOrDefault(r.TesteaPotencia),
			Control:       certifiedOrDefault(r.TesteaControl),
			Manejabilidad: certifiedOrDefault(r.TesteaManejabilidad),
			Confort:       certifiedOrDefault(r.TesteaConfort),
			Iniciacion:    r.TesteaIniciacion,
			Certificado:   true,
		}
	}
	return estimateMetrics(r)
}

// HasCertification 球拍是否具備實驗室認證數據
func HasCertification(r common.Racket) bool {
	if r.TesteaCertificado {
		return true
	}
	return r.TesteaPotencia != nil && r.TesteaControl != nil &&
		r.TesteaManejabilidad != nil && r.TesteaConfort != nil
}

func certifiedOrDefault(v *float64) float64 {
	if v == nil {
		return 5
	}
	return *v
}

// estimateMetrics 由拍形、平衡、硬度與重量估算性能指標
func estimateMetrics(r common.Racket) common.TesteaMetrics {
	shape := strings.ToLower(r.Shape)
	balance := strings.ToLower(r.Balance)
	hardness := strings.ToLower(r.Hardness)
	weight := r.Weight
	if weight <= 0 {
		weight = 365
	}

	// 力量：鑽石拍形、高平衡、重拍、硬質拍面
	potencia := 5.0
	if strings.Contains(shape, "diamante") {
		potencia += 2
	} else if strings.Contains(shape, "lágrima") {
		potencia += 1
	}
	if strings.Contains(balance, "alto") {
		potencia += 2
	} else if strings.Contains(balance, "medio") {
		potencia += 1
	}
	if weight > 370 {
		potencia += 1
	}
	if strings.Contains(hardness, "dura") {
		potencia += 1
	}

	// 控制：圓形拍面、低平衡
	control := 5.0
	if strings.Contains(shape, "redonda") {
		control += 2
	} else if strings.Contains(shape, "lágrima") {
		control += 1
	}
	if strings.Contains(balance, "bajo") {
		control += 2
	} else if strings.Contains(balance, "medio") {
		control += 1
	}
	if strings.Contains(hardness, "dura") {
		control += 1
	}

	// 操控性：輕拍、低平衡
	manejabilidad := 5.0
	if weight < 360 {
		manejabilidad += 2
	} else if weight < 370 {
		manejabilidad += 1
	}
	if strings.Contains(balance, "bajo") {
		manejabilidad += 2
	} else if strings.Contains(balance, "medio") {
		manejabilidad += 1
	}

	// 舒適度：軟質拍面、防震技術
	confort := 5.0
	if strings.Contains(hardness, "blanda") || strings.Contains(hardness, "soft") {
		confort += 3
	} else if strings.Contains(hardness, "media") {
		confort += 1
	}
	if r.HasAntiVibration != nil && *r.HasAntiVibration {
		confort += 2
	}

	potencia = clamp(potencia, 0, 10)
	control = clamp(control, 0, 10)
	manejabilidad = clamp(manejabilidad, 0, 10)
	confort = clamp(confort, 0, 10)

	// 入門指數：控制、舒適、操控的加權平均
	iniciacion := math.Round(control*0.3 + confort*0.4 + manejabilidad*0.3)

	common.LogDebug("以物理規格估算性能指標",
		zap.String("球拍", r.Name),
		zap.Float64("potencia", potencia),
		zap.Float64("control", control),
		zap.Float64("manejabilidad", manejabilidad),
		zap.Float64("confort", confort),
	)

	return common.TesteaMetrics{
		Potencia:      potencia,
		Control:       control,
		Manejabilidad: manejabilidad,
		Confort:       confort,
		Iniciacion:    &iniciacion,
		Certificado:   false,
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// DerivedMetrics 推導與物理特性相關的衍生指標
// 出球速度與拍面硬度相關（軟=高），甜蜜點與拍形相關（圓=大）
func DerivedMetrics(r common.Racket) (salidaDeBola, puntoDulce string) {
	hardness := strings.ToLower(r.Hardness)
	shape := strings.ToLower(r.Shape)

	salidaDeBola = "media"
	if strings.Contains(hardness, "blanda") || strings.Contains(hardness, "soft") {
		salidaDeBola = "alta"
	} else if strings.Contains(hardness, "dura") || strings.Contains(hardness, "hard") {
		salidaDeBola = "baja"
	}

	puntoDulce = "medio"
	if strings.Contains(shape, "redonda") {
		puntoDulce = "amplio"
	} else if strings.Contains(shape, "diamante") {
		puntoDulce = "reducido"
	}

	return salidaDeBola, puntoDulce
}

// derivedScore 將衍生指標標籤換算成 0~10 數值，供比較向量使用
func derivedScore(label string) float64 {
	switch label {
	case "alta", "amplio":
		return 8
	case "baja", "reducido":
		return 3
	default:
		return 5
	}
}

// CertificationCoverage 統計目錄中具認證數據的比例
func CertificationCoverage(rackets []common.Racket) (total, certified, percentage int) {
	total = len(rackets)
	for _, r := range rackets {
		if HasCertification(r) {
			certified++
		}
	}
	if total > 0 {
		percentage = int(math.Round(float64(certified) / float64(total) * 100))
	}
	return total, certified, percentage
}
