package racket

import (
	"testing"

	"smashly-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestMetricsForCertified(t *testing.T) {
	r := common.Racket{
		Name:                "Certified Pro",
		TesteaPotencia:      ptr(8.5),
		TesteaControl:       ptr(7),
		TesteaManejabilidad: ptr(6.5),
		TesteaConfort:       ptr(9),
		TesteaCertificado:   true,
	}

	m := MetricsFor(r)
	assert.True(t, m.Certificado)
	assert.Equal(t, 8.5, m.Potencia)
	assert.Equal(t, 9.0, m.Confort)
}

func TestMetricsForCertifiedMissingAxisDefaultsToFive(t *testing.T) {
	r := common.Racket{
		Name:              "Partial Cert",
		TesteaCertificado: true,
		TesteaPotencia:    ptr(9),
	}

	m := MetricsFor(r)
	assert.True(t, m.Certificado)
	assert.Equal(t, 9.0, m.Potencia)
	assert.Equal(t, 5.0, m.Control)
	assert.Equal(t, 5.0, m.Confort)
}

func TestMetricsForEstimated(t *testing.T) {
	r := common.Racket{
		Name:     "Diamond Attack",
		Shape:    "diamante",
		Balance:  "alto",
		Hardness: "dura",
		Weight:   375,
	}

	m := MetricsFor(r)
	require.False(t, m.Certificado)
	// 鑽石 +2、高平衡 +2、重拍 +1、硬拍 +1
	assert.Equal(t, 10.0, m.Potencia)
	assert.LessOrEqual(t, m.Control, 10.0)
	require.NotNil(t, m.Iniciacion)
	assert.GreaterOrEqual(t, *m.Iniciacion, 0.0)
	assert.LessOrEqual(t, *m.Iniciacion, 10.0)
}

func TestHasCertification(t *testing.T) {
	assert.True(t, HasCertification(common.Racket{TesteaCertificado: true}))
	assert.True(t, HasCertification(common.Racket{
		TesteaPotencia:      ptr(5),
		TesteaControl:       ptr(5),
		TesteaManejabilidad: ptr(5),
		TesteaConfort:       ptr(5),
	}))
	assert.False(t, HasCertification(common.Racket{TesteaPotencia: ptr(5)}))
	assert.False(t, HasCertification(common.Racket{}))
}

func TestDerivedMetrics(t *testing.T) {
	salida, punto := DerivedMetrics(common.Racket{Hardness: "blanda", Shape: "redonda"})
	assert.Equal(t, "alta", salida)
	assert.Equal(t, "amplio", punto)

	salida, punto = DerivedMetrics(common.Racket{Hardness: "dura", Shape: "diamante"})
	assert.Equal(t, "baja", salida)
	assert.Equal(t, "reducido", punto)

	salida, punto = DerivedMetrics(common.Racket{})
	assert.Equal(t, "media", salida)
	assert.Equal(t, "medio", punto)
}

func TestCertificationCoverage(t *testing.T) {
	rackets := []common.Racket{
		{TesteaCertificado: true},
		{},
		{},
		{TesteaCertificado: true},
	}

	total, certified, percentage := CertificationCoverage(rackets)
	assert.Equal(t, 4, total)
	assert.Equal(t, 2, certified)
	assert.Equal(t, 50, percentage)
}
