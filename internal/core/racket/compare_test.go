package racket

import (
	"context"
	"testing"

	"smashly-api/internal/infrastructure/catalog"
	"smashly-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareRejectsInvalidCount(t *testing.T) {
	svc := NewCompareService(&fakeGenerator{}, catalog.NewMemoryStore(testCatalog()))

	for _, ids := range [][]int{{}, {1}, {1, 2, 3, 1}} {
		_, err := svc.Compare(context.Background(), ids, nil)
		require.Error(t, err)

		var customErr *common.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, common.ErrInvalidComparison.Code, customErr.Code)
	}
}

func TestCompareUnknownIDFails(t *testing.T) {
	svc := NewCompareService(&fakeGenerator{}, catalog.NewMemoryStore(testCatalog()))

	_, err := svc.Compare(context.Background(), []int{1, 99}, nil)
	require.Error(t, err)

	var customErr *common.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.ErrRacketNotFound.Code, customErr.Code)
}

func TestCompareHappyPath(t *testing.T) {
	gen := &fakeGenerator{
		response: `{
			"executiveSummary": "dos palas muy distintas",
			"conclusion": "depende del perfil",
			"metrics": [
				{"racketName": "Control One", "potencia": 6, "control": 9, "salidaDeBola": 7, "manejabilidad": 8, "puntoDulce": 8},
				{"racketName": "Power Two", "potencia": 9, "control": 6, "salidaDeBola": 5, "manejabilidad": 6, "puntoDulce": 4}
			]
		}`,
	}
	svc := NewCompareService(gen, catalog.NewMemoryStore(testCatalog()))

	result, err := svc.Compare(context.Background(), []int{1, 2}, &common.UserProfile{Level: "intermedio"})
	require.NoError(t, err)

	assert.Equal(t, "dos palas muy distintas", result.ExecutiveSummary)
	require.Len(t, result.Metrics, 2)
	assert.Equal(t, "Control One", result.Metrics[0].RacketName)
	assert.Equal(t, "Power Two", result.Metrics[1].RacketName)
	assert.Equal(t, 1, gen.calls)
}
