package grading

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateWeightRejectsOutOfRange(t *testing.T) {
	require.NoError(t, ValidateWeight(0.5))
	require.NoError(t, ValidateWeight(1.0))

	for _, w := range []float64{0, -0.2, 1.01, 2} {
		err := ValidateWeight(w)
		require.Error(t, err)

		var weightErr *WeightError
		require.ErrorAs(t, err, &weightErr)
		require.Equal(t, WeightOutOfRange, weightErr.Kind)
	}
}

func TestValidateWeightsAcceptsSumsWithinEpsilon(t *testing.T) {
	require.NoError(t, ValidateWeights([]float64{0.6, 0.4}))
	require.NoError(t, ValidateWeights([]float64{0.25, 0.25, 0.25, 0.25}))
	require.NoError(t, ValidateWeights([]float64{0.333, 0.333, 0.333}))
	require.NoError(t, ValidateWeights([]float64{0.5, 0.505}))
}

func TestValidateWeightsRejectsSumsOutsideEpsilon(t *testing.T) {
	for _, weights := range [][]float64{
		{0.6, 0.3},
		{0.5, 0.6},
		{0.2, 0.2, 0.2},
		{1.0, 0.02},
	} {
		err := ValidateWeights(weights)
		require.Error(t, err)

		var weightErr *WeightError
		require.ErrorAs(t, err, &weightErr)
		require.Equal(t, WeightNotNormalized, weightErr.Kind)
	}
}

func TestValidateWeightsRejectsBadSingleWeightBeforeSum(t *testing.T) {
	err := ValidateWeights([]float64{1.5, -0.5})
	require.Error(t, err)

	var weightErr *WeightError
	require.ErrorAs(t, err, &weightErr)
	require.Equal(t, WeightOutOfRange, weightErr.Kind)
}
