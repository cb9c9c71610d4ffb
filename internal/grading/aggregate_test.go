package grading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

func TestContributionStaysWithinWeight(t *testing.T) {
	assignment := models.Assignment{ID: 1, MaxPoints: 100, Weight: 0.6}

	for _, earned := range []float64{0, 25, 50, 100} {
		contribution, err := Contribution(assignment, earned)
		require.NoError(t, err)
		require.GreaterOrEqual(t, contribution, 0.0)
		require.LessOrEqual(t, contribution, assignment.Weight)
	}
}

func TestContributionRejectsPointsOutsideRange(t *testing.T) {
	assignment := models.Assignment{ID: 1, MaxPoints: 50, Weight: 0.4}

	for _, earned := range []float64{-1, 50.01, 100} {
		_, err := Contribution(assignment, earned)
		require.Error(t, err)

		var rangeErr *OutOfRangeError
		require.ErrorAs(t, err, &rangeErr)
	}
}

func TestFinalAverageWeightedExample(t *testing.T) {
	assignments := []models.Assignment{
		{ID: 1, MaxPoints: 100, Weight: 0.6},
		{ID: 2, MaxPoints: 50, Weight: 0.4},
	}
	earned := map[uint]float64{1: 80, 2: 25}

	average, err := FinalAverage(assignments, earned)
	require.NoError(t, err)
	require.InDelta(t, 0.68, average, 1e-9)
}

func TestFinalAverageMissingEntryCountsAsZero(t *testing.T) {
	assignments := []models.Assignment{
		{ID: 1, MaxPoints: 100, Weight: 0.6},
		{ID: 2, MaxPoints: 50, Weight: 0.4},
	}
	earned := map[uint]float64{1: 100}

	average, err := FinalAverage(assignments, earned)
	require.NoError(t, err)
	require.InDelta(t, 0.6, average, 1e-9)
}

func TestPercentage(t *testing.T) {
	require.InDelta(t, 80.0, Percentage(40, 50), 1e-9)
	require.InDelta(t, 0.0, Percentage(10, 0), 1e-9)
}

func TestByTypeGroupsOnExplicitTypeField(t *testing.T) {
	assignments := []models.Assignment{
		{ID: 1, Name: "Midterm EXAM prep homework", Type: models.AssignmentTypeHomework},
		{ID: 2, Name: "Final", Type: models.AssignmentTypeExam},
		{ID: 3, Name: "Quiz 1", Type: models.AssignmentTypeQuiz},
		{ID: 4, Name: "Quiz 2", Type: models.AssignmentTypeQuiz},
	}

	grouped := ByType(assignments)
	require.Len(t, grouped[models.AssignmentTypeHomework], 1)
	require.Len(t, grouped[models.AssignmentTypeExam], 1)
	require.Len(t, grouped[models.AssignmentTypeQuiz], 2)
	require.Equal(t, uint(1), grouped[models.AssignmentTypeHomework][0].ID)
}
