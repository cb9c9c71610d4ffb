package grading

import (
	"fmt"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// OutOfRangeError reports earned points outside [0, max].
type OutOfRangeError struct {
	Points float64
	Max    float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("points %.2f outside valid range [0, %.2f]", e.Points, e.Max)
}

// ValidatePoints checks that earned points fall within [0, max].
func ValidatePoints(points, max float64) error {
	if points < 0 || points > max {
		return &OutOfRangeError{Points: points, Max: max}
	}
	return nil
}

// Contribution returns the assignment's weighted share of the final grade:
// earned/maxPoints * weight.
func Contribution(assignment models.Assignment, earned float64) (float64, error) {
	if err := ValidatePoints(earned, assignment.MaxPoints); err != nil {
		return 0, err
	}
	if assignment.MaxPoints <= 0 {
		return 0, &OutOfRangeError{Points: earned, Max: assignment.MaxPoints}
	}

	return earned / assignment.MaxPoints * assignment.Weight, nil
}

// FinalAverage sums the contributions of every assignment in the course.
// An assignment missing from earned counts as zero points: the average always
// reflects all assigned work, not only completed work.
func FinalAverage(assignments []models.Assignment, earned map[uint]float64) (float64, error) {
	var total float64
	for _, assignment := range assignments {
		points := earned[assignment.ID]
		contribution, err := Contribution(assignment, points)
		if err != nil {
			return 0, err
		}
		total += contribution
	}

	return total, nil
}

// Percentage converts earned points into a published percentage grade.
func Percentage(points, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return points / max * 100
}

// ByType groups assignments by their explicit type tag.
func ByType(assignments []models.Assignment) map[models.AssignmentType][]models.Assignment {
	grouped := make(map[models.AssignmentType][]models.Assignment)
	for _, assignment := range assignments {
		grouped[assignment.Type] = append(grouped[assignment.Type], assignment)
	}

	return grouped
}
