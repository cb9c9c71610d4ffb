package dto

import "github.com/noah-isme/gradebook-go-api/internal/models"

// GradebookEntry is one assignment's line in a student's gradebook.
type GradebookEntry struct {
	AssignmentID   uint     `json:"assignment_id"`
	AssignmentName string   `json:"assignment_name"`
	Type           string   `json:"type"`
	Weight         float64  `json:"weight"`
	MaxPoints      float64  `json:"max_points"`
	PointsEarned   float64  `json:"points_earned"`
	Contribution   float64  `json:"contribution"`
	Grade          *float64 `json:"grade"`
	Submitted      bool     `json:"submitted"`
}

// GradebookResponse aggregates a student's standing in one course.
type GradebookResponse struct {
	CourseID     uint             `json:"course_id"`
	CourseName   string           `json:"course_name"`
	StudentID    uint             `json:"student_id"`
	FinalAverage float64          `json:"final_average"`
	Entries      []GradebookEntry `json:"entries"`
}

// TypeGroupResponse lists a course's assignments grouped by type.
type TypeGroupResponse struct {
	Type        string               `json:"type"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// NewTypeGroupResponses flattens a grouped assignment map into a stable,
// type-keyed list.
func NewTypeGroupResponses(grouped map[models.AssignmentType][]models.Assignment) []TypeGroupResponse {
	order := []models.AssignmentType{
		models.AssignmentTypeHomework,
		models.AssignmentTypeQuiz,
		models.AssignmentTypeExam,
		models.AssignmentTypeProject,
	}

	responses := make([]TypeGroupResponse, 0, len(grouped))
	for _, kind := range order {
		assignments, ok := grouped[kind]
		if !ok {
			continue
		}
		responses = append(responses, TypeGroupResponse{
			Type:        string(kind),
			Assignments: NewAssignmentResponseSlice(assignments),
		})
	}

	return responses
}
