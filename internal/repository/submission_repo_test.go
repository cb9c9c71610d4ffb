package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

func TestSubmissionRepositoryCreateRequiresAndLinksCollaborators(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)

	student := models.User{Name: "Ada", Email: "ada+sub@example.com", Role: models.UserRoleStudent}
	require.NoError(t, db.Create(&student).Error)

	assignment := models.Assignment{CourseID: 1, Name: "Lab 1", DueDate: time.Now(), MaxPoints: 10, Weight: 1.0, Type: models.AssignmentTypeHomework}
	require.NoError(t, db.Create(&assignment).Error)

	submission := models.Submission{
		AssignmentID:  assignment.ID,
		FileURL:       "https://files.example.com/lab1.pdf",
		SubmittedAt:   time.Now(),
		Grade:         models.UnpublishedGrade,
		Status:        models.SubmissionStatusUngraded,
		Collaborators: []models.User{student},
	}
	require.NoError(t, repo.Create(context.Background(), &submission))

	stored, err := repo.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Len(t, stored.Collaborators, 1)
	require.Equal(t, student.ID, stored.Collaborators[0].ID)
	require.Equal(t, assignment.ID, stored.Assignment.ID)
}

func TestSubmissionRepositoryListForCourseStudent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)

	student := models.User{Name: "Grace", Email: "grace+sub@example.com", Role: models.UserRoleStudent}
	other := models.User{Name: "Linus", Email: "linus+sub@example.com", Role: models.UserRoleStudent}
	require.NoError(t, db.Create(&student).Error)
	require.NoError(t, db.Create(&other).Error)

	course := models.Course{Name: "OS", Active: true}
	otherCourse := models.Course{Name: "AI", Active: true}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&otherCourse).Error)

	inCourse := models.Assignment{CourseID: course.ID, Name: "Scheduler", DueDate: time.Now(), MaxPoints: 100, Weight: 1.0, Type: models.AssignmentTypeProject}
	elsewhere := models.Assignment{CourseID: otherCourse.ID, Name: "Search", DueDate: time.Now(), MaxPoints: 100, Weight: 1.0, Type: models.AssignmentTypeProject}
	require.NoError(t, db.Create(&inCourse).Error)
	require.NoError(t, db.Create(&elsewhere).Error)

	mine := models.Submission{AssignmentID: inCourse.ID, SubmittedAt: time.Now(), Grade: models.UnpublishedGrade, Status: models.SubmissionStatusUngraded, Collaborators: []models.User{student}}
	theirs := models.Submission{AssignmentID: inCourse.ID, SubmittedAt: time.Now(), Grade: models.UnpublishedGrade, Status: models.SubmissionStatusUngraded, Collaborators: []models.User{other}}
	otherCourseSub := models.Submission{AssignmentID: elsewhere.ID, SubmittedAt: time.Now(), Grade: models.UnpublishedGrade, Status: models.SubmissionStatusUngraded, Collaborators: []models.User{student}}
	require.NoError(t, repo.Create(context.Background(), &mine))
	require.NoError(t, repo.Create(context.Background(), &theirs))
	require.NoError(t, repo.Create(context.Background(), &otherCourseSub))

	results, err := repo.ListForCourseStudent(context.Background(), course.ID, student.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, mine.ID, results[0].ID)
}

func TestSubmissionRepositoryDeleteRemovesJoinRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)

	student := models.User{Name: "Edsger", Email: "edsger+sub@example.com", Role: models.UserRoleStudent}
	require.NoError(t, db.Create(&student).Error)

	submission := models.Submission{
		AssignmentID:  1,
		SubmittedAt:   time.Now(),
		Grade:         models.UnpublishedGrade,
		Status:        models.SubmissionStatusUngraded,
		Collaborators: []models.User{student},
	}
	require.NoError(t, repo.Create(context.Background(), &submission))
	require.NoError(t, repo.CreateHistory(context.Background(), &models.SubmissionGradeHistory{
		SubmissionID: submission.ID, PointsEarned: 5, GradedBy: 1, GradedAt: time.Now(),
	}))

	require.NoError(t, repo.Delete(context.Background(), submission.ID))

	_, err := repo.GetByID(context.Background(), submission.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Table("submission_collaborators").Where("submission_id = ?", submission.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.SubmissionGradeHistory{}).Where("submission_id = ?", submission.ID).Count(&count).Error)
	require.Zero(t, count)
}
