package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

func TestCourseRepositoryDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)
	submissions := NewSubmissionRepository(db)

	student := models.User{Name: "Ada", Email: "ada@example.com", Role: models.UserRoleStudent}
	partner := models.User{Name: "Grace", Email: "grace@example.com", Role: models.UserRoleStudent}
	require.NoError(t, db.Create(&student).Error)
	require.NoError(t, db.Create(&partner).Error)

	course := models.Course{Name: "Compilers", Active: true}
	require.NoError(t, repo.Create(context.Background(), &course))

	due := time.Now().Add(24 * time.Hour)
	first := models.Assignment{CourseID: course.ID, Name: "Lexer", DueDate: due, MaxPoints: 100, Weight: 0.5, Type: models.AssignmentTypeHomework}
	second := models.Assignment{CourseID: course.ID, Name: "Parser", DueDate: due, MaxPoints: 100, Weight: 0.5, Type: models.AssignmentTypeProject}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	var submissionIDs []uint
	for i := 0; i < 5; i++ {
		assignmentID := first.ID
		if i >= 3 {
			assignmentID = second.ID
		}
		submission := models.Submission{
			AssignmentID:  assignmentID,
			FileURL:       "https://files.example.com/sub.pdf",
			SubmittedAt:   time.Now(),
			Grade:         models.UnpublishedGrade,
			Status:        models.SubmissionStatusUngraded,
			Collaborators: []models.User{student, partner},
		}
		require.NoError(t, submissions.Create(context.Background(), &submission))
		require.NoError(t, submissions.CreateHistory(context.Background(), &models.SubmissionGradeHistory{
			SubmissionID: submission.ID,
			PointsEarned: 10,
			GradedBy:     1,
			GradedAt:     time.Now(),
		}))
		submissionIDs = append(submissionIDs, submission.ID)
	}

	enrollment := models.UserCourse{UserID: student.ID, CourseID: course.ID, Status: models.EnrollmentStatusActive, Role: models.UserRoleStudent}
	require.NoError(t, db.Create(&enrollment).Error)

	require.NoError(t, repo.Delete(context.Background(), course.ID))

	var count int64
	require.NoError(t, db.Model(&models.Assignment{}).Where("course_id = ?", course.ID).Count(&count).Error)
	require.Zero(t, count, "assignments must be removed")

	require.NoError(t, db.Model(&models.Submission{}).Where("id IN ?", submissionIDs).Count(&count).Error)
	require.Zero(t, count, "submissions must be removed")

	require.NoError(t, db.Model(&models.SubmissionGradeHistory{}).Where("submission_id IN ?", submissionIDs).Count(&count).Error)
	require.Zero(t, count, "grade history must be removed")

	require.NoError(t, db.Table("submission_collaborators").Where("submission_id IN ?", submissionIDs).Count(&count).Error)
	require.Zero(t, count, "collaborator join rows must be removed")

	require.NoError(t, db.Model(&models.UserCourse{}).Where("course_id = ?", course.ID).Count(&count).Error)
	require.Zero(t, count, "enrollments must be removed")

	_, err := repo.GetByID(context.Background(), course.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Users themselves survive a course deletion.
	require.NoError(t, db.Model(&models.User{}).Where("id IN ?", []uint{student.ID, partner.ID}).Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestCourseRepositorySetTemplate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)

	template := models.CourseTemplate{Name: "Scaffold"}
	require.NoError(t, db.Create(&template).Error)

	course := models.Course{Name: "Networks", Active: true}
	require.NoError(t, repo.Create(context.Background(), &course))

	require.NoError(t, repo.SetTemplate(context.Background(), course.ID, &template.ID))
	stored, err := repo.GetByID(context.Background(), course.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CourseTemplateID)
	require.Equal(t, template.ID, *stored.CourseTemplateID)

	require.NoError(t, repo.SetTemplate(context.Background(), course.ID, nil))
	stored, err = repo.GetByID(context.Background(), course.ID)
	require.NoError(t, err)
	require.Nil(t, stored.CourseTemplateID)
}

func TestCourseRepositoryListFiltersByActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)

	require.NoError(t, repo.Create(context.Background(), &models.Course{Name: "Active", Active: true}))
	inactive := models.Course{Name: "Archived", Active: false}
	require.NoError(t, repo.Create(context.Background(), &inactive))
	require.NoError(t, repo.Update(context.Background(), &inactive))

	active := true
	courses, err := repo.List(context.Background(), CourseFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "Active", courses[0].Name)
}
