package models

import "time"

// Course is a concrete, dated offering. A nil CourseTemplateID means the
// course was authored ad hoc; when set, the template only serves as the
// default scaffold for future assignment creation.
type Course struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	CourseTemplateID *uint        `gorm:"index" json:"course_template_id"`
	Name             string       `gorm:"size:255;not null" json:"name"`
	Active           bool         `gorm:"not null;default:true" json:"active"`
	Assignments      []Assignment `gorm:"foreignKey:CourseID" json:"assignments"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
