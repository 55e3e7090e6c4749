package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseEnrollmentModel: keberadaan row = siswa terdaftar di course.
// Unique (course_id, user_id) mencegah enroll ganda.
type CourseEnrollmentModel struct {
	CourseEnrollmentID       uuid.UUID `gorm:"column:course_enrollment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"course_enrollment_id"`
	CourseEnrollmentCourseID uuid.UUID `gorm:"column:course_enrollment_course_id;type:uuid;not null;uniqueIndex:uq_course_enrollment" json:"course_enrollment_course_id"`
	CourseEnrollmentUserID   uuid.UUID `gorm:"column:course_enrollment_user_id;type:uuid;not null;uniqueIndex:uq_course_enrollment" json:"course_enrollment_user_id"`

	CourseEnrollmentEnrolledAt time.Time `gorm:"column:course_enrollment_enrolled_at;not null;autoCreateTime" json:"course_enrollment_enrolled_at"`
}

func (CourseEnrollmentModel) TableName() string { return "course_enrollments" }

func (m *CourseEnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseEnrollmentID == uuid.Nil {
		m.CourseEnrollmentID = uuid.New()
	}
	return nil
}
