package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseThreadModel struct {
	CourseThreadID       uuid.UUID `gorm:"column:course_thread_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"course_thread_id"`
	CourseThreadCourseID uuid.UUID `gorm:"column:course_thread_course_id;type:uuid;not null;index" json:"course_thread_course_id"`
	CourseThreadAuthorID uuid.UUID `gorm:"column:course_thread_author_id;type:uuid;not null" json:"course_thread_author_id"`
	CourseThreadTitle    string    `gorm:"column:course_thread_title;type:varchar(180);not null" json:"course_thread_title"`
	CourseThreadBody     string    `gorm:"column:course_thread_body;type:text;not null" json:"course_thread_body"`

	CourseThreadCreatedAt time.Time      `gorm:"column:course_thread_created_at;not null;autoCreateTime" json:"course_thread_created_at"`
	CourseThreadUpdatedAt time.Time      `gorm:"column:course_thread_updated_at;not null;autoUpdateTime" json:"course_thread_updated_at"`
	CourseThreadDeletedAt gorm.DeletedAt `gorm:"column:course_thread_deleted_at;index" json:"course_thread_deleted_at,omitempty"`
}

func (CourseThreadModel) TableName() string { return "course_threads" }

func (m *CourseThreadModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseThreadID == uuid.Nil {
		m.CourseThreadID = uuid.New()
	}
	return nil
}
