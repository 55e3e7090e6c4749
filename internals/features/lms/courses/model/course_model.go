package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
	CourseStatusArchived  CourseStatus = "archived"
)

func (s CourseStatus) Valid() bool {
	switch s {
	case CourseStatusDraft, CourseStatusPublished, CourseStatusArchived:
		return true
	}
	return false
}

type CourseModel struct {
	CourseID           uuid.UUID    `gorm:"column:course_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	CourseInstructorID uuid.UUID    `gorm:"column:course_instructor_id;type:uuid;not null;index" json:"course_instructor_id"`
	CourseTitle        string       `gorm:"column:course_title;type:varchar(180);not null" json:"course_title"`
	CourseDescription  *string      `gorm:"column:course_description;type:text" json:"course_description,omitempty"`
	CourseJoinCode     string       `gorm:"column:course_join_code;type:varchar(12);not null;uniqueIndex" json:"course_join_code"`
	CourseInviteToken  uuid.UUID    `gorm:"column:course_invite_token;type:uuid;not null" json:"course_invite_token"`
	CourseStatus       CourseStatus `gorm:"column:course_status;type:varchar(12);not null;default:'draft'" json:"course_status"`
	CourseCategory     *string      `gorm:"column:course_category;type:varchar(80)" json:"course_category,omitempty"`
	CourseColor        *string      `gorm:"column:course_color;type:varchar(20)" json:"course_color,omitempty"`
	CourseCoverURL     *string      `gorm:"column:course_cover_url;type:text" json:"course_cover_url,omitempty"`
	CourseCoverKey     *string      `gorm:"column:course_cover_key;type:text" json:"-"`

	CourseCreatedAt time.Time      `gorm:"column:course_created_at;not null;autoCreateTime" json:"course_created_at"`
	CourseUpdatedAt time.Time      `gorm:"column:course_updated_at;not null;autoUpdateTime" json:"course_updated_at"`
	CourseDeletedAt gorm.DeletedAt `gorm:"column:course_deleted_at;index" json:"course_deleted_at,omitempty"`
}

func (CourseModel) TableName() string { return "courses" }

func (m *CourseModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseID == uuid.Nil {
		m.CourseID = uuid.New()
	}
	if m.CourseInviteToken == uuid.Nil {
		m.CourseInviteToken = uuid.New()
	}
	return nil
}
