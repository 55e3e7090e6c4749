package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementModel struct {
	AnnouncementID       uuid.UUID `gorm:"column:announcement_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"announcement_id"`
	AnnouncementCourseID uuid.UUID `gorm:"column:announcement_course_id;type:uuid;not null;index" json:"announcement_course_id"`
	AnnouncementAuthorID uuid.UUID `gorm:"column:announcement_author_id;type:uuid;not null" json:"announcement_author_id"`
	AnnouncementTitle    string    `gorm:"column:announcement_title;type:varchar(180);not null" json:"announcement_title"`
	AnnouncementBody     string    `gorm:"column:announcement_body;type:text;not null" json:"announcement_body"`

	AnnouncementCreatedAt time.Time      `gorm:"column:announcement_created_at;not null;autoCreateTime" json:"announcement_created_at"`
	AnnouncementUpdatedAt time.Time      `gorm:"column:announcement_updated_at;not null;autoUpdateTime" json:"announcement_updated_at"`
	AnnouncementDeletedAt gorm.DeletedAt `gorm:"column:announcement_deleted_at;index" json:"announcement_deleted_at,omitempty"`
}

func (AnnouncementModel) TableName() string { return "announcements" }

func (m *AnnouncementModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnnouncementID == uuid.Nil {
		m.AnnouncementID = uuid.New()
	}
	return nil
}
