package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChapterModel struct {
	ChapterID          uuid.UUID `gorm:"column:chapter_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"chapter_id"`
	ChapterCourseID    uuid.UUID `gorm:"column:chapter_course_id;type:uuid;not null;index" json:"chapter_course_id"`
	ChapterTitle       string    `gorm:"column:chapter_title;type:varchar(180);not null" json:"chapter_title"`
	ChapterDescription *string   `gorm:"column:chapter_description;type:text" json:"chapter_description,omitempty"`
	// Posisi manual (1-based), dipakai untuk urutan tampilan
	ChapterPosition int `gorm:"column:chapter_position;not null;default:1" json:"chapter_position"`

	ChapterCreatedAt time.Time      `gorm:"column:chapter_created_at;not null;autoCreateTime" json:"chapter_created_at"`
	ChapterUpdatedAt time.Time      `gorm:"column:chapter_updated_at;not null;autoUpdateTime" json:"chapter_updated_at"`
	ChapterDeletedAt gorm.DeletedAt `gorm:"column:chapter_deleted_at;index" json:"chapter_deleted_at,omitempty"`
}

func (ChapterModel) TableName() string { return "chapters" }

func (m *ChapterModel) BeforeCreate(tx *gorm.DB) error {
	if m.ChapterID == uuid.Nil {
		m.ChapterID = uuid.New()
	}
	return nil
}
