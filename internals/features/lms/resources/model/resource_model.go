package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResourceType: discriminator tagged-union. Satu base row selalu punya
// tepat satu child row sesuai tipenya; invariant dijaga service (satu tx).
type ResourceType string

const (
	ResourceTypeAttachment ResourceType = "attachment"
	ResourceTypeRichText   ResourceType = "rich_text"
	ResourceTypeQuiz       ResourceType = "quiz"
	ResourceTypeExternal   ResourceType = "external"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTypeAttachment, ResourceTypeRichText, ResourceTypeQuiz, ResourceTypeExternal:
		return true
	}
	return false
}

type ResourceModel struct {
	ResourceID        uuid.UUID    `gorm:"column:resource_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"resource_id"`
	ResourceChapterID uuid.UUID    `gorm:"column:resource_chapter_id;type:uuid;not null;index" json:"resource_chapter_id"`
	// denormalisasi course_id supaya cek authz tidak join chapter
	ResourceCourseID uuid.UUID    `gorm:"column:resource_course_id;type:uuid;not null;index" json:"resource_course_id"`
	ResourceType     ResourceType `gorm:"column:resource_type;type:varchar(12);not null" json:"resource_type"`
	ResourceTitle    string       `gorm:"column:resource_title;type:varchar(180);not null" json:"resource_title"`
	ResourcePosition int          `gorm:"column:resource_position;not null;default:1" json:"resource_position"`

	ResourceCreatedAt time.Time      `gorm:"column:resource_created_at;not null;autoCreateTime" json:"resource_created_at"`
	ResourceUpdatedAt time.Time      `gorm:"column:resource_updated_at;not null;autoUpdateTime" json:"resource_updated_at"`
	ResourceDeletedAt gorm.DeletedAt `gorm:"column:resource_deleted_at;index" json:"resource_deleted_at,omitempty"`
}

func (ResourceModel) TableName() string { return "resources" }

func (m *ResourceModel) BeforeCreate(tx *gorm.DB) error {
	if m.ResourceID == uuid.Nil {
		m.ResourceID = uuid.New()
	}
	return nil
}
