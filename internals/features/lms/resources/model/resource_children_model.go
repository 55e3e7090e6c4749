package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================================
   Child rows: tepat satu per resource, sesuai resource_type
========================================================= */

// rich_text
type RichTextResourceModel struct {
	RichTextResourceID         uuid.UUID `gorm:"column:rich_text_resource_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"rich_text_resource_id"`
	RichTextResourceResourceID uuid.UUID `gorm:"column:rich_text_resource_resource_id;type:uuid;not null;uniqueIndex" json:"rich_text_resource_resource_id"`
	RichTextResourceBody       string    `gorm:"column:rich_text_resource_body;type:text;not null" json:"rich_text_resource_body"`

	RichTextResourceCreatedAt time.Time `gorm:"column:rich_text_resource_created_at;not null;autoCreateTime" json:"rich_text_resource_created_at"`
	RichTextResourceUpdatedAt time.Time `gorm:"column:rich_text_resource_updated_at;not null;autoUpdateTime" json:"rich_text_resource_updated_at"`
}

func (RichTextResourceModel) TableName() string { return "rich_text_resources" }

func (m *RichTextResourceModel) BeforeCreate(tx *gorm.DB) error {
	if m.RichTextResourceID == uuid.Nil {
		m.RichTextResourceID = uuid.New()
	}
	return nil
}

// external
type ExternalResourceModel struct {
	ExternalResourceID         uuid.UUID      `gorm:"column:external_resource_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"external_resource_id"`
	ExternalResourceResourceID uuid.UUID      `gorm:"column:external_resource_resource_id;type:uuid;not null;uniqueIndex" json:"external_resource_resource_id"`
	ExternalResourceURL        string         `gorm:"column:external_resource_url;type:text;not null" json:"external_resource_url"`
	// metadata embed (judul og:, provider, dsb) hasil fetch client
	ExternalResourceMeta datatypes.JSONMap `gorm:"column:external_resource_meta;type:jsonb" json:"external_resource_meta,omitempty"`

	ExternalResourceCreatedAt time.Time `gorm:"column:external_resource_created_at;not null;autoCreateTime" json:"external_resource_created_at"`
	ExternalResourceUpdatedAt time.Time `gorm:"column:external_resource_updated_at;not null;autoUpdateTime" json:"external_resource_updated_at"`
}

func (ExternalResourceModel) TableName() string { return "external_resources" }

func (m *ExternalResourceModel) BeforeCreate(tx *gorm.DB) error {
	if m.ExternalResourceID == uuid.Nil {
		m.ExternalResourceID = uuid.New()
	}
	return nil
}

// attachment: child row penanda; file fisiknya di tabel attachments
// (owner_kind='resource', owner_id=resource_id)
type AttachmentResourceModel struct {
	AttachmentResourceID         uuid.UUID `gorm:"column:attachment_resource_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"attachment_resource_id"`
	AttachmentResourceResourceID uuid.UUID `gorm:"column:attachment_resource_resource_id;type:uuid;not null;uniqueIndex" json:"attachment_resource_resource_id"`
	AttachmentResourceCaption    *string   `gorm:"column:attachment_resource_caption;type:varchar(255)" json:"attachment_resource_caption,omitempty"`

	AttachmentResourceCreatedAt time.Time `gorm:"column:attachment_resource_created_at;not null;autoCreateTime" json:"attachment_resource_created_at"`
	AttachmentResourceUpdatedAt time.Time `gorm:"column:attachment_resource_updated_at;not null;autoUpdateTime" json:"attachment_resource_updated_at"`
}

func (AttachmentResourceModel) TableName() string { return "attachment_resources" }

func (m *AttachmentResourceModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttachmentResourceID == uuid.Nil {
		m.AttachmentResourceID = uuid.New()
	}
	return nil
}

// quiz (latihan non-gradable di dalam chapter; beda dengan quiz assignment)
type ResourceQuizQuestionModel struct {
	ResourceQuizQuestionID         uuid.UUID `gorm:"column:resource_quiz_question_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"resource_quiz_question_id"`
	ResourceQuizQuestionResourceID uuid.UUID `gorm:"column:resource_quiz_question_resource_id;type:uuid;not null;index" json:"resource_quiz_question_resource_id"`
	ResourceQuizQuestionText       string    `gorm:"column:resource_quiz_question_text;type:text;not null" json:"resource_quiz_question_text"`
	ResourceQuizQuestionPosition   int       `gorm:"column:resource_quiz_question_position;not null;default:1" json:"resource_quiz_question_position"`

	ResourceQuizQuestionCreatedAt time.Time `gorm:"column:resource_quiz_question_created_at;not null;autoCreateTime" json:"resource_quiz_question_created_at"`
	ResourceQuizQuestionUpdatedAt time.Time `gorm:"column:resource_quiz_question_updated_at;not null;autoUpdateTime" json:"resource_quiz_question_updated_at"`
}

func (ResourceQuizQuestionModel) TableName() string { return "resource_quiz_questions" }

func (m *ResourceQuizQuestionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ResourceQuizQuestionID == uuid.Nil {
		m.ResourceQuizQuestionID = uuid.New()
	}
	return nil
}

type ResourceQuizOptionModel struct {
	ResourceQuizOptionID         uuid.UUID `gorm:"column:resource_quiz_option_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"resource_quiz_option_id"`
	ResourceQuizOptionQuestionID uuid.UUID `gorm:"column:resource_quiz_option_question_id;type:uuid;not null;index" json:"resource_quiz_option_question_id"`
	ResourceQuizOptionText       string    `gorm:"column:resource_quiz_option_text;type:text;not null" json:"resource_quiz_option_text"`
	ResourceQuizOptionIsCorrect  bool      `gorm:"column:resource_quiz_option_is_correct;not null;default:false" json:"resource_quiz_option_is_correct"`
	ResourceQuizOptionPosition   int       `gorm:"column:resource_quiz_option_position;not null;default:1" json:"resource_quiz_option_position"`

	ResourceQuizOptionCreatedAt time.Time `gorm:"column:resource_quiz_option_created_at;not null;autoCreateTime" json:"resource_quiz_option_created_at"`
}

func (ResourceQuizOptionModel) TableName() string { return "resource_quiz_options" }

func (m *ResourceQuizOptionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ResourceQuizOptionID == uuid.Nil {
		m.ResourceQuizOptionID = uuid.New()
	}
	return nil
}
