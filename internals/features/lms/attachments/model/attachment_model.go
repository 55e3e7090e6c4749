package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttachmentOwnerKind: discriminator eksplisit pengganti pasangan
// "owner_type string + owner_id" yang tidak ber-tipe.
type AttachmentOwnerKind string

const (
	AttachmentOwnerCourse       AttachmentOwnerKind = "course"
	AttachmentOwnerResource     AttachmentOwnerKind = "resource"
	AttachmentOwnerAssignment   AttachmentOwnerKind = "assignment"
	AttachmentOwnerSubmission   AttachmentOwnerKind = "submission"
	AttachmentOwnerAnnouncement AttachmentOwnerKind = "announcement"
	AttachmentOwnerThread       AttachmentOwnerKind = "thread"
	AttachmentOwnerComment      AttachmentOwnerKind = "comment"
)

func (k AttachmentOwnerKind) Valid() bool {
	switch k {
	case AttachmentOwnerCourse, AttachmentOwnerResource, AttachmentOwnerAssignment,
		AttachmentOwnerSubmission, AttachmentOwnerAnnouncement, AttachmentOwnerThread,
		AttachmentOwnerComment:
		return true
	}
	return false
}

type AttachmentModel struct {
	AttachmentID       uuid.UUID           `gorm:"column:attachment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"attachment_id"`
	AttachmentCourseID uuid.UUID           `gorm:"column:attachment_course_id;type:uuid;not null;index" json:"attachment_course_id"`
	AttachmentOwnerKind AttachmentOwnerKind `gorm:"column:attachment_owner_kind;type:varchar(20);not null;index:idx_attachment_owner" json:"attachment_owner_kind"`
	AttachmentOwnerID  uuid.UUID           `gorm:"column:attachment_owner_id;type:uuid;not null;index:idx_attachment_owner" json:"attachment_owner_id"`

	AttachmentFileName  string  `gorm:"column:attachment_file_name;type:varchar(255);not null" json:"attachment_file_name"`
	AttachmentFileURL   string  `gorm:"column:attachment_file_url;type:text;not null" json:"attachment_file_url"`
	AttachmentObjectKey string  `gorm:"column:attachment_object_key;type:text;not null" json:"attachment_object_key"`
	AttachmentMime      string  `gorm:"column:attachment_mime;type:varchar(127)" json:"attachment_mime"`
	AttachmentSizeBytes int64   `gorm:"column:attachment_size_bytes;not null;default:0" json:"attachment_size_bytes"`
	AttachmentExt       string  `gorm:"column:attachment_ext;type:varchar(16)" json:"attachment_ext"`
	AttachmentCollection *string `gorm:"column:attachment_collection;type:varchar(50)" json:"attachment_collection,omitempty"`
	AttachmentIsPrivate bool    `gorm:"column:attachment_is_private;not null;default:false" json:"attachment_is_private"`

	AttachmentCreatedAt time.Time      `gorm:"column:attachment_created_at;not null;autoCreateTime" json:"attachment_created_at"`
	AttachmentUpdatedAt time.Time      `gorm:"column:attachment_updated_at;not null;autoUpdateTime" json:"attachment_updated_at"`
	AttachmentDeletedAt gorm.DeletedAt `gorm:"column:attachment_deleted_at;index" json:"attachment_deleted_at,omitempty"`
}

func (AttachmentModel) TableName() string { return "attachments" }

func (m *AttachmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttachmentID == uuid.Nil {
		m.AttachmentID = uuid.New()
	}
	return nil
}
