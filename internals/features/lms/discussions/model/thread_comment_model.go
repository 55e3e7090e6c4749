package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThreadCommentModel: parent_id nullable, maksimal satu level reply
// (reply-of-reply ditolak controller).
type ThreadCommentModel struct {
	ThreadCommentID       uuid.UUID  `gorm:"column:thread_comment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"thread_comment_id"`
	ThreadCommentThreadID uuid.UUID  `gorm:"column:thread_comment_thread_id;type:uuid;not null;index" json:"thread_comment_thread_id"`
	ThreadCommentAuthorID uuid.UUID  `gorm:"column:thread_comment_author_id;type:uuid;not null" json:"thread_comment_author_id"`
	ThreadCommentParentID *uuid.UUID `gorm:"column:thread_comment_parent_id;type:uuid;index" json:"thread_comment_parent_id,omitempty"`
	ThreadCommentBody     string     `gorm:"column:thread_comment_body;type:text;not null" json:"thread_comment_body"`

	ThreadCommentCreatedAt time.Time      `gorm:"column:thread_comment_created_at;not null;autoCreateTime" json:"thread_comment_created_at"`
	ThreadCommentUpdatedAt time.Time      `gorm:"column:thread_comment_updated_at;not null;autoUpdateTime" json:"thread_comment_updated_at"`
	ThreadCommentDeletedAt gorm.DeletedAt `gorm:"column:thread_comment_deleted_at;index" json:"thread_comment_deleted_at,omitempty"`
}

func (ThreadCommentModel) TableName() string { return "thread_comments" }

func (m *ThreadCommentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ThreadCommentID == uuid.Nil {
		m.ThreadCommentID = uuid.New()
	}
	return nil
}
