package dto

import (
	"time"

	"github.com/google/uuid"

	model "kelasku_backend/internals/features/lms/attachments/model"
)

type AttachmentResponse struct {
	AttachmentID        uuid.UUID                 `json:"attachment_id"`
	AttachmentCourseID  uuid.UUID                 `json:"attachment_course_id"`
	AttachmentOwnerKind model.AttachmentOwnerKind `json:"attachment_owner_kind"`
	AttachmentOwnerID   uuid.UUID                 `json:"attachment_owner_id"`

	AttachmentFileName  string  `json:"attachment_file_name"`
	AttachmentFileURL   string  `json:"attachment_file_url"`
	AttachmentMime      string  `json:"attachment_mime,omitempty"`
	AttachmentSizeBytes int64   `json:"attachment_size_bytes"`
	AttachmentExt       string  `json:"attachment_ext,omitempty"`
	AttachmentIsPrivate bool    `json:"attachment_is_private"`

	AttachmentCreatedAt time.Time `json:"attachment_created_at"`
}

func FromModel(m *model.AttachmentModel) AttachmentResponse {
	return AttachmentResponse{
		AttachmentID:        m.AttachmentID,
		AttachmentCourseID:  m.AttachmentCourseID,
		AttachmentOwnerKind: m.AttachmentOwnerKind,
		AttachmentOwnerID:   m.AttachmentOwnerID,
		AttachmentFileName:  m.AttachmentFileName,
		AttachmentFileURL:   m.AttachmentFileURL,
		AttachmentMime:      m.AttachmentMime,
		AttachmentSizeBytes: m.AttachmentSizeBytes,
		AttachmentExt:       m.AttachmentExt,
		AttachmentIsPrivate: m.AttachmentIsPrivate,
		AttachmentCreatedAt: m.AttachmentCreatedAt,
	}
}

func FromModels(rows []model.AttachmentModel) []AttachmentResponse {
	out := make([]AttachmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
