package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionStatusDraft     SubmissionStatus = "draft"
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusGraded    SubmissionStatus = "graded"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusDraft, SubmissionStatusSubmitted, SubmissionStatusGraded:
		return true
	}
	return false
}

// SubmissionModel: satu attempt siswa atas satu assignment.
// Partial unique index (assignment_id, student_id) pada status non-draft
// menutup race double-submit; draft tetap slot reusable.
type SubmissionModel struct {
	SubmissionID           uuid.UUID `gorm:"column:submission_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"submission_id"`
	SubmissionAssignmentID uuid.UUID `gorm:"column:submission_assignment_id;type:uuid;not null;uniqueIndex:uq_submission_final_slot,where:submission_status <> 'draft',priority:1" json:"submission_assignment_id"`
	SubmissionCourseID     uuid.UUID `gorm:"column:submission_course_id;type:uuid;not null;index" json:"submission_course_id"`
	SubmissionStudentID    uuid.UUID `gorm:"column:submission_student_id;type:uuid;not null;uniqueIndex:uq_submission_final_slot,where:submission_status <> 'draft',priority:2" json:"submission_student_id"`

	SubmissionStatus SubmissionStatus `gorm:"column:submission_status;type:varchar(12);not null;default:'submitted'" json:"submission_status"`

	SubmissionSubmittedAt *time.Time `gorm:"column:submission_submitted_at;type:timestamptz" json:"submission_submitted_at,omitempty"`
	// is_late dihitung SEKALI saat submit; tidak pernah direcompute
	SubmissionIsLate bool `gorm:"column:submission_is_late;not null;default:false" json:"submission_is_late"`

	SubmissionGrade    *float64 `gorm:"column:submission_grade;type:numeric(6,2)" json:"submission_grade,omitempty"`
	SubmissionFeedback *string  `gorm:"column:submission_feedback;type:text" json:"submission_feedback,omitempty"`

	// Breakdown nilai per komponen (earned/total/raw sebelum penalty, dsb)
	SubmissionScores datatypes.JSONMap `gorm:"column:submission_scores;type:jsonb" json:"submission_scores,omitempty"`

	SubmissionGradedByID *uuid.UUID `gorm:"column:submission_graded_by_id;type:uuid" json:"submission_graded_by_id,omitempty"`
	SubmissionGradedAt   *time.Time `gorm:"column:submission_graded_at;type:timestamptz" json:"submission_graded_at,omitempty"`

	SubmissionCreatedAt time.Time      `gorm:"column:submission_created_at;not null;autoCreateTime" json:"submission_created_at"`
	SubmissionUpdatedAt time.Time      `gorm:"column:submission_updated_at;not null;autoUpdateTime" json:"submission_updated_at"`
	SubmissionDeletedAt gorm.DeletedAt `gorm:"column:submission_deleted_at;index" json:"submission_deleted_at,omitempty"`
}

func (SubmissionModel) TableName() string { return "submissions" }

func (m *SubmissionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubmissionID == uuid.Nil {
		m.SubmissionID = uuid.New()
	}
	return nil
}

// IsFinal: sudah submit atau sudah dinilai → tidak boleh submit ulang.
func (m *SubmissionModel) IsFinal() bool {
	return m.SubmissionStatus == SubmissionStatusSubmitted || m.SubmissionStatus == SubmissionStatusGraded
}
