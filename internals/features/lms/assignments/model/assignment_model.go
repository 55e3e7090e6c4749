package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentType string

const (
	AssignmentTypeFile AssignmentType = "file"
	AssignmentTypeQuiz AssignmentType = "quiz"
)

func (t AssignmentType) Valid() bool {
	return t == AssignmentTypeFile || t == AssignmentTypeQuiz
}

type AssignmentModel struct {
	AssignmentID       uuid.UUID      `gorm:"column:assignment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	AssignmentCourseID uuid.UUID      `gorm:"column:assignment_course_id;type:uuid;not null;index" json:"assignment_course_id"`
	AssignmentType     AssignmentType `gorm:"column:assignment_type;type:varchar(8);not null" json:"assignment_type"`
	AssignmentTitle    string         `gorm:"column:assignment_title;type:varchar(180);not null" json:"assignment_title"`
	AssignmentDescription *string     `gorm:"column:assignment_description;type:text" json:"assignment_description,omitempty"`

	AssignmentDueDate        *time.Time `gorm:"column:assignment_due_date;type:timestamptz" json:"assignment_due_date,omitempty"`
	AssignmentPointsPossible float64    `gorm:"column:assignment_points_possible;type:numeric(6,2);not null;default:100" json:"assignment_points_possible"`
	AssignmentPublished      bool       `gorm:"column:assignment_published;not null;default:false" json:"assignment_published"`

	AssignmentAllowLateSubmissions   bool    `gorm:"column:assignment_allow_late_submissions;not null;default:true" json:"assignment_allow_late_submissions"`
	AssignmentLatePenaltyPercentage  float64 `gorm:"column:assignment_late_penalty_percentage;type:numeric(5,2);not null;default:0" json:"assignment_late_penalty_percentage"` // 0..100

	AssignmentCreatedAt time.Time      `gorm:"column:assignment_created_at;not null;autoCreateTime" json:"assignment_created_at"`
	AssignmentUpdatedAt time.Time      `gorm:"column:assignment_updated_at;not null;autoUpdateTime" json:"assignment_updated_at"`
	AssignmentDeletedAt gorm.DeletedAt `gorm:"column:assignment_deleted_at;index" json:"assignment_deleted_at,omitempty"`
}

func (AssignmentModel) TableName() string { return "assignments" }

func (m *AssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssignmentID == uuid.Nil {
		m.AssignmentID = uuid.New()
	}
	return nil
}

// IsAvailableAt: published, dan untuk siswa itulah satu-satunya gate.
// Due date TIDAK menutup assignment; lewat due date hanya menandai is_late.
func (m *AssignmentModel) IsAvailableAt(now time.Time) bool {
	return m.AssignmentPublished
}

// IsLateAt: due date terisi DAN now melewati due date.
func (m *AssignmentModel) IsLateAt(now time.Time) bool {
	return m.AssignmentDueDate != nil && now.After(*m.AssignmentDueDate)
}
