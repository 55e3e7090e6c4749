package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Soal quiz milik assignment bertipe quiz. Bobot poin per soal dipakai
// auto-grading; default 1.
type AssignmentQuizQuestionModel struct {
	AssignmentQuizQuestionID           uuid.UUID `gorm:"column:assignment_quiz_question_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_quiz_question_id"`
	AssignmentQuizQuestionAssignmentID uuid.UUID `gorm:"column:assignment_quiz_question_assignment_id;type:uuid;not null;index" json:"assignment_quiz_question_assignment_id"`
	AssignmentQuizQuestionText         string    `gorm:"column:assignment_quiz_question_text;type:text;not null" json:"assignment_quiz_question_text"`
	AssignmentQuizQuestionPoints       float64   `gorm:"column:assignment_quiz_question_points;type:numeric(6,2);not null;default:1" json:"assignment_quiz_question_points"`
	AssignmentQuizQuestionPosition     int       `gorm:"column:assignment_quiz_question_position;not null;default:1" json:"assignment_quiz_question_position"`

	AssignmentQuizQuestionCreatedAt time.Time      `gorm:"column:assignment_quiz_question_created_at;not null;autoCreateTime" json:"assignment_quiz_question_created_at"`
	AssignmentQuizQuestionUpdatedAt time.Time      `gorm:"column:assignment_quiz_question_updated_at;not null;autoUpdateTime" json:"assignment_quiz_question_updated_at"`
	AssignmentQuizQuestionDeletedAt gorm.DeletedAt `gorm:"column:assignment_quiz_question_deleted_at;index" json:"assignment_quiz_question_deleted_at,omitempty"`
}

func (AssignmentQuizQuestionModel) TableName() string { return "assignment_quiz_questions" }

func (m *AssignmentQuizQuestionModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssignmentQuizQuestionID == uuid.Nil {
		m.AssignmentQuizQuestionID = uuid.New()
	}
	return nil
}

// Opsi jawaban; tepat satu is_correct per soal (divalidasi DTO saat tulis).
type AssignmentQuizOptionModel struct {
	AssignmentQuizOptionID         uuid.UUID `gorm:"column:assignment_quiz_option_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_quiz_option_id"`
	AssignmentQuizOptionQuestionID uuid.UUID `gorm:"column:assignment_quiz_option_question_id;type:uuid;not null;index" json:"assignment_quiz_option_question_id"`
	AssignmentQuizOptionText       string    `gorm:"column:assignment_quiz_option_text;type:text;not null" json:"assignment_quiz_option_text"`
	AssignmentQuizOptionIsCorrect  bool      `gorm:"column:assignment_quiz_option_is_correct;not null;default:false" json:"assignment_quiz_option_is_correct"`
	AssignmentQuizOptionPosition   int       `gorm:"column:assignment_quiz_option_position;not null;default:1" json:"assignment_quiz_option_position"`

	AssignmentQuizOptionCreatedAt time.Time `gorm:"column:assignment_quiz_option_created_at;not null;autoCreateTime" json:"assignment_quiz_option_created_at"`
}

func (AssignmentQuizOptionModel) TableName() string { return "assignment_quiz_options" }

func (m *AssignmentQuizOptionModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssignmentQuizOptionID == uuid.Nil {
		m.AssignmentQuizOptionID = uuid.New()
	}
	return nil
}
