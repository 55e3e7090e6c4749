package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizAnswerModel: satu jawaban per soal per submission. is_correct dan
// points di-snapshot saat grading supaya hasil tidak berubah bila soal
// diedit belakangan.
type QuizAnswerModel struct {
	QuizAnswerID               uuid.UUID `gorm:"column:quiz_answer_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"quiz_answer_id"`
	QuizAnswerSubmissionID     uuid.UUID `gorm:"column:quiz_answer_submission_id;type:uuid;not null;uniqueIndex:uq_quiz_answer_submission_question" json:"quiz_answer_submission_id"`
	QuizAnswerQuestionID       uuid.UUID `gorm:"column:quiz_answer_question_id;type:uuid;not null;uniqueIndex:uq_quiz_answer_submission_question" json:"quiz_answer_question_id"`
	QuizAnswerSelectedOptionID uuid.UUID `gorm:"column:quiz_answer_selected_option_id;type:uuid;not null" json:"quiz_answer_selected_option_id"`

	QuizAnswerIsCorrect    bool    `gorm:"column:quiz_answer_is_correct;not null;default:false" json:"quiz_answer_is_correct"`
	QuizAnswerPointsEarned float64 `gorm:"column:quiz_answer_points_earned;type:numeric(6,2);not null;default:0" json:"quiz_answer_points_earned"`

	QuizAnswerCreatedAt time.Time `gorm:"column:quiz_answer_created_at;not null;autoCreateTime" json:"quiz_answer_created_at"`
}

func (QuizAnswerModel) TableName() string { return "submission_quiz_answers" }

func (m *QuizAnswerModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuizAnswerID == uuid.Nil {
		m.QuizAnswerID = uuid.New()
	}
	return nil
}
