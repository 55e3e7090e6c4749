package dto

import (
	"errors"
	"time"

	"github.com/google/uuid"

	model "kelasku_backend/internals/features/lms/assignments/model"
	helper "kelasku_backend/internals/helpers"
)

var ErrQuizOptionShape = errors.New("setiap soal butuh >= 2 opsi dan tepat satu is_correct")

/* =========================================================
   CREATE
========================================================= */

type QuizOptionRequest struct {
	OptionText string `json:"option_text" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuizQuestionRequest struct {
	QuestionText   string              `json:"question_text" validate:"required"`
	QuestionPoints float64             `json:"question_points" validate:"omitempty,gt=0"`
	Options        []QuizOptionRequest `json:"options" validate:"required,min=2,dive"`
}

type CreateAssignmentRequest struct {
	AssignmentCourseID    uuid.UUID            `json:"assignment_course_id" validate:"required,uuid4"`
	AssignmentType        model.AssignmentType `json:"assignment_type" validate:"required,oneof=file quiz"`
	AssignmentTitle       string               `json:"assignment_title" validate:"required,min=3,max=180"`
	AssignmentDescription *string              `json:"assignment_description,omitempty"`

	AssignmentDueDate        *time.Time `json:"assignment_due_date,omitempty"`
	AssignmentPointsPossible float64    `json:"assignment_points_possible" validate:"omitempty,gt=0"`

	AssignmentAllowLateSubmissions  *bool   `json:"assignment_allow_late_submissions,omitempty"`
	AssignmentLatePenaltyPercentage float64 `json:"assignment_late_penalty_percentage" validate:"gte=0,lte=100"`

	// wajib untuk type=quiz, harus kosong untuk type=file
	QuizQuestions []QuizQuestionRequest `json:"quiz_questions,omitempty" validate:"omitempty,dive"`
}

// ValidateQuizShape menegakkan aturan yang tidak bisa dititip ke tag
// validator: file tanpa soal, quiz minimal satu soal, dan tepat satu
// opsi benar per soal.
func (r CreateAssignmentRequest) ValidateQuizShape() error {
	if r.AssignmentType == model.AssignmentTypeFile {
		if len(r.QuizQuestions) > 0 {
			return errors.New("assignment type file tidak menerima quiz_questions")
		}
		return nil
	}
	if len(r.QuizQuestions) == 0 {
		return errors.New("assignment type quiz butuh minimal satu soal")
	}
	for _, q := range r.QuizQuestions {
		correct := 0
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if len(q.Options) < 2 || correct != 1 {
			return ErrQuizOptionShape
		}
	}
	return nil
}

func (r CreateAssignmentRequest) ToModel() model.AssignmentModel {
	m := model.AssignmentModel{
		AssignmentCourseID:              r.AssignmentCourseID,
		AssignmentType:                  r.AssignmentType,
		AssignmentTitle:                 r.AssignmentTitle,
		AssignmentDescription:           r.AssignmentDescription,
		AssignmentDueDate:               r.AssignmentDueDate,
		AssignmentPointsPossible:        100,
		AssignmentAllowLateSubmissions:  true,
		AssignmentLatePenaltyPercentage: r.AssignmentLatePenaltyPercentage,
	}
	if r.AssignmentPointsPossible > 0 {
		m.AssignmentPointsPossible = r.AssignmentPointsPossible
	}
	if r.AssignmentAllowLateSubmissions != nil {
		m.AssignmentAllowLateSubmissions = *r.AssignmentAllowLateSubmissions
	}
	return m
}

/* =========================================================
   PATCH
========================================================= */

type PatchAssignmentRequest struct {
	AssignmentTitle                 *helper.PatchField[string]    `json:"assignment_title,omitempty"`
	AssignmentDescription           *helper.PatchField[string]    `json:"assignment_description,omitempty"`
	AssignmentDueDate               *helper.PatchField[time.Time] `json:"assignment_due_date,omitempty"`
	AssignmentPointsPossible        *helper.PatchField[float64]   `json:"assignment_points_possible,omitempty"`
	AssignmentAllowLateSubmissions  *helper.PatchField[bool]      `json:"assignment_allow_late_submissions,omitempty"`
	AssignmentLatePenaltyPercentage *helper.PatchField[float64]   `json:"assignment_late_penalty_percentage,omitempty"`
}

func (p *PatchAssignmentRequest) ToUpdates() map[string]any {
	upd := map[string]any{}
	helper.PutUpdate(upd, "assignment_title", p.AssignmentTitle)
	helper.PutUpdate(upd, "assignment_description", p.AssignmentDescription)
	helper.PutUpdate(upd, "assignment_due_date", p.AssignmentDueDate)
	helper.PutUpdate(upd, "assignment_points_possible", p.AssignmentPointsPossible)
	helper.PutUpdate(upd, "assignment_allow_late_submissions", p.AssignmentAllowLateSubmissions)
	helper.PutUpdate(upd, "assignment_late_penalty_percentage", p.AssignmentLatePenaltyPercentage)
	return upd
}

type PublishAssignmentRequest struct {
	AssignmentPublished bool `json:"assignment_published"`
}

/* =========================================================
   RESPONSES
========================================================= */

type QuizOptionResponse struct {
	AssignmentQuizOptionID       uuid.UUID `json:"assignment_quiz_option_id"`
	AssignmentQuizOptionText     string    `json:"assignment_quiz_option_text"`
	AssignmentQuizOptionPosition int       `json:"assignment_quiz_option_position"`
	// hanya terisi untuk instruktur
	AssignmentQuizOptionIsCorrect *bool `json:"assignment_quiz_option_is_correct,omitempty"`
}

type QuizQuestionResponse struct {
	AssignmentQuizQuestionID       uuid.UUID            `json:"assignment_quiz_question_id"`
	AssignmentQuizQuestionText     string               `json:"assignment_quiz_question_text"`
	AssignmentQuizQuestionPoints   float64              `json:"assignment_quiz_question_points"`
	AssignmentQuizQuestionPosition int                  `json:"assignment_quiz_question_position"`
	Options                        []QuizOptionResponse `json:"options"`
}

type AssignmentResponse struct {
	AssignmentID          uuid.UUID            `json:"assignment_id"`
	AssignmentCourseID    uuid.UUID            `json:"assignment_course_id"`
	AssignmentType        model.AssignmentType `json:"assignment_type"`
	AssignmentTitle       string               `json:"assignment_title"`
	AssignmentDescription *string              `json:"assignment_description,omitempty"`

	AssignmentDueDate        *time.Time `json:"assignment_due_date,omitempty"`
	AssignmentPointsPossible float64    `json:"assignment_points_possible"`
	AssignmentPublished      bool       `json:"assignment_published"`

	AssignmentAllowLateSubmissions  bool    `json:"assignment_allow_late_submissions"`
	AssignmentLatePenaltyPercentage float64 `json:"assignment_late_penalty_percentage"`

	AssignmentCreatedAt time.Time `json:"assignment_created_at"`

	QuizQuestions []QuizQuestionResponse `json:"quiz_questions,omitempty"`
}

func FromModel(m *model.AssignmentModel) AssignmentResponse {
	return AssignmentResponse{
		AssignmentID:                    m.AssignmentID,
		AssignmentCourseID:              m.AssignmentCourseID,
		AssignmentType:                  m.AssignmentType,
		AssignmentTitle:                 m.AssignmentTitle,
		AssignmentDescription:           m.AssignmentDescription,
		AssignmentDueDate:               m.AssignmentDueDate,
		AssignmentPointsPossible:        m.AssignmentPointsPossible,
		AssignmentPublished:             m.AssignmentPublished,
		AssignmentAllowLateSubmissions:  m.AssignmentAllowLateSubmissions,
		AssignmentLatePenaltyPercentage: m.AssignmentLatePenaltyPercentage,
		AssignmentCreatedAt:             m.AssignmentCreatedAt,
	}
}

// QuizFromModels susun soal+opsi jadi response. forInstructor=false
// menyembunyikan kunci jawaban dari siswa.
func QuizFromModels(questions []model.AssignmentQuizQuestionModel, options []model.AssignmentQuizOptionModel, forInstructor bool) []QuizQuestionResponse {
	byQuestion := map[uuid.UUID][]QuizOptionResponse{}
	for _, o := range options {
		resp := QuizOptionResponse{
			AssignmentQuizOptionID:       o.AssignmentQuizOptionID,
			AssignmentQuizOptionText:     o.AssignmentQuizOptionText,
			AssignmentQuizOptionPosition: o.AssignmentQuizOptionPosition,
		}
		if forInstructor {
			v := o.AssignmentQuizOptionIsCorrect
			resp.AssignmentQuizOptionIsCorrect = &v
		}
		byQuestion[o.AssignmentQuizOptionQuestionID] = append(byQuestion[o.AssignmentQuizOptionQuestionID], resp)
	}

	out := make([]QuizQuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuizQuestionResponse{
			AssignmentQuizQuestionID:       q.AssignmentQuizQuestionID,
			AssignmentQuizQuestionText:     q.AssignmentQuizQuestionText,
			AssignmentQuizQuestionPoints:   q.AssignmentQuizQuestionPoints,
			AssignmentQuizQuestionPosition: q.AssignmentQuizQuestionPosition,
			Options:                        byQuestion[q.AssignmentQuizQuestionID],
		})
	}
	return out
}
