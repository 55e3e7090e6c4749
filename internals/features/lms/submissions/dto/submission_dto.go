package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	model "kelasku_backend/internals/features/lms/submissions/model"
)

/* =========================================================
   SUBMIT
========================================================= */

// SubmitRequest dibaca dari multipart form. Untuk assignment file,
// berkas di field "attachments"; untuk quiz, answers berisi JSON
// [{"question_id":"..","selected_option_id":".."}].
type SubmitRequest struct {
	Answers string `json:"answers" form:"answers"`
}

type quizAnswerJSON struct {
	QuestionID       uuid.UUID `json:"question_id"`
	SelectedOptionID uuid.UUID `json:"selected_option_id"`
}

// ParseAnswers: map question_id -> selected_option_id. Duplikat
// question_id ditolak supaya satu jawaban per soal.
func (r SubmitRequest) ParseAnswers() (map[uuid.UUID]uuid.UUID, error) {
	if r.Answers == "" {
		return nil, nil
	}
	var rows []quizAnswerJSON
	if err := json.Unmarshal([]byte(r.Answers), &rows); err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]uuid.UUID, len(rows))
	for _, row := range rows {
		if _, dup := out[row.QuestionID]; dup {
			return nil, errDuplicateAnswer
		}
		out[row.QuestionID] = row.SelectedOptionID
	}
	return out, nil
}

var errDuplicateAnswer = jsonError("question_id duplikat dalam answers")

type jsonError string

func (e jsonError) Error() string { return string(e) }

/* =========================================================
   MANUAL GRADE
========================================================= */

type GradeSubmissionRequest struct {
	SubmissionGrade    float64 `json:"submission_grade" validate:"gte=0"`
	SubmissionFeedback *string `json:"submission_feedback,omitempty"`
}

/* =========================================================
   RESPONSES
========================================================= */

type QuizAnswerResponse struct {
	QuizAnswerQuestionID       uuid.UUID `json:"quiz_answer_question_id"`
	QuizAnswerSelectedOptionID uuid.UUID `json:"quiz_answer_selected_option_id"`
	QuizAnswerIsCorrect        bool      `json:"quiz_answer_is_correct"`
	QuizAnswerPointsEarned     float64   `json:"quiz_answer_points_earned"`
}

type SubmissionResponse struct {
	SubmissionID           uuid.UUID              `json:"submission_id"`
	SubmissionAssignmentID uuid.UUID              `json:"submission_assignment_id"`
	SubmissionCourseID     uuid.UUID              `json:"submission_course_id"`
	SubmissionStudentID    uuid.UUID              `json:"submission_student_id"`
	SubmissionStatus       model.SubmissionStatus `json:"submission_status"`

	SubmissionSubmittedAt *time.Time `json:"submission_submitted_at,omitempty"`
	SubmissionIsLate      bool       `json:"submission_is_late"`

	SubmissionGrade    *float64       `json:"submission_grade,omitempty"`
	SubmissionFeedback *string        `json:"submission_feedback,omitempty"`
	SubmissionScores   map[string]any `json:"submission_scores,omitempty"`

	SubmissionGradedByID *uuid.UUID `json:"submission_graded_by_id,omitempty"`
	SubmissionGradedAt   *time.Time `json:"submission_graded_at,omitempty"`

	SubmissionCreatedAt time.Time `json:"submission_created_at"`

	QuizAnswers []QuizAnswerResponse `json:"quiz_answers,omitempty"`
}

func FromModel(m *model.SubmissionModel) SubmissionResponse {
	resp := SubmissionResponse{
		SubmissionID:           m.SubmissionID,
		SubmissionAssignmentID: m.SubmissionAssignmentID,
		SubmissionCourseID:     m.SubmissionCourseID,
		SubmissionStudentID:    m.SubmissionStudentID,
		SubmissionStatus:       m.SubmissionStatus,
		SubmissionSubmittedAt:  m.SubmissionSubmittedAt,
		SubmissionIsLate:       m.SubmissionIsLate,
		SubmissionGrade:        m.SubmissionGrade,
		SubmissionFeedback:     m.SubmissionFeedback,
		SubmissionGradedByID:   m.SubmissionGradedByID,
		SubmissionGradedAt:     m.SubmissionGradedAt,
		SubmissionCreatedAt:    m.SubmissionCreatedAt,
	}
	if len(m.SubmissionScores) > 0 {
		resp.SubmissionScores = map[string]any(m.SubmissionScores)
	}
	return resp
}

func AnswersFromModels(rows []model.QuizAnswerModel) []QuizAnswerResponse {
	out := make([]QuizAnswerResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, QuizAnswerResponse{
			QuizAnswerQuestionID:       r.QuizAnswerQuestionID,
			QuizAnswerSelectedOptionID: r.QuizAnswerSelectedOptionID,
			QuizAnswerIsCorrect:        r.QuizAnswerIsCorrect,
			QuizAnswerPointsEarned:     r.QuizAnswerPointsEarned,
		})
	}
	return out
}
