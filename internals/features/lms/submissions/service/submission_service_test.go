package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	amodel "kelasku_backend/internals/features/lms/assignments/model"
	attservice "kelasku_backend/internals/features/lms/attachments/service"
	smodel "kelasku_backend/internals/features/lms/submissions/model"
)

// openTestDB: sqlite in-memory per test. Tabel dibuat lewat DDL manual
// karena tag default gen_random_uuid() hanya jalan di Postgres; id diisi
// hook BeforeCreate.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE assignment_quiz_questions (
			assignment_quiz_question_id TEXT PRIMARY KEY,
			assignment_quiz_question_assignment_id TEXT NOT NULL,
			assignment_quiz_question_text TEXT NOT NULL,
			assignment_quiz_question_points REAL NOT NULL DEFAULT 1,
			assignment_quiz_question_position INTEGER NOT NULL DEFAULT 1,
			assignment_quiz_question_created_at DATETIME,
			assignment_quiz_question_updated_at DATETIME,
			assignment_quiz_question_deleted_at DATETIME
		)`,
		`CREATE TABLE assignment_quiz_options (
			assignment_quiz_option_id TEXT PRIMARY KEY,
			assignment_quiz_option_question_id TEXT NOT NULL,
			assignment_quiz_option_text TEXT NOT NULL,
			assignment_quiz_option_is_correct BOOLEAN NOT NULL DEFAULT 0,
			assignment_quiz_option_position INTEGER NOT NULL DEFAULT 1,
			assignment_quiz_option_created_at DATETIME
		)`,
		`CREATE TABLE submissions (
			submission_id TEXT PRIMARY KEY,
			submission_assignment_id TEXT NOT NULL,
			submission_course_id TEXT NOT NULL,
			submission_student_id TEXT NOT NULL,
			submission_status TEXT NOT NULL DEFAULT 'submitted',
			submission_submitted_at DATETIME,
			submission_is_late BOOLEAN NOT NULL DEFAULT 0,
			submission_grade REAL,
			submission_feedback TEXT,
			submission_scores TEXT,
			submission_graded_by_id TEXT,
			submission_graded_at DATETIME,
			submission_created_at DATETIME,
			submission_updated_at DATETIME,
			submission_deleted_at DATETIME
		)`,
		`CREATE TABLE submission_quiz_answers (
			quiz_answer_id TEXT PRIMARY KEY,
			quiz_answer_submission_id TEXT NOT NULL,
			quiz_answer_question_id TEXT NOT NULL,
			quiz_answer_selected_option_id TEXT NOT NULL,
			quiz_answer_is_correct BOOLEAN NOT NULL DEFAULT 0,
			quiz_answer_points_earned REAL NOT NULL DEFAULT 0,
			quiz_answer_created_at DATETIME,
			UNIQUE (quiz_answer_submission_id, quiz_answer_question_id)
		)`,
		`CREATE UNIQUE INDEX uq_submission_final_slot
			ON submissions (submission_assignment_id, submission_student_id)
			WHERE submission_status <> 'draft'`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newQuizAssignment(t *testing.T, db *gorm.DB, due *time.Time) (*amodel.AssignmentModel, []amodel.AssignmentQuizQuestionModel, map[uuid.UUID]uuid.UUID, map[uuid.UUID]uuid.UUID) {
	t.Helper()

	asg := &amodel.AssignmentModel{
		AssignmentID:             uuid.New(),
		AssignmentCourseID:       uuid.New(),
		AssignmentType:           amodel.AssignmentTypeQuiz,
		AssignmentTitle:          "Quiz Bab 1",
		AssignmentPointsPossible: 100,
		AssignmentPublished:      true,
		AssignmentDueDate:        due,
	}

	// 2 soal x 5 poin, tiap soal 2 opsi
	questions := make([]amodel.AssignmentQuizQuestionModel, 0, 2)
	correct := map[uuid.UUID]uuid.UUID{}
	wrong := map[uuid.UUID]uuid.UUID{}
	for i := 0; i < 2; i++ {
		q := amodel.AssignmentQuizQuestionModel{
			AssignmentQuizQuestionAssignmentID: asg.AssignmentID,
			AssignmentQuizQuestionText:         fmt.Sprintf("Soal %d", i+1),
			AssignmentQuizQuestionPoints:       5,
			AssignmentQuizQuestionPosition:     i + 1,
		}
		require.NoError(t, db.Create(&q).Error)
		questions = append(questions, q)

		good := amodel.AssignmentQuizOptionModel{
			AssignmentQuizOptionQuestionID: q.AssignmentQuizQuestionID,
			AssignmentQuizOptionText:       "benar",
			AssignmentQuizOptionIsCorrect:  true,
			AssignmentQuizOptionPosition:   1,
		}
		bad := amodel.AssignmentQuizOptionModel{
			AssignmentQuizOptionQuestionID: q.AssignmentQuizQuestionID,
			AssignmentQuizOptionText:       "salah",
			AssignmentQuizOptionPosition:   2,
		}
		require.NoError(t, db.Create(&good).Error)
		require.NoError(t, db.Create(&bad).Error)
		correct[q.AssignmentQuizQuestionID] = good.AssignmentQuizOptionID
		wrong[q.AssignmentQuizQuestionID] = bad.AssignmentQuizOptionID
	}

	return asg, questions, correct, wrong
}

func newSubmissionService(db *gorm.DB) *SubmissionService {
	return NewSubmissionService(db, attservice.NewAttachmentService(nil))
}

func TestSubmitQuizAutoGrade(t *testing.T) {
	db := openTestDB(t)
	svc := newSubmissionService(db)

	asg, questions, correct, wrong := newQuizAssignment(t, db, nil)
	studentID := uuid.New()

	// 1 dari 2 soal benar → 50.00
	answers := map[uuid.UUID]uuid.UUID{
		questions[0].AssignmentQuizQuestionID: correct[questions[0].AssignmentQuizQuestionID],
		questions[1].AssignmentQuizQuestionID: wrong[questions[1].AssignmentQuizQuestionID],
	}

	submittedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	sub, err := svc.Submit(context.Background(), SubmitInput{
		Assignment: asg,
		StudentID:  studentID,
		Answers:    answers,
		Now:        submittedAt,
	})
	require.NoError(t, err)

	require.Equal(t, smodel.SubmissionStatusGraded, sub.SubmissionStatus)
	require.NotNil(t, sub.SubmissionGrade)
	require.Equal(t, 50.0, *sub.SubmissionGrade)
	require.False(t, sub.SubmissionIsLate)

	// submitted_at dan graded_at sama-sama pakai clock yang di-inject
	require.NotNil(t, sub.SubmissionSubmittedAt)
	require.True(t, sub.SubmissionSubmittedAt.Equal(submittedAt))
	require.NotNil(t, sub.SubmissionGradedAt)
	require.True(t, sub.SubmissionGradedAt.Equal(submittedAt))

	var rows []smodel.QuizAnswerModel
	require.NoError(t, db.Where("quiz_answer_submission_id = ?", sub.SubmissionID).Find(&rows).Error)
	require.Len(t, rows, 2)

	var earnedTotal float64
	for _, r := range rows {
		earnedTotal += r.QuizAnswerPointsEarned
	}
	require.Equal(t, 5.0, earnedTotal)
}

func TestSubmitRejectsSecondAttempt(t *testing.T) {
	db := openTestDB(t)
	svc := newSubmissionService(db)

	asg, questions, correct, _ := newQuizAssignment(t, db, nil)
	studentID := uuid.New()
	answers := map[uuid.UUID]uuid.UUID{
		questions[0].AssignmentQuizQuestionID: correct[questions[0].AssignmentQuizQuestionID],
		questions[1].AssignmentQuizQuestionID: correct[questions[1].AssignmentQuizQuestionID],
	}

	first, err := svc.Submit(context.Background(), SubmitInput{
		Assignment: asg, StudentID: studentID, Answers: answers, Now: time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, 100.0, *first.SubmissionGrade)

	// attempt kedua ditolak, row pertama tidak berubah
	_, err = svc.Submit(context.Background(), SubmitInput{
		Assignment: asg, StudentID: studentID, Answers: answers, Now: time.Now(),
	})
	require.ErrorIs(t, err, ErrAlreadySubmitted)

	var persisted smodel.SubmissionModel
	require.NoError(t, db.First(&persisted, "submission_id = ?", first.SubmissionID).Error)
	require.Equal(t, smodel.SubmissionStatusGraded, persisted.SubmissionStatus)
	require.Equal(t, 100.0, *persisted.SubmissionGrade)

	var n int64
	require.NoError(t, db.Model(&smodel.SubmissionModel{}).
		Where("submission_assignment_id = ? AND submission_student_id = ?", asg.AssignmentID, studentID).
		Count(&n).Error)
	require.Equal(t, int64(1), n)
}

func TestFinalSlotUniqueGuardAtSchemaLevel(t *testing.T) {
	db := openTestDB(t)

	assignmentID, courseID, studentID := uuid.New(), uuid.New(), uuid.New()
	first := smodel.SubmissionModel{
		SubmissionAssignmentID: assignmentID,
		SubmissionCourseID:     courseID,
		SubmissionStudentID:    studentID,
		SubmissionStatus:       smodel.SubmissionStatusSubmitted,
	}
	require.NoError(t, db.Create(&first).Error)

	// row final kedua untuk pasangan yang sama ditolak index parsial,
	// juga ketika dua request lolos pre-check secara bersamaan
	dup := smodel.SubmissionModel{
		SubmissionAssignmentID: assignmentID,
		SubmissionCourseID:     courseID,
		SubmissionStudentID:    studentID,
		SubmissionStatus:       smodel.SubmissionStatusGraded,
	}
	err := db.Create(&dup).Error
	require.Error(t, err)
	require.Contains(t, strings.ToLower(err.Error()), "unique")

	// draft tidak kena index (slot reusable)
	draft := smodel.SubmissionModel{
		SubmissionAssignmentID: assignmentID,
		SubmissionCourseID:     courseID,
		SubmissionStudentID:    studentID,
		SubmissionStatus:       smodel.SubmissionStatusDraft,
	}
	require.NoError(t, db.Create(&draft).Error)
}

func TestSubmitMarksLateOnce(t *testing.T) {
	db := openTestDB(t)
	svc := newSubmissionService(db)

	due := time.Now().Add(-time.Hour)
	asg, questions, correct, _ := newQuizAssignment(t, db, &due)
	answers := map[uuid.UUID]uuid.UUID{
		questions[0].AssignmentQuizQuestionID: correct[questions[0].AssignmentQuizQuestionID],
		questions[1].AssignmentQuizQuestionID: correct[questions[1].AssignmentQuizQuestionID],
	}

	sub, err := svc.Submit(context.Background(), SubmitInput{
		Assignment: asg, StudentID: uuid.New(), Answers: answers, Now: time.Now(),
	})
	require.NoError(t, err)
	require.True(t, sub.SubmissionIsLate)
	require.NotNil(t, sub.SubmissionSubmittedAt)
}

func TestSubmitReusesDraftSlot(t *testing.T) {
	db := openTestDB(t)
	svc := newSubmissionService(db)

	asg, questions, correct, _ := newQuizAssignment(t, db, nil)
	studentID := uuid.New()

	draft := smodel.SubmissionModel{
		SubmissionAssignmentID: asg.AssignmentID,
		SubmissionCourseID:     asg.AssignmentCourseID,
		SubmissionStudentID:    studentID,
		SubmissionStatus:       smodel.SubmissionStatusDraft,
	}
	require.NoError(t, db.Create(&draft).Error)

	answers := map[uuid.UUID]uuid.UUID{
		questions[0].AssignmentQuizQuestionID: correct[questions[0].AssignmentQuizQuestionID],
		questions[1].AssignmentQuizQuestionID: correct[questions[1].AssignmentQuizQuestionID],
	}
	sub, err := svc.Submit(context.Background(), SubmitInput{
		Assignment: asg, StudentID: studentID, Answers: answers, Now: time.Now(),
	})
	require.NoError(t, err)

	// slot draft dipakai ulang, bukan row baru
	require.Equal(t, draft.SubmissionID, sub.SubmissionID)
	require.Equal(t, smodel.SubmissionStatusGraded, sub.SubmissionStatus)
}

func TestSubmitRejectsForeignAnswers(t *testing.T) {
	db := openTestDB(t)
	svc := newSubmissionService(db)

	asg, _, _, _ := newQuizAssignment(t, db, nil)
	studentID := uuid.New()

	_, err := svc.Submit(context.Background(), SubmitInput{
		Assignment: asg,
		StudentID:  studentID,
		Answers:    map[uuid.UUID]uuid.UUID{uuid.New(): uuid.New()},
		Now:        time.Now(),
	})
	require.ErrorIs(t, err, ErrAnswerMismatch)

	// tx rollback: tidak ada submission yang tertinggal
	var n int64
	require.NoError(t, db.Model(&smodel.SubmissionModel{}).
		Where("submission_student_id = ?", studentID).
		Count(&n).Error)
	require.Equal(t, int64(0), n)
}

func TestSubmitRejectsUnpublished(t *testing.T) {
	db := openTestDB(t)
	svc := newSubmissionService(db)

	asg, questions, correct, _ := newQuizAssignment(t, db, nil)
	asg.AssignmentPublished = false

	_, err := svc.Submit(context.Background(), SubmitInput{
		Assignment: asg,
		StudentID:  uuid.New(),
		Answers: map[uuid.UUID]uuid.UUID{
			questions[0].AssignmentQuizQuestionID: correct[questions[0].AssignmentQuizQuestionID],
		},
		Now: time.Now(),
	})
	require.ErrorIs(t, err, ErrAssignmentUnavailable)
}

func TestManualGradeAppliesLatePenalty(t *testing.T) {
	db := openTestDB(t)
	svc := newSubmissionService(db)

	asg := &amodel.AssignmentModel{
		AssignmentID:                    uuid.New(),
		AssignmentCourseID:              uuid.New(),
		AssignmentType:                  amodel.AssignmentTypeFile,
		AssignmentTitle:                 "Laporan",
		AssignmentPointsPossible:        100,
		AssignmentPublished:             true,
		AssignmentAllowLateSubmissions:  true,
		AssignmentLatePenaltyPercentage: 10,
	}

	now := time.Now()
	sub := smodel.SubmissionModel{
		SubmissionAssignmentID: asg.AssignmentID,
		SubmissionCourseID:     asg.AssignmentCourseID,
		SubmissionStudentID:    uuid.New(),
		SubmissionStatus:       smodel.SubmissionStatusSubmitted,
		SubmissionSubmittedAt:  &now,
		SubmissionIsLate:       true,
	}
	require.NoError(t, db.Create(&sub).Error)

	graderID := uuid.New()
	feedback := "rapi, tapi telat"
	graded, err := svc.ManualGrade(context.Background(), ManualGradeInput{
		Submission: &sub,
		Assignment: asg,
		RawGrade:   80,
		Feedback:   &feedback,
		GraderID:   graderID,
		Now:        now,
	})
	require.NoError(t, err)

	require.Equal(t, 72.0, *graded.SubmissionGrade)
	require.Equal(t, smodel.SubmissionStatusGraded, graded.SubmissionStatus)
	require.Equal(t, graderID, *graded.SubmissionGradedByID)
	require.Equal(t, 80.0, graded.SubmissionScores["raw_grade"])
	require.Equal(t, true, graded.SubmissionScores["late_penalty_taken"])

	// re-grade menimpa, tidak menumpuk
	regraded, err := svc.ManualGrade(context.Background(), ManualGradeInput{
		Submission: graded,
		Assignment: asg,
		RawGrade:   90,
		GraderID:   graderID,
		Now:        now,
	})
	require.NoError(t, err)
	require.Equal(t, 81.0, *regraded.SubmissionGrade)
}
