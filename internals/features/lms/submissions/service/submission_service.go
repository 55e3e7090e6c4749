package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	amodel "kelasku_backend/internals/features/lms/assignments/model"
	attservice "kelasku_backend/internals/features/lms/attachments/service"
	attmodel "kelasku_backend/internals/features/lms/attachments/model"
	smodel "kelasku_backend/internals/features/lms/submissions/model"
)

var (
	ErrAssignmentUnavailable = errors.New("assignment belum dipublikasikan")
	ErrAlreadySubmitted      = errors.New("submission final sudah ada; tidak bisa submit ulang")
	ErrNoAnswers             = errors.New("quiz membutuhkan jawaban")
	ErrNoFiles               = errors.New("assignment file membutuhkan minimal satu file")
	ErrAnswerMismatch        = errors.New("jawaban tidak cocok dengan soal/opsi assignment ini")
)

type SubmissionService struct {
	DB          *gorm.DB
	Attachments *attservice.AttachmentService
}

func NewSubmissionService(db *gorm.DB, att *attservice.AttachmentService) *SubmissionService {
	return &SubmissionService{DB: db, Attachments: att}
}

type SubmitInput struct {
	Assignment *amodel.AssignmentModel
	StudentID  uuid.UUID
	Files      []*multipart.FileHeader   // assignment type=file
	Answers    map[uuid.UUID]uuid.UUID   // type=quiz: questionID → selectedOptionID
	Now        time.Time
}

// Submit: intake submission (one-shot policy).
//   - tolak bila assignment belum published
//   - tolak bila sudah ada submission final (submitted/graded) — draft reusable
//   - is_late dihitung SEKALI di sini dari due_date
//   - row submission + lampiran/jawaban + auto-grade quiz dalam SATU transaksi;
//     partial write tidak pernah terlihat
//   - upload blob dilakukan di dalam tx SETELAH validasi; bila tx gagal
//     sesudah upload, blob dibersihkan (kompensasi)
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (*smodel.SubmissionModel, error) {
	asg := in.Assignment
	if asg == nil {
		return nil, errors.New("assignment nil")
	}
	if !asg.IsAvailableAt(in.Now) {
		return nil, ErrAssignmentUnavailable
	}
	switch asg.AssignmentType {
	case amodel.AssignmentTypeQuiz:
		if len(in.Answers) == 0 {
			return nil, ErrNoAnswers
		}
	case amodel.AssignmentTypeFile:
		if len(in.Files) == 0 {
			return nil, ErrNoFiles
		}
	}

	var (
		sub          smodel.SubmissionModel
		uploadedKeys []string
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Slot yang ada: draft dipakai ulang, final ditolak.
		existing := smodel.SubmissionModel{}
		err := tx.Where("submission_assignment_id = ? AND submission_student_id = ?",
			asg.AssignmentID, in.StudentID).
			First(&existing).Error
		switch {
		case err == nil:
			if existing.IsFinal() {
				return ErrAlreadySubmitted
			}
			sub = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			sub = smodel.SubmissionModel{
				SubmissionAssignmentID: asg.AssignmentID,
				SubmissionCourseID:     asg.AssignmentCourseID,
				SubmissionStudentID:    in.StudentID,
			}
		default:
			return err
		}

		now := in.Now
		sub.SubmissionStatus = smodel.SubmissionStatusSubmitted
		sub.SubmissionSubmittedAt = &now
		sub.SubmissionIsLate = asg.IsLateAt(now)

		if err := tx.Save(&sub).Error; err != nil {
			// partial unique index uq_submission_final_slot: submit lain
			// menang duluan di jendela race
			if strings.Contains(strings.ToLower(err.Error()), "unique") {
				return ErrAlreadySubmitted
			}
			return err
		}

		switch asg.AssignmentType {
		case amodel.AssignmentTypeFile:
			_, keys, err := s.Attachments.UploadAndRecord(
				ctx, tx,
				asg.AssignmentCourseID,
				attmodel.AttachmentOwnerSubmission, sub.SubmissionID,
				"submissions", in.Files, true,
			)
			uploadedKeys = keys
			if err != nil {
				return err
			}

		case amodel.AssignmentTypeQuiz:
			// draft reuse: buang jawaban lama dulu
			if err := tx.Where("quiz_answer_submission_id = ?", sub.SubmissionID).
				Delete(&smodel.QuizAnswerModel{}).Error; err != nil {
				return err
			}
			if err := s.gradeQuiz(tx, &sub, asg, in.Answers, now); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		// kompensasi blob yatim bila upload sempat terjadi
		if len(uploadedKeys) > 0 {
			_ = s.Attachments.CleanupKeys(ctx, uploadedKeys)
		}
		return nil, err
	}
	return &sub, nil
}

// gradeQuiz: auto-grading sinkron di transaksi yang sama dengan submit.
// Jawaban divalidasi terhadap soal+opsi assignment, di-snapshot per row,
// lalu submission langsung graded — quiz tidak pernah dinilai manual.
func (s *SubmissionService) gradeQuiz(
	tx *gorm.DB,
	sub *smodel.SubmissionModel,
	asg *amodel.AssignmentModel,
	answers map[uuid.UUID]uuid.UUID,
	now time.Time,
) error {
	var questions []amodel.AssignmentQuizQuestionModel
	if err := tx.Where("assignment_quiz_question_assignment_id = ?", asg.AssignmentID).
		Find(&questions).Error; err != nil {
		return err
	}
	qByID := make(map[uuid.UUID]amodel.AssignmentQuizQuestionModel, len(questions))
	qIDs := make([]uuid.UUID, 0, len(questions))
	for _, q := range questions {
		qByID[q.AssignmentQuizQuestionID] = q
		qIDs = append(qIDs, q.AssignmentQuizQuestionID)
	}

	var options []amodel.AssignmentQuizOptionModel
	if len(qIDs) > 0 {
		if err := tx.Where("assignment_quiz_option_question_id IN ?", qIDs).
			Find(&options).Error; err != nil {
			return err
		}
	}
	optByID := make(map[uuid.UUID]amodel.AssignmentQuizOptionModel, len(options))
	for _, o := range options {
		optByID[o.AssignmentQuizOptionID] = o
	}

	var earned, total float64
	for qid, oid := range answers {
		q, ok := qByID[qid]
		if !ok {
			return ErrAnswerMismatch
		}
		opt, ok := optByID[oid]
		if !ok || opt.AssignmentQuizOptionQuestionID != qid {
			return ErrAnswerMismatch
		}

		points := q.AssignmentQuizQuestionPoints
		if points <= 0 {
			points = 0
		}
		total += points

		ans := smodel.QuizAnswerModel{
			QuizAnswerSubmissionID:     sub.SubmissionID,
			QuizAnswerQuestionID:       qid,
			QuizAnswerSelectedOptionID: oid,
		}
		if opt.AssignmentQuizOptionIsCorrect {
			ans.QuizAnswerIsCorrect = true
			ans.QuizAnswerPointsEarned = points
			earned += points
		}
		if err := tx.Create(&ans).Error; err != nil {
			return err
		}
	}

	score := ComputeQuizScore(earned, total)

	sub.SubmissionStatus = smodel.SubmissionStatusGraded
	sub.SubmissionGrade = &score
	sub.SubmissionGradedAt = &now
	sub.SubmissionScores = datatypes.JSONMap{
		"earned_points": earned,
		"total_points":  total,
	}
	return tx.Save(sub).Error
}

type ManualGradeInput struct {
	Submission *smodel.SubmissionModel
	Assignment *amodel.AssignmentModel
	RawGrade   float64
	Feedback   *string
	GraderID   uuid.UUID
	Now        time.Time
}

// ManualGrade: penilaian instruktur untuk assignment file (idempoten;
// re-grade menimpa nilai lama). Late penalty sesuai flag assignment.
func (s *SubmissionService) ManualGrade(ctx context.Context, in ManualGradeInput) (*smodel.SubmissionModel, error) {
	sub := in.Submission
	asg := in.Assignment

	final := FinalGradeFor(
		in.RawGrade,
		sub.SubmissionIsLate,
		asg.AssignmentAllowLateSubmissions,
		asg.AssignmentLatePenaltyPercentage,
	)

	now := in.Now
	sub.SubmissionGrade = &final
	sub.SubmissionFeedback = in.Feedback
	sub.SubmissionStatus = smodel.SubmissionStatusGraded
	sub.SubmissionGradedByID = &in.GraderID
	sub.SubmissionGradedAt = &now
	sub.SubmissionScores = datatypes.JSONMap{
		"raw_grade":          in.RawGrade,
		"late_penalty_pct":   asg.AssignmentLatePenaltyPercentage,
		"late_penalty_taken": sub.SubmissionIsLate && asg.AssignmentAllowLateSubmissions && asg.AssignmentLatePenaltyPercentage > 0,
	}

	if err := s.DB.WithContext(ctx).Save(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}
