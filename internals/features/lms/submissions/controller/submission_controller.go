package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	amodel "kelasku_backend/internals/features/lms/assignments/model"
	attservice "kelasku_backend/internals/features/lms/attachments/service"
	dto "kelasku_backend/internals/features/lms/submissions/dto"
	model "kelasku_backend/internals/features/lms/submissions/model"
	service "kelasku_backend/internals/features/lms/submissions/service"
	helper "kelasku_backend/internals/helpers"
	"kelasku_backend/internals/helpers/authz"
)

type SubmissionController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *service.SubmissionService
}

func NewSubmissionController(db *gorm.DB, v *validator.Validate, svc *service.SubmissionService) *SubmissionController {
	return &SubmissionController{DB: db, Validator: v, Service: svc}
}

// POST /api/u/assignments/:assignment_id/submissions — intake one-shot.
// type=file: multipart field "attachments"; type=quiz: field "answers" JSON.
func (ctl *SubmissionController) Submit(c *fiber.Ctx) error {
	assignmentID, err := uuid.Parse(c.Params("assignment_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	asg, err := ctl.findAssignment(c, assignmentID)
	if err != nil {
		return err
	}

	userID, err := authz.EnsureEnrolledOrInstructor(c, ctl.DB, asg.AssignmentCourseID)
	if err != nil {
		return err
	}
	// instruktur tidak men-submit tugasnya sendiri
	isInstructor, err := authz.IsCourseInstructor(ctl.DB.WithContext(c.Context()), userID, asg.AssignmentCourseID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if isInstructor {
		return helper.JsonError(c, fiber.StatusForbidden, "Instruktur tidak bisa submit assignment")
	}

	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	in := service.SubmitInput{
		Assignment: asg,
		StudentID:  userID,
		Now:        time.Now(),
	}

	switch asg.AssignmentType {
	case amodel.AssignmentTypeFile:
		form, err := c.MultipartForm()
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Form multipart tidak valid")
		}
		in.Files = form.File["attachments"]
		if fieldErrs := attservice.ValidateFiles(in.Files); fieldErrs != nil {
			return helper.JsonValidationError(c, fieldErrs)
		}
		if len(in.Files) > 0 {
			if err := ctl.Service.Attachments.Ready(); err != nil {
				return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
			}
		}
	case amodel.AssignmentTypeQuiz:
		answers, err := req.ParseAnswers()
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Format answers tidak valid: "+err.Error())
		}
		in.Answers = answers
	}

	sub, err := ctl.Service.Submit(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentUnavailable):
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrAlreadySubmitted):
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrNoAnswers),
			errors.Is(err, service.ErrNoFiles),
			errors.Is(err, service.ErrAnswerMismatch):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Submission diterima", dto.FromModel(sub))
}

// GET /api/u/assignments/:assignment_id/submissions/me — submission saya.
func (ctl *SubmissionController) GetMine(c *fiber.Ctx) error {
	assignmentID, err := uuid.Parse(c.Params("assignment_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	asg, err := ctl.findAssignment(c, assignmentID)
	if err != nil {
		return err
	}
	userID, err := authz.EnsureEnrolledOrInstructor(c, ctl.DB, asg.AssignmentCourseID)
	if err != nil {
		return err
	}

	var sub model.SubmissionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("submission_assignment_id = ? AND submission_student_id = ?", assignmentID, userID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Submission tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := dto.FromModel(&sub)
	if asg.AssignmentType == amodel.AssignmentTypeQuiz {
		var answers []model.QuizAnswerModel
		if err := ctl.DB.WithContext(c.Context()).
			Where("quiz_answer_submission_id = ?", sub.SubmissionID).
			Find(&answers).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		resp.QuizAnswers = dto.AnswersFromModels(answers)
	}

	return helper.JsonOK(c, "", resp)
}

// GET /api/i/assignments/:assignment_id/submissions — daftar untuk grading.
func (ctl *SubmissionController) ListByAssignment(c *fiber.Ctx) error {
	assignmentID, err := uuid.Parse(c.Params("assignment_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	asg, err := ctl.findAssignment(c, assignmentID)
	if err != nil {
		return err
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, asg.AssignmentCourseID); err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 50, 200)
	db := ctl.DB.WithContext(c.Context())

	q := db.Model(&model.SubmissionModel{}).
		Where("submission_assignment_id = ?", assignmentID)
	if status := c.Query("status"); status != "" {
		if !model.SubmissionStatus(status).Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "status filter tidak dikenal")
		}
		q = q.Where("submission_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.SubmissionModel
	if err := q.Order("submission_submitted_at ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.SubmissionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/u/submissions/:id — detail; siswa hanya miliknya sendiri.
func (ctl *SubmissionController) GetByID(c *fiber.Ctx) error {
	submissionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	sub, err := ctl.findSubmission(c, submissionID)
	if err != nil {
		return err
	}
	userID, err := authz.EnsureEnrolledOrInstructor(c, ctl.DB, sub.SubmissionCourseID)
	if err != nil {
		return err
	}

	if sub.SubmissionStudentID != userID {
		isInstructor, err := authz.IsCourseInstructor(ctl.DB.WithContext(c.Context()), userID, sub.SubmissionCourseID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		if !isInstructor {
			return helper.JsonError(c, fiber.StatusForbidden, "Submission ini bukan milik Anda")
		}
	}

	resp := dto.FromModel(sub)
	var answers []model.QuizAnswerModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("quiz_answer_submission_id = ?", sub.SubmissionID).
		Find(&answers).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if len(answers) > 0 {
		resp.QuizAnswers = dto.AnswersFromModels(answers)
	}

	return helper.JsonOK(c, "", resp)
}

// PUT /api/i/submissions/:id/grade — penilaian manual assignment file.
func (ctl *SubmissionController) Grade(c *fiber.Ctx) error {
	submissionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	sub, err := ctl.findSubmission(c, submissionID)
	if err != nil {
		return err
	}
	graderID, err := authz.EnsureManageCourse(c, ctl.DB, sub.SubmissionCourseID)
	if err != nil {
		return err
	}

	asg, err := ctl.findAssignment(c, sub.SubmissionAssignmentID)
	if err != nil {
		return err
	}
	if asg.AssignmentType == amodel.AssignmentTypeQuiz {
		return helper.JsonError(c, fiber.StatusConflict, "Quiz dinilai otomatis; tidak bisa dinilai manual")
	}
	if !sub.IsFinal() {
		return helper.JsonError(c, fiber.StatusConflict, "Submission belum di-submit")
	}

	var req dto.GradeSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.SubmissionGrade > asg.AssignmentPointsPossible {
		return helper.JsonValidationError(c, map[string][]string{
			"submission_grade": {"melebihi points_possible assignment"},
		})
	}

	graded, err := ctl.Service.ManualGrade(c.Context(), service.ManualGradeInput{
		Submission: sub,
		Assignment: asg,
		RawGrade:   req.SubmissionGrade,
		Feedback:   req.SubmissionFeedback,
		GraderID:   graderID,
		Now:        time.Now(),
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "Submission dinilai", dto.FromModel(graded))
}

func (ctl *SubmissionController) findAssignment(c *fiber.Ctx, id uuid.UUID) (*amodel.AssignmentModel, error) {
	var asg amodel.AssignmentModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&asg, "assignment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Assignment tidak ditemukan")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return &asg, nil
}

func (ctl *SubmissionController) findSubmission(c *fiber.Ctx, id uuid.UUID) (*model.SubmissionModel, error) {
	var sub model.SubmissionModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&sub, "submission_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Submission tidak ditemukan")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return &sub, nil
}
