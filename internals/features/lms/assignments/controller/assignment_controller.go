package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "kelasku_backend/internals/features/lms/assignments/dto"
	model "kelasku_backend/internals/features/lms/assignments/model"
	helper "kelasku_backend/internals/helpers"
	"kelasku_backend/internals/helpers/authz"
)

type AssignmentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAssignmentController(db *gorm.DB, v *validator.Validate) *AssignmentController {
	return &AssignmentController{DB: db, Validator: v}
}

// POST /api/i/assignments — assignment + soal quiz dalam satu transaksi.
func (ctl *AssignmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := req.ValidateQuizShape(); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, req.AssignmentCourseID); err != nil {
		return err
	}

	asg := req.ToModel()
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&asg).Error; err != nil {
			return err
		}
		for i, q := range req.QuizQuestions {
			points := q.QuestionPoints
			if points <= 0 {
				points = 1
			}
			question := model.AssignmentQuizQuestionModel{
				AssignmentQuizQuestionAssignmentID: asg.AssignmentID,
				AssignmentQuizQuestionText:         q.QuestionText,
				AssignmentQuizQuestionPoints:       points,
				AssignmentQuizQuestionPosition:     i + 1,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			for j, o := range q.Options {
				opt := model.AssignmentQuizOptionModel{
					AssignmentQuizOptionQuestionID: question.AssignmentQuizQuestionID,
					AssignmentQuizOptionText:       o.OptionText,
					AssignmentQuizOptionIsCorrect:  o.IsCorrect,
					AssignmentQuizOptionPosition:   j + 1,
				}
				if err := tx.Create(&opt).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Assignment berhasil dibuat", dto.FromModel(&asg))
}

// GET /api/u/courses/:course_id/assignments — siswa hanya melihat yang
// sudah published; instruktur melihat semua.
func (ctl *AssignmentController) ListByCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	userID, err := authz.EnsureEnrolledOrInstructor(c, ctl.DB, courseID)
	if err != nil {
		return err
	}

	isInstructor, err := authz.IsCourseInstructor(ctl.DB.WithContext(c.Context()), userID, courseID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	p := helper.ResolvePaging(c, 20, 100)
	db := ctl.DB.WithContext(c.Context())

	q := db.Model(&model.AssignmentModel{}).
		Where("assignment_course_id = ?", courseID)
	if !isInstructor {
		q = q.Where("assignment_published = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.AssignmentModel
	if err := q.Order("assignment_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.AssignmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/u/assignments/:id — quiz: kunci jawaban disembunyikan dari siswa.
func (ctl *AssignmentController) GetByID(c *fiber.Ctx) error {
	assignmentID, err := uuid.Parse(c.Params("id"))
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

	db := ctl.DB.WithContext(c.Context())
	isInstructor, err := authz.IsCourseInstructor(db, userID, asg.AssignmentCourseID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !isInstructor && !asg.AssignmentPublished {
		return helper.JsonError(c, fiber.StatusNotFound, "Assignment tidak ditemukan")
	}

	resp := dto.FromModel(asg)

	if asg.AssignmentType == model.AssignmentTypeQuiz {
		var questions []model.AssignmentQuizQuestionModel
		if err := db.Where("assignment_quiz_question_assignment_id = ?", asg.AssignmentID).
			Order("assignment_quiz_question_position ASC").
			Find(&questions).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}

		qIDs := make([]uuid.UUID, 0, len(questions))
		for _, q := range questions {
			qIDs = append(qIDs, q.AssignmentQuizQuestionID)
		}
		var options []model.AssignmentQuizOptionModel
		if len(qIDs) > 0 {
			if err := db.Where("assignment_quiz_option_question_id IN ?", qIDs).
				Order("assignment_quiz_option_position ASC").
				Find(&options).Error; err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
			}
		}
		resp.QuizQuestions = dto.QuizFromModels(questions, options, isInstructor)
	}

	return helper.JsonOK(c, "", resp)
}

// PATCH /api/i/assignments/:id
func (ctl *AssignmentController) Patch(c *fiber.Ctx) error {
	assignmentID, err := uuid.Parse(c.Params("id"))
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

	var req dto.PatchAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if req.AssignmentTitle != nil && req.AssignmentTitle.IsNull() {
		return helper.JsonValidationError(c, map[string][]string{
			"assignment_title": {"tidak boleh null"},
		})
	}
	if req.AssignmentLatePenaltyPercentage != nil &&
		req.AssignmentLatePenaltyPercentage.ShouldUpdate() &&
		!req.AssignmentLatePenaltyPercentage.IsNull() {
		v := *req.AssignmentLatePenaltyPercentage.Value
		if v < 0 || v > 100 {
			return helper.JsonValidationError(c, map[string][]string{
				"assignment_late_penalty_percentage": {"harus 0..100"},
			})
		}
	}

	upd := req.ToUpdates()
	if len(upd) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.AssignmentModel{}).
		Where("assignment_id = ?", assignmentID).
		Updates(upd).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	updated, err := ctl.findAssignment(c, assignmentID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Assignment berhasil diperbarui", dto.FromModel(updated))
}

// PUT /api/i/assignments/:id/publish
func (ctl *AssignmentController) Publish(c *fiber.Ctx) error {
	assignmentID, err := uuid.Parse(c.Params("id"))
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

	var req dto.PublishAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.AssignmentModel{}).
		Where("assignment_id = ?", assignmentID).
		Update("assignment_published", req.AssignmentPublished).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "Status publish diperbarui", fiber.Map{
		"assignment_id":        assignmentID,
		"assignment_published": req.AssignmentPublished,
	})
}

// DELETE /api/i/assignments/:id — soft delete; submission lama tetap ada
// untuk arsip nilai.
func (ctl *AssignmentController) Delete(c *fiber.Ctx) error {
	assignmentID, err := uuid.Parse(c.Params("id"))
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

	if err := ctl.DB.WithContext(c.Context()).Delete(asg).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "Assignment berhasil dihapus", fiber.Map{"assignment_id": assignmentID})
}

func (ctl *AssignmentController) findAssignment(c *fiber.Ctx, id uuid.UUID) (*model.AssignmentModel, error) {
	var asg model.AssignmentModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&asg, "assignment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Assignment tidak ditemukan")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return &asg, nil
}
