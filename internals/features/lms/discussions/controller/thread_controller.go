package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	attmodel "kelasku_backend/internals/features/lms/attachments/model"
	attservice "kelasku_backend/internals/features/lms/attachments/service"
	dto "kelasku_backend/internals/features/lms/discussions/dto"
	model "kelasku_backend/internals/features/lms/discussions/model"
	helper "kelasku_backend/internals/helpers"
	"kelasku_backend/internals/helpers/authz"
)

type ThreadController struct {
	DB          *gorm.DB
	Validator   *validator.Validate
	Attachments *attservice.AttachmentService
}

func NewThreadController(db *gorm.DB, v *validator.Validate, att *attservice.AttachmentService) *ThreadController {
	return &ThreadController{DB: db, Validator: v, Attachments: att}
}

// POST /api/u/threads — siswa ter-enroll maupun instruktur boleh buka thread.
func (ctl *ThreadController) Create(c *fiber.Ctx) error {
	var req dto.CreateThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	userID, err := authz.EnsureEnrolledOrInstructor(c, ctl.DB, req.CourseThreadCourseID)
	if err != nil {
		return err
	}

	files := formFiles(c, "attachments")
	if fieldErrs := attservice.ValidateFiles(files); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}
	if len(files) > 0 {
		if err := ctl.Attachments.Ready(); err != nil {
			return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
		}
	}

	thread := req.ToModel(userID)
	var uploadedKeys []string
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&thread).Error; err != nil {
			return err
		}
		if len(files) > 0 {
			_, keys, err := ctl.Attachments.UploadAndRecord(
				c.Context(), tx,
				req.CourseThreadCourseID,
				attmodel.AttachmentOwnerThread, thread.CourseThreadID,
				"threads", files, false,
			)
			uploadedKeys = keys
			return err
		}
		return nil
	})
	if err != nil {
		if len(uploadedKeys) > 0 {
			_ = ctl.Attachments.CleanupKeys(c.Context(), uploadedKeys)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Thread dibuat", dto.ThreadFromModel(&thread, 0))
}

// GET /api/u/courses/:course_id/threads
func (ctl *ThreadController) ListByCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if _, err := authz.EnsureEnrolledOrInstructor(c, ctl.DB, courseID); err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 100)
	db := ctl.DB.WithContext(c.Context())

	var total int64
	if err := db.Model(&model.CourseThreadModel{}).
		Where("course_thread_course_id = ?", courseID).
		Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.CourseThreadModel
	if err := db.Where("course_thread_course_id = ?", courseID).
		Order("course_thread_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// hitung komentar per thread sekali jalan
	counts := map[uuid.UUID]int64{}
	if len(rows) > 0 {
		ids := make([]uuid.UUID, 0, len(rows))
		for _, t := range rows {
			ids = append(ids, t.CourseThreadID)
		}
		type pair struct {
			ThreadID uuid.UUID `gorm:"column:thread_id"`
			N        int64     `gorm:"column:n"`
		}
		var pairs []pair
		if err := db.Model(&model.ThreadCommentModel{}).
			Select("thread_comment_thread_id AS thread_id, COUNT(*) AS n").
			Where("thread_comment_thread_id IN ?", ids).
			Group("thread_comment_thread_id").
			Scan(&pairs).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		for _, p := range pairs {
			counts[p.ThreadID] = p.N
		}
	}

	out := make([]dto.ThreadResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ThreadFromModel(&rows[i], counts[rows[i].CourseThreadID]))
	}
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/u/threads/:id — thread + komentar terurut lama→baru.
func (ctl *ThreadController) GetByID(c *fiber.Ctx) error {
	threadID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	thread, err := ctl.findThread(c, threadID)
	if err != nil {
		return err
	}
	if _, err := authz.EnsureEnrolledOrInstructor(c, ctl.DB, thread.CourseThreadCourseID); err != nil {
		return err
	}

	var comments []model.ThreadCommentModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("thread_comment_thread_id = ?", threadID).
		Order("thread_comment_created_at ASC").
		Find(&comments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	outComments := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		outComments = append(outComments, dto.CommentFromModel(&comments[i]))
	}

	return helper.JsonOK(c, "", fiber.Map{
		"thread":   dto.ThreadFromModel(thread, int64(len(comments))),
		"comments": outComments,
	})
}

// DELETE /api/u/threads/:id — penulis atau instruktur course.
// Penulis tetap boleh menghapus thread-nya sendiri walau sudah unenroll,
// jadi kepengarangan dicek sebelum guard enrollment.
func (ctl *ThreadController) Delete(c *fiber.Ctx) error {
	threadID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	thread, err := ctl.findThread(c, threadID)
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User belum login")
	}
	if thread.CourseThreadAuthorID != userID {
		if _, err := authz.EnsureManageCourse(c, ctl.DB, thread.CourseThreadCourseID); err != nil {
			return err
		}
	}

	var keys []string
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_comment_thread_id = ?", threadID).
			Delete(&model.ThreadCommentModel{}).Error; err != nil {
			return err
		}
		k, err := ctl.Attachments.DeleteByOwner(c.Context(), tx, attmodel.AttachmentOwnerThread, threadID)
		if err != nil {
			return err
		}
		keys = k
		return tx.Delete(thread).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	_ = ctl.Attachments.CleanupKeys(c.Context(), keys)

	return helper.JsonDeleted(c, "Thread dihapus", fiber.Map{"course_thread_id": threadID})
}

func (ctl *ThreadController) findThread(c *fiber.Ctx, id uuid.UUID) (*model.CourseThreadModel, error) {
	var thread model.CourseThreadModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&thread, "course_thread_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Thread tidak ditemukan")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return &thread, nil
}
