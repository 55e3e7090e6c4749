package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "kelasku_backend/internals/features/lms/discussions/dto"
	model "kelasku_backend/internals/features/lms/discussions/model"
	helper "kelasku_backend/internals/helpers"
	"kelasku_backend/internals/helpers/authz"
)

type CommentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewCommentController(db *gorm.DB, v *validator.Validate) *CommentController {
	return &CommentController{DB: db, Validator: v}
}

// POST /api/u/threads/:thread_id/comments
// Aturan nesting: parent harus komentar thread yang sama, dan parent
// tidak boleh punya parent lagi (maks satu level reply).
func (ctl *CommentController) Create(c *fiber.Ctx) error {
	threadID, err := uuid.Parse(c.Params("thread_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var thread model.CourseThreadModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&thread, "course_thread_id = ?", threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Thread tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	userID, err := authz.EnsureEnrolledOrInstructor(c, ctl.DB, thread.CourseThreadCourseID)
	if err != nil {
		return err
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.ThreadCommentParentID != nil {
		var parent model.ThreadCommentModel
		if err := ctl.DB.WithContext(c.Context()).
			First(&parent, "thread_comment_id = ?", *req.ThreadCommentParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusNotFound, "Komentar induk tidak ditemukan")
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		if parent.ThreadCommentThreadID != threadID {
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Komentar induk bukan milik thread ini")
		}
		if parent.ThreadCommentParentID != nil {
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Reply hanya boleh satu level")
		}
	}

	comment := req.ToModel(threadID, userID)
	if err := ctl.DB.WithContext(c.Context()).Create(&comment).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Komentar ditambahkan", dto.CommentFromModel(&comment))
}

// DELETE /api/u/comments/:id — penulis atau instruktur course.
// Reply di bawahnya ikut terhapus.
func (ctl *CommentController) Delete(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var comment model.ThreadCommentModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&comment, "thread_comment_id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Komentar tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var thread model.CourseThreadModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&thread, "course_thread_id = ?", comment.ThreadCommentThreadID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// penulis boleh hapus walau sudah unenroll; selain penulis harus instruktur
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User belum login")
	}
	if comment.ThreadCommentAuthorID != userID {
		if _, err := authz.EnsureManageCourse(c, ctl.DB, thread.CourseThreadCourseID); err != nil {
			return err
		}
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_comment_parent_id = ?", commentID).
			Delete(&model.ThreadCommentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonDeleted(c, "Komentar dihapus", fiber.Map{"thread_comment_id": commentID})
}
