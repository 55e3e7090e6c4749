package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "kelasku_backend/internals/features/lms/attachments/dto"
	model "kelasku_backend/internals/features/lms/attachments/model"
	service "kelasku_backend/internals/features/lms/attachments/service"
	helper "kelasku_backend/internals/helpers"
	"kelasku_backend/internals/helpers/authz"
)

type AttachmentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *service.AttachmentService
}

func NewAttachmentController(db *gorm.DB, v *validator.Validate, svc *service.AttachmentService) *AttachmentController {
	return &AttachmentController{DB: db, Validator: v, Service: svc}
}

// GET /api/u/attachments?owner_kind=&owner_id=
// Lampiran privat (submission) hanya untuk pemilik atau instruktur.
func (ctl *AttachmentController) ListByOwner(c *fiber.Ctx) error {
	kind := model.AttachmentOwnerKind(c.Query("owner_kind"))
	if !kind.Valid() {
		return helper.JsonError(c, fiber.StatusBadRequest, "owner_kind tidak dikenal")
	}
	ownerID, err := uuid.Parse(c.Query("owner_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "owner_id tidak valid")
	}

	var rows []model.AttachmentModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("attachment_owner_kind = ? AND attachment_owner_id = ?", kind, ownerID).
		Order("attachment_created_at ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if len(rows) == 0 {
		return helper.JsonOK(c, "", []dto.AttachmentResponse{})
	}

	courseID := rows[0].AttachmentCourseID
	userID, err := authz.EnsureEnrolledOrInstructor(c, ctl.DB, courseID)
	if err != nil {
		return err
	}

	if kind == model.AttachmentOwnerSubmission {
		isInstructor, err := authz.IsCourseInstructor(ctl.DB.WithContext(c.Context()), userID, courseID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		if !isInstructor {
			var studentID uuid.UUID
			if err := ctl.DB.WithContext(c.Context()).
				Table("submissions").
				Select("submission_student_id").
				Where("submission_id = ?", ownerID).
				Take(&studentID).Error; err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
			}
			if studentID != userID {
				return helper.JsonError(c, fiber.StatusForbidden, "Lampiran ini bukan milik Anda")
			}
		}
	}

	return helper.JsonOK(c, "", dto.FromModels(rows))
}

// DELETE /api/i/attachments/:id — instruktur course; row + blob.
func (ctl *AttachmentController) Delete(c *fiber.Ctx) error {
	attID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var att model.AttachmentModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&att, "attachment_id = ?", attID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Lampiran tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, att.AttachmentCourseID); err != nil {
		return err
	}

	if err := ctl.DB.WithContext(c.Context()).
		Unscoped().Delete(&att).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	_ = ctl.Service.CleanupKeys(c.Context(), []string{att.AttachmentObjectKey})

	return helper.JsonDeleted(c, "Lampiran dihapus", fiber.Map{"attachment_id": attID})
}
