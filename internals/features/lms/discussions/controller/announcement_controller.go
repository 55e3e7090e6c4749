package controller

import (
	"errors"
	"mime/multipart"

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

type AnnouncementController struct {
	DB          *gorm.DB
	Validator   *validator.Validate
	Attachments *attservice.AttachmentService
}

func NewAnnouncementController(db *gorm.DB, v *validator.Validate, att *attservice.AttachmentService) *AnnouncementController {
	return &AnnouncementController{DB: db, Validator: v, Attachments: att}
}

// POST /api/i/announcements — multipart; lampiran opsional di "attachments".
func (ctl *AnnouncementController) Create(c *fiber.Ctx) error {
	var req dto.CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	userID, err := authz.EnsureManageCourse(c, ctl.DB, req.AnnouncementCourseID)
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

	ann := req.ToModel(userID)
	var uploadedKeys []string
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ann).Error; err != nil {
			return err
		}
		if len(files) > 0 {
			_, keys, err := ctl.Attachments.UploadAndRecord(
				c.Context(), tx,
				req.AnnouncementCourseID,
				attmodel.AttachmentOwnerAnnouncement, ann.AnnouncementID,
				"announcements", files, false,
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

	return helper.JsonCreated(c, "Pengumuman dibuat", dto.AnnouncementFromModel(&ann))
}

// GET /api/u/courses/:course_id/announcements — terbaru dulu.
func (ctl *AnnouncementController) ListByCourse(c *fiber.Ctx) error {
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
	if err := db.Model(&model.AnnouncementModel{}).
		Where("announcement_course_id = ?", courseID).
		Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.AnnouncementModel
	if err := db.Where("announcement_course_id = ?", courseID).
		Order("announcement_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.AnnouncementResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.AnnouncementFromModel(&rows[i]))
	}
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// PATCH /api/i/announcements/:id
func (ctl *AnnouncementController) Patch(c *fiber.Ctx) error {
	annID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	ann, err := ctl.findAnnouncement(c, annID)
	if err != nil {
		return err
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, ann.AnnouncementCourseID); err != nil {
		return err
	}

	var req dto.PatchAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if (req.AnnouncementTitle != nil && req.AnnouncementTitle.IsNull()) ||
		(req.AnnouncementBody != nil && req.AnnouncementBody.IsNull()) {
		return helper.JsonValidationError(c, map[string][]string{
			"announcement": {"title/body tidak boleh null"},
		})
	}

	upd := req.ToUpdates()
	if len(upd) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.AnnouncementModel{}).
		Where("announcement_id = ?", annID).
		Updates(upd).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	updated, err := ctl.findAnnouncement(c, annID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Pengumuman diperbarui", dto.AnnouncementFromModel(updated))
}

// DELETE /api/i/announcements/:id — row + metadata lampiran satu tx,
// blob dihapus setelah commit.
func (ctl *AnnouncementController) Delete(c *fiber.Ctx) error {
	annID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	ann, err := ctl.findAnnouncement(c, annID)
	if err != nil {
		return err
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, ann.AnnouncementCourseID); err != nil {
		return err
	}

	var keys []string
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		k, err := ctl.Attachments.DeleteByOwner(c.Context(), tx, attmodel.AttachmentOwnerAnnouncement, annID)
		if err != nil {
			return err
		}
		keys = k
		return tx.Delete(ann).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	_ = ctl.Attachments.CleanupKeys(c.Context(), keys)

	return helper.JsonDeleted(c, "Pengumuman dihapus", fiber.Map{"announcement_id": annID})
}

func (ctl *AnnouncementController) findAnnouncement(c *fiber.Ctx, id uuid.UUID) (*model.AnnouncementModel, error) {
	var ann model.AnnouncementModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&ann, "announcement_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Pengumuman tidak ditemukan")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return &ann, nil
}

// formFiles: ambil daftar file multipart; form kosong bukan error.
func formFiles(c *fiber.Ctx, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}
