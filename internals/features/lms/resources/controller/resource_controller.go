package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	attservice "kelasku_backend/internals/features/lms/attachments/service"
	chmodel "kelasku_backend/internals/features/lms/chapters/model"
	dto "kelasku_backend/internals/features/lms/resources/dto"
	model "kelasku_backend/internals/features/lms/resources/model"
	service "kelasku_backend/internals/features/lms/resources/service"
	helper "kelasku_backend/internals/helpers"
	"kelasku_backend/internals/helpers/authz"
)

type ResourceController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *service.ResourceService
}

func NewResourceController(db *gorm.DB, v *validator.Validate, svc *service.ResourceService) *ResourceController {
	return &ResourceController{DB: db, Validator: v, Service: svc}
}

// POST /api/i/resources — multipart; tipe menentukan payload child.
func (ctl *ResourceController) Create(c *fiber.Ctx) error {
	var req dto.CreateResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	// chapter menentukan course untuk authz
	var chapter chmodel.ChapterModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&chapter, "chapter_id = ?", req.ResourceChapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Chapter tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, chapter.ChapterCourseID); err != nil {
		return err
	}

	in, err := req.ToServiceInput(chapter.ChapterCourseID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload child tidak valid: "+err.Error())
	}

	if req.ResourceType == model.ResourceTypeAttachment {
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
	}

	res, err := ctl.Service.Create(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResourceType),
			errors.Is(err, service.ErrMissingChildPayload):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Resource berhasil dibuat", dto.FromModel(res))
}

// GET /api/u/resources/:id — base + child payload sesuai tipe.
func (ctl *ResourceController) GetByID(c *fiber.Ctx) error {
	resourceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	res, err := ctl.findResource(c, resourceID)
	if err != nil {
		return err
	}
	if _, err := authz.EnsureEnrolledOrInstructor(c, ctl.DB, res.ResourceCourseID); err != nil {
		return err
	}

	resp := dto.FromModel(res)
	db := ctl.DB.WithContext(c.Context())

	switch res.ResourceType {
	case model.ResourceTypeRichText:
		var child model.RichTextResourceModel
		if err := db.First(&child, "rich_text_resource_resource_id = ?", res.ResourceID).Error; err == nil {
			resp.RichTextBody = &child.RichTextResourceBody
		}
	case model.ResourceTypeExternal:
		var child model.ExternalResourceModel
		if err := db.First(&child, "external_resource_resource_id = ?", res.ResourceID).Error; err == nil {
			resp.ExternalURL = &child.ExternalResourceURL
			if len(child.ExternalResourceMeta) > 0 {
				resp.ExternalMeta = map[string]any(child.ExternalResourceMeta)
			}
		}
	}

	return helper.JsonOK(c, "", resp)
}

// PATCH /api/i/resources/:id — judul + body child sederhana.
func (ctl *ResourceController) Patch(c *fiber.Ctx) error {
	resourceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	res, err := ctl.findResource(c, resourceID)
	if err != nil {
		return err
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, res.ResourceCourseID); err != nil {
		return err
	}

	var req dto.PatchResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if req.ResourceTitle != nil && req.ResourceTitle.IsNull() {
		return helper.JsonValidationError(c, map[string][]string{
			"resource_title": {"tidak boleh null"},
		})
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if req.ResourceTitle != nil && req.ResourceTitle.ShouldUpdate() {
			if err := tx.Model(&model.ResourceModel{}).
				Where("resource_id = ?", resourceID).
				Update("resource_title", *req.ResourceTitle.Value).Error; err != nil {
				return err
			}
		}
		if res.ResourceType == model.ResourceTypeRichText &&
			req.RichTextBody != nil && req.RichTextBody.ShouldUpdate() && !req.RichTextBody.IsNull() {
			if err := tx.Model(&model.RichTextResourceModel{}).
				Where("rich_text_resource_resource_id = ?", resourceID).
				Update("rich_text_resource_body", *req.RichTextBody.Value).Error; err != nil {
				return err
			}
		}
		if res.ResourceType == model.ResourceTypeExternal &&
			req.ExternalURL != nil && req.ExternalURL.ShouldUpdate() && !req.ExternalURL.IsNull() {
			if err := tx.Model(&model.ExternalResourceModel{}).
				Where("external_resource_resource_id = ?", resourceID).
				Update("external_resource_url", *req.ExternalURL.Value).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	updated, err := ctl.findResource(c, resourceID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Resource berhasil diperbarui", dto.FromModel(updated))
}

// DELETE /api/i/resources/:id
func (ctl *ResourceController) Delete(c *fiber.Ctx) error {
	resourceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	res, err := ctl.findResource(c, resourceID)
	if err != nil {
		return err
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, res.ResourceCourseID); err != nil {
		return err
	}

	if err := ctl.Service.Delete(c.Context(), res); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "Resource berhasil dihapus", fiber.Map{"resource_id": resourceID})
}

// PUT /api/i/chapters/:chapter_id/resources/reorder
func (ctl *ResourceController) Reorder(c *fiber.Ctx) error {
	chapterID, err := uuid.Parse(c.Params("chapter_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var chapter chmodel.ChapterModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&chapter, "chapter_id = ?", chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Chapter tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, chapter.ChapterCourseID); err != nil {
		return err
	}

	var req dto.ReorderResourcesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := ctl.Service.Reorder(c.Context(), chapterID, req.ResourceIDs); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	return helper.JsonUpdated(c, "Urutan resource diperbarui", fiber.Map{"chapter_id": chapterID})
}

// GET /api/u/chapters/:chapter_id/resources
func (ctl *ResourceController) ListByChapter(c *fiber.Ctx) error {
	chapterID, err := uuid.Parse(c.Params("chapter_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var chapter chmodel.ChapterModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&chapter, "chapter_id = ?", chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Chapter tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if _, err := authz.EnsureEnrolledOrInstructor(c, ctl.DB, chapter.ChapterCourseID); err != nil {
		return err
	}

	var rows []model.ResourceModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("resource_chapter_id = ?", chapterID).
		Order("resource_position ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.ResourceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.JsonOK(c, "", out)
}

func (ctl *ResourceController) findResource(c *fiber.Ctx, id uuid.UUID) (*model.ResourceModel, error) {
	var res model.ResourceModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&res, "resource_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Resource tidak ditemukan")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return &res, nil
}
