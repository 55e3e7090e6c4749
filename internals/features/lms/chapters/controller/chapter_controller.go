package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "kelasku_backend/internals/features/lms/chapters/dto"
	model "kelasku_backend/internals/features/lms/chapters/model"
	helper "kelasku_backend/internals/helpers"
	"kelasku_backend/internals/helpers/authz"
)

type ChapterController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewChapterController(db *gorm.DB, v *validator.Validate) *ChapterController {
	return &ChapterController{DB: db, Validator: v}
}

// POST /api/i/chapters — position otomatis di ekor daftar.
func (ctl *ChapterController) Create(c *fiber.Ctx) error {
	var req dto.CreateChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, req.ChapterCourseID); err != nil {
		return err
	}

	var chapter model.ChapterModel
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&model.ChapterModel{}).
			Where("chapter_course_id = ?", req.ChapterCourseID).
			Select("COALESCE(MAX(chapter_position), 0)").
			Scan(&maxPos).Error; err != nil {
			return err
		}
		chapter = req.ToModel(maxPos + 1)
		return tx.Create(&chapter).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Chapter berhasil dibuat", dto.FromModel(&chapter))
}

// GET /api/u/courses/:course_id/chapters — urut position.
func (ctl *ChapterController) ListByCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if _, err := authz.EnsureEnrolledOrInstructor(c, ctl.DB, courseID); err != nil {
		return err
	}

	var rows []model.ChapterModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("chapter_course_id = ?", courseID).
		Order("chapter_position ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.ChapterResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.JsonOK(c, "", out)
}

// PATCH /api/i/chapters/:id
func (ctl *ChapterController) Patch(c *fiber.Ctx) error {
	chapterID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	chapter, err := ctl.findChapter(c, chapterID)
	if err != nil {
		return err
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, chapter.ChapterCourseID); err != nil {
		return err
	}

	var req dto.PatchChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if req.ChapterTitle != nil && req.ChapterTitle.IsNull() {
		return helper.JsonValidationError(c, map[string][]string{
			"chapter_title": {"tidak boleh null"},
		})
	}

	upd := req.ToUpdates()
	if len(upd) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.ChapterModel{}).
		Where("chapter_id = ?", chapterID).
		Updates(upd).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	updated, err := ctl.findChapter(c, chapterID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Chapter berhasil diperbarui", dto.FromModel(updated))
}

// DELETE /api/i/chapters/:id — soft delete; resource di bawahnya ikut
// tidak terlihat karena query selalu lewat chapter.
func (ctl *ChapterController) Delete(c *fiber.Ctx) error {
	chapterID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	chapter, err := ctl.findChapter(c, chapterID)
	if err != nil {
		return err
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, chapter.ChapterCourseID); err != nil {
		return err
	}

	if err := ctl.DB.WithContext(c.Context()).Delete(chapter).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "Chapter berhasil dihapus", fiber.Map{"chapter_id": chapterID})
}

// PUT /api/i/courses/:course_id/chapters/reorder
func (ctl *ChapterController) Reorder(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, courseID); err != nil {
		return err
	}

	var req dto.ReorderChaptersRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.ChapterModel{}).
			Where("chapter_course_id = ? AND chapter_id IN ?", courseID, req.ChapterIDs).
			Count(&n).Error; err != nil {
			return err
		}
		if n != int64(len(req.ChapterIDs)) {
			return errForeignChapter
		}
		for i, id := range req.ChapterIDs {
			if err := tx.Model(&model.ChapterModel{}).
				Where("chapter_id = ?", id).
				Update("chapter_position", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errForeignChapter) {
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "Urutan chapter diperbarui", fiber.Map{"course_id": courseID})
}

var errForeignChapter = errors.New("ada chapter yang bukan milik course ini")

func (ctl *ChapterController) findChapter(c *fiber.Ctx, id uuid.UUID) (*model.ChapterModel, error) {
	var chapter model.ChapterModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&chapter, "chapter_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Chapter tidak ditemukan")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return &chapter, nil
}
