package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kelasku_backend/internals/constants"
	dto "kelasku_backend/internals/features/lms/courses/dto"
	model "kelasku_backend/internals/features/lms/courses/model"
	helper "kelasku_backend/internals/helpers"
	"kelasku_backend/internals/helpers/authz"
	osshelper "kelasku_backend/internals/helpers/oss"
)

type CourseController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Blob      osshelper.BlobService
}

func NewCourseController(db *gorm.DB, v *validator.Validate, blob osshelper.BlobService) *CourseController {
	return &CourseController{DB: db, Validator: v, Blob: blob}
}

/* =========================================================
   CREATE / READ
========================================================= */

// POST /api/i/courses
func (ctl *CourseController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User belum login")
	}

	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	course := req.ToModel(userID)
	if err := ctl.DB.WithContext(c.Context()).Create(&course).Error; err != nil {
		// join code unik; tabrakan sangat jarang, regenerate sekali
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			course.CourseJoinCode = helper.GenerateJoinCode()
			if err2 := ctl.DB.WithContext(c.Context()).Create(&course).Error; err2 != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, err2.Error())
			}
		} else {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return helper.JsonCreated(c, "Course berhasil dibuat", dto.FromModel(&course, true))
}

// GET /api/u/courses — course yang saya ikuti + yang saya ajar.
func (ctl *CourseController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User belum login")
	}

	p := helper.ResolvePaging(c, 20, 100)
	db := ctl.DB.WithContext(c.Context())

	base := db.Model(&model.CourseModel{}).
		Where(
			"course_instructor_id = ? OR course_id IN (?)",
			userID,
			db.Table("course_enrollments").
				Select("course_enrollment_course_id").
				Where("course_enrollment_user_id = ?", userID),
		)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.CourseModel
	if err := base.
		Order("course_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.CourseResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i], rows[i].CourseInstructorID == userID))
	}
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/u/courses/:id
func (ctl *CourseController) GetByID(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	userID, err := authz.EnsureEnrolledOrInstructor(c, ctl.DB, courseID)
	if err != nil {
		return err
	}

	var course model.CourseModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&course, "course_id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "", dto.FromModel(&course, course.CourseInstructorID == userID))
}

/* =========================================================
   UPDATE / STATUS / DELETE
========================================================= */

// PATCH /api/i/courses/:id
func (ctl *CourseController) Patch(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, courseID); err != nil {
		return err
	}

	var req dto.PatchCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if req.CourseTitle != nil && req.CourseTitle.IsNull() {
		return helper.JsonValidationError(c, map[string][]string{
			"course_title": {"tidak boleh null"},
		})
	}

	upd := req.ToUpdates()
	if len(upd) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.CourseModel{}).
		Where("course_id = ?", courseID).
		Updates(upd).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var course model.CourseModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&course, "course_id = ?", courseID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Course berhasil diperbarui", dto.FromModel(&course, true))
}

// PUT /api/i/courses/:id/status — transisi eksplisit draft/published/archived.
func (ctl *CourseController) UpdateStatus(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, courseID); err != nil {
		return err
	}

	var req dto.UpdateCourseStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.CourseModel{}).
		Where("course_id = ?", courseID).
		Update("course_status", req.CourseStatus).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "Status course diperbarui", fiber.Map{
		"course_id":     courseID,
		"course_status": req.CourseStatus,
	})
}

// DELETE /api/i/courses/:id — soft delete; blob cover dihapus best-effort.
func (ctl *CourseController) Delete(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, courseID); err != nil {
		return err
	}

	var course model.CourseModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&course, "course_id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := ctl.DB.WithContext(c.Context()).Delete(&course).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if ctl.Blob != nil && course.CourseCoverKey != nil {
		_ = ctl.Blob.DeleteByObjectKey(c.Context(), *course.CourseCoverKey)
	}

	return helper.JsonDeleted(c, "Course berhasil dihapus", fiber.Map{"course_id": courseID})
}

/* =========================================================
   COVER
========================================================= */

// PUT /api/i/courses/:id/cover — upload gambar, re-encode WebP.
// Cover lama dihapus setelah row ter-update.
func (ctl *CourseController) UploadCover(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, courseID); err != nil {
		return err
	}
	if err := osshelper.EnsureBlobService(ctl.Blob); err != nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
	}

	fh := osshelper.TryGetImageFile(c, "cover", "image", "file")
	if fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File cover tidak ditemukan")
	}
	if !constants.IsImageExt(fh.Filename) {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Cover harus berupa gambar")
	}

	var course model.CourseModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&course, "course_id = ?", courseID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	oldKey := course.CourseCoverKey

	url, key, err := ctl.Blob.UploadImage(c.Context(), courseID, "cover", fh)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.CourseModel{}).
		Where("course_id = ?", courseID).
		Updates(map[string]any{
			"course_cover_url": url,
			"course_cover_key": key,
		}).Error; err != nil {
		_ = ctl.Blob.DeleteByObjectKey(c.Context(), key)
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if oldKey != nil && *oldKey != key {
		_ = ctl.Blob.DeleteByObjectKey(c.Context(), *oldKey)
	}

	return helper.JsonUpdated(c, "Cover berhasil diunggah", fiber.Map{
		"course_id":        courseID,
		"course_cover_url": url,
	})
}

/* =========================================================
   JOIN / ENROLLMENT
========================================================= */

// POST /api/u/courses/join — enroll via join code.
func (ctl *CourseController) Join(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User belum login")
	}

	var req dto.JoinCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctl.DB.WithContext(c.Context())

	var course model.CourseModel
	if err := db.First(&course, "course_join_code = ?", helper.NormalizeJoinCode(req.JoinCode)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Join code tidak dikenal")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if course.CourseStatus != model.CourseStatusPublished {
		return helper.JsonError(c, fiber.StatusConflict, "Course belum dibuka untuk pendaftaran")
	}
	if course.CourseInstructorID == userID {
		return helper.JsonError(c, fiber.StatusConflict, "Instruktur tidak perlu join course sendiri")
	}

	enr := model.CourseEnrollmentModel{
		CourseEnrollmentCourseID: course.CourseID,
		CourseEnrollmentUserID:   userID,
	}
	if err := db.Create(&enr).Error; err != nil {
		// unique (course_id, user_id): sudah terdaftar
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return helper.JsonError(c, fiber.StatusConflict, "Anda sudah terdaftar pada course ini")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Berhasil bergabung", fiber.Map{
		"enrollment": dto.EnrollmentFromModel(&enr),
		"course":     dto.FromModel(&course, false),
	})
}

// POST /api/i/courses/:id/invite-token — regenerate; token lama hangus.
func (ctl *CourseController) RegenerateInviteToken(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, courseID); err != nil {
		return err
	}

	token := uuid.New()
	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.CourseModel{}).
		Where("course_id = ?", courseID).
		Update("course_invite_token", token).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "Invite token diperbarui", fiber.Map{
		"course_id":           courseID,
		"course_invite_token": token,
	})
}

// GET /api/i/courses/:id/enrollments
func (ctl *CourseController) ListEnrollments(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, courseID); err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 50, 200)
	db := ctl.DB.WithContext(c.Context())

	var total int64
	if err := db.Model(&model.CourseEnrollmentModel{}).
		Where("course_enrollment_course_id = ?", courseID).
		Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.CourseEnrollmentModel
	if err := db.
		Where("course_enrollment_course_id = ?", courseID).
		Order("course_enrollment_enrolled_at ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.EnrollmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.EnrollmentFromModel(&rows[i]))
	}
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// DELETE /api/i/courses/:id/enrollments/:user_id — keluarkan siswa.
// DELETE /api/u/courses/:id/enrollments/me     — keluar sendiri.
func (ctl *CourseController) Unenroll(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var targetID uuid.UUID
	if raw := c.Params("user_id"); raw != "" && raw != "me" {
		// mengeluarkan orang lain = hak instruktur
		if _, err := authz.EnsureManageCourse(c, ctl.DB, courseID); err != nil {
			return err
		}
		targetID, err = uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "user_id tidak valid")
		}
	} else {
		targetID, err = helper.GetUserIDFromToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "User belum login")
		}
	}

	res := ctl.DB.WithContext(c.Context()).
		Where("course_enrollment_course_id = ? AND course_enrollment_user_id = ?", courseID, targetID).
		Delete(&model.CourseEnrollmentModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Enrollment tidak ditemukan")
	}

	return helper.JsonDeleted(c, "Enrollment dihapus", fiber.Map{
		"course_id": courseID,
		"user_id":   targetID,
	})
}

/* =========================================================
   DASHBOARD
========================================================= */

// GET /api/i/courses/:id/dashboard — agregasi ringan untuk instruktur.
func (ctl *CourseController) Dashboard(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if _, err := authz.EnsureManageCourse(c, ctl.DB, courseID); err != nil {
		return err
	}

	db := ctl.DB.WithContext(c.Context())
	resp := dto.DashboardResponse{CourseID: courseID}

	if err := db.Table("course_enrollments").
		Where("course_enrollment_course_id = ?", courseID).
		Count(&resp.StudentCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := db.Table("chapters").
		Where("chapter_course_id = ? AND chapter_deleted_at IS NULL", courseID).
		Count(&resp.ChapterCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := db.Table("assignments").
		Where("assignment_course_id = ? AND assignment_deleted_at IS NULL", courseID).
		Count(&resp.AssignmentCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := db.Table("submissions").
		Where("submission_course_id = ? AND submission_status IN ? AND submission_deleted_at IS NULL",
			courseID, []string{"submitted", "graded"}).
		Count(&resp.SubmittedCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := db.Table("submissions").
		Where("submission_course_id = ? AND submission_status = ? AND submission_deleted_at IS NULL",
			courseID, "graded").
		Count(&resp.GradedCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if resp.GradedCount > 0 {
		var avg *float64
		if err := db.Table("submissions").
			Where("submission_course_id = ? AND submission_status = ? AND submission_deleted_at IS NULL",
				courseID, "graded").
			Select("AVG(submission_grade)").
			Scan(&avg).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		resp.AverageGrade = avg
	}

	return helper.JsonOK(c, "", resp)
}
