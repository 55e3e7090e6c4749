// Package authz memusatkan dua aturan akses yang dipakai semua controller:
// "manage-course" (caller = instruktur course) dan "enrolled-or-instructor".
// Controller tidak boleh menghitung ulang ownership/enrollment sendiri.
package authz

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kelasku_backend/internals/constants"
	helper "kelasku_backend/internals/helpers"
)

var ErrCourseNotFound = errors.New("course tidak ditemukan")

// CourseInstructorID ambil pemilik course (soft-delete aware).
func CourseInstructorID(db *gorm.DB, courseID uuid.UUID) (uuid.UUID, error) {
	var instructorID uuid.UUID
	err := db.Table("courses").
		Select("course_instructor_id").
		Where("course_id = ? AND course_deleted_at IS NULL", courseID).
		Take(&instructorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrCourseNotFound
		}
		return uuid.Nil, err
	}
	return instructorID, nil
}

func IsCourseInstructor(db *gorm.DB, userID, courseID uuid.UUID) (bool, error) {
	owner, err := CourseInstructorID(db, courseID)
	if err != nil {
		return false, err
	}
	return owner == userID, nil
}

func IsEnrolled(db *gorm.DB, userID, courseID uuid.UUID) (bool, error) {
	var n int64
	err := db.Table("course_enrollments").
		Where("course_enrollment_course_id = ? AND course_enrollment_user_id = ?", courseID, userID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CanManageCourse: hanya instruktur pemilik course.
func CanManageCourse(db *gorm.DB, userID, courseID uuid.UUID) (bool, error) {
	return IsCourseInstructor(db, userID, courseID)
}

// CanViewCourse: enrolled ATAU instruktur.
func CanViewCourse(db *gorm.DB, userID, courseID uuid.UUID) (bool, error) {
	ok, err := IsCourseInstructor(db, userID, courseID)
	if err != nil || ok {
		return ok, err
	}
	return IsEnrolled(db, userID, courseID)
}

func isPrivileged(c *fiber.Ctx) bool {
	return helper.HasGlobalRole(c, constants.RoleAdmin) || helper.HasGlobalRole(c, constants.RoleOwner)
}

// EnsureManageCourse: guard untuk semua write operasi struktur course.
// Return user_id caller bila lolos; selain itu sudah menulis response error.
func EnsureManageCourse(c *fiber.Ctx, db *gorm.DB, courseID uuid.UUID) (uuid.UUID, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return uuid.Nil, helper.JsonError(c, fiber.StatusUnauthorized, "User belum login")
	}
	if isPrivileged(c) {
		return userID, nil
	}
	ok, err := CanManageCourse(db.WithContext(c.Context()), userID, courseID)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return uuid.Nil, helper.JsonError(c, fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return uuid.Nil, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !ok {
		return uuid.Nil, helper.JsonError(c, fiber.StatusForbidden, "Hanya instruktur course yang diizinkan")
	}
	return userID, nil
}

// EnsureEnrolledOrInstructor: guard untuk operasi yang boleh diakses siswa
// ter-enroll maupun instruktur (lihat thread, submit assignment, komentar).
func EnsureEnrolledOrInstructor(c *fiber.Ctx, db *gorm.DB, courseID uuid.UUID) (uuid.UUID, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return uuid.Nil, helper.JsonError(c, fiber.StatusUnauthorized, "User belum login")
	}
	if isPrivileged(c) {
		return userID, nil
	}
	ok, err := CanViewCourse(db.WithContext(c.Context()), userID, courseID)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return uuid.Nil, helper.JsonError(c, fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return uuid.Nil, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !ok {
		return uuid.Nil, helper.JsonError(c, fiber.StatusForbidden, "Anda tidak terdaftar pada course ini")
	}
	return userID, nil
}
