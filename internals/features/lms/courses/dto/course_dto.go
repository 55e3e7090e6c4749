package dto

import (
	"time"

	"github.com/google/uuid"

	model "kelasku_backend/internals/features/lms/courses/model"
	helper "kelasku_backend/internals/helpers"
)

/* =========================================================
   CREATE
========================================================= */

type CreateCourseRequest struct {
	CourseTitle       string  `json:"course_title" validate:"required,min=3,max=180"`
	CourseDescription *string `json:"course_description,omitempty"`
	CourseCategory    *string `json:"course_category,omitempty" validate:"omitempty,max=80"`
	CourseColor       *string `json:"course_color,omitempty" validate:"omitempty,max=20"`
}

func (r CreateCourseRequest) ToModel(instructorID uuid.UUID) model.CourseModel {
	return model.CourseModel{
		CourseInstructorID: instructorID,
		CourseTitle:        r.CourseTitle,
		CourseDescription:  r.CourseDescription,
		CourseCategory:     r.CourseCategory,
		CourseColor:        r.CourseColor,
		CourseJoinCode:     helper.GenerateJoinCode(),
		CourseStatus:       model.CourseStatusDraft,
	}
}

/* =========================================================
   PATCH (partial update)
========================================================= */

type PatchCourseRequest struct {
	CourseTitle       *helper.PatchField[string] `json:"course_title,omitempty"`
	CourseDescription *helper.PatchField[string] `json:"course_description,omitempty"`
	CourseCategory    *helper.PatchField[string] `json:"course_category,omitempty"`
	CourseColor       *helper.PatchField[string] `json:"course_color,omitempty"`
}

func (p *PatchCourseRequest) ToUpdates() map[string]any {
	upd := map[string]any{}
	helper.PutUpdate(upd, "course_title", p.CourseTitle)
	helper.PutUpdate(upd, "course_description", p.CourseDescription)
	helper.PutUpdate(upd, "course_category", p.CourseCategory)
	helper.PutUpdate(upd, "course_color", p.CourseColor)
	return upd
}

// Transisi status dibuat eksplisit, bukan bagian PATCH umum.
type UpdateCourseStatusRequest struct {
	CourseStatus model.CourseStatus `json:"course_status" validate:"required,oneof=draft published archived"`
}

/* =========================================================
   JOIN / ENROLLMENT
========================================================= */

type JoinCourseRequest struct {
	JoinCode string `json:"join_code" validate:"required,min=6,max=12"`
}

type EnrollmentResponse struct {
	CourseEnrollmentID         uuid.UUID `json:"course_enrollment_id"`
	CourseEnrollmentCourseID   uuid.UUID `json:"course_enrollment_course_id"`
	CourseEnrollmentUserID     uuid.UUID `json:"course_enrollment_user_id"`
	CourseEnrollmentEnrolledAt time.Time `json:"course_enrollment_enrolled_at"`
}

func EnrollmentFromModel(m *model.CourseEnrollmentModel) EnrollmentResponse {
	return EnrollmentResponse{
		CourseEnrollmentID:         m.CourseEnrollmentID,
		CourseEnrollmentCourseID:   m.CourseEnrollmentCourseID,
		CourseEnrollmentUserID:     m.CourseEnrollmentUserID,
		CourseEnrollmentEnrolledAt: m.CourseEnrollmentEnrolledAt,
	}
}

/* =========================================================
   RESPONSES
========================================================= */

type CourseResponse struct {
	CourseID           uuid.UUID          `json:"course_id"`
	CourseInstructorID uuid.UUID          `json:"course_instructor_id"`
	CourseTitle        string             `json:"course_title"`
	CourseDescription  *string            `json:"course_description,omitempty"`
	CourseJoinCode     string             `json:"course_join_code,omitempty"`
	CourseInviteToken  *uuid.UUID         `json:"course_invite_token,omitempty"`
	CourseStatus       model.CourseStatus `json:"course_status"`
	CourseCategory     *string            `json:"course_category,omitempty"`
	CourseColor        *string            `json:"course_color,omitempty"`
	CourseCoverURL     *string            `json:"course_cover_url,omitempty"`
	CourseCreatedAt    time.Time          `json:"course_created_at"`
}

// FromModel: forInstructor=false menyembunyikan join code & invite token
// dari siswa.
func FromModel(m *model.CourseModel, forInstructor bool) CourseResponse {
	resp := CourseResponse{
		CourseID:           m.CourseID,
		CourseInstructorID: m.CourseInstructorID,
		CourseTitle:        m.CourseTitle,
		CourseDescription:  m.CourseDescription,
		CourseStatus:       m.CourseStatus,
		CourseCategory:     m.CourseCategory,
		CourseColor:        m.CourseColor,
		CourseCoverURL:     m.CourseCoverURL,
		CourseCreatedAt:    m.CourseCreatedAt,
	}
	if forInstructor {
		resp.CourseJoinCode = m.CourseJoinCode
		tok := m.CourseInviteToken
		resp.CourseInviteToken = &tok
	}
	return resp
}

// DashboardResponse: agregasi ringan untuk halaman instruktur.
type DashboardResponse struct {
	CourseID         uuid.UUID `json:"course_id"`
	StudentCount     int64     `json:"student_count"`
	ChapterCount     int64     `json:"chapter_count"`
	AssignmentCount  int64     `json:"assignment_count"`
	SubmittedCount   int64     `json:"submitted_count"`
	GradedCount      int64     `json:"graded_count"`
	AverageGrade     *float64  `json:"average_grade,omitempty"`
}
