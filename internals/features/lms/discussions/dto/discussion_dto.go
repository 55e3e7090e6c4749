package dto

import (
	"time"

	"github.com/google/uuid"

	model "kelasku_backend/internals/features/lms/discussions/model"
	helper "kelasku_backend/internals/helpers"
)

/* =========================================================
   ANNOUNCEMENT
========================================================= */

type CreateAnnouncementRequest struct {
	AnnouncementCourseID uuid.UUID `json:"announcement_course_id" validate:"required,uuid4"`
	AnnouncementTitle    string    `json:"announcement_title" validate:"required,min=3,max=180"`
	AnnouncementBody     string    `json:"announcement_body" validate:"required"`
}

func (r CreateAnnouncementRequest) ToModel(authorID uuid.UUID) model.AnnouncementModel {
	return model.AnnouncementModel{
		AnnouncementCourseID: r.AnnouncementCourseID,
		AnnouncementAuthorID: authorID,
		AnnouncementTitle:    r.AnnouncementTitle,
		AnnouncementBody:     r.AnnouncementBody,
	}
}

type PatchAnnouncementRequest struct {
	AnnouncementTitle *helper.PatchField[string] `json:"announcement_title,omitempty"`
	AnnouncementBody  *helper.PatchField[string] `json:"announcement_body,omitempty"`
}

func (p *PatchAnnouncementRequest) ToUpdates() map[string]any {
	upd := map[string]any{}
	helper.PutUpdate(upd, "announcement_title", p.AnnouncementTitle)
	helper.PutUpdate(upd, "announcement_body", p.AnnouncementBody)
	return upd
}

type AnnouncementResponse struct {
	AnnouncementID        uuid.UUID `json:"announcement_id"`
	AnnouncementCourseID  uuid.UUID `json:"announcement_course_id"`
	AnnouncementAuthorID  uuid.UUID `json:"announcement_author_id"`
	AnnouncementTitle     string    `json:"announcement_title"`
	AnnouncementBody      string    `json:"announcement_body"`
	AnnouncementCreatedAt time.Time `json:"announcement_created_at"`
}

func AnnouncementFromModel(m *model.AnnouncementModel) AnnouncementResponse {
	return AnnouncementResponse{
		AnnouncementID:        m.AnnouncementID,
		AnnouncementCourseID:  m.AnnouncementCourseID,
		AnnouncementAuthorID:  m.AnnouncementAuthorID,
		AnnouncementTitle:     m.AnnouncementTitle,
		AnnouncementBody:      m.AnnouncementBody,
		AnnouncementCreatedAt: m.AnnouncementCreatedAt,
	}
}

/* =========================================================
   THREAD
========================================================= */

type CreateThreadRequest struct {
	CourseThreadCourseID uuid.UUID `json:"course_thread_course_id" validate:"required,uuid4"`
	CourseThreadTitle    string    `json:"course_thread_title" validate:"required,min=3,max=180"`
	CourseThreadBody     string    `json:"course_thread_body" validate:"required"`
}

func (r CreateThreadRequest) ToModel(authorID uuid.UUID) model.CourseThreadModel {
	return model.CourseThreadModel{
		CourseThreadCourseID: r.CourseThreadCourseID,
		CourseThreadAuthorID: authorID,
		CourseThreadTitle:    r.CourseThreadTitle,
		CourseThreadBody:     r.CourseThreadBody,
	}
}

type ThreadResponse struct {
	CourseThreadID        uuid.UUID `json:"course_thread_id"`
	CourseThreadCourseID  uuid.UUID `json:"course_thread_course_id"`
	CourseThreadAuthorID  uuid.UUID `json:"course_thread_author_id"`
	CourseThreadTitle     string    `json:"course_thread_title"`
	CourseThreadBody      string    `json:"course_thread_body"`
	CourseThreadCreatedAt time.Time `json:"course_thread_created_at"`
	CommentCount          int64     `json:"comment_count"`
}

func ThreadFromModel(m *model.CourseThreadModel, commentCount int64) ThreadResponse {
	return ThreadResponse{
		CourseThreadID:        m.CourseThreadID,
		CourseThreadCourseID:  m.CourseThreadCourseID,
		CourseThreadAuthorID:  m.CourseThreadAuthorID,
		CourseThreadTitle:     m.CourseThreadTitle,
		CourseThreadBody:      m.CourseThreadBody,
		CourseThreadCreatedAt: m.CourseThreadCreatedAt,
		CommentCount:          commentCount,
	}
}

/* =========================================================
   COMMENT
========================================================= */

type CreateCommentRequest struct {
	ThreadCommentParentID *uuid.UUID `json:"thread_comment_parent_id,omitempty" validate:"omitempty,uuid4"`
	ThreadCommentBody     string     `json:"thread_comment_body" validate:"required"`
}

func (r CreateCommentRequest) ToModel(threadID, authorID uuid.UUID) model.ThreadCommentModel {
	return model.ThreadCommentModel{
		ThreadCommentThreadID: threadID,
		ThreadCommentAuthorID: authorID,
		ThreadCommentParentID: r.ThreadCommentParentID,
		ThreadCommentBody:     r.ThreadCommentBody,
	}
}

type CommentResponse struct {
	ThreadCommentID        uuid.UUID  `json:"thread_comment_id"`
	ThreadCommentThreadID  uuid.UUID  `json:"thread_comment_thread_id"`
	ThreadCommentAuthorID  uuid.UUID  `json:"thread_comment_author_id"`
	ThreadCommentParentID  *uuid.UUID `json:"thread_comment_parent_id,omitempty"`
	ThreadCommentBody      string     `json:"thread_comment_body"`
	ThreadCommentCreatedAt time.Time  `json:"thread_comment_created_at"`
}

func CommentFromModel(m *model.ThreadCommentModel) CommentResponse {
	return CommentResponse{
		ThreadCommentID:        m.ThreadCommentID,
		ThreadCommentThreadID:  m.ThreadCommentThreadID,
		ThreadCommentAuthorID:  m.ThreadCommentAuthorID,
		ThreadCommentParentID:  m.ThreadCommentParentID,
		ThreadCommentBody:      m.ThreadCommentBody,
		ThreadCommentCreatedAt: m.ThreadCommentCreatedAt,
	}
}
