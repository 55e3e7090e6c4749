package dto

import (
	"time"

	"github.com/google/uuid"

	model "kelasku_backend/internals/features/lms/chapters/model"
	helper "kelasku_backend/internals/helpers"
)

type CreateChapterRequest struct {
	ChapterCourseID    uuid.UUID `json:"chapter_course_id" validate:"required,uuid4"`
	ChapterTitle       string    `json:"chapter_title" validate:"required,min=3,max=180"`
	ChapterDescription *string   `json:"chapter_description,omitempty"`
}

func (r CreateChapterRequest) ToModel(position int) model.ChapterModel {
	return model.ChapterModel{
		ChapterCourseID:    r.ChapterCourseID,
		ChapterTitle:       r.ChapterTitle,
		ChapterDescription: r.ChapterDescription,
		ChapterPosition:    position,
	}
}

type PatchChapterRequest struct {
	ChapterTitle       *helper.PatchField[string] `json:"chapter_title,omitempty"`
	ChapterDescription *helper.PatchField[string] `json:"chapter_description,omitempty"`
}

func (p *PatchChapterRequest) ToUpdates() map[string]any {
	upd := map[string]any{}
	helper.PutUpdate(upd, "chapter_title", p.ChapterTitle)
	helper.PutUpdate(upd, "chapter_description", p.ChapterDescription)
	return upd
}

// ReorderChaptersRequest: daftar id chapter dalam urutan baru (1-based).
type ReorderChaptersRequest struct {
	ChapterIDs []uuid.UUID `json:"chapter_ids" validate:"required,min=1,dive,uuid4"`
}

type ChapterResponse struct {
	ChapterID          uuid.UUID `json:"chapter_id"`
	ChapterCourseID    uuid.UUID `json:"chapter_course_id"`
	ChapterTitle       string    `json:"chapter_title"`
	ChapterDescription *string   `json:"chapter_description,omitempty"`
	ChapterPosition    int       `json:"chapter_position"`
	ChapterCreatedAt   time.Time `json:"chapter_created_at"`
}

func FromModel(m *model.ChapterModel) ChapterResponse {
	return ChapterResponse{
		ChapterID:          m.ChapterID,
		ChapterCourseID:    m.ChapterCourseID,
		ChapterTitle:       m.ChapterTitle,
		ChapterDescription: m.ChapterDescription,
		ChapterPosition:    m.ChapterPosition,
		ChapterCreatedAt:   m.ChapterCreatedAt,
	}
}
