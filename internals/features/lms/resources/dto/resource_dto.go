package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	model "kelasku_backend/internals/features/lms/resources/model"
	service "kelasku_backend/internals/features/lms/resources/service"
	helper "kelasku_backend/internals/helpers"
)

/*
CreateResourceRequest dibaca dari multipart form (karena bisa bawa file):
- resource_chapter_id, resource_type, resource_title: field biasa
- rich_text_body / external_url / external_meta / caption: sesuai tipe
- quiz_questions: JSON string [{"text":..,"options":[{"text":..,"is_correct":..}]}]
- files: field multipart "attachments"
*/
type CreateResourceRequest struct {
	ResourceChapterID uuid.UUID          `json:"resource_chapter_id" form:"resource_chapter_id" validate:"required,uuid4"`
	ResourceType      model.ResourceType `json:"resource_type" form:"resource_type" validate:"required,oneof=attachment rich_text quiz external"`
	ResourceTitle     string             `json:"resource_title" form:"resource_title" validate:"required,min=3,max=180"`

	RichTextBody string  `json:"rich_text_body" form:"rich_text_body"`
	ExternalURL  string  `json:"external_url" form:"external_url" validate:"omitempty,url"`
	ExternalMeta string  `json:"external_meta" form:"external_meta"` // JSON object opsional
	QuizQuestions string `json:"quiz_questions" form:"quiz_questions"` // JSON array
	Caption      *string `json:"caption" form:"caption"`
}

type quizQuestionJSON struct {
	Text    string `json:"text"`
	Options []struct {
		Text      string `json:"text"`
		IsCorrect bool   `json:"is_correct"`
	} `json:"options"`
}

// ToServiceInput parse payload per-tipe ke input service.
func (r CreateResourceRequest) ToServiceInput(courseID uuid.UUID) (service.CreateResourceInput, error) {
	in := service.CreateResourceInput{
		ChapterID:    r.ResourceChapterID,
		CourseID:     courseID,
		Type:         r.ResourceType,
		Title:        strings.TrimSpace(r.ResourceTitle),
		RichTextBody: r.RichTextBody,
		ExternalURL:  strings.TrimSpace(r.ExternalURL),
		Caption:      r.Caption,
	}

	if r.ResourceType == model.ResourceTypeExternal && strings.TrimSpace(r.ExternalMeta) != "" {
		meta := map[string]any{}
		if err := json.Unmarshal([]byte(r.ExternalMeta), &meta); err != nil {
			return in, err
		}
		in.ExternalMeta = meta
	}

	if r.ResourceType == model.ResourceTypeQuiz {
		var qs []quizQuestionJSON
		if err := json.Unmarshal([]byte(r.QuizQuestions), &qs); err != nil {
			return in, err
		}
		for _, q := range qs {
			qq := service.QuizQuestionInput{Text: strings.TrimSpace(q.Text)}
			for _, o := range q.Options {
				qq.Options = append(qq.Options, service.QuizOptionInput{
					Text:      strings.TrimSpace(o.Text),
					IsCorrect: o.IsCorrect,
				})
			}
			in.QuizQuestions = append(in.QuizQuestions, qq)
		}
	}

	return in, nil
}

type PatchResourceRequest struct {
	ResourceTitle *helper.PatchField[string] `json:"resource_title,omitempty"`
	// child payload (hanya yang sesuai tipe yang dipakai controller)
	RichTextBody *helper.PatchField[string] `json:"rich_text_body,omitempty"`
	ExternalURL  *helper.PatchField[string] `json:"external_url,omitempty"`
}

type ReorderResourcesRequest struct {
	ResourceIDs []uuid.UUID `json:"resource_ids" validate:"required,min=1,dive,uuid4"`
}

type ResourceResponse struct {
	ResourceID        uuid.UUID          `json:"resource_id"`
	ResourceChapterID uuid.UUID          `json:"resource_chapter_id"`
	ResourceCourseID  uuid.UUID          `json:"resource_course_id"`
	ResourceType      model.ResourceType `json:"resource_type"`
	ResourceTitle     string             `json:"resource_title"`
	ResourcePosition  int                `json:"resource_position"`
	ResourceCreatedAt time.Time          `json:"resource_created_at"`

	// child payload, terisi sesuai tipe
	RichTextBody *string        `json:"rich_text_body,omitempty"`
	ExternalURL  *string        `json:"external_url,omitempty"`
	ExternalMeta map[string]any `json:"external_meta,omitempty"`
}

func FromModel(m *model.ResourceModel) ResourceResponse {
	return ResourceResponse{
		ResourceID:        m.ResourceID,
		ResourceChapterID: m.ResourceChapterID,
		ResourceCourseID:  m.ResourceCourseID,
		ResourceType:      m.ResourceType,
		ResourceTitle:     m.ResourceTitle,
		ResourcePosition:  m.ResourcePosition,
		ResourceCreatedAt: m.ResourceCreatedAt,
	}
}
