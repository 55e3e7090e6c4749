package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	attmodel "kelasku_backend/internals/features/lms/attachments/model"
	attservice "kelasku_backend/internals/features/lms/attachments/service"
	model "kelasku_backend/internals/features/lms/resources/model"
)

var (
	ErrInvalidResourceType = errors.New("resource_type tidak dikenal")
	ErrMissingChildPayload = errors.New("payload child tidak lengkap untuk resource_type ini")
)

type ResourceService struct {
	DB          *gorm.DB
	Attachments *attservice.AttachmentService
}

func NewResourceService(db *gorm.DB, att *attservice.AttachmentService) *ResourceService {
	return &ResourceService{DB: db, Attachments: att}
}

type QuizQuestionInput struct {
	Text    string
	Options []QuizOptionInput
}

type QuizOptionInput struct {
	Text      string
	IsCorrect bool
}

type CreateResourceInput struct {
	ChapterID uuid.UUID
	CourseID  uuid.UUID
	Type      model.ResourceType
	Title     string

	// tepat satu kelompok di bawah ini terisi, sesuai Type
	RichTextBody  string
	ExternalURL   string
	ExternalMeta  map[string]any
	QuizQuestions []QuizQuestionInput
	Files         []*multipart.FileHeader
	Caption       *string
}

// Create: satu entry point untuk empat varian resource.
// Base row + child row + lampiran dibuat dalam SATU transaksi; kegagalan
// di titik mana pun me-rollback base row juga — resource tanpa child bukan
// state terminal yang valid. Upload blob terjadi di dalam tx setelah
// validasi; bila tx gagal sesudahnya, blob dibersihkan.
func (s *ResourceService) Create(ctx context.Context, in CreateResourceInput) (*model.ResourceModel, error) {
	if !in.Type.Valid() {
		return nil, ErrInvalidResourceType
	}
	if err := s.validateChildPayload(in); err != nil {
		return nil, err
	}

	var (
		res          model.ResourceModel
		uploadedKeys []string
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// position = max(existing di chapter) + 1
		var maxPos int
		if err := tx.Model(&model.ResourceModel{}).
			Where("resource_chapter_id = ?", in.ChapterID).
			Select("COALESCE(MAX(resource_position), 0)").
			Scan(&maxPos).Error; err != nil {
			return err
		}

		res = model.ResourceModel{
			ResourceChapterID: in.ChapterID,
			ResourceCourseID:  in.CourseID,
			ResourceType:      in.Type,
			ResourceTitle:     in.Title,
			ResourcePosition:  maxPos + 1,
		}
		if err := tx.Create(&res).Error; err != nil {
			return err
		}

		keys, err := s.createChild(ctx, tx, &res, in)
		uploadedKeys = keys
		return err
	})
	if err != nil {
		if len(uploadedKeys) > 0 {
			_ = s.Attachments.CleanupKeys(ctx, uploadedKeys)
		}
		return nil, err
	}
	return &res, nil
}

func (s *ResourceService) validateChildPayload(in CreateResourceInput) error {
	switch in.Type {
	case model.ResourceTypeRichText:
		if in.RichTextBody == "" {
			return ErrMissingChildPayload
		}
	case model.ResourceTypeExternal:
		if in.ExternalURL == "" {
			return ErrMissingChildPayload
		}
	case model.ResourceTypeQuiz:
		if len(in.QuizQuestions) == 0 {
			return ErrMissingChildPayload
		}
		for _, q := range in.QuizQuestions {
			if q.Text == "" || len(q.Options) < 2 {
				return ErrMissingChildPayload
			}
		}
	case model.ResourceTypeAttachment:
		if len(in.Files) == 0 {
			return ErrMissingChildPayload
		}
	}
	return nil
}

// createChild: dispatch tagged-union → tepat satu child row.
func (s *ResourceService) createChild(ctx context.Context, tx *gorm.DB, res *model.ResourceModel, in CreateResourceInput) ([]string, error) {
	switch in.Type {
	case model.ResourceTypeRichText:
		child := model.RichTextResourceModel{
			RichTextResourceResourceID: res.ResourceID,
			RichTextResourceBody:       in.RichTextBody,
		}
		return nil, tx.Create(&child).Error

	case model.ResourceTypeExternal:
		child := model.ExternalResourceModel{
			ExternalResourceResourceID: res.ResourceID,
			ExternalResourceURL:        in.ExternalURL,
		}
		if in.ExternalMeta != nil {
			child.ExternalResourceMeta = datatypes.JSONMap(in.ExternalMeta)
		}
		return nil, tx.Create(&child).Error

	case model.ResourceTypeQuiz:
		for i, q := range in.QuizQuestions {
			question := model.ResourceQuizQuestionModel{
				ResourceQuizQuestionResourceID: res.ResourceID,
				ResourceQuizQuestionText:       q.Text,
				ResourceQuizQuestionPosition:   i + 1,
			}
			if err := tx.Create(&question).Error; err != nil {
				return nil, err
			}
			for j, o := range q.Options {
				opt := model.ResourceQuizOptionModel{
					ResourceQuizOptionQuestionID: question.ResourceQuizQuestionID,
					ResourceQuizOptionText:       o.Text,
					ResourceQuizOptionIsCorrect:  o.IsCorrect,
					ResourceQuizOptionPosition:   j + 1,
				}
				if err := tx.Create(&opt).Error; err != nil {
					return nil, err
				}
			}
		}
		return nil, nil

	case model.ResourceTypeAttachment:
		child := model.AttachmentResourceModel{
			AttachmentResourceResourceID: res.ResourceID,
			AttachmentResourceCaption:    in.Caption,
		}
		if err := tx.Create(&child).Error; err != nil {
			return nil, err
		}
		_, keys, err := s.Attachments.UploadAndRecord(
			ctx, tx,
			in.CourseID,
			attmodel.AttachmentOwnerResource, res.ResourceID,
			"resources", in.Files, false,
		)
		return keys, err
	}
	return nil, ErrInvalidResourceType
}

// Delete: base + child + metadata lampiran dalam satu tx; blob OSS dihapus
// best-effort setelah commit (row dulu, blob belakangan).
func (s *ResourceService) Delete(ctx context.Context, res *model.ResourceModel) error {
	var keys []string

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch res.ResourceType {
		case model.ResourceTypeRichText:
			if err := tx.Where("rich_text_resource_resource_id = ?", res.ResourceID).
				Delete(&model.RichTextResourceModel{}).Error; err != nil {
				return err
			}
		case model.ResourceTypeExternal:
			if err := tx.Where("external_resource_resource_id = ?", res.ResourceID).
				Delete(&model.ExternalResourceModel{}).Error; err != nil {
				return err
			}
		case model.ResourceTypeQuiz:
			var qIDs []uuid.UUID
			if err := tx.Model(&model.ResourceQuizQuestionModel{}).
				Where("resource_quiz_question_resource_id = ?", res.ResourceID).
				Pluck("resource_quiz_question_id", &qIDs).Error; err != nil {
				return err
			}
			if len(qIDs) > 0 {
				if err := tx.Where("resource_quiz_option_question_id IN ?", qIDs).
					Delete(&model.ResourceQuizOptionModel{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("resource_quiz_question_resource_id = ?", res.ResourceID).
				Delete(&model.ResourceQuizQuestionModel{}).Error; err != nil {
				return err
			}
		case model.ResourceTypeAttachment:
			if err := tx.Where("attachment_resource_resource_id = ?", res.ResourceID).
				Delete(&model.AttachmentResourceModel{}).Error; err != nil {
				return err
			}
		}

		k, err := s.Attachments.DeleteByOwner(ctx, tx, attmodel.AttachmentOwnerResource, res.ResourceID)
		if err != nil {
			return err
		}
		keys = k

		return tx.Delete(res).Error
	})
	if err != nil {
		return err
	}

	_ = s.Attachments.CleanupKeys(ctx, keys)
	return nil
}

// Reorder menulis ulang position mengikuti urutan id yang dikirim (1-based).
// Semua id harus milik chapter tsb; transaksional supaya urutan konsisten.
func (s *ResourceService) Reorder(ctx context.Context, chapterID uuid.UUID, orderedIDs []uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.ResourceModel{}).
			Where("resource_chapter_id = ? AND resource_id IN ?", chapterID, orderedIDs).
			Count(&n).Error; err != nil {
			return err
		}
		if n != int64(len(orderedIDs)) {
			return errors.New("ada resource yang bukan milik chapter ini")
		}
		for i, id := range orderedIDs {
			if err := tx.Model(&model.ResourceModel{}).
				Where("resource_id = ?", id).
				Update("resource_position", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
