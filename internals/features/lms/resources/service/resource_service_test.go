package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	attservice "kelasku_backend/internals/features/lms/attachments/service"
	model "kelasku_backend/internals/features/lms/resources/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE resources (
			resource_id TEXT PRIMARY KEY,
			resource_chapter_id TEXT NOT NULL,
			resource_course_id TEXT NOT NULL,
			resource_type TEXT NOT NULL,
			resource_title TEXT NOT NULL,
			resource_position INTEGER NOT NULL DEFAULT 1,
			resource_created_at DATETIME,
			resource_updated_at DATETIME,
			resource_deleted_at DATETIME
		)`,
		`CREATE TABLE rich_text_resources (
			rich_text_resource_id TEXT PRIMARY KEY,
			rich_text_resource_resource_id TEXT NOT NULL UNIQUE,
			rich_text_resource_body TEXT NOT NULL,
			rich_text_resource_created_at DATETIME,
			rich_text_resource_updated_at DATETIME
		)`,
		`CREATE TABLE external_resources (
			external_resource_id TEXT PRIMARY KEY,
			external_resource_resource_id TEXT NOT NULL UNIQUE,
			external_resource_url TEXT NOT NULL,
			external_resource_meta TEXT,
			external_resource_created_at DATETIME,
			external_resource_updated_at DATETIME
		)`,
		`CREATE TABLE attachment_resources (
			attachment_resource_id TEXT PRIMARY KEY,
			attachment_resource_resource_id TEXT NOT NULL UNIQUE,
			attachment_resource_caption TEXT,
			attachment_resource_created_at DATETIME,
			attachment_resource_updated_at DATETIME
		)`,
		`CREATE TABLE resource_quiz_questions (
			resource_quiz_question_id TEXT PRIMARY KEY,
			resource_quiz_question_resource_id TEXT NOT NULL,
			resource_quiz_question_text TEXT NOT NULL,
			resource_quiz_question_position INTEGER NOT NULL DEFAULT 1,
			resource_quiz_question_created_at DATETIME,
			resource_quiz_question_updated_at DATETIME
		)`,
		`CREATE TABLE resource_quiz_options (
			resource_quiz_option_id TEXT PRIMARY KEY,
			resource_quiz_option_question_id TEXT NOT NULL,
			resource_quiz_option_text TEXT NOT NULL,
			resource_quiz_option_is_correct BOOLEAN NOT NULL DEFAULT 0,
			resource_quiz_option_position INTEGER NOT NULL DEFAULT 1,
			resource_quiz_option_created_at DATETIME
		)`,
		`CREATE TABLE attachments (
			attachment_id TEXT PRIMARY KEY,
			attachment_course_id TEXT NOT NULL,
			attachment_owner_kind TEXT NOT NULL,
			attachment_owner_id TEXT NOT NULL,
			attachment_file_name TEXT NOT NULL,
			attachment_file_url TEXT NOT NULL,
			attachment_object_key TEXT NOT NULL,
			attachment_mime TEXT,
			attachment_size_bytes INTEGER NOT NULL DEFAULT 0,
			attachment_ext TEXT,
			attachment_collection TEXT,
			attachment_is_private BOOLEAN NOT NULL DEFAULT 0,
			attachment_created_at DATETIME,
			attachment_updated_at DATETIME,
			attachment_deleted_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestService(db *gorm.DB) *ResourceService {
	return NewResourceService(db, attservice.NewAttachmentService(nil))
}

func TestCreateRichTextResource(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(db)
	chapterID, courseID := uuid.New(), uuid.New()

	res, err := svc.Create(context.Background(), CreateResourceInput{
		ChapterID:    chapterID,
		CourseID:     courseID,
		Type:         model.ResourceTypeRichText,
		Title:        "Pengantar",
		RichTextBody: "<p>materi</p>",
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.ResourcePosition)

	var child model.RichTextResourceModel
	require.NoError(t, db.First(&child, "rich_text_resource_resource_id = ?", res.ResourceID).Error)
	require.Equal(t, "<p>materi</p>", child.RichTextResourceBody)

	// resource kedua di chapter yang sama mengekor
	res2, err := svc.Create(context.Background(), CreateResourceInput{
		ChapterID:    chapterID,
		CourseID:     courseID,
		Type:         model.ResourceTypeRichText,
		Title:        "Lanjutan",
		RichTextBody: "isi",
	})
	require.NoError(t, err)
	require.Equal(t, 2, res2.ResourcePosition)
}

func TestCreateQuizResource(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(db)

	res, err := svc.Create(context.Background(), CreateResourceInput{
		ChapterID: uuid.New(),
		CourseID:  uuid.New(),
		Type:      model.ResourceTypeQuiz,
		Title:     "Latihan",
		QuizQuestions: []QuizQuestionInput{
			{Text: "1+1?", Options: []QuizOptionInput{
				{Text: "2", IsCorrect: true},
				{Text: "3"},
			}},
		},
	})
	require.NoError(t, err)

	var questions []model.ResourceQuizQuestionModel
	require.NoError(t, db.Where("resource_quiz_question_resource_id = ?", res.ResourceID).Find(&questions).Error)
	require.Len(t, questions, 1)

	var options []model.ResourceQuizOptionModel
	require.NoError(t, db.Where("resource_quiz_option_question_id = ?", questions[0].ResourceQuizQuestionID).
		Order("resource_quiz_option_position").Find(&options).Error)
	require.Len(t, options, 2)
	require.True(t, options[0].ResourceQuizOptionIsCorrect)
}

func TestCreateRejectsMissingChildPayload(t *testing.T) {
	svc := newTestService(openTestDB(t))

	cases := []CreateResourceInput{
		{Type: model.ResourceTypeRichText, Title: "x"},
		{Type: model.ResourceTypeExternal, Title: "x"},
		{Type: model.ResourceTypeQuiz, Title: "x"},
		{Type: model.ResourceTypeQuiz, Title: "x", QuizQuestions: []QuizQuestionInput{
			{Text: "soal", Options: []QuizOptionInput{{Text: "satu saja"}}},
		}},
		{Type: model.ResourceTypeAttachment, Title: "x"},
	}
	for _, in := range cases {
		in.ChapterID, in.CourseID = uuid.New(), uuid.New()
		_, err := svc.Create(context.Background(), in)
		require.ErrorIs(t, err, ErrMissingChildPayload)
	}

	_, err := svc.Create(context.Background(), CreateResourceInput{
		ChapterID: uuid.New(), CourseID: uuid.New(),
		Type: model.ResourceType("video"), Title: "x",
	})
	require.ErrorIs(t, err, ErrInvalidResourceType)
}

// Kegagalan insert child harus me-rollback base row: resource tanpa child
// bukan state yang valid.
func TestCreateRollsBackBaseRowOnChildFailure(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(db)

	require.NoError(t, db.Exec(`DROP TABLE rich_text_resources`).Error)

	_, err := svc.Create(context.Background(), CreateResourceInput{
		ChapterID:    uuid.New(),
		CourseID:     uuid.New(),
		Type:         model.ResourceTypeRichText,
		Title:        "Gagal",
		RichTextBody: "isi",
	})
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&model.ResourceModel{}).Count(&n).Error)
	require.Equal(t, int64(0), n)
}

func TestDeleteRemovesChildRows(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(db)

	res, err := svc.Create(context.Background(), CreateResourceInput{
		ChapterID: uuid.New(),
		CourseID:  uuid.New(),
		Type:      model.ResourceTypeQuiz,
		Title:     "Latihan",
		QuizQuestions: []QuizQuestionInput{
			{Text: "soal", Options: []QuizOptionInput{
				{Text: "a", IsCorrect: true}, {Text: "b"},
			}},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), res))

	var nQ, nO, nR int64
	require.NoError(t, db.Model(&model.ResourceQuizQuestionModel{}).Count(&nQ).Error)
	require.NoError(t, db.Model(&model.ResourceQuizOptionModel{}).Count(&nO).Error)
	require.NoError(t, db.Model(&model.ResourceModel{}).Count(&nR).Error)
	require.Zero(t, nQ)
	require.Zero(t, nO)
	require.Zero(t, nR)
}

func TestReorderRewritesPositions(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(db)
	chapterID, courseID := uuid.New(), uuid.New()

	ids := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		res, err := svc.Create(context.Background(), CreateResourceInput{
			ChapterID:    chapterID,
			CourseID:     courseID,
			Type:         model.ResourceTypeRichText,
			Title:        fmt.Sprintf("Materi %d", i+1),
			RichTextBody: "isi",
		})
		require.NoError(t, err)
		ids = append(ids, res.ResourceID)
	}

	// balik urutan
	require.NoError(t, svc.Reorder(context.Background(), chapterID, []uuid.UUID{ids[2], ids[1], ids[0]}))

	var rows []model.ResourceModel
	require.NoError(t, db.Where("resource_chapter_id = ?", chapterID).
		Order("resource_position").Find(&rows).Error)
	require.Equal(t, ids[2], rows[0].ResourceID)
	require.Equal(t, ids[0], rows[2].ResourceID)

	// id milik chapter lain ditolak
	err := svc.Reorder(context.Background(), chapterID, []uuid.UUID{ids[0], uuid.New()})
	require.Error(t, err)
}
