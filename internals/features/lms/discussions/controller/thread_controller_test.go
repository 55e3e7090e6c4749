package controller

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	attservice "kelasku_backend/internals/features/lms/attachments/service"
	model "kelasku_backend/internals/features/lms/discussions/model"
	helper "kelasku_backend/internals/helpers"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE courses (
			course_id TEXT PRIMARY KEY,
			course_instructor_id TEXT NOT NULL,
			course_deleted_at DATETIME
		)`,
		`CREATE TABLE course_enrollments (
			course_enrollment_id TEXT PRIMARY KEY,
			course_enrollment_course_id TEXT NOT NULL,
			course_enrollment_user_id TEXT NOT NULL
		)`,
		`CREATE TABLE course_threads (
			course_thread_id TEXT PRIMARY KEY,
			course_thread_course_id TEXT NOT NULL,
			course_thread_author_id TEXT NOT NULL,
			course_thread_title TEXT NOT NULL,
			course_thread_body TEXT NOT NULL,
			course_thread_created_at DATETIME,
			course_thread_updated_at DATETIME,
			course_thread_deleted_at DATETIME
		)`,
		`CREATE TABLE thread_comments (
			thread_comment_id TEXT PRIMARY KEY,
			thread_comment_thread_id TEXT NOT NULL,
			thread_comment_author_id TEXT NOT NULL,
			thread_comment_parent_id TEXT,
			thread_comment_body TEXT NOT NULL,
			thread_comment_created_at DATETIME,
			thread_comment_updated_at DATETIME,
			thread_comment_deleted_at DATETIME
		)`,
		`CREATE TABLE attachments (
			attachment_id TEXT PRIMARY KEY,
			attachment_course_id TEXT,
			attachment_owner_kind TEXT,
			attachment_owner_id TEXT,
			attachment_file_name TEXT,
			attachment_file_url TEXT,
			attachment_object_key TEXT,
			attachment_mime TEXT,
			attachment_size_bytes INTEGER DEFAULT 0,
			attachment_ext TEXT,
			attachment_collection TEXT,
			attachment_is_private BOOLEAN DEFAULT 0,
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

// newDiscussionApp: app minimal dengan locals user_id terisi, seperti yang
// dilakukan middleware auth setelah verifikasi JWT.
func newDiscussionApp(db *gorm.DB, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, userID)
		return c.Next()
	})

	att := attservice.NewAttachmentService(nil)
	threads := NewThreadController(db, validator.New(), att)
	comments := NewCommentController(db, validator.New())
	app.Delete("/threads/:id", threads.Delete)
	app.Delete("/comments/:id", comments.Delete)
	return app
}

func seedCourse(t *testing.T, db *gorm.DB, instructorID uuid.UUID) uuid.UUID {
	t.Helper()
	courseID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO courses (course_id, course_instructor_id) VALUES (?, ?)`,
		courseID, instructorID,
	).Error)
	return courseID
}

func seedThread(t *testing.T, db *gorm.DB, courseID, authorID uuid.UUID) *model.CourseThreadModel {
	t.Helper()
	thread := model.CourseThreadModel{
		CourseThreadCourseID: courseID,
		CourseThreadAuthorID: authorID,
		CourseThreadTitle:    "Tanya materi",
		CourseThreadBody:     "isi",
	}
	require.NoError(t, db.Create(&thread).Error)
	return &thread
}

func threadCount(t *testing.T, db *gorm.DB, threadID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.CourseThreadModel{}).
		Where("course_thread_id = ?", threadID).Count(&n).Error)
	return n
}

// Penulis tetap boleh menghapus thread-nya sendiri walau sudah keluar
// dari course (tidak ada row enrollment sama sekali di sini).
func TestDeleteThreadByUnenrolledAuthor(t *testing.T) {
	db := openTestDB(t)
	authorID := uuid.New()
	courseID := seedCourse(t, db, uuid.New())
	thread := seedThread(t, db, courseID, authorID)

	app := newDiscussionApp(db, authorID)
	resp, err := app.Test(httptest.NewRequest(
		fiber.MethodDelete, "/threads/"+thread.CourseThreadID.String(), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, int64(0), threadCount(t, db, thread.CourseThreadID))
}

func TestDeleteThreadByInstructor(t *testing.T) {
	db := openTestDB(t)
	instructorID := uuid.New()
	courseID := seedCourse(t, db, instructorID)
	thread := seedThread(t, db, courseID, uuid.New())

	app := newDiscussionApp(db, instructorID)
	resp, err := app.Test(httptest.NewRequest(
		fiber.MethodDelete, "/threads/"+thread.CourseThreadID.String(), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, int64(0), threadCount(t, db, thread.CourseThreadID))
}

func TestDeleteThreadRejectsNonAuthorStudent(t *testing.T) {
	db := openTestDB(t)
	courseID := seedCourse(t, db, uuid.New())
	thread := seedThread(t, db, courseID, uuid.New())

	studentID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO course_enrollments (course_enrollment_id, course_enrollment_course_id, course_enrollment_user_id)
		 VALUES (?, ?, ?)`,
		uuid.New(), courseID, studentID,
	).Error)

	app := newDiscussionApp(db, studentID)
	resp, err := app.Test(httptest.NewRequest(
		fiber.MethodDelete, "/threads/"+thread.CourseThreadID.String(), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Equal(t, int64(1), threadCount(t, db, thread.CourseThreadID))
}

func TestDeleteCommentByUnenrolledAuthor(t *testing.T) {
	db := openTestDB(t)
	authorID := uuid.New()
	courseID := seedCourse(t, db, uuid.New())
	thread := seedThread(t, db, courseID, uuid.New())

	comment := model.ThreadCommentModel{
		ThreadCommentThreadID: thread.CourseThreadID,
		ThreadCommentAuthorID: authorID,
		ThreadCommentBody:     "komentar saya",
	}
	require.NoError(t, db.Create(&comment).Error)

	app := newDiscussionApp(db, authorID)
	resp, err := app.Test(httptest.NewRequest(
		fiber.MethodDelete, "/comments/"+comment.ThreadCommentID.String(), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var n int64
	require.NoError(t, db.Model(&model.ThreadCommentModel{}).
		Where("thread_comment_id = ?", comment.ThreadCommentID).Count(&n).Error)
	require.Equal(t, int64(0), n)
}

func TestDeleteCommentRejectsNonAuthorStudent(t *testing.T) {
	db := openTestDB(t)
	courseID := seedCourse(t, db, uuid.New())
	thread := seedThread(t, db, courseID, uuid.New())

	comment := model.ThreadCommentModel{
		ThreadCommentThreadID: thread.CourseThreadID,
		ThreadCommentAuthorID: uuid.New(),
		ThreadCommentBody:     "punya orang lain",
	}
	require.NoError(t, db.Create(&comment).Error)

	studentID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO course_enrollments (course_enrollment_id, course_enrollment_course_id, course_enrollment_user_id)
		 VALUES (?, ?, ?)`,
		uuid.New(), courseID, studentID,
	).Error)

	app := newDiscussionApp(db, studentID)
	resp, err := app.Test(httptest.NewRequest(
		fiber.MethodDelete, "/comments/"+comment.ThreadCommentID.String(), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
