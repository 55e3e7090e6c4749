package authz

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE courses (
		course_id TEXT PRIMARY KEY,
		course_instructor_id TEXT NOT NULL,
		course_deleted_at DATETIME
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE course_enrollments (
		course_enrollment_id TEXT PRIMARY KEY,
		course_enrollment_course_id TEXT NOT NULL,
		course_enrollment_user_id TEXT NOT NULL
	)`).Error)
	return db
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

func TestCanManageCourse(t *testing.T) {
	db := openTestDB(t)
	instructorID, otherID := uuid.New(), uuid.New()
	courseID := seedCourse(t, db, instructorID)

	ok, err := CanManageCourse(db, instructorID, courseID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = CanManageCourse(db, otherID, courseID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanViewCourse(t *testing.T) {
	db := openTestDB(t)
	instructorID, studentID, strangerID := uuid.New(), uuid.New(), uuid.New()
	courseID := seedCourse(t, db, instructorID)

	require.NoError(t, db.Exec(
		`INSERT INTO course_enrollments (course_enrollment_id, course_enrollment_course_id, course_enrollment_user_id)
		 VALUES (?, ?, ?)`,
		uuid.New(), courseID, studentID,
	).Error)

	// instruktur boleh tanpa enrollment
	ok, err := CanViewCourse(db, instructorID, courseID)
	require.NoError(t, err)
	require.True(t, ok)

	// siswa ter-enroll boleh
	ok, err = CanViewCourse(db, studentID, courseID)
	require.NoError(t, err)
	require.True(t, ok)

	// bukan siapa-siapa → ditolak
	ok, err = CanViewCourse(db, strangerID, courseID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCourseNotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := CanManageCourse(db, uuid.New(), uuid.New())
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestSoftDeletedCourseIsInvisible(t *testing.T) {
	db := openTestDB(t)
	instructorID := uuid.New()
	courseID := seedCourse(t, db, instructorID)

	require.NoError(t, db.Exec(
		`UPDATE courses SET course_deleted_at = CURRENT_TIMESTAMP WHERE course_id = ?`, courseID,
	).Error)

	_, err := CanManageCourse(db, instructorID, courseID)
	require.ErrorIs(t, err, ErrCourseNotFound)
}
