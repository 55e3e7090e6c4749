package routes

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	asgcontroller "kelasku_backend/internals/features/lms/assignments/controller"
	attcontroller "kelasku_backend/internals/features/lms/attachments/controller"
	attservice "kelasku_backend/internals/features/lms/attachments/service"
	chcontroller "kelasku_backend/internals/features/lms/chapters/controller"
	coursecontroller "kelasku_backend/internals/features/lms/courses/controller"
	disccontroller "kelasku_backend/internals/features/lms/discussions/controller"
	rescontroller "kelasku_backend/internals/features/lms/resources/controller"
	resservice "kelasku_backend/internals/features/lms/resources/service"
	subcontroller "kelasku_backend/internals/features/lms/submissions/controller"
	subservice "kelasku_backend/internals/features/lms/submissions/service"
	osshelper "kelasku_backend/internals/helpers/oss"
	"kelasku_backend/internals/route/details"
)

// SetupRoutes merakit dependency (blob, service, controller) lalu mount
// dua surface: /api/u (siswa & umum) dan /api/i (instruktur).
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	v := validator.New()

	var blob osshelper.BlobService
	if b, err := osshelper.NewOSSBlobServiceFromEnv(os.Getenv("OSS_PREFIX")); err != nil {
		log.Printf("⚠️  OSS tidak dikonfigurasi, fitur upload nonaktif: %v", err)
	} else {
		blob = b
	}

	attSvc := attservice.NewAttachmentService(blob)
	resSvc := resservice.NewResourceService(db, attSvc)
	subSvc := subservice.NewSubmissionService(db, attSvc)

	deps := details.Deps{
		Courses:       coursecontroller.NewCourseController(db, v, blob),
		Chapters:      chcontroller.NewChapterController(db, v),
		Resources:     rescontroller.NewResourceController(db, v, resSvc),
		Assignments:   asgcontroller.NewAssignmentController(db, v),
		Submissions:   subcontroller.NewSubmissionController(db, v, subSvc),
		Announcements: disccontroller.NewAnnouncementController(db, v, attSvc),
		Threads:       disccontroller.NewThreadController(db, v, attSvc),
		Comments:      disccontroller.NewCommentController(db, v),
		Attachments:   attcontroller.NewAttachmentController(db, v, attSvc),
	}

	details.LmsUserRoutes(app, deps)
	details.LmsInstructorRoutes(app, deps)
}
