package details

import (
	"os"

	"github.com/gofiber/fiber/v2"

	middleware "kelasku_backend/internals/middlewares/auth"
)

// LmsInstructorRoutes: surface tulis instruktur (/api/i). Ownership course
// dicek per-operasi (EnsureManageCourse), bukan role global.
func LmsInstructorRoutes(app *fiber.App, d Deps) {
	i := app.Group("/api/i", middleware.AuthJWT(middleware.AuthJWTOpts{
		Secret:              os.Getenv("JWT_SECRET"),
		AllowCookieFallback: true,
	}))

	// courses
	i.Post("/courses", d.Courses.Create)
	i.Patch("/courses/:id", d.Courses.Patch)
	i.Put("/courses/:id/status", d.Courses.UpdateStatus)
	i.Put("/courses/:id/cover", d.Courses.UploadCover)
	i.Post("/courses/:id/invite-token", d.Courses.RegenerateInviteToken)
	i.Get("/courses/:id/enrollments", d.Courses.ListEnrollments)
	i.Delete("/courses/:id/enrollments/:user_id", d.Courses.Unenroll)
	i.Get("/courses/:id/dashboard", d.Courses.Dashboard)
	i.Delete("/courses/:id", d.Courses.Delete)

	// chapters
	i.Post("/chapters", d.Chapters.Create)
	i.Patch("/chapters/:id", d.Chapters.Patch)
	i.Delete("/chapters/:id", d.Chapters.Delete)
	i.Put("/courses/:course_id/chapters/reorder", d.Chapters.Reorder)

	// resources
	i.Post("/resources", d.Resources.Create)
	i.Patch("/resources/:id", d.Resources.Patch)
	i.Delete("/resources/:id", d.Resources.Delete)
	i.Put("/chapters/:chapter_id/resources/reorder", d.Resources.Reorder)

	// assignments
	i.Post("/assignments", d.Assignments.Create)
	i.Patch("/assignments/:id", d.Assignments.Patch)
	i.Put("/assignments/:id/publish", d.Assignments.Publish)
	i.Delete("/assignments/:id", d.Assignments.Delete)

	// grading
	i.Get("/assignments/:assignment_id/submissions", d.Submissions.ListByAssignment)
	i.Put("/submissions/:id/grade", d.Submissions.Grade)

	// pengumuman
	i.Post("/announcements", d.Announcements.Create)
	i.Patch("/announcements/:id", d.Announcements.Patch)
	i.Delete("/announcements/:id", d.Announcements.Delete)

	// lampiran
	i.Delete("/attachments/:id", d.Attachments.Delete)
}
