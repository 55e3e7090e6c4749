package details

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"kelasku_backend/internals/middlewares"
	middleware "kelasku_backend/internals/middlewares/auth"
)

// LmsUserRoutes: surface siswa & umum (/api/u). Semua route butuh JWT;
// otorisasi per-course dicek di controller lewat authz helper.
func LmsUserRoutes(app *fiber.App, d Deps) {
	u := app.Group("/api/u", middleware.AuthJWT(middleware.AuthJWTOpts{
		Secret:              os.Getenv("JWT_SECRET"),
		AllowCookieFallback: true,
	}))

	// courses
	u.Get("/courses", d.Courses.ListMine)
	u.Get("/courses/:id", d.Courses.GetByID)
	u.Post("/courses/join", d.Courses.Join)
	u.Delete("/courses/:id/enrollments/me", d.Courses.Unenroll)

	// struktur course (read)
	u.Get("/courses/:course_id/chapters", d.Chapters.ListByCourse)
	u.Get("/chapters/:chapter_id/resources", d.Resources.ListByChapter)
	u.Get("/resources/:id", d.Resources.GetByID)

	// assignments & submissions
	u.Get("/courses/:course_id/assignments", d.Assignments.ListByCourse)
	u.Get("/assignments/:id", d.Assignments.GetByID)
	u.Post("/assignments/:assignment_id/submissions",
		middlewares.SubmitRateLimiter(), d.Submissions.Submit)
	u.Get("/assignments/:assignment_id/submissions/me", d.Submissions.GetMine)
	u.Get("/submissions/:id", d.Submissions.GetByID)

	// diskusi
	u.Get("/courses/:course_id/announcements", d.Announcements.ListByCourse)
	u.Get("/courses/:course_id/threads", d.Threads.ListByCourse)
	u.Post("/threads", d.Threads.Create)
	u.Get("/threads/:id", d.Threads.GetByID)
	u.Delete("/threads/:id", d.Threads.Delete)
	u.Post("/threads/:thread_id/comments", d.Comments.Create)
	u.Delete("/comments/:id", d.Comments.Delete)

	// lampiran
	u.Get("/attachments", d.Attachments.ListByOwner)
}
