package details

import (
	asgcontroller "kelasku_backend/internals/features/lms/assignments/controller"
	attcontroller "kelasku_backend/internals/features/lms/attachments/controller"
	chcontroller "kelasku_backend/internals/features/lms/chapters/controller"
	coursecontroller "kelasku_backend/internals/features/lms/courses/controller"
	disccontroller "kelasku_backend/internals/features/lms/discussions/controller"
	rescontroller "kelasku_backend/internals/features/lms/resources/controller"
	subcontroller "kelasku_backend/internals/features/lms/submissions/controller"
)

// Deps: controller yang sudah dirakit SetupRoutes; route file tinggal mount.
type Deps struct {
	Courses       *coursecontroller.CourseController
	Chapters      *chcontroller.ChapterController
	Resources     *rescontroller.ResourceController
	Assignments   *asgcontroller.AssignmentController
	Submissions   *subcontroller.SubmissionController
	Announcements *disccontroller.AnnouncementController
	Threads       *disccontroller.ThreadController
	Comments      *disccontroller.CommentController
	Attachments   *attcontroller.AttachmentController
}
