package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncAccountIdempotent(t *testing.T) {
	database := testDB(t)

	first, err := SyncAccount(database, SyncAccountInput{Subject: "sub-1", Email: "a@example.com"}, false)
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, first.Role)

	name := "Ada"
	second, err := SyncAccount(database, SyncAccountInput{Subject: "sub-1", Email: "a@example.com", Name: &name}, true)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Name)
	assert.Equal(t, "Ada", *second.Name)
	// Role is assigned at creation only; the later admin flag is ignored.
	assert.Equal(t, RoleStudent, second.Role)
}

func TestSyncAccountAdminAllowList(t *testing.T) {
	database := testDB(t)

	account, err := SyncAccount(database, SyncAccountInput{Subject: "sub-a", Email: "admin@example.com"}, true)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, account.Role)
}

func TestSyncAccountEmailCollision(t *testing.T) {
	database := testDB(t)

	_, err := SyncAccount(database, SyncAccountInput{Subject: "sub-1", Email: "shared@example.com"}, false)
	require.NoError(t, err)

	// A different subject claiming the same email is a conflict, not an
	// authentication failure.
	_, err = SyncAccount(database, SyncAccountInput{Subject: "sub-2", Email: "shared@example.com"}, false)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", err.(ServiceError).Code)
}

func TestCreateCourseSlugConflict(t *testing.T) {
	database := testDB(t)
	owner := testAccount(t, database, "inst-1", "inst@example.com", RoleInstructor)

	created := testCourse(t, database, owner, "Go Basics")
	assert.Equal(t, "go-basics", created.Slug)

	_, err := CreateCourse(database, owner, CourseCreateInput{
		Title:    "Go Basics",
		Category: "Development",
		Level:    "Beginner",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", err.(ServiceError).Code)
}

func TestChapterAndLessonOrdering(t *testing.T) {
	database := testDB(t)
	owner := testAccount(t, database, "inst-1", "inst@example.com", RoleInstructor)
	course := testCourse(t, database, owner, "Ordering")

	ch1, err := CreateChapter(database, owner, course.ID, "One", nil)
	require.NoError(t, err)
	ch2, err := CreateChapter(database, owner, course.ID, "Two", nil)
	require.NoError(t, err)

	var indexes []int
	require.NoError(t, database.Select(&indexes,
		`SELECT order_index FROM chapters WHERE course_id = $1 ORDER BY order_index`, course.ID))
	assert.Equal(t, []int{0, 1}, indexes)

	require.NoError(t, ReorderChapters(database, owner, course.ID, []string{ch2, ch1}))
	var firstID string
	require.NoError(t, database.Get(&firstID,
		`SELECT id FROM chapters WHERE course_id = $1 AND order_index = 0`, course.ID))
	assert.Equal(t, ch2, firstID)

	err = ReorderChapters(database, owner, course.ID, []string{ch1})
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", err.(ServiceError).Code)
}

func TestOwnershipEnforced(t *testing.T) {
	database := testDB(t)
	owner := testAccount(t, database, "inst-1", "inst@example.com", RoleInstructor)
	other := testAccount(t, database, "inst-2", "other@example.com", RoleInstructor)
	admin := testAccount(t, database, "adm-1", "root@example.com", RoleAdmin)
	course := testCourse(t, database, owner, "Owned")

	_, err := CreateChapter(database, other, course.ID, "Nope", nil)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", err.(ServiceError).Code)

	_, err = CreateChapter(database, admin, course.ID, "Fine", nil)
	assert.NoError(t, err)
}

func TestPublishGate(t *testing.T) {
	database := testDB(t)
	owner := testAccount(t, database, "inst-1", "inst@example.com", RoleInstructor)
	course := testCourse(t, database, owner, "Gated")

	err := UpdateCourseStatus(database, owner, course.ID, CoursePublished)
	require.Error(t, err)
	assert.Equal(t, "PUBLISH_BLOCKED", err.(ServiceError).Code)

	chapter, err := CreateChapter(database, owner, course.ID, "Intro", nil)
	require.NoError(t, err)

	err = UpdateCourseStatus(database, owner, course.ID, CoursePublished)
	require.Error(t, err)
	assert.Equal(t, "PUBLISH_BLOCKED", err.(ServiceError).Code)

	_, err = CreateLesson(database, owner, chapter, LessonCreateInput{Title: "Hello"})
	require.NoError(t, err)

	require.NoError(t, UpdateCourseStatus(database, owner, course.ID, CoursePublished))

	// One-time gate: emptying a published course does not unpublish it.
	require.NoError(t, DeleteChapter(database, owner, chapter))
	loaded, err := CourseByID(database, course.ID)
	require.NoError(t, err)
	assert.Equal(t, CoursePublished, loaded.Status)
}

func TestEnrollmentRules(t *testing.T) {
	database := testDB(t)
	owner := testAccount(t, database, "inst-1", "inst@example.com", RoleInstructor)
	student := testAccount(t, database, "stu-1", "stu@example.com", RoleStudent)
	course := testCourse(t, database, owner, "Enrollable")

	_, err := CreateEnrollment(database, student, course.ID, nil)
	require.Error(t, err)
	assert.Equal(t, "NOT_AVAILABLE", err.(ServiceError).Code)

	chapter, err := CreateChapter(database, owner, course.ID, "Intro", nil)
	require.NoError(t, err)
	_, err = CreateLesson(database, owner, chapter, LessonCreateInput{Title: "Hello"})
	require.NoError(t, err)
	require.NoError(t, UpdateCourseStatus(database, owner, course.ID, CoursePublished))

	_, err = CreateEnrollment(database, student, course.ID, nil)
	require.NoError(t, err)

	_, err = CreateEnrollment(database, student, course.ID, nil)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", err.(ServiceError).Code)
}

func TestProgressLifecycle(t *testing.T) {
	database := testDB(t)
	owner := testAccount(t, database, "inst-1", "inst@example.com", RoleInstructor)
	student := testAccount(t, database, "stu-1", "stu@example.com", RoleStudent)
	course := testCourse(t, database, owner, "Trackable")

	chapter, err := CreateChapter(database, owner, course.ID, "Intro", nil)
	require.NoError(t, err)
	lesson1, err := CreateLesson(database, owner, chapter, LessonCreateInput{Title: "One"})
	require.NoError(t, err)
	lesson2, err := CreateLesson(database, owner, chapter, LessonCreateInput{Title: "Two"})
	require.NoError(t, err)
	require.NoError(t, UpdateCourseStatus(database, owner, course.ID, CoursePublished))

	_, err = MarkLessonComplete(database, student, lesson1, 60)
	require.Error(t, err)
	assert.Equal(t, "NOT_ENROLLED", err.(ServiceError).Code)

	_, err = CreateEnrollment(database, student, course.ID, nil)
	require.NoError(t, err)

	snap, err := MarkLessonComplete(database, student, lesson1, 60)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CompletedLessons)
	assert.Equal(t, 50, snap.PercentComplete)

	// Idempotent: re-marking does not add rows or change the percentage.
	snap, err = MarkLessonComplete(database, student, lesson1, 90)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CompletedLessons)
	assert.Equal(t, 50, snap.PercentComplete)

	snap, err = MarkLessonComplete(database, student, lesson2, 30)
	require.NoError(t, err)
	assert.Equal(t, 100, snap.PercentComplete)

	enrollment, err := EnrollmentForCourse(database, student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, EnrollmentCompleted, enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)

	// Adding a lesson afterwards lowers the derived percentage but the
	// enrollment stays completed.
	_, err = CreateLesson(database, owner, chapter, LessonCreateInput{Title: "Three"})
	require.NoError(t, err)
	snapshot, err := CourseCompletion(database, student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 67, snapshot.PercentComplete)
	enrollment, err = EnrollmentForCourse(database, student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, EnrollmentCompleted, enrollment.Status)
}

func TestUpdateAccountRole(t *testing.T) {
	database := testDB(t)
	admin := testAccount(t, database, "adm-1", "root@example.com", RoleAdmin)
	student := testAccount(t, database, "stu-1", "stu@example.com", RoleStudent)

	require.NoError(t, UpdateAccountRole(database, admin, student.ID, RoleInstructor))
	reloaded, err := AccountByID(database, student.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleInstructor, reloaded.Role)

	err = UpdateAccountRole(database, reloaded, admin.ID, RoleStudent)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", err.(ServiceError).Code)

	err = UpdateAccountRole(database, admin, student.ID, "owner")
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", err.(ServiceError).Code)
}
