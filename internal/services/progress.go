package services

import (
	"database/sql"
	"errors"
	"math"
	"time"

	"coursekit-backend-go/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentCancelled = "cancelled"
)

type CourseProgressSnapshot struct {
	CompletedLessons int `json:"completedLessons"`
	TotalLessons     int `json:"totalLessons"`
	PercentComplete  int `json:"percentComplete"`
}

// CompletionPercent derives the completion percentage over the current lesson
// set. Never cached: a lesson added after completions simply lowers the next
// derived value. A course with zero lessons reports 0.
func CompletionPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// DurationHours converts a lesson-minute total to whole hours, rounding up so
// any partial hour counts as a full one.
func DurationHours(totalMinutes int) int {
	if totalMinutes <= 0 {
		return 0
	}
	return (totalMinutes + 59) / 60
}

// CourseCompletion counts the course's current lessons and the user's
// completed ones. Works inside or outside a transaction.
func CourseCompletion(q sqlx.Queryer, userID, courseID string) (CourseProgressSnapshot, error) {
	var totals struct {
		Total     int `db:"total"`
		Completed int `db:"completed"`
	}
	err := sqlx.Get(q, &totals, `
SELECT (SELECT count(*) FROM lessons WHERE course_id = $2) AS total,
       (SELECT count(*) FROM progress WHERE user_id = $1 AND course_id = $2 AND completed) AS completed
`, userID, courseID)
	if err != nil {
		return CourseProgressSnapshot{}, err
	}
	return CourseProgressSnapshot{
		CompletedLessons: totals.Completed,
		TotalLessons:     totals.Total,
		PercentComplete:  CompletionPercent(totals.Completed, totals.Total),
	}, nil
}

// MarkLessonComplete upserts the caller's progress record for a lesson and
// recomputes course completion, flipping the enrollment to completed at
// exactly 100%. Idempotent: re-marking refreshes watch time and timestamps
// without error or duplicate rows. The completed->active direction does not
// exist; adding lessons after 100% never reverts the enrollment.
func MarkLessonComplete(db *sqlx.DB, caller models.Account, lessonID string, watchTimeSeconds int64) (CourseProgressSnapshot, error) {
	if watchTimeSeconds < 0 {
		return CourseProgressSnapshot{}, ErrBadRequest("Watch time cannot be negative")
	}
	tx, err := db.Beginx()
	if err != nil {
		return CourseProgressSnapshot{}, err
	}
	defer func() { _ = tx.Rollback() }()

	lesson, err := lessonByID(tx, lessonID)
	if err != nil {
		return CourseProgressSnapshot{}, err
	}

	var enrollment models.Enrollment
	err = tx.Get(&enrollment, `
SELECT * FROM enrollments WHERE user_id = $1 AND course_id = $2 FOR UPDATE
`, caller.ID, lesson.CourseID)
	if errors.Is(err, sql.ErrNoRows) {
		return CourseProgressSnapshot{}, ErrNotEnrolled("Not enrolled in this course")
	}
	if err != nil {
		return CourseProgressSnapshot{}, err
	}
	if enrollment.Status == EnrollmentCancelled {
		return CourseProgressSnapshot{}, ErrNotEnrolled("Enrollment is cancelled")
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(`
INSERT INTO progress (id, user_id, lesson_id, course_id, completed, watch_time_seconds, completed_at, last_watched_at)
VALUES ($1,$2,$3,$4,TRUE,$5,$6,$6)
ON CONFLICT ON CONSTRAINT uq_progress_user_lesson
DO UPDATE SET completed = TRUE,
              watch_time_seconds = EXCLUDED.watch_time_seconds,
              completed_at = EXCLUDED.completed_at,
              last_watched_at = EXCLUDED.last_watched_at
`, uuid.NewString(), caller.ID, lessonID, lesson.CourseID, watchTimeSeconds, now); err != nil {
		return CourseProgressSnapshot{}, err
	}

	if _, err := tx.Exec(`UPDATE enrollments SET last_accessed_at = $2 WHERE id = $1`,
		enrollment.ID, now); err != nil {
		return CourseProgressSnapshot{}, err
	}

	snapshot, err := CourseCompletion(tx, caller.ID, lesson.CourseID)
	if err != nil {
		return CourseProgressSnapshot{}, err
	}
	if snapshot.PercentComplete == 100 && enrollment.Status == EnrollmentActive {
		if _, err := tx.Exec(`
UPDATE enrollments SET status = $2, completed_at = $3 WHERE id = $1
`, enrollment.ID, EnrollmentCompleted, now); err != nil {
			return CourseProgressSnapshot{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return CourseProgressSnapshot{}, err
	}

	Track(db, Event{
		Type:     EventLessonComplete,
		UserID:   &caller.ID,
		CourseID: &lesson.CourseID,
		LessonID: &lessonID,
	})
	return snapshot, nil
}
