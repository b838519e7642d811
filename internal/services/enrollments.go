package services

import (
	"database/sql"
	"errors"
	"time"

	"coursekit-backend-go/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreateEnrollment enrolls the caller in a published course. The
// (user, course) unique constraint serializes concurrent attempts; the
// second writer gets a Conflict instead of a duplicate row.
func CreateEnrollment(db *sqlx.DB, caller models.Account, courseID string, paymentRef *string) (string, error) {
	var course models.Course
	err := db.Get(&course, `SELECT * FROM courses WHERE id = $1`, courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotAvailable("Course not available")
	}
	if err != nil {
		return "", err
	}
	if course.Status != CoursePublished {
		return "", ErrNotAvailable("Course not available")
	}

	id := uuid.NewString()
	_, err = db.Exec(`
INSERT INTO enrollments (id, user_id, course_id, status, payment_ref, enrolled_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, id, caller.ID, courseID, EnrollmentActive, paymentRef, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err, "uq_enrollments_user_course") {
			return "", ErrConflict("Already enrolled in this course")
		}
		return "", err
	}

	Track(db, Event{
		Type:     EventEnrollment,
		UserID:   &caller.ID,
		CourseID: &courseID,
	})
	return id, nil
}

func EnrollmentForCourse(db *sqlx.DB, userID, courseID string) (models.Enrollment, error) {
	var enrollment models.Enrollment
	err := db.Get(&enrollment, `
SELECT * FROM enrollments WHERE user_id = $1 AND course_id = $2
`, userID, courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Enrollment{}, ErrNotEnrolled("Not enrolled in this course")
	}
	if err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, nil
}
