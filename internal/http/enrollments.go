package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"coursekit-backend-go/internal/services"
)

type EnrollmentCreateRequest struct {
	CourseID   string  `json:"courseId"`
	PaymentRef *string `json:"paymentRef"`
}

func (s *Server) CreateEnrollment(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireAccount(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req EnrollmentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	id, err := services.CreateEnrollment(s.DB, caller, req.CourseID, req.PaymentRef)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// ListEnrollments returns the caller's enrollments with course summaries and
// derived progress. The inner join drops enrollments whose course has since
// been deleted instead of surfacing them as errors.
func (s *Server) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireAccount(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rows := []struct {
		ID               string     `db:"id"`
		Status           string     `db:"status"`
		EnrolledAt       time.Time  `db:"enrolled_at"`
		CompletedAt      *time.Time `db:"completed_at"`
		LastAccessedAt   *time.Time `db:"last_accessed_at"`
		CourseID         string     `db:"course_id"`
		Title            string     `db:"title"`
		Slug             string     `db:"slug"`
		Level            string     `db:"level"`
		DurationHours    int        `db:"duration_hours"`
		ThumbnailMediaID *string    `db:"thumbnail_media_id"`
		TotalLessons     int        `db:"total_lessons"`
		CompletedLessons int        `db:"completed_lessons"`
	}{}
	if err := s.DB.Select(&rows, `
SELECT e.id, e.status, e.enrolled_at, e.completed_at, e.last_accessed_at,
       c.id AS course_id, c.title, c.slug, c.level, c.duration_hours, c.thumbnail_media_id,
       (SELECT count(*) FROM lessons l WHERE l.course_id = c.id) AS total_lessons,
       (SELECT count(*) FROM progress p
         WHERE p.user_id = e.user_id AND p.course_id = c.id AND p.completed) AS completed_lessons
FROM enrollments e
JOIN courses c ON c.id = e.course_id
WHERE e.user_id = $1
ORDER BY e.enrolled_at DESC
`, caller.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]EnrollmentDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, EnrollmentDTO{
			ID:          row.ID,
			Status:      row.Status,
			EnrolledAt:  formatTime(row.EnrolledAt),
			CompletedAt: formatTimePtr(row.CompletedAt),
			Course: EnrollmentCourseDTO{
				ID:            row.CourseID,
				Title:         row.Title,
				Slug:          row.Slug,
				ThumbnailURL:  mediaURL(row.ThumbnailMediaID),
				TotalLessons:  row.TotalLessons,
				Level:         row.Level,
				DurationHours: row.DurationHours,
			},
			Progress: EnrollmentProgressDTO{
				CompletedLessons: row.CompletedLessons,
				PercentComplete:  services.CompletionPercent(row.CompletedLessons, row.TotalLessons),
				LastAccessedAt:   formatTimePtr(row.LastAccessedAt),
			},
		})
	}
	WriteJSON(w, http.StatusOK, map[string][]EnrollmentDTO{"items": items})
}
