package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"coursekit-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type LessonCompleteRequest struct {
	WatchTimeSeconds int64 `json:"watchTimeSeconds"`
}

func (s *Server) MarkLessonComplete(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireAccount(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req LessonCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	snapshot, err := services.MarkLessonComplete(s.DB, caller, chi.URLParam(r, "lessonId"), req.WatchTimeSeconds)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, snapshot)
}

// CourseProgress reports the caller's derived completion for one course. It
// requires an enrollment that is not cancelled.
func (s *Server) CourseProgress(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireAccount(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	courseID := chi.URLParam(r, "courseId")
	enrollment, err := services.EnrollmentForCourse(s.DB, caller.ID, courseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if enrollment.Status == services.EnrollmentCancelled {
		writeServiceError(w, services.ErrNotEnrolled("Enrollment is cancelled"))
		return
	}
	snapshot, err := services.CourseCompletion(s.DB, caller.ID, courseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, snapshot)
}
