package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"coursekit-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type CourseCreateRequest struct {
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	SmallDescription string   `json:"smallDescription"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	Level            string   `json:"level"`
	DurationHours    int      `json:"durationHours"`
	PriceCents       int64    `json:"priceCents"`
	Keywords         []string `json:"keywords"`
	Year             *int     `json:"year"`
}

func (s *Server) CreateCourse(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req CourseCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	created, err := services.CreateCourse(s.DB, caller, services.CourseCreateInput{
		Title:            req.Title,
		Slug:             req.Slug,
		SmallDescription: req.SmallDescription,
		Description:      req.Description,
		Category:         req.Category,
		Level:            req.Level,
		DurationHours:    req.DurationHours,
		PriceCents:       req.PriceCents,
		Keywords:         req.Keywords,
		Year:             req.Year,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

type CourseUpdateRequest struct {
	Title            *string  `json:"title"`
	SmallDescription *string  `json:"smallDescription"`
	Description      *string  `json:"description"`
	Category         *string  `json:"category"`
	Level            *string  `json:"level"`
	DurationHours    *int     `json:"durationHours"`
	PriceCents       *int64   `json:"priceCents"`
	Keywords         []string `json:"keywords"`
	Year             *int     `json:"year"`
}

func (s *Server) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req CourseUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	err = services.UpdateCourse(s.DB, caller, chi.URLParam(r, "courseId"), services.CourseUpdateInput{
		Title:            req.Title,
		SmallDescription: req.SmallDescription,
		Description:      req.Description,
		Category:         req.Category,
		Level:            req.Level,
		DurationHours:    req.DurationHours,
		PriceCents:       req.PriceCents,
		Keywords:         req.Keywords,
		Year:             req.Year,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type CourseStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateCourseStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req CourseStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	if err := services.UpdateCourseStatus(s.DB, caller, chi.URLParam(r, "courseId"), req.Status); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// InstructorCourses is the instructor dashboard: the caller's own courses
// with enrollment and curriculum counts plus gross revenue.
func (s *Server) InstructorCourses(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rows := []struct {
		ID               string    `db:"id"`
		Title            string    `db:"title"`
		Slug             string    `db:"slug"`
		Status           string    `db:"status"`
		Category         string    `db:"category"`
		Level            string    `db:"level"`
		PriceCents       int64     `db:"price_cents"`
		ThumbnailMediaID *string   `db:"thumbnail_media_id"`
		CreatedAt        time.Time `db:"created_at"`
		EnrollmentCount  int       `db:"enrollment_count"`
		ChapterCount     int       `db:"chapter_count"`
		LessonCount      int       `db:"lesson_count"`
	}{}
	if err := s.DB.Select(&rows, `
SELECT c.id, c.title, c.slug, c.status, c.category, c.level, c.price_cents,
       c.thumbnail_media_id, c.created_at,
       (SELECT count(*) FROM enrollments e WHERE e.course_id = c.id) AS enrollment_count,
       (SELECT count(*) FROM chapters ch WHERE ch.course_id = c.id) AS chapter_count,
       (SELECT count(*) FROM lessons l WHERE l.course_id = c.id) AS lesson_count
FROM courses c
WHERE c.instructor_id = $1
ORDER BY c.created_at DESC
`, caller.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	items := make([]InstructorCourseDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, InstructorCourseDTO{
			ID:              row.ID,
			Title:           row.Title,
			Slug:            row.Slug,
			Status:          row.Status,
			Category:        row.Category,
			Level:           row.Level,
			PriceCents:      row.PriceCents,
			ThumbnailURL:    mediaURL(row.ThumbnailMediaID),
			EnrollmentCount: row.EnrollmentCount,
			ChapterCount:    row.ChapterCount,
			LessonCount:     row.LessonCount,
			RevenueCents:    int64(row.EnrollmentCount) * row.PriceCents,
			CreatedAt:       formatTime(row.CreatedAt),
		})
	}
	WriteJSON(w, http.StatusOK, map[string][]InstructorCourseDTO{"items": items})
}

type ChapterCreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func (s *Server) CreateChapter(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req ChapterCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	id, err := services.CreateChapter(s.DB, caller, chi.URLParam(r, "courseId"), req.Title, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type ChapterUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (s *Server) UpdateChapter(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req ChapterUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	if err := services.UpdateChapter(s.DB, caller, chi.URLParam(r, "chapterId"), req.Title, req.Description); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := services.DeleteChapter(s.DB, caller, chi.URLParam(r, "chapterId")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ReorderRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) ReorderChapters(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	if err := services.ReorderChapters(s.DB, caller, chi.URLParam(r, "courseId"), req.IDs); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type LessonCreateRequest struct {
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	DurationMinutes int     `json:"durationMinutes"`
	Content         *string `json:"content"`
}

func (s *Server) CreateLesson(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req LessonCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	id, err := services.CreateLesson(s.DB, caller, chi.URLParam(r, "chapterId"), services.LessonCreateInput{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Content:         req.Content,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type LessonUpdateRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"durationMinutes"`
	Content         *string `json:"content"`
}

func (s *Server) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req LessonUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	err = services.UpdateLesson(s.DB, caller, chi.URLParam(r, "lessonId"), services.LessonUpdateInput{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Content:         req.Content,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := services.DeleteLesson(s.DB, caller, chi.URLParam(r, "lessonId")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ReorderLessons(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	if err := services.ReorderLessons(s.DB, caller, chi.URLParam(r, "chapterId"), req.IDs); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
