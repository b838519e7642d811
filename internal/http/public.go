package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"coursekit-backend-go/internal/models"
	"coursekit-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type publicCourseRow struct {
	models.Course
	InstructorName   *string `db:"instructor_name"`
	InstructorBio    *string `db:"instructor_bio"`
	InstructorAvatar *string `db:"instructor_avatar"`
}

func courseCard(row publicCourseRow) CourseCardDTO {
	keywords := []string{}
	if len(row.Keywords) > 0 {
		_ = json.Unmarshal(row.Keywords, &keywords)
	}
	card := CourseCardDTO{
		ID:               row.ID,
		Title:            row.Title,
		Slug:             row.Slug,
		SmallDescription: row.SmallDescription,
		Category:         row.Category,
		Level:            row.Level,
		DurationHours:    row.DurationHours,
		PriceCents:       row.PriceCents,
		ThumbnailURL:     mediaURL(row.ThumbnailMediaID),
		Keywords:         keywords,
		Year:             row.Year,
		CreatedAt:        formatTime(row.CreatedAt),
	}
	if row.InstructorName != nil {
		card.Instructor = &InstructorDTO{
			Name:      *row.InstructorName,
			Bio:       row.InstructorBio,
			AvatarURL: mediaURL(row.InstructorAvatar),
		}
	}
	return card
}

// PublicCourses is the unauthenticated catalog: published courses only, with
// optional category, level and search filters.
func (s *Server) PublicCourses(w http.ResponseWriter, r *http.Request) {
	query := `
SELECT c.*, a.name AS instructor_name, a.bio AS instructor_bio, a.avatar_media_id AS instructor_avatar
FROM courses c
LEFT JOIN accounts a ON a.id = c.instructor_id
WHERE c.status = $1`
	args := []interface{}{services.CoursePublished}

	if category := r.URL.Query().Get("category"); category != "" {
		args = append(args, category)
		query += ` AND c.category = $` + strconv.Itoa(len(args))
	}
	if level := r.URL.Query().Get("level"); level != "" {
		args = append(args, level)
		query += ` AND c.level = $` + strconv.Itoa(len(args))
	}
	if search := services.CleanSearchTerm(r.URL.Query().Get("search")); search != "" {
		args = append(args, "%"+search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (c.title ILIKE $` + n +
			` OR c.small_description ILIKE $` + n +
			` OR c.keywords::text ILIKE $` + n + `)`
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	args = append(args, limit)
	query += ` ORDER BY c.created_at DESC LIMIT $` + strconv.Itoa(len(args))

	rows := []publicCourseRow{}
	if err := s.DB.Select(&rows, query, args...); err != nil {
		writeServiceError(w, err)
		return
	}
	items := make([]CourseCardDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, courseCard(row))
	}

	services.Track(s.DB, services.Event{Type: services.EventPageView, Metadata: map[string]interface{}{
		"page": "catalog",
	}})
	WriteJSON(w, http.StatusOK, map[string][]CourseCardDTO{"items": items})
}

// PublicCourseBySlug returns one published course with its full curriculum.
// Draft and missing courses are indistinguishable to the public.
func (s *Server) PublicCourseBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var row publicCourseRow
	err := s.DB.Get(&row, `
SELECT c.*, a.name AS instructor_name, a.bio AS instructor_bio, a.avatar_media_id AS instructor_avatar
FROM courses c
LEFT JOIN accounts a ON a.id = c.instructor_id
WHERE c.slug = $1 AND c.status = $2
`, slug, services.CoursePublished)
	if errors.Is(err, sql.ErrNoRows) {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "Course not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	chapters := []models.Chapter{}
	if err := s.DB.Select(&chapters, `
SELECT * FROM chapters WHERE course_id = $1 ORDER BY order_index
`, row.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	lessons := []models.Lesson{}
	if err := s.DB.Select(&lessons, `
SELECT * FROM lessons WHERE course_id = $1 ORDER BY order_index
`, row.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	lessonsByChapter := map[string][]LessonSummaryDTO{}
	totalMinutes := 0
	for _, lesson := range lessons {
		lessonsByChapter[lesson.ChapterID] = append(lessonsByChapter[lesson.ChapterID], LessonSummaryDTO{
			ID:              lesson.ID,
			Title:           lesson.Title,
			DurationMinutes: lesson.DurationMinutes,
			OrderIndex:      lesson.OrderIndex,
		})
		totalMinutes += lesson.DurationMinutes
	}
	curriculum := make([]ChapterDTO, 0, len(chapters))
	for _, chapter := range chapters {
		items := lessonsByChapter[chapter.ID]
		if items == nil {
			items = []LessonSummaryDTO{}
		}
		curriculum = append(curriculum, ChapterDTO{
			ID:          chapter.ID,
			Title:       chapter.Title,
			Description: chapter.Description,
			OrderIndex:  chapter.OrderIndex,
			Lessons:     items,
		})
	}

	detail := CourseDetailDTO{
		CourseCardDTO:      courseCard(row),
		Description:        row.Description,
		Status:             row.Status,
		Curriculum:         curriculum,
		TotalLessons:       len(lessons),
		TotalDurationHours: services.DurationHours(totalMinutes),
	}

	services.Track(s.DB, services.Event{Type: services.EventCourseView, CourseID: &row.ID, Metadata: map[string]interface{}{
		"slug": slug,
	}})
	WriteJSON(w, http.StatusOK, detail)
}
