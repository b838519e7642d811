package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"coursekit-backend-go/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	CourseDraft     = "draft"
	CoursePublished = "published"
)

var courseCategories = map[string]bool{
	"Development": true,
	"Design":      true,
	"Marketing":   true,
	"Business":    true,
}

var courseLevels = map[string]bool{
	"Beginner":     true,
	"Intermediate": true,
	"Advanced":     true,
}

type CourseCreateInput struct {
	Title            string
	Slug             string
	SmallDescription string
	Description      string
	Category         string
	Level            string
	DurationHours    int
	PriceCents       int64
	Keywords         []string
	Year             *int
}

type CreatedCourse struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// CreateCourse inserts a draft course owned by the caller. The slug is taken
// verbatim when supplied, otherwise derived from the title; a collision with
// any existing course is a Conflict.
func CreateCourse(db *sqlx.DB, caller models.Account, in CourseCreateInput) (CreatedCourse, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return CreatedCourse{}, ErrBadRequest("Title is required")
	}
	if !courseCategories[in.Category] {
		return CreatedCourse{}, ErrBadRequest("Unknown category: " + in.Category)
	}
	if !courseLevels[in.Level] {
		return CreatedCourse{}, ErrBadRequest("Unknown level: " + in.Level)
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return CreatedCourse{}, ErrBadRequest("Title does not produce a usable slug")
	}

	var exists bool
	if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM courses WHERE slug = $1)`, slug); err != nil {
		return CreatedCourse{}, err
	}
	if exists {
		return CreatedCourse{}, ErrConflict("A course with this slug already exists")
	}

	year := in.Year
	if year == nil {
		current := time.Now().UTC().Year()
		year = &current
	}
	keywordsJSON, _ := json.Marshal(CleanKeywords(in.Keywords))
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := db.Exec(`
INSERT INTO courses (id, title, slug, small_description, description, category, level,
  duration_hours, price_cents, status, instructor_id, keywords, year, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$14)
`, id, title, slug, strings.TrimSpace(in.SmallDescription), in.Description, in.Category, in.Level,
		in.DurationHours, in.PriceCents, CourseDraft, caller.ID, keywordsJSON, year, now)
	if err != nil {
		if isUniqueViolation(err, "courses_slug_key") {
			return CreatedCourse{}, ErrConflict("A course with this slug already exists")
		}
		return CreatedCourse{}, err
	}
	return CreatedCourse{ID: id, Slug: slug}, nil
}

type CourseUpdateInput struct {
	Title            *string
	SmallDescription *string
	Description      *string
	Category         *string
	Level            *string
	DurationHours    *int
	PriceCents       *int64
	Keywords         []string
	Year             *int
}

// UpdateCourse applies a partial patch. The slug is immutable after creation.
func UpdateCourse(db *sqlx.DB, caller models.Account, courseID string, in CourseUpdateInput) error {
	if in.Category != nil && !courseCategories[*in.Category] {
		return ErrBadRequest("Unknown category: " + *in.Category)
	}
	if in.Level != nil && !courseLevels[*in.Level] {
		return ErrBadRequest("Unknown level: " + *in.Level)
	}
	course, err := CourseByID(db, courseID)
	if err != nil {
		return err
	}
	if !CanMutateCourse(caller, course) {
		return ErrForbidden("You can only edit your own courses")
	}
	var keywordsJSON []byte
	if in.Keywords != nil {
		keywordsJSON, _ = json.Marshal(CleanKeywords(in.Keywords))
	}
	_, err = db.Exec(`
UPDATE courses
SET title = COALESCE($2, title),
    small_description = COALESCE($3, small_description),
    description = COALESCE($4, description),
    category = COALESCE($5, category),
    level = COALESCE($6, level),
    duration_hours = COALESCE($7, duration_hours),
    price_cents = COALESCE($8, price_cents),
    keywords = COALESCE($9, keywords),
    year = COALESCE($10, year),
    updated_at = $11
WHERE id = $1
`, courseID, in.Title, in.SmallDescription, in.Description, in.Category, in.Level,
		in.DurationHours, in.PriceCents, keywordsJSON, in.Year, time.Now().UTC())
	return err
}

// EvaluatePublishGate decides whether a course's structure admits publishing:
// at least one chapter, and no chapter without a lesson.
func EvaluatePublishGate(chapterCount, chaptersWithoutLessons int) error {
	if chapterCount == 0 {
		return ErrPublishBlocked("Cannot publish a course without chapters")
	}
	if chaptersWithoutLessons > 0 {
		return ErrPublishBlocked("Every chapter needs at least one lesson before publishing")
	}
	return nil
}

// UpdateCourseStatus transitions draft<->published. Publishing is gated on
// structural completeness, evaluated against the chapter and lesson set
// inside the same transaction. Unpublishing is unguarded, and the gate is a
// one-time check: later structural edits never revert a published course.
func UpdateCourseStatus(db *sqlx.DB, caller models.Account, courseID, status string) error {
	if status != CourseDraft && status != CoursePublished {
		return ErrBadRequest("Unknown status: " + status)
	}
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := lockCourse(tx, caller, courseID); err != nil {
		return err
	}

	if status == CoursePublished {
		var gate struct {
			ChapterCount  int `db:"chapter_count"`
			EmptyChapters int `db:"empty_chapters"`
		}
		if err := tx.Get(&gate, `
SELECT count(*) AS chapter_count,
       count(*) FILTER (
         WHERE NOT EXISTS (SELECT 1 FROM lessons l WHERE l.chapter_id = c.id)
       ) AS empty_chapters
FROM chapters c
WHERE c.course_id = $1
`, courseID); err != nil {
			return err
		}
		if err := EvaluatePublishGate(gate.ChapterCount, gate.EmptyChapters); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`UPDATE courses SET status = $2, updated_at = $3 WHERE id = $1`,
		courseID, status, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateChapter appends a chapter at the end of the course: order_index is
// max+1, starting at 0 for the first chapter. The course row is locked so
// concurrent appends cannot race to the same index.
func CreateChapter(db *sqlx.DB, caller models.Account, courseID, title string, description *string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrBadRequest("Title is required")
	}
	tx, err := db.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := lockCourse(tx, caller, courseID); err != nil {
		return "", err
	}
	var next int
	if err := tx.Get(&next, `
SELECT COALESCE(MAX(order_index) + 1, 0) FROM chapters WHERE course_id = $1
`, courseID); err != nil {
		return "", err
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	if _, err := tx.Exec(`
INSERT INTO chapters (id, course_id, title, description, order_index, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$6)
`, id, courseID, title, description, next, now); err != nil {
		return "", err
	}
	return id, tx.Commit()
}

func UpdateChapter(db *sqlx.DB, caller models.Account, chapterID string, title *string, description *string) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	chapter, err := chapterByID(tx, chapterID)
	if err != nil {
		return err
	}
	if _, err := lockCourse(tx, caller, chapter.CourseID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
UPDATE chapters
SET title = COALESCE($2, title), description = COALESCE($3, description), updated_at = $4
WHERE id = $1
`, chapterID, title, description, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteChapter removes a chapter and, via cascade, its lessons and their
// progress rows. A published course stays published even if this empties it.
func DeleteChapter(db *sqlx.DB, caller models.Account, chapterID string) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	chapter, err := chapterByID(tx, chapterID)
	if err != nil {
		return err
	}
	if _, err := lockCourse(tx, caller, chapter.CourseID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM chapters WHERE id = $1`, chapterID); err != nil {
		return err
	}
	return tx.Commit()
}

// ValidateReorder checks that the supplied id sequence is exactly the current
// member set: same cardinality, same membership, no duplicates.
func ValidateReorder(current, supplied []string) error {
	if len(supplied) != len(current) {
		return ErrBadRequest("Reorder must list every item exactly once")
	}
	members := make(map[string]bool, len(current))
	for _, id := range current {
		members[id] = true
	}
	seen := make(map[string]bool, len(supplied))
	for _, id := range supplied {
		if !members[id] {
			return ErrBadRequest("Unknown id in reorder: " + id)
		}
		if seen[id] {
			return ErrBadRequest("Duplicate id in reorder: " + id)
		}
		seen[id] = true
	}
	return nil
}

// ReorderChapters assigns order_index = position for the supplied sequence.
// The swap happens in one transaction against deferred unique constraints, so
// readers observe either the old ordering or the new one, never a mix.
func ReorderChapters(db *sqlx.DB, caller models.Account, courseID string, chapterIDs []string) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := lockCourse(tx, caller, courseID); err != nil {
		return err
	}
	current := []string{}
	if err := tx.Select(&current, `SELECT id FROM chapters WHERE course_id = $1`, courseID); err != nil {
		return err
	}
	if err := ValidateReorder(current, chapterIDs); err != nil {
		return err
	}
	now := time.Now().UTC()
	for index, id := range chapterIDs {
		if _, err := tx.Exec(`UPDATE chapters SET order_index = $2, updated_at = $3 WHERE id = $1`,
			id, index, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type LessonCreateInput struct {
	Title           string
	Description     *string
	DurationMinutes int
	Content         *string
}

// CreateLesson appends a lesson at the end of its chapter, denormalizing the
// chapter's course id onto the lesson row.
func CreateLesson(db *sqlx.DB, caller models.Account, chapterID string, in LessonCreateInput) (string, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "", ErrBadRequest("Title is required")
	}
	if in.DurationMinutes < 0 {
		return "", ErrBadRequest("Duration cannot be negative")
	}
	tx, err := db.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	chapter, err := chapterByID(tx, chapterID)
	if err != nil {
		return "", err
	}
	if _, err := lockCourse(tx, caller, chapter.CourseID); err != nil {
		return "", err
	}
	var next int
	if err := tx.Get(&next, `
SELECT COALESCE(MAX(order_index) + 1, 0) FROM lessons WHERE chapter_id = $1
`, chapterID); err != nil {
		return "", err
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	if _, err := tx.Exec(`
INSERT INTO lessons (id, chapter_id, course_id, title, description, duration_minutes, order_index, content, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
`, id, chapterID, chapter.CourseID, title, in.Description, in.DurationMinutes, next, in.Content, now); err != nil {
		return "", err
	}
	return id, tx.Commit()
}

type LessonUpdateInput struct {
	Title           *string
	Description     *string
	DurationMinutes *int
	Content         *string
}

func UpdateLesson(db *sqlx.DB, caller models.Account, lessonID string, in LessonUpdateInput) error {
	if in.DurationMinutes != nil && *in.DurationMinutes < 0 {
		return ErrBadRequest("Duration cannot be negative")
	}
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	lesson, err := lessonByID(tx, lessonID)
	if err != nil {
		return err
	}
	if _, err := lockCourse(tx, caller, lesson.CourseID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
UPDATE lessons
SET title = COALESCE($2, title),
    description = COALESCE($3, description),
    duration_minutes = COALESCE($4, duration_minutes),
    content = COALESCE($5, content),
    updated_at = $6
WHERE id = $1
`, lessonID, in.Title, in.Description, in.DurationMinutes, in.Content, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

func DeleteLesson(db *sqlx.DB, caller models.Account, lessonID string) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	lesson, err := lessonByID(tx, lessonID)
	if err != nil {
		return err
	}
	if _, err := lockCourse(tx, caller, lesson.CourseID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM lessons WHERE id = $1`, lessonID); err != nil {
		return err
	}
	return tx.Commit()
}

// ReorderLessons mirrors ReorderChapters, scoped to one chapter.
func ReorderLessons(db *sqlx.DB, caller models.Account, chapterID string, lessonIDs []string) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	chapter, err := chapterByID(tx, chapterID)
	if err != nil {
		return err
	}
	if _, err := lockCourse(tx, caller, chapter.CourseID); err != nil {
		return err
	}
	current := []string{}
	if err := tx.Select(&current, `SELECT id FROM lessons WHERE chapter_id = $1`, chapterID); err != nil {
		return err
	}
	if err := ValidateReorder(current, lessonIDs); err != nil {
		return err
	}
	now := time.Now().UTC()
	for index, id := range lessonIDs {
		if _, err := tx.Exec(`UPDATE lessons SET order_index = $2, updated_at = $3 WHERE id = $1`,
			id, index, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func CourseByID(db *sqlx.DB, courseID string) (models.Course, error) {
	var course models.Course
	err := db.Get(&course, `SELECT * FROM courses WHERE id = $1`, courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Course{}, ErrNotFound("Course not found")
	}
	if err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// lockCourse loads the course FOR UPDATE and applies the ownership predicate,
// serializing structural mutations per course for the transaction's duration.
func lockCourse(tx *sqlx.Tx, caller models.Account, courseID string) (models.Course, error) {
	var course models.Course
	err := tx.Get(&course, `SELECT * FROM courses WHERE id = $1 FOR UPDATE`, courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Course{}, ErrNotFound("Course not found")
	}
	if err != nil {
		return models.Course{}, err
	}
	if !CanMutateCourse(caller, course) {
		return models.Course{}, ErrForbidden("You can only modify your own courses")
	}
	return course, nil
}

func chapterByID(tx *sqlx.Tx, chapterID string) (models.Chapter, error) {
	var chapter models.Chapter
	err := tx.Get(&chapter, `SELECT * FROM chapters WHERE id = $1`, chapterID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chapter{}, ErrNotFound("Chapter not found")
	}
	if err != nil {
		return models.Chapter{}, err
	}
	return chapter, nil
}

func lessonByID(tx *sqlx.Tx, lessonID string) (models.Lesson, error) {
	var lesson models.Lesson
	err := tx.Get(&lesson, `SELECT * FROM lessons WHERE id = $1`, lessonID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Lesson{}, ErrNotFound("Lesson not found")
	}
	if err != nil {
		return models.Lesson{}, err
	}
	return lesson, nil
}
