package services

import (
	"encoding/json"
	"log"
	"time"

	"coursekit-backend-go/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	EventPageView       = "page_view"
	EventCourseView     = "course_view"
	EventLessonStart    = "lesson_start"
	EventLessonComplete = "lesson_complete"
	EventEnrollment     = "enrollment"
)

type Event struct {
	Type     string
	UserID   *string
	CourseID *string
	LessonID *string
	Metadata map[string]interface{}
}

// Track appends one analytics event. Fire-and-forget: failures are logged and
// never propagated, and the core never reads these rows back.
func Track(db *sqlx.DB, ev Event) {
	var metadata []byte
	if ev.Metadata != nil {
		metadata, _ = json.Marshal(ev.Metadata)
	}
	_, err := db.Exec(`
INSERT INTO analytics_events (id, event_type, user_id, course_id, lesson_id, metadata, occurred_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, uuid.NewString(), ev.Type, ev.UserID, ev.CourseID, ev.LessonID, metadata, time.Now().UTC())
	if err != nil {
		log.Printf("analytics track %s: %v", ev.Type, err)
	}
}

// RecentEvents lists the newest events for operators.
func RecentEvents(db *sqlx.DB, limit int) ([]models.AnalyticsEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	events := []models.AnalyticsEvent{}
	err := db.Select(&events, `
SELECT * FROM analytics_events ORDER BY occurred_at DESC LIMIT $1
`, limit)
	return events, err
}
