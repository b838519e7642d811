package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"coursekit-backend-go/internal/models"
	"coursekit-backend-go/internal/services"
)

type AnalyticsEventDTO struct {
	ID         string                 `json:"id"`
	EventType  string                 `json:"eventType"`
	UserID     *string                `json:"userId"`
	CourseID   *string                `json:"courseId"`
	LessonID   *string                `json:"lessonId"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt string                 `json:"occurredAt"`
}

func analyticsEventDTO(ev models.AnalyticsEvent) AnalyticsEventDTO {
	var metadata map[string]interface{}
	if len(ev.Metadata) > 0 {
		_ = json.Unmarshal(ev.Metadata, &metadata)
	}
	return AnalyticsEventDTO{
		ID:         ev.ID,
		EventType:  ev.EventType,
		UserID:     ev.UserID,
		CourseID:   ev.CourseID,
		LessonID:   ev.LessonID,
		Metadata:   metadata,
		OccurredAt: formatTime(ev.OccurredAt),
	}
}

func (s *Server) RecentAnalyticsEvents(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(r, services.RoleAdmin); err != nil {
		writeServiceError(w, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := services.RecentEvents(s.DB, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items := make([]AnalyticsEventDTO, 0, len(events))
	for _, ev := range events {
		items = append(items, analyticsEventDTO(ev))
	}
	WriteJSON(w, http.StatusOK, map[string][]AnalyticsEventDTO{"items": items})
}

func (s *Server) MetricsHistory(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(r, services.RoleAdmin); err != nil {
		writeServiceError(w, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 1000 {
		limit = 120
	}
	samples, err := services.LatestMetrics(s.DB, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]services.MetricSample{"items": samples})
}
