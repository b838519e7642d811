package httpapi

import (
	"net/http"

	"coursekit-backend-go/internal/config"
	"coursekit-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB         *sqlx.DB
	Config     config.Config
	Tokens     services.TokenService
	MetricsHub *services.MetricsHub
}

func NewServer(db *sqlx.DB, cfg config.Config, hub *services.MetricsHub) *Server {
	return &Server{
		DB:     db,
		Config: cfg,
		Tokens: services.TokenService{
			Secret: []byte(cfg.IdentityJWTSecret),
			Issuer: cfg.IdentityJWTIssuer,
		},
		MetricsHub: hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Sync-Secret"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/identity/sync", s.SyncAccount)

		api.Route("/public", func(pub chi.Router) {
			pub.Get("/courses", s.PublicCourses)
			pub.Get("/courses/{slug}", s.PublicCourseBySlug)
		})

		api.Group(func(authed chi.Router) {
			authed.Use(WithAuth(s.Tokens))

			authed.Get("/me", s.Me)
			authed.Put("/me/role/{accountId}", s.UpdateAccountRole)

			authed.Route("/courses", func(courses chi.Router) {
				courses.Get("/", s.InstructorCourses)
				courses.Post("/", s.CreateCourse)
				courses.Put("/{courseId}", s.UpdateCourse)
				courses.Put("/{courseId}/status", s.UpdateCourseStatus)
				courses.Put("/{courseId}/thumbnail", s.AttachThumbnail)
				courses.Post("/{courseId}/chapters", s.CreateChapter)
				courses.Put("/{courseId}/chapters/reorder", s.ReorderChapters)
			})

			authed.Route("/chapters/{chapterId}", func(chapters chi.Router) {
				chapters.Put("/", s.UpdateChapter)
				chapters.Delete("/", s.DeleteChapter)
				chapters.Post("/lessons", s.CreateLesson)
				chapters.Put("/lessons/reorder", s.ReorderLessons)
			})

			authed.Route("/lessons/{lessonId}", func(lessons chi.Router) {
				lessons.Put("/", s.UpdateLesson)
				lessons.Delete("/", s.DeleteLesson)
				lessons.Put("/video", s.AttachVideo)
			})

			authed.Route("/enrollments", func(enrollments chi.Router) {
				enrollments.Post("/", s.CreateEnrollment)
				enrollments.Get("/", s.ListEnrollments)
			})

			authed.Route("/progress", func(progress chi.Router) {
				progress.Post("/lessons/{lessonId}/complete", s.MarkLessonComplete)
				progress.Get("/courses/{courseId}", s.CourseProgress)
			})

			authed.Post("/media/uploads", s.UploadMedia)

			authed.Route("/admin", func(admin chi.Router) {
				admin.Get("/analytics/events", s.RecentAnalyticsEvents)
				admin.Get("/metrics/history", s.MetricsHistory)
			})
		})
	})

	r.Get("/media/assets/{assetId}/content", s.MediaContent)
	r.Get("/ws/metrics", s.MetricsSocket)
	return r
}
