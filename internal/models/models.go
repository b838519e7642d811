package models

import "time"

type Account struct {
	ID            string    `db:"id"`
	Subject       string    `db:"subject"`
	Email         string    `db:"email"`
	Name          *string   `db:"name"`
	AvatarMediaID *string   `db:"avatar_media_id"`
	Role          string    `db:"role"`
	Bio           *string   `db:"bio"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type Course struct {
	ID               string    `db:"id"`
	Title            string    `db:"title"`
	Slug             string    `db:"slug"`
	SmallDescription string    `db:"small_description"`
	Description      string    `db:"description"`
	ThumbnailMediaID *string   `db:"thumbnail_media_id"`
	Category         string    `db:"category"`
	Level            string    `db:"level"`
	DurationHours    int       `db:"duration_hours"`
	PriceCents       int64     `db:"price_cents"`
	Status           string    `db:"status"`
	InstructorID     string    `db:"instructor_id"`
	Keywords         []byte    `db:"keywords"`
	Year             *int      `db:"year"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type Chapter struct {
	ID          string    `db:"id"`
	CourseID    string    `db:"course_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	OrderIndex  int       `db:"order_index"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Lesson struct {
	ID              string    `db:"id"`
	ChapterID       string    `db:"chapter_id"`
	CourseID        string    `db:"course_id"`
	Title           string    `db:"title"`
	Description     *string   `db:"description"`
	VideoMediaID    *string   `db:"video_media_id"`
	DurationMinutes int       `db:"duration_minutes"`
	OrderIndex      int       `db:"order_index"`
	Content         *string   `db:"content"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type Enrollment struct {
	ID             string     `db:"id"`
	UserID         string     `db:"user_id"`
	CourseID       string     `db:"course_id"`
	Status         string     `db:"status"`
	PaymentRef     *string    `db:"payment_ref"`
	EnrolledAt     time.Time  `db:"enrolled_at"`
	CompletedAt    *time.Time `db:"completed_at"`
	LastAccessedAt *time.Time `db:"last_accessed_at"`
}

type Progress struct {
	ID               string     `db:"id"`
	UserID           string     `db:"user_id"`
	LessonID         string     `db:"lesson_id"`
	CourseID         string     `db:"course_id"`
	Completed        bool       `db:"completed"`
	WatchTimeSeconds int64      `db:"watch_time_seconds"`
	CompletedAt      *time.Time `db:"completed_at"`
	LastWatchedAt    time.Time  `db:"last_watched_at"`
}

type AnalyticsEvent struct {
	ID         string    `db:"id"`
	EventType  string    `db:"event_type"`
	UserID     *string   `db:"user_id"`
	CourseID   *string   `db:"course_id"`
	LessonID   *string   `db:"lesson_id"`
	Metadata   []byte    `db:"metadata"`
	OccurredAt time.Time `db:"occurred_at"`
}

type MediaAsset struct {
	ID             string    `db:"id"`
	OwnerAccountID *string   `db:"owner_account_id"`
	Bucket         string    `db:"bucket"`
	StorageKey     string    `db:"storage_key"`
	Filename       *string   `db:"filename"`
	ContentType    string    `db:"content_type"`
	SizeBytes      int64     `db:"size_bytes"`
	Sha256         *string   `db:"sha256"`
	CreatedAt      time.Time `db:"created_at"`
}

type ServerMetricSample struct {
	ID                string    `db:"id"`
	CapturedAt        time.Time `db:"captured_at"`
	HeapUsedBytes     int64     `db:"heap_used_bytes"`
	HeapMaxBytes      int64     `db:"heap_max_bytes"`
	SystemMemoryTotal int64     `db:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `db:"system_memory_used_bytes"`
	DiskTotalBytes    int64     `db:"disk_total_bytes"`
	DiskUsedBytes     int64     `db:"disk_used_bytes"`
	ProcessCpuLoad    float64   `db:"process_cpu_load"`
	SystemCpuLoad     float64   `db:"system_cpu_load"`
}
