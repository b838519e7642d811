package httpapi

import (
	"time"

	"coursekit-backend-go/internal/models"
	"coursekit-backend-go/internal/services"
)

type InstructorDTO struct {
	Name      string  `json:"name"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatarUrl"`
}

type CourseCardDTO struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	SmallDescription string   `json:"smallDescription"`
	Category         string   `json:"category"`
	Level            string   `json:"level"`
	DurationHours    int      `json:"durationHours"`
	PriceCents       int64    `json:"priceCents"`
	ThumbnailURL     *string  `json:"thumbnailUrl"`
	Keywords         []string `json:"keywords"`
	Year             *int     `json:"year"`
	CreatedAt        string   `json:"createdAt"`

	Instructor *InstructorDTO `json:"instructor"`
}

type LessonSummaryDTO struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"durationMinutes"`
	OrderIndex      int    `json:"orderIndex"`
}

type ChapterDTO struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description *string            `json:"description"`
	OrderIndex  int                `json:"orderIndex"`
	Lessons     []LessonSummaryDTO `json:"lessons"`
}

type CourseDetailDTO struct {
	CourseCardDTO
	Description        string       `json:"description"`
	Status             string       `json:"status"`
	Curriculum         []ChapterDTO `json:"curriculum"`
	TotalLessons       int          `json:"totalLessons"`
	TotalDurationHours int          `json:"totalDurationHours"`
}

type InstructorCourseDTO struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	Status          string  `json:"status"`
	Category        string  `json:"category"`
	Level           string  `json:"level"`
	PriceCents      int64   `json:"priceCents"`
	ThumbnailURL    *string `json:"thumbnailUrl"`
	EnrollmentCount int     `json:"enrollmentCount"`
	ChapterCount    int     `json:"chapterCount"`
	LessonCount     int     `json:"lessonCount"`
	RevenueCents    int64   `json:"revenueCents"`
	CreatedAt       string  `json:"createdAt"`
}

type EnrollmentCourseDTO struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Slug          string  `json:"slug"`
	ThumbnailURL  *string `json:"thumbnailUrl"`
	TotalLessons  int     `json:"totalLessons"`
	Level         string  `json:"level"`
	DurationHours int     `json:"durationHours"`
}

type EnrollmentProgressDTO struct {
	CompletedLessons int     `json:"completedLessons"`
	PercentComplete  int     `json:"percentComplete"`
	LastAccessedAt   *string `json:"lastAccessedAt"`
}

type EnrollmentDTO struct {
	ID          string                `json:"id"`
	Status      string                `json:"status"`
	EnrolledAt  string                `json:"enrolledAt"`
	CompletedAt *string               `json:"completedAt"`
	Course      EnrollmentCourseDTO   `json:"course"`
	Progress    EnrollmentProgressDTO `json:"progress"`
}

type AccountDTO struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
	Role      string  `json:"role"`
	Bio       *string `json:"bio"`

	EnrolledCourses  int `json:"enrolledCourses"`
	CompletedCourses int `json:"completedCourses"`
}

func accountDTO(account models.Account, stats services.AccountStats) AccountDTO {
	return AccountDTO{
		ID:               account.ID,
		Email:            account.Email,
		Name:             account.Name,
		AvatarURL:        mediaURL(account.AvatarMediaID),
		Role:             account.Role,
		Bio:              account.Bio,
		EnrolledCourses:  stats.EnrolledCourses,
		CompletedCourses: stats.CompletedCourses,
	}
}

func mediaURL(assetID *string) *string {
	if assetID == nil {
		return nil
	}
	url := services.BuildAssetURL(*assetID)
	return &url
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := formatTime(*t)
	return &formatted
}
