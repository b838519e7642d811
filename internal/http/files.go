package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"coursekit-backend-go/internal/models"
	"coursekit-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

// 2 GiB request cap, large enough for lesson videos.
const maxUploadBytes = 2 << 30

type UploadResponse struct {
	AssetID string `json:"assetId"`
	URL     string `json:"url"`
}

// UploadMedia accepts a multipart upload into a named bucket and returns the
// asset handle. Avatars are open to every account; thumbnails and videos are
// restricted to instructors and admins.
func (s *Server) UploadMedia(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireAccount(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	bucket := r.URL.Query().Get("bucket")
	if !services.ValidBucket(bucket) {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Unknown bucket: "+bucket)
		return
	}
	if bucket != services.BucketAvatars &&
		caller.Role != services.RoleInstructor && caller.Role != services.RoleAdmin {
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "Access denied")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	assetID, url, err := services.SaveMediaAsset(
		s.DB, s.Config.MediaStoragePath, bucket, contentType, header.Filename, caller.ID, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, UploadResponse{AssetID: assetID, URL: url})
}

type AttachAssetRequest struct {
	AssetID string `json:"assetId"`
}

func (s *Server) assetExists(assetID string) (bool, error) {
	var exists bool
	err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM media_assets WHERE id = $1)`, assetID)
	return exists, err
}

// AttachThumbnail points a course at an uploaded asset, releasing the previous
// one. The old blob's deletion is best effort.
func (s *Server) AttachThumbnail(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req AttachAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AssetID == "" {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	course, err := services.CourseByID(s.DB, chi.URLParam(r, "courseId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !services.CanMutateCourse(caller, course) {
		writeServiceError(w, services.ErrForbidden("You can only modify your own courses"))
		return
	}
	exists, err := s.assetExists(req.AssetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !exists {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "Asset not found")
		return
	}
	if _, err := s.DB.Exec(`UPDATE courses SET thumbnail_media_id = $2, updated_at = now() WHERE id = $1`,
		course.ID, req.AssetID); err != nil {
		writeServiceError(w, err)
		return
	}
	if course.ThumbnailMediaID != nil && *course.ThumbnailMediaID != req.AssetID {
		services.DeleteAsset(s.DB, s.Config.MediaStoragePath, *course.ThumbnailMediaID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachVideo mirrors AttachThumbnail for a lesson's video asset.
func (s *Server) AttachVideo(w http.ResponseWriter, r *http.Request) {
	caller, err := s.requireRole(r, services.RoleInstructor, services.RoleAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req AttachAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AssetID == "" {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid payload")
		return
	}
	var lesson models.Lesson
	err = s.DB.Get(&lesson, `SELECT * FROM lessons WHERE id = $1`, chi.URLParam(r, "lessonId"))
	if errors.Is(err, sql.ErrNoRows) {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "Lesson not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	course, err := services.CourseByID(s.DB, lesson.CourseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !services.CanMutateCourse(caller, course) {
		writeServiceError(w, services.ErrForbidden("You can only modify your own courses"))
		return
	}
	exists, err := s.assetExists(req.AssetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !exists {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "Asset not found")
		return
	}
	if _, err := s.DB.Exec(`UPDATE lessons SET video_media_id = $2, updated_at = now() WHERE id = $1`,
		lesson.ID, req.AssetID); err != nil {
		writeServiceError(w, err)
		return
	}
	if lesson.VideoMediaID != nil && *lesson.VideoMediaID != req.AssetID {
		services.DeleteAsset(s.DB, s.Config.MediaStoragePath, *lesson.VideoMediaID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// MediaContent streams an asset's bytes. Handles are unguessable uuids, so the
// endpoint is public; http.ServeFile gets range requests for video playback.
func (s *Server) MediaContent(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetId")
	var asset models.MediaAsset
	err := s.DB.Get(&asset, `SELECT * FROM media_assets WHERE id = $1`, assetID)
	if errors.Is(err, sql.ErrNoRows) {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "Asset not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	path := filepath.Join(s.Config.MediaStoragePath, asset.Bucket, asset.StorageKey)
	if _, err := os.Stat(path); err != nil {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "Asset not found")
		return
	}
	w.Header().Set("Content-Type", asset.ContentType)
	http.ServeFile(w, r, path)
}
