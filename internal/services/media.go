package services

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Local blob store backing course thumbnails, lesson videos and avatars.
// Handles are media_assets ids; URLs resolve through the content endpoint.
const (
	BucketThumbnails = "thumbnails"
	BucketVideos     = "videos"
	BucketAvatars    = "avatars"
)

func ValidBucket(bucket string) bool {
	switch bucket {
	case BucketThumbnails, BucketVideos, BucketAvatars:
		return true
	}
	return false
}

func EnsureStoragePath(base, bucket string) (string, error) {
	path := filepath.Join(base, bucket)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", err
	}
	return path, nil
}

// SaveMediaAsset streams the body to disk, records the asset row and returns
// the new handle with its resolvable URL. An empty body is rejected.
func SaveMediaAsset(db *sqlx.DB, basePath, bucket, contentType, filename, ownerID string, body io.Reader) (string, string, error) {
	assetID := uuid.NewString()
	bucketPath, err := EnsureStoragePath(basePath, bucket)
	if err != nil {
		return "", "", err
	}
	targetPath := filepath.Join(bucketPath, assetID)

	file, err := os.Create(targetPath)
	if err != nil {
		return "", "", err
	}
	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(file, hasher), body)
	_ = file.Close()
	if err != nil {
		_ = os.Remove(targetPath)
		return "", "", err
	}
	if size == 0 {
		_ = os.Remove(targetPath)
		return "", "", ErrBadRequest("Uploaded file is empty")
	}
	sha := hex.EncodeToString(hasher.Sum(nil))

	_, err = db.Exec(`
INSERT INTO media_assets (id, owner_account_id, bucket, storage_key, filename, content_type, size_bytes, sha256, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, assetID, ownerID, bucket, assetID, nullIfBlank(filename), contentType, size, sha, time.Now().UTC())
	if err != nil {
		_ = os.Remove(targetPath)
		return "", "", err
	}
	return assetID, BuildAssetURL(assetID), nil
}

func BuildAssetURL(assetID string) string {
	return "/media/assets/" + assetID + "/content"
}

// DeleteAsset removes the row and the file. Best effort: replacing a
// thumbnail or video must succeed even when the old blob cannot be deleted,
// so failures are logged and swallowed.
func DeleteAsset(db *sqlx.DB, basePath, assetID string) {
	var asset struct {
		Bucket     string `db:"bucket"`
		StorageKey string `db:"storage_key"`
	}
	if err := db.Get(&asset, `SELECT bucket, storage_key FROM media_assets WHERE id = $1`, assetID); err != nil {
		log.Printf("media delete %s: lookup: %v", assetID, err)
		return
	}
	if _, err := db.Exec(`DELETE FROM media_assets WHERE id = $1`, assetID); err != nil {
		log.Printf("media delete %s: row: %v", assetID, err)
		return
	}
	if err := os.Remove(filepath.Join(basePath, asset.Bucket, asset.StorageKey)); err != nil && !os.IsNotExist(err) {
		log.Printf("media delete %s: file: %v", assetID, err)
	}
}

func nullIfBlank(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
