package storage

import (
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ImageDir returns the relative directory for the images of one post.
//
// Example:
//
//	authorID: 7, postID: 42
//	result: "7/42"
func ImageDir(authorID, postID int64) string {
	return path.Join(strconv.FormatInt(authorID, 10), strconv.FormatInt(postID, 10))
}

// ImageKey returns the relative storage key for an image file.
// Keys always use forward slashes; backends translate them as needed.
//
// Example:
//
//	authorID: 7, postID: 42, fileName: "1700000000000-5f1c....png"
//	result: "7/42/1700000000000-5f1c....png"
func ImageKey(authorID, postID int64, fileName string) string {
	return path.Join(ImageDir(authorID, postID), fileName)
}

// GenerateFileName builds a unique file name from the upload time in epoch
// milliseconds and the extension of the original name. The random suffix keeps
// files uploaded in the same millisecond apart.
//
// Example:
//
//	now: 2024-01-01T00:00:00Z, originalName: "cat.JPG"
//	result: "1704067200000-0b6a1c3e-....JPG"
func GenerateFileName(now time.Time, originalName string) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + uuid.NewString() + filepath.Ext(originalName)
}
