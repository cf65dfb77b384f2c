package s3io

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UploadPrefix is where dashboard-initiated uploads land.
const UploadPrefix = "uploads"

// BuildUploadKey constructs the S3 key for a dashboard upload, keeping the
// original extension so the intake eligibility check still applies.
func BuildUploadKey(userID, uploadID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s/%s%s", UploadPrefix, userID, uploadID, ext)
}

// ParseUploadKey extracts the userID from an upload key, when the object was
// created through the presign path.
func ParseUploadKey(key string) (userID string, ok bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] != UploadPrefix || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
