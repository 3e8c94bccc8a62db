package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var unsafeFileChars = regexp.MustCompile(`[^\w\-.]`)

// SafeFileName returns a timestamped name with anything outside [A-Za-z0-9_.-] replaced.
func SafeFileName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = unsafeFileChars.ReplaceAllString(base, "_")
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%d_%s%s", now.UnixNano(), base, unsafeFileChars.ReplaceAllString(ext, ""))
}

// SaveUpload stores the multipart file under uploadDir/sub and returns its public path /uploads/sub/name.
func SaveUpload(c *gin.Context, file *multipart.FileHeader, uploadDir, sub string) (string, error) {
	dir := filepath.Join(uploadDir, sub)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}
	name := SafeFileName(file.Filename, time.Now())
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return "/uploads/" + sub + "/" + name, nil
}

// RemoveUpload deletes a file previously returned by SaveUpload. Missing files are ignored.
func RemoveUpload(uploadDir, publicPath string) {
	if !strings.HasPrefix(publicPath, "/uploads/") {
		return
	}
	rel := strings.TrimPrefix(publicPath, "/uploads/")
	if strings.Contains(rel, "..") {
		return
	}
	_ = os.Remove(filepath.Join(uploadDir, filepath.FromSlash(rel)))
}
