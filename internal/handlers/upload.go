package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	maxUploadSize    = 5 * 1024 * 1024
	maxProductImages = 5
)

// saveUploadedImages validates and stores multipart image uploads, returning
// the public /uploads/... paths in upload order.
func saveUploadedImages(c *fiber.Ctx, uploadDir string, files []*multipart.FileHeader, max int) ([]string, error) {
	if len(files) > max {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("at most %d images allowed", max))
	}

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		if file.Size > maxUploadSize {
			return nil, fiber.NewError(fiber.StatusBadRequest, "file too large, maximum size is 5MB")
		}

		if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
			return nil, fiber.NewError(fiber.StatusBadRequest, "only image files are allowed")
		}

		name := uuid.NewString() + filepath.Ext(file.Filename)
		if err := c.SaveFile(file, filepath.Join(uploadDir, name)); err != nil {
			return nil, err
		}

		urls = append(urls, "/uploads/"+name)
	}

	return urls, nil
}
