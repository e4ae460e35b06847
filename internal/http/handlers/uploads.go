package handlers

import (
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"mercadito/internal/domain"
)

var errBadUpload = errors.New("unsupported image type")

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// saveImage stores an uploaded image under mediaDir with a random filename
// and returns the stored name. Extension is allowlisted; everything else is
// rejected before touching disk.
func saveImage(c *fiber.Ctx, fh *multipart.FileHeader, mediaDir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return "", errBadUpload
	}
	name := uuid.NewString() + ext
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return "", err
	}
	if err := c.SaveFile(fh, filepath.Join(mediaDir, name)); err != nil {
		return "", err
	}
	return name, nil
}

// removeImage deletes a stored image unless it is one of the default
// sentinels. Best-effort: a missing file is not an error.
func removeImage(mediaDir, name string) {
	if name == "" || name == domain.DefaultProductImage || name == domain.DefaultAvatar {
		return
	}
	// The name is always server-generated, but keep the traversal guard.
	clean := filepath.Base(name)
	_ = os.Remove(filepath.Join(mediaDir, clean))
}
