// Package imagestore uploads property photos and returns their public URL.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxImageSize = 5 << 20

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Store uploads an image and returns the URL clients load it from. Delete
// accepts URLs previously returned by Upload and ignores anything else.
type Store interface {
	Upload(ctx context.Context, filename string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, url string) error
}

// Validate checks the extension and size of an upload before it is stored.
func Validate(filename string, size int64) error {
	extension := strings.ToLower(filepath.Ext(filename))
	if extension == "" {
		return fmt.Errorf("image file extension is required")
	}
	if _, ok := allowedExtensions[extension]; !ok {
		return fmt.Errorf("unsupported image type: %s", extension)
	}
	if size > MaxImageSize {
		return fmt.Errorf("image file too large (max 5MB)")
	}
	return nil
}

func objectName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

func contentType(name string) string {
	if ct, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
