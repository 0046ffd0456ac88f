package imagestore

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const uploadsPrefix = "uploads/properties/"

// Disk stores images under a public directory served by the HTTP router.
type Disk struct {
	root    string
	baseURL string
}

// NewDisk stores files below root/uploads/properties. baseURL is prefixed to
// the relative path, e.g. "/public".
func NewDisk(root, baseURL string) *Disk {
	return &Disk{root: filepath.Clean(root), baseURL: strings.TrimRight(baseURL, "/")}
}

func (d *Disk) Upload(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	if err := Validate(filename, size); err != nil {
		return "", err
	}

	name := objectName(filename)
	dir := filepath.Join(d.root, filepath.FromSlash(uploadsPrefix))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[UPLOAD] [ERROR] failed to create directory %s: %v", dir, err)
		return "", err
	}

	fullPath := filepath.Join(dir, name)
	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] [ERROR] failed to create file %s: %v", fullPath, err)
		return "", err
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(r, MaxImageSize+1))
	if err == nil && written > MaxImageSize {
		err = fmt.Errorf("image file too large (max 5MB)")
	}
	if err != nil {
		log.Printf("[UPLOAD] [ERROR] failed to save file %s: %v", fullPath, err)
		out.Close()
		_ = os.Remove(fullPath)
		return "", err
	}

	log.Printf("[UPLOAD] [INFO] stored %s as %s", filename, fullPath)
	return d.baseURL + "/" + uploadsPrefix + name, nil
}

func (d *Disk) Delete(ctx context.Context, url string) error {
	trimmed := strings.TrimSpace(strings.TrimPrefix(url, d.baseURL))
	if trimmed == "" {
		return nil
	}

	cleanRel := strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(trimmed, "/")), "/")
	if !strings.HasPrefix(cleanRel, uploadsPrefix) {
		return fmt.Errorf("refusing to delete non-upload path: %s", url)
	}

	target := filepath.Clean(filepath.Join(d.root, filepath.FromSlash(cleanRel)))
	if !strings.HasPrefix(target, d.root+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside upload root: %s", url)
	}

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
