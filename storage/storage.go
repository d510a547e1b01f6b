package storage

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrEmptyFile = errors.New("empty file")

// Local keeps uploads under Root. Stored names are random so two uploads of
// the same file never collide; callers persist the returned relative path.
type Local struct {
	Root string
}

func NewLocal(root string) *Local {
	return &Local{Root: root}
}

// Save copies the uploaded file into dir and returns its path relative to Root.
func (l *Local) Save(fh *multipart.FileHeader, dir string) (string, error) {
	if fh == nil || fh.Size == 0 {
		return "", ErrEmptyFile
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	rel := filepath.ToSlash(filepath.Join(dir, uuid.New().String()+ext))
	full := filepath.Join(l.Root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(full)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(full)
		return "", err
	}
	return rel, dst.Close()
}
