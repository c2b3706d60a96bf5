package sellout

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStore keeps uploaded reports in a local folder until the wizard commits
// or cancels them. Names are sanitized and prefixed so concurrent uploads of
// the same report never collide.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{Dir: dir}, nil
}

// Save writes the upload to disk and returns its full path.
func (s *FileStore) Save(name string, r io.Reader) (string, error) {
	name = fmt.Sprintf("%d_%s_%s", time.Now().Unix(), uuid.New().String()[:8], sanitizeName(name))
	path := filepath.Join(s.Dir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Remove deletes an uploaded file. A file already gone is not an error: the
// commit path and the expiry sweep may race over the same temp file.
func (s *FileStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// sanitizeName keeps the filename shell- and filesystem-safe.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
