package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PublicPrefix is where the server mounts the upload root.
const PublicPrefix = "/uploads/"

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrOutsideRoot  = errors.New("path is outside the upload directory")
)

// LocalStore saves multipart files under root/<dir>/ and hands back the
// public path ("/uploads/<dir>/<file>") that gets stored on the record.
type LocalStore struct {
	root    string
	maxSize int64
}

func NewLocalStore(root string, maxSize int64) *LocalStore {
	return &LocalStore{root: filepath.Clean(root), maxSize: maxSize}
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Save(dir string, file *multipart.FileHeader) (string, error) {
	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", fmt.Errorf("%w (max %d bytes)", ErrFileTooLarge, s.maxSize)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	uploadDir := filepath.Join(s.root, dir)
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitize(file.Filename))
	dstPath := filepath.Join(uploadDir, filename)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}

	// The header size comes from the client, so the copy enforces the cap too.
	reader := io.Reader(src)
	if s.maxSize > 0 {
		reader = io.LimitReader(src, s.maxSize+1)
	}
	written, err := io.Copy(dst, reader)
	if err == nil && s.maxSize > 0 && written > s.maxSize {
		err = fmt.Errorf("%w (max %d bytes)", ErrFileTooLarge, s.maxSize)
	}
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dstPath)
		return "", err
	}

	return PublicPrefix + dir + "/" + filename, nil
}

// Resolve maps a public path back to a file under dir. Anything that
// escapes root/dir is rejected.
func (s *LocalStore) Resolve(dir, publicPath string) (string, error) {
	rel := strings.TrimPrefix(publicPath, PublicPrefix)
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	base := filepath.Join(s.root, dir) + string(filepath.Separator)
	if !strings.HasPrefix(full, base) {
		return "", ErrOutsideRoot
	}
	return full, nil
}

// Remove deletes the file behind publicPath. A file that is already gone
// is not an error.
func (s *LocalStore) Remove(dir, publicPath string) error {
	full, err := s.Resolve(dir, publicPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func sanitize(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
