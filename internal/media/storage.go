package media

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PostsDir is the subdirectory of the media root holding post images
const PostsDir = "posts"

// ErrBadExtension is returned for an extension outside the accepted image set
var ErrBadExtension = errors.New("media: unsupported image extension")

var imageExtensions = map[string]bool{
	".gif":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Storage keeps uploaded files on the local file system under Root and
// serves them under URLPrefix
type Storage struct {
	Root      string
	URLPrefix string
}

// NewStorage creates a storage rooted at root
func NewStorage(root, urlPrefix string) *Storage {
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &Storage{Root: root, URLPrefix: urlPrefix}
}

// SavePostImage writes data under the posts directory with a fresh name
// ending in ext, which must be one of the accepted image extensions. It
// returns the path relative to Root.
func (s *Storage) SavePostImage(ext string, data []byte) (string, error) {
	ext = strings.ToLower(ext)
	if !imageExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrBadExtension, ext)
	}

	dir := filepath.Join(s.Root, PostsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return path.Join(PostsDir, name), nil
}

// URL returns the public URL of a stored file, or "" for an empty path
func (s *Storage) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return s.URLPrefix + strings.TrimPrefix(rel, "/")
}

// Remove deletes a stored file; a missing file is not an error
func (s *Storage) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
