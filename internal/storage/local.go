package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore keeps blobs on the local filesystem under baseDir and serves
// them at baseURL + "/storage/" + ref.
type LocalStore struct {
	baseDir string
	baseURL string
}

func NewLocalStore(baseDir, baseURL string) *LocalStore {
	return &LocalStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseDir is the filesystem root of the store, exposed for static serving.
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

func (s *LocalStore) Store(area, nameHint string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(nameHint))
	name := uuid.NewString() + ext
	ref := path.Join(area, name)

	dir := filepath.Join(s.baseDir, filepath.FromSlash(area))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage area %q: %w", area, err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return ref, nil
}

func (s *LocalStore) URL(ref string) string {
	return s.baseURL + "/storage/" + ref
}

func (s *LocalStore) Open(ref string) (io.ReadCloser, error) {
	p, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *LocalStore) Delete(ref string) error {
	p, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// resolve maps a reference to a path inside baseDir, rejecting traversal.
func (s *LocalStore) resolve(ref string) (string, error) {
	clean := path.Clean("/" + ref)[1:]
	if clean == "" || clean != ref {
		return "", ErrNotFound
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), nil
}
