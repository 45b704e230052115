package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps uploads on disk; used when R2 is not configured.
// Files are served back by the static /uploads route.
type LocalStorage struct {
	Dir     string
	BaseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to ensure upload dir: %w", err)
	}
	return &LocalStorage{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (l *LocalStorage) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	destPath, err := l.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(destPath, body, 0o644); err != nil {
		return "", err
	}
	return l.BaseURL + "/" + filepath.ToSlash(key), nil
}

// pathFor resolves key inside Dir, rejecting keys that escape it.
func (l *LocalStorage) pathFor(key string) (string, error) {
	root := filepath.Clean(l.Dir)
	path := filepath.Join(root, filepath.FromSlash(key))
	if !strings.HasPrefix(path, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal object key: %s", key)
	}
	return path, nil
}
