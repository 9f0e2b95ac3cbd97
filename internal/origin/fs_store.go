package origin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FSStore 把本地目录当作源站，目录结构与对象存储键一一对应，适合离线部署与测试。
type FSStore struct {
	root string
}

// NewFSStore 校验 root 是一个已存在的目录。
func NewFSStore(root string) (*FSStore, error) {
	if root == "" {
		return nil, errors.New("origin root required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve origin root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat origin root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("origin root %s is not a directory", abs)
	}
	return &FSStore{root: abs}, nil
}

func (s *FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filePath, ok := s.objectPath(key)
	if !ok {
		return nil, ErrNotFound
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// objectPath 拒绝任何会逃出 root 的键，例如语言参数中夹带的 "../"。
func (s *FSStore) objectPath(key string) (string, bool) {
	if key == "" || strings.ContainsRune(key, 0) {
		return "", false
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", false
		}
	}
	clean := path.Clean("/" + key)
	rel := strings.TrimPrefix(clean, "/")
	if rel == "" {
		return "", false
	}
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}
