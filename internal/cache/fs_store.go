package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// NewDiskStore 以 basePath 为根目录构建磁盘缓存，整站复用一份实例。
// 磁盘布局：<basePath>/<sha256 前两位>/<sha256>.entry，文件内容为 entry 编码。
func NewDiskStore(basePath string) (*DiskStore, error) {
	if basePath == "" {
		return nil, errors.New("storage path required")
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage path: %w", err)
	}

	return &DiskStore{
		basePath: abs,
		locks:    make(map[string]*entryLock),
		now:      time.Now,
	}, nil
}

// DiskStore 通过 entryLock 避免同一键并发写入同一个临时文件目录。
type DiskStore struct {
	basePath string
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*entryLock
}

type entryLock struct {
	mu   sync.Mutex
	refs int
}

func (s *DiskStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filePath := s.entryPath(key)
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

	raw, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	value, expired, err := decodeEntry(raw, s.now())
	if err != nil {
		return nil, err
	}
	if expired {
		s.removeExpired(key)
		return nil, ErrNotFound
	}
	return value, nil
}

// Put 先写入同目录临时文件再 rename，保证读者只会看到完整条目。
func (s *DiskStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	unlock := s.lockEntry(key)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	filePath := s.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(filepath.Dir(filePath), ".cache-*")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	_, err = tempFile.Write(encodeEntry(value, ttl, s.now()))
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempName)
		return err
	}

	if err := os.Rename(tempName, filePath); err != nil {
		os.Remove(tempName)
		return err
	}
	return nil
}

func (s *DiskStore) removeExpired(key string) {
	unlock := s.lockEntry(key)
	defer unlock()

	filePath := s.entryPath(key)
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	if _, expired, _ := decodeEntry(raw, s.now()); expired {
		_ = os.Remove(filePath)
	}
}

func (s *DiskStore) lockEntry(key string) func() {
	s.mu.Lock()
	lock := s.locks[key]
	if lock == nil {
		lock = &entryLock{}
		s.locks[key] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

// entryPath 对 key 取哈希，URL 等任意字符串都不会逃出 basePath。
func (s *DiskStore) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	name := hex.EncodeToString(sum[:])
	return filepath.Join(s.basePath, name[:2], name+".entry")
}
