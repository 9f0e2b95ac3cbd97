package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltStore 是基于 bbolt 的本地持久化缓存，单个事务内整体写入条目。
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
	now    func() time.Time
}

// OpenBolt 打开（必要时创建）path 处的数据库，bucket 为空时使用 "cache"。
func OpenBolt(path, bucket string) (*BoltStore, error) {
	if path == "" {
		return nil, errors.New("bolt path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if bucket == "" {
		bucket = "cache"
	}
	name := []byte(bucket)
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db, bucket: name, now: time.Now}, nil
}

// Close 关闭底层数据库。
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BoltStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		value   []byte
		expired bool
		found   bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(s.bucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		found = true
		var decodeErr error
		// raw 仅在事务内有效，decodeEntry 会复制一份。
		value, expired, decodeErr = decodeEntry(raw, s.now())
		return decodeErr
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	if expired {
		_ = s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(s.bucket)
			raw := b.Get([]byte(key))
			if raw == nil {
				return nil
			}
			if _, stillExpired, _ := decodeEntry(raw, s.now()); !stillExpired {
				return nil
			}
			return b.Delete([]byte(key))
		})
		return nil, ErrNotFound
	}
	return value, nil
}

func (s *BoltStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := encodeEntry(value, ttl, s.now())
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), entry)
	})
}
