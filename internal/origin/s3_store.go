package origin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/deadlock-api/assets-api/internal/config"
)

// S3Store 读取 S3 兼容存储（Cloudflare R2、MinIO、AWS S3）中的对象。
type S3Store struct {
	client  *minio.Client
	bucket  string
	timeout time.Duration
}

// NewS3Store 根据配置创建 minio 客户端。Endpoint 可以携带 http(s):// 前缀，
// 此时以前缀决定是否启用 TLS。
func NewS3Store(cfg config.OriginConfig, transport http.RoundTripper) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("origin bucket required")
	}

	endpoint, secure := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	if endpoint == "" {
		return nil, errors.New("origin endpoint required")
	}

	opts := &minio.Options{
		Secure:    secure,
		Region:    cfg.Region,
		Transport: transport,
	}
	if cfg.HasCredentials() {
		opts.Creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		opts.Creds = credentials.NewStatic("", "", "", credentials.SignatureAnonymous)
	}

	client, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return NewS3StoreWithClient(client, cfg.Bucket, cfg.Timeout.DurationValue()), nil
}

// NewS3StoreWithClient 复用外部创建的客户端。
func NewS3StoreWithClient(client *minio.Client, bucket string, timeout time.Duration) *S3Store {
	return &S3Store{client: client, bucket: bucket, timeout: timeout}
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// GetObject 是惰性的，请求错误在第一次 Read 时才返回。
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translate(err)
	}
	defer func() {
		_ = obj.Close()
	}()

	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, translate(err)
	}
	return body, nil
}

// translate 只把 NoSuchKey 视为对象缺失，桶不存在或鉴权失败属于配置问题，按错误上报。
func translate(err error) error {
	if err == nil {
		return nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrNotFound
	}
	return fmt.Errorf("minio: %w", err)
}

func splitEndpoint(raw string, useSSL bool) (string, bool) {
	endpoint := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint, useSSL = strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		endpoint, useSSL = strings.TrimPrefix(endpoint, "http://"), false
	}
	return strings.TrimSuffix(endpoint, "/"), useSSL
}
