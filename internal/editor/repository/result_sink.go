package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"overlay_editor_service/pkg/database"
	"overlay_editor_service/pkg/logger"

	"go.uber.org/zap"
)

// ResultSink where a downloaded render result is saved
type ResultSink interface {
	// Save store r as name, returns where the result can be picked up
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

type fileSink struct {
	dir string
}

// NewFileSink save results into dir
func NewFileSink(dir string) (ResultSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sink dir [%s] failed: %w", dir, err)
	}
	return &fileSink{dir: dir}, nil
}

// Save write to a temp file, rename into place once complete.
// The temp file never outlives the call.
func (s *fileSink) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	name = filepath.Base(name)
	tmp, err := os.CreateTemp(s.dir, "."+name+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp file failed: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, ctxReader{ctx: ctx, r: r}); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write [%s] failed: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close [%s] failed: %w", name, err)
	}

	dest := filepath.Join(s.dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("rename [%s] failed: %w", name, err)
	}
	logger.Log.Info("result saved", zap.String("path", dest))
	return dest, nil
}

type minioSink struct {
	client *database.MinIOClient
	expiry time.Duration
}

// NewMinIOSink save results into a minio bucket, Save returns a presigned url
func NewMinIOSink(client *database.MinIOClient, expiry time.Duration) ResultSink {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &minioSink{client: client, expiry: expiry}
}

func (s *minioSink) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	size, err := s.client.PutStream(ctx, name, r, "video/mp4")
	if err != nil {
		return "", err
	}
	u, err := s.client.PresignGetURL(ctx, name, s.expiry)
	if err != nil {
		return "", err
	}
	logger.Log.Info("result uploaded", zap.String("bucket", s.client.BucketName), zap.String("object", name), zap.Int64("size", size))
	return u, nil
}

// ctxReader stop copying once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
