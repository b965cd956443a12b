package app

import (
	"context"
	"io"
	"strings"

	"overlay_editor_service/internal/editor/domain"

	"github.com/stretchr/testify/mock"
)

// MockMediaElement mock media element
type MockMediaElement struct {
	mock.Mock
}

// Play mock play
func (m *MockMediaElement) Play() error {
	args := m.Called()
	return args.Error(0)
}

// Pause mock pause
func (m *MockMediaElement) Pause() error {
	args := m.Called()
	return args.Error(0)
}

// Seek mock seek
func (m *MockMediaElement) Seek(t float64) error {
	args := m.Called(t)
	return args.Error(0)
}

// MockRenderService mock render backend
type MockRenderService struct {
	mock.Mock
}

// Health mock health check
func (m *MockRenderService) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Upload mock upload
func (m *MockRenderService) Upload(ctx context.Context, video *domain.VideoAsset, overlays []domain.Overlay) (string, error) {
	args := m.Called(ctx, video, overlays)
	return args.String(0), args.Error(1)
}

// Status mock job status
func (m *MockRenderService) Status(ctx context.Context, jobID string) (*domain.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Job), args.Error(1)
	}
	return nil, args.Error(1)
}

// Result mock result download
func (m *MockRenderService) Result(ctx context.Context, jobID string) (io.ReadCloser, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) != nil {
		return args.Get(0).(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockResultSink mock result sink
type MockResultSink struct {
	mock.Mock
}

// Save mock save, drains r so the caller sees the body consumed
func (m *MockResultSink) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	b, _ := io.ReadAll(r)
	args := m.Called(ctx, name, string(b))
	return args.String(0), args.Error(1)
}

func testVideo() *domain.VideoAsset {
	return &domain.VideoAsset{
		Name:        "clip.mp4",
		Size:        1024,
		ContentType: "video/mp4",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("video-bytes")), nil
		},
	}
}
