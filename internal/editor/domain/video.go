package domain

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	// MaxVideoSize 500MB
	MaxVideoSize int64 = 500 * 1024 * 1024
)

var (
	// ErrNotVideo file is not a video
	ErrNotVideo = errors.New("Please select a valid video file")
	// ErrVideoTooLarge file exceeds the size limit
	ErrVideoTooLarge = errors.New("File size must be less than 500MB")
	// ErrEmptyVideo file has no content
	ErrEmptyVideo = errors.New("file is empty")
)

// VideoAsset base video picked by the user, opened again for every upload
type VideoAsset struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
	// Release drops the staged copy, nil when nothing was staged
	Release func()
}

// Close release the staged copy, safe on nil
func (v *VideoAsset) Close() {
	if v != nil && v.Release != nil {
		v.Release()
	}
}

// Info client view of the asset
func (v *VideoAsset) Info() *VideoInfo {
	if v == nil {
		return nil
	}
	return &VideoInfo{
		Name:        v.Name,
		Size:        v.Size,
		SizeLabel:   FormatFileSize(v.Size),
		ContentType: v.ContentType,
	}
}

// VideoInfo video metadata shown to the user
type VideoInfo struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	SizeLabel   string `json:"sizeLabel"`
	ContentType string `json:"contentType"`
}

// ValidateVideo check type and size, maxSize <= 0 means MaxVideoSize
func ValidateVideo(contentType string, size, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = MaxVideoSize
	}
	if !strings.HasPrefix(contentType, "video/") {
		return ErrNotVideo
	}
	if size <= 0 {
		return ErrEmptyVideo
	}
	if size > maxSize {
		return ErrVideoTooLarge
	}
	return nil
}

// FormatFileSize human readable size, 1536 -> "1.5 KB"
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + sizes[i]
}

// FormatTime seconds as m:ss
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	mins := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%d:%02d", mins, secs)
}
