package detection

import (
	"context"
	"errors"
	"image"
)

// ErrNoCapture is returned when the binary was built without camera support.
var ErrNoCapture = errors.New("camera capture not available (rebuild with -tags gocv)")

// ErrClosed is returned by Capture and Detect after Close.
var ErrClosed = errors.New("source closed")

// Frame is one captured image. Width and Height are always set; Image may be
// nil for synthetic frames.
type Frame struct {
	Seq    uint64
	Width  int
	Height int
	Image  image.Image
}

// Camera produces frames.
type Camera interface {
	Capture(ctx context.Context) (Frame, error)
	Close() error
}

// Source runs object detection on a frame.
type Source interface {
	Detect(ctx context.Context, frame Frame) ([]Detection, error)
	Close() error
}
