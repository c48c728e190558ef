// Package sink provides present sinks for the viewport orchestrator:
// an in-memory image sink with target-size scaling, used by both the
// HTTP frame endpoint and the interactive viewer.
package sink

import (
	"image"
	"image/png"
	"io"
	"sync"

	"golang.org/x/image/draw"

	viewport "github.com/e7canasta/orion-viewport"
)

// ImageSink keeps the most recent presented frame, scaled to the target
// viewport size. Draft frames (Samples <= 1) are scaled with nearest
// neighbour so the interaction preview stays crisp and cheap; refined
// frames use approximate bilinear.
type ImageSink struct {
	mu      sync.RWMutex
	frame   *image.RGBA
	samples int
	seq     uint64
}

// NewImageSink creates an empty sink. Snapshot returns nil until the
// first Present.
func NewImageSink() *ImageSink {
	return &ImageSink{}
}

// Present implements viewport.PresentSink.
func (s *ImageSink) Present(pb *viewport.PixelBuffer, targetW, targetH int) {
	if pb == nil || pb.Width < 1 || pb.Height < 1 {
		return
	}
	if targetW < 1 {
		targetW = pb.Width
	}
	if targetH < 1 {
		targetH = pb.Height
	}

	src := &image.RGBA{
		Pix:    pb.Pix,
		Stride: pb.Width * 4,
		Rect:   image.Rect(0, 0, pb.Width, pb.Height),
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	if targetW == pb.Width && targetH == pb.Height {
		copy(dst.Pix, pb.Pix)
	} else {
		scaler := draw.Scaler(draw.ApproxBiLinear)
		if pb.Samples <= 1 {
			scaler = draw.NearestNeighbor
		}
		scaler.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
	}

	s.mu.Lock()
	s.frame = dst
	s.samples = pb.Samples
	s.seq++
	s.mu.Unlock()
}

// Snapshot returns the latest scaled frame, its sample count, and a
// sequence number that increases on every Present. The frame is shared,
// not copied; callers must treat it as read-only.
func (s *ImageSink) Snapshot() (frame *image.RGBA, samples int, seq uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame, s.samples, s.seq
}

// EncodePNG writes the latest frame as PNG. Returns false without
// writing when no frame has been presented yet.
func (s *ImageSink) EncodePNG(w io.Writer) (bool, error) {
	s.mu.RLock()
	frame := s.frame
	s.mu.RUnlock()
	if frame == nil {
		return false, nil
	}
	return true, png.Encode(w, frame)
}
