package main

import (
	"context"
	"time"
)

// Default share of the display the viewer container may occupy
const (
	defaultViewerWidthRatio  = 0.9
	defaultViewerHeightRatio = 0.8
)

// ViewerState is the open/closed state of the image viewer
type ViewerState int

const (
	ViewerClosed ViewerState = iota
	ViewerOpen
)

// SizeResolver reports the intrinsic pixel size of the image behind a URI
type SizeResolver interface {
	ResolveSize(ctx context.Context, uri string) (width, height int, err error)
}

// SizeResult delivers an intrinsic-size probe back to the viewer
type SizeResult struct {
	PhotoID string
	Width   int
	Height  int
	Err     error
}

// ViewerOptions configures an ImageViewer
type ViewerOptions struct {
	MaxScale       float64
	BounceDuration time.Duration
	WidthRatio     float64
	HeightRatio    float64
}

// ImageViewer is the full-screen modal that shows one photo with zoom and pan.
// It owns the transform state; all of its methods run on the update goroutine.
type ImageViewer struct {
	state ViewerState
	photo Photo

	transform *TransformState
	animator  *Animator
	mapper    *GestureMapper

	resolver SizeResolver
	results  chan SizeResult
	cancel   context.CancelFunc

	intrinsicW, intrinsicH float64
	displayW, displayH     float64
	widthRatio             float64
	heightRatio            float64
}

// NewImageViewer creates a closed viewer
func NewImageViewer(resolver SizeResolver, opts ViewerOptions, now func() time.Time) *ImageViewer {
	if opts.WidthRatio <= 0 || opts.WidthRatio > 1 {
		opts.WidthRatio = defaultViewerWidthRatio
	}
	if opts.HeightRatio <= 0 || opts.HeightRatio > 1 {
		opts.HeightRatio = defaultViewerHeightRatio
	}
	if opts.BounceDuration <= 0 {
		opts.BounceDuration = defaultBounceDuration
	}

	transform := NewTransformState()
	animator := NewAnimator(transform, opts.BounceDuration)
	return &ImageViewer{
		transform:   transform,
		animator:    animator,
		mapper:      NewGestureMapper(transform, animator, opts.MaxScale, now),
		resolver:    resolver,
		results:     make(chan SizeResult, 8),
		widthRatio:  opts.WidthRatio,
		heightRatio: opts.HeightRatio,
	}
}

// Open shows photo with an identity transform and starts resolving its size
func (v *ImageViewer) Open(photo Photo) {
	v.stopResolve()

	v.state = ViewerOpen
	v.photo = photo
	v.mapper.Reset()
	v.intrinsicW, v.intrinsicH = 0, 0
	v.updateGeometry()

	if v.resolver == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	go v.resolve(ctx, photo)
}

func (v *ImageViewer) resolve(ctx context.Context, photo Photo) {
	w, h, err := v.resolver.ResolveSize(ctx, photo.URI)
	select {
	case v.results <- SizeResult{PhotoID: photo.ID, Width: w, Height: h, Err: err}:
	case <-ctx.Done():
	}
}

// Close hides the viewer. The photo collection is not touched.
func (v *ImageViewer) Close() {
	if v.state == ViewerClosed {
		return
	}
	v.stopResolve()
	v.state = ViewerClosed
	v.photo = Photo{}
	v.animator.CancelAll()
}

func (v *ImageViewer) stopResolve() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// IsOpen reports whether a photo is showing
func (v *ImageViewer) IsOpen() bool {
	return v.state == ViewerOpen
}

// State returns the viewer state
func (v *ImageViewer) State() ViewerState {
	return v.state
}

// Photo returns the photo being shown
func (v *ImageViewer) Photo() (Photo, bool) {
	return v.photo, v.state == ViewerOpen
}

// ApplySize records a resolved intrinsic size. Results for any photo other
// than the one currently open are discarded.
func (v *ImageViewer) ApplySize(res SizeResult) bool {
	if v.state != ViewerOpen || res.PhotoID != v.photo.ID {
		debugLog("Discarding stale size result for %s", res.PhotoID)
		return false
	}
	if res.Err != nil {
		debugLog("Size resolution failed for %s, keeping fallback geometry: %v", res.PhotoID, res.Err)
		return false
	}
	if res.Width <= 0 || res.Height <= 0 {
		return false
	}

	v.intrinsicW, v.intrinsicH = float64(res.Width), float64(res.Height)
	v.updateGeometry()
	return true
}

// SetDisplayArea updates the available display size
func (v *ImageViewer) SetDisplayArea(w, h float64) {
	if w == v.displayW && h == v.displayH {
		return
	}
	v.displayW, v.displayH = w, h
	v.updateGeometry()
}

func (v *ImageViewer) updateGeometry() {
	maxW, maxH := ViewerBox(v.displayW, v.displayH, v.widthRatio, v.heightRatio)
	v.mapper.SetGeometry(ResolveViewportGeometry(v.intrinsicW, v.intrinsicH, maxW, maxH))
	if v.state == ViewerOpen {
		v.mapper.Resettle()
	}
}

// Update applies finished size probes and advances bounce-back animations
func (v *ImageViewer) Update(now time.Time) {
drain:
	for {
		select {
		case res := <-v.results:
			v.ApplySize(res)
		default:
			break drain
		}
	}
	v.animator.Step(now)
}

// HandleTap closes the viewer when the tap lands outside the image.
// Returns true if the viewer closed.
func (v *ImageViewer) HandleTap(x, y float64) bool {
	if v.state != ViewerOpen {
		return false
	}
	if v.Geometry().Contains(v.displayW, v.displayH, x, y) {
		return false
	}
	v.Close()
	return true
}

// Geometry returns the container the image is fitted into
func (v *ImageViewer) Geometry() ViewportGeometry {
	return v.mapper.Geometry()
}

// Transform returns a copy of the current transform
func (v *ImageViewer) Transform() TransformState {
	return *v.transform
}

// Mapper returns the gesture mapper that drives the transform
func (v *ImageViewer) Mapper() *GestureMapper {
	return v.mapper
}

// IsAnimating reports whether a bounce-back is running
func (v *ImageViewer) IsAnimating() bool {
	return v.animator.Active()
}
