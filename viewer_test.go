package main

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

// fakeResolver answers size probes from a table. Probes for URIs listed in
// block wait until the context is cancelled.
type fakeResolver struct {
	mu    sync.Mutex
	sizes map[string][2]int
	block map[string]bool
	calls []string
}

func (r *fakeResolver) ResolveSize(ctx context.Context, uri string) (int, int, error) {
	r.mu.Lock()
	r.calls = append(r.calls, uri)
	size, ok := r.sizes[uri]
	blocked := r.block[uri]
	r.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return 0, 0, ctx.Err()
	}
	if !ok {
		return 0, 0, errors.New("no such image")
	}
	return size[0], size[1], nil
}

func newTestViewer(resolver SizeResolver) (*ImageViewer, *fakeClock) {
	clock := newFakeClock()
	v := NewImageViewer(resolver, ViewerOptions{MaxScale: defaultMaxScale, BounceDuration: testBounce}, clock.Now)
	v.SetDisplayArea(480, 800)
	return v, clock
}

var fallbackGeometry = ViewportGeometry{ContainerWidth: 432, ContainerHeight: 640}

func TestImageViewerStateMachine(t *testing.T) {
	v, _ := newTestViewer(nil)
	if v.IsOpen() || v.State() != ViewerClosed {
		t.Fatal("new viewer is not closed")
	}

	photo := Photo{ID: "a", URI: "/lib/a.png"}
	v.Open(photo)
	if !v.IsOpen() || v.State() != ViewerOpen {
		t.Fatal("Open() did not open the viewer")
	}
	if got, ok := v.Photo(); !ok || got != photo {
		t.Errorf("Photo() = %+v, %v; want %+v, true", got, ok, photo)
	}
	if v.Geometry() != fallbackGeometry {
		t.Errorf("Geometry() before size resolves = %+v, want %+v", v.Geometry(), fallbackGeometry)
	}

	v.Close()
	if v.IsOpen() {
		t.Error("Close() left the viewer open")
	}
	if _, ok := v.Photo(); ok {
		t.Error("Photo() reports a photo after Close()")
	}
	v.Close()
}

func TestImageViewerResetOnReopen(t *testing.T) {
	v, clock := newTestViewer(nil)
	v.Open(Photo{ID: "a", URI: "a"})
	v.ApplySize(SizeResult{PhotoID: "a", Width: 400, Height: 200})

	m := v.Mapper()
	m.PinchBegin()
	m.PinchUpdate(2.5)
	m.PinchEnd()
	m.PanBegin()
	m.PanUpdate(120, 40)
	m.PanEnd()
	m.PinchBegin()
	m.PinchUpdate(0.2)
	m.PinchEnd()
	v.Update(clock.Advance(testBounce / 3))
	if !v.IsAnimating() {
		t.Fatal("expected a bounce-back in flight")
	}

	v.Close()
	v.Open(Photo{ID: "b", URI: "b"})

	got := v.Transform()
	if got.Scale != 1 || got.TranslateX != 0 || got.TranslateY != 0 || !got.IsIdentity() {
		t.Errorf("transform after reopening = %+v, want identity", got)
	}
	if v.IsAnimating() {
		t.Error("bounce-back survived reopening")
	}

	v.Update(clock.Advance(time.Second))
	if got := v.Transform(); !got.IsIdentity() {
		t.Errorf("transform after a frame = %+v, want identity", got)
	}
}

func TestImageViewerApplySize(t *testing.T) {
	tests := []struct {
		name    string
		result  SizeResult
		applied bool
		want    ViewportGeometry
	}{
		{"Current photo", SizeResult{PhotoID: "b", Width: 400, Height: 200}, true, ViewportGeometry{ContainerWidth: 432, ContainerHeight: 216}},
		{"Stale photo", SizeResult{PhotoID: "a", Width: 400, Height: 200}, false, fallbackGeometry},
		{"Failed probe", SizeResult{PhotoID: "b", Err: errors.New("decode failed")}, false, fallbackGeometry},
		{"Zero size", SizeResult{PhotoID: "b", Width: 0, Height: 200}, false, fallbackGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newTestViewer(nil)
			v.Open(Photo{ID: "a", URI: "a"})
			v.Open(Photo{ID: "b", URI: "b"})

			if got := v.ApplySize(tt.result); got != tt.applied {
				t.Errorf("ApplySize() = %v, want %v", got, tt.applied)
			}
			if v.Geometry() != tt.want {
				t.Errorf("Geometry() = %+v, want %+v", v.Geometry(), tt.want)
			}
		})
	}

	v, _ := newTestViewer(nil)
	v.Open(Photo{ID: "a", URI: "a"})
	v.Close()
	if v.ApplySize(SizeResult{PhotoID: "a", Width: 10, Height: 10}) {
		t.Error("ApplySize() after Close() was applied")
	}
}

func TestImageViewerResolvesAsynchronously(t *testing.T) {
	resolver := &fakeResolver{
		sizes: map[string][2]int{"/lib/wide.png": {400, 200}},
		block: map[string]bool{"/lib/slow.png": true},
	}
	v, clock := newTestViewer(resolver)

	// A probe that never finishes leaves the fallback in place
	v.Open(Photo{ID: "slow", URI: "/lib/slow.png"})
	v.Update(clock.Now())
	if v.Geometry() != fallbackGeometry {
		t.Errorf("Geometry() while resolving = %+v, want fallback", v.Geometry())
	}

	v.Open(Photo{ID: "wide", URI: "/lib/wide.png"})
	want := ViewportGeometry{ContainerWidth: 432, ContainerHeight: 216}
	deadline := time.Now().Add(2 * time.Second)
	for v.Geometry() != want && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
		v.Update(clock.Now())
	}
	if v.Geometry() != want {
		t.Errorf("Geometry() = %+v, want %+v", v.Geometry(), want)
	}

	// A failed probe keeps the fallback
	v.Open(Photo{ID: "missing", URI: "/lib/missing.png"})
	time.Sleep(20 * time.Millisecond)
	v.Update(clock.Now())
	if v.Geometry() != fallbackGeometry {
		t.Errorf("Geometry() after a failed probe = %+v, want fallback", v.Geometry())
	}
	if !v.IsOpen() {
		t.Error("a failed probe closed the viewer")
	}
}

func TestImageViewerHandleTap(t *testing.T) {
	v, _ := newTestViewer(nil)
	if v.HandleTap(0, 0) {
		t.Error("HandleTap() on a closed viewer reported a close")
	}

	v.Open(Photo{ID: "a", URI: "a"})
	v.ApplySize(SizeResult{PhotoID: "a", Width: 400, Height: 200})
	// 432x216 centered on 480x800: x in [24, 456], y in [292, 508]

	if v.HandleTap(240, 400) {
		t.Error("tap on the image closed the viewer")
	}
	if !v.IsOpen() {
		t.Fatal("viewer closed by a tap on the image")
	}

	if !v.HandleTap(240, 100) {
		t.Error("tap outside the image did not close the viewer")
	}
	if v.IsOpen() {
		t.Error("viewer still open after tapping outside")
	}
}

func TestImageViewerDisplayResize(t *testing.T) {
	v, _ := newTestViewer(nil)
	v.Open(Photo{ID: "a", URI: "a"})
	v.ApplySize(SizeResult{PhotoID: "a", Width: 400, Height: 200})

	v.SetDisplayArea(1000, 1000)
	want := ViewportGeometry{ContainerWidth: 900, ContainerHeight: 450}
	if v.Geometry() != want {
		t.Errorf("Geometry() after resize = %+v, want %+v", v.Geometry(), want)
	}
}

func zoomAndPan(v *ImageViewer, dx, dy float64) {
	m := v.Mapper()
	m.PinchBegin()
	m.PinchUpdate(3)
	m.PinchEnd()
	m.PanBegin()
	m.PanUpdate(dx, dy)
	m.PanEnd()
}

func TestImageViewerResettlesOnGeometryChange(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(v *ImageViewer)
		change       func(v *ImageViewer)
		wantGeometry ViewportGeometry
		wantX, wantY float64
	}{
		{
			name:         "Size resolves after zooming",
			setup:        func(v *ImageViewer) { zoomAndPan(v, 400, 0) },
			change:       func(v *ImageViewer) { v.ApplySize(SizeResult{PhotoID: "a", Width: 100, Height: 400}) },
			wantGeometry: ViewportGeometry{ContainerWidth: 160, ContainerHeight: 640},
			wantX:        160,
			wantY:        0,
		},
		{
			name: "Display shrinks",
			setup: func(v *ImageViewer) {
				v.ApplySize(SizeResult{PhotoID: "a", Width: 400, Height: 200})
				zoomAndPan(v, 400, 100)
			},
			change:       func(v *ImageViewer) { v.SetDisplayArea(200, 1000) },
			wantGeometry: ViewportGeometry{ContainerWidth: 180, ContainerHeight: 90},
			wantX:        180,
			wantY:        90,
		},
		{
			name: "Display grows",
			setup: func(v *ImageViewer) {
				v.ApplySize(SizeResult{PhotoID: "a", Width: 400, Height: 200})
				zoomAndPan(v, 400, 100)
			},
			change:       func(v *ImageViewer) { v.SetDisplayArea(1000, 1000) },
			wantGeometry: ViewportGeometry{ContainerWidth: 900, ContainerHeight: 450},
			wantX:        400,
			wantY:        100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, clock := newTestViewer(nil)
			v.Open(Photo{ID: "a", URI: "a"})
			tt.setup(v)
			v.Update(clock.Advance(time.Second))

			tt.change(v)
			if g := v.Geometry(); math.Abs(g.ContainerWidth-tt.wantGeometry.ContainerWidth) > floatTolerance ||
				math.Abs(g.ContainerHeight-tt.wantGeometry.ContainerHeight) > floatTolerance {
				t.Fatalf("Geometry() = %+v, want %+v", g, tt.wantGeometry)
			}

			tr := v.Transform()
			scale, savedX, savedY := tr.Saved()
			maxX, maxY := v.Mapper().MaxTranslate(scale)
			if math.Abs(savedX) > maxX+floatTolerance || math.Abs(savedY) > maxY+floatTolerance {
				t.Errorf("committed translation (%v, %v) outside (%v, %v)", savedX, savedY, maxX, maxY)
			}

			v.Update(clock.Advance(time.Second))
			tr = v.Transform()
			if tr.Scale != 3 || math.Abs(tr.TranslateX-tt.wantX) > floatTolerance || math.Abs(tr.TranslateY-tt.wantY) > floatTolerance {
				t.Errorf("settled transform = %+v, want scale 3 translate (%v, %v)", tr, tt.wantX, tt.wantY)
			}
			if v.IsAnimating() {
				t.Error("bounce-back still running after settling")
			}
		})
	}
}

func TestImageViewerGeometryChangeDuringPan(t *testing.T) {
	v, clock := newTestViewer(nil)
	v.Open(Photo{ID: "a", URI: "a"})
	m := v.Mapper()
	m.PinchBegin()
	m.PinchUpdate(3)
	m.PinchEnd()
	m.PanBegin()
	m.PanUpdate(400, 0)

	// The pan in progress owns the translation until it ends
	v.ApplySize(SizeResult{PhotoID: "a", Width: 100, Height: 400})
	if tr := v.Transform(); tr.TranslateX != 400 || v.IsAnimating() {
		t.Errorf("translation during pan = %v, animating %v; want 400, false", tr.TranslateX, v.IsAnimating())
	}

	m.PanEnd()
	v.Update(clock.Advance(time.Second))
	if tr := v.Transform(); math.Abs(tr.TranslateX-160) > floatTolerance {
		t.Errorf("translation after pan end = %v, want 160", tr.TranslateX)
	}
}
