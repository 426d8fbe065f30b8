package main

import (
	"math"
	"sort"
	"time"
)

// Gesture recognition defaults
const (
	defaultDragThreshold = 5.0 // pixels
	defaultTapTimeout    = 300 * time.Millisecond
)

// GestureKind identifies a recognized gesture event
type GestureKind int

const (
	GesturePinchBegin GestureKind = iota
	GesturePinchUpdate
	GesturePinchEnd
	GesturePanBegin
	GesturePanUpdate
	GesturePanEnd
	GestureTap
)

// GestureEvent is one recognized gesture step
type GestureEvent struct {
	Kind GestureKind

	// Pinch: scale factor relative to the start of the gesture
	Scale float64

	// Pan: translation relative to the start of the gesture, and the change since the last update
	TranslationX float64
	TranslationY float64
	DeltaX       float64
	DeltaY       float64

	// Tap position, or the pinch/pan centroid
	X float64
	Y float64
}

// PointerSample is the position of one active pointer (touch or pressed mouse) in a frame
type PointerSample struct {
	ID int
	X  float64
	Y  float64
}

// GestureRecognizer turns per-frame pointer samples into pinch, pan and tap
// events. Pinch and pan are recognized simultaneously.
type GestureRecognizer struct {
	dragThreshold float64
	tapTimeout    time.Duration

	prevCount int

	// Pan
	panActive        bool
	anchorX, anchorY float64 // Centroid the current translation is measured from
	offsetX, offsetY float64 // Translation accumulated before the pointer set last changed
	lastTX, lastTY   float64

	// Pinch
	pinchActive bool
	pinchIDs    [2]int
	pinchDist   float64 // Distance the current pair started at
	pinchBase   float64 // Scale reached before the pair last changed
	lastScale   float64

	// Tap
	tapCandidate bool
	tapStart     time.Time
	tapX, tapY   float64
}

// NewGestureRecognizer creates a recognizer
func NewGestureRecognizer(dragThreshold float64, tapTimeout time.Duration) *GestureRecognizer {
	if dragThreshold <= 0 {
		dragThreshold = defaultDragThreshold
	}
	if tapTimeout <= 0 {
		tapTimeout = defaultTapTimeout
	}
	return &GestureRecognizer{
		dragThreshold: dragThreshold,
		tapTimeout:    tapTimeout,
	}
}

// Active reports whether a pinch or pan is in progress
func (r *GestureRecognizer) Active() bool {
	return r.panActive || r.pinchActive
}

// Process consumes the pointers active in this frame and returns the
// resulting events. Ends are reported before begins and updates.
func (r *GestureRecognizer) Process(now time.Time, samples []PointerSample) []GestureEvent {
	pointers := make([]PointerSample, len(samples))
	copy(pointers, samples)
	sort.Slice(pointers, func(i, j int) bool { return pointers[i].ID < pointers[j].ID })

	var events []GestureEvent
	count := len(pointers)

	events = r.processPinch(pointers, events)
	events = r.processPan(pointers, events)
	events = r.processTap(now, pointers, events)

	r.prevCount = count
	return events
}

func (r *GestureRecognizer) processPinch(pointers []PointerSample, events []GestureEvent) []GestureEvent {
	if len(pointers) < 2 {
		if r.pinchActive {
			r.pinchActive = false
			events = append(events, GestureEvent{Kind: GesturePinchEnd, Scale: r.lastScale})
		}
		return events
	}

	p0, p1 := pointers[0], pointers[1]
	dist := math.Hypot(p1.X-p0.X, p1.Y-p0.Y)
	cx, cy := (p0.X+p1.X)/2, (p0.Y+p1.Y)/2

	if !r.pinchActive {
		r.pinchActive = true
		r.pinchIDs = [2]int{p0.ID, p1.ID}
		r.pinchDist = dist
		r.pinchBase = 1
		r.lastScale = 1
		r.tapCandidate = false
		return append(events, GestureEvent{Kind: GesturePinchBegin, Scale: 1, X: cx, Y: cy})
	}

	if r.pinchIDs != [2]int{p0.ID, p1.ID} {
		// A different pair of fingers took over; continue from the scale reached
		r.pinchIDs = [2]int{p0.ID, p1.ID}
		r.pinchDist = dist
		r.pinchBase = r.lastScale
		return events
	}

	scale := r.pinchBase
	if r.pinchDist > 0 {
		scale = r.pinchBase * dist / r.pinchDist
	}
	if scale == r.lastScale {
		return events
	}
	r.lastScale = scale
	return append(events, GestureEvent{Kind: GesturePinchUpdate, Scale: scale, X: cx, Y: cy})
}

func (r *GestureRecognizer) processPan(pointers []PointerSample, events []GestureEvent) []GestureEvent {
	count := len(pointers)
	if count == 0 {
		if r.panActive {
			r.panActive = false
			events = append(events, GestureEvent{
				Kind:         GesturePanEnd,
				TranslationX: r.lastTX,
				TranslationY: r.lastTY,
			})
		}
		return events
	}

	cx, cy := centroid(pointers)

	if count != r.prevCount {
		// The centroid jumps when fingers are added or lifted; measure from
		// the new centroid and keep the translation reached so far.
		r.anchorX, r.anchorY = cx, cy
		if r.panActive {
			r.offsetX, r.offsetY = r.lastTX, r.lastTY
		} else {
			r.offsetX, r.offsetY = 0, 0
		}
		return events
	}

	tx := r.offsetX + cx - r.anchorX
	ty := r.offsetY + cy - r.anchorY

	if !r.panActive {
		if math.Hypot(tx, ty) < r.dragThreshold {
			return events
		}
		r.panActive = true
		r.tapCandidate = false
		r.lastTX, r.lastTY = 0, 0
		events = append(events, GestureEvent{Kind: GesturePanBegin, X: cx, Y: cy})
	}

	if tx == r.lastTX && ty == r.lastTY {
		return events
	}
	events = append(events, GestureEvent{
		Kind:         GesturePanUpdate,
		TranslationX: tx,
		TranslationY: ty,
		DeltaX:       tx - r.lastTX,
		DeltaY:       ty - r.lastTY,
		X:            cx,
		Y:            cy,
	})
	r.lastTX, r.lastTY = tx, ty
	return events
}

func (r *GestureRecognizer) processTap(now time.Time, pointers []PointerSample, events []GestureEvent) []GestureEvent {
	count := len(pointers)

	switch {
	case count == 1 && r.prevCount == 0:
		r.tapCandidate = true
		r.tapStart = now
		r.tapX, r.tapY = pointers[0].X, pointers[0].Y
	case count > 1:
		r.tapCandidate = false
	case count == 1 && r.tapCandidate:
		if math.Hypot(pointers[0].X-r.tapX, pointers[0].Y-r.tapY) >= r.dragThreshold {
			r.tapCandidate = false
		}
	case count == 0 && r.prevCount > 0:
		if r.tapCandidate && now.Sub(r.tapStart) <= r.tapTimeout {
			events = append(events, GestureEvent{Kind: GestureTap, X: r.tapX, Y: r.tapY})
		}
		r.tapCandidate = false
	}
	return events
}

// Reset abandons any gesture in progress without emitting events
func (r *GestureRecognizer) Reset() {
	*r = GestureRecognizer{
		dragThreshold: r.dragThreshold,
		tapTimeout:    r.tapTimeout,
	}
}

func centroid(pointers []PointerSample) (float64, float64) {
	var sx, sy float64
	for _, p := range pointers {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pointers))
	return sx / n, sy / n
}
