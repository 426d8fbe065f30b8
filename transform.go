package main

import (
	"math"
	"time"
)

// Default zoom ceiling; the floor of a settled transform is always 1
const (
	defaultMaxScale = 3.0
	minScale        = 1.0
)

// TransformState holds the live transform of the viewed image and the
// snapshot committed at the end of the last gesture.
// It is written only by GestureMapper and Animator.
type TransformState struct {
	Scale      float64
	TranslateX float64
	TranslateY float64

	savedScale      float64
	savedTranslateX float64
	savedTranslateY float64
}

// NewTransformState returns an identity transform
func NewTransformState() *TransformState {
	s := &TransformState{}
	s.Reset()
	return s
}

// Reset returns both the live and saved transform to identity
func (s *TransformState) Reset() {
	s.Scale, s.TranslateX, s.TranslateY = 1, 0, 0
	s.savedScale, s.savedTranslateX, s.savedTranslateY = 1, 0, 0
}

// Get returns the live value of a field
func (s *TransformState) Get(field TransformField) float64 {
	switch field {
	case FieldScale:
		return s.Scale
	case FieldTranslateX:
		return s.TranslateX
	case FieldTranslateY:
		return s.TranslateY
	}
	return 0
}

// Saved returns the committed snapshot
func (s *TransformState) Saved() (scale, translateX, translateY float64) {
	return s.savedScale, s.savedTranslateX, s.savedTranslateY
}

// IsIdentity reports whether live and saved values are both identity
func (s *TransformState) IsIdentity() bool {
	return s.Scale == 1 && s.TranslateX == 0 && s.TranslateY == 0 &&
		s.savedScale == 1 && s.savedTranslateX == 0 && s.savedTranslateY == 0
}

func (s *TransformState) set(field TransformField, v float64) {
	switch field {
	case FieldScale:
		s.Scale = v
	case FieldTranslateX:
		s.TranslateX = v
	case FieldTranslateY:
		s.TranslateY = v
	}
}

func (s *TransformState) commit(field TransformField, v float64) {
	switch field {
	case FieldScale:
		s.savedScale = v
	case FieldTranslateX:
		s.savedTranslateX = v
	case FieldTranslateY:
		s.savedTranslateY = v
	}
}

func (s *TransformState) saved(field TransformField) float64 {
	switch field {
	case FieldScale:
		return s.savedScale
	case FieldTranslateX:
		return s.savedTranslateX
	case FieldTranslateY:
		return s.savedTranslateY
	}
	return 0
}

// GestureMapper turns pinch and pan gesture streams into transform updates.
// Both gestures may be active at once; each handler reads the other's
// committed values straight from the shared state.
type GestureMapper struct {
	state    *TransformState
	animator *Animator
	geometry ViewportGeometry
	maxScale float64
	now      func() time.Time

	pinching bool
	panning  bool
}

// NewGestureMapper creates a mapper over state. now supplies animation start times.
func NewGestureMapper(state *TransformState, animator *Animator, maxScale float64, now func() time.Time) *GestureMapper {
	if maxScale < minScale || math.IsNaN(maxScale) || math.IsInf(maxScale, 0) {
		maxScale = defaultMaxScale
	}
	if now == nil {
		now = time.Now
	}
	return &GestureMapper{
		state:    state,
		animator: animator,
		maxScale: maxScale,
		now:      now,
	}
}

// SetGeometry updates the container the transform is bounded by
func (m *GestureMapper) SetGeometry(g ViewportGeometry) {
	m.geometry = g
}

// Geometry returns the current container
func (m *GestureMapper) Geometry() ViewportGeometry {
	return m.geometry
}

// MaxScale returns the zoom ceiling
func (m *GestureMapper) MaxScale() float64 {
	return m.maxScale
}

// IsPinching reports whether a pinch gesture is in progress
func (m *GestureMapper) IsPinching() bool { return m.pinching }

// IsPanning reports whether a pan gesture is in progress
func (m *GestureMapper) IsPanning() bool { return m.panning }

// Reset drops any gesture in progress and returns the transform to identity
func (m *GestureMapper) Reset() {
	m.animator.CancelAll()
	m.state.Reset()
	m.pinching = false
	m.panning = false
}

// MaxTranslate returns the legal translation range on each axis for scale
func (m *GestureMapper) MaxTranslate(scale float64) (float64, float64) {
	return slack(m.geometry.ContainerWidth, scale), slack(m.geometry.ContainerHeight, scale)
}

// PinchBegin starts a pinch. A running scale bounce-back is abandoned where it is.
func (m *GestureMapper) PinchBegin() {
	m.pinching = true
	m.interrupt(FieldScale)
}

// PinchUpdate applies a scale factor relative to the start of the gesture
func (m *GestureMapper) PinchUpdate(factor float64) {
	if !m.pinching {
		m.PinchBegin()
	}
	m.animator.Cancel(FieldScale)

	if !validDimension(factor) {
		m.state.Scale = minScale
		return
	}
	m.state.Scale = math.Min(m.maxScale, m.state.savedScale*factor)
}

// PinchEnd commits the scale and schedules a bounce-back when it left [1, max]
func (m *GestureMapper) PinchEnd() {
	if !m.pinching {
		return
	}
	m.pinching = false

	s := m.state
	now := m.now()
	s.savedScale = s.Scale

	target := s.Scale
	switch {
	case s.Scale < minScale:
		m.animator.AnimateTo(FieldScale, minScale, now)
		s.savedScale = minScale
		m.animator.AnimateTo(FieldTranslateX, 0, now)
		m.animator.AnimateTo(FieldTranslateY, 0, now)
		s.savedTranslateX = 0
		s.savedTranslateY = 0
		return
	case s.Scale > m.maxScale:
		target = m.maxScale
		m.animator.AnimateTo(FieldScale, m.maxScale, now)
		s.savedScale = m.maxScale
	}

	// With no pan in flight nobody else will pull translation back inside
	// the bounds of the settled scale.
	if !m.panning {
		m.settleTranslation(target, now)
	}
}

// PanBegin starts a pan. Running translation bounce-backs are abandoned where they are.
func (m *GestureMapper) PanBegin() {
	m.panning = true
	m.interrupt(FieldTranslateX, FieldTranslateY)
}

// PanUpdate applies a translation relative to the start of the gesture
func (m *GestureMapper) PanUpdate(translationX, translationY float64) {
	if !m.panning {
		m.PanBegin()
	}
	m.animator.Cancel(FieldTranslateX)
	m.animator.Cancel(FieldTranslateY)

	s := m.state
	s.TranslateX = panAxis(m.geometry.ContainerWidth, s.Scale, s.savedTranslateX, finiteOrZero(translationX))
	s.TranslateY = panAxis(m.geometry.ContainerHeight, s.Scale, s.savedTranslateY, finiteOrZero(translationY))
}

// PanEnd commits the translation and recenters any axis that no longer overflows
func (m *GestureMapper) PanEnd() {
	if !m.panning {
		return
	}
	m.panning = false

	s := m.state
	s.savedTranslateX = s.TranslateX
	s.savedTranslateY = s.TranslateY

	// While a pinch is live its scale is current; while a bounce-back runs
	// the committed scale is where it will land.
	scale := s.Scale
	if !m.pinching && m.animator.IsAnimating(FieldScale) {
		scale = s.savedScale
	}
	m.settleTranslation(scale, m.now())
}

// Resettle pulls a committed translation back inside the bounds of the
// committed scale after the container changed. Gestures in progress settle
// when they end.
func (m *GestureMapper) Resettle() {
	if m.pinching || m.panning {
		return
	}
	m.settleTranslation(m.state.savedScale, m.now())
}

// settleTranslation pulls each axis into the legal range for scale
func (m *GestureMapper) settleTranslation(scale float64, now time.Time) {
	maxX, maxY := m.MaxTranslate(scale)
	m.settleAxis(FieldTranslateX, maxX, now)
	m.settleAxis(FieldTranslateY, maxY, now)
}

func (m *GestureMapper) settleAxis(field TransformField, bound float64, now time.Time) {
	saved := m.state.saved(field)
	clamped := clamp(saved, -bound, bound)
	if clamped == saved && m.state.Get(field) == saved {
		return
	}
	if target, ok := m.animator.Target(field); ok && target == clamped {
		m.state.commit(field, clamped)
		return
	}
	m.animator.AnimateTo(field, clamped, now)
	m.state.commit(field, clamped)
}

// interrupt cancels bounce-backs on fields a new gesture is about to drive.
// The value reached so far becomes the committed value.
func (m *GestureMapper) interrupt(fields ...TransformField) {
	for _, field := range fields {
		if m.animator.Cancel(field) {
			m.state.commit(field, m.state.Get(field))
		}
	}
}

// slack is how far the scaled extent overflows its container on each side
func slack(container, scale float64) float64 {
	return math.Max(0, (container*scale-container)/2)
}

func panAxis(container, scale, saved, delta float64) float64 {
	if container*scale <= container {
		return 0
	}
	limit := slack(container, scale)
	return clamp(saved+delta, -limit, limit)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
