package main

import (
	"time"
)

// Default bounce-back duration
const defaultBounceDuration = 300 * time.Millisecond

// TransformField names one scalar of the transform state
type TransformField int

const (
	FieldScale TransformField = iota
	FieldTranslateX
	FieldTranslateY
	fieldCount
)

func (f TransformField) String() string {
	switch f {
	case FieldScale:
		return "scale"
	case FieldTranslateX:
		return "translateX"
	case FieldTranslateY:
		return "translateY"
	default:
		return "unknown"
	}
}

type animationTrack struct {
	from  float64
	to    float64
	start time.Time
}

// Animator drives bounce-back tracks frame by frame. It writes the animated
// value into the transform state on every Step and lands exactly on the target.
type Animator struct {
	state    *TransformState
	duration time.Duration
	tracks   [fieldCount]*animationTrack
}

// NewAnimator creates an Animator bound to a transform state
func NewAnimator(state *TransformState, duration time.Duration) *Animator {
	return &Animator{
		state:    state,
		duration: duration,
	}
}

// SetDuration changes the duration used by tracks started afterwards
func (a *Animator) SetDuration(duration time.Duration) {
	a.duration = duration
}

// AnimateTo starts (or restarts) a track from the field's current value to target.
// The value is not touched until the next Step.
func (a *Animator) AnimateTo(field TransformField, target float64, now time.Time) {
	if field < 0 || field >= fieldCount {
		return
	}

	current := a.state.Get(field)
	if current == target {
		a.tracks[field] = nil
		return
	}
	if a.duration <= 0 {
		a.tracks[field] = nil
		a.state.set(field, target)
		return
	}

	a.tracks[field] = &animationTrack{from: current, to: target, start: now}
	debugLog("Animate %s: %.3f -> %.3f", field, current, target)
}

// Step advances every track to now. Returns true while any track is still running.
func (a *Animator) Step(now time.Time) bool {
	active := false
	for field, track := range a.tracks {
		if track == nil {
			continue
		}

		elapsed := now.Sub(track.start)
		if elapsed >= a.duration {
			a.state.set(TransformField(field), track.to)
			a.tracks[field] = nil
			continue
		}
		if elapsed < 0 {
			elapsed = 0
		}

		t := float64(elapsed) / float64(a.duration)
		a.state.set(TransformField(field), track.from+(track.to-track.from)*easeInOutQuad(t))
		active = true
	}
	return active
}

// Cancel stops the track for field, leaving the current value in place.
// Returns true if a track was running.
func (a *Animator) Cancel(field TransformField) bool {
	if field < 0 || field >= fieldCount || a.tracks[field] == nil {
		return false
	}
	a.tracks[field] = nil
	return true
}

// CancelAll stops every track
func (a *Animator) CancelAll() {
	for i := range a.tracks {
		a.tracks[i] = nil
	}
}

// IsAnimating reports whether field has a running track
func (a *Animator) IsAnimating(field TransformField) bool {
	return field >= 0 && field < fieldCount && a.tracks[field] != nil
}

// Active reports whether any track is running
func (a *Animator) Active() bool {
	for _, track := range a.tracks {
		if track != nil {
			return true
		}
	}
	return false
}

// Target returns the target of a running track
func (a *Animator) Target(field TransformField) (float64, bool) {
	if !a.IsAnimating(field) {
		return 0, false
	}
	return a.tracks[field].to, true
}

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - (-2*t+2)*(-2*t+2)/2
}
