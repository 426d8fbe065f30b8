package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// RenderState provides read-only access to game state for the renderer
type RenderState interface {
	// Home screen
	GetPhotos() []Photo
	GetGrid() *GridLayout
	IsAddButtonVisible() bool

	// Viewer
	IsViewerOpen() bool
	GetViewerPhoto() (Photo, bool)
	GetViewerTransform() TransformState
	GetViewerGeometry() ViewportGeometry

	// Picker
	IsPickerOpen() bool
	GetPicker() *PickerSheet

	// Image data
	GetImage(uri string) (*ebiten.Image, bool)
	GetThumbnail(uri string) (*ebiten.Image, bool)

	// UI state
	IsShowingHelp() bool
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time

	// Display data
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
	GetPreloadStats() PreloadStats
	GetSortMethodName() string
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()
	ToggleHelp()
	ToggleFullscreen()
	ToggleTheme()

	// Selection flow
	OpenPicker()
	ConfirmPicker()
	CancelPicker()

	// Viewer
	CloseViewer()
	ZoomIn()
	ZoomOut()
	ZoomReset()
	PanBy(dirX, dirY float64)

	// Grids; direction is -1 (up) or 1 (down)
	Scroll(direction float64)

	// Pointer gestures (touch or left mouse button)
	HandleGesture(event GestureEvent)

	// Any user interaction
	NotifyInteraction()

	// Messages
	ShowOverlayMessage(message string)
}

// InputState provides read-only access to input-related state
type InputState interface {
	IsViewerOpen() bool
	IsPickerOpen() bool
	IsShowingHelp() bool
}
