package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Pointer ID used for the left mouse button; touch IDs are never negative
const mousePointerID = -1

// InputHandler handles keyboard, mouse and touch input for a frame
type InputHandler struct {
	inputActions        InputActions
	inputState          InputState
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	recognizer          *GestureRecognizer
	now                 func() time.Time

	touchIDs         []ebiten.TouchID
	lastCursorX      int
	lastCursorY      int
	pointerWasActive bool
}

// NewInputHandler creates a new InputHandler. now is the clock gesture timing runs on.
func NewInputHandler(inputActions InputActions, inputState InputState, keybindingManager *KeybindingManager, mousebindingManager *MousebindingManager, now func() time.Time) *InputHandler {
	settings := mousebindingManager.GetSettings()
	if now == nil {
		now = time.Now
	}
	return &InputHandler{
		inputActions:        inputActions,
		inputState:          inputState,
		keybindingManager:   keybindingManager,
		mousebindingManager: mousebindingManager,
		recognizer:          NewGestureRecognizer(float64(settings.DragThreshold), defaultTapTimeout),
		now:                 now,
	}
}

// HandleInput processes all input for the current frame
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput() bool {
	inputProcessed := false

	inputProcessed = h.handleExitKeys() || inputProcessed
	inputProcessed = h.handleHelpToggle() || inputProcessed
	inputProcessed = h.handleBackKeys() || inputProcessed
	inputProcessed = h.handleSelectionKeys() || inputProcessed
	inputProcessed = h.handleDisplayToggles() || inputProcessed
	inputProcessed = h.handleViewerKeys() || inputProcessed
	inputProcessed = h.handleScrollKeys() || inputProcessed
	inputProcessed = h.handlePointers() || inputProcessed
	inputProcessed = h.handleCursorMove() || inputProcessed

	if inputProcessed {
		h.inputActions.NotifyInteraction()
	}
	return inputProcessed
}

// execute runs action if either its keyboard or its mouse binding fired
func (h *InputHandler) execute(action string) bool {
	if h.keybindingManager.ExecuteAction(action, h.inputActions, h.inputState) {
		return true
	}
	return h.mousebindingManager.ExecuteAction(action, h.inputActions, h.inputState)
}

func (h *InputHandler) executeAll(actions ...string) bool {
	processed := false
	for _, action := range actions {
		processed = h.execute(action) || processed
	}
	return processed
}

func (h *InputHandler) handleExitKeys() bool {
	return h.execute("exit")
}

func (h *InputHandler) handleHelpToggle() bool {
	return h.execute("help")
}

func (h *InputHandler) handleBackKeys() bool {
	return h.execute("back")
}

func (h *InputHandler) handleSelectionKeys() bool {
	return h.executeAll("add_photos", "confirm")
}

func (h *InputHandler) handleDisplayToggles() bool {
	return h.executeAll("toggle_theme", "fullscreen")
}

func (h *InputHandler) handleViewerKeys() bool {
	return h.executeAll("zoom_in", "zoom_out", "zoom_reset", "pan_up", "pan_down", "pan_left", "pan_right")
}

func (h *InputHandler) handleScrollKeys() bool {
	return h.executeAll("scroll_up", "scroll_down")
}

// collectPointers returns the active touches, or the cursor while the left button is held
func (h *InputHandler) collectPointers() []PointerSample {
	h.touchIDs = ebiten.AppendTouchIDs(h.touchIDs[:0])

	samples := make([]PointerSample, 0, len(h.touchIDs))
	for _, id := range h.touchIDs {
		x, y := ebiten.TouchPosition(id)
		samples = append(samples, PointerSample{ID: int(id), X: float64(x), Y: float64(y)})
	}

	if len(samples) == 0 && h.mousebindingManager.GetSettings().EnableMouse &&
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		samples = append(samples, PointerSample{ID: mousePointerID, X: float64(x), Y: float64(y)})
	}
	return samples
}

// handlePointers feeds this frame's pointers to the gesture recognizer
func (h *InputHandler) handlePointers() bool {
	samples := h.collectPointers()
	events := h.recognizer.Process(h.now(), samples)
	for _, ev := range events {
		h.inputActions.HandleGesture(ev)
	}

	active := len(samples) > 0
	processed := active || h.pointerWasActive || len(events) > 0
	h.pointerWasActive = active
	return processed
}

// handleCursorMove counts mouse movement as interaction
func (h *InputHandler) handleCursorMove() bool {
	if !h.mousebindingManager.GetSettings().EnableMouse {
		return false
	}
	x, y := ebiten.CursorPosition()
	if x == h.lastCursorX && y == h.lastCursorY {
		return false
	}
	h.lastCursorX, h.lastCursorY = x, y
	return true
}

// ResetGestures drops any gesture in progress, e.g. when a modal opens or closes
func (h *InputHandler) ResetGestures() {
	h.recognizer.Reset()
}
