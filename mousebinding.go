package main

import (
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	WheelSensitivity float64 `json:"wheel_sensitivity"`
	DoubleClickTime  int     `json:"double_click_time"` // milliseconds
	DragThreshold    int     `json:"drag_threshold"`    // pixels before a press becomes a pan
	EnableMouse      bool    `json:"enable_mouse"`
	WheelInverted    bool    `json:"wheel_inverted"`
	ZoomStep         float64 `json:"zoom_step"`   // Pinch factor applied per zoom action
	ScrollStep       float64 `json:"scroll_step"` // Grid pixels per scroll action
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1.0,
		DoubleClickTime:  300,
		DragThreshold:    int(defaultDragThreshold),
		EnableMouse:      true,
		WheelInverted:    false,
		ZoomStep:         1.25,
		ScrollStep:       60,
	}
}

// MouseCombination represents a mouse action with optional modifiers
type MouseCombination struct {
	Button        ebiten.MouseButton
	IsWheel       bool
	WheelDeltaX   float64
	WheelDeltaY   float64
	IsDoubleClick bool
	Shift         bool
	Ctrl          bool
	Alt           bool
}

// DoubleClickTracker tracks double-click state
type DoubleClickTracker struct {
	lastClickTime   time.Time
	lastClickButton ebiten.MouseButton
	clickCount      int
}

// MousebindingManager handles dynamic mouse binding processing
type MousebindingManager struct {
	mousebindings      map[string][]string
	parsed             map[string][]MouseCombination
	settings           MouseSettings
	doubleClickTracker DoubleClickTracker
}

// NewMousebindingManager creates a new MousebindingManager
func NewMousebindingManager(mousebindings map[string][]string, settings MouseSettings) *MousebindingManager {
	mm := &MousebindingManager{settings: settings}
	mm.UpdateMousebindings(mousebindings)
	return mm
}

// getMouseMapping returns a mapping from string mouse actions to Ebiten mouse buttons
func getMouseMapping() map[string]ebiten.MouseButton {
	return map[string]ebiten.MouseButton{
		"LeftClick":   ebiten.MouseButtonLeft,
		"RightClick":  ebiten.MouseButtonRight,
		"MiddleClick": ebiten.MouseButtonMiddle,
		"Back":        ebiten.MouseButton3, // Side button
		"Forward":     ebiten.MouseButton4, // Side button
	}
}

// parseMouseString parses a mouse string like "Ctrl+WheelUp" or "DoubleLeftClick" into a MouseCombination
func parseMouseString(mouseStr string, mouseMapping map[string]ebiten.MouseButton) (MouseCombination, bool) {
	parts := strings.Split(mouseStr, "+")
	actionName := parts[len(parts)-1]

	combination := MouseCombination{}
	switch actionName {
	case "WheelUp":
		combination.IsWheel, combination.WheelDeltaY = true, 1
	case "WheelDown":
		combination.IsWheel, combination.WheelDeltaY = true, -1
	case "WheelLeft":
		combination.IsWheel, combination.WheelDeltaX = true, -1
	case "WheelRight":
		combination.IsWheel, combination.WheelDeltaX = true, 1
	default:
		if strings.HasPrefix(actionName, "Double") {
			combination.IsDoubleClick = true
			actionName = strings.TrimPrefix(actionName, "Double")
		}
		button, exists := mouseMapping[actionName]
		if !exists {
			return MouseCombination{}, false
		}
		combination.Button = button
	}

	combination.Shift, combination.Ctrl, combination.Alt = parseModifiers(parts[:len(parts)-1])
	return combination, true
}

// wheelMatches reports whether the wheel moved in the combination's direction this frame
func (mm *MousebindingManager) wheelMatches(combination MouseCombination) bool {
	wheelX, wheelY := ebiten.Wheel()
	if mm.settings.WheelInverted {
		wheelY = -wheelY
	}
	wheelX *= mm.settings.WheelSensitivity
	wheelY *= mm.settings.WheelSensitivity

	if combination.WheelDeltaX != 0 {
		return wheelX*combination.WheelDeltaX > 0
	}
	return wheelY*combination.WheelDeltaY > 0
}

// isMouseActionTriggered checks if a mouse combination is being triggered this frame
func (mm *MousebindingManager) isMouseActionTriggered(combination MouseCombination) bool {
	if !mm.settings.EnableMouse {
		return false
	}
	if !modifiersMatch(combination.Shift, combination.Ctrl, combination.Alt) {
		return false
	}

	switch {
	case combination.IsWheel:
		return mm.wheelMatches(combination)
	case combination.IsDoubleClick:
		return mm.checkDoubleClick(combination.Button, time.Now())
	default:
		return inpututil.IsMouseButtonJustPressed(combination.Button)
	}
}

// checkDoubleClick checks if a double-click occurred for the given button
func (mm *MousebindingManager) checkDoubleClick(button ebiten.MouseButton, now time.Time) bool {
	if !inpututil.IsMouseButtonJustPressed(button) {
		return false
	}
	return mm.doubleClickTracker.click(button, now, time.Duration(mm.settings.DoubleClickTime)*time.Millisecond)
}

// click records a press and reports whether it completes a double-click
func (t *DoubleClickTracker) click(button ebiten.MouseButton, now time.Time, window time.Duration) bool {
	defer func() { t.lastClickTime = now }()

	if t.clickCount > 0 && t.lastClickButton == button && now.Sub(t.lastClickTime) <= window {
		t.clickCount = 0
		return true
	}
	t.clickCount = 1
	t.lastClickButton = button
	return false
}

// CheckAction checks if any mouse binding for the given action is triggered
func (mm *MousebindingManager) CheckAction(action string) bool {
	for _, combination := range mm.parsed[action] {
		if mm.isMouseActionTriggered(combination) {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (mm *MousebindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !mm.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// GetMousebindings returns the current mouse bindings map (for display purposes)
func (mm *MousebindingManager) GetMousebindings() map[string][]string {
	return mm.mousebindings
}

// UpdateMousebindings replaces the mouse bindings map
func (mm *MousebindingManager) UpdateMousebindings(mousebindings map[string][]string) {
	mm.mousebindings = mousebindings
	mm.parsed = make(map[string][]MouseCombination, len(mousebindings))

	mouseMapping := getMouseMapping()
	for action, mouseStrings := range mousebindings {
		for _, mouseStr := range mouseStrings {
			if combination, ok := parseMouseString(mouseStr, mouseMapping); ok {
				mm.parsed[action] = append(mm.parsed[action], combination)
			} else {
				debugLog("Ignoring unknown mouse action '%s' for action '%s'", mouseStr, action)
			}
		}
	}
}

// GetSettings returns the current mouse settings
func (mm *MousebindingManager) GetSettings() MouseSettings {
	return mm.settings
}
