package main

// ActionExecutor is the single dispatch point shared by KeybindingManager and MousebindingManager
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction executes the given action using the InputActions interface.
// Returns false for unknown actions and for actions that do not apply in the current state.
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	switch action {
	case "exit":
		inputActions.Exit()
	case "back":
		switch {
		case inputState.IsShowingHelp():
			inputActions.ToggleHelp()
		case inputState.IsPickerOpen():
			inputActions.CancelPicker()
		case inputState.IsViewerOpen():
			inputActions.CloseViewer()
		default:
			return false
		}
	case "help":
		inputActions.ToggleHelp()
	case "add_photos":
		if inputState.IsPickerOpen() || inputState.IsViewerOpen() {
			return false
		}
		inputActions.OpenPicker()
	case "confirm":
		if !inputState.IsPickerOpen() {
			return false
		}
		inputActions.ConfirmPicker()
	case "toggle_theme":
		inputActions.ToggleTheme()
	case "fullscreen":
		inputActions.ToggleFullscreen()

	case "zoom_in", "zoom_out", "zoom_reset", "pan_up", "pan_down", "pan_left", "pan_right":
		if !inputState.IsViewerOpen() {
			return false
		}
		ae.executeViewerAction(action, inputActions)

	case "scroll_up":
		inputActions.Scroll(-1)
	case "scroll_down":
		inputActions.Scroll(1)

	default:
		return false
	}

	return true
}

func (ae *ActionExecutor) executeViewerAction(action string, inputActions InputActions) {
	switch action {
	case "zoom_in":
		inputActions.ZoomIn()
	case "zoom_out":
		inputActions.ZoomOut()
	case "zoom_reset":
		inputActions.ZoomReset()
	case "pan_up":
		inputActions.PanBy(0, -1)
	case "pan_down":
		inputActions.PanBy(0, 1)
	case "pan_left":
		inputActions.PanBy(-1, 0)
	case "pan_right":
		inputActions.PanBy(1, 0)
	}
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()
