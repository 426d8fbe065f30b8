package main

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions contains all action definitions with default keybindings, mouse bindings, and descriptions.
// The left mouse button is reserved for taps and drags and is not bindable by default.
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"KeyQ"}, []string{}, "Quit application"},
	{"back", []string{"Escape", "Backspace"}, []string{"RightClick", "Back"}, "Close viewer or cancel picker"},
	{"help", []string{"Shift+Slash"}, []string{"Alt+RightClick"}, "Show/hide help"},
	{"add_photos", []string{"KeyA", "Ctrl+KeyO"}, []string{}, "Pick photos from the library"},
	{"confirm", []string{"Enter", "NumpadEnter"}, []string{}, "Add the picked photos"},
	{"toggle_theme", []string{"KeyT"}, []string{"Alt+MiddleClick"}, "Toggle light/dark theme"},
	{"fullscreen", []string{"KeyF"}, []string{}, "Toggle fullscreen"},

	// Zoom and pan actions
	{"zoom_in", []string{"Equal", "Shift+Equal"}, []string{"Ctrl+WheelUp"}, "Zoom in"},
	{"zoom_out", []string{"Minus"}, []string{"Ctrl+WheelDown"}, "Zoom out"},
	{"zoom_reset", []string{"Key0"}, []string{"MiddleClick"}, "Reset zoom and pan"},
	{"pan_up", []string{"ArrowUp"}, []string{}, "Pan up"},
	{"pan_down", []string{"ArrowDown"}, []string{}, "Pan down"},
	{"pan_left", []string{"ArrowLeft"}, []string{}, "Pan left"},
	{"pan_right", []string{"ArrowRight"}, []string{}, "Pan right"},

	// Grid scrolling (zooms while the viewer is open)
	{"scroll_up", []string{"PageUp"}, []string{"WheelUp"}, "Scroll up"},
	{"scroll_down", []string{"PageDown"}, []string{"WheelDown"}, "Scroll down"},
}

// actionDefinitionByName looks up an action definition
func actionDefinitionByName(name string) (ActionDefinition, bool) {
	for _, action := range actionDefinitions {
		if action.Name == name {
			return action, true
		}
	}
	return ActionDefinition{}, false
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = append([]string(nil), action.Keys...)
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = append([]string(nil), action.MouseActions...)
	}
	return mousebindings
}
