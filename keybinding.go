package main

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyCombination represents a key with optional modifiers
type KeyCombination struct {
	Key   ebiten.Key
	Shift bool
	Ctrl  bool
	Alt   bool
}

// KeybindingManager handles dynamic keybinding processing.
// Bindings are parsed once when they are set.
type KeybindingManager struct {
	keybindings map[string][]string
	parsed      map[string][]KeyCombination
}

// NewKeybindingManager creates a new KeybindingManager
func NewKeybindingManager(keybindings map[string][]string) *KeybindingManager {
	km := &KeybindingManager{}
	km.UpdateKeybindings(keybindings)
	return km
}

// getKeyMapping returns a mapping from string keys to Ebiten keys
func getKeyMapping() map[string]ebiten.Key {
	mapping := map[string]ebiten.Key{
		"Space":       ebiten.KeySpace,
		"Backspace":   ebiten.KeyBackspace,
		"Enter":       ebiten.KeyEnter,
		"Escape":      ebiten.KeyEscape,
		"Tab":         ebiten.KeyTab,
		"Home":        ebiten.KeyHome,
		"End":         ebiten.KeyEnd,
		"PageUp":      ebiten.KeyPageUp,
		"PageDown":    ebiten.KeyPageDown,
		"ArrowUp":     ebiten.KeyArrowUp,
		"ArrowDown":   ebiten.KeyArrowDown,
		"ArrowLeft":   ebiten.KeyArrowLeft,
		"ArrowRight":  ebiten.KeyArrowRight,
		"Comma":       ebiten.KeyComma,
		"Period":      ebiten.KeyPeriod,
		"Slash":       ebiten.KeySlash,
		"Semicolon":   ebiten.KeySemicolon,
		"Quote":       ebiten.KeyQuote,
		"Minus":       ebiten.KeyMinus,
		"Equal":       ebiten.KeyEqual,
		"NumpadEnter": ebiten.KeyNumpadEnter,
		"NumpadAdd":   ebiten.KeyNumpadAdd,
		"NumpadSub":   ebiten.KeyNumpadSubtract,
	}

	letters := []ebiten.Key{
		ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF, ebiten.KeyG,
		ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL, ebiten.KeyM, ebiten.KeyN,
		ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR, ebiten.KeyS, ebiten.KeyT, ebiten.KeyU,
		ebiten.KeyV, ebiten.KeyW, ebiten.KeyX, ebiten.KeyY, ebiten.KeyZ,
	}
	for i, key := range letters {
		mapping["Key"+string(rune('A'+i))] = key
	}

	digits := []ebiten.Key{
		ebiten.Key0, ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
		ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
	}
	numpad := []ebiten.Key{
		ebiten.KeyNumpad0, ebiten.KeyNumpad1, ebiten.KeyNumpad2, ebiten.KeyNumpad3, ebiten.KeyNumpad4,
		ebiten.KeyNumpad5, ebiten.KeyNumpad6, ebiten.KeyNumpad7, ebiten.KeyNumpad8, ebiten.KeyNumpad9,
	}
	for i := range digits {
		mapping["Key"+string(rune('0'+i))] = digits[i]
		mapping["Numpad"+string(rune('0'+i))] = numpad[i]
	}
	return mapping
}

// parseModifiers reads "Shift", "Ctrl" and "Alt" prefixes
func parseModifiers(parts []string) (shift, ctrl, alt bool) {
	for _, p := range parts {
		switch strings.ToLower(p) {
		case "shift":
			shift = true
		case "ctrl":
			ctrl = true
		case "alt":
			alt = true
		}
	}
	return shift, ctrl, alt
}

// modifiersMatch reports whether exactly the wanted modifiers are held
func modifiersMatch(shift, ctrl, alt bool) bool {
	return ebiten.IsKeyPressed(ebiten.KeyShift) == shift &&
		ebiten.IsKeyPressed(ebiten.KeyControl) == ctrl &&
		ebiten.IsKeyPressed(ebiten.KeyAlt) == alt
}

// parseKeyString parses a key string like "Shift+KeyB" into a KeyCombination
func parseKeyString(keyStr string, keyMapping map[string]ebiten.Key) (KeyCombination, bool) {
	parts := strings.Split(keyStr, "+")
	key, exists := keyMapping[parts[len(parts)-1]]
	if !exists {
		return KeyCombination{}, false
	}

	combination := KeyCombination{Key: key}
	combination.Shift, combination.Ctrl, combination.Alt = parseModifiers(parts[:len(parts)-1])
	return combination, true
}

func (c KeyCombination) justPressed() bool {
	return inpututil.IsKeyJustPressed(c.Key) && modifiersMatch(c.Shift, c.Ctrl, c.Alt)
}

// CheckAction checks if any keybinding for the given action was just pressed
func (km *KeybindingManager) CheckAction(action string) bool {
	for _, combination := range km.parsed[action] {
		if combination.justPressed() {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (km *KeybindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !km.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// GetKeybindings returns the current keybindings map (for display purposes)
func (km *KeybindingManager) GetKeybindings() map[string][]string {
	return km.keybindings
}

// UpdateKeybindings replaces the keybindings map
func (km *KeybindingManager) UpdateKeybindings(keybindings map[string][]string) {
	km.keybindings = keybindings
	km.parsed = make(map[string][]KeyCombination, len(keybindings))

	keyMapping := getKeyMapping()
	for action, keyStrings := range keybindings {
		for _, keyStr := range keyStrings {
			if combination, ok := parseKeyString(keyStr, keyMapping); ok {
				km.parsed[action] = append(km.parsed[action], combination)
			} else {
				debugLog("Ignoring unknown key '%s' for action '%s'", keyStr, action)
			}
		}
	}
}
