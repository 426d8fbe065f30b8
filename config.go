package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Window size constants
const (
	defaultWidth  = 480
	defaultHeight = 800
	minWidth      = 320
	minHeight     = 400
)

// Sort method constants
const (
	SortNatural    = 0 // Natural sort order (e.g., file1, file2, file10)
	SortSimple     = 1 // Simple string sort (lexicographical)
	SortEntryOrder = 2 // Maintain original order (no sort)
)

// Config value defaults and limits
const (
	defaultIdleHideMs       = 3000
	minIdleHideMs           = 500
	maxIdleHideMs           = 10000
	minMaxScale             = 1.5
	maxMaxScale             = 10.0
	defaultBounceDurationMs = 300
	minBounceDurationMs     = 50
	maxBounceDurationMs     = 2000
	defaultCacheSize        = 16
	defaultThumbnailSize    = 256
	minThumbnailSize        = 64
	maxThumbnailSize        = 1024
	defaultPreloadCount     = 24
	defaultHelpFontSize     = 18.0
)

// validateKeybindings validates the keybindings configuration
func validateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[string]string)
	validKeys := getValidKeyNames()

	for action, keys := range keybindings {
		if _, known := actionDefinitionByName(action); !known {
			return fmt.Errorf("unknown action '%s'", action)
		}
		for _, keyStr := range keys {
			if err := validateKeyString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			if existingAction, exists := keyToAction[keyStr]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[keyStr] = action
		}
	}

	return nil
}

// validateKeyString validates a single key string format
func validateKeyString(keyStr string, validKeys map[string]bool) error {
	if keyStr == "" {
		return fmt.Errorf("empty key string")
	}
	parts := strings.Split(keyStr, "+")

	// Last part should be the actual key
	keyName := parts[len(parts)-1]
	if !validKeys[keyName] {
		return fmt.Errorf("unknown key: %s", keyName)
	}

	return validateModifiers(parts[:len(parts)-1])
}

func validateModifiers(modifiers []string) error {
	for _, m := range modifiers {
		switch strings.ToLower(m) {
		case "shift", "ctrl", "alt":
		default:
			return fmt.Errorf("unknown modifier: %s", m)
		}
	}
	return nil
}

// getValidKeyNames returns the set of key names understood by the keybinding manager
func getValidKeyNames() map[string]bool {
	valid := make(map[string]bool)
	for name := range getKeyMapping() {
		valid[name] = true
	}
	return valid
}

// validateMousebindings validates the mouse bindings configuration
func validateMousebindings(mousebindings map[string][]string) error {
	mouseToAction := make(map[string]string)
	buttons := getMouseMapping()

	for action, mouseActions := range mousebindings {
		if _, known := actionDefinitionByName(action); !known {
			return fmt.Errorf("unknown action '%s'", action)
		}
		for _, mouseStr := range mouseActions {
			if mouseStr == "" {
				return fmt.Errorf("empty mouse binding for action '%s'", action)
			}
			parts := strings.Split(mouseStr, "+")
			name := parts[len(parts)-1]
			_, isButton := buttons[strings.TrimPrefix(name, "Double")]
			isWheel := name == "WheelUp" || name == "WheelDown" || name == "WheelLeft" || name == "WheelRight"
			if !isButton && !isWheel {
				return fmt.Errorf("invalid mouse action '%s' for action '%s'", mouseStr, action)
			}
			if err := validateModifiers(parts[:len(parts)-1]); err != nil {
				return fmt.Errorf("invalid mouse action '%s' for action '%s': %v", mouseStr, action, err)
			}

			if existingAction, exists := mouseToAction[mouseStr]; exists {
				return fmt.Errorf("mouse conflict: '%s' is bound to both '%s' and '%s'", mouseStr, existingAction, action)
			}
			mouseToAction[mouseStr] = action
		}
	}
	return nil
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth       int                 `json:"window_width"`
	WindowHeight      int                 `json:"window_height"`
	Theme             string              `json:"theme"`
	IdleHideMs        int                 `json:"idle_hide_ms"`
	MaxScale          float64             `json:"max_scale"`
	BounceDurationMs  int                 `json:"bounce_duration_ms"`
	ViewerWidthRatio  float64             `json:"viewer_width_ratio"`
	ViewerHeightRatio float64             `json:"viewer_height_ratio"`
	SelectionLimit    int                 `json:"selection_limit"`
	SortMethod        int                 `json:"sort_method"`
	CacheSize         int                 `json:"cache_size"`
	ThumbnailSize     int                 `json:"thumbnail_size"`
	PreloadEnabled    bool                `json:"preload_enabled"`
	PreloadCount      int                 `json:"preload_count"`
	HelpFontSize      float64             `json:"help_font_size"`
	Keybindings       map[string][]string `json:"keybindings"`
	Mousebindings     map[string][]string `json:"mousebindings"`
	MouseSettings     MouseSettings       `json:"mouse_settings"`
}

// defaultConfig returns the configuration used when no file is present
func defaultConfig() Config {
	return Config{
		WindowWidth:       defaultWidth,
		WindowHeight:      defaultHeight,
		Theme:             ThemeLight.String(),
		IdleHideMs:        defaultIdleHideMs,
		MaxScale:          defaultMaxScale,
		BounceDurationMs:  defaultBounceDurationMs,
		ViewerWidthRatio:  defaultViewerWidthRatio,
		ViewerHeightRatio: defaultViewerHeightRatio,
		SelectionLimit:    defaultSelectionLimit,
		SortMethod:        SortNatural,
		CacheSize:         defaultCacheSize,
		ThumbnailSize:     defaultThumbnailSize,
		PreloadEnabled:    true,
		PreloadCount:      defaultPreloadCount,
		HelpFontSize:      defaultHelpFontSize,
		Keybindings:       GetDefaultKeybindings(),
		Mousebindings:     GetDefaultMousebindings(),
		MouseSettings:     GetDefaultMouseSettings(),
	}
}

func getConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "pv.json"
	}
	return filepath.Join(homeDir, ".pv.json")
}

func loadConfig() ConfigLoadResult {
	return loadConfigFromPath(getConfigPath())
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := defaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		log.Printf("Warning: %s", msg)
		result.Status = "Warning"
		result.Warnings = append(result.Warnings, msg)
	}

	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	if _, err := ParseTheme(config.Theme); err != nil {
		warn("%v, using light", err)
		config.Theme = ThemeLight.String()
	}

	if config.IdleHideMs < minIdleHideMs {
		config.IdleHideMs = minIdleHideMs
	} else if config.IdleHideMs > maxIdleHideMs {
		config.IdleHideMs = maxIdleHideMs
	}

	if config.MaxScale < minMaxScale {
		config.MaxScale = minMaxScale
	} else if config.MaxScale > maxMaxScale {
		config.MaxScale = maxMaxScale
	}

	if config.BounceDurationMs < minBounceDurationMs {
		config.BounceDurationMs = minBounceDurationMs
	} else if config.BounceDurationMs > maxBounceDurationMs {
		config.BounceDurationMs = maxBounceDurationMs
	}

	// Viewer ratios are a share of the display: (0.1, 1]
	if config.ViewerWidthRatio <= 0.1 || config.ViewerWidthRatio > 1 {
		config.ViewerWidthRatio = defaultViewerWidthRatio
	}
	if config.ViewerHeightRatio <= 0.1 || config.ViewerHeightRatio > 1 {
		config.ViewerHeightRatio = defaultViewerHeightRatio
	}

	if config.SelectionLimit < 1 {
		config.SelectionLimit = defaultSelectionLimit
	} else if config.SelectionLimit > maxSelectionLimit {
		config.SelectionLimit = maxSelectionLimit
	}

	if config.SortMethod < SortNatural || config.SortMethod > SortEntryOrder {
		config.SortMethod = SortNatural
	}

	// Validate cache size (minimum 1, maximum 64)
	if config.CacheSize < 1 {
		config.CacheSize = defaultCacheSize
	} else if config.CacheSize > 64 {
		config.CacheSize = 64
	}

	if config.ThumbnailSize < minThumbnailSize {
		config.ThumbnailSize = minThumbnailSize
	} else if config.ThumbnailSize > maxThumbnailSize {
		config.ThumbnailSize = maxThumbnailSize
	}

	// Validate preload count (minimum 1, maximum 96)
	if config.PreloadCount < 1 {
		config.PreloadCount = defaultPreloadCount
	} else if config.PreloadCount > 96 {
		config.PreloadCount = 96
	}

	// Validate help font size (minimum 12px for readability)
	if config.HelpFontSize < 12.0 {
		config.HelpFontSize = defaultHelpFontSize
	}

	config.MouseSettings = validateMouseSettings(config.MouseSettings)

	if config.Keybindings == nil {
		config.Keybindings = GetDefaultKeybindings()
	} else {
		// Fill in missing keybindings with defaults
		for action, defaultKeys := range GetDefaultKeybindings() {
			if _, exists := config.Keybindings[action]; !exists {
				config.Keybindings[action] = defaultKeys
			}
		}
		if err := validateKeybindings(config.Keybindings); err != nil {
			warn("Keybinding errors, using defaults: %v", err)
			config.Keybindings = GetDefaultKeybindings()
		}
	}

	if config.Mousebindings == nil {
		config.Mousebindings = GetDefaultMousebindings()
	} else {
		for action, defaultMouse := range GetDefaultMousebindings() {
			if _, exists := config.Mousebindings[action]; !exists {
				config.Mousebindings[action] = defaultMouse
			}
		}
		if err := validateMousebindings(config.Mousebindings); err != nil {
			warn("Mousebinding errors, using defaults: %v", err)
			config.Mousebindings = GetDefaultMousebindings()
		}
	}

	result.Config = config
	return result
}

func validateMouseSettings(s MouseSettings) MouseSettings {
	defaults := GetDefaultMouseSettings()
	if s.WheelSensitivity <= 0 || s.WheelSensitivity > 10 {
		s.WheelSensitivity = defaults.WheelSensitivity
	}
	if s.DoubleClickTime < 100 || s.DoubleClickTime > 1000 {
		s.DoubleClickTime = defaults.DoubleClickTime
	}
	if s.DragThreshold < 1 || s.DragThreshold > 50 {
		s.DragThreshold = defaults.DragThreshold
	}
	if s.ZoomStep <= 1 || s.ZoomStep > 4 {
		s.ZoomStep = defaults.ZoomStep
	}
	if s.ScrollStep <= 0 || s.ScrollStep > 500 {
		s.ScrollStep = defaults.ScrollStep
	}
	return s
}

// getSortMethodName returns the human-readable name of a sort method
func getSortMethodName(sortMethod int) string {
	strategy := GetSortStrategy(sortMethod)
	return strategy.Name()
}

func saveConfig(config Config) {
	saveConfigToPath(config, getConfigPath())
}

func saveConfigToPath(config Config, configPath string) {
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		log.Printf("Warning: Not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
		return
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		log.Printf("Error: Failed to marshal config: %v", err)
		return
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		log.Printf("Error: Failed to save config to %s: %v", configPath, err)
	}
}
