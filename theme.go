package main

import (
	"fmt"
	"image/color"
	"strings"
)

// Theme selects the color tokens used across the UI
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

// ThemeColors is the palette for one theme
type ThemeColors struct {
	Background    color.RGBA
	Text          color.RGBA
	SubText       color.RGBA
	TileBg        color.RGBA
	ButtonBg      color.RGBA
	ButtonFg      color.RGBA
	Selection     color.RGBA
	ModalBackdrop color.RGBA
}

var themePalettes = map[Theme]ThemeColors{
	ThemeLight: {
		Background:    color.RGBA{255, 255, 255, 255},
		Text:          color.RGBA{0x55, 0x55, 0x55, 255},
		SubText:       color.RGBA{0x88, 0x88, 0x88, 255},
		TileBg:        color.RGBA{235, 235, 235, 255},
		ButtonBg:      color.RGBA{0x01, 0x32, 0x20, 255},
		ButtonFg:      color.RGBA{255, 255, 255, 255},
		Selection:     color.RGBA{0x2E, 0x7D, 0x32, 255},
		ModalBackdrop: color.RGBA{0, 0, 0, 230},
	},
	ThemeDark: {
		Background:    color.RGBA{0x12, 0x12, 0x12, 255},
		Text:          color.RGBA{0xE0, 0xE0, 0xE0, 255},
		SubText:       color.RGBA{0x9E, 0x9E, 0x9E, 255},
		TileBg:        color.RGBA{0x2A, 0x2A, 0x2A, 255},
		ButtonBg:      color.RGBA{0x4C, 0xAF, 0x50, 255},
		ButtonFg:      color.RGBA{0x12, 0x12, 0x12, 255},
		Selection:     color.RGBA{0x81, 0xC7, 0x84, 255},
		ModalBackdrop: color.RGBA{0, 0, 0, 230},
	},
}

// currentTheme is session scoped and only changed through SetTheme
var currentTheme = ThemeLight

// CurrentTheme returns the active theme
func CurrentTheme() Theme {
	return currentTheme
}

// SetTheme switches the active theme
func SetTheme(t Theme) {
	if _, ok := themePalettes[t]; !ok {
		return
	}
	currentTheme = t
}

// ToggleTheme flips between light and dark and returns the new theme
func ToggleTheme() Theme {
	if currentTheme == ThemeDark {
		SetTheme(ThemeLight)
	} else {
		SetTheme(ThemeDark)
	}
	return currentTheme
}

// Colors returns the palette of the active theme
func Colors() ThemeColors {
	return themePalettes[currentTheme]
}

func (t Theme) String() string {
	switch t {
	case ThemeDark:
		return "dark"
	default:
		return "light"
	}
}

// ParseTheme converts a config value to a Theme
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	default:
		return ThemeLight, fmt.Errorf("unknown theme %q", s)
	}
}
