package main

import "testing"

func TestParseTheme(t *testing.T) {
	tests := []struct {
		input   string
		want    Theme
		wantErr bool
	}{
		{"", ThemeLight, false},
		{"light", ThemeLight, false},
		{"dark", ThemeDark, false},
		{" Dark ", ThemeDark, false},
		{"sepia", ThemeLight, true},
	}
	for _, tt := range tests {
		got, err := ParseTheme(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTheme(%q) = %v, %v; want %v, wantErr %v", tt.input, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestThemeSwitching(t *testing.T) {
	defer SetTheme(ThemeLight)

	SetTheme(ThemeLight)
	light := Colors()

	if got := ToggleTheme(); got != ThemeDark || CurrentTheme() != ThemeDark {
		t.Errorf("ToggleTheme() = %v, current %v; want dark", got, CurrentTheme())
	}
	if Colors() == light {
		t.Error("Colors() did not change with the theme")
	}
	if got := ToggleTheme(); got != ThemeLight {
		t.Errorf("second ToggleTheme() = %v, want light", got)
	}

	SetTheme(Theme(7))
	if CurrentTheme() != ThemeLight {
		t.Errorf("SetTheme() accepted an unknown theme: %v", CurrentTheme())
	}

	for _, theme := range []Theme{ThemeLight, ThemeDark} {
		parsed, err := ParseTheme(theme.String())
		if err != nil || parsed != theme {
			t.Errorf("ParseTheme(%q) = %v, %v; want %v", theme.String(), parsed, err, theme)
		}
	}
}
