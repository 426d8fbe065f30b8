package main

import (
	"image"
	"image/color"
	"testing"
)

func TestTruncateText(t *testing.T) {
	tests := []struct {
		input    string
		maxChars int
		want     string
	}{
		{"short.png", 20, "short.png"},
		{"a-very-long-file-name.png", 10, "a-very-..."},
		{"exact", 5, "exact"},
		{"tiny", 3, "tiny"},
		{"", 10, ""},
	}
	for _, tt := range tests {
		if got := truncateText(tt.input, tt.maxChars); got != tt.want {
			t.Errorf("truncateText(%q, %d) = %q, want %q", tt.input, tt.maxChars, got, tt.want)
		}
	}
}

func TestMakeThumbnail(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 300, 100))
	// Left and right thirds red, middle blue: a center crop keeps only blue
	for y := 0; y < 100; y++ {
		for x := 0; x < 300; x++ {
			c := color.NRGBA{R: 255, A: 255}
			if x >= 100 && x < 200 {
				c = color.NRGBA{B: 255, A: 255}
			}
			src.Set(x, y, c)
		}
	}

	tests := []struct {
		size int
		want int
	}{
		{64, 64},
		{128, 128},
		{0, defaultThumbnailSize},
	}
	for _, tt := range tests {
		thumb := makeThumbnail(src, tt.size)
		b := thumb.Bounds()
		if b.Dx() != tt.want || b.Dy() != tt.want {
			t.Errorf("makeThumbnail(%d) bounds = %v, want %dx%d", tt.size, b, tt.want, tt.want)
		}

		r, _, bl, _ := thumb.At(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2).RGBA()
		if bl < 0xf000 || r > 0x1000 {
			t.Errorf("makeThumbnail(%d) center is not from the middle of the source", tt.size)
		}
	}
}
