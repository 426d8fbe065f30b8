package main

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func TestResolveViewportGeometry(t *testing.T) {
	tests := []struct {
		name       string
		w, h       float64
		maxW, maxH float64
		wantW      float64
		wantH      float64
	}{
		{"Wide image in tall box", 400, 200, 300, 600, 300, 150},
		{"Tall image in wide box", 200, 400, 600, 300, 150, 300},
		{"Same ratio", 100, 50, 200, 100, 200, 100},
		{"Tiny image is scaled up", 10, 10, 200, 100, 100, 100},
		{"Panorama", 3000, 500, 432, 640, 432, 72},
		{"Portrait phone photo", 3024, 4032, 432, 640, 432, 576},
		{"Unknown width", 0, 300, 432, 640, 432, 640},
		{"Unknown height", 300, 0, 432, 640, 432, 640},
		{"Negative size", -1, 300, 432, 640, 432, 640},
		{"NaN size", math.NaN(), 300, 432, 640, 432, 640},
		{"Infinite size", math.Inf(1), 300, 432, 640, 432, 640},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveViewportGeometry(tt.w, tt.h, tt.maxW, tt.maxH)
			if math.Abs(got.ContainerWidth-tt.wantW) > floatTolerance || math.Abs(got.ContainerHeight-tt.wantH) > floatTolerance {
				t.Errorf("ResolveViewportGeometry(%v, %v, %v, %v) = %vx%v, want %vx%v",
					tt.w, tt.h, tt.maxW, tt.maxH, got.ContainerWidth, got.ContainerHeight, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResolveViewportGeometryFits(t *testing.T) {
	sizes := []float64{1, 3, 17, 100, 333, 1024, 4032, 12000}
	boxes := [][2]float64{{432, 640}, {640, 432}, {100, 100}, {1, 1000}, {1000, 1}}

	for _, box := range boxes {
		for _, w := range sizes {
			for _, h := range sizes {
				g := ResolveViewportGeometry(w, h, box[0], box[1])
				if g.ContainerWidth > box[0]*(1+floatTolerance) || g.ContainerHeight > box[1]*(1+floatTolerance) {
					t.Errorf("%vx%v in %vx%v overflows: %vx%v", w, h, box[0], box[1], g.ContainerWidth, g.ContainerHeight)
				}
				gotRatio := g.ContainerWidth / g.ContainerHeight
				if math.Abs(gotRatio-w/h) > 1e-6*(w/h) {
					t.Errorf("%vx%v in %vx%v: ratio %v, want %v", w, h, box[0], box[1], gotRatio, w/h)
				}
				// One side always touches the box
				if math.Abs(g.ContainerWidth-box[0]) > floatTolerance && math.Abs(g.ContainerHeight-box[1]) > floatTolerance {
					t.Errorf("%vx%v in %vx%v is not maximal: %vx%v", w, h, box[0], box[1], g.ContainerWidth, g.ContainerHeight)
				}
			}
		}
	}
}

func TestViewerBox(t *testing.T) {
	w, h := ViewerBox(480, 800, defaultViewerWidthRatio, defaultViewerHeightRatio)
	if math.Abs(w-432) > floatTolerance || math.Abs(h-640) > floatTolerance {
		t.Errorf("ViewerBox() = %vx%v, want 432x640", w, h)
	}
}

func TestViewportGeometryContains(t *testing.T) {
	g := ViewportGeometry{ContainerWidth: 200, ContainerHeight: 100}

	ox, oy := g.Origin(400, 300)
	if ox != 100 || oy != 100 {
		t.Errorf("Origin() = (%v, %v), want (100, 100)", ox, oy)
	}

	tests := []struct {
		x, y float64
		want bool
	}{
		{200, 150, true},
		{100, 100, true},
		{300, 200, true},
		{99, 150, false},
		{200, 201, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		if got := g.Contains(400, 300, tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
