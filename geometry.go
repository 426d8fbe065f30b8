package main

import "math"

// ViewportGeometry is the on-screen box an image occupies inside the viewer
type ViewportGeometry struct {
	ContainerWidth  float64
	ContainerHeight float64
}

// ResolveViewportGeometry fits an image of intrinsic size (w, h) into the box
// (maxW, maxH) preserving its aspect ratio. Unknown intrinsic dimensions fall
// back to the whole box.
func ResolveViewportGeometry(w, h, maxW, maxH float64) ViewportGeometry {
	fallback := ViewportGeometry{ContainerWidth: maxW, ContainerHeight: maxH}
	if !validDimension(w) || !validDimension(h) || !validDimension(maxW) || !validDimension(maxH) {
		return fallback
	}

	aspectRatio := w / h
	if aspectRatio > maxW/maxH {
		// Relatively wider than the box: width is the limiting side
		return ViewportGeometry{ContainerWidth: maxW, ContainerHeight: maxW / aspectRatio}
	}
	return ViewportGeometry{ContainerWidth: maxH * aspectRatio, ContainerHeight: maxH}
}

// ViewerBox returns the maximum container box for a display area
func ViewerBox(displayW, displayH, widthRatio, heightRatio float64) (float64, float64) {
	return displayW * widthRatio, displayH * heightRatio
}

// Origin returns the top-left corner that centers the geometry in the display area
func (g ViewportGeometry) Origin(displayW, displayH float64) (float64, float64) {
	return (displayW - g.ContainerWidth) / 2, (displayH - g.ContainerHeight) / 2
}

// Contains reports whether a display point falls inside the centered container
func (g ViewportGeometry) Contains(displayW, displayH, x, y float64) bool {
	ox, oy := g.Origin(displayW, displayH)
	return x >= ox && x <= ox+g.ContainerWidth && y >= oy && y <= oy+g.ContainerHeight
}

func validDimension(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
