package main

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Global font source shared by the renderer and error image generation
var globalFontSource *text.GoTextFaceSource

// InitGraphics initializes the global font source for text rendering
func InitGraphics() error {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return err
	}
	globalFontSource = s
	return nil
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawCenteredText draws text centered on (cx, cy)
func DrawCenteredText(screen *ebiten.Image, textString string, font *text.GoTextFace, cx, cy float64, textColor color.RGBA) {
	w, h := text.Measure(textString, font, 0)
	DrawText(screen, textString, font, cx-w/2, cy-h/2, textColor)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// DrawStrokeRect draws a rectangle outline
func DrawStrokeRect(screen *ebiten.Image, x, y, w, h, width float64, strokeColor color.RGBA) {
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), float32(width), strokeColor, true)
}

// DrawFilledCircle draws a filled circle centered on (cx, cy)
func DrawFilledCircle(screen *ebiten.Image, cx, cy, radius float64, fillColor color.RGBA) {
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(radius), fillColor, true)
}

func drawBorder(img *ebiten.Image, width, height int, borderColor color.RGBA) {
	DrawFilledRect(img, 0, 0, float64(width), 3, borderColor)
	DrawFilledRect(img, 0, float64(height-3), float64(width), 3, borderColor)
	DrawFilledRect(img, 0, 0, 3, float64(height), borderColor)
	DrawFilledRect(img, float64(width-3), 0, 3, float64(height), borderColor)
}

// CreateErrorImage creates an error placeholder image with filename and error message
func CreateErrorImage(width, height int, filename, errorMsg string) *ebiten.Image {
	if width <= 0 || height <= 0 {
		width, height = 400, 300
	}

	errorImg := ebiten.NewImage(width, height)
	errorImg.Fill(color.RGBA{120, 30, 30, 255}) // Dark red background
	white := color.RGBA{255, 255, 255, 255}
	drawBorder(errorImg, width, height, white)

	// Without a font only the frame is drawn
	if globalFontSource == nil {
		return errorImg
	}

	// Thumbnails get a smaller face
	fontSize := 20.0
	if width < 200 {
		fontSize = 12.0
	}
	errorFont := &text.GoTextFace{
		Source: globalFontSource,
		Size:   fontSize,
	}

	fileText := filepath.Base(filename)
	reasonText := errorMsg

	maxChars := int(float64(width-20) / (fontSize / 2))
	fileText = truncateText(fileText, maxChars)
	reasonText = truncateText(reasonText, maxChars)

	lineHeight := fontSize * 1.5
	DrawText(errorImg, "ERROR", errorFont, 10, 10, white)
	DrawText(errorImg, fileText, errorFont, 10, 10+lineHeight, white)
	DrawText(errorImg, reasonText, errorFont, 10, 10+lineHeight*2, white)

	return errorImg
}

// truncateText shortens s to at most maxChars bytes, marking the cut with "..."
func truncateText(s string, maxChars int) string {
	if maxChars < 4 || len(s) <= maxChars {
		return s
	}
	return s[:maxChars-3] + "..."
}

// makeThumbnail returns a size×size cover crop of img, centered
func makeThumbnail(img image.Image, size int) image.Image {
	if size <= 0 {
		size = defaultThumbnailSize
	}
	return imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
}
