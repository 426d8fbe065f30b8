package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Colors for the help overlay, which is drawn the same in both themes
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorCyan      = color.RGBA{100, 255, 255, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}

	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 200}
)

const (
	uiFontSize    = 16.0
	titleFontSize = 20.0
	badgeRadius   = 11.0
	helpPadding   = 40.0
	minHelpFont   = 12.0
)

// Renderer handles all drawing operations
type Renderer struct {
	renderState RenderState
	fontSource  *text.GoTextFaceSource
}

// NewRenderer creates a new Renderer
func NewRenderer(renderState RenderState) *Renderer {
	if globalFontSource == nil {
		if err := InitGraphics(); err != nil {
			log.Fatal(err)
		}
	}
	return &Renderer{
		renderState: renderState,
		fontSource:  globalFontSource,
	}
}

func (r *Renderer) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: r.fontSource, Size: size}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(Colors().Background)

	r.drawHome(screen)

	if r.renderState.IsViewerOpen() {
		r.drawViewer(screen)
	}
	if r.renderState.IsPickerOpen() {
		r.drawPicker(screen)
	}
	if r.renderState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}
	if r.renderState.GetOverlayMessage() != "" && time.Since(r.renderState.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawOverlayMessage(screen)
	}
}

// Home screen

func (r *Renderer) drawHome(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	palette := Colors()
	photos := r.renderState.GetPhotos()

	if len(photos) == 0 {
		DrawCenteredText(screen, "No photos yet", r.face(titleFontSize), w/2, h/2-14, palette.Text)
		DrawCenteredText(screen, "Tap + to add photos from your library", r.face(uiFontSize), w/2, h/2+14, palette.SubText)
	} else {
		grid := r.renderState.GetGrid()
		start, end := grid.VisibleRange(len(photos))
		for i := start; i < end; i++ {
			r.drawTile(screen, grid, i, photos[i].URI)
		}
	}

	if r.renderState.IsAddButtonVisible() {
		r.drawAddButton(screen, w, h)
	}
}

// drawTile draws one square grid cell with its thumbnail, or a placeholder while it loads
func (r *Renderer) drawTile(screen *ebiten.Image, grid *GridLayout, idx int, uri string) {
	x, y, size := grid.TileRect(idx)
	inner := size - 2*tilePadding
	if inner <= 0 {
		return
	}
	x, y = x+tilePadding, y+tilePadding

	thumb, ok := r.renderState.GetThumbnail(uri)
	if !ok {
		DrawFilledRect(screen, x, y, inner, inner, Colors().TileBg)
		return
	}

	tw, th := float64(thumb.Bounds().Dx()), float64(thumb.Bounds().Dy())
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(inner/tw, inner/th)
	op.GeoM.Translate(x, y)
	screen.DrawImage(thumb, op)
}

func (r *Renderer) drawAddButton(screen *ebiten.Image, w, h float64) {
	palette := Colors()
	cx, cy := addButtonCenter(w, h)
	DrawFilledCircle(screen, cx, cy, addButtonRadius, palette.ButtonBg)

	// Plus sign
	arm := addButtonRadius * 0.45
	thickness := 4.0
	DrawFilledRect(screen, cx-arm, cy-thickness/2, arm*2, thickness, palette.ButtonFg)
	DrawFilledRect(screen, cx-thickness/2, cy-arm, thickness, arm*2, palette.ButtonFg)
}

// Viewer

// drawViewer draws the modal backdrop and the open photo, zoomed and panned
// inside its container and clipped to it.
func (r *Renderer) drawViewer(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, 0, w, h, Colors().ModalBackdrop)

	photo, ok := r.renderState.GetViewerPhoto()
	if !ok {
		return
	}
	geometry := r.renderState.GetViewerGeometry()
	if geometry.ContainerWidth <= 0 || geometry.ContainerHeight <= 0 {
		return
	}
	ox, oy := geometry.Origin(w, h)
	img, ok := r.renderState.GetImage(photo.URI)
	if !ok {
		DrawFilledRect(screen, ox, oy, geometry.ContainerWidth, geometry.ContainerHeight, Colors().TileBg)
		DrawCenteredText(screen, "Loading...", r.face(uiFontSize), w/2, h/2, Colors().SubText)
		return
	}

	clip := image.Rect(int(math.Floor(ox)), int(math.Floor(oy)),
		int(math.Ceil(ox+geometry.ContainerWidth)), int(math.Ceil(oy+geometry.ContainerHeight)))
	container, ok := screen.SubImage(clip).(*ebiten.Image)
	if !ok {
		return
	}

	iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	fit := math.Min(geometry.ContainerWidth/iw, geometry.ContainerHeight/ih)
	t := r.renderState.GetViewerTransform()

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Translate(-iw/2, -ih/2)
	op.GeoM.Scale(fit*t.Scale, fit*t.Scale)
	op.GeoM.Translate(ox+geometry.ContainerWidth/2+t.TranslateX, oy+geometry.ContainerHeight/2+t.TranslateY)
	container.DrawImage(img, op)
}

// Picker

func (r *Renderer) drawPicker(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	palette := Colors()
	picker := r.renderState.GetPicker()

	DrawFilledRect(screen, 0, 0, w, h, palette.Background)

	if picker.IsLoading() {
		DrawCenteredText(screen, "Loading library...", r.face(uiFontSize), w/2, h/2, palette.SubText)
	} else if len(picker.Entries()) == 0 {
		DrawCenteredText(screen, "The library has no images", r.face(uiFontSize), w/2, h/2, palette.SubText)
	} else {
		r.drawPickerGrid(screen, picker)
	}

	r.drawPickerBar(screen, picker, w)
}

func (r *Renderer) drawPickerGrid(screen *ebiten.Image, picker *PickerSheet) {
	palette := Colors()
	entries := picker.Entries()
	grid := picker.Grid()
	badgeFont := r.face(12)

	start, end := grid.VisibleRange(len(entries))
	for i := start; i < end; i++ {
		r.drawTile(screen, grid, i, entries[i].URI)

		order := picker.SelectionOrder(i)
		if order == 0 {
			continue
		}
		x, y, size := grid.TileRect(i)
		inner := size - 2*tilePadding
		DrawStrokeRect(screen, x+tilePadding, y+tilePadding, inner, inner, 3, palette.Selection)

		bx, by := x+size-tilePadding-badgeRadius-4, y+tilePadding+badgeRadius+4
		DrawFilledCircle(screen, bx, by, badgeRadius, palette.Selection)
		DrawCenteredText(screen, fmt.Sprintf("%d", order), badgeFont, bx, by, palette.ButtonFg)
	}
}

func (r *Renderer) drawPickerBar(screen *ebiten.Image, picker *PickerSheet, w float64) {
	palette := Colors()
	font := r.face(uiFontSize)
	mid := pickerBarHeight / 2

	DrawFilledRect(screen, 0, 0, w, pickerBarHeight, palette.TileBg)
	DrawText(screen, "Cancel", font, 16, mid-uiFontSize/2-2, palette.Text)

	count := picker.SelectedCount()
	title := "Library"
	if count > 0 {
		title = fmt.Sprintf("%d / %d selected", count, picker.Limit())
	}
	DrawCenteredText(screen, title, font, w/2, mid, palette.Text)

	addColor := palette.Selection
	if count == 0 {
		addColor = palette.SubText
	}
	addText := fmt.Sprintf("Add (%d)", count)
	addWidth, _ := text.Measure(addText, font, 0)
	DrawText(screen, addText, font, w-16-addWidth, mid-uiFontSize/2-2, addColor)
}

// Help overlay

type helpRow struct {
	action      string
	keys        string
	mouse       string
	description string
}

// helpRows returns every action with at least one binding, sorted by name
func (r *Renderer) helpRows() []helpRow {
	keybindings := r.renderState.GetKeybindings()
	mousebindings := r.renderState.GetMousebindings()
	descriptions := GetActionDescriptions()

	actionSet := make(map[string]bool)
	for action := range keybindings {
		actionSet[action] = true
	}
	for action := range mousebindings {
		actionSet[action] = true
	}

	var rows []helpRow
	for action := range actionSet {
		keys, mouse := keybindings[action], mousebindings[action]
		if len(keys) == 0 && len(mouse) == 0 {
			continue
		}
		description := descriptions[action]
		if description == "" {
			description = "No description available"
		}
		rows = append(rows, helpRow{
			action:      action,
			keys:        strings.Join(keys, ", "),
			mouse:       strings.Join(mouse, ", "),
			description: description,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].action < rows[j].action })
	return rows
}

// systemLines returns the status lines shown under the controls
func (r *Renderer) systemLines() []string {
	status := r.renderState.GetConfigStatus()
	stats := r.renderState.GetPreloadStats()

	lines := []string{
		fmt.Sprintf("Config Status: %s", status.Status),
		fmt.Sprintf("Theme: %s  Sort: %s", CurrentTheme(), r.renderState.GetSortMethodName()),
		fmt.Sprintf("Thumbnails: %d loaded, %d failed, %d queued", stats.LoadedCount, stats.FailedCount, stats.QueueSize),
	}
	for i, warning := range status.Warnings {
		if i >= 2 {
			break
		}
		lines = append(lines, "• "+truncateText(warning, 50))
	}
	return lines
}

// helpLayout holds column offsets measured for one font size
type helpLayout struct {
	actionWidth float64
	inputWidth  float64
	descWidth   float64
	width       float64
	height      float64
}

func (r *Renderer) measureHelp(rows []helpRow, system []string, fontSize float64) helpLayout {
	font := r.face(fontSize)
	lineHeight := fontSize * 1.5

	var l helpLayout
	for _, row := range rows {
		aw, _ := text.Measure(row.action, font, 0)
		iw, _ := text.Measure(joinInputs(row), font, 0)
		dw, _ := text.Measure(row.description, font, 0)
		l.actionWidth = math.Max(l.actionWidth, aw)
		l.inputWidth = math.Max(l.inputWidth, iw)
		l.descWidth = math.Max(l.descWidth, dw)
	}
	l.width = 40 + l.actionWidth + 20 + 30 + l.inputWidth + 20 + l.descWidth + helpPadding
	for _, line := range system {
		lw, _ := text.Measure(line, font, 0)
		l.width = math.Max(l.width, lw+helpPadding*2+80)
	}

	l.height = helpPadding*2 + fontSize*2 + lineHeight*1.5
	l.height += float64(len(rows)) * lineHeight
	l.height += lineHeight * float64(2+len(system))
	return l
}

func joinInputs(row helpRow) string {
	switch {
	case row.keys != "" && row.mouse != "":
		return row.keys + " | " + row.mouse
	case row.keys != "":
		return row.keys
	default:
		return row.mouse
	}
}

// calculateOptimalFontSize finds the largest font size whose help layout fits
func (r *Renderer) calculateOptimalFontSize(rows []helpRow, system []string, availableWidth, availableHeight float64) (float64, bool) {
	fits := func(size float64) bool {
		l := r.measureHelp(rows, system, size)
		return l.width <= availableWidth && l.height <= availableHeight
	}

	maxFontSize := r.renderState.GetFontSize()
	if !fits(minHelpFont) {
		return minHelpFont, false
	}
	if fits(maxFontSize) {
		return maxFontSize, true
	}

	low, high := minHelpFont, maxFontSize
	for high-low > 0.5 {
		mid := (low + high) / 2
		if fits(mid) {
			low = mid
		} else {
			high = mid
		}
	}
	return low, true
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	rows := r.helpRows()
	system := r.systemLines()

	fontSize, canFit := r.calculateOptimalFontSize(rows, system, w-helpPadding*2, h-helpPadding*2)
	if !canFit {
		r.drawMarginTooSmallMessage(screen)
		return
	}

	layout := r.measureHelp(rows, system, fontSize)
	font := r.face(fontSize)
	lineHeight := fontSize * 1.5

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, helpPadding, helpPadding, w-helpPadding*2, h-helpPadding*2, bgColorMedium)

	y := helpPadding + 30
	DrawText(screen, "HELP:", font, helpPadding+20, y, colorWhite)
	y += fontSize * 2
	DrawText(screen, "Controls (Keyboard | Mouse):", font, helpPadding+20, y, colorWhite)
	y += lineHeight * 1.5

	actionX := helpPadding + 40
	arrowX := actionX + layout.actionWidth + 20
	inputX := arrowX + 30
	descX := inputX + layout.inputWidth + 20

	for _, row := range rows {
		DrawText(screen, row.action, font, actionX, y, colorLightBlue)
		DrawText(screen, "→", font, arrowX, y, colorWhite)

		x := inputX
		if row.keys != "" {
			DrawText(screen, row.keys, font, x, y, colorYellow)
			kw, _ := text.Measure(row.keys, font, 0)
			x += kw
		}
		if row.keys != "" && row.mouse != "" {
			DrawText(screen, " | ", font, x, y, colorWhite)
			sw, _ := text.Measure(" | ", font, 0)
			x += sw
		}
		if row.mouse != "" {
			DrawText(screen, row.mouse, font, x, y, colorCyan)
		}

		DrawText(screen, row.description, font, descX, y, colorGray)
		y += lineHeight
	}

	y += lineHeight
	DrawText(screen, "System:", font, helpPadding+20, y, colorWhite)
	y += lineHeight

	status := r.renderState.GetConfigStatus().Status
	for i, line := range system {
		lineColor := colorWhite
		switch {
		case i == 0 && (status == "Warning" || status == "Error"):
			lineColor = colorOrange
		case i == 0:
			lineColor = colorGreen
		case strings.HasPrefix(line, "•"):
			lineColor = colorLightRed
		}
		DrawText(screen, line, font, helpPadding+40, y, lineColor)
		y += lineHeight
	}
}

// drawMarginTooSmallMessage is shown when the help cannot fit at any readable size
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)

	font := r.face(16)
	DrawCenteredText(screen, "Hanc marginis exiguitas non caperet.", font, w/2, h/2-12, colorWhite)
	DrawCenteredText(screen, "(Enlarge the window to see the help.)", font, w/2, h/2+12, colorGray)
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	font := r.face(uiFontSize)
	message := r.renderState.GetOverlayMessage()
	textWidth, textHeight := text.Measure(message, font, 0)

	padding := 16.0
	boxWidth := textWidth + padding*2
	boxHeight := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := float64(screen.Bounds().Dy()) - boxHeight - 100

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)
	DrawText(screen, message, font, boxX+padding, boxY+padding, colorWhite)
}
