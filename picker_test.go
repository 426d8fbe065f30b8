package main

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func libraryAssets(n int) []Asset {
	assets := make([]Asset, 0, n)
	for i := 0; i < n; i++ {
		uri := fmt.Sprintf("/lib/%02d.png", i)
		assets = append(assets, Asset{Identifier: uri, URI: uri})
	}
	return assets
}

func TestDefaultSelectionRequest(t *testing.T) {
	want := SelectionRequest{
		AllowMultiple:  true,
		SelectionLimit: 30,
		MediaFilter:    MediaImages,
		Quality:        1.0,
	}
	if diff := cmp.Diff(want, DefaultSelectionRequest(0)); diff != "" {
		t.Errorf("DefaultSelectionRequest(0) mismatch (-want +got):\n%s", diff)
	}
	if got := DefaultSelectionRequest(5).SelectionLimit; got != 5 {
		t.Errorf("SelectionLimit = %d, want 5", got)
	}
}

func TestPickerSheetSelection(t *testing.T) {
	p := NewPickerSheet()
	if p.IsOpen() || !p.IsLoading() {
		t.Fatalf("new picker: open = %v, loading = %v; want false, true", p.IsOpen(), p.IsLoading())
	}

	p.SetEntries(libraryAssets(5))
	if p.IsLoading() {
		t.Error("IsLoading() = true after SetEntries()")
	}
	if p.Toggle(0) {
		t.Error("Toggle() on a closed picker should fail")
	}

	p.Open(DefaultSelectionRequest(0))
	for _, idx := range []int{3, 1, 4} {
		if !p.Toggle(idx) {
			t.Errorf("Toggle(%d) = false", idx)
		}
	}
	if p.Toggle(9) || p.Toggle(-1) {
		t.Error("Toggle() of a missing entry should fail")
	}

	// Deselecting renumbers the later picks
	p.Toggle(1)
	if got := p.SelectionOrder(4); got != 2 {
		t.Errorf("SelectionOrder(4) = %d, want 2", got)
	}
	if got := p.SelectionOrder(1); got != 0 {
		t.Errorf("SelectionOrder(1) = %d, want 0", got)
	}

	result := p.Confirm()
	want := SelectionResult{Assets: []Asset{
		{Identifier: "/lib/03.png", URI: "/lib/03.png"},
		{Identifier: "/lib/04.png", URI: "/lib/04.png"},
	}}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("Confirm() mismatch (-want +got):\n%s", diff)
	}
	if p.IsOpen() || p.SelectedCount() != 0 {
		t.Error("Confirm() should close the picker and clear the selection")
	}
}

func TestPickerSheetLimit(t *testing.T) {
	p := NewPickerSheet()
	p.SetEntries(libraryAssets(5))
	p.Open(DefaultSelectionRequest(2))

	p.Toggle(0)
	p.Toggle(1)
	if p.Toggle(2) {
		t.Error("Toggle() past the limit should fail")
	}
	if p.SelectedCount() != 2 || p.Limit() != 2 {
		t.Errorf("SelectedCount() = %d, Limit() = %d; want 2, 2", p.SelectedCount(), p.Limit())
	}

	// Freeing a slot allows another pick
	p.Toggle(0)
	if !p.Toggle(2) {
		t.Error("Toggle() after deselecting should succeed")
	}
}

func TestPickerSheetSingleSelection(t *testing.T) {
	p := NewPickerSheet()
	p.SetEntries(libraryAssets(3))
	p.Open(SelectionRequest{AllowMultiple: false})

	p.Toggle(0)
	p.Toggle(2)
	if p.SelectedCount() != 1 || p.SelectionOrder(2) != 1 {
		t.Errorf("single selection kept %d entries", p.SelectedCount())
	}
}

func TestPickerSheetCancel(t *testing.T) {
	tests := []struct {
		name   string
		finish func(p *PickerSheet) SelectionResult
	}{
		{"Cancel", func(p *PickerSheet) SelectionResult { return p.Cancel() }},
		{"Confirm with nothing picked", func(p *PickerSheet) SelectionResult {
			p.Toggle(1)
			p.Toggle(1)
			return p.Confirm()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPickerSheet()
			p.SetEntries(libraryAssets(3))
			p.Open(DefaultSelectionRequest(0))

			result := tt.finish(p)
			if !result.Cancelled || len(result.Assets) != 0 {
				t.Errorf("result = %+v, want cancelled", result)
			}
			if p.IsOpen() {
				t.Error("picker still open")
			}
		})
	}

	p := NewPickerSheet()
	if result := p.Confirm(); !result.Cancelled {
		t.Error("Confirm() on a closed picker should report a cancel")
	}
}

func TestPickerSheetReopenClearsSelection(t *testing.T) {
	p := NewPickerSheet()
	p.SetEntries(libraryAssets(3))
	p.Open(DefaultSelectionRequest(0))
	p.Toggle(2)
	p.Cancel()

	p.Open(DefaultSelectionRequest(0))
	if p.SelectedCount() != 0 {
		t.Errorf("SelectedCount() after reopening = %d, want 0", p.SelectedCount())
	}
}

func TestPickerSheetSetEntriesDropsMissing(t *testing.T) {
	p := NewPickerSheet()
	p.SetEntries(libraryAssets(5))
	p.Open(DefaultSelectionRequest(0))
	p.Toggle(4)
	p.Toggle(1)

	p.SetEntries(libraryAssets(3))
	if p.SelectedCount() != 1 || p.SelectionOrder(1) != 1 {
		t.Errorf("SelectedCount() = %d, SelectionOrder(1) = %d; want 1, 1", p.SelectedCount(), p.SelectionOrder(1))
	}
}

func TestPickerBarHit(t *testing.T) {
	tests := []struct {
		x, y float64
		want PickerBarTarget
	}{
		{10, 10, PickerBarCancel},
		{159, 47, PickerBarCancel},
		{240, 20, PickerBarNone},
		{320, 20, PickerBarConfirm},
		{470, 10, PickerBarConfirm},
		{10, 48, PickerBarNone},
		{10, -1, PickerBarNone},
	}
	for _, tt := range tests {
		if got := pickerBarHit(480, tt.x, tt.y); got != tt.want {
			t.Errorf("pickerBarHit(480, %v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
