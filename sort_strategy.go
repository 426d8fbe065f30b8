package main

import (
	"sort"

	"github.com/maruel/natural"
)

// SortStrategy orders library entries
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(images []ImagePath) []ImagePath
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

// sortedCopy sorts a copy of images. Archive entries are grouped under their
// archive's position and ordered by entry path within it.
func sortedCopy(images []ImagePath, less func(a, b string) bool) []ImagePath {
	result := make([]ImagePath, len(images))
	copy(result, images)

	sort.SliceStable(result, func(i, j int) bool {
		ci, cj := result[i].container(), result[j].container()
		if ci != cj {
			return less(ci, cj)
		}
		return less(result[i].EntryPath, result[j].EntryPath)
	})
	return result
}

// container is the file an image lives in: the archive for entries, the image itself otherwise
func (p ImagePath) container() string {
	if p.ArchivePath != "" {
		return p.ArchivePath
	}
	return p.Path
}

// NaturalSortStrategy orders numbers by value (file2 before file10) using maruel/natural
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(images []ImagePath) []ImagePath {
	return sortedCopy(images, natural.Less)
}

func (s *NaturalSortStrategy) Name() string { return "Natural" }

func (s *NaturalSortStrategy) ID() int { return SortNatural }

// SimpleSortStrategy orders byte-wise
type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Sort(images []ImagePath) []ImagePath {
	return sortedCopy(images, func(a, b string) bool { return a < b })
}

func (s *SimpleSortStrategy) Name() string { return "Simple" }

func (s *SimpleSortStrategy) ID() int { return SortSimple }

// EntryOrderSortStrategy keeps the order the library was walked in
type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Sort(images []ImagePath) []ImagePath {
	result := make([]ImagePath, len(images))
	copy(result, images)
	return result
}

func (s *EntryOrderSortStrategy) Name() string { return "Entry Order" }

func (s *EntryOrderSortStrategy) ID() int { return SortEntryOrder }

// GetSortStrategy returns the strategy for a sort method ID, falling back to natural
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortSimple:
		return &SimpleSortStrategy{}
	case SortEntryOrder:
		return &EntryOrderSortStrategy{}
	default:
		return &NaturalSortStrategy{}
	}
}

// GetAllSortStrategies returns all available sort strategies
func GetAllSortStrategies() []SortStrategy {
	return []SortStrategy{
		&NaturalSortStrategy{},
		&SimpleSortStrategy{},
		&EntryOrderSortStrategy{},
	}
}
