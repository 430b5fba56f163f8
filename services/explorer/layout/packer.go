package layout

import (
	"fmt"
	"sort"

	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
)

const (
	// DefaultColumns is the width of the grid, in units
	DefaultColumns = 12
	// DefaultWidth is the width of a newly selected metric
	DefaultWidth = 12
	// DefaultHeight is the height of a newly selected metric
	DefaultHeight = 2
)

// Grid computes non-overlapping placements on a fixed-width grid. All methods are pure:
// the provided slices are never modified, new slices are returned instead.
type Grid struct {
	Columns       int
	DefaultWidth  int
	DefaultHeight int
}

// NewGrid creates a validated grid
func NewGrid(columns int, defaultWidth int, defaultHeight int) (Grid, error) {
	if columns < 1 {
		return Grid{}, fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidGrid, columns)
	}
	if defaultWidth < 1 || defaultHeight < 1 {
		return Grid{}, fmt.Errorf("%w: default size must be positive, got %dx%d", ErrInvalidGrid, defaultWidth, defaultHeight)
	}
	if defaultWidth > columns {
		defaultWidth = columns
	}

	return Grid{
		Columns:       columns,
		DefaultWidth:  defaultWidth,
		DefaultHeight: defaultHeight,
	}, nil
}

// Append places a default sized entry with the provided id at the top-left-most free
// position and returns the new layout together with the created entry
func (g Grid) Append(entries []common.LayoutEntry, id string) ([]common.LayoutEntry, common.LayoutEntry) {
	entry := g.place(entries, common.LayoutEntry{
		ID: id,
		W:  g.DefaultWidth,
		H:  g.DefaultHeight,
	})

	out := common.CloneLayout(entries)
	out = append(out, entry)

	return out, entry
}

// Remove drops the entry with the provided id and slides the entries below it upwards,
// closing the vacated rows without ever introducing an overlap
func (g Grid) Remove(entries []common.LayoutEntry, id string) ([]common.LayoutEntry, error) {
	idx := indexOf(entries, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrLayoutEntryNotFound, id)
	}
	removed := entries[idx]

	remaining := make([]common.LayoutEntry, 0, len(entries)-1)
	for i, e := range entries {
		if i != idx {
			remaining = append(remaining, e.Clone())
		}
	}
	SortByRow(remaining)

	for i := range remaining {
		if remaining[i].Y <= removed.Y {
			continue
		}

		maxLift := removed.H
		if maxLift > remaining[i].Y {
			maxLift = remaining[i].Y
		}

		lift := 0
		for lift < maxLift {
			candidate := remaining[i]
			candidate.Y -= lift + 1
			if collidesWithAny(remaining, i, candidate) {
				break
			}
			lift++
		}
		remaining[i].Y -= lift
	}

	return remaining, nil
}

// Repack re-places every entry, in the provided order, on an empty grid using the same
// top-left-first rule as Append. Entry sizes and queries are kept.
func (g Grid) Repack(entries []common.LayoutEntry) []common.LayoutEntry {
	out := make([]common.LayoutEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, g.place(out, e.Clone()))
	}

	return out
}

// Validate checks the geometry of every entry, the id uniqueness and the no-overlap rule
func (g Grid) Validate(entries []common.LayoutEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if len(e.ID) == 0 {
			return fmt.Errorf("%w: entry at position %d has an empty id", ErrInvalidLayout, i)
		}
		if _, found := seen[e.ID]; found {
			return fmt.Errorf("%w: duplicated id %s", ErrInvalidLayout, e.ID)
		}
		seen[e.ID] = struct{}{}

		if e.X < 0 || e.Y < 0 || e.W < 1 || e.H < 1 {
			return fmt.Errorf("%w: entry %s has geometry x=%d y=%d w=%d h=%d", ErrInvalidLayout, e.ID, e.X, e.Y, e.W, e.H)
		}
		if e.X+e.W > g.Columns {
			return fmt.Errorf("%w: entry %s exceeds the %d grid columns", ErrInvalidLayout, e.ID, g.Columns)
		}
	}

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if Overlaps(entries[i], entries[j]) {
				return fmt.Errorf("%w: %s and %s", ErrOverlappingLayout, entries[i].ID, entries[j].ID)
			}
		}
	}

	return nil
}

func (g Grid) place(obstacles []common.LayoutEntry, entry common.LayoutEntry) common.LayoutEntry {
	if entry.W > g.Columns {
		entry.W = g.Columns
	}

	// below the lowest obstacle every position is free, so the scan always terminates
	for y := 0; ; y++ {
		for x := 0; x+entry.W <= g.Columns; x++ {
			entry.X, entry.Y = x, y
			if !collidesWithAny(obstacles, -1, entry) {
				return entry
			}
		}
	}
}

// Overlaps returns true if the two rectangles share at least one grid cell
func Overlaps(a common.LayoutEntry, b common.LayoutEntry) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W &&
		a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

// SortByRow sorts in place in ascending (y, x) order
func SortByRow(entries []common.LayoutEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Y != entries[j].Y {
			return entries[i].Y < entries[j].Y
		}
		return entries[i].X < entries[j].X
	})
}

// SortByColumn sorts in place in ascending (x, y) order, the order used to derive the selection
func SortByColumn(entries []common.LayoutEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].X != entries[j].X {
			return entries[i].X < entries[j].X
		}
		return entries[i].Y < entries[j].Y
	})
}

func collidesWithAny(entries []common.LayoutEntry, skip int, candidate common.LayoutEntry) bool {
	for i, e := range entries {
		if i == skip {
			continue
		}
		if Overlaps(e, candidate) {
			return true
		}
	}

	return false
}

func indexOf(entries []common.LayoutEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}

	return -1
}
