package layout

import "errors"

// ErrLayoutEntryNotFound signals that no layout entry carries the requested id
var ErrLayoutEntryNotFound = errors.New("layout entry not found")

// ErrInvalidLayout signals a layout entry with invalid geometry or a duplicated id
var ErrInvalidLayout = errors.New("invalid layout")

// ErrOverlappingLayout signals two layout entries sharing grid cells
var ErrOverlappingLayout = errors.New("overlapping layout entries")

// ErrInvalidGrid signals a grid definition that can not hold any entry
var ErrInvalidGrid = errors.New("invalid grid")
