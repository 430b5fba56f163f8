package store

import "errors"

// ErrUnknownMetric signals an action referencing a metric missing from the catalog
var ErrUnknownMetric = errors.New("unknown metric")

// ErrMetricNotSelected signals a deselection of a metric that is not selected
var ErrMetricNotSelected = errors.New("metric not selected")

// ErrDuplicateMetric signals a catalog holding the same id twice
var ErrDuplicateMetric = errors.New("duplicated metric id")

// ErrInvalidSpan signals a date span whose bucket span is lower than 1
var ErrInvalidSpan = errors.New("please add a valid span interval")

// ErrInvalidMove signals a reorder with out of range positions
var ErrInvalidMove = errors.New("invalid move")
