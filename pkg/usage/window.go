package usage

import (
	"strings"
	"time"
)

// WindowKind selects the calendar window over which usage is counted.
type WindowKind string

const (
	// WindowDaily counts usage since local midnight UTC.
	WindowDaily WindowKind = "day"
	// WindowMonthly counts usage since the first of the current month UTC.
	WindowMonthly WindowKind = "month"
)

// Start returns the beginning of the window containing now, in UTC.
func (k WindowKind) Start(now time.Time) time.Time {
	now = now.UTC()
	switch k {
	case WindowDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// Next returns the start of the window after the one containing now. Useful
// as a retry-after hint when a quota is exhausted.
func (k WindowKind) Next(now time.Time) time.Time {
	start := k.Start(now)
	switch k {
	case WindowDaily:
		return start.AddDate(0, 0, 1)
	default:
		return start.AddDate(0, 1, 0)
	}
}

// Category is the feature category a quota window is keyed by. It is the
// resource part of a permission key ("messages:send" → "messages").
type Category string

// Windows maps feature categories to their quota window. The mapping is a
// lookup table rather than substring checks so new categories can be added
// without touching enforcement code.
type Windows struct {
	byCategory map[Category]WindowKind
	fallback   WindowKind
}

// NewWindows builds a window table with the given per-category overrides and
// fallback for everything else.
func NewWindows(overrides map[Category]WindowKind, fallback WindowKind) Windows {
	byCategory := make(map[Category]WindowKind, len(overrides))
	for c, k := range overrides {
		byCategory[c] = k
	}
	return Windows{byCategory: byCategory, fallback: fallback}
}

// DefaultWindows returns the production window table: messaging quotas reset
// daily, everything else monthly.
func DefaultWindows() Windows {
	return NewWindows(map[Category]WindowKind{
		"messages": WindowDaily,
	}, WindowMonthly)
}

// Kind returns the window for the given feature key's category.
func (w Windows) Kind(feature string) WindowKind {
	category, _, _ := strings.Cut(feature, ":")
	if k, ok := w.byCategory[Category(category)]; ok {
		return k
	}
	if w.fallback == "" {
		return WindowMonthly
	}
	return w.fallback
}
