// Package pagination computes the page strip shown under paginated lists:
// which page numbers to render around the current page, where to collapse
// far-away pages into an ellipsis, and which navigation requests to honour.
package pagination

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultWindowSize is the number of contiguous pages shown around the current page.
const DefaultWindowSize = 5

// EllipsisText is the rendered form of a collapsed gap.
const EllipsisText = "…"

// Marker is one entry of the page strip: either a page number or an ellipsis.
type Marker struct {
	Page     int
	Ellipsis bool
}

// Gap is the ellipsis marker.
var Gap = Marker{Ellipsis: true}

// PageMarker returns the marker for page n.
func PageMarker(n int) Marker {
	return Marker{Page: n}
}

// IsEllipsis reports whether the marker is a gap.
func (m Marker) IsEllipsis() bool {
	return m.Ellipsis
}

// String renders the marker as it appears in the strip.
func (m Marker) String() string {
	if m.Ellipsis {
		return EllipsisText
	}
	return strconv.Itoa(m.Page)
}

// MarshalJSON encodes pages as numbers and gaps as the ellipsis string.
func (m Marker) MarshalJSON() ([]byte, error) {
	if m.Ellipsis {
		return json.Marshal(EllipsisText)
	}
	return json.Marshal(m.Page)
}

// UnmarshalJSON accepts either a number or the ellipsis string.
func (m *Marker) UnmarshalJSON(data []byte) error {
	var page int
	if err := json.Unmarshal(data, &page); err == nil {
		*m = PageMarker(page)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s != EllipsisText {
		return fmt.Errorf("pagination: invalid marker %q", s)
	}
	*m = Gap
	return nil
}

// BuildWindow returns the page strip for current out of total pages.
//
// Up to windowSize pages centred on current are shown, clamped to [1, total].
// Page 1 and page total are always present. A block starting at page 2 (or
// ending at total-1) joins them directly; any wider gap, even one hiding a
// single page, collapses into one ellipsis.
//
// current is not validated: callers filter navigation requests with Navigate.
// A total below 1 is treated as 1 and a windowSize below 1 as 1. A window
// wider than total shows every page, so it is narrowed to total.
func BuildWindow(current, total, windowSize int) []Marker {
	if total < 1 {
		total = 1
	}
	windowSize = max(1, min(windowSize, total))

	half := windowSize / 2
	start := max(1, current-half)
	end := min(total, start+windowSize-1)
	start = max(1, min(start, end-windowSize+1))

	markers := make([]Marker, 0, end-start+5)
	if start > 1 {
		markers = append(markers, PageMarker(1))
		if start > 2 {
			markers = append(markers, Gap)
		}
	}
	for p := start; p <= end; p++ {
		markers = append(markers, PageMarker(p))
	}
	if end < total {
		if end < total-1 {
			markers = append(markers, Gap)
		}
		markers = append(markers, PageMarker(total))
	}
	return markers
}

// Window is BuildWindow with the default window size.
func Window(current, total int) []Marker {
	return BuildWindow(current, total, DefaultWindowSize)
}
