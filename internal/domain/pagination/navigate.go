package pagination

// Navigate decides whether a page-change request should be honoured.
// Requests outside [1, total] and requests for the current page are ignored.
func Navigate(current, total, requested int) (int, bool) {
	if requested < 1 || requested > total || requested == current {
		return current, false
	}
	return requested, true
}

// Control is the render state of a pagination control.
type Control struct {
	Current int      `json:"current"`
	Total   int      `json:"total"`
	Markers []Marker `json:"window"`
	HasPrev bool     `json:"has_prev"`
	HasNext bool     `json:"has_next"`
}

// NewControl builds the control for current out of total pages. The control
// is produced even for a single page; prev and next are then both disabled.
func NewControl(current, total, windowSize int) Control {
	if total < 1 {
		total = 1
	}
	return Control{
		Current: current,
		Total:   total,
		Markers: BuildWindow(current, total, windowSize),
		HasPrev: current > 1,
		HasNext: current < total,
	}
}

// Prev returns the page the previous button navigates to.
func (c Control) Prev() (int, bool) {
	return Navigate(c.Current, c.Total, c.Current-1)
}

// Next returns the page the next button navigates to.
func (c Control) Next() (int, bool) {
	return Navigate(c.Current, c.Total, c.Current+1)
}

// Go returns the page a click on requested navigates to.
func (c Control) Go(requested int) (int, bool) {
	return Navigate(c.Current, c.Total, requested)
}
