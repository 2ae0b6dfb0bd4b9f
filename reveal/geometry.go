package reveal

import "errors"

// ErrUnsupported is returned by a Viewport that cannot observe regions.
var ErrUnsupported = errors.New("reveal: intersection observation unsupported")

// Rect is the vertical extent of a region, measured from the top edge of
// the viewport.
type Rect struct {
	Top    float64
	Height float64
}

// Region is anything that can report where it currently sits.
type Region interface {
	Rect() Rect
}

// Subscription cancels an observation.
type Subscription interface {
	Unobserve()
}

// Viewport is the runtime's intersection primitive. Observe invokes fn with
// the region's visible ratio whenever it crosses threshold inside the
// viewport grown by margin on both edges.
type Viewport interface {
	Height() float64
	Observe(region Region, threshold, margin float64, fn func(ratio float64)) (Subscription, error)
}

// VisibleRatio reports which fraction of r lies inside a viewport of the
// given height grown by margin. A zero-height region counts as fully
// visible when its top edge is inside the zone.
func VisibleRatio(r Rect, viewportHeight, margin float64) float64 {
	top := -margin
	bottom := viewportHeight + margin
	if r.Height <= 0 {
		if r.Top >= top && r.Top <= bottom {
			return 1
		}
		return 0
	}

	lo := max(r.Top, top)
	hi := min(r.Top+r.Height, bottom)
	if hi <= lo {
		return 0
	}
	return (hi - lo) / r.Height
}
