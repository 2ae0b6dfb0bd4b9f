package reveal

import "strings"

// Kind selects the enter animation a section plays once it is revealed.
type Kind string

const (
	FadeUp     Kind = "fade-up"
	FadeIn     Kind = "fade-in"
	SlideLeft  Kind = "slide-left"
	SlideRight Kind = "slide-right"
)

const transition = "transition-all duration-700 ease-out"

// ParseKind maps a configured animation name onto a Kind. An empty name is
// the default fade-up; anything unrecognised plays a plain fade-in.
func ParseKind(s string) Kind {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return FadeUp
	case FadeUp, FadeIn, SlideLeft, SlideRight:
		return k
	default:
		return FadeIn
	}
}

// Classes returns the CSS classes applied while the region is hidden and
// the ones added once it has been revealed.
func (k Kind) Classes() (hidden, visible string) {
	switch k {
	case FadeUp:
		return "opacity-0 translate-y-10 " + transition, "opacity-100 translate-y-0"
	case SlideLeft:
		return "opacity-0 translate-x-10 " + transition, "opacity-100 translate-x-0"
	case SlideRight:
		return "opacity-0 -translate-x-10 " + transition, "opacity-100 translate-x-0"
	default:
		return "opacity-0 transition-opacity duration-700 ease-out", "opacity-100"
	}
}

// Style is the class set a caller applies to the region.
type Style struct {
	Class    string
	Revealed bool
}

// StyleFor builds the class set for the given latch state.
func (k Kind) StyleFor(revealed bool) Style {
	hidden, visible := k.Classes()
	if revealed {
		return Style{Class: hidden + " " + visible, Revealed: true}
	}
	return Style{Class: hidden}
}
