package entity

// StyleType tags a style with the part of the day it belongs to.
type StyleType string

const (
	StyleTypeDay   StyleType = "day"
	StyleTypeNight StyleType = "night"
)

// Style is an immutable appearance definition. The scheduler only reads
// styles; the payload fields are opaque to it and interpreted by the
// applier when the style is selected.
type Style struct {
	Name string
	Type StyleType

	// Appearance payload. Empty fields are skipped by the applier.
	ColorScheme string
	GTKTheme    string
	IconTheme   string
	CursorTheme string
	Wallpaper   string

	// Commands are shell hooks run after the settings above are applied.
	Commands []string
}

// StyleSet is an ordered sequence of styles. Order matters: the first
// style of a matching type wins, and the first style overall is the
// fallback when no classification is possible.
type StyleSet struct {
	styles []Style
}

// NewStyleSet builds a set preserving the given order.
func NewStyleSet(styles ...Style) StyleSet {
	s := make([]Style, len(styles))
	copy(s, styles)
	return StyleSet{styles: s}
}

// Len returns the number of styles in the set.
func (s StyleSet) Len() int {
	return len(s.styles)
}

// First returns the first style in the set, if any.
func (s StyleSet) First() (Style, bool) {
	if len(s.styles) == 0 {
		return Style{}, false
	}
	return s.styles[0], true
}

// StyleFor returns the first style with the given type.
func (s StyleSet) StyleFor(t StyleType) (Style, bool) {
	for _, st := range s.styles {
		if st.Type == t {
			return st, true
		}
	}
	return Style{}, false
}

// AllFor returns every style with the given type, in set order.
// Multiple styles may share a type to form a compound appearance.
func (s StyleSet) AllFor(t StyleType) []Style {
	var out []Style
	for _, st := range s.styles {
		if st.Type == t {
			out = append(out, st)
		}
	}
	return out
}

// EligibleForAuto reports whether automatic day/night switching may be
// enabled for this set. Any set with more than one style qualifies,
// regardless of the types it contains.
func (s StyleSet) EligibleForAuto() bool {
	return len(s.styles) > 1
}
