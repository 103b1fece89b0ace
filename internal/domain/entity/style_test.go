package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleSet_First(t *testing.T) {
	empty := NewStyleSet()
	_, ok := empty.First()
	assert.False(t, ok)

	set := NewStyleSet(
		Style{Name: "paper", Type: StyleTypeDay},
		Style{Name: "ink", Type: StyleTypeNight},
	)
	first, ok := set.First()
	assert.True(t, ok)
	assert.Equal(t, "paper", first.Name)
}

func TestStyleSet_StyleFor(t *testing.T) {
	set := NewStyleSet(
		Style{Name: "paper", Type: StyleTypeDay},
		Style{Name: "ink", Type: StyleTypeNight},
		Style{Name: "ink-accent", Type: StyleTypeNight},
	)

	day, ok := set.StyleFor(StyleTypeDay)
	assert.True(t, ok)
	assert.Equal(t, "paper", day.Name)

	// First match wins for duplicated types.
	night, ok := set.StyleFor(StyleTypeNight)
	assert.True(t, ok)
	assert.Equal(t, "ink", night.Name)

	_, ok = NewStyleSet().StyleFor(StyleTypeDay)
	assert.False(t, ok)
}

func TestStyleSet_AllFor(t *testing.T) {
	set := NewStyleSet(
		Style{Name: "paper", Type: StyleTypeDay},
		Style{Name: "ink", Type: StyleTypeNight},
		Style{Name: "ink-accent", Type: StyleTypeNight},
	)

	nights := set.AllFor(StyleTypeNight)
	assert.Len(t, nights, 2)
	assert.Equal(t, "ink", nights[0].Name)
	assert.Equal(t, "ink-accent", nights[1].Name)

	assert.Empty(t, NewStyleSet().AllFor(StyleTypeDay))
}

func TestStyleSet_EligibleForAuto(t *testing.T) {
	assert.False(t, NewStyleSet().EligibleForAuto())
	assert.False(t, NewStyleSet(Style{Name: "solo", Type: StyleTypeDay}).EligibleForAuto())

	// Two styles are enough, even when they share a type.
	sameType := NewStyleSet(
		Style{Name: "a", Type: StyleTypeDay},
		Style{Name: "b", Type: StyleTypeDay},
	)
	assert.True(t, sameType.EligibleForAuto())
}
