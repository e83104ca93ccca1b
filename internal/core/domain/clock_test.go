package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	c := NewSystemClock(loc)

	before := time.Now()
	now := c.Now()

	assert.Equal(t, loc, now.Location())
	assert.False(t, now.Before(before.Add(-time.Second)))
}

func TestSystemClock_DefaultsToLocal(t *testing.T) {
	assert.Equal(t, time.Local, NewSystemClock(nil).Now().Location())
}

func TestFixedClock_Setters(t *testing.T) {
	c := NewFixedClockAt(2025, time.May, 19, 10, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.May, 19, 10, 0, 0, 0, time.UTC), c.Now())

	c.SetDate(2025, time.May, 20)
	assert.Equal(t, time.Date(2025, time.May, 20, 10, 0, 0, 0, time.UTC), c.Now())

	c.SetTime(14, 30, 5)
	assert.Equal(t, time.Date(2025, time.May, 20, 14, 30, 5, 0, time.UTC), c.Now())

	paris := time.FixedZone("CEST", 2*60*60)
	c.SetLocation(paris)
	h, m, s := c.Now().Clock()
	assert.Equal(t, []int{14, 30, 5}, []int{h, m, s})
	assert.Equal(t, paris, c.Now().Location())

	c.Advance(time.Hour)
	assert.Equal(t, 15, c.Now().Hour())

	fixed := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	c.Set(fixed)
	assert.Equal(t, fixed, c.Now())
	assert.Equal(t, fixed, c.Now(), "fixed clock must not drift between calls")
}
