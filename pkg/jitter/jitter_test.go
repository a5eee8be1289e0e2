package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration_WithinBounds(t *testing.T) {
	base := 100 * time.Millisecond
	for i := 0; i < 100; i++ {
		d := Duration(base, DefaultJitter)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}

func TestExponentialBackoff_GrowsAndCaps(t *testing.T) {
	base := 250 * time.Millisecond
	max := 5 * time.Second

	first := ExponentialBackoff(base, max, 0, 0)
	assert.Equal(t, base, first)

	second := ExponentialBackoff(base, max, 1, 0)
	assert.Equal(t, 2*base, second)

	capped := ExponentialBackoff(base, max, 10, 0)
	assert.Equal(t, max, capped)
}
