package fan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentageToLevel(t *testing.T) {
	// Ceiling rule: the lower boundary of every bucket maps up, not down.
	expected := map[int]int{
		1:   1,
		33:  1,
		34:  2,
		50:  2,
		66:  2,
		67:  3,
		100: 3,
	}

	for percentage, level := range expected {
		value := int(math.Ceil(percentageToRangedValue(defaultSpeedRange, percentage)))
		assert.Equal(t, level, value, "percentage %v", percentage)
	}
}

func TestLevelToPercentage(t *testing.T) {
	assert.Equal(t, 33, rangedValueToPercentage(defaultSpeedRange, 1))
	assert.Equal(t, 66, rangedValueToPercentage(defaultSpeedRange, 2))
	assert.Equal(t, 100, rangedValueToPercentage(defaultSpeedRange, 3))
	assert.Equal(t, 0, rangedValueToPercentage(defaultSpeedRange, 0))
}

func TestLevelRoundTrip(t *testing.T) {
	for level := defaultSpeedRange.Min; level <= defaultSpeedRange.Max; level++ {
		percentage := rangedValueToPercentage(defaultSpeedRange, level)
		back := int(math.Ceil(percentageToRangedValue(defaultSpeedRange, percentage)))

		assert.Equal(t, level, back)
	}
}

func TestSpeedRangeStates(t *testing.T) {
	assert.Equal(t, 3, defaultSpeedRange.states())
	assert.Equal(t, 5, SpeedRange{Min: 2, Max: 6}.states())
}
