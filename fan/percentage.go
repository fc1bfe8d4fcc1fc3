package fan

// SpeedRange is the inclusive range of discrete non-zero speed levels a device
// accepts. Off is level 0 and lies outside the range.
type SpeedRange struct {
	Min int
	Max int
}

// All SmartThings fans expose three speed levels.
var defaultSpeedRange = SpeedRange{Min: 1, Max: 3}

func (r SpeedRange) states() int {
	return r.Max - r.Min + 1
}

// percentageToRangedValue maps a percentage in (0, 100] onto the speed range.
// The result is fractional; callers round up so that any non-zero percentage
// lands on at least the lowest level, never level 0.
func percentageToRangedValue(r SpeedRange, percentage int) float64 {
	offset := r.Min - 1
	return float64(r.states())*float64(percentage)/100 + float64(offset)
}

// rangedValueToPercentage maps a speed level back to a percentage. This is not
// a left inverse of percentageToRangedValue over a whole percentage bucket,
// only level -> percentage -> level is stable.
func rangedValueToPercentage(r SpeedRange, value int) int {
	offset := r.Min - 1
	return (value - offset) * 100 / r.states()
}
