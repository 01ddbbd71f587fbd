package capture

import "time"

// runTimestampLayoutConstant renders local wall-clock time as a fixed-width
// YYYYMMDD_HHMMSS string, the disambiguator in capture file names.
const runTimestampLayoutConstant = "20060102_150405"

// Clock supplies the current time for capture runs.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the operating system wall clock.
type SystemClock struct{}

// NewSystemClock constructs a SystemClock instance.
func NewSystemClock() SystemClock {
	return SystemClock{}
}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FormatRunTimestamp renders the provided moment using the capture timestamp layout.
func FormatRunTimestamp(moment time.Time) string {
	return moment.Format(runTimestampLayoutConstant)
}
