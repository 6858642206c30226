package pos

import "time"

// Clock abstracts wall-clock reads so discount expiry can be tested
// deterministically. Production code passes SystemClock.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the real wall clock.
var SystemClock Clock = ClockFunc(time.Now)
