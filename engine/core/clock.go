package core

import "time"

// TimeSource returns the current time in seconds.
type TimeSource func() float64

var processStart = time.Now()

// WallTime returns the seconds since the process started, read from the
// monotonic clock.
func WallTime() float64 {
	return time.Since(processStart).Seconds()
}

// Clock tracks the time elapsed since Start, in seconds.
type Clock struct {
	now       TimeSource
	startTime float64
	elapsed   float64
	running   bool
}

func NewClock(now TimeSource) *Clock {
	if now == nil {
		now = WallTime
	}
	return &Clock{now: now}
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if c.running {
		c.elapsed = c.now() - c.startTime
	}
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = c.now()
	c.elapsed = 0
	c.running = true
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.running = false
}

func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

// Now reads the underlying time source without touching the clock.
func (c *Clock) Now() float64 {
	return c.now()
}
