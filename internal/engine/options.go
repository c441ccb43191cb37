package engine

import "time"

// Option configures metric computation.
type Option func(*config)

type config struct {
	now      func() time.Time
	location *time.Location // whose calendar date is "today"
}

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocation sets the time zone used to derive today's calendar date.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.location = loc
		}
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		now:      time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// today reads the clock once and returns the calendar date in cfg.location.
func (c *config) today() time.Time {
	return civilDate(c.now().In(c.location))
}
