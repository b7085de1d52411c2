package calendar

import "time"

type Config struct {
	CalendarID string
	Location   *time.Location
	MaxResults int
}

func (c *Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
