package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}

// Healthy reports whether the console can serve fresh data.
func (s Status) Healthy() bool {
	return s.PostgreSQL
}

// Degraded is true when the console serves but a supporting layer is down.
func (s Status) Degraded() bool {
	return s.PostgreSQL && (!s.Redis || s.BufferSize > 0)
}
