package monitor

import "time"

// Status is a point-in-time health snapshot. BufferSize is the number of
// order events waiting for the recorder to drain.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}
