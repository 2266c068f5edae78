package model

import "time"

// UpdateRecord is one journal row describing a single block execution. The
// journal is diagnostic history only; the scheduler never reads it back.
type UpdateRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Instance  string    `json:"instance,omitempty"`
	Trigger   Trigger   `json:"trigger"`
	ExitCode  int       `json:"exit_code"`
	FullText  string    `json:"full_text"`
	CreatedAt time.Time `json:"created_at"`
}
