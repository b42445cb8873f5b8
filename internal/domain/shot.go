package domain

import "time"

// Shot is the storyboard unit generation tasks attach to. Shot management
// largely lives with the storyboard collaborator; this record carries the
// fields the generation core reads and the versions FK target.
type Shot struct {
	ID             int64     `json:"id"`
	Prompt         string    `json:"prompt"`
	NegativePrompt string    `json:"negative_prompt,omitempty"`
	Duration       float64   `json:"duration"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
