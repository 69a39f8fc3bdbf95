package models

import "time"

// Pipeline is a named sales workflow containing stages.
type Pipeline struct {
	ID           int       `json:"id"`
	PipelineName string    `json:"pipeline_name"`
	CreatedAt    time.Time `json:"created_at"`
}
