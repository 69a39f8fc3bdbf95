package models

import "time"

// Lead statuses.
const (
	LeadStatusOpen      = "open"
	LeadStatusConverted = "converted"
)

type Lead struct {
	ID         int       `json:"id"`
	LeadName   string    `json:"lead_name"`
	Company    string    `json:"company"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	PipelineID int       `json:"pipeline_id"`
	StageID    int       `json:"stage_id"`
	Value      float64   `json:"value"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
