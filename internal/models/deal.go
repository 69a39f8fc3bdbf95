package models

import "time"

type Deal struct {
	ID         int       `json:"id"`
	DealName   string    `json:"deal_name"`
	LeadID     int       `json:"lead_id,omitempty"`
	CustomerID int       `json:"customer_id"`
	PipelineID int       `json:"pipeline_id"`
	StageID    int       `json:"stage_id"`
	Value      float64   `json:"value"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
}
