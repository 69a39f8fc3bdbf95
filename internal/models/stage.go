package models

import "time"

// Stage types. A stage belongs either to the lead funnel or the deal funnel.
const (
	StageTypeLead = "lead"
	StageTypeDeal = "deal"
)

// Stage is a named step inside a pipeline. At most one stage per
// (pipeline, stage_type) may be the default; the default stage is what
// new leads/deals land in when no stage is chosen explicitly.
type Stage struct {
	ID         int       `json:"id"`
	StageName  string    `json:"stage_name"`
	PipelineID int       `json:"pipeline_id"`
	StageType  string    `json:"stage_type"`
	IsDefault  bool      `json:"is_default"`
	Color      string    `json:"color,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
