package models

// StageSummary is one row of a pipeline report: how many records sit in a
// stage and what they are worth.
type StageSummary struct {
	StageID    int     `json:"stage_id"`
	StageName  string  `json:"stage_name"`
	IsDefault  bool    `json:"is_default"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"total_value"`
}

// PipelineReport aggregates a pipeline's lead and deal funnels.
type PipelineReport struct {
	PipelineID   int            `json:"pipeline_id"`
	PipelineName string         `json:"pipeline_name"`
	Leads        []StageSummary `json:"leads"`
	Deals        []StageSummary `json:"deals"`
}
