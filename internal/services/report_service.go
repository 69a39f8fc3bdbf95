package services

import (
	"errors"

	"salescrm/internal/models"
	"salescrm/internal/repositories"
)

type ReportService struct {
	Pipelines *repositories.PipelineRepository
	Leads     *repositories.LeadRepository
	Deals     *repositories.DealRepository
}

func NewReportService(pipelines *repositories.PipelineRepository, leads *repositories.LeadRepository, deals *repositories.DealRepository) *ReportService {
	return &ReportService{Pipelines: pipelines, Leads: leads, Deals: deals}
}

// PipelineSummary reports count and total value per stage for both
// funnels of a pipeline.
func (s *ReportService) PipelineSummary(pipelineID int) (*models.PipelineReport, error) {
	pipeline, err := s.Pipelines.GetByID(pipelineID)
	if err != nil {
		return nil, err
	}
	if pipeline == nil {
		return nil, errors.New("pipeline not found")
	}
	leads, err := s.Leads.SummaryByStage(pipelineID)
	if err != nil {
		return nil, err
	}
	deals, err := s.Deals.SummaryByStage(pipelineID)
	if err != nil {
		return nil, err
	}
	return &models.PipelineReport{
		PipelineID:   pipeline.ID,
		PipelineName: pipeline.PipelineName,
		Leads:        leads,
		Deals:        deals,
	}, nil
}
