package services

import (
	"errors"
	"strings"
	"time"

	"salescrm/internal/models"
	"salescrm/internal/repositories"
)

type PipelineService struct {
	Repo      *repositories.PipelineRepository
	StageRepo *repositories.StageRepository
}

func NewPipelineService(repo *repositories.PipelineRepository, stageRepo *repositories.StageRepository) *PipelineService {
	return &PipelineService{Repo: repo, StageRepo: stageRepo}
}

func (s *PipelineService) Create(p *models.Pipeline) (int64, error) {
	if strings.TrimSpace(p.PipelineName) == "" {
		return 0, errors.New("pipeline_name is required")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return s.Repo.Create(p)
}

func (s *PipelineService) Update(p *models.Pipeline) error {
	if strings.TrimSpace(p.PipelineName) == "" {
		return errors.New("pipeline_name is required")
	}
	return s.Repo.Update(p)
}

func (s *PipelineService) GetByID(id int) (*models.Pipeline, error) {
	return s.Repo.GetByID(id)
}

func (s *PipelineService) List() ([]*models.Pipeline, error) {
	return s.Repo.List()
}

// Delete removes a pipeline together with its stages.
func (s *PipelineService) Delete(id int) error {
	stages, err := s.StageRepo.List()
	if err != nil {
		return err
	}
	for _, st := range stages {
		if st.PipelineID != id {
			continue
		}
		if err := s.StageRepo.Delete(st.ID); err != nil {
			return err
		}
	}
	return s.Repo.Delete(id)
}
