package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"salescrm/internal/models"
)

// StageStore is the subset of the stage repository the service needs.
type StageStore interface {
	List() ([]models.Stage, error)
	GetByID(id int) (*models.Stage, error)
	Create(stage *models.Stage) (int64, error)
	Update(stage *models.Stage) error
	Delete(id int) error
}

// StageRefCounter reports how many records reference a stage.
type StageRefCounter interface {
	CountByStage(stageID int) (int, error)
}

type StageService struct {
	Repo  StageStore
	Leads StageRefCounter
	Deals StageRefCounter
}

func NewStageService(repo StageStore, leads, deals StageRefCounter) *StageService {
	return &StageService{Repo: repo, Leads: leads, Deals: deals}
}

func (s *StageService) List(pipelineID int, stageType string) ([]models.Stage, error) {
	all, err := s.Repo.List()
	if err != nil {
		return nil, err
	}
	if pipelineID == 0 && stageType == "" {
		return all, nil
	}
	var out []models.Stage
	for _, st := range all {
		if pipelineID != 0 && st.PipelineID != pipelineID {
			continue
		}
		if stageType != "" && st.StageType != stageType {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *StageService) GetByID(id int) (*models.Stage, error) {
	return s.Repo.GetByID(id)
}

// DefaultStage returns the default stage for a pipeline/stage type, or nil
// when the pipeline has none.
func (s *StageService) DefaultStage(pipelineID int, stageType string) (*models.Stage, error) {
	all, err := s.Repo.List()
	if err != nil {
		return nil, err
	}
	return currentDefault(all, pipelineID, stageType, 0), nil
}

// Create adds a stage. When the new stage is marked default, the previous
// default for the same pipeline/stage type is demoted first so the insert
// can never produce a second default.
func (s *StageService) Create(stage *models.Stage) error {
	if strings.TrimSpace(stage.StageName) == "" {
		return errors.New("stage_name is required")
	}
	if stage.StageType != models.StageTypeLead && stage.StageType != models.StageTypeDeal {
		return errors.New("stage_type must be \"lead\" or \"deal\"")
	}
	if stage.CreatedAt.IsZero() {
		stage.CreatedAt = time.Now()
	}

	existing, err := s.Repo.List()
	if err != nil {
		return err
	}
	plan := PlanStageCreate(*stage, existing)
	for i := range plan.Updates {
		if err := s.Repo.Update(&plan.Updates[i]); err != nil {
			return fmt.Errorf("demote previous default: %w", err)
		}
	}
	id, err := s.Repo.Create(stage)
	if err != nil {
		return err
	}
	stage.ID = int(id)
	return nil
}

// Update edits a stage. Returns a non-nil plan instead of writing anything
// when the edit needs user confirmation (demoting another default, or
// picking a replacement default); the caller re-submits with the
// resolution set on changes.
func (s *StageService) Update(id int, changes StageChanges) (*models.Stage, *StagePlan, error) {
	if err := s.ensureNotInUse(id); err != nil {
		return nil, nil, err
	}
	existing, err := s.Repo.List()
	if err != nil {
		return nil, nil, err
	}
	plan, err := PlanStageUpdate(id, changes, existing)
	if err != nil {
		return nil, nil, err
	}
	if plan.RequiresConfirmation {
		return nil, &plan, nil
	}
	var updated *models.Stage
	for i := range plan.Updates {
		if err := s.Repo.Update(&plan.Updates[i]); err != nil {
			return nil, nil, fmt.Errorf("update stage %d: %w", plan.Updates[i].ID, err)
		}
		if plan.Updates[i].ID == id {
			updated = &plan.Updates[i]
		}
	}
	return updated, nil, nil
}

// Delete removes a stage. Deleting the default stage of a pipeline needs a
// replacement nominated via newDefaultID unless it is the last stage of
// its kind; the promote commits before the delete, so a failure in between
// leaves both stages visible rather than a default-less pipeline.
func (s *StageService) Delete(id, newDefaultID int) (*StagePlan, error) {
	if err := s.ensureNotInUse(id); err != nil {
		return nil, err
	}
	existing, err := s.Repo.List()
	if err != nil {
		return nil, err
	}
	plan, err := PlanStageDelete(id, newDefaultID, existing)
	if err != nil {
		return nil, err
	}
	if plan.RequiresConfirmation {
		return &plan, nil
	}
	for i := range plan.Updates {
		if err := s.Repo.Update(&plan.Updates[i]); err != nil {
			return nil, fmt.Errorf("promote replacement default: %w", err)
		}
	}
	for _, delID := range plan.Deletes {
		if err := s.Repo.Delete(delID); err != nil {
			return nil, fmt.Errorf("delete stage %d: %w", delID, err)
		}
	}
	return nil, nil
}

func (s *StageService) ensureNotInUse(stageID int) error {
	if s.Leads != nil {
		n, err := s.Leads.CountByStage(stageID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrStageInUse
		}
	}
	if s.Deals != nil {
		n, err := s.Deals.CountByStage(stageID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrStageInUse
		}
	}
	return nil
}
