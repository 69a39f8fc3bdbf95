package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"salescrm/internal/models"
)

// LeadStore is the subset of the lead repository the service needs.
type LeadStore interface {
	Create(lead *models.Lead) (int64, error)
	Update(lead *models.Lead) error
	GetByID(id int) (*models.Lead, error)
	List(limit, offset int) ([]*models.Lead, error)
	Delete(id int) error
	UpdateStage(id, stageID int) error
}

// DealStore is the subset of the deal repository lead conversion needs.
type DealStore interface {
	Create(deal *models.Deal) (int64, error)
	GetByLeadID(leadID int) (*models.Deal, error)
	Delete(id int) error
}

// StageDefaults resolves stages and pipeline defaults.
type StageDefaults interface {
	GetByID(id int) (*models.Stage, error)
	DefaultStage(pipelineID int, stageType string) (*models.Stage, error)
}

type LeadService struct {
	Repo     LeadStore
	Deals    DealStore
	Stages   StageDefaults
	Telegram *TelegramService
}

func NewLeadService(repo LeadStore, deals DealStore, stages StageDefaults, telegram *TelegramService) *LeadService {
	return &LeadService{Repo: repo, Deals: deals, Stages: stages, Telegram: telegram}
}

// Create stores a lead. When no stage is given the lead lands in the
// default lead stage of its pipeline; a pipeline without one leaves the
// lead stage-less.
func (s *LeadService) Create(lead *models.Lead) error {
	if strings.TrimSpace(lead.LeadName) == "" {
		return errors.New("lead_name is required")
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusOpen
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	if lead.StageID == 0 {
		def, err := s.Stages.DefaultStage(lead.PipelineID, models.StageTypeLead)
		if err != nil {
			return err
		}
		if def != nil {
			lead.StageID = def.ID
		}
	} else if err := s.checkStage(lead.PipelineID, lead.StageID, models.StageTypeLead); err != nil {
		return err
	}
	id, err := s.Repo.Create(lead)
	if err != nil {
		return err
	}
	lead.ID = int(id)
	return nil
}

func (s *LeadService) Update(lead *models.Lead) error {
	if lead.StageID != 0 {
		if err := s.checkStage(lead.PipelineID, lead.StageID, models.StageTypeLead); err != nil {
			return err
		}
	}
	return s.Repo.Update(lead)
}

func (s *LeadService) GetByID(id int) (*models.Lead, error) {
	return s.Repo.GetByID(id)
}

func (s *LeadService) List(limit, offset int) ([]*models.Lead, error) {
	return s.Repo.List(limit, offset)
}

func (s *LeadService) Delete(id int) error {
	return s.Repo.Delete(id)
}

// ChangeStage moves a lead to another stage of its pipeline.
func (s *LeadService) ChangeStage(id, stageID int) (*models.Lead, error) {
	lead, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, errors.New("lead not found")
	}
	if err := s.checkStage(lead.PipelineID, stageID, models.StageTypeLead); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStage(id, stageID); err != nil {
		return nil, err
	}
	s.Telegram.NotifyStageChange("Lead", lead.LeadName, stageID)
	return s.Repo.GetByID(id)
}

// ConvertToDeal turns an open lead into a deal in the same pipeline. The
// deal lands in the pipeline's default deal stage. Idempotent per lead: a
// second conversion is rejected.
func (s *LeadService) ConvertToDeal(leadID, customerID int, dealName string) (*models.Deal, error) {
	lead, err := s.Repo.GetByID(leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, errors.New("lead not found")
	}
	if lead.Status == models.LeadStatusConverted {
		return nil, errors.New("lead is already converted")
	}
	existing, err := s.Deals.GetByLeadID(leadID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("deal already exists for this lead")
	}

	if dealName == "" {
		dealName = lead.LeadName
	}
	deal := &models.Deal{
		DealName:   dealName,
		LeadID:     lead.ID,
		CustomerID: customerID,
		PipelineID: lead.PipelineID,
		Value:      lead.Value,
		Currency:   lead.Currency,
		CreatedAt:  time.Now(),
	}
	def, err := s.Stages.DefaultStage(lead.PipelineID, models.StageTypeDeal)
	if err != nil {
		return nil, err
	}
	if def != nil {
		deal.StageID = def.ID
	}

	dealID, err := s.Deals.Create(deal)
	if err != nil {
		return nil, err
	}
	deal.ID = int(dealID)

	lead.Status = models.LeadStatusConverted
	if err := s.Repo.Update(lead); err != nil {
		_ = s.Deals.Delete(deal.ID) // best-effort rollback
		return nil, err
	}
	return deal, nil
}

func (s *LeadService) checkStage(pipelineID, stageID int, stageType string) error {
	stage, err := s.Stages.GetByID(stageID)
	if err != nil {
		return err
	}
	if stage == nil {
		return ErrStageNotFound
	}
	if stage.StageType != stageType {
		return fmt.Errorf("stage %q is not a %s stage", stage.StageName, stageType)
	}
	if stage.PipelineID != pipelineID {
		return errors.New("stage belongs to another pipeline")
	}
	return nil
}
