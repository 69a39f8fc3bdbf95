package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"salescrm/internal/models"
	"salescrm/internal/repositories"
)

type DealService struct {
	Repo     *repositories.DealRepository
	Stages   StageDefaults
	Products ProductStore
	Telegram *TelegramService
}

func NewDealService(repo *repositories.DealRepository, stages StageDefaults, products ProductStore, telegram *TelegramService) *DealService {
	return &DealService{Repo: repo, Stages: stages, Products: products, Telegram: telegram}
}

// Create stores a deal. When line items are given the deal value is
// derived from them through the pricing rules; items referencing catalog
// products pull the document currency along (last one wins). Without an
// explicit stage the deal lands in the pipeline's default deal stage.
func (s *DealService) Create(deal *models.Deal, items []models.LineItem, taxEnabled bool) error {
	if strings.TrimSpace(deal.DealName) == "" {
		return errors.New("deal_name is required")
	}
	if err := s.applyItems(deal, items, taxEnabled); err != nil {
		return err
	}
	if deal.CreatedAt.IsZero() {
		deal.CreatedAt = time.Now()
	}
	if deal.StageID == 0 {
		def, err := s.Stages.DefaultStage(deal.PipelineID, models.StageTypeDeal)
		if err != nil {
			return err
		}
		if def != nil {
			deal.StageID = def.ID
		}
	} else if err := s.checkStage(deal.PipelineID, deal.StageID); err != nil {
		return err
	}
	id, err := s.Repo.Create(deal)
	if err != nil {
		return err
	}
	deal.ID = int(id)
	return nil
}

func (s *DealService) Update(deal *models.Deal, items []models.LineItem, taxEnabled bool) error {
	if err := s.applyItems(deal, items, taxEnabled); err != nil {
		return err
	}
	if deal.StageID != 0 {
		if err := s.checkStage(deal.PipelineID, deal.StageID); err != nil {
			return err
		}
	}
	return s.Repo.Update(deal)
}

func (s *DealService) GetByID(id int) (*models.Deal, error) {
	return s.Repo.GetByID(id)
}

func (s *DealService) List(limit, offset int) ([]*models.Deal, error) {
	return s.Repo.ListPaginated(limit, offset)
}

func (s *DealService) ListByStage(stageID int) ([]*models.Deal, error) {
	return s.Repo.ListByStage(stageID)
}

func (s *DealService) Delete(id int) error {
	return s.Repo.Delete(id)
}

// ChangeStage moves a deal along its pipeline.
func (s *DealService) ChangeStage(id, stageID int) (*models.Deal, error) {
	deal, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, errors.New("deal not found")
	}
	if err := s.checkStage(deal.PipelineID, stageID); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStage(id, stageID); err != nil {
		return nil, err
	}
	s.Telegram.NotifyStageChange("Deal", deal.DealName, stageID)
	return s.Repo.GetByID(id)
}

func (s *DealService) applyItems(deal *models.Deal, items []models.LineItem, taxEnabled bool) error {
	if len(items) == 0 {
		return nil
	}
	if err := validateLineItems(items); err != nil {
		return err
	}
	items, currency, err := applyProductDefaults(items, s.Products, deal.Currency)
	if err != nil {
		return err
	}
	totals := ComputeTotals(items, taxEnabled)
	deal.Value = Round2(totals.Total)
	deal.Currency = currency
	return nil
}

func (s *DealService) checkStage(pipelineID, stageID int) error {
	stage, err := s.Stages.GetByID(stageID)
	if err != nil {
		return err
	}
	if stage == nil {
		return ErrStageNotFound
	}
	if stage.StageType != models.StageTypeDeal {
		return fmt.Errorf("stage %q is not a deal stage", stage.StageName)
	}
	if stage.PipelineID != pipelineID {
		return errors.New("stage belongs to another pipeline")
	}
	return nil
}
