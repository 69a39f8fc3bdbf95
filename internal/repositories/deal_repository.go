package repositories

import (
	"database/sql"
	"fmt"

	"salescrm/internal/models"
)

type DealRepository struct {
	db *sql.DB
}

func NewDealRepository(db *sql.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(deal *models.Deal) (int64, error) {
	const q = `
                INSERT INTO deals (deal_name, lead_id, customer_id, pipeline_id, stage_id, value, currency, created_at)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                RETURNING id
        `
	var id int64
	err := r.db.QueryRow(q,
		deal.DealName, nullableID(deal.LeadID), nullableID(deal.CustomerID),
		deal.PipelineID, nullableID(deal.StageID), deal.Value, deal.Currency, deal.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create deal: %w", err)
	}
	return id, nil
}

// GetByLeadID returns the latest deal created from a lead; used for
// conversion idempotency.
func (r *DealRepository) GetByLeadID(leadID int) (*models.Deal, error) {
	const q = `
                SELECT id, deal_name, COALESCE(lead_id, 0), COALESCE(customer_id, 0), pipeline_id, COALESCE(stage_id, 0), value, currency, created_at
                FROM deals
                WHERE lead_id = $1
                ORDER BY created_at DESC
                LIMIT 1
        `
	deal := &models.Deal{}
	err := r.db.QueryRow(q, leadID).Scan(
		&deal.ID, &deal.DealName, &deal.LeadID, &deal.CustomerID,
		&deal.PipelineID, &deal.StageID, &deal.Value, &deal.Currency, &deal.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deal by lead_id: %w", err)
	}
	return deal, nil
}

func (r *DealRepository) Update(deal *models.Deal) error {
	const q = `
                UPDATE deals
                SET deal_name=$1, lead_id=$2, customer_id=$3, pipeline_id=$4, stage_id=$5, value=$6, currency=$7
                WHERE id=$8
        `
	_, err := r.db.Exec(q,
		deal.DealName, nullableID(deal.LeadID), nullableID(deal.CustomerID),
		deal.PipelineID, nullableID(deal.StageID), deal.Value, deal.Currency, deal.ID,
	)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	return nil
}

func (r *DealRepository) GetByID(id int) (*models.Deal, error) {
	const q = `
                SELECT id, deal_name, COALESCE(lead_id, 0), COALESCE(customer_id, 0), pipeline_id, COALESCE(stage_id, 0), value, currency, created_at
                FROM deals
                WHERE id=$1
        `
	deal := &models.Deal{}
	err := r.db.QueryRow(q, id).Scan(
		&deal.ID, &deal.DealName, &deal.LeadID, &deal.CustomerID,
		&deal.PipelineID, &deal.StageID, &deal.Value, &deal.Currency, &deal.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return deal, nil
}

func (r *DealRepository) Delete(id int) error {
	const q = `DELETE FROM deals WHERE id=$1`
	result, err := r.db.Exec(q, id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("deal with id=%d not found", id)
	}
	return nil
}

func (r *DealRepository) ListPaginated(limit, offset int) ([]*models.Deal, error) {
	const q = `
                SELECT id, deal_name, COALESCE(lead_id, 0), COALESCE(customer_id, 0), pipeline_id, COALESCE(stage_id, 0), value, currency, created_at
                FROM deals
                ORDER BY created_at DESC
                LIMIT $1 OFFSET $2
        `
	rows, err := r.db.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	return scanDeals(rows)
}

func (r *DealRepository) ListByStage(stageID int) ([]*models.Deal, error) {
	const q = `
                SELECT id, deal_name, COALESCE(lead_id, 0), COALESCE(customer_id, 0), pipeline_id, COALESCE(stage_id, 0), value, currency, created_at
                FROM deals
                WHERE stage_id = $1
                ORDER BY created_at DESC
        `
	rows, err := r.db.Query(q, stageID)
	if err != nil {
		return nil, fmt.Errorf("list deals by stage: %w", err)
	}
	defer rows.Close()

	return scanDeals(rows)
}

func (r *DealRepository) UpdateStage(id, stageID int) error {
	const q = `UPDATE deals SET stage_id = $1 WHERE id = $2`
	_, err := r.db.Exec(q, stageID, id)
	return err
}

// CountByStage reports how many deals sit in a stage; used for the
// in-use guard on stage edit/delete.
func (r *DealRepository) CountByStage(stageID int) (int, error) {
	var count int
	const q = `SELECT COUNT(*) FROM deals WHERE stage_id=$1`
	err := r.db.QueryRow(q, stageID).Scan(&count)
	return count, err
}

func (r *DealRepository) SummaryByStage(pipelineID int) ([]models.StageSummary, error) {
	const q = `
                SELECT s.id, s.stage_name, s.is_default, COUNT(d.id), COALESCE(SUM(d.value), 0)
                FROM stages s
                LEFT JOIN deals d ON d.stage_id = s.id
                WHERE s.pipeline_id = $1 AND s.stage_type = 'deal'
                GROUP BY s.id, s.stage_name, s.is_default
                ORDER BY s.id
        `
	rows, err := r.db.Query(q, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("deal summary: %w", err)
	}
	defer rows.Close()

	var out []models.StageSummary
	for rows.Next() {
		var s models.StageSummary
		if err := rows.Scan(&s.StageID, &s.StageName, &s.IsDefault, &s.Count, &s.TotalValue); err != nil {
			return nil, fmt.Errorf("scan deal summary: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

func scanDeals(rows *sql.Rows) ([]*models.Deal, error) {
	var deals []*models.Deal
	for rows.Next() {
		var d models.Deal
		if err := rows.Scan(&d.ID, &d.DealName, &d.LeadID, &d.CustomerID,
			&d.PipelineID, &d.StageID, &d.Value, &d.Currency, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, &d)
	}
	return deals, nil
}
