package repositories

import (
	"database/sql"
	"fmt"

	"salescrm/internal/models"
)

type LeadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(lead *models.Lead) (int64, error) {
	const q = `
                INSERT INTO leads (lead_name, company, email, phone, pipeline_id, stage_id, value, currency, status, created_at)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                RETURNING id
        `
	var id int64
	err := r.db.QueryRow(q,
		lead.LeadName, lead.Company, lead.Email, lead.Phone,
		lead.PipelineID, nullableID(lead.StageID), lead.Value, lead.Currency, lead.Status, lead.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create lead: %w", err)
	}
	return id, nil
}

func (r *LeadRepository) Update(lead *models.Lead) error {
	const q = `
                UPDATE leads
                SET lead_name=$1, company=$2, email=$3, phone=$4, pipeline_id=$5, stage_id=$6, value=$7, currency=$8, status=$9
                WHERE id=$10
        `
	if _, err := r.db.Exec(q,
		lead.LeadName, lead.Company, lead.Email, lead.Phone,
		lead.PipelineID, nullableID(lead.StageID), lead.Value, lead.Currency, lead.Status, lead.ID,
	); err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) GetByID(id int) (*models.Lead, error) {
	const q = `
                SELECT id, lead_name, company, email, phone, pipeline_id, COALESCE(stage_id, 0), value, currency, status, created_at
                FROM leads
                WHERE id=$1
        `
	var l models.Lead
	err := r.db.QueryRow(q, id).Scan(
		&l.ID, &l.LeadName, &l.Company, &l.Email, &l.Phone,
		&l.PipelineID, &l.StageID, &l.Value, &l.Currency, &l.Status, &l.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &l, nil
}

func (r *LeadRepository) List(limit, offset int) ([]*models.Lead, error) {
	const q = `
                SELECT id, lead_name, company, email, phone, pipeline_id, COALESCE(stage_id, 0), value, currency, status, created_at
                FROM leads
                ORDER BY created_at DESC
                LIMIT $1 OFFSET $2
        `
	rows, err := r.db.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.ID, &l.LeadName, &l.Company, &l.Email, &l.Phone,
			&l.PipelineID, &l.StageID, &l.Value, &l.Currency, &l.Status, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, &l)
	}
	return leads, nil
}

func (r *LeadRepository) Delete(id int) error {
	const q = `DELETE FROM leads WHERE id=$1`
	result, err := r.db.Exec(q, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("lead with id=%d not found", id)
	}
	return nil
}

func (r *LeadRepository) UpdateStage(id, stageID int) error {
	const q = `UPDATE leads SET stage_id=$1 WHERE id=$2`
	_, err := r.db.Exec(q, stageID, id)
	return err
}

// CountByStage reports how many leads sit in a stage; used for the
// in-use guard on stage edit/delete.
func (r *LeadRepository) CountByStage(stageID int) (int, error) {
	var count int
	const q = `SELECT COUNT(*) FROM leads WHERE stage_id=$1`
	err := r.db.QueryRow(q, stageID).Scan(&count)
	return count, err
}

func (r *LeadRepository) SummaryByStage(pipelineID int) ([]models.StageSummary, error) {
	const q = `
                SELECT s.id, s.stage_name, s.is_default, COUNT(l.id), COALESCE(SUM(l.value), 0)
                FROM stages s
                LEFT JOIN leads l ON l.stage_id = s.id
                WHERE s.pipeline_id = $1 AND s.stage_type = 'lead'
                GROUP BY s.id, s.stage_name, s.is_default
                ORDER BY s.id
        `
	rows, err := r.db.Query(q, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("lead summary: %w", err)
	}
	defer rows.Close()

	var out []models.StageSummary
	for rows.Next() {
		var s models.StageSummary
		if err := rows.Scan(&s.StageID, &s.StageName, &s.IsDefault, &s.Count, &s.TotalValue); err != nil {
			return nil, fmt.Errorf("scan lead summary: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

// nullableID maps 0 to NULL so unset foreign keys survive the constraint.
func nullableID(id int) any {
	if id == 0 {
		return nil
	}
	return id
}
