package repositories

import (
	"database/sql"
	"fmt"

	"salescrm/internal/models"
)

type StageRepository struct {
	db *sql.DB
}

func NewStageRepository(db *sql.DB) *StageRepository {
	return &StageRepository{db: db}
}

func (r *StageRepository) List() ([]models.Stage, error) {
	const q = `
                SELECT id, stage_name, pipeline_id, stage_type, is_default, color, created_at
                FROM stages
                ORDER BY pipeline_id, id
        `
	rows, err := r.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	var stages []models.Stage
	for rows.Next() {
		var s models.Stage
		if err := rows.Scan(&s.ID, &s.StageName, &s.PipelineID, &s.StageType, &s.IsDefault, &s.Color, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		stages = append(stages, s)
	}
	return stages, nil
}

func (r *StageRepository) GetByID(id int) (*models.Stage, error) {
	const q = `
                SELECT id, stage_name, pipeline_id, stage_type, is_default, color, created_at
                FROM stages
                WHERE id=$1
        `
	var s models.Stage
	err := r.db.QueryRow(q, id).Scan(&s.ID, &s.StageName, &s.PipelineID, &s.StageType, &s.IsDefault, &s.Color, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stage: %w", err)
	}
	return &s, nil
}

func (r *StageRepository) Create(stage *models.Stage) (int64, error) {
	const q = `
                INSERT INTO stages (stage_name, pipeline_id, stage_type, is_default, color, created_at)
                VALUES ($1, $2, $3, $4, $5, $6)
                RETURNING id
        `
	var id int64
	err := r.db.QueryRow(q, stage.StageName, stage.PipelineID, stage.StageType, stage.IsDefault, stage.Color, stage.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create stage: %w", err)
	}
	return id, nil
}

func (r *StageRepository) Update(stage *models.Stage) error {
	const q = `
                UPDATE stages
                SET stage_name=$1, pipeline_id=$2, stage_type=$3, is_default=$4, color=$5
                WHERE id=$6
        `
	if _, err := r.db.Exec(q, stage.StageName, stage.PipelineID, stage.StageType, stage.IsDefault, stage.Color, stage.ID); err != nil {
		return fmt.Errorf("update stage: %w", err)
	}
	return nil
}

func (r *StageRepository) Delete(id int) error {
	const q = `DELETE FROM stages WHERE id=$1`
	result, err := r.db.Exec(q, id)
	if err != nil {
		return fmt.Errorf("delete stage: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete stage: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("stage with id=%d not found", id)
	}
	return nil
}
