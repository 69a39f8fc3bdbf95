package repositories

import (
	"database/sql"
	"fmt"

	"salescrm/internal/models"
)

type PipelineRepository struct {
	db *sql.DB
}

func NewPipelineRepository(db *sql.DB) *PipelineRepository {
	return &PipelineRepository{db: db}
}

func (r *PipelineRepository) Create(p *models.Pipeline) (int64, error) {
	const q = `
                INSERT INTO pipelines (pipeline_name, created_at)
                VALUES ($1, $2)
                RETURNING id
        `
	var id int64
	if err := r.db.QueryRow(q, p.PipelineName, p.CreatedAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("create pipeline: %w", err)
	}
	return id, nil
}

func (r *PipelineRepository) Update(p *models.Pipeline) error {
	const q = `UPDATE pipelines SET pipeline_name=$1 WHERE id=$2`
	if _, err := r.db.Exec(q, p.PipelineName, p.ID); err != nil {
		return fmt.Errorf("update pipeline: %w", err)
	}
	return nil
}

func (r *PipelineRepository) GetByID(id int) (*models.Pipeline, error) {
	const q = `SELECT id, pipeline_name, created_at FROM pipelines WHERE id=$1`
	var p models.Pipeline
	if err := r.db.QueryRow(q, id).Scan(&p.ID, &p.PipelineName, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get pipeline: %w", err)
	}
	return &p, nil
}

func (r *PipelineRepository) List() ([]*models.Pipeline, error) {
	const q = `SELECT id, pipeline_name, created_at FROM pipelines ORDER BY id`
	rows, err := r.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("list pipelines: %w", err)
	}
	defer rows.Close()

	var pipelines []*models.Pipeline
	for rows.Next() {
		var p models.Pipeline
		if err := rows.Scan(&p.ID, &p.PipelineName, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pipeline: %w", err)
		}
		pipelines = append(pipelines, &p)
	}
	return pipelines, nil
}

func (r *PipelineRepository) Delete(id int) error {
	const q = `DELETE FROM pipelines WHERE id=$1`
	result, err := r.db.Exec(q, id)
	if err != nil {
		return fmt.Errorf("delete pipeline: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete pipeline: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("pipeline with id=%d not found", id)
	}
	return nil
}
