package services

import (
	"errors"

	"salescrm/internal/models"
)

var (
	ErrStageNotFound      = errors.New("stage not found")
	ErrNoAlternateDefault = errors.New("no alternate default stage available")
	ErrStageInUse         = errors.New("stage is in use by existing leads or deals")
)

// StageChanges describes the edits requested for an existing stage.
// Nil pointer fields are left untouched.
type StageChanges struct {
	StageName  *string
	PipelineID *int
	IsDefault  *bool
	Color      *string
	// NewDefaultID nominates the replacement default when the default flag
	// is being cleared on the stage that currently holds it.
	NewDefaultID int
	// Confirmed reports that the user approved demoting the current default
	// in favor of this stage.
	Confirmed bool
}

// StagePlan is the set of writes that keeps the invariant "at most one
// default stage per (pipeline, stage type)" intact. The caller applies
// Updates first, then Creates, then Deletes, as independent repository
// calls; a partial failure is surfaced, never retried here.
type StagePlan struct {
	Creates []models.Stage
	Updates []models.Stage
	Deletes []int

	// RequiresConfirmation is set when the plan cannot proceed without the
	// user resolving a prompt. No writes are returned in that case; the
	// caller re-plans with the resolution filled in.
	RequiresConfirmation bool
	// CurrentDefault is the stage that would lose its default flag.
	CurrentDefault *models.Stage
	// Candidates are the stages eligible to take over the default flag.
	Candidates []models.Stage
}

func findStage(stages []models.Stage, id int) *models.Stage {
	for i := range stages {
		if stages[i].ID == id {
			return &stages[i]
		}
	}
	return nil
}

func currentDefault(stages []models.Stage, pipelineID int, stageType string, excludeID int) *models.Stage {
	for i := range stages {
		s := &stages[i]
		if s.ID != excludeID && s.PipelineID == pipelineID && s.StageType == stageType && s.IsDefault {
			return s
		}
	}
	return nil
}

// defaultCandidates lists the stages that could take over the default flag.
// Scoped by pipeline AND stage type, the same key the invariant uses.
func defaultCandidates(stages []models.Stage, pipelineID int, stageType string, excludeID int) []models.Stage {
	var out []models.Stage
	for _, s := range stages {
		if s.ID != excludeID && s.PipelineID == pipelineID && s.StageType == stageType {
			out = append(out, s)
		}
	}
	return out
}

// PlanStageCreate plans the writes for adding newStage. Creating a default
// stage silently demotes the previous default; no confirmation step.
func PlanStageCreate(newStage models.Stage, existing []models.Stage) StagePlan {
	var plan StagePlan
	if newStage.IsDefault {
		if cur := currentDefault(existing, newStage.PipelineID, newStage.StageType, 0); cur != nil {
			demoted := *cur
			demoted.IsDefault = false
			plan.Updates = append(plan.Updates, demoted)
		}
	}
	plan.Creates = append(plan.Creates, newStage)
	return plan
}

// PlanStageUpdate plans the writes for editing the stage with stageID.
//
// Moving a stage to another pipeline always clears its default flag.
// Granting the flag while another stage holds it needs user confirmation;
// clearing the flag on the current default needs a replacement nominated
// from the same pipeline/stage type, and fails with ErrNoAlternateDefault
// when none exists.
func PlanStageUpdate(stageID int, changes StageChanges, existing []models.Stage) (StagePlan, error) {
	cur := findStage(existing, stageID)
	if cur == nil {
		return StagePlan{}, ErrStageNotFound
	}

	next := *cur
	if changes.StageName != nil {
		next.StageName = *changes.StageName
	}
	if changes.Color != nil {
		next.Color = *changes.Color
	}

	if changes.PipelineID != nil && *changes.PipelineID != cur.PipelineID {
		next.PipelineID = *changes.PipelineID
		// Default status never follows a stage across pipelines,
		// regardless of what the request asked for.
		next.IsDefault = false
		return StagePlan{Updates: []models.Stage{next}}, nil
	}

	if changes.IsDefault == nil || *changes.IsDefault == cur.IsDefault {
		return StagePlan{Updates: []models.Stage{next}}, nil
	}

	if *changes.IsDefault {
		next.IsDefault = true
		other := currentDefault(existing, next.PipelineID, next.StageType, cur.ID)
		if other == nil {
			return StagePlan{Updates: []models.Stage{next}}, nil
		}
		if !changes.Confirmed {
			return StagePlan{RequiresConfirmation: true, CurrentDefault: other}, nil
		}
		demoted := *other
		demoted.IsDefault = false
		return StagePlan{Updates: []models.Stage{demoted, next}}, nil
	}

	// Clearing the flag on the current default.
	next.IsDefault = false
	candidates := defaultCandidates(existing, cur.PipelineID, cur.StageType, cur.ID)
	if len(candidates) == 0 {
		return StagePlan{}, ErrNoAlternateDefault
	}
	if changes.NewDefaultID == 0 {
		return StagePlan{RequiresConfirmation: true, Candidates: candidates}, nil
	}
	repl := findStage(candidates, changes.NewDefaultID)
	if repl == nil {
		return StagePlan{}, ErrStageNotFound
	}
	promoted := *repl
	promoted.IsDefault = true
	// Promote before demoting so a failure between the two writes never
	// persists a default-less pipeline.
	return StagePlan{Updates: []models.Stage{promoted, next}}, nil
}

// PlanStageDelete plans the writes for deleting the stage with stageID.
// Deleting the default stage transfers the flag to newDefaultID first;
// when the stage is the last of its kind in the pipeline, deletion
// proceeds with no default.
func PlanStageDelete(stageID, newDefaultID int, existing []models.Stage) (StagePlan, error) {
	cur := findStage(existing, stageID)
	if cur == nil {
		return StagePlan{}, ErrStageNotFound
	}
	if !cur.IsDefault {
		return StagePlan{Deletes: []int{cur.ID}}, nil
	}
	candidates := defaultCandidates(existing, cur.PipelineID, cur.StageType, cur.ID)
	if len(candidates) == 0 {
		return StagePlan{Deletes: []int{cur.ID}}, nil
	}
	if newDefaultID == 0 {
		return StagePlan{RequiresConfirmation: true, Candidates: candidates}, nil
	}
	repl := findStage(candidates, newDefaultID)
	if repl == nil {
		return StagePlan{}, ErrStageNotFound
	}
	promoted := *repl
	promoted.IsDefault = true
	// Promote must commit before the delete call.
	return StagePlan{Updates: []models.Stage{promoted}, Deletes: []int{cur.ID}}, nil
}
