package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescrm/internal/models"
)

func stageFixture() []models.Stage {
	return []models.Stage{
		{ID: 1, StageName: "New", PipelineID: 1, StageType: models.StageTypeLead, IsDefault: true},
		{ID: 2, StageName: "Contacted", PipelineID: 1, StageType: models.StageTypeLead},
		{ID: 3, StageName: "Qualified", PipelineID: 1, StageType: models.StageTypeLead},
		{ID: 4, StageName: "Negotiation", PipelineID: 1, StageType: models.StageTypeDeal, IsDefault: true},
		{ID: 5, StageName: "Won", PipelineID: 1, StageType: models.StageTypeDeal},
		{ID: 6, StageName: "Incoming", PipelineID: 2, StageType: models.StageTypeLead, IsDefault: true},
	}
}

// countDefaults applies a plan to the fixture in memory and counts the
// defaults per (pipeline, stage type) afterwards.
func countDefaults(existing []models.Stage, plan StagePlan) map[[2]interface{}]int {
	byID := map[int]models.Stage{}
	for _, s := range existing {
		byID[s.ID] = s
	}
	for _, u := range plan.Updates {
		byID[u.ID] = u
	}
	nextID := 1000
	for _, c := range plan.Creates {
		if c.ID == 0 {
			c.ID = nextID
			nextID++
		}
		byID[c.ID] = c
	}
	for _, d := range plan.Deletes {
		delete(byID, d)
	}
	counts := map[[2]interface{}]int{}
	for _, s := range byID {
		if s.IsDefault {
			counts[[2]interface{}{s.PipelineID, s.StageType}]++
		}
	}
	return counts
}

func TestPlanStageCreateDemotesPreviousDefault(t *testing.T) {
	existing := stageFixture()
	plan := PlanStageCreate(models.Stage{
		StageName: "Inbound", PipelineID: 1, StageType: models.StageTypeLead, IsDefault: true,
	}, existing)

	assert.False(t, plan.RequiresConfirmation, "creation demotes silently")
	require.Len(t, plan.Updates, 1)
	assert.Equal(t, 1, plan.Updates[0].ID)
	assert.False(t, plan.Updates[0].IsDefault)
	require.Len(t, plan.Creates, 1)
	assert.True(t, plan.Creates[0].IsDefault)

	for _, n := range countDefaults(existing, plan) {
		assert.LessOrEqual(t, n, 1)
	}
}

func TestPlanStageCreateNonDefaultTouchesNothing(t *testing.T) {
	existing := stageFixture()
	plan := PlanStageCreate(models.Stage{
		StageName: "Parked", PipelineID: 1, StageType: models.StageTypeLead,
	}, existing)

	assert.Empty(t, plan.Updates)
	require.Len(t, plan.Creates, 1)
	assert.False(t, plan.Creates[0].IsDefault)
}

func TestPlanStageCreateDefaultScopedByStageType(t *testing.T) {
	// A new default deal stage must not demote the lead default.
	existing := stageFixture()
	plan := PlanStageCreate(models.Stage{
		StageName: "Proposal", PipelineID: 1, StageType: models.StageTypeDeal, IsDefault: true,
	}, existing)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, 4, plan.Updates[0].ID)
}

func TestPlanStageUpdateGrantDefaultNeedsConfirmation(t *testing.T) {
	existing := stageFixture()
	def := true
	plan, err := PlanStageUpdate(2, StageChanges{IsDefault: &def}, existing)
	require.NoError(t, err)

	assert.True(t, plan.RequiresConfirmation)
	require.NotNil(t, plan.CurrentDefault)
	assert.Equal(t, 1, plan.CurrentDefault.ID)
	assert.Empty(t, plan.Updates, "no writes before the user confirms")
}

func TestPlanStageUpdateGrantDefaultConfirmed(t *testing.T) {
	existing := stageFixture()
	def := true
	plan, err := PlanStageUpdate(2, StageChanges{IsDefault: &def, Confirmed: true}, existing)
	require.NoError(t, err)

	assert.False(t, plan.RequiresConfirmation)
	require.Len(t, plan.Updates, 2)
	// Demote commits before the grant.
	assert.Equal(t, 1, plan.Updates[0].ID)
	assert.False(t, plan.Updates[0].IsDefault)
	assert.Equal(t, 2, plan.Updates[1].ID)
	assert.True(t, plan.Updates[1].IsDefault)

	for _, n := range countDefaults(existing, plan) {
		assert.LessOrEqual(t, n, 1)
	}
}

func TestPlanStageUpdateGrantDefaultNoCompetitor(t *testing.T) {
	existing := []models.Stage{
		{ID: 1, StageName: "New", PipelineID: 1, StageType: models.StageTypeLead},
		{ID: 2, StageName: "Contacted", PipelineID: 1, StageType: models.StageTypeLead},
	}
	def := true
	plan, err := PlanStageUpdate(1, StageChanges{IsDefault: &def}, existing)
	require.NoError(t, err)

	assert.False(t, plan.RequiresConfirmation, "nothing to demote, no prompt")
	require.Len(t, plan.Updates, 1)
	assert.True(t, plan.Updates[0].IsDefault)
}

func TestPlanStageUpdatePipelineMoveClearsDefault(t *testing.T) {
	existing := stageFixture()
	pipeline := 2
	def := true
	plan, err := PlanStageUpdate(1, StageChanges{PipelineID: &pipeline, IsDefault: &def}, existing)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 1)
	moved := plan.Updates[0]
	assert.Equal(t, 2, moved.PipelineID)
	assert.False(t, moved.IsDefault, "default never follows a stage across pipelines")

	// Pipeline 2's existing default is untouched.
	for _, u := range plan.Updates {
		assert.NotEqual(t, 6, u.ID)
	}
}

func TestPlanStageUpdateClearDefaultWithoutReplacement(t *testing.T) {
	existing := stageFixture()
	def := false
	plan, err := PlanStageUpdate(1, StageChanges{IsDefault: &def}, existing)
	require.NoError(t, err)

	assert.True(t, plan.RequiresConfirmation)
	assert.Len(t, plan.Candidates, 2)
	for _, c := range plan.Candidates {
		assert.Equal(t, models.StageTypeLead, c.StageType)
		assert.Equal(t, 1, c.PipelineID)
	}
}

func TestPlanStageUpdateClearDefaultWithReplacement(t *testing.T) {
	existing := stageFixture()
	def := false
	plan, err := PlanStageUpdate(1, StageChanges{IsDefault: &def, NewDefaultID: 3}, existing)
	require.NoError(t, err)

	assert.False(t, plan.RequiresConfirmation)
	require.Len(t, plan.Updates, 2)
	// Promote commits before the demote.
	assert.Equal(t, 3, plan.Updates[0].ID)
	assert.True(t, plan.Updates[0].IsDefault)
	assert.Equal(t, 1, plan.Updates[1].ID)
	assert.False(t, plan.Updates[1].IsDefault)

	counts := countDefaults(existing, plan)
	assert.Equal(t, 1, counts[[2]interface{}{1, models.StageTypeLead}])
}

func TestPlanStageUpdateClearDefaultLastStage(t *testing.T) {
	existing := []models.Stage{
		{ID: 1, StageName: "Only", PipelineID: 1, StageType: models.StageTypeLead, IsDefault: true},
	}
	def := false
	_, err := PlanStageUpdate(1, StageChanges{IsDefault: &def}, existing)
	assert.ErrorIs(t, err, ErrNoAlternateDefault)
}

func TestPlanStageUpdateUnknownStage(t *testing.T) {
	_, err := PlanStageUpdate(99, StageChanges{}, stageFixture())
	assert.ErrorIs(t, err, ErrStageNotFound)
}

func TestPlanStageUpdateRenameOnly(t *testing.T) {
	existing := stageFixture()
	name := "Fresh"
	plan, err := PlanStageUpdate(1, StageChanges{StageName: &name}, existing)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, "Fresh", plan.Updates[0].StageName)
	assert.True(t, plan.Updates[0].IsDefault, "rename keeps the flag")
}

func TestPlanStageDeleteNonDefault(t *testing.T) {
	plan, err := PlanStageDelete(2, 0, stageFixture())
	require.NoError(t, err)

	assert.False(t, plan.RequiresConfirmation)
	assert.Empty(t, plan.Updates)
	assert.Equal(t, []int{2}, plan.Deletes)
}

func TestPlanStageDeleteDefaultNeedsConfirmation(t *testing.T) {
	plan, err := PlanStageDelete(1, 0, stageFixture())
	require.NoError(t, err)

	assert.True(t, plan.RequiresConfirmation)
	assert.Len(t, plan.Candidates, 2)
	assert.Empty(t, plan.Deletes, "no delete until a replacement is picked")
}

func TestPlanStageDeleteDefaultWithReplacement(t *testing.T) {
	existing := stageFixture()
	plan, err := PlanStageDelete(1, 2, existing)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, 2, plan.Updates[0].ID)
	assert.True(t, plan.Updates[0].IsDefault)
	assert.Equal(t, []int{1}, plan.Deletes)

	counts := countDefaults(existing, plan)
	assert.Equal(t, 1, counts[[2]interface{}{1, models.StageTypeLead}])
}

func TestPlanStageDeleteLastStage(t *testing.T) {
	existing := []models.Stage{
		{ID: 1, StageName: "Only", PipelineID: 1, StageType: models.StageTypeLead, IsDefault: true},
	}
	plan, err := PlanStageDelete(1, 0, existing)
	require.NoError(t, err)

	assert.False(t, plan.RequiresConfirmation)
	assert.Equal(t, []int{1}, plan.Deletes)
}

func TestPlanStageDeleteReplacementFromOtherPipeline(t *testing.T) {
	// Stage 6 lives in pipeline 2; it cannot take over pipeline 1's flag.
	_, err := PlanStageDelete(1, 6, stageFixture())
	assert.ErrorIs(t, err, ErrStageNotFound)
}
