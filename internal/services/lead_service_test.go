package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescrm/internal/models"
)

type fakeLeadStore struct {
	leads     map[int]*models.Lead
	nextID    int
	updateErr error
}

func newFakeLeadStore(leads ...*models.Lead) *fakeLeadStore {
	f := &fakeLeadStore{leads: map[int]*models.Lead{}, nextID: 1}
	for _, l := range leads {
		f.leads[l.ID] = l
		if l.ID >= f.nextID {
			f.nextID = l.ID + 1
		}
	}
	return f
}

func (f *fakeLeadStore) Create(lead *models.Lead) (int64, error) {
	lead.ID = f.nextID
	f.nextID++
	cp := *lead
	f.leads[lead.ID] = &cp
	return int64(lead.ID), nil
}

func (f *fakeLeadStore) Update(lead *models.Lead) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *lead
	f.leads[lead.ID] = &cp
	return nil
}

func (f *fakeLeadStore) GetByID(id int) (*models.Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLeadStore) List(limit, offset int) ([]*models.Lead, error) { return nil, nil }

func (f *fakeLeadStore) Delete(id int) error {
	delete(f.leads, id)
	return nil
}

func (f *fakeLeadStore) UpdateStage(id, stageID int) error {
	if l, ok := f.leads[id]; ok {
		l.StageID = stageID
	}
	return nil
}

type fakeDealStore struct {
	deals  map[int]*models.Deal
	nextID int
}

func newFakeDealStore() *fakeDealStore {
	return &fakeDealStore{deals: map[int]*models.Deal{}, nextID: 1}
}

func (f *fakeDealStore) Create(deal *models.Deal) (int64, error) {
	deal.ID = f.nextID
	f.nextID++
	cp := *deal
	f.deals[deal.ID] = &cp
	return int64(deal.ID), nil
}

func (f *fakeDealStore) GetByLeadID(leadID int) (*models.Deal, error) {
	for _, d := range f.deals {
		if d.LeadID == leadID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeDealStore) Delete(id int) error {
	delete(f.deals, id)
	return nil
}

type fakeStageDefaults struct {
	stages   map[int]*models.Stage
	defaults map[string]*models.Stage // key pipeline+type
}

func newFakeStageDefaults(stages ...*models.Stage) *fakeStageDefaults {
	f := &fakeStageDefaults{stages: map[int]*models.Stage{}, defaults: map[string]*models.Stage{}}
	for _, s := range stages {
		f.stages[s.ID] = s
		if s.IsDefault {
			f.defaults[stageKey(s.PipelineID, s.StageType)] = s
		}
	}
	return f
}

func stageKey(pipelineID int, stageType string) string {
	return fmt.Sprintf("%d|%s", pipelineID, stageType)
}

func (f *fakeStageDefaults) GetByID(id int) (*models.Stage, error) {
	return f.stages[id], nil
}

func (f *fakeStageDefaults) DefaultStage(pipelineID int, stageType string) (*models.Stage, error) {
	return f.defaults[stageKey(pipelineID, stageType)], nil
}

func leadPipelineStages() *fakeStageDefaults {
	return newFakeStageDefaults(
		&models.Stage{ID: 1, StageName: "New", PipelineID: 1, StageType: models.StageTypeLead, IsDefault: true},
		&models.Stage{ID: 2, StageName: "Contacted", PipelineID: 1, StageType: models.StageTypeLead},
		&models.Stage{ID: 3, StageName: "Negotiation", PipelineID: 1, StageType: models.StageTypeDeal, IsDefault: true},
		&models.Stage{ID: 4, StageName: "Other", PipelineID: 2, StageType: models.StageTypeLead},
	)
}

func TestLeadServiceCreateAssignsDefaultStage(t *testing.T) {
	store := newFakeLeadStore()
	svc := NewLeadService(store, newFakeDealStore(), leadPipelineStages(), nil)

	lead := &models.Lead{LeadName: "Acme", PipelineID: 1}
	require.NoError(t, svc.Create(lead))

	assert.Equal(t, 1, lead.StageID)
	assert.Equal(t, models.LeadStatusOpen, lead.Status)
}

func TestLeadServiceCreateKeepsExplicitStage(t *testing.T) {
	svc := NewLeadService(newFakeLeadStore(), newFakeDealStore(), leadPipelineStages(), nil)

	lead := &models.Lead{LeadName: "Acme", PipelineID: 1, StageID: 2}
	require.NoError(t, svc.Create(lead))
	assert.Equal(t, 2, lead.StageID)
}

func TestLeadServiceCreateRejectsForeignStage(t *testing.T) {
	svc := NewLeadService(newFakeLeadStore(), newFakeDealStore(), leadPipelineStages(), nil)

	// Stage 4 belongs to pipeline 2.
	err := svc.Create(&models.Lead{LeadName: "Acme", PipelineID: 1, StageID: 4})
	assert.Error(t, err)

	// Stage 3 is a deal stage.
	err = svc.Create(&models.Lead{LeadName: "Acme", PipelineID: 1, StageID: 3})
	assert.Error(t, err)
}

func TestLeadServiceChangeStage(t *testing.T) {
	store := newFakeLeadStore(&models.Lead{ID: 10, LeadName: "Acme", PipelineID: 1, StageID: 1, Status: models.LeadStatusOpen})
	svc := NewLeadService(store, newFakeDealStore(), leadPipelineStages(), nil)

	lead, err := svc.ChangeStage(10, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, lead.StageID)

	_, err = svc.ChangeStage(10, 3)
	assert.Error(t, err, "deal stages are off limits for leads")

	_, err = svc.ChangeStage(99, 2)
	assert.Error(t, err)
}

func TestLeadServiceConvertToDeal(t *testing.T) {
	store := newFakeLeadStore(&models.Lead{
		ID: 10, LeadName: "Acme", PipelineID: 1, StageID: 1,
		Status: models.LeadStatusOpen, Value: 5000, Currency: "EUR",
	})
	deals := newFakeDealStore()
	svc := NewLeadService(store, deals, leadPipelineStages(), nil)

	deal, err := svc.ConvertToDeal(10, 7, "")
	require.NoError(t, err)

	assert.Equal(t, "Acme", deal.DealName, "deal name defaults to the lead name")
	assert.Equal(t, 10, deal.LeadID)
	assert.Equal(t, 7, deal.CustomerID)
	assert.Equal(t, 3, deal.StageID, "deal lands in the default deal stage")
	assert.Equal(t, 5000.0, deal.Value)
	assert.Equal(t, "EUR", deal.Currency)

	lead, _ := store.GetByID(10)
	assert.Equal(t, models.LeadStatusConverted, lead.Status)

	// Second conversion is rejected.
	_, err = svc.ConvertToDeal(10, 7, "")
	assert.Error(t, err)
}

func TestLeadServiceConvertRollsBackOnLeadUpdateFailure(t *testing.T) {
	store := newFakeLeadStore(&models.Lead{ID: 10, LeadName: "Acme", PipelineID: 1, Status: models.LeadStatusOpen})
	store.updateErr = errors.New("db down")
	deals := newFakeDealStore()
	svc := NewLeadService(store, deals, leadPipelineStages(), nil)

	_, err := svc.ConvertToDeal(10, 7, "")
	require.Error(t, err)
	assert.Empty(t, deals.deals, "orphaned deal is removed")
}

func TestLeadServiceConvertRejectsExistingDeal(t *testing.T) {
	store := newFakeLeadStore(&models.Lead{ID: 10, LeadName: "Acme", PipelineID: 1, Status: models.LeadStatusOpen})
	deals := newFakeDealStore()
	_, _ = deals.Create(&models.Deal{DealName: "Acme", LeadID: 10})
	svc := NewLeadService(store, deals, leadPipelineStages(), nil)

	_, err := svc.ConvertToDeal(10, 7, "")
	assert.Error(t, err)
}
