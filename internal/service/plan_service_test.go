package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriplan/internal/repositories"
	"nutriplan/models"
)

func TestDeletePlanOwned(t *testing.T) {
	repo := newFakePlanRepo()
	owner := "user-1"
	repo.plans["plan-1"] = &models.Plan{ID: "plan-1", Name: "Mine", OwnerID: &owner}

	svc := NewPlanService(repo, newTestLogger())

	require.NoError(t, svc.DeletePlan("plan-1", "user-1"))
	assert.NotContains(t, repo.plans, "plan-1")
}

func TestDeletePlanRefusesTemplate(t *testing.T) {
	repo := newFakePlanRepo()
	repo.plans["tpl-1"] = &models.Plan{ID: "tpl-1", Name: "Template", IsTemplate: true}

	svc := NewPlanService(repo, newTestLogger())

	err := svc.DeletePlan("tpl-1", "user-1")
	assert.ErrorIs(t, err, ErrTemplateImmutable)
	assert.Contains(t, repo.plans, "tpl-1")
}

func TestDeletePlanRefusesForeignOwner(t *testing.T) {
	repo := newFakePlanRepo()
	owner := "user-1"
	repo.plans["plan-1"] = &models.Plan{ID: "plan-1", Name: "Mine", OwnerID: &owner}

	svc := NewPlanService(repo, newTestLogger())

	err := svc.DeletePlan("plan-1", "user-2")
	assert.ErrorIs(t, err, ErrNotPlanOwner)
	assert.Contains(t, repo.plans, "plan-1")
}

func TestDeletePlanNotFound(t *testing.T) {
	svc := NewPlanService(newFakePlanRepo(), newTestLogger())

	err := svc.DeletePlan("missing", "user-1")
	assert.ErrorIs(t, err, repositories.ErrPlanNotFound)
}

func TestGetUserPlans(t *testing.T) {
	repo := newFakePlanRepo()
	owner1, owner2 := "user-1", "user-2"
	repo.plans["a"] = &models.Plan{ID: "a", OwnerID: &owner1}
	repo.plans["b"] = &models.Plan{ID: "b", OwnerID: &owner2}
	repo.plans["t"] = &models.Plan{ID: "t", IsTemplate: true}

	svc := NewPlanService(repo, newTestLogger())

	plans, err := svc.GetUserPlans("user-1")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "a", plans[0].ID)

	_, err = svc.GetUserPlans("")
	assert.Error(t, err)
}

func TestGetTemplates(t *testing.T) {
	repo := newFakePlanRepo()
	repo.plans["t1"] = &models.Plan{ID: "t1", IsTemplate: true}
	repo.plans["p1"] = &models.Plan{ID: "p1"}

	svc := NewPlanService(repo, newTestLogger())

	templates, err := svc.GetTemplates()
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "t1", templates[0].ID)
}

func TestGetPlanTreeEmptyID(t *testing.T) {
	svc := NewPlanService(newFakePlanRepo(), newTestLogger())

	_, err := svc.GetPlanTree("")
	assert.Error(t, err)
}
