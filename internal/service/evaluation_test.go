package service

import (
	"testing"
	"time"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateWeightsTheRawValue(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewEvaluationService(db, nil)
	p := registerProject(t, db, f, model.StatusRegistered)

	// weight 6 on a 0..10 raw grade of 8 contributes 8*6/10 = 4.8
	eval, err := svc.Evaluate(p.ID, f.criteria[0].ID, f.manager.ID, time.Now().UTC(), 8)
	require.NoError(t, err)
	assert.InDelta(t, 4.8, eval.Value, 1e-9)

	// One of two criteria scored: still REGISTERED, no score yet.
	var reloaded model.Project
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, model.StatusRegistered, reloaded.Status())
	assert.Nil(t, reloaded.Score)
}

func TestEvaluateLastCriterionAggregatesAndAdvances(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewEvaluationService(db, nil)
	p := registerProject(t, db, f, model.StatusRegistered)

	_, err := svc.Evaluate(p.ID, f.criteria[0].ID, f.manager.ID, time.Now().UTC(), 8)
	require.NoError(t, err)
	_, err = svc.Evaluate(p.ID, f.criteria[1].ID, f.manager.ID, time.Now().UTC(), 5)
	require.NoError(t, err)

	var reloaded model.Project
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, model.StatusEvaluated, reloaded.Status())
	require.NotNil(t, reloaded.Score)
	// 8*6/10 + 5*4/10 = 4.8 + 2.0
	assert.InDelta(t, 6.8, *reloaded.Score, 1e-9)

	// Registration row plus the EVALUATED row, nothing else.
	assert.Equal(t, int64(2), ledgerCount(t, db, p.ID))
}

func TestEvaluateRejectedOutsideRegistered(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewEvaluationService(db, nil)
	p := registerProject(t, db, f, model.StatusRunning)

	_, err := svc.Evaluate(p.ID, f.criteria[0].ID, f.manager.ID, time.Now().UTC(), 8)
	requireKind(t, err, apperr.KindInvalidState)
}

func TestEvaluateBlockedUntilWeightsSum(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewEvaluationService(db, nil)
	p := registerProject(t, db, f, model.StatusRegistered)

	extra := model.Criterion{PortfolioID: f.portfolio.ID, Description: "Risk", Weight: 2, UnitID: f.unit.ID}
	require.NoError(t, db.Create(&extra).Error)

	_, err := svc.Evaluate(p.ID, f.criteria[0].ID, f.manager.ID, time.Now().UTC(), 8)
	requireKind(t, err, apperr.KindValidation)

	var evals int64
	db.Model(&model.Evaluation{}).Where("project_id = ?", p.ID).Count(&evals)
	assert.Zero(t, evals)
}

func TestEvaluateRejectsValueOutsideScale(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewEvaluationService(db, nil)
	p := registerProject(t, db, f, model.StatusRegistered)

	_, err := svc.Evaluate(p.ID, f.criteria[0].ID, f.manager.ID, time.Now().UTC(), 10.5)
	requireKind(t, err, apperr.KindValidation)
	_, err = svc.Evaluate(p.ID, f.criteria[0].ID, f.manager.ID, time.Now().UTC(), -1)
	requireKind(t, err, apperr.KindValidation)

	// Boundaries are inclusive.
	_, err = svc.Evaluate(p.ID, f.criteria[0].ID, f.manager.ID, time.Now().UTC(), 10)
	require.NoError(t, err)
}

func TestEvaluateDoubleSubmitConflicts(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewEvaluationService(db, nil)
	p := registerProject(t, db, f, model.StatusRegistered)

	_, err := svc.Evaluate(p.ID, f.criteria[0].ID, f.manager.ID, time.Now().UTC(), 8)
	require.NoError(t, err)

	_, err = svc.Evaluate(p.ID, f.criteria[0].ID, f.manager.ID, time.Now().UTC(), 3)
	requireKind(t, err, apperr.KindConflict)

	var evals int64
	db.Model(&model.Evaluation{}).Where("project_id = ?", p.ID).Count(&evals)
	assert.Equal(t, int64(1), evals)
}

func TestEvaluateRejectsCriterionFromOtherPortfolio(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewEvaluationService(db, nil)
	p := registerProject(t, db, f, model.StatusRegistered)

	other := model.Portfolio{OrganizationID: f.org.ID, Name: "Operations"}
	require.NoError(t, db.Create(&other).Error)
	foreign := model.Criterion{PortfolioID: other.ID, Description: "Cost", Weight: 10, UnitID: f.unit.ID}
	require.NoError(t, db.Create(&foreign).Error)

	_, err := svc.Evaluate(p.ID, foreign.ID, f.manager.ID, time.Now().UTC(), 5)
	requireKind(t, err, apperr.KindValidation)
}

func TestEvaluateWithCustomizedUnit(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	units := NewUnitService(db)
	svc := NewEvaluationService(db, nil)

	unit, err := units.Create("maturity", false)
	require.NoError(t, err)
	_, err = units.AddGrade(unit.ID, "none", 0)
	require.NoError(t, err)
	_, err = units.AddGrade(unit.ID, "full", 10)
	require.NoError(t, err)
	_, err = units.RecomputeBestWorst(unit.ID)
	require.NoError(t, err)

	// Swap the second criterion onto the customized unit.
	require.NoError(t, db.Model(&model.Criterion{}).Where("id = ?", f.criteria[1].ID).
		Update("unit_id", unit.ID).Error)

	p := registerProject(t, db, f, model.StatusRegistered)
	_, err = svc.Evaluate(p.ID, f.criteria[1].ID, f.manager.ID, time.Now().UTC(), 10)
	require.NoError(t, err)
}

func TestEvaluateCustomizedUnitWithoutFullSpanFails(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	units := NewUnitService(db)
	svc := NewEvaluationService(db, nil)

	unit, err := units.Create("maturity", false)
	require.NoError(t, err)
	_, err = units.AddGrade(unit.ID, "low", 0)
	require.NoError(t, err)
	_, err = units.AddGrade(unit.ID, "high", 8)
	require.NoError(t, err)

	require.NoError(t, db.Model(&model.Criterion{}).Where("id = ?", f.criteria[1].ID).
		Update("unit_id", unit.ID).Error)

	p := registerProject(t, db, f, model.StatusRegistered)
	_, err = svc.Evaluate(p.ID, f.criteria[1].ID, f.manager.ID, time.Now().UTC(), 5)
	requireKind(t, err, apperr.KindValidation)
}
