package service

import (
	"errors"
	"testing"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae), "expected *apperr.Error, got %v", err)
	assert.Equal(t, kind, ae.Kind)
}

func TestTransitionTableIsClosed(t *testing.T) {
	allEvents := []Event{
		EventEvaluate, EventApprove, EventAskMoreInfo, EventReject, EventReRegister,
		EventBegin, EventStop, EventRestart, EventFinish, EventCancel,
	}
	allowed := map[model.StatusCode]map[Event]model.StatusCode{
		model.StatusRegistered: {EventEvaluate: model.StatusEvaluated},
		model.StatusEvaluated: {
			EventApprove:     model.StatusApproved,
			EventAskMoreInfo: model.StatusNeedsInfo,
			EventReject:      model.StatusRejected,
		},
		model.StatusNeedsInfo: {EventReRegister: model.StatusRegistered},
		model.StatusApproved: {
			EventBegin:  model.StatusRunning,
			EventCancel: model.StatusCancelled,
		},
		model.StatusRunning: {
			EventStop:   model.StatusStopped,
			EventFinish: model.StatusFinished,
			EventCancel: model.StatusCancelled,
		},
		model.StatusStopped: {
			EventRestart: model.StatusRunning,
			EventCancel:  model.StatusCancelled,
		},
	}

	for _, from := range model.AllStatuses() {
		for _, ev := range allEvents {
			to, err := nextStatus(from, ev)
			if want, ok := allowed[from][ev]; ok {
				require.NoError(t, err, "%s + %s", from, ev)
				assert.Equal(t, want, to, "%s + %s", from, ev)
			} else {
				requireKind(t, err, apperr.KindInvalidTransition)
			}
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []model.StatusCode{model.StatusRejected, model.StatusFinished, model.StatusCancelled} {
		assert.Empty(t, transitions[terminal], "%s must be terminal", terminal)
	}
}

func TestApproveAppendsExactlyOneLedgerRow(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewLifecycleService(db, nil)
	p := registerProject(t, db, f, model.StatusEvaluated)

	before := ledgerCount(t, db, p.ID)
	updated, err := svc.Approve(p.ID, f.manager.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, updated.Status())
	assert.Equal(t, before+1, ledgerCount(t, db, p.ID))

	var last model.ProjectStatus
	require.NoError(t, db.Where("project_id = ?", p.ID).Order("id desc").First(&last).Error)
	assert.Equal(t, uint(model.StatusApproved), last.StatusID)
	assert.Equal(t, f.manager.ID, last.PersonID)
}

func TestApproveRejectedWhenNotEvaluated(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewLifecycleService(db, nil)
	p := registerProject(t, db, f, model.StatusRegistered)

	_, err := svc.Approve(p.ID, f.manager.ID)
	requireKind(t, err, apperr.KindInvalidTransition)
	assert.Equal(t, int64(1), ledgerCount(t, db, p.ID), "failed transition must not touch the ledger")
}

func TestRejectIsTerminal(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewLifecycleService(db, nil)
	p := registerProject(t, db, f, model.StatusEvaluated)

	updated, err := svc.Reject(p.ID, f.manager.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, updated.Status())

	_, err = svc.Approve(p.ID, f.manager.ID)
	requireKind(t, err, apperr.KindInvalidTransition)
	_, err = svc.Cancel(p.ID, f.manager.ID)
	requireKind(t, err, apperr.KindInvalidTransition)
}

func TestReRegisterDiscardsEvaluationsAndScore(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewLifecycleService(db, nil)
	p := registerProject(t, db, f, model.StatusNeedsInfo)

	score := 7.5
	require.NoError(t, db.Model(&p).Update("score", &score).Error)
	require.NoError(t, db.Create(&model.Evaluation{
		ProjectID: p.ID, CriterionID: f.criteria[0].ID, Value: 4.2,
	}).Error)

	updated, err := svc.ReRegister(p.ID, f.member.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRegistered, updated.Status())
	assert.Nil(t, updated.Score)

	var evals int64
	db.Model(&model.Evaluation{}).Where("project_id = ?", p.ID).Count(&evals)
	assert.Zero(t, evals)
}

func TestBeginSetsResponsibleAndStartDate(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewLifecycleService(db, nil)
	p := registerProject(t, db, f, model.StatusApproved)

	updated, err := svc.Begin(p.ID, f.manager.ID, f.member.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, updated.Status())
	require.NotNil(t, updated.ResponsibleID)
	assert.Equal(t, f.member.ID, *updated.ResponsibleID)
	assert.NotNil(t, updated.ActualStartDate)
}

func TestBeginRejectsResponsibleFromOtherOrganization(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewLifecycleService(db, nil)
	p := registerProject(t, db, f, model.StatusApproved)

	otherOrg := model.Organization{Name: "Globex"}
	require.NoError(t, db.Create(&otherOrg).Error)
	outsider := model.Person{
		OrganizationID: otherOrg.ID, Name: "Eve", Email: "eve@globex.test",
		PasswordHash: "x", Role: "member", Status: 1,
	}
	require.NoError(t, db.Create(&outsider).Error)

	_, err := svc.Begin(p.ID, f.manager.ID, outsider.ID)
	requireKind(t, err, apperr.KindValidation)

	var reloaded model.Project
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, model.StatusApproved, reloaded.Status(), "failed effect must roll back the transition")
}

func TestFinishRequiresFullCompletion(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewLifecycleService(db, nil)
	p := registerProject(t, db, f, model.StatusRunning)

	require.NoError(t, db.Model(&p).Update("completion", 99).Error)
	_, err := svc.Finish(p.ID, f.member.ID)
	requireKind(t, err, apperr.KindPrecondition)

	require.NoError(t, db.Model(&p).Update("completion", 100).Error)
	updated, err := svc.Finish(p.ID, f.member.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFinished, updated.Status())
	assert.NotNil(t, updated.ActualEndDate)
}

func TestStopRestartRoundTrip(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewLifecycleService(db, nil)
	p := registerProject(t, db, f, model.StatusRunning)

	stopped, err := svc.Stop(p.ID, f.member.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusStopped, stopped.Status())

	restarted, err := svc.Restart(p.ID, f.member.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, restarted.Status())

	assert.Equal(t, int64(3), ledgerCount(t, db, p.ID))
}

func TestConcurrentTransitionLosesWithConflict(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewLifecycleService(db, nil)
	p := registerProject(t, db, f, model.StatusApproved)

	// Flip the row out from under the CAS via the effect hook, standing in
	// for a concurrent transition committing first.
	_, err := svc.apply(p.ID, f.manager.ID, EventCancel, func(tx *gorm.DB, proj *model.Project, _ map[string]interface{}) error {
		return tx.Model(&model.Project{}).Where("id = ?", proj.ID).
			Update("status_id", uint(model.StatusRunning)).Error
	})
	requireKind(t, err, apperr.KindConflict)

	var reloaded model.Project
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, model.StatusApproved, reloaded.Status(), "conflict must roll everything back")
	assert.Equal(t, int64(1), ledgerCount(t, db, p.ID))
}
