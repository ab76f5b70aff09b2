package service

import (
	"testing"
	"time"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterWritesInitialLedgerRow(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewProjectService(db)

	start := time.Now().UTC()
	end := start.AddDate(0, 3, 0)
	p, err := svc.Register(f.portfolio.ID, f.member.ID, "CRM revamp", "replace the legacy CRM", "", start, end)
	require.NoError(t, err)

	assert.Equal(t, model.StatusRegistered, p.Status())
	assert.Nil(t, p.Score)
	assert.Zero(t, p.Completion)
	assert.Equal(t, int64(1), ledgerCount(t, db, p.ID))

	var row model.ProjectStatus
	require.NoError(t, db.Where("project_id = ?", p.ID).First(&row).Error)
	assert.Equal(t, uint(model.StatusRegistered), row.StatusID)
	assert.Equal(t, f.member.ID, row.PersonID)
}

func TestRegisterRejectsInvertedDates(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewProjectService(db)

	now := time.Now().UTC()
	_, err := svc.Register(f.portfolio.ID, f.member.ID, "CRM revamp", "", "", now, now)
	requireKind(t, err, apperr.KindValidation)
	_, err = svc.Register(f.portfolio.ID, f.member.ID, "CRM revamp", "", "", now, now.AddDate(0, 0, -1))
	requireKind(t, err, apperr.KindValidation)
}

func TestUpdateOnlyWhileEditable(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewProjectService(db)

	for _, status := range []model.StatusCode{model.StatusRegistered, model.StatusNeedsInfo} {
		p := registerProject(t, db, f, status)
		updated, err := svc.Update(p.ID, map[string]interface{}{"name": "renamed"})
		require.NoError(t, err, "status %s", status)
		assert.Equal(t, "renamed", updated.Name)
	}

	p := registerProject(t, db, f, model.StatusRunning)
	_, err := svc.Update(p.ID, map[string]interface{}{"name": "renamed"})
	requireKind(t, err, apperr.KindInvalidState)
}

func TestUpdateProgressGuards(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewProjectService(db)
	p := registerProject(t, db, f, model.StatusRunning)

	_, err := svc.UpdateProgress(p.ID, -1)
	requireKind(t, err, apperr.KindValidation)
	_, err = svc.UpdateProgress(p.ID, 101)
	requireKind(t, err, apperr.KindValidation)

	updated, err := svc.UpdateProgress(p.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Completion)

	registered := registerProject(t, db, f, model.StatusRegistered)
	_, err = svc.UpdateProgress(registered.ID, 40)
	requireKind(t, err, apperr.KindInvalidState)
}

func TestListFilters(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewProjectService(db)

	registerProject(t, db, f, model.StatusRegistered)
	running := registerProject(t, db, f, model.StatusRunning)
	require.NoError(t, db.Model(&running).Update("name", "Billing migration").Error)

	all, total, err := svc.List(&f.portfolio.ID, "", "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	onlyRunning, total, err := svc.List(nil, "RUNNING", "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, onlyRunning, 1)
	assert.Equal(t, running.ID, onlyRunning[0].ID)

	byName, _, err := svc.List(nil, "", "Billing", 1, 20)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, running.ID, byName[0].ID)

	_, _, err = svc.List(nil, "NOT_A_STATUS", "", 1, 20)
	requireKind(t, err, apperr.KindValidation)
}

func TestTaskRoundTrip(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewProjectService(db)
	p := registerProject(t, db, f, model.StatusRunning)

	task, err := svc.AddTask(p.ID, "write the data migration script")
	require.NoError(t, err)
	assert.False(t, task.Done)

	done, err := svc.SetTaskDone(task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Done)

	tasks, err := svc.ListTasks(p.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	require.NoError(t, svc.DeleteTask(task.ID))
	err = svc.DeleteTask(task.ID)
	requireKind(t, err, apperr.KindNotFound)
}
