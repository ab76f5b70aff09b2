package service

import (
	"context"
	"time"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/notify"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/stream"
	"gorm.io/gorm"
)

// Event is a lifecycle action requested against a project.
type Event string

const (
	EventEvaluate    Event = "evaluate"
	EventApprove     Event = "approve"
	EventAskMoreInfo Event = "ask_more_info"
	EventReject      Event = "reject"
	EventReRegister  Event = "re_register"
	EventBegin       Event = "begin"
	EventStop        Event = "stop"
	EventRestart     Event = "restart"
	EventFinish      Event = "finish"
	EventCancel      Event = "cancel"
)

// transitions is the single source of truth for the state machine. Any
// (state, event) pair absent here is rejected centrally.
var transitions = map[model.StatusCode]map[Event]model.StatusCode{
	model.StatusRegistered: {
		EventEvaluate: model.StatusEvaluated,
	},
	model.StatusEvaluated: {
		EventApprove:     model.StatusApproved,
		EventAskMoreInfo: model.StatusNeedsInfo,
		EventReject:      model.StatusRejected,
	},
	model.StatusNeedsInfo: {
		EventReRegister: model.StatusRegistered,
	},
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

func nextStatus(from model.StatusCode, ev Event) (model.StatusCode, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	return 0, apperr.InvalidTransition("cannot %s a project in state %s", ev, from)
}

// appendStatus writes one ledger row. Called inside the same transaction as
// the status change so both commit or neither does.
func appendStatus(tx *gorm.DB, personID, projectID uint, status model.StatusCode, at time.Time) error {
	return tx.Create(&model.ProjectStatus{
		PersonID:    personID,
		ProjectID:   projectID,
		StatusID:    uint(status),
		ChangedTime: at,
	}).Error
}

type LifecycleService struct {
	db       *gorm.DB
	hub      *stream.Hub
	notifier notify.Notifier
}

func NewLifecycleService(db *gorm.DB, hub *stream.Hub) *LifecycleService {
	return &LifecycleService{db: db, hub: hub, notifier: notify.NoopNotifier{}}
}

func (s *LifecycleService) SetNotifier(n notify.Notifier) {
	s.notifier = n
}

// apply runs one guarded transition: resolve the target state, run the
// event-specific effect, compare-and-swap the status and append the ledger row
// in a single transaction. A CAS miss means a concurrent transition won and
// surfaces as a conflict.
func (s *LifecycleService) apply(projectID, personID uint, ev Event, effect func(tx *gorm.DB, p *model.Project, updates map[string]interface{}) error) (*model.Project, error) {
	var project model.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, wrapFind(err, "project %d not found", projectID)
	}
	var person model.Person
	if err := s.db.First(&person, personID).Error; err != nil {
		return nil, wrapFind(err, "person %d not found", personID)
	}

	to, err := nextStatus(project.Status(), ev)
	if err != nil {
		return nil, err
	}

	from := project.StatusID
	now := time.Now().UTC()
	updates := map[string]interface{}{"status_id": uint(to)}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if effect != nil {
			if err := effect(tx, &project, updates); err != nil {
				return err
			}
		}
		res := tx.Model(&model.Project{}).
			Where("id = ? AND status_id = ?", project.ID, from).
			Updates(updates)
		if res.Error != nil {
			return apperr.Storage(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("project %d was changed concurrently, retry", project.ID)
		}
		return appendStatus(tx, personID, project.ID, to, now)
	})
	if err != nil {
		return nil, asAppErr(err)
	}

	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	if s.hub != nil {
		s.hub.Broadcast(project.ID, stream.Event{
			Type: "status_changed",
			Data: map[string]interface{}{
				"project_id": project.ID,
				"status":     to.String(),
				"person_id":  personID,
				"changed_at": now,
			},
		})
	}
	s.afterTransition(&project, &person, to)

	return &project, nil
}

func (s *LifecycleService) afterTransition(p *model.Project, actor *model.Person, to model.StatusCode) {
	ctx := context.Background()
	switch to {
	case model.StatusApproved, model.StatusRejected, model.StatusNeedsInfo:
		_ = s.notifier.NotifyDecision(ctx, notify.DecisionEvent{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Decision:    to.String(),
			DeciderName: actor.Name,
		})
	case model.StatusFinished:
		_ = s.notifier.NotifyProjectFinished(ctx, notify.ProjectFinishedEvent{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Score:       p.Score,
		})
	}
}

func (s *LifecycleService) Approve(projectID, personID uint) (*model.Project, error) {
	return s.apply(projectID, personID, EventApprove, nil)
}

func (s *LifecycleService) AskMoreInfo(projectID, personID uint) (*model.Project, error) {
	return s.apply(projectID, personID, EventAskMoreInfo, nil)
}

func (s *LifecycleService) Reject(projectID, personID uint) (*model.Project, error) {
	return s.apply(projectID, personID, EventReject, nil)
}

// ReRegister moves a NEEDS_INFO project back to REGISTERED so the submitter
// can amend it. Recorded evaluations are discarded and the score cleared; the
// next evaluation round starts from scratch.
func (s *LifecycleService) ReRegister(projectID, personID uint) (*model.Project, error) {
	return s.apply(projectID, personID, EventReRegister, func(tx *gorm.DB, p *model.Project, updates map[string]interface{}) error {
		if err := tx.Where("project_id = ?", p.ID).Delete(&model.Evaluation{}).Error; err != nil {
			return apperr.Storage(err)
		}
		updates["score"] = nil
		return nil
	})
}

// Begin starts execution of an approved project. The responsible person must
// exist and belong to the same organization as the project's portfolio.
func (s *LifecycleService) Begin(projectID, personID, responsibleID uint) (*model.Project, error) {
	return s.apply(projectID, personID, EventBegin, func(tx *gorm.DB, p *model.Project, updates map[string]interface{}) error {
		var responsible model.Person
		if err := tx.First(&responsible, responsibleID).Error; err != nil {
			return wrapFind(err, "responsible person %d not found", responsibleID)
		}
		var portfolio model.Portfolio
		if err := tx.First(&portfolio, p.PortfolioID).Error; err != nil {
			return apperr.Storage(err)
		}
		if responsible.OrganizationID != portfolio.OrganizationID {
			return apperr.Validation("responsible person %d does not belong to organization %d", responsibleID, portfolio.OrganizationID)
		}
		updates["responsible_id"] = responsibleID
		updates["actual_start_date"] = time.Now().UTC()
		return nil
	})
}

func (s *LifecycleService) Stop(projectID, personID uint) (*model.Project, error) {
	return s.apply(projectID, personID, EventStop, nil)
}

func (s *LifecycleService) Restart(projectID, personID uint) (*model.Project, error) {
	return s.apply(projectID, personID, EventRestart, nil)
}

// Finish completes a running project. Guarded on full completion.
func (s *LifecycleService) Finish(projectID, personID uint) (*model.Project, error) {
	return s.apply(projectID, personID, EventFinish, func(tx *gorm.DB, p *model.Project, updates map[string]interface{}) error {
		if p.Completion != 100 {
			return apperr.Precondition("cannot finish project at %d%% completion, 100%% required", p.Completion)
		}
		updates["actual_end_date"] = time.Now().UTC()
		return nil
	})
}

func (s *LifecycleService) Cancel(projectID, personID uint) (*model.Project, error) {
	return s.apply(projectID, personID, EventCancel, nil)
}
