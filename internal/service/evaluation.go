package service

import (
	"context"
	"errors"
	"time"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/notify"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/stream"
	"gorm.io/gorm"
)

type EvaluationService struct {
	db       *gorm.DB
	hub      *stream.Hub
	notifier notify.Notifier
}

func NewEvaluationService(db *gorm.DB, hub *stream.Hub) *EvaluationService {
	return &EvaluationService{db: db, hub: hub, notifier: notify.NoopNotifier{}}
}

func (s *EvaluationService) SetNotifier(n notify.Notifier) {
	s.notifier = n
}

// Evaluate records one weighted score for (project, criterion). When the last
// unscored criterion of the portfolio comes in, the project moves to EVALUATED
// with the aggregate score, atomically with the evaluation row and the ledger
// append. The unique index on (project_id, criterion_id) serializes concurrent
// double submits; the loser gets a conflict.
func (s *EvaluationService) Evaluate(projectID, criterionID, personID uint, date time.Time, rawValue float64) (*model.Evaluation, error) {
	var person model.Person
	if err := s.db.First(&person, personID).Error; err != nil {
		return nil, wrapFind(err, "person %d not found", personID)
	}

	var evaluation model.Evaluation
	var evaluated *model.Project

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.First(&project, projectID).Error; err != nil {
			return wrapFind(err, "project %d not found", projectID)
		}
		if project.Status() != model.StatusRegistered {
			return apperr.InvalidState("project %d is %s, evaluations are only accepted while REGISTERED", project.ID, project.Status())
		}

		var criterion model.Criterion
		if err := tx.First(&criterion, criterionID).Error; err != nil {
			return wrapFind(err, "criterion %d not found", criterionID)
		}
		if criterion.PortfolioID != project.PortfolioID {
			return apperr.Validation("criterion %d does not belong to portfolio %d", criterionID, project.PortfolioID)
		}

		// Weight-sum gate, checked against the same snapshot the aggregate
		// score will be computed from.
		var criteria []model.Criterion
		if err := tx.Where("portfolio_id = ?", project.PortfolioID).Order("id asc").Find(&criteria).Error; err != nil {
			return apperr.Storage(err)
		}
		var sum float64
		for _, c := range criteria {
			sum += c.Weight
		}
		if !weightsSumToTotal(sum, model.WeightTotal) {
			return apperr.Validation("criteria weights for portfolio %d sum to %g, expected %g", project.PortfolioID, sum, model.WeightTotal)
		}

		var unit model.Unit
		if err := tx.First(&unit, criterion.UnitID).Error; err != nil {
			return wrapFind(err, "unit %d not found", criterion.UnitID)
		}
		scale, err := resolveScale(tx, &unit)
		if err != nil {
			return err
		}
		if !scale.Contains(rawValue) {
			return apperr.Validation("value %g is outside the scale range [%g, %g] of unit %d", rawValue, scale.Worst, scale.Best, unit.ID)
		}

		evaluation = model.Evaluation{
			ProjectID:      project.ID,
			CriterionID:    criterion.ID,
			EvaluationDate: date,
			Value:          rawValue * criterion.Weight / model.WeightTotal,
		}
		if err := tx.Create(&evaluation).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("project %d already has an evaluation for criterion %d", project.ID, criterion.ID)
			}
			return apperr.Storage(err)
		}

		var count int64
		if err := tx.Model(&model.Evaluation{}).Where("project_id = ?", project.ID).Count(&count).Error; err != nil {
			return apperr.Storage(err)
		}
		if count != int64(len(criteria)) {
			return nil
		}

		// Last criterion scored: aggregate and advance the lifecycle.
		var score float64
		if err := tx.Model(&model.Evaluation{}).Where("project_id = ?", project.ID).
			Select("COALESCE(SUM(value), 0)").Scan(&score).Error; err != nil {
			return apperr.Storage(err)
		}
		to, err := nextStatus(project.Status(), EventEvaluate)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		res := tx.Model(&model.Project{}).
			Where("id = ? AND status_id = ?", project.ID, project.StatusID).
			Updates(map[string]interface{}{"status_id": uint(to), "score": score})
		if res.Error != nil {
			return apperr.Storage(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("project %d was changed concurrently, retry", project.ID)
		}
		if err := appendStatus(tx, personID, project.ID, to, now); err != nil {
			return apperr.Storage(err)
		}

		project.StatusID = uint(to)
		project.Score = &score
		evaluated = &project
		return nil
	})
	if err != nil {
		return nil, asAppErr(err)
	}

	if evaluated != nil {
		if s.hub != nil {
			s.hub.Broadcast(evaluated.ID, stream.Event{
				Type: "status_changed",
				Data: map[string]interface{}{
					"project_id": evaluated.ID,
					"status":     model.StatusEvaluated.String(),
					"person_id":  personID,
					"score":      *evaluated.Score,
				},
			})
		}
		var portfolio model.Portfolio
		s.db.First(&portfolio, evaluated.PortfolioID)
		_ = s.notifier.NotifyProjectEvaluated(context.Background(), notify.ProjectEvaluatedEvent{
			ProjectID:     evaluated.ID,
			ProjectName:   evaluated.Name,
			PortfolioName: portfolio.Name,
			Score:         *evaluated.Score,
		})
	}

	return &evaluation, nil
}

func (s *EvaluationService) ListByProject(projectID uint) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	if err := s.db.Preload("Criterion").Where("project_id = ?", projectID).
		Order("criterion_id asc").Find(&evaluations).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return evaluations, nil
}
