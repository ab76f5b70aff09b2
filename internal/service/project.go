package service

import (
	"time"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// Register creates a project in REGISTERED state and writes the initial
// ledger row, atomically.
func (s *ProjectService) Register(portfolioID, submitterID uint, name, description, document string, plannedStart, plannedEnd time.Time) (*model.Project, error) {
	var portfolio model.Portfolio
	if err := s.db.First(&portfolio, portfolioID).Error; err != nil {
		return nil, wrapFind(err, "portfolio %d not found", portfolioID)
	}
	var submitter model.Person
	if err := s.db.First(&submitter, submitterID).Error; err != nil {
		return nil, wrapFind(err, "person %d not found", submitterID)
	}
	if !plannedEnd.After(plannedStart) {
		return nil, apperr.Validation("planned end date must be after the planned start date")
	}

	project := &model.Project{
		PortfolioID:      portfolioID,
		Name:             name,
		Description:      description,
		SubmitterID:      submitterID,
		StatusID:         uint(model.StatusRegistered),
		Completion:       0,
		PlannedStartDate: plannedStart,
		PlannedEndDate:   plannedEnd,
		Document:         document,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return apperr.Storage(err)
		}
		return appendStatus(tx, submitterID, project.ID, model.StatusRegistered, time.Now().UTC())
	})
	if err != nil {
		return nil, asAppErr(err)
	}
	return s.GetByID(project.ID)
}

func (s *ProjectService) GetByID(id uint) (*model.Project, error) {
	var project model.Project
	if err := s.db.Preload("Portfolio").Preload("Submitter").Preload("Responsible").Preload("Tasks").
		First(&project, id).Error; err != nil {
		return nil, wrapFind(err, "project %d not found", id)
	}
	return &project, nil
}

func (s *ProjectService) List(portfolioID *uint, status, keyword string, page, pageSize int) ([]model.Project, int64, error) {
	query := s.db.Model(&model.Project{})

	if portfolioID != nil {
		query = query.Where("portfolio_id = ?", *portfolioID)
	}
	if status != "" {
		code, ok := model.ParseStatus(status)
		if !ok {
			return nil, 0, apperr.Validation("unknown status %q", status)
		}
		query = query.Where("status_id = ?", uint(code))
	}
	if keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}

	var total int64
	query.Count(&total)

	var projects []model.Project
	if err := query.Preload("Submitter").Preload("Responsible").
		Order("updated_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&projects).Error; err != nil {
		return nil, 0, apperr.Storage(err)
	}
	return projects, total, nil
}

// Update edits the descriptive fields of a project. Only allowed while the
// project is REGISTERED or sent back as NEEDS_INFO.
func (s *ProjectService) Update(id uint, updates map[string]interface{}) (*model.Project, error) {
	var project model.Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, wrapFind(err, "project %d not found", id)
	}
	switch project.Status() {
	case model.StatusRegistered, model.StatusNeedsInfo:
	default:
		return nil, apperr.InvalidState("project %d is %s and can no longer be edited", id, project.Status())
	}
	if err := s.db.Model(&model.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return s.GetByID(id)
}

// UpdateProgress sets the completion percentage of a project in execution.
func (s *ProjectService) UpdateProgress(id uint, completion int) (*model.Project, error) {
	if completion < 0 || completion > 100 {
		return nil, apperr.Validation("completion must be between 0 and 100, got %d", completion)
	}
	var project model.Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, wrapFind(err, "project %d not found", id)
	}
	switch project.Status() {
	case model.StatusRunning, model.StatusStopped:
	default:
		return nil, apperr.InvalidState("progress can only be updated while RUNNING or STOPPED, project %d is %s", id, project.Status())
	}
	if err := s.db.Model(&model.Project{}).Where("id = ?", id).Update("completion", completion).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return s.GetByID(id)
}
