package service

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"gorm.io/gorm"
)

// HistoryService reads the append-only transition ledger. Writes happen only
// inside lifecycle transactions.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

func (s *HistoryService) ForProject(projectID uint) ([]model.ProjectStatus, error) {
	var history []model.ProjectStatus
	if err := s.db.Preload("Person").Preload("Status").
		Where("project_id = ?", projectID).
		Order("changed_time desc, id desc").
		Find(&history).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return history, nil
}

// Recent returns the last N transitions within an organization, newest first.
// organizationID 0 means no scoping.
func (s *HistoryService) Recent(organizationID uint, limit int) ([]model.ProjectStatus, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	q := s.db.Preload("Person").Preload("Status").Preload("Project")
	if organizationID != 0 {
		q = q.Where("project_id IN (SELECT id FROM projects WHERE portfolio_id IN (SELECT id FROM portfolios WHERE organization_id = ?))", organizationID)
	}
	var history []model.ProjectStatus
	if err := q.Order("changed_time desc, id desc").
		Limit(limit).
		Find(&history).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return history, nil
}

func (s *HistoryService) CountForProject(projectID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&model.ProjectStatus{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return 0, apperr.Storage(err)
	}
	return count, nil
}
