package service

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"gorm.io/gorm"
)

type PortfolioService struct {
	db *gorm.DB
}

func NewPortfolioService(db *gorm.DB) *PortfolioService {
	return &PortfolioService{db: db}
}

func (s *PortfolioService) Create(organizationID uint, name, description, objective string) (*model.Portfolio, error) {
	var org model.Organization
	if err := s.db.First(&org, organizationID).Error; err != nil {
		return nil, wrapFind(err, "organization %d not found", organizationID)
	}
	var count int64
	s.db.Model(&model.Portfolio{}).Where("organization_id = ? AND name = ?", organizationID, name).Count(&count)
	if count > 0 {
		return nil, apperr.Conflict("portfolio named %q already exists in organization %d", name, organizationID)
	}

	portfolio := &model.Portfolio{
		OrganizationID: organizationID,
		Name:           name,
		Description:    description,
		Objective:      objective,
	}
	if err := s.db.Create(portfolio).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return portfolio, nil
}

func (s *PortfolioService) GetByID(id uint) (*model.Portfolio, error) {
	var portfolio model.Portfolio
	if err := s.db.Preload("Organization").First(&portfolio, id).Error; err != nil {
		return nil, wrapFind(err, "portfolio %d not found", id)
	}
	return &portfolio, nil
}

func (s *PortfolioService) ListByOrganization(organizationID uint) ([]model.Portfolio, error) {
	var portfolios []model.Portfolio
	if err := s.db.Where("organization_id = ?", organizationID).Order("id asc").Find(&portfolios).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return portfolios, nil
}

func (s *PortfolioService) Update(id uint, name, description, objective string) (*model.Portfolio, error) {
	var portfolio model.Portfolio
	if err := s.db.First(&portfolio, id).Error; err != nil {
		return nil, wrapFind(err, "portfolio %d not found", id)
	}
	if err := s.db.Model(&model.Portfolio{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":        name,
		"description": description,
		"objective":   objective,
	}).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return s.GetByID(id)
}

// Delete removes a portfolio. Refused while it still owns projects or
// criteria.
func (s *PortfolioService) Delete(id uint) error {
	var portfolio model.Portfolio
	if err := s.db.First(&portfolio, id).Error; err != nil {
		return wrapFind(err, "portfolio %d not found", id)
	}
	var projects int64
	s.db.Model(&model.Project{}).Where("portfolio_id = ?", id).Count(&projects)
	if projects > 0 {
		return apperr.Conflict("portfolio %d still owns %d projects", id, projects)
	}
	var criteria int64
	s.db.Model(&model.Criterion{}).Where("portfolio_id = ?", id).Count(&criteria)
	if criteria > 0 {
		return apperr.Conflict("portfolio %d still owns %d criteria", id, criteria)
	}
	if err := s.db.Delete(&model.Portfolio{}, id).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}
