package service

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"gorm.io/gorm"
)

type OrganizationService struct {
	db *gorm.DB
}

func NewOrganizationService(db *gorm.DB) *OrganizationService {
	return &OrganizationService{db: db}
}

func (s *OrganizationService) Create(name, description string) (*model.Organization, error) {
	var count int64
	s.db.Model(&model.Organization{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return nil, apperr.Conflict("organization named %q already exists", name)
	}
	org := &model.Organization{Name: name, Description: description}
	if err := s.db.Create(org).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return org, nil
}

func (s *OrganizationService) GetByID(id uint) (*model.Organization, error) {
	var org model.Organization
	if err := s.db.First(&org, id).Error; err != nil {
		return nil, wrapFind(err, "organization %d not found", id)
	}
	return &org, nil
}

func (s *OrganizationService) List() ([]model.Organization, error) {
	var orgs []model.Organization
	if err := s.db.Order("id asc").Find(&orgs).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return orgs, nil
}

func (s *OrganizationService) Update(id uint, name, description string) (*model.Organization, error) {
	var org model.Organization
	if err := s.db.First(&org, id).Error; err != nil {
		return nil, wrapFind(err, "organization %d not found", id)
	}
	if err := s.db.Model(&model.Organization{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":        name,
		"description": description,
	}).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return s.GetByID(id)
}

func (s *OrganizationService) Delete(id uint) error {
	var org model.Organization
	if err := s.db.First(&org, id).Error; err != nil {
		return wrapFind(err, "organization %d not found", id)
	}
	var portfolios int64
	s.db.Model(&model.Portfolio{}).Where("organization_id = ?", id).Count(&portfolios)
	if portfolios > 0 {
		return apperr.Conflict("organization %d still owns %d portfolios", id, portfolios)
	}
	var persons int64
	s.db.Model(&model.Person{}).Where("organization_id = ?", id).Count(&persons)
	if persons > 0 {
		return apperr.Conflict("organization %d still has %d persons", id, persons)
	}
	if err := s.db.Delete(&model.Organization{}, id).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}
