package service

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"gorm.io/gorm"
)

type CriterionService struct {
	db *gorm.DB
}

func NewCriterionService(db *gorm.DB) *CriterionService {
	return &CriterionService{db: db}
}

func (s *CriterionService) Create(portfolioID uint, description string, weight float64, unitID uint) (*model.Criterion, error) {
	if weight <= 0 {
		return nil, apperr.Validation("weight must be positive, got %g", weight)
	}
	var portfolio model.Portfolio
	if err := s.db.First(&portfolio, portfolioID).Error; err != nil {
		return nil, wrapFind(err, "portfolio %d not found", portfolioID)
	}
	var count int64
	s.db.Model(&model.Unit{}).Where("id = ?", unitID).Count(&count)
	if count == 0 {
		return nil, apperr.Validation("unit %d does not exist", unitID)
	}

	criterion := &model.Criterion{
		PortfolioID: portfolioID,
		Description: description,
		Weight:      weight,
		UnitID:      unitID,
	}
	if err := s.db.Create(criterion).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return criterion, nil
}

func (s *CriterionService) GetByID(id uint) (*model.Criterion, error) {
	var criterion model.Criterion
	if err := s.db.Preload("Unit").First(&criterion, id).Error; err != nil {
		return nil, wrapFind(err, "criterion %d not found", id)
	}
	return &criterion, nil
}

func (s *CriterionService) Update(id uint, description string, weight float64, unitID uint) (*model.Criterion, error) {
	var criterion model.Criterion
	if err := s.db.First(&criterion, id).Error; err != nil {
		return nil, wrapFind(err, "criterion %d not found", id)
	}
	if weight <= 0 {
		return nil, apperr.Validation("weight must be positive, got %g", weight)
	}
	var count int64
	s.db.Model(&model.Unit{}).Where("id = ?", unitID).Count(&count)
	if count == 0 {
		return nil, apperr.Validation("unit %d does not exist", unitID)
	}

	if err := s.db.Model(&model.Criterion{}).Where("id = ?", id).Updates(map[string]interface{}{
		"description": description,
		"weight":      weight,
		"unit_id":     unitID,
	}).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return s.GetByID(id)
}

// Delete removes a criterion. Refused while evaluations reference it, since
// dropping the criterion would orphan recorded scores.
func (s *CriterionService) Delete(id uint) error {
	var criterion model.Criterion
	if err := s.db.First(&criterion, id).Error; err != nil {
		return wrapFind(err, "criterion %d not found", id)
	}
	var evaluations int64
	s.db.Model(&model.Evaluation{}).Where("criterion_id = ?", id).Count(&evaluations)
	if evaluations > 0 {
		return apperr.Conflict("criterion %d has %d recorded evaluations and cannot be deleted", id, evaluations)
	}
	if err := s.db.Delete(&model.Criterion{}, id).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// ListByPortfolio returns the portfolio's criteria in insertion order.
func (s *CriterionService) ListByPortfolio(portfolioID uint) ([]model.Criterion, error) {
	var criteria []model.Criterion
	if err := s.db.Preload("Unit").Where("portfolio_id = ?", portfolioID).
		Order("id asc").Find(&criteria).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return criteria, nil
}

// SumWeights reports the current weight sum and whether it satisfies the
// evaluation gate.
func (s *CriterionService) SumWeights(portfolioID uint) (float64, bool, error) {
	var criteria []model.Criterion
	if err := s.db.Where("portfolio_id = ?", portfolioID).Find(&criteria).Error; err != nil {
		return 0, false, apperr.Storage(err)
	}
	var sum float64
	for _, c := range criteria {
		sum += c.Weight
	}
	return sum, weightsSumToTotal(sum, model.WeightTotal), nil
}
