package service

import (
	"sort"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"gorm.io/gorm"
)

const (
	scaleBest  = 10.0
	scaleWorst = 0.0
)

type UnitService struct {
	db *gorm.DB
}

func NewUnitService(db *gorm.DB) *UnitService {
	return &UnitService{db: db}
}

func (s *UnitService) Create(description string, isManual bool) (*model.Unit, error) {
	unit := &model.Unit{Description: description, IsManual: isManual}
	if isManual {
		best, worst := scaleBest, scaleWorst
		unit.BestValue = &best
		unit.WorstValue = &worst
	}
	if err := s.db.Create(unit).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return unit, nil
}

func (s *UnitService) GetByID(id uint) (*model.Unit, error) {
	var unit model.Unit
	if err := s.db.First(&unit, id).Error; err != nil {
		return nil, wrapFind(err, "unit %d not found", id)
	}
	return &unit, nil
}

func (s *UnitService) List() ([]model.Unit, error) {
	var units []model.Unit
	if err := s.db.Order("id asc").Find(&units).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return units, nil
}

// Update edits a unit's description and kind. Switching customized→manual
// discards the linked grades and restores the fixed 10/0 bounds; manual→
// customized clears the bounds until RecomputeBestWorst runs over a new grade
// set.
func (s *UnitService) Update(id uint, description string, isManual bool) (*model.Unit, error) {
	var unit model.Unit
	if err := s.db.First(&unit, id).Error; err != nil {
		return nil, wrapFind(err, "unit %d not found", id)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"description": description,
			"is_manual":   isManual,
		}
		if isManual && !unit.IsManual {
			if err := deleteUnitGrades(tx, unit.ID); err != nil {
				return err
			}
			updates["best_value"] = scaleBest
			updates["worst_value"] = scaleWorst
			updates["best_grade_id"] = nil
			updates["worst_grade_id"] = nil
		}
		if !isManual && unit.IsManual {
			updates["best_value"] = nil
			updates["worst_value"] = nil
			updates["best_grade_id"] = nil
			updates["worst_grade_id"] = nil
		}
		if err := tx.Model(&model.Unit{}).Where("id = ?", unit.ID).Updates(updates).Error; err != nil {
			return apperr.Storage(err)
		}
		return nil
	})
	if err != nil {
		return nil, asAppErr(err)
	}
	return s.GetByID(id)
}

// Delete removes a unit. Refused while any criterion still references it; a
// customized unit takes its join rows and grades with it.
func (s *UnitService) Delete(id uint) error {
	var unit model.Unit
	if err := s.db.First(&unit, id).Error; err != nil {
		return wrapFind(err, "unit %d not found", id)
	}

	var inUse int64
	s.db.Model(&model.Criterion{}).Where("unit_id = ?", id).Count(&inUse)
	if inUse > 0 {
		return apperr.Conflict("unit %d is still referenced by %d criteria, reassign them first", id, inUse)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if !unit.IsManual {
			if err := deleteUnitGrades(tx, unit.ID); err != nil {
				return err
			}
		}
		if err := tx.Delete(&model.Unit{}, unit.ID).Error; err != nil {
			return apperr.Storage(err)
		}
		return nil
	})
	return asAppErrOrNil(err)
}

// AddGrade attaches a named grade to a customized unit.
func (s *UnitService) AddGrade(unitID uint, description string, numericValue float64) (*model.CustomizedGrade, error) {
	var unit model.Unit
	if err := s.db.First(&unit, unitID).Error; err != nil {
		return nil, wrapFind(err, "unit %d not found", unitID)
	}
	if unit.IsManual {
		return nil, apperr.Validation("unit %d uses the manual scale, grades cannot be added", unitID)
	}
	if numericValue < scaleWorst || numericValue > scaleBest {
		return nil, apperr.Validation("grade value %g is outside [%g, %g]", numericValue, scaleWorst, scaleBest)
	}

	grade := &model.CustomizedGrade{Description: description, NumericValue: numericValue}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(grade).Error; err != nil {
			return apperr.Storage(err)
		}
		if err := tx.Create(&model.UnityGrade{UnitID: unit.ID, GradeID: grade.ID}).Error; err != nil {
			return apperr.Storage(err)
		}
		return nil
	})
	if err != nil {
		return nil, asAppErr(err)
	}
	return grade, nil
}

func (s *UnitService) ListGrades(unitID uint) ([]model.CustomizedGrade, error) {
	var unit model.Unit
	if err := s.db.First(&unit, unitID).Error; err != nil {
		return nil, wrapFind(err, "unit %d not found", unitID)
	}
	return loadUnitGrades(s.db, unitID)
}

// RemoveGrade detaches and deletes one grade of a customized unit. Best/worst
// designations must be recomputed afterwards.
func (s *UnitService) RemoveGrade(unitID, gradeID uint) error {
	var join model.UnityGrade
	if err := s.db.Where("unit_id = ? AND grade_id = ?", unitID, gradeID).First(&join).Error; err != nil {
		return wrapFind(err, "grade %d is not linked to unit %d", gradeID, unitID)
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.UnityGrade{}, join.ID).Error; err != nil {
			return apperr.Storage(err)
		}
		if err := tx.Delete(&model.CustomizedGrade{}, gradeID).Error; err != nil {
			return apperr.Storage(err)
		}
		return tx.Model(&model.Unit{}).Where("id = ?", unitID).Updates(map[string]interface{}{
			"best_value":     nil,
			"worst_value":    nil,
			"best_grade_id":  nil,
			"worst_grade_id": nil,
		}).Error
	})
	return asAppErrOrNil(err)
}

// RecomputeBestWorst re-designates the best and worst grades of a customized
// unit from its current grade set. The set must have at least two grades and
// span exactly 0 and 10 for the unit to back evaluations.
func (s *UnitService) RecomputeBestWorst(unitID uint) (*model.Unit, error) {
	var unit model.Unit
	if err := s.db.First(&unit, unitID).Error; err != nil {
		return nil, wrapFind(err, "unit %d not found", unitID)
	}
	if unit.IsManual {
		return nil, apperr.Validation("unit %d uses the manual scale, nothing to recompute", unitID)
	}

	grades, err := loadUnitGrades(s.db, unitID)
	if err != nil {
		return nil, err
	}
	if err := validateGradeSet(unitID, grades); err != nil {
		return nil, err
	}

	best := grades[len(grades)-1]
	worst := grades[0]
	if err := s.db.Model(&model.Unit{}).Where("id = ?", unitID).Updates(map[string]interface{}{
		"best_value":     best.NumericValue,
		"worst_value":    worst.NumericValue,
		"best_grade_id":  best.ID,
		"worst_grade_id": worst.ID,
	}).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return s.GetByID(unitID)
}

// --- package helpers shared with the evaluation engine ---

func loadUnitGrades(tx *gorm.DB, unitID uint) ([]model.CustomizedGrade, error) {
	var grades []model.CustomizedGrade
	err := tx.Joins("JOIN unity_grades ON unity_grades.grade_id = customized_grades.id").
		Where("unity_grades.unit_id = ?", unitID).
		Find(&grades).Error
	if err != nil {
		return nil, apperr.Storage(err)
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].NumericValue < grades[j].NumericValue })
	return grades, nil
}

func validateGradeSet(unitID uint, grades []model.CustomizedGrade) error {
	if len(grades) < 2 {
		return apperr.Validation("unit %d has %d grades, at least 2 are required", unitID, len(grades))
	}
	hasWorst, hasBest := false, false
	for _, g := range grades {
		if g.NumericValue == scaleWorst {
			hasWorst = true
		}
		if g.NumericValue == scaleBest {
			hasBest = true
		}
	}
	if !hasWorst {
		return apperr.Validation("unit %d has no grade with value %g", unitID, scaleWorst)
	}
	if !hasBest {
		return apperr.Validation("unit %d has no grade with value %g", unitID, scaleBest)
	}
	return nil
}

// resolveScale turns a unit row into the always-valid Scale value the rest of
// the domain consumes. A customized unit whose grade set does not span 0..10
// cannot back an evaluation.
func resolveScale(tx *gorm.DB, unit *model.Unit) (model.Scale, error) {
	if unit.IsManual {
		return model.Scale{Kind: model.ScaleManual, Worst: scaleWorst, Best: scaleBest}, nil
	}
	grades, err := loadUnitGrades(tx, unit.ID)
	if err != nil {
		return model.Scale{}, err
	}
	if err := validateGradeSet(unit.ID, grades); err != nil {
		return model.Scale{}, err
	}
	return model.Scale{
		Kind:   model.ScaleCustomized,
		Worst:  grades[0].NumericValue,
		Best:   grades[len(grades)-1].NumericValue,
		Grades: grades,
	}, nil
}

func deleteUnitGrades(tx *gorm.DB, unitID uint) error {
	var joins []model.UnityGrade
	if err := tx.Where("unit_id = ?", unitID).Find(&joins).Error; err != nil {
		return apperr.Storage(err)
	}
	for _, j := range joins {
		if err := tx.Delete(&model.CustomizedGrade{}, j.GradeID).Error; err != nil {
			return apperr.Storage(err)
		}
	}
	if err := tx.Where("unit_id = ?", unitID).Delete(&model.UnityGrade{}).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}
