package model

import (
	"time"

	"gorm.io/gorm"
)

// Unit defines the grading scale behind one or more criteria. A manual unit is
// the fixed 0..10 range and is usable as soon as it exists. A customized unit
// is backed by CustomizedGrade rows linked through UnityGrade and is usable
// only once its grade set spans 0 and 10.
type Unit struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Description  string         `gorm:"type:varchar(128);not null" json:"description"`
	IsManual     bool           `gorm:"not null;default:false" json:"is_manual"`
	BestValue    *float64       `json:"best_value"`
	WorstValue   *float64       `json:"worst_value"`
	BestGradeID  *uint          `json:"best_grade_id"`
	WorstGradeID *uint          `json:"worst_grade_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Unit) TableName() string { return "units" }

type CustomizedGrade struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Description  string         `gorm:"type:varchar(128);not null" json:"description"`
	NumericValue float64        `gorm:"not null" json:"numeric_value"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CustomizedGrade) TableName() string { return "customized_grades" }

// UnityGrade links a customized unit to one of its grades.
type UnityGrade struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	UnitID  uint `gorm:"not null;uniqueIndex:uk_unit_grade" json:"unit_id"`
	GradeID uint `gorm:"not null;uniqueIndex:uk_unit_grade" json:"grade_id"`

	Grade *CustomizedGrade `gorm:"foreignKey:GradeID" json:"grade,omitempty"`
}

func (UnityGrade) TableName() string { return "unity_grades" }

type ScaleKind string

const (
	ScaleManual     ScaleKind = "manual"
	ScaleCustomized ScaleKind = "customized"
)

// Scale is the resolved, always-valid view of a unit's grading range. Services
// consume this instead of the nullable columns on Unit.
type Scale struct {
	Kind   ScaleKind
	Worst  float64
	Best   float64
	Grades []CustomizedGrade
}

func (s Scale) Contains(v float64) bool {
	return v >= s.Worst && v <= s.Best
}
