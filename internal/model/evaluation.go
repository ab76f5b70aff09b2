package model

import "time"

// Evaluation is one recorded score of a project against a criterion. Value is
// the already-weighted contribution (raw * weight / WeightTotal), not the raw
// grade. Rows are append-only; the unique index is the serialization point
// against concurrent double submits.
type Evaluation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProjectID      uint      `gorm:"not null;uniqueIndex:uk_project_criterion" json:"project_id"`
	CriterionID    uint      `gorm:"not null;uniqueIndex:uk_project_criterion" json:"criterion_id"`
	EvaluationDate time.Time `gorm:"not null" json:"evaluation_date"`
	Value          float64   `gorm:"not null" json:"value"`
	CreatedAt      time.Time `json:"created_at"`

	Criterion *Criterion `gorm:"foreignKey:CriterionID" json:"criterion,omitempty"`
}

func (Evaluation) TableName() string { return "evaluations" }
