package model

import (
	"time"

	"gorm.io/gorm"
)

// WeightTotal is the fixed sum the active criterion weights of a portfolio
// must reach before any evaluation may start against it.
const WeightTotal = 10.0

type Criterion struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PortfolioID uint           `gorm:"not null;index:idx_criterion_portfolio" json:"portfolio_id"`
	Description string         `gorm:"type:varchar(256);not null" json:"description"`
	Weight      float64        `gorm:"not null" json:"weight"`
	UnitID      uint           `gorm:"not null;index:idx_criterion_unit" json:"unit_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Portfolio *Portfolio `gorm:"foreignKey:PortfolioID" json:"portfolio,omitempty"`
	Unit      *Unit      `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
}

func (Criterion) TableName() string { return "criteria" }
