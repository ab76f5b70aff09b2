package model

import (
	"time"

	"gorm.io/gorm"
)

type Portfolio struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"not null;index:idx_portfolio_org" json:"organization_id"`
	Name           string         `gorm:"type:varchar(128);not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Objective      string         `gorm:"type:text" json:"objective"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (Portfolio) TableName() string { return "portfolios" }
