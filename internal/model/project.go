package model

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	PortfolioID      uint           `gorm:"not null;index:idx_project_portfolio" json:"portfolio_id"`
	Name             string         `gorm:"type:varchar(128);not null" json:"name"`
	Description      string         `gorm:"type:text" json:"description"`
	SubmitterID      uint           `gorm:"not null;index:idx_project_submitter" json:"submitter_id"`
	ResponsibleID    *uint          `gorm:"index:idx_project_responsible" json:"responsible_id"`
	StatusID         uint           `gorm:"not null;index:idx_project_status" json:"status_id"`
	Score            *float64       `json:"score"`
	Completion       int            `gorm:"not null;default:0" json:"completion"`
	PlannedStartDate time.Time      `gorm:"not null" json:"planned_start_date"`
	PlannedEndDate   time.Time      `gorm:"not null" json:"planned_end_date"`
	ActualStartDate  *time.Time     `json:"actual_start_date"`
	ActualEndDate    *time.Time     `json:"actual_end_date"`
	Document         string         `gorm:"type:varchar(512)" json:"document"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Portfolio   *Portfolio `gorm:"foreignKey:PortfolioID" json:"portfolio,omitempty"`
	Submitter   *Person    `gorm:"foreignKey:SubmitterID" json:"submitter,omitempty"`
	Responsible *Person    `gorm:"foreignKey:ResponsibleID" json:"responsible,omitempty"`
	Tasks       []Task     `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) Status() StatusCode { return StatusCode(p.StatusID) }

type Task struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ProjectID   uint           `gorm:"not null;index:idx_task_project" json:"project_id"`
	Description string         `gorm:"type:varchar(256);not null" json:"description"`
	Done        bool           `gorm:"not null;default:false" json:"done"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Task) TableName() string { return "tasks" }
