package model

import (
	"time"

	"gorm.io/gorm"
)

type Person struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"not null;index:idx_person_org" json:"organization_id"`
	Name           string         `gorm:"type:varchar(64);not null" json:"name"`
	Email          string         `gorm:"type:varchar(128);uniqueIndex:idx_person_email;not null" json:"email"`
	PasswordHash   string         `gorm:"type:varchar(128);not null" json:"-"`
	Role           string         `gorm:"type:varchar(10);not null;default:member;index:idx_person_role" json:"role"`
	IsAdmin        bool           `gorm:"default:false" json:"is_admin"`
	Status         int            `gorm:"default:1" json:"status"`
	LastLoginAt    *time.Time     `json:"last_login_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (Person) TableName() string { return "persons" }

type PersonBrief struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

func (p *Person) Brief() PersonBrief {
	return PersonBrief{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Role:    p.Role,
		IsAdmin: p.IsAdmin,
	}
}
