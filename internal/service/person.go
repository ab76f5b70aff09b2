package service

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type PersonService struct {
	db *gorm.DB
}

func NewPersonService(db *gorm.DB) *PersonService {
	return &PersonService{db: db}
}

func (s *PersonService) Create(organizationID uint, name, email, password, role string) (*model.Person, error) {
	var org model.Organization
	if err := s.db.First(&org, organizationID).Error; err != nil {
		return nil, wrapFind(err, "organization %d not found", organizationID)
	}
	var count int64
	s.db.Model(&model.Person{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, apperr.Conflict("email %s is already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	person := &model.Person{
		OrganizationID: organizationID,
		Name:           name,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           role,
		Status:         1,
	}
	if err := s.db.Create(person).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return person, nil
}

func (s *PersonService) List(organizationID *uint, keyword, role string, page, pageSize int) ([]model.Person, int64, error) {
	query := s.db.Model(&model.Person{})
	if organizationID != nil {
		query = query.Where("organization_id = ?", *organizationID)
	}
	if keyword != "" {
		query = query.Where("name LIKE ? OR email LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	query.Count(&total)

	var persons []model.Person
	if err := query.Order("created_at desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&persons).Error; err != nil {
		return nil, 0, apperr.Storage(err)
	}
	return persons, total, nil
}

func (s *PersonService) UpdateRole(personID uint, role string) (*model.Person, error) {
	var person model.Person
	if err := s.db.First(&person, personID).Error; err != nil {
		return nil, wrapFind(err, "person %d not found", personID)
	}
	person.Role = role
	if err := s.db.Save(&person).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return &person, nil
}

func (s *PersonService) UpdateStatus(personID uint, status int) (*model.Person, error) {
	var person model.Person
	if err := s.db.First(&person, personID).Error; err != nil {
		return nil, wrapFind(err, "person %d not found", personID)
	}
	person.Status = status
	if err := s.db.Save(&person).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return &person, nil
}

func (s *PersonService) ToggleAdmin(personID uint, isAdmin bool) (*model.Person, error) {
	var person model.Person
	if err := s.db.First(&person, personID).Error; err != nil {
		return nil, wrapFind(err, "person %d not found", personID)
	}
	person.IsAdmin = isAdmin
	if err := s.db.Save(&person).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return &person, nil
}
