package service

import (
	"time"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	jwtpkg "github.com/CHFernandes/Opus-Fenestra-sub000/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	jwtExpire int
}

func NewAuthService(db *gorm.DB, jwtSecret string, jwtExpire int) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		jwtExpire: jwtExpire,
	}
}

func (s *AuthService) Login(email, password string) (*model.Person, string, time.Time, error) {
	var person model.Person
	if err := s.db.Where("email = ?", email).First(&person).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", time.Time{}, apperr.Unauthorized("invalid email or password")
		}
		return nil, "", time.Time{}, apperr.Storage(err)
	}
	if person.Status == 0 {
		return nil, "", time.Time{}, apperr.Forbidden("account is disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(person.PasswordHash), []byte(password)) != nil {
		return nil, "", time.Time{}, apperr.Unauthorized("invalid email or password")
	}

	now := time.Now()
	s.db.Model(&person).Update("last_login_at", &now)

	token, expireAt, err := jwtpkg.GenerateToken(s.jwtSecret, person.ID, person.Role, person.IsAdmin, s.jwtExpire)
	if err != nil {
		return nil, "", time.Time{}, apperr.Storage(err)
	}
	return &person, token, expireAt, nil
}

func (s *AuthService) GetPersonByID(id uint) (*model.Person, error) {
	var person model.Person
	if err := s.db.Preload("Organization").First(&person, id).Error; err != nil {
		return nil, wrapFind(err, "person %d not found", id)
	}
	return &person, nil
}

func (s *AuthService) RefreshToken(personID uint) (string, time.Time, error) {
	var person model.Person
	if err := s.db.First(&person, personID).Error; err != nil {
		return "", time.Time{}, wrapFind(err, "person %d not found", personID)
	}
	return jwtpkg.GenerateToken(s.jwtSecret, person.ID, person.Role, person.IsAdmin, s.jwtExpire)
}
