package handler

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/middleware"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	person, token, expireAt, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		renderError(c, err)
		return
	}

	Success(c, gin.H{
		"token":      token,
		"expires_at": expireAt,
		"person":     person.Brief(),
	})
}

// GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	person, err := h.authService.GetPersonByID(middleware.GetCurrentPersonID(c))
	if err != nil {
		renderError(c, err)
		return
	}

	data := gin.H{
		"id":              person.ID,
		"name":            person.Name,
		"email":           person.Email,
		"role":            person.Role,
		"is_admin":        person.IsAdmin,
		"organization_id": person.OrganizationID,
		"last_login_at":   person.LastLoginAt,
	}
	if person.Organization != nil {
		data["organization"] = gin.H{"id": person.Organization.ID, "name": person.Organization.Name}
	}
	Success(c, data)
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, expireAt, err := h.authService.RefreshToken(middleware.GetCurrentPersonID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, gin.H{"token": token, "expires_at": expireAt})
}
