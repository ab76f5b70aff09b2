package handler

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type PersonHandler struct {
	personService *service.PersonService
}

func NewPersonHandler(personService *service.PersonService) *PersonHandler {
	return &PersonHandler{personService: personService}
}

// POST /admin/persons
func (h *PersonHandler) Create(c *gin.Context) {
	var req struct {
		OrganizationID uint   `json:"organization_id" binding:"required"`
		Name           string `json:"name" binding:"required,max=64"`
		Email          string `json:"email" binding:"required,email"`
		Password       string `json:"password" binding:"required,min=8"`
		Role           string `json:"role" binding:"required,oneof=manager member"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	person, err := h.personService.Create(req.OrganizationID, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, person.Brief())
}

// GET /admin/persons
func (h *PersonHandler) List(c *gin.Context) {
	page, pageSize := parsePage(c)
	keyword := c.Query("keyword")
	role := c.Query("role")

	var organizationID *uint
	if s := c.Query("organization_id"); s != "" {
		v := parseID(s)
		organizationID = &v
	}

	persons, total, err := h.personService.List(organizationID, keyword, role, page, pageSize)
	if err != nil {
		renderError(c, err)
		return
	}

	list := make([]gin.H, 0, len(persons))
	for _, p := range persons {
		list = append(list, gin.H{
			"id":              p.ID,
			"name":            p.Name,
			"email":           p.Email,
			"role":            p.Role,
			"is_admin":        p.IsAdmin,
			"status":          p.Status,
			"organization_id": p.OrganizationID,
			"last_login_at":   p.LastLoginAt,
			"created_at":      p.CreatedAt,
		})
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// PUT /admin/persons/:id/role
func (h *PersonHandler) UpdateRole(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Role string `json:"role" binding:"required,oneof=manager member"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	person, err := h.personService.UpdateRole(id, req.Role)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, person.Brief())
}

// PUT /admin/persons/:id/status
func (h *PersonHandler) UpdateStatus(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Status *int `json:"status" binding:"required,oneof=0 1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	person, err := h.personService.UpdateStatus(id, *req.Status)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, gin.H{"id": person.ID, "status": person.Status})
}

// PUT /admin/persons/:id/admin
func (h *PersonHandler) ToggleAdmin(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		IsAdmin *bool `json:"is_admin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	person, err := h.personService.ToggleAdmin(id, *req.IsAdmin)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, gin.H{"id": person.ID, "is_admin": person.IsAdmin})
}
